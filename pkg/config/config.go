// Package config loads the optional .nlos.yaml project file.
//
// The file can move the output directory, rename the generated payloads and
// replace the built-in kernel catalog. A missing file means defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cantone/nlos/pkg/catalog"

	"gopkg.in/yaml.v3"
)

const (
	// FileName is the project config looked up in the project root.
	FileName = ".nlos.yaml"

	// RootEnv overrides the project root when --root is not given.
	RootEnv = "NLOS_ROOT"

	DefaultOutputDir = "portable"
	DefaultBaseName  = "kernel-payload"
	DefaultGenerator = "nlos-payload"
)

// EntryConfig is one catalog entry in YAML form.
type EntryConfig struct {
	Path   string `yaml:"path"`
	Tokens int    `yaml:"tokens"`
}

// TiersConfig replaces the built-in catalog when present.
type TiersConfig struct {
	Mandatory []EntryConfig `yaml:"mandatory"`
	Lazy      []EntryConfig `yaml:"lazy"`
	Extended  []EntryConfig `yaml:"extended"`
}

// Config models .nlos.yaml.
type Config struct {
	OutputDir string       `yaml:"output_dir"`
	BaseName  string       `yaml:"base_name"`
	Generator string       `yaml:"generator"`
	Tiers     *TiersConfig `yaml:"tiers,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		OutputDir: DefaultOutputDir,
		BaseName:  DefaultBaseName,
		Generator: DefaultGenerator,
	}
}

// Load reads the config at path. A missing file yields Default().
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if filepath.IsAbs(cfg.BaseName) || filepath.Base(cfg.BaseName) != cfg.BaseName {
		return Config{}, fmt.Errorf("config %s: base_name %q must be a plain file name", path, cfg.BaseName)
	}
	if _, err := cfg.Catalog(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.BaseName == "" {
		c.BaseName = DefaultBaseName
	}
	if c.Generator == "" {
		c.Generator = DefaultGenerator
	}
}

// Catalog builds the kernel catalog, falling back to catalog.Default().
func (c Config) Catalog() (*catalog.Catalog, error) {
	if c.Tiers == nil {
		return catalog.Default(), nil
	}
	return catalog.New(entries(c.Tiers.Mandatory), entries(c.Tiers.Lazy), entries(c.Tiers.Extended))
}

// OutputPath resolves the output directory against the project root.
func (c Config) OutputPath(root string) string {
	if filepath.IsAbs(c.OutputDir) {
		return c.OutputDir
	}
	return filepath.Join(root, c.OutputDir)
}

func entries(list []EntryConfig) []catalog.Entry {
	out := make([]catalog.Entry, 0, len(list))
	for _, e := range list {
		out = append(out, catalog.Entry{Path: e.Path, Tokens: e.Tokens})
	}
	return out
}

// ResolveRoot picks the project root: the flag value, then $NLOS_ROOT, then
// the working directory. The result is absolute.
func ResolveRoot(flagValue string) (string, error) {
	root := flagValue
	if root == "" {
		root = os.Getenv(RootEnv)
	}
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve project root %q: %w", root, err)
	}
	return abs, nil
}
