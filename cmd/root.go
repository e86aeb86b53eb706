package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cantone/nlos/pkg/catalog"
	"github.com/cantone/nlos/pkg/config"
	"github.com/cantone/nlos/pkg/generate"
	"github.com/cantone/nlos/pkg/loader"
	"github.com/cantone/nlos/pkg/logging"
	"github.com/cantone/nlos/pkg/payload"
	"github.com/cantone/nlos/pkg/version"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const rootLong = `Generate portable NL-OS kernel payloads.

Assembles the kernel files of a project into one document that can be fed
to any LLM as system prompt or context.

Examples:
  nlos                      # Default mandatory markdown payload
  nlos --tier full          # Full kernel
  nlos --format json        # JSON for APIs
  nlos --all                # All variants
  nlos --verify             # Verify source files
  nlos --tokens             # Show token estimates only`

// flags collects the root command's flag values.
type flags struct {
	tier       string
	format     string
	output     string
	all        bool
	verify     bool
	tokens     bool
	root       string
	configPath string
	debug      bool
}

// app carries state between the cobra hooks of one invocation.
type app struct {
	flags  flags
	tier   catalog.Selector
	format payload.Format
	logger *zap.Logger

	// kernelFS opens the project root that kernel files are read from.
	kernelFS func(root string) fs.FS
}

// NewRootCmd builds the nlos command tree. logger is replaced by a
// development logger when --debug is set.
func NewRootCmd(logger *zap.Logger) *cobra.Command {
	return newRootCmd(logger, os.DirFS)
}

func newRootCmd(logger *zap.Logger, kernelFS func(root string) fs.FS) *cobra.Command {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &app{logger: logger, kernelFS: kernelFS}

	rootCmd := &cobra.Command{
		Use:           "nlos",
		Short:         "Generate portable NL-OS kernel payloads",
		Long:          rootLong,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !a.flags.debug {
				return nil
			}
			debugLogger, err := logging.New(true, version.AppName, version.Version)
			if err != nil {
				return fmt.Errorf("failed to initialize debug logger: %w", err)
			}
			a.logger = debugLogger
			return nil
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return a.parseChoices()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return a.run(cmd)
		},
	}

	f := rootCmd.Flags()
	f.StringVar(&a.flags.tier, "tier", string(catalog.SelectMandatory), "Payload tier: mandatory, lazy, full")
	f.StringVar(&a.flags.format, "format", string(payload.Markdown), "Output format: markdown, json, text")
	f.StringVar(&a.flags.output, "output", "", "Output file path (default: <root>/portable/kernel-payload.md)")
	f.BoolVar(&a.flags.all, "all", false, "Generate all tiers and formats")
	f.BoolVar(&a.flags.verify, "verify", false, "Verify all source files exist")
	f.BoolVar(&a.flags.tokens, "tokens", false, "Show token estimates only, don't generate")
	rootCmd.MarkFlagsMutuallyExclusive("all", "verify", "tokens")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.flags.root, "root", "", "Project root containing the kernel files (default: $"+config.RootEnv+" or the working directory)")
	pf.StringVar(&a.flags.configPath, "config", "", "Project config file (default: <root>/"+config.FileName+")")
	pf.BoolVar(&a.flags.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the command tree against os.Args.
func Execute(logger *zap.Logger) error {
	return NewRootCmd(logger).Execute()
}

// parseChoices validates enumerated flag values before any file I/O.
func (a *app) parseChoices() error {
	tier, err := catalog.ParseSelector(a.flags.tier)
	if err != nil {
		return err
	}
	format, err := payload.ParseFormat(a.flags.format)
	if err != nil {
		return err
	}
	a.tier, a.format = tier, format
	return nil
}

func (a *app) run(cmd *cobra.Command) error {
	g, err := a.generator(cmd)
	if err != nil {
		return err
	}

	switch {
	case a.flags.verify:
		return g.Verify()
	case a.flags.tokens:
		return g.Tokens()
	case a.flags.all:
		_, err := g.All()
		return err
	default:
		_, err := g.Single(a.tier, a.format, a.flags.output)
		return err
	}
}

// generator wires config, catalog, loader and renderer for the project root.
func (a *app) generator(cmd *cobra.Command) (*generate.Generator, error) {
	root, err := config.ResolveRoot(a.flags.root)
	if err != nil {
		return nil, err
	}
	// .nlos.yaml is read in every mode since it can redefine the catalog;
	// kernel files are only touched through the loader.
	cfgPath := a.flags.configPath
	if cfgPath == "" {
		cfgPath = filepath.Join(root, config.FileName)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	cat, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Resolved project",
		zap.String("root", root),
		zap.String("config", cfgPath),
		zap.String("outputDir", cfg.OutputPath(root)))

	l := loader.New(a.kernelFS(root), a.logger)
	return generate.New(generate.Options{
		Catalog: cat,
		Loader:  l,
		Renderer: payload.NewRenderer(cat, l,
			payload.WithGenerator(cfg.Generator),
			payload.WithLogger(a.logger)),
		OutputDir: cfg.OutputPath(root),
		BaseName:  cfg.BaseName,
		Stdout:    cmd.OutOrStdout(),
		Logger:    a.logger,
	}), nil
}
