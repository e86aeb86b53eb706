package cmd

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cantone/nlos/pkg/catalog"
	"github.com/cantone/nlos/pkg/generate"
	"github.com/cantone/nlos/pkg/payload"
	"github.com/cantone/nlos/pkg/version"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := NewRootCmd(nil)
	c.SetOut(&out)
	c.SetErr(&out)
	c.SetArgs(args)
	err := c.Execute()
	return out.String(), err
}

func writeKernel(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("content of "+f+"\n"), 0o644))
	}
}

func TestInvalidTierFailsBeforeIO(t *testing.T) {
	root := t.TempDir()
	out, err := run(t, "--root", root, "--tier", "extended")
	require.ErrorIs(t, err, catalog.ErrInvalidSelector)
	assert.Contains(t, out, "Usage:")
	assert.NoDirExists(t, filepath.Join(root, "portable"))
}

func TestInvalidFormatFailsBeforeIO(t *testing.T) {
	root := t.TempDir()
	_, err := run(t, "--root", root, "--format", "yaml")
	require.ErrorIs(t, err, payload.ErrInvalidFormat)
	assert.NoDirExists(t, filepath.Join(root, "portable"))
}

func TestModesAreMutuallyExclusive(t *testing.T) {
	root := t.TempDir()
	_, err := run(t, "--root", root, "--all", "--verify")
	require.Error(t, err)
	assert.NoDirExists(t, filepath.Join(root, "portable"))
}

func TestUnknownFlag(t *testing.T) {
	_, err := run(t, "--bogus")
	assert.Error(t, err)
}

func TestVerifyMode(t *testing.T) {
	root := t.TempDir()

	out, err := run(t, "--root", root, "--verify")
	assert.ErrorIs(t, err, generate.ErrMandatoryMissing)
	assert.Contains(t, out, "[ ] memory.md (MISSING)")

	writeKernel(t, root, "memory.md", "AGENTS.md", "axioms.yaml")
	out, err = run(t, "--root", root, "--verify")
	require.NoError(t, err)
	assert.Contains(t, out, "[x] axioms.yaml (")
	assert.Contains(t, out, "[ ] KERNEL.yaml (MISSING)")
}

func TestTokensMode(t *testing.T) {
	root := t.TempDir()
	out, err := run(t, "--root", root, "--tokens")
	require.NoError(t, err)
	assert.Contains(t, out, "MANDATORY tier: ~10,600 tokens")
	assert.NoDirExists(t, filepath.Join(root, "portable"))
}

// openCounter wraps os.DirFS and counts every Open.
type openCounter struct {
	fs.FS
	opens int
}

func (o *openCounter) Open(name string) (fs.File, error) {
	o.opens++
	return o.FS.Open(name)
}

func TestTokensModeReadsNoKernelFiles(t *testing.T) {
	root := t.TempDir()
	writeKernel(t, root, "memory.md", "AGENTS.md", "axioms.yaml")
	counter := &openCounter{}

	var out bytes.Buffer
	c := newRootCmd(nil, func(dir string) fs.FS {
		counter.FS = os.DirFS(dir)
		return counter
	})
	c.SetOut(&out)
	c.SetArgs([]string{"--root", root, "--tokens"})
	require.NoError(t, c.Execute())

	assert.Zero(t, counter.opens)
	assert.Contains(t, out.String(), "FULL tier: ~17,050 tokens")

	// the same wiring does read kernel files when generating
	c = newRootCmd(nil, func(dir string) fs.FS {
		counter.FS = os.DirFS(dir)
		return counter
	})
	c.SetOut(&out)
	c.SetArgs([]string{"--root", root})
	require.NoError(t, c.Execute())
	assert.Equal(t, 3, counter.opens)
}

func TestDefaultSingleMode(t *testing.T) {
	root := t.TempDir()
	writeKernel(t, root, "memory.md", "AGENTS.md")

	out, err := run(t, "--root", root)
	require.NoError(t, err)

	path := filepath.Join(root, "portable", "kernel-payload.md")
	assert.Contains(t, out, "Generated mandatory kernel payload: "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "content of memory.md")
	assert.Contains(t, string(data), "File not found: axioms.yaml")
}

func TestSingleWithExplicitOutput(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(t.TempDir(), "out", "payload.txt")

	_, err := run(t, "--root", root, "--tier", "full", "--format", "text", "--output", target)
	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, 7, strings.Count(string(data), "File not found:"))
}

func TestAllMode(t *testing.T) {
	root := t.TempDir()
	out, err := run(t, "--root", root, "--all")
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(root, "portable"))
	require.NoError(t, err)
	assert.Len(t, entries, 4)
	assert.Contains(t, out, "Generated 4 payload files in ")
}

func TestProjectConfig(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".nlos.yaml"), []byte(`
output_dir: dist
base_name: boot
tiers:
  mandatory:
    - path: core.md
      tokens: 42
`), 0o644))
	writeKernel(t, root, "core.md")

	out, err := run(t, "--root", root, "--tokens")
	require.NoError(t, err)
	assert.Contains(t, out, "MANDATORY tier: ~42 tokens")

	_, err = run(t, "--root", root, "--format", "json")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "dist", "boot.json"))
}

func TestRootFromEnv(t *testing.T) {
	root := t.TempDir()
	t.Setenv("NLOS_ROOT", root)

	_, err := run(t, "--tier", "lazy")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "portable", "kernel-payload-lazy.md"))
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, version.Version+"\n", out)

	out, err = run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, version.AppName+" "+version.Version+" ("), out)
}
