package loader

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deniedFS fails every open with a permission error.
type deniedFS struct{}

func (deniedFS) Open(name string) (fs.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
}

func TestReadExistingFile(t *testing.T) {
	l := New(fstest.MapFS{
		"memory.md": {Data: []byte("# Memory\n")},
	}, nil)

	res, err := l.Read("memory.md")
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, "# Memory\n", res.Content)
	assert.Equal(t, "memory.md", res.Path)
}

func TestReadNestedFile(t *testing.T) {
	l := New(fstest.MapFS{
		".cursor/commands/COMMAND-MAP.md": {Data: []byte("map")},
	}, nil)

	res, err := l.Read(".cursor/commands/COMMAND-MAP.md")
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, "map", res.Content)
}

func TestReadMissingFileReturnsPlaceholder(t *testing.T) {
	l := New(fstest.MapFS{}, nil)

	res, err := l.Read("projects/README.md")
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, "# File not found: projects/README.md\n", res.Content)
	assert.Contains(t, res.Content, "File not found: projects/README.md")
}

func TestReadPermissionErrorIsFatal(t *testing.T) {
	l := New(deniedFS{}, nil)

	_, err := l.Read("memory.md")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrPermission)
}

func TestReadDirectoryIsFatal(t *testing.T) {
	l := New(fstest.MapFS{
		"projects/README.md": {Data: []byte("x")},
	}, nil)

	_, err := l.Read("projects")
	assert.Error(t, err)
}

func TestStat(t *testing.T) {
	l := New(fstest.MapFS{
		"AGENTS.md": {Data: []byte("12345")},
	}, nil)

	st, err := l.Stat("AGENTS.md")
	require.NoError(t, err)
	assert.Equal(t, Status{Path: "AGENTS.md", Size: 5, Found: true}, st)

	st, err = l.Stat("missing.md")
	require.NoError(t, err)
	assert.False(t, st.Found)

	_, err = New(deniedFS{}, nil).Stat("AGENTS.md")
	assert.ErrorIs(t, err, fs.ErrPermission)
}

func TestFileInPlaceOfParentDirectoryCountsAsMissing(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "projects"), []byte("x"), 0o644))
	l := New(os.DirFS(root), nil)

	res, err := l.Read("projects/README.md")
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, Placeholder("projects/README.md"), res.Content)

	st, err := l.Stat("projects/README.md")
	require.NoError(t, err)
	assert.False(t, st.Found)
}

func TestReadRejectsInvalidUTF8(t *testing.T) {
	l := New(fstest.MapFS{
		"memory.md": {Data: []byte{'o', 'k', 0xff, 0xfe}},
	}, nil)

	_, err := l.Read("memory.md")
	assert.ErrorIs(t, err, ErrNotText)
}
