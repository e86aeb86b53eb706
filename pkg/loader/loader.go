// File: pkg/loader/loader.go
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Result is the outcome of reading one kernel file. A missing file is not an
// error: Found is false and Content holds the placeholder text.
type Result struct {
	Path    string // Path relative to the project root
	Content string // File contents, or the placeholder when missing
	Found   bool   // False when the file does not exist
}

// Status describes a kernel file on disk without reading it.
type Status struct {
	Path  string // Path relative to the project root
	Size  int64  // Size in bytes when found
	Found bool   // False when the file does not exist
}

// ErrNotText is returned when a kernel file is not valid UTF-8.
var ErrNotText = errors.New("not valid UTF-8 text")

// Placeholder returns the text substituted for a missing file.
func Placeholder(path string) string {
	return fmt.Sprintf("# File not found: %s\n", path)
}

// Loader reads kernel files from a project root.
type Loader struct {
	fsys   fs.FS
	logger *zap.Logger
}

// New returns a Loader over fsys, typically os.DirFS(root).
func New(fsys fs.FS, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{fsys: fsys, logger: logger}
}

// Read returns the file contents. Errors other than "does not exist" are
// returned and callers treat them as fatal, as is content that is not UTF-8.
func (l *Loader) Read(path string) (Result, error) {
	data, err := fs.ReadFile(l.fsys, path)
	if err != nil {
		if isNotFound(err) {
			l.logger.Warn("Kernel file not found, using placeholder", zap.String("path", path))
			return Result{Path: path, Content: Placeholder(path)}, nil
		}
		l.logger.Error("Failed to read kernel file", zap.String("path", path), zap.Error(err))
		return Result{}, fmt.Errorf("read %s: %w", path, err)
	}

	if !utf8.Valid(data) {
		l.logger.Error("Kernel file is not UTF-8 text", zap.String("path", path))
		return Result{}, fmt.Errorf("read %s: %w", path, ErrNotText)
	}

	l.logger.Debug("Read kernel file", zap.String("path", path), zap.Int("sizeBytes", len(data)))
	return Result{Path: path, Content: string(data), Found: true}, nil
}

// Stat reports whether a file exists and its size.
func (l *Loader) Stat(path string) (Status, error) {
	info, err := fs.Stat(l.fsys, path)
	if err != nil {
		if isNotFound(err) {
			return Status{Path: path}, nil
		}
		l.logger.Error("Failed to stat kernel file", zap.String("path", path), zap.Error(err))
		return Status{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return Status{Path: path, Size: info.Size(), Found: true}, nil
}

// isNotFound also covers ENOTDIR: a file sitting where a parent directory of
// the path should be means the path itself does not exist.
func isNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
