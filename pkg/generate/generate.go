// Package generate implements the payload tool's modes: verify, tokens,
// batch generation of all variants and single payload generation.
package generate

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cantone/nlos/pkg/catalog"
	"github.com/cantone/nlos/pkg/loader"
	"github.com/cantone/nlos/pkg/payload"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// ErrMandatoryMissing is returned by Verify when a mandatory file is absent.
var ErrMandatoryMissing = errors.New("mandatory kernel files missing")

// batchTiers and batchFormats define the variants written by All.
var (
	batchTiers   = []catalog.Selector{catalog.SelectMandatory, catalog.SelectFull}
	batchFormats = []payload.Format{payload.Markdown, payload.JSON}
)

// Options holds everything a Generator needs.
type Options struct {
	Catalog   *catalog.Catalog
	Loader    *loader.Loader
	Renderer  *payload.Renderer
	OutputDir string    // Directory for derived output paths
	BaseName  string    // Base file name for derived output paths
	Stdout    io.Writer // Destination for user-facing report lines
	Logger    *zap.Logger
}

// Generator runs one mode per invocation.
type Generator struct {
	catalog   *catalog.Catalog
	loader    *loader.Loader
	renderer  *payload.Renderer
	outputDir string
	baseName  string
	out       io.Writer
	styles    styles
	logger    *zap.Logger
}

type styles struct {
	heading lipgloss.Style
	ok      lipgloss.Style
	missing lipgloss.Style
	tier    lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		heading: r.NewStyle().Foreground(lipgloss.Color("4")),
		ok:      r.NewStyle().Foreground(lipgloss.Color("2")),
		missing: r.NewStyle().Foreground(lipgloss.Color("1")),
		tier:    r.NewStyle().Foreground(lipgloss.Color("6")),
	}
}

// New returns a Generator. Renderer defaults to one built over Catalog and Loader.
func New(opts Options) *Generator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = payload.NewRenderer(opts.Catalog, opts.Loader, payload.WithLogger(logger))
	}
	baseName := opts.BaseName
	if baseName == "" {
		baseName = "kernel-payload"
	}
	return &Generator{
		catalog:   opts.Catalog,
		loader:    opts.Loader,
		renderer:  renderer,
		outputDir: opts.OutputDir,
		baseName:  baseName,
		out:       out,
		styles:    newStyles(out),
		logger:    logger,
	}
}

// OutputPath derives the default output path for a tier and format.
func (g *Generator) OutputPath(tier catalog.Selector, format payload.Format) string {
	suffix := ""
	if tier != catalog.SelectMandatory {
		suffix = "-" + string(tier)
	}
	return filepath.Join(g.outputDir, fmt.Sprintf("%s%s.%s", g.baseName, suffix, format.Extension()))
}

// Single renders one payload and writes it to output, or to the derived path
// when output is empty. It returns the path written.
func (g *Generator) Single(tier catalog.Selector, format payload.Format, output string) (string, error) {
	if output == "" {
		output = g.OutputPath(tier, format)
	}

	doc, err := g.write(tier, format, output)
	if err != nil {
		return "", err
	}

	fmt.Fprintf(g.out, "Generated %s kernel payload: %s\n", tier, output)
	fmt.Fprintf(g.out, "Estimated tokens: ~%s\n", comma(g.catalog.Estimate(tier)))
	fmt.Fprintf(g.out, "Approximate payload tokens (chars/4): ~%s\n", comma(doc.ApproxTokens()))
	return output, nil
}

// All writes every batch variant into the output directory.
func (g *Generator) All() ([]string, error) {
	var written []string
	for _, tier := range batchTiers {
		for _, format := range batchFormats {
			path := g.OutputPath(tier, format)
			if _, err := g.write(tier, format, path); err != nil {
				return written, err
			}
			written = append(written, path)
			fmt.Fprintln(g.out, g.styles.ok.Render("Generated: "+path))
		}
	}

	fmt.Fprintf(g.out, "\nGenerated %d payload files in %s/\n", len(written), g.outputDir)
	g.logger.Info("Generated all payload variants",
		zap.String("outputDir", g.outputDir),
		zap.Int("fileCount", len(written)))
	return written, nil
}

func (g *Generator) write(tier catalog.Selector, format payload.Format, path string) (payload.Document, error) {
	doc, err := g.renderer.Render(tier, format)
	if err != nil {
		return payload.Document{}, fmt.Errorf("render %s %s payload: %w", tier, format, err)
	}
	if err := ensureDirectory(filepath.Dir(path), g.logger); err != nil {
		return payload.Document{}, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := writeToFile(path, []byte(doc.Body), 0o644, g.logger); err != nil {
		return payload.Document{}, fmt.Errorf("failed to write payload: %w", err)
	}
	return doc, nil
}

// ensureDirectory ensures a directory exists, creating it if necessary.
func ensureDirectory(path string, logger *zap.Logger) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		logger.Error("Failed to create directory", zap.String("path", path), zap.Error(err))
		return err
	}
	logger.Debug("Ensured directory exists", zap.String("path", path))
	return nil
}

// writeToFile writes data to a file and logs the operation.
func writeToFile(path string, data []byte, perm os.FileMode, logger *zap.Logger) error {
	if err := os.WriteFile(path, data, perm); err != nil {
		logger.Error("Failed to write file", zap.String("path", path), zap.Error(err))
		return err
	}
	logger.Debug("Successfully wrote file", zap.String("path", path), zap.Int("sizeBytes", len(data)))
	return nil
}
