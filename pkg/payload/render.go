// Package payload renders kernel files into a single pasteable document.
package payload

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/cantone/nlos/pkg/catalog"
	"github.com/cantone/nlos/pkg/loader"

	"go.uber.org/zap"
)

const (
	// DefaultGenerator identifies this tool in JSON metadata.
	DefaultGenerator = "nlos-payload"

	// Acknowledgment is the phrase a model is asked to reply with after loading.
	Acknowledgment = "Kernel loaded. Ready for capturebox operations."
)

// Reader is the subset of loader.Loader the renderer needs.
type Reader interface {
	Read(path string) (loader.Result, error)
}

// Renderer loads a tier's files and serializes them.
type Renderer struct {
	catalog   *catalog.Catalog
	reader    Reader
	now       func() time.Time
	generator string
	logger    *zap.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// WithGenerator sets the generator identifier written to JSON metadata.
func WithGenerator(name string) Option {
	return func(r *Renderer) {
		if name != "" {
			r.generator = name
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRenderer returns a Renderer over the given catalog and reader.
func NewRenderer(c *catalog.Catalog, reader Reader, opts ...Option) *Renderer {
	r := &Renderer{
		catalog:   c,
		reader:    reader,
		now:       time.Now,
		generator: DefaultGenerator,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render builds the payload for a tier in the requested format. Missing files
// degrade to placeholder text; any other read error aborts the render.
func (r *Renderer) Render(tier catalog.Selector, format Format) (Document, error) {
	sections, err := r.load(tier)
	if err != nil {
		return Document{}, err
	}
	doc := Document{Tier: tier, Format: format, Sections: sections}
	generated := r.now()

	switch format {
	case JSON:
		doc.Body, err = renderJSON(doc, generated, r.generator)
		if err != nil {
			return Document{}, err
		}
	case Text:
		doc.Body = renderText(doc)
	case Markdown, "":
		doc.Format = Markdown
		doc.Body = renderMarkdown(doc, generated)
	default:
		return Document{}, fmt.Errorf("%w %q", ErrInvalidFormat, format)
	}

	r.logger.Debug("Rendered payload",
		zap.String("tier", string(tier)),
		zap.String("format", string(doc.Format)),
		zap.Int("fileCount", len(sections)),
		zap.Int("approxTokens", doc.ApproxTokens()))
	return doc, nil
}

func (r *Renderer) load(tier catalog.Selector) ([]Section, error) {
	entries := r.catalog.Files(tier)
	sections := make([]Section, 0, len(entries))
	for _, e := range entries {
		res, err := r.reader.Read(e.Path)
		if err != nil {
			return nil, fmt.Errorf("load %s tier: %w", tier, err)
		}
		sections = append(sections, Section{
			File:            e.Path,
			Content:         res.Content,
			EstimatedTokens: e.Tokens,
			Chars:           utf8.RuneCountInString(res.Content),
			Found:           res.Found,
		})
	}
	return sections, nil
}
