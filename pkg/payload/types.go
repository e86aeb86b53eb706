package payload

import (
	"errors"
	"fmt"

	"github.com/cantone/nlos/pkg/catalog"
)

// ErrInvalidFormat is returned for output formats other than markdown, json and text.
var ErrInvalidFormat = errors.New("invalid format")

// Format is an output serialization.
type Format string

const (
	Markdown Format = "markdown"
	JSON     Format = "json"
	Text     Format = "text"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case Markdown, JSON, Text:
		return f, nil
	}
	return "", fmt.Errorf("%w %q (want markdown, json or text)", ErrInvalidFormat, s)
}

// Extension returns the file extension used for the format.
func (f Format) Extension() string {
	if f == Markdown {
		return "md"
	}
	return string(f)
}

// Section is one loaded kernel file inside a payload.
type Section struct {
	File            string // Catalog path of the file
	Content         string // Loaded text or placeholder
	EstimatedTokens int    // Registry estimate for the file
	Chars           int    // Character count of Content
	Found           bool   // False when Content is the placeholder
}

// ApproxTokens is the chars/4 approximation for the section.
func (s Section) ApproxTokens() int {
	return approxTokens(s.Chars)
}

// Document is a rendered payload.
type Document struct {
	Tier     catalog.Selector
	Format   Format
	Sections []Section
	Body     string
}

// ApproxTokens sums the per-section chars/4 approximations. It is not a
// tokenizer count and is never reconciled with EstimatedTokens.
func (d Document) ApproxTokens() int {
	total := 0
	for _, s := range d.Sections {
		total += s.ApproxTokens()
	}
	return total
}

// EstimatedTokens sums the registry estimates of the included files.
func (d Document) EstimatedTokens() int {
	total := 0
	for _, s := range d.Sections {
		total += s.EstimatedTokens
	}
	return total
}

// approxTokens uses roughly four characters per token.
func approxTokens(chars int) int {
	return chars / 4
}
