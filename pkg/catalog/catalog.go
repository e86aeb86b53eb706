// Package catalog declares which kernel files make up each payload tier.
//
// A Catalog is built once at startup and handed to every component that
// needs file lists. It has no mutators; accessors return copies.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

var (
	// ErrInvalidSelector is returned for tier names outside mandatory, lazy and full.
	ErrInvalidSelector = errors.New("invalid tier")
	// ErrInvalidEntry is returned when a registry entry has a bad path or estimate.
	ErrInvalidEntry = errors.New("invalid catalog entry")
)

// Tier is a registry key. Tiers are declared in this order and accumulate.
type Tier string

const (
	Mandatory Tier = "mandatory"
	Lazy      Tier = "lazy"
	Extended  Tier = "extended"
)

var tierOrder = []Tier{Mandatory, Lazy, Extended}

// Selector is the user-facing tier choice.
type Selector string

const (
	SelectMandatory Selector = "mandatory"
	SelectLazy      Selector = "lazy"
	SelectFull      Selector = "full"
)

// Selectors returns the user-facing selectors in cumulative order.
func Selectors() []Selector {
	return []Selector{SelectMandatory, SelectLazy, SelectFull}
}

// ParseSelector validates a user-supplied tier name.
func ParseSelector(s string) (Selector, error) {
	switch sel := Selector(s); sel {
	case SelectMandatory, SelectLazy, SelectFull:
		return sel, nil
	}
	return "", fmt.Errorf("%w %q (want mandatory, lazy or full)", ErrInvalidSelector, s)
}

// tiers returns the registry keys a selector accumulates.
func (s Selector) tiers() []Tier {
	switch s {
	case SelectLazy:
		return tierOrder[:2]
	case SelectFull:
		return tierOrder
	default:
		return tierOrder[:1]
	}
}

// Entry is one registered kernel file and its planning estimate.
type Entry struct {
	Path   string // Slash-separated path relative to the project root
	Tokens int    // Statically declared token estimate
}

// Catalog maps each tier to its ordered entries.
type Catalog struct {
	entries map[Tier][]Entry
}

// Default returns the built-in kernel registry.
func Default() *Catalog {
	c, err := New(
		[]Entry{
			{Path: "memory.md", Tokens: 4600},
			{Path: "AGENTS.md", Tokens: 1200},
			{Path: "axioms.yaml", Tokens: 4800},
		},
		[]Entry{
			{Path: "personalities.md", Tokens: 3600},
			{Path: ".cursor/commands/COMMAND-MAP.md", Tokens: 1350},
		},
		[]Entry{
			{Path: "projects/README.md", Tokens: 1000},
			{Path: "KERNEL.yaml", Tokens: 500},
		},
	)
	if err != nil {
		panic(err) // built-in table is static
	}
	return c
}

// New builds a catalog from per-tier entry lists. Duplicate paths across
// tiers are accepted and will appear once per occurrence in payloads.
func New(mandatory, lazy, extended []Entry) (*Catalog, error) {
	c := &Catalog{entries: make(map[Tier][]Entry, len(tierOrder))}
	for i, list := range [][]Entry{mandatory, lazy, extended} {
		tier := tierOrder[i]
		for n, e := range list {
			if err := validateEntry(e); err != nil {
				return nil, fmt.Errorf("%s tier entry %d: %w", tier, n, err)
			}
		}
		c.entries[tier] = append([]Entry(nil), list...)
	}
	return c, nil
}

func validateEntry(e Entry) error {
	if strings.TrimSpace(e.Path) == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidEntry)
	}
	if !fs.ValidPath(e.Path) || e.Path == "." {
		return fmt.Errorf("%w: %q is not a clean relative path", ErrInvalidEntry, e.Path)
	}
	if e.Tokens <= 0 {
		return fmt.Errorf("%w: %q has non-positive token estimate %d", ErrInvalidEntry, e.Path, e.Tokens)
	}
	return nil
}

// Tiers returns the registry keys in declaration order.
func (c *Catalog) Tiers() []Tier {
	return append([]Tier(nil), tierOrder...)
}

// Tier returns the entries registered directly under one tier.
func (c *Catalog) Tier(t Tier) []Entry {
	return append([]Entry(nil), c.entries[t]...)
}

// Files returns the cumulative ordered entries for a selector.
func (c *Catalog) Files(s Selector) []Entry {
	var files []Entry
	for _, t := range s.tiers() {
		files = append(files, c.entries[t]...)
	}
	return files
}

// Estimate sums the static token estimates for a selector.
func (c *Catalog) Estimate(s Selector) int {
	total := 0
	for _, e := range c.Files(s) {
		total += e.Tokens
	}
	return total
}
