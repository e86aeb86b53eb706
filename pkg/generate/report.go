package generate

import (
	"fmt"
	"strings"

	"github.com/cantone/nlos/pkg/catalog"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// Verify prints the status of every registered file, tier by tier. It
// returns ErrMandatoryMissing when any mandatory file is absent; missing
// lazy or extended files are only reported.
func (g *Generator) Verify() error {
	fmt.Fprintln(g.out, g.styles.heading.Render("Verifying kernel files..."))
	fmt.Fprintln(g.out)

	var missing []string
	for _, tier := range g.catalog.Tiers() {
		fmt.Fprintf(g.out, "  %s tier:\n", strings.ToUpper(string(tier)))
		for _, e := range g.catalog.Tier(tier) {
			st, err := g.loader.Stat(e.Path)
			if err != nil {
				return err
			}
			if st.Found {
				fmt.Fprintln(g.out, g.styles.ok.Render(
					fmt.Sprintf("    [x] %s (%s bytes)", e.Path, humanize.Comma(st.Size))))
				continue
			}
			fmt.Fprintln(g.out, g.styles.missing.Render(
				fmt.Sprintf("    [ ] %s (MISSING)", e.Path)))
			if tier == catalog.Mandatory {
				missing = append(missing, e.Path)
			}
		}
		fmt.Fprintln(g.out)
	}

	if len(missing) > 0 {
		g.logger.Debug("Mandatory kernel files missing", zap.Strings("files", missing))
		return fmt.Errorf("%w: %s", ErrMandatoryMissing, strings.Join(missing, ", "))
	}
	return nil
}

// Tokens prints the static registry estimates for each selector. It reads
// nothing from disk.
func (g *Generator) Tokens() error {
	for _, sel := range catalog.Selectors() {
		fmt.Fprintln(g.out)
		fmt.Fprintln(g.out, g.styles.tier.Render(fmt.Sprintf("%s tier: ~%s tokens",
			strings.ToUpper(string(sel)), comma(g.catalog.Estimate(sel)))))
		for _, e := range g.catalog.Files(sel) {
			fmt.Fprintf(g.out, "  - %s: ~%s\n", e.Path, comma(e.Tokens))
		}
	}
	return nil
}

func comma(n int) string {
	return humanize.Comma(int64(n))
}
