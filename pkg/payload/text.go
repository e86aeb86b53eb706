package payload

import "strings"

// renderText concatenates contents with a blank line between files.
func renderText(doc Document) string {
	parts := make([]string, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		parts = append(parts, s.Content)
	}
	return strings.Join(parts, "\n\n")
}
