package payload

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const fence = "```"

const markdownUsage = `## How to Use This Payload

Feed this entire file as system prompt or context to any capable LLM.
The LLM will "boot" into Capturebox NL-OS mode.

### Supported Runtimes:
- Claude Code / Claude API
- Cursor IDE
- Ollama (any model)
- llama.cpp
- LM Studio
- OpenAI-compatible APIs
- Any LLM with system prompt capability

### After Loading

The model should acknowledge: **"` + Acknowledgment + `"**

### Quick Start

**Ollama:**
` + fence + `bash
ollama run qwen2.5:3b --system "$(cat portable/kernel-payload.md)"
` + fence + `

**LM Studio:**
1. Open LM Studio
2. Paste this file's contents into System Prompt
3. Start chatting

**API (OpenAI-compatible):**
` + fence + `python
messages = [
    {"role": "system", "content": open("portable/kernel-payload.md").read()},
    {"role": "user", "content": "Acknowledge kernel boot."}
]
` + fence + `

---

# KERNEL CONTEXT BEGINS

`

const markdownFooter = `
---

# KERNEL CONTEXT ENDS

After reading the above kernel context, acknowledge with:
"` + Acknowledgment + `"
`

// renderMarkdown writes the header, one section per file and the footer.
func renderMarkdown(doc Document, generated time.Time) string {
	var b strings.Builder

	b.WriteString("# Capturebox NL-OS Kernel Payload\n\n")
	fmt.Fprintf(&b, "**Generated**: %s\n", generated.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "**Tier**: %s\n", doc.Tier)
	fmt.Fprintf(&b, "**Estimated tokens**: ~%s\n", humanize.Comma(int64(doc.ApproxTokens())))
	fmt.Fprintf(&b, "**Files**: %d\n\n---\n\n", len(doc.Sections))
	b.WriteString(markdownUsage)

	parts := make([]string, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		parts = append(parts, fmt.Sprintf("---\n\n## %s\n\n%s\n", s.File, s.Content))
	}
	b.WriteString(strings.Join(parts, "\n"))

	b.WriteString(markdownFooter)
	return b.String()
}
