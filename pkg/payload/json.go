package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const jsonInstructions = "Feed this payload to any LLM as system prompt or context. " +
	"The model will boot into Capturebox NL-OS mode. " +
	"After loading, the model should acknowledge: " +
	"'" + Acknowledgment + "'"

type jsonPayload struct {
	Metadata     jsonMetadata `json:"metadata"`
	Instructions string       `json:"instructions"`
	Files        []jsonFile   `json:"files"`
}

type jsonMetadata struct {
	Generated            string `json:"generated"`
	Generator            string `json:"generator"`
	Tier                 string `json:"tier"`
	TotalEstimatedTokens int    `json:"total_estimated_tokens"` // chars/4 approximation
	FileCount            int    `json:"file_count"`
}

type jsonFile struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

func renderJSON(doc Document, generated time.Time, generator string) (string, error) {
	p := jsonPayload{
		Metadata: jsonMetadata{
			Generated:            generated.Format(time.RFC3339),
			Generator:            generator,
			Tier:                 string(doc.Tier),
			TotalEstimatedTokens: doc.ApproxTokens(),
			FileCount:            len(doc.Sections),
		},
		Instructions: jsonInstructions,
		Files:        make([]jsonFile, 0, len(doc.Sections)),
	}
	for _, s := range doc.Sections {
		p.Files = append(p.Files, jsonFile{Filename: s.File, Content: s.Content})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return "", fmt.Errorf("encode json payload: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
