package llm

import (
	"encoding/json"
	"strings"
)

// DecodeJSON unmarshals a model response into v after stripping any markdown
// code fence the model wrapped around the JSON object.
func DecodeJSON(content string, v any) error {
	return json.Unmarshal([]byte(StripMarkdownCodeBlock(content)), v)
}

// StripMarkdownCodeBlock removes markdown code block formatting if present
func StripMarkdownCodeBlock(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		firstNewline := strings.Index(content, "\n")
		if firstNewline == -1 {
			return content
		}

		closingBackticks := strings.LastIndex(content, "```")
		if closingBackticks == -1 || closingBackticks <= firstNewline {
			return content
		}

		content = content[firstNewline+1 : closingBackticks]
		content = strings.TrimSpace(content)
	}

	return content
}
