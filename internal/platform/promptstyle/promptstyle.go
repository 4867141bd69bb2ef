package promptstyle

import "strings"

const marker = "COURSEGEN_PROMPT_STYLE_V1"

const (
	ModeJSON = "json"
	ModeHTML = "html"
	ModeText = "text"
)

// ApplySystem prepends a short output-discipline block to a system prompt.
// Already styled prompts are returned unchanged.
func ApplySystem(system string, mode string) string {
	base := strings.TrimSpace(system)
	if base == "" {
		return base
	}
	if strings.Contains(base, marker) {
		return base
	}
	mode = strings.ToLower(strings.TrimSpace(mode))

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString("\nYou are an expert course author and educator.")
	b.WriteString("\nFollow the instructions precisely and output only the requested format.")
	b.WriteString("\nDo not add commentary before or after the output.")
	switch mode {
	case ModeJSON:
		b.WriteString("\nReturn only valid JSON. Do not wrap it in Markdown code fences.")
	case ModeHTML:
		b.WriteString("\nReturn only an HTML fragment. Do not include <html>, <head> or <body> tags and do not use Markdown.")
	default:
		b.WriteString("\nBe concise and structured.")
	}
	b.WriteString("\n---\n")
	b.WriteString(base)
	return strings.TrimSpace(b.String())
}
