package cli

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders a model response for terminal display with the
// given glamour standard style ("dark", "light", "notty"). The input is
// returned unchanged when rendering fails.
func RenderMarkdown(text, style string, width int) string {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}
