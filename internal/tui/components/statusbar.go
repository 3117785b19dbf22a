package components

import (
	"strings"

	"github.com/assistify/assistify/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// StatusKind selects the status message color.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusBusy
	StatusSuccess
	StatusWarning
	StatusError
)

// RenderStatusBar renders the bottom status bar: the message on the left,
// key hints on the right. The message is truncated first when space runs out.
func RenderStatusBar(width int, message string, kind StatusKind, hints string) string {
	t := theme.Active

	color := t.TextMuted
	switch kind {
	case StatusBusy:
		color = t.Yellow
	case StatusSuccess:
		color = t.Green
	case StatusWarning:
		color = t.Orange
	case StatusError:
		color = t.Red
	}

	msgStyle := lipgloss.NewStyle().Foreground(color)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	right := ""
	if hints != "" {
		right = hints + " "
	}
	rightW := runewidth.StringWidth(right)
	if rightW > width/2 {
		right, rightW = "", 0
	}

	// Status messages are single-line
	message = strings.Join(strings.Fields(message), " ")
	room := max(width-rightW-2, 1)
	left := " " + runewidth.Truncate(message, room, "…")

	padding := max(width-runewidth.StringWidth(left)-rightW, 0)

	return msgStyle.Render(left) + strings.Repeat(" ", padding) + hintStyle.Render(right)
}
