// Package components provides reusable TUI widgets for the assistify screen.
package components

import (
	"github.com/assistify/assistify/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// LayoutRow distributes totalWidth into n widths that sum to exactly totalWidth.
// First items absorb the remainder from integer division.
func LayoutRow(totalWidth, n int) []int {
	if n <= 0 {
		return nil
	}
	base := totalWidth / n
	remainder := totalWidth % n
	widths := make([]int, n)
	for i := range widths {
		widths[i] = base
		if i < remainder {
			widths[i]++
		}
	}
	return widths
}

// Panel renders a bordered panel with an optional title.
// outerWidth is the total rendered width including border; a focused panel
// gets the accent border.
func Panel(title, body string, outerWidth int, focused bool) string {
	t := theme.Active

	contentWidth := max(outerWidth-2, 10) // subtract border

	border := t.Border
	titleColor := t.TextMuted
	if focused {
		border = t.BorderAccent
		titleColor = t.Accent
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(contentWidth).
		Padding(0, 1)

	titleStyle := lipgloss.NewStyle().
		Foreground(titleColor).
		Bold(true)

	content := ""
	if title != "" {
		content = titleStyle.Render(title) + "\n"
	}
	content += body

	return cardStyle.Render(content)
}

// PanelRow joins pre-rendered panels horizontally.
func PanelRow(panels []string) string {
	if len(panels) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panels...)
}

// PanelInnerWidth returns the usable text width inside a Panel
// given its outer width (subtracts border + padding).
func PanelInnerWidth(outerWidth int) int {
	return max(outerWidth-4, 10) // 2 border + 2 padding
}

// PanelChromeHeight is the number of lines a titled Panel adds around its body.
const PanelChromeHeight = 3
