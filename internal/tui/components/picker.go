package components

import (
	"github.com/assistify/assistify/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Picker is a single-choice selector cycled with a hotkey.
type Picker struct {
	Label   string
	Hotkey  string // shown as a hint, e.g. "^o"
	Options []string
	Index   int
}

// NewPicker creates a picker positioned on selected, or on the first option
// when selected is not among options.
func NewPicker(label, hotkey string, options []string, selected string) Picker {
	p := Picker{Label: label, Hotkey: hotkey, Options: options}
	for i, o := range options {
		if o == selected {
			p.Index = i
			break
		}
	}
	return p
}

// Selected returns the current option, or "" when there are none.
func (p Picker) Selected() string {
	if p.Index < 0 || p.Index >= len(p.Options) {
		return ""
	}
	return p.Options[p.Index]
}

// Next moves to the following option, wrapping around.
func (p Picker) Next() Picker {
	if len(p.Options) > 0 {
		p.Index = (p.Index + 1) % len(p.Options)
	}
	return p
}

// Prev moves to the preceding option, wrapping around.
func (p Picker) Prev() Picker {
	if len(p.Options) > 0 {
		p.Index = (p.Index - 1 + len(p.Options)) % len(p.Options)
	}
	return p
}

// View renders "Label [^o] ‹ value ›" within width cells.
func (p Picker) View(width int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	dimKeyStyle := lipgloss.NewStyle().
		Foreground(t.TextDim)

	valueStyle := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Bold(true)

	prefix := labelStyle.Render(p.Label+" ") +
		dimKeyStyle.Render("[") + keyStyle.Render(p.Hotkey) + dimKeyStyle.Render("] ")

	room := width - lipgloss.Width(prefix) - 4 // arrows and spaces
	value := runewidth.Truncate(p.Selected(), max(room, 1), "…")

	return prefix + dimKeyStyle.Render("‹ ") + valueStyle.Render(value) + dimKeyStyle.Render(" ›")
}
