package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderStatusBarFitsWidth(t *testing.T) {
	long := strings.Repeat("Ostrzeżenie: limit zapytań ", 10)
	for _, w := range []int{40, 80, 120} {
		bar := RenderStatusBar(w, long, StatusWarning, "^g send  F1 help")
		if got := lipgloss.Width(bar); got != w {
			t.Errorf("width %d: rendered %d cells", w, got)
		}
	}
}

func TestRenderStatusBarDropsHintsWhenNarrow(t *testing.T) {
	bar := RenderStatusBar(20, "Ready", StatusInfo, "a very long list of key hints")
	if strings.Contains(bar, "hints") {
		t.Fatalf("hints should be dropped: %q", bar)
	}
	if !strings.Contains(bar, "Ready") {
		t.Fatalf("message missing: %q", bar)
	}
}

func TestPickerCycles(t *testing.T) {
	p := NewPicker("Model", "^o", []string{"a", "b", "c"}, "b")
	if p.Selected() != "b" {
		t.Fatalf("Selected = %q, want b", p.Selected())
	}
	p = p.Next().Next()
	if p.Selected() != "a" {
		t.Fatalf("after wrap Selected = %q, want a", p.Selected())
	}
	p = p.Prev()
	if p.Selected() != "c" {
		t.Fatalf("Prev Selected = %q, want c", p.Selected())
	}
	if got := NewPicker("x", "", nil, "").Next().Selected(); got != "" {
		t.Fatalf("empty picker Selected = %q", got)
	}
}
