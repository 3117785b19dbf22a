package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the screen's global bindings. Keys not bound here go to the
// focused widget.
type keyMap struct {
	Generate     key.Binding
	LoadArticle  key.Binding
	NextModel    key.Binding
	NextTemplate key.Binding
	PrevModel    key.Binding
	PrevTemplate key.Binding
	NextFocus    key.Binding
	PrevFocus    key.Binding
	Copy         key.Binding
	Clear        key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Generate: key.NewBinding(
			key.WithKeys("ctrl+g", "ctrl+s"),
			key.WithHelp("^g", "generate"),
		),
		LoadArticle: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("^l / enter in URL", "load article"),
		),
		NextModel: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("^o", "next model"),
		),
		NextTemplate: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("^t", "next template"),
		),
		PrevModel: key.NewBinding(
			key.WithKeys("alt+o"),
			key.WithHelp("alt+o", "previous model"),
		),
		PrevTemplate: key.NewBinding(
			key.WithKeys("alt+t"),
			key.WithHelp("alt+t", "previous template"),
		),
		NextFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevFocus: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("^y", "copy response"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("^x", "clear input"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("^c", "quit"),
		),
	}
}

// shortHelp is shown in the status bar.
func (k keyMap) shortHelp() []key.Binding {
	return []key.Binding{k.Generate, k.Help, k.Quit}
}

// fullHelp is shown in the help overlay, grouped by purpose.
func (k keyMap) fullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Generate, k.LoadArticle, k.Copy, k.Clear},
		{k.NextModel, k.PrevModel, k.NextTemplate, k.PrevTemplate},
		{k.NextFocus, k.PrevFocus},
		{k.Help, k.Quit},
	}
}
