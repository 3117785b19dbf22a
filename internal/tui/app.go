// Package tui provides the interactive Bubble Tea screen for assistify.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/assistify/assistify/internal/article"
	"github.com/assistify/assistify/internal/chat"
	"github.com/assistify/assistify/internal/cli"
	"github.com/assistify/assistify/internal/config"
	"github.com/assistify/assistify/internal/pipeline"
	"github.com/assistify/assistify/internal/prompt"
	"github.com/assistify/assistify/internal/tui/components"
	"github.com/assistify/assistify/internal/tui/theme"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// articleLoadedMsg is sent when an article fetch finishes.
type articleLoadedMsg struct {
	text string
	err  error
}

// responseMsg is sent when an exchange finishes.
type responseMsg struct {
	res *pipeline.Result
	err error
}

type focusArea int

const (
	focusURL focusArea = iota
	focusInput
	focusResponse
	focusCount
)

const (
	minTerminalWidth = 60
	maxContentWidth  = 160
	// fixedWidth and the fixed heights apply when resizable_window is off
	fixedWidth          = 100
	fixedInputHeight    = 8
	fixedResponseHeight = 14
	minPaneHeight       = 3

	// title row + picker row + URL panel + status bar
	headerHeight = 2
	urlPanelH    = 4
	statusHeight = 1
)

// App is the root Bubble Tea model.
type App struct {
	svc    *pipeline.Service
	cfg    *config.Config
	ctx    context.Context
	copyFn func(string) error

	keys           keyMap
	modelPicker    components.Picker
	templatePicker components.Picker
	url            textinput.Model
	input          textarea.Model
	response       viewport.Model
	spinner        spinner.Model

	focus      focusArea
	output     string // raw response text
	status     string
	statusKind components.StatusKind
	generating bool
	fetching   bool
	showHelp   bool

	width  int
	height int
}

// NewApp creates the TUI model. copyFn backs the manual copy binding and
// may be nil.
func NewApp(ctx context.Context, svc *pipeline.Service, copyFn func(string) error) App {
	cfg := svc.Config()
	t := theme.Active

	url := textinput.New()
	url.Prompt = ""
	url.Placeholder = cfg.UI.MessageURL
	url.Width = 40

	input := textarea.New()
	input.Placeholder = cfg.UI.MessageInput
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.Prompt = ""

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(t.Accent)

	a := App{
		svc:            svc,
		cfg:            cfg,
		ctx:            ctx,
		copyFn:         copyFn,
		keys:           defaultKeyMap(),
		modelPicker:    components.NewPicker("Model", "^o", cfg.ModelIDs(), cfg.DefaultModel),
		templatePicker: components.NewPicker("Template", "^t", cfg.TemplateIDs(), cfg.DefaultTemplate),
		url:            url,
		input:          input,
		response:       viewport.New(fixedWidth, fixedResponseHeight),
		spinner:        sp,
		focus:          focusInput,
		status:         cfg.UI.Ready,
	}
	a.input.Focus()
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle(a.cfg.UI.Title),
		textarea.Blink,
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()
		return a, nil

	case spinner.TickMsg:
		if !a.generating && !a.fetching {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case articleLoadedMsg:
		a.fetching = false
		if msg.err != nil {
			a.setStatusErr(msg.err)
			if msg.text != "" {
				a.input.SetValue(msg.text)
			}
			return a, nil
		}
		a.input.SetValue(msg.text)
		a.setStatus(a.cfg.UI.Ready, components.StatusInfo)
		cmd := a.setFocus(focusInput)
		return a, cmd

	case responseMsg:
		a.generating = false
		if msg.err != nil {
			a.setStatusErr(msg.err)
			return a, nil
		}
		a.output = msg.res.Exchange.Output
		a.renderResponse()
		a.response.GotoTop()

		status, kind := msg.res.Status(), components.StatusSuccess
		if msg.res.ArchiveErr != nil {
			status += " " + a.cfg.UI.Separator + " " + a.cfg.UI.Warning + " " +
				chat.Truncate(msg.res.ArchiveErr.Error(), chat.DisplayLimit)
			kind = components.StatusWarning
		}
		a.setStatus(status, kind)
		return a, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		a.response, cmd = a.response.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a.updateFocused(msg)
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.Quit) {
		return a, tea.Quit
	}

	if key.Matches(msg, a.keys.Help) {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Generate):
		return a.startGenerate()

	case key.Matches(msg, a.keys.LoadArticle),
		a.focus == focusURL && msg.Type == tea.KeyEnter:
		return a.startLoadArticle()

	case key.Matches(msg, a.keys.NextModel):
		a.modelPicker = a.modelPicker.Next()
		return a, nil

	case key.Matches(msg, a.keys.NextTemplate):
		a.templatePicker = a.templatePicker.Next()
		return a, nil

	case key.Matches(msg, a.keys.PrevModel):
		a.modelPicker = a.modelPicker.Prev()
		return a, nil

	case key.Matches(msg, a.keys.PrevTemplate):
		a.templatePicker = a.templatePicker.Prev()
		return a, nil

	case key.Matches(msg, a.keys.NextFocus):
		cmd := a.setFocus((a.focus + 1) % focusCount)
		return a, cmd

	case key.Matches(msg, a.keys.PrevFocus):
		cmd := a.setFocus((a.focus - 1 + focusCount) % focusCount)
		return a, cmd

	case key.Matches(msg, a.keys.Copy):
		a.copyResponse()
		return a, nil

	case key.Matches(msg, a.keys.Clear):
		a.input.Reset()
		a.setStatus(a.cfg.UI.Ready, components.StatusInfo)
		return a, nil
	}

	return a.updateFocused(msg)
}

// startGenerate dispatches the exchange unless one is already running.
func (a App) startGenerate() (tea.Model, tea.Cmd) {
	if a.generating {
		return a, nil
	}
	a.generating = true
	a.setStatus(a.cfg.UI.Waiting, components.StatusBusy)

	req := pipeline.Request{
		Model:    a.modelPicker.Selected(),
		Template: a.templatePicker.Selected(),
		Input:    a.input.Value(),
	}
	return a, tea.Batch(generateCmd(a.ctx, a.svc, req), a.spinner.Tick)
}

// startLoadArticle dispatches the fetch unless one is already running.
func (a App) startLoadArticle() (tea.Model, tea.Cmd) {
	if a.fetching {
		return a, nil
	}
	a.fetching = true
	a.setStatus(a.cfg.UI.Waiting, components.StatusBusy)
	return a, tea.Batch(loadArticleCmd(a.ctx, a.svc, a.url.Value()), a.spinner.Tick)
}

func (a *App) copyResponse() {
	if a.output == "" || a.copyFn == nil {
		return
	}
	if err := a.copyFn(a.output); err != nil {
		a.setStatus(a.cfg.UI.Error+" "+err.Error(), components.StatusError)
		return
	}
	a.setStatus(a.cfg.UI.Copied, components.StatusSuccess)
}

func (a App) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.focus {
	case focusURL:
		a.url, cmd = a.url.Update(msg)
	case focusInput:
		a.input, cmd = a.input.Update(msg)
	case focusResponse:
		a.response, cmd = a.response.Update(msg)
	}
	return a, cmd
}

// setFocus moves focus, clearing placeholder text left in the input area.
func (a *App) setFocus(f focusArea) tea.Cmd {
	a.focus = f
	a.url.Blur()
	a.input.Blur()

	switch f {
	case focusURL:
		return a.url.Focus()
	case focusInput:
		if isSentinel(a.input.Value(), a.cfg.UI.InputSentinels()) {
			a.input.Reset()
		}
		return a.input.Focus()
	}
	return nil
}

func (a *App) setStatus(msg string, kind components.StatusKind) {
	a.status = msg
	a.statusKind = kind
}

func (a *App) setStatusErr(err error) {
	a.setStatus(a.svc.Status(err), statusKind(err))
}

// statusKind colors validation and provider errors as warnings and
// everything else as errors.
func statusKind(err error) components.StatusKind {
	var apiErr *chat.APIError
	switch {
	case errors.Is(err, prompt.ErrNoInput),
		errors.Is(err, article.ErrNoURL),
		errors.Is(err, article.ErrInvalidURL),
		errors.Is(err, pipeline.ErrBusy),
		errors.As(err, &apiErr):
		return components.StatusWarning
	case errors.Is(err, context.Canceled):
		return components.StatusInfo
	}
	return components.StatusError
}

func isSentinel(value string, sentinels []string) bool {
	value = strings.TrimSpace(value)
	for _, s := range sentinels {
		if s = strings.TrimSpace(s); s != "" && value == s {
			return true
		}
	}
	return false
}

// contentWidth is the full terminal width when the window is resizable,
// otherwise a fixed width.
func (a App) contentWidth() int {
	limit := maxContentWidth
	if !a.cfg.ResizableWindow {
		limit = fixedWidth
	}
	return min(a.width, limit)
}

// paneHeights splits the remaining height between input and response.
func (a App) paneHeights() (inputH, responseH int) {
	if !a.cfg.ResizableWindow {
		inputH, responseH = fixedInputHeight, fixedResponseHeight
	} else {
		avail := a.height - headerHeight - urlPanelH - statusHeight - 2*components.PanelChromeHeight
		inputH = avail * 2 / 5
		responseH = avail - inputH
	}
	return max(inputH, minPaneHeight), max(responseH, minPaneHeight)
}

// layout sizes the widgets for the current terminal.
func (a *App) layout() {
	inner := components.PanelInnerWidth(a.contentWidth())
	inputH, responseH := a.paneHeights()

	a.url.Width = inner - 1
	a.input.SetWidth(inner)
	a.input.SetHeight(inputH)
	a.response.Width = inner
	a.response.Height = responseH
	a.renderResponse()
}

func (a *App) renderResponse() {
	if a.output == "" {
		a.response.SetContent("")
		return
	}
	a.response.SetContent(cli.RenderMarkdown(a.output, theme.Active.GlamourStyle(), a.response.Width))
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	return fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  %s needs at least %d columns.\n",
		a.width, a.cfg.UI.Title, minTerminalWidth,
	)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")

	for _, group := range a.keys.fullHelp() {
		b.WriteString("\n")
		for _, bind := range group {
			h := bind.Help()
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-18s", h.Key)),
				descStyle.Render(h.Desc))
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()))
}

func (a App) viewMain() string {
	t := theme.Active
	cw := a.contentWidth()

	titleStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	pickerW := components.LayoutRow(cw, 2)
	pickers := components.PanelRow([]string{
		lipgloss.NewStyle().Width(pickerW[0]).Render(" " + a.modelPicker.View(pickerW[0]-1)),
		lipgloss.NewStyle().Width(pickerW[1]).Render(a.templatePicker.View(pickerW[1])),
	})

	urlTitle := a.cfg.UI.ButtonLoadArticle + "  ^l"
	inputTitle := a.cfg.UI.ButtonGenerate + "  ^g"
	responseTitle := a.modelPicker.Selected()
	if a.generating || a.fetching {
		responseTitle = a.spinner.View() + " " + a.cfg.UI.Waiting
	}

	var hints []string
	for _, bind := range a.keys.shortHelp() {
		h := bind.Help()
		hints = append(hints, h.Key+" "+h.Desc)
	}

	status := a.status
	if a.generating || a.fetching {
		status = a.spinner.View() + " " + status
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(" "+a.cfg.UI.Title),
		pickers,
		components.Panel(urlTitle, a.url.View(), cw, a.focus == focusURL),
		components.Panel(inputTitle, a.input.View(), cw, a.focus == focusInput),
		components.Panel(responseTitle, a.response.View(), cw, a.focus == focusResponse),
		components.RenderStatusBar(cw, status, a.statusKind, strings.Join(hints, "  ")),
	)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Top, body)
}

// ─── Commands ───────────────────────────────────────────────────

func generateCmd(ctx context.Context, svc *pipeline.Service, req pipeline.Request) tea.Cmd {
	return func() tea.Msg {
		res, err := svc.Generate(ctx, req)
		return responseMsg{res: res, err: err}
	}
}

func loadArticleCmd(ctx context.Context, svc *pipeline.Service, rawURL string) tea.Cmd {
	return func() tea.Msg {
		text, err := svc.LoadArticle(ctx, rawURL)
		return articleLoadedMsg{text: text, err: err}
	}
}
