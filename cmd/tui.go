package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/assistify/assistify/internal/tui"
	"github.com/assistify/assistify/internal/tui/theme"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive assistant",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	theme.SetActive(cfg.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	// stderr belongs to the alt screen, so logs go to a file or nowhere
	logger := log.New(io.Discard, "", 0)
	if os.Getenv("ASSISTIFY_DEBUG") != "" {
		f, err := tea.LogToFile("debug.log", "assistify")
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer func() { _ = f.Close() }()
		logger = log.Default()
	}

	svc, cleanup := newService(cfg, logger)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := tui.NewApp(ctx, svc, clipboard.WriteAll)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
