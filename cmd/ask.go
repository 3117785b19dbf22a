package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/assistify/assistify/internal/cli"
	"github.com/assistify/assistify/internal/config"
	"github.com/assistify/assistify/internal/pipeline"
	"github.com/assistify/assistify/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	askModel    string
	askTemplate string
	askFile     string
	askURL      string
	askRender   bool
)

var askCmd = &cobra.Command{
	Use:   "ask [text...]",
	Short: "Send one request and print the response",
	Long: `Send one request and print the response.

Input is read from the arguments, --file, --url, or stdin, in that order.`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askModel, "model", "m", "", "Model id (default: default_model)")
	askCmd.Flags().StringVarP(&askTemplate, "template", "t", "", "Template id (default: default_template)")
	askCmd.Flags().StringVarP(&askFile, "file", "f", "", "Read input from a file")
	askCmd.Flags().StringVarP(&askURL, "url", "u", "", "Load input from an article URL")
	askCmd.Flags().BoolVarP(&askRender, "render", "r", false, "Render the response as markdown")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	theme.SetActive(cfg.Theme)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	svc, cleanup := newService(cfg, stderrLogger())
	defer cleanup()

	req := pipeline.Request{Model: askModel, Template: askTemplate}
	if err := chooseModelAndTemplate(cfg, &req); err != nil {
		return err
	}

	req.Input, err = readAskInput(ctx, svc, cmd.InOrStdin(), args)
	if err != nil {
		return errors.New(svc.Status(err))
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  %s\n", cfg.UI.Waiting)
	}
	res, err := svc.Generate(ctx, req)
	if err != nil {
		return errors.New(svc.Status(err))
	}

	out := res.Exchange.Output
	if askRender {
		out = cli.RenderMarkdown(out, theme.Active.GlamourStyle(), terminalWidth())
	}
	fmt.Println(out)

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "\n  %s\n", res.Status())
		if res.ArchiveErr != nil {
			fmt.Fprintf(os.Stderr, "  %s %v\n", cfg.UI.Warning, res.ArchiveErr)
		}
		if res.ArchivePath != "" {
			fmt.Fprintf(os.Stderr, "  Archived to %s\n", res.ArchivePath)
		}
	}
	return nil
}

// chooseModelAndTemplate fills unset ids from the defaults, asking with a
// select form when running on a terminal.
func chooseModelAndTemplate(cfg *config.Config, req *pipeline.Request) error {
	interactive := term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))

	var fields []huh.Field
	if req.Model == "" {
		req.Model = cfg.ModelIDs()[0]
		if interactive && len(cfg.Models) > 1 {
			fields = append(fields, huh.NewSelect[string]().
				Title("Model").
				Options(huh.NewOptions(cfg.ModelIDs()...)...).
				Value(&req.Model))
		}
	}
	if req.Template == "" {
		req.Template = cfg.TemplateIDs()[0]
		if interactive && len(cfg.Templates) > 1 {
			fields = append(fields, huh.NewSelect[string]().
				Title("Template").
				Options(huh.NewOptions(cfg.TemplateIDs()...)...).
				Value(&req.Template))
		}
	}
	if len(fields) == 0 {
		return nil
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return fmt.Errorf("selection: %w", err)
	}
	return nil
}

type articleLoader interface {
	LoadArticle(ctx context.Context, rawURL string) (string, error)
}

func readAskInput(ctx context.Context, loader articleLoader, stdin io.Reader, args []string) (string, error) {
	switch {
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case askFile != "":
		data, err := os.ReadFile(askFile)
		if err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}
		return string(data), nil
	case askURL != "":
		text, err := loader.LoadArticle(ctx, askURL)
		if err != nil {
			return "", err
		}
		return text, nil
	}

	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintln(os.Stderr, "  Reading input from stdin, end with Ctrl+D")
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return min(w, 120)
}
