package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/assistify/assistify/internal/article"
	"github.com/assistify/assistify/internal/config"
	"github.com/assistify/assistify/internal/pipeline"

	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch URL",
	Short: "Print the article text extracted from a page",
	Args:  cobra.ExactArgs(1),
	RunE:  runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(_ *cobra.Command, args []string) error {
	ui := config.DefaultUI()
	if cfg, err := config.Load(configPaths()); err == nil {
		ui = cfg.UI
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	u, err := article.ValidateURL(args[0], ui.MessageURL)
	if err != nil {
		return errors.New(pipeline.StatusFor(ui, err))
	}

	text, err := article.NewFetcher(nil).Fetch(ctx, u.String())
	if err != nil {
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  %v\n", err)
		}
		return errors.New(pipeline.StatusFor(ui, err))
	}

	fmt.Println(text)
	return nil
}
