package cmd

import (
	"fmt"
	"strconv"

	"github.com/assistify/assistify/internal/cli"
	"github.com/assistify/assistify/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	p := configPaths()

	fmt.Println()
	fmt.Println(cli.RenderTitle("CONFIGURATION"))
	fmt.Println()
	fmt.Print(cli.RenderKeyValues([][2]string{
		{"Base file", describeFile(p.Base)},
		{"User file", describeFile(p.User)},
		{"UI file", describeFile(p.UI)},
	}))
	fmt.Println()

	cfg, err := config.Load(p)
	if err != nil {
		return err
	}

	apiKey := "not configured"
	if key := config.GetAPIKey(cfg); key != "" {
		apiKey = maskAPIKey(key)
	}

	archive := "off"
	if cfg.Archive {
		archive = cfg.ArchivePath
	}
	ledger := "off"
	if cfg.Ledger && cfg.Archive {
		ledger = cfg.LedgerPath()
	}

	fmt.Print(cli.RenderKeyValues([][2]string{
		{"Models", strconv.Itoa(len(cfg.Models))},
		{"Templates", strconv.Itoa(len(cfg.Templates))},
		{"Default model", cfg.ModelIDs()[0]},
		{"Default template", cfg.TemplateIDs()[0]},
		{"Currency", fmt.Sprintf("%s (rate %s)", cfg.Currency, cli.FormatPrice(cfg.CurrencyExchangeRate))},
		{"Archive", archive},
		{"Ledger", ledger},
		{"Copy to clipboard", strconv.FormatBool(cfg.CopyToClipboard)},
		{"Resizable window", strconv.FormatBool(cfg.ResizableWindow)},
		{"Theme", cfg.Theme},
		{"API base URL", cfg.APIBaseURL},
		{"API key", apiKey},
	}))
	fmt.Println()
	return nil
}

func describeFile(path string) string {
	if fileExists(path) {
		return path
	}
	return path + " (absent)"
}
