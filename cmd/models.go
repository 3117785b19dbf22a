package cmd

import (
	"fmt"

	"github.com/assistify/assistify/internal/cli"
	"github.com/assistify/assistify/internal/config"
	"github.com/assistify/assistify/internal/pipeline"
	"github.com/assistify/assistify/internal/tui/theme"

	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Configured models, pricing, and usage",
	RunE:  runModels,
}

func init() {
	addReportFlags(modelsCmd)
	rootCmd.AddCommand(modelsCmd)
}

func runModels(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	theme.SetActive(cfg.Theme)

	fmt.Println()
	fmt.Println(cli.RenderTitle("MODELS"))
	fmt.Println()

	ids := cfg.ModelIDs()
	rows := make([][]string, 0, len(ids))
	for i, id := range ids {
		p := cfg.Models[id]
		mark := ""
		if i == 0 {
			mark = "*"
		}
		rows = append(rows, []string{
			id,
			cli.FormatPrice(p.InputPer1K),
			cli.FormatPrice(p.OutputPer1K),
			mark,
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Price per 1K tokens (%s)", config.NativeCurrency),
		Headers: []string{"Model", "Input", "Output", "Default"},
		Rows:    rows,
	}))

	if !fileExists(cfg.LedgerPath()) {
		return nil
	}
	entries, since, until, err := loadEntries(cfg)
	if err != nil {
		return err
	}
	models := pipeline.AggregateModels(entries, since, until)
	if len(models) == 0 {
		return nil
	}

	rows = make([][]string, 0, len(models))
	for _, ms := range models {
		rows = append(rows, []string{
			ms.Model,
			cli.FormatNumber(int64(ms.Exchanges)),
			cli.FormatTokens(ms.PromptTokens),
			cli.FormatTokens(ms.CompletionTokens),
			cli.FormatCost(ms.Cost, ms.Currency),
			cli.FormatPercent(ms.SharePercent),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Usage, last %dd (%s tokens)", flagDays, cli.FormatTokens(totalTokens(models))),
		Headers: []string{"Model", "Exchanges", "Prompt", "Completion", "Cost", "Share"},
		Rows:    rows,
	}))

	return nil
}
