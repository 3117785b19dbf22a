package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/assistify/assistify/internal/cli"
	"github.com/assistify/assistify/internal/model"
	"github.com/assistify/assistify/internal/pipeline"
	"github.com/assistify/assistify/internal/tui/theme"

	"github.com/spf13/cobra"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Daily exchange and cost table",
	RunE:  runDaily,
}

func init() {
	addReportFlags(dailyCmd)
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	theme.SetActive(cfg.Theme)

	entries, since, until, err := loadEntries(cfg)
	if err != nil {
		return err
	}
	days := pipeline.AggregateDays(entries, since, until)

	if len(days) == 0 {
		fmt.Println("\n  No exchanges recorded in the selected period.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("DAILY USAGE  Last %dd", flagDays)))
	fmt.Println()

	rows := make([][]string, 0, len(days))
	for _, d := range days {
		rows = append(rows, []string{
			d.Date.Format("2006-01-02"),
			d.Date.Format("Mon"),
			cli.FormatNumber(int64(d.Exchanges)),
			cli.FormatTokens(d.PromptTokens + d.CompletionTokens),
			formatCostMap(d.Cost),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Day", "Exchanges", "Tokens", "Cost"},
		Rows:    rows,
	}))

	// Sparkline runs oldest to newest
	counts := make([]float64, len(days))
	for i, d := range days {
		counts[len(days)-1-i] = float64(d.Exchanges)
	}
	fmt.Printf("\n  Exchanges  %s\n\n", cli.RenderSparkline(counts))

	return nil
}

// formatCostMap renders per-currency costs in currency order.
func formatCostMap(costs map[string]float64) string {
	currencies := make([]string, 0, len(costs))
	for c := range costs {
		currencies = append(currencies, c)
	}
	sort.Strings(currencies)

	parts := make([]string, 0, len(currencies))
	for _, c := range currencies {
		parts = append(parts, cli.FormatCost(costs[c], c))
	}
	return strings.Join(parts, ", ")
}

// totalTokens sums prompt and completion tokens of model rows.
func totalTokens(models []model.ModelStats) int64 {
	var n int64
	for _, m := range models {
		n += m.PromptTokens + m.CompletionTokens
	}
	return n
}
