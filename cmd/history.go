package cmd

import (
	"fmt"
	"time"

	"github.com/assistify/assistify/internal/cli"
	"github.com/assistify/assistify/internal/config"
	"github.com/assistify/assistify/internal/pipeline"
	"github.com/assistify/assistify/internal/store"
	"github.com/assistify/assistify/internal/tui/theme"

	"github.com/spf13/cobra"
)

var (
	flagDays        int
	flagModelFilter string
	historyLimit    int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Recent exchanges and cost totals",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "Number of exchanges to show")
	addReportFlags(historyCmd)
	rootCmd.AddCommand(historyCmd)
}

// addReportFlags registers the time window and model filter shared by the
// ledger reports.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&flagDays, "days", "n", 30, "Time window in days")
	cmd.Flags().StringVar(&flagModelFilter, "filter-model", "", "Filter to model (substring match)")
}

// loadEntries reads the ledger window selected by the report flags.
func loadEntries(cfg *config.Config) ([]store.Entry, time.Time, time.Time, error) {
	ledger, err := openLedger(cfg)
	if err != nil {
		return nil, time.Time{}, time.Time{}, err
	}
	defer func() { _ = ledger.Close() }()

	now := time.Now()
	since := now.AddDate(0, 0, -flagDays)

	entries, err := ledger.Since(since)
	if err != nil {
		return nil, since, now, fmt.Errorf("reading ledger: %w", err)
	}
	return pipeline.FilterByModel(entries, flagModelFilter), since, now, nil
}

func runHistory(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	theme.SetActive(cfg.Theme)

	ledger, err := openLedger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = ledger.Close() }()

	entries, err := ledger.Recent(historyLimit)
	if err != nil {
		return fmt.Errorf("reading ledger: %w", err)
	}
	entries = pipeline.FilterByModel(entries, flagModelFilter)
	since := time.Now().AddDate(0, 0, -flagDays)
	entries = pipeline.FilterByTime(entries, since, time.Time{})

	if len(entries) == 0 {
		fmt.Println("\n  No exchanges recorded in the selected time range.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("HISTORY  Last %dd (showing %d)", flagDays, len(entries))))
	fmt.Println()

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			cli.FormatTime(e.CreatedAt),
			e.Model,
			e.Template,
			cli.FormatTokens(e.PromptTokens + e.CompletionTokens),
			cli.FormatElapsed(e.Duration),
			cli.FormatCost(e.Cost, e.Currency),
			truncate(e.InputPreview, 32),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers:   []string{"Time", "Model", "Template", "Tokens", "Took", "Cost", "Input"},
		Rows:      rows,
		LeftAlign: map[int]bool{1: true, 2: true, 6: true},
	}))

	totals, err := ledger.Totals()
	if err != nil {
		return fmt.Errorf("reading totals: %w", err)
	}
	if len(totals) > 0 {
		fmt.Println()
		rows := make([][]string, 0, len(totals))
		for _, t := range totals {
			rows = append(rows, []string{
				t.Currency,
				cli.FormatNumber(int64(t.Count)),
				cli.FormatTokens(t.Tokens),
				cli.FormatCost(t.Cost, t.Currency),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "All time",
			Headers: []string{"Currency", "Exchanges", "Tokens", "Cost"},
			Rows:    rows,
		}))
	}

	return nil
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}
