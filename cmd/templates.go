package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/assistify/assistify/internal/cli"
	"github.com/assistify/assistify/internal/pipeline"
	"github.com/assistify/assistify/internal/tui/theme"

	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Configured prompt templates and usage",
	RunE:  runTemplates,
}

func init() {
	addReportFlags(templatesCmd)
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	theme.SetActive(cfg.Theme)

	fmt.Println()
	fmt.Println(cli.RenderTitle("TEMPLATES"))
	fmt.Println()

	ids := cfg.TemplateIDs()
	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		frags := cfg.Templates[id]
		first := ""
		if len(frags) > 0 {
			first = strings.Join(strings.Fields(frags[0]), " ")
		}
		rows = append(rows, []string{
			id,
			strconv.Itoa(len(frags)),
			truncate(first, 48),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers:   []string{"Template", "Fragments", "First fragment"},
		Rows:      rows,
		LeftAlign: map[int]bool{2: true},
	}))

	if !fileExists(cfg.LedgerPath()) {
		return nil
	}
	entries, since, until, err := loadEntries(cfg)
	if err != nil {
		return err
	}
	templates := pipeline.AggregateTemplates(entries, since, until)
	if len(templates) == 0 {
		return nil
	}

	rows = make([][]string, 0, len(templates))
	for _, ts := range templates {
		rows = append(rows, []string{
			ts.Template,
			cli.FormatNumber(int64(ts.Exchanges)),
			cli.FormatTokens(ts.TotalTokens),
			cli.FormatElapsed(ts.AvgDuration),
			cli.FormatPercent(ts.SharePercent),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Usage, last %dd", flagDays),
		Headers: []string{"Template", "Exchanges", "Tokens", "Avg time", "Share"},
		Rows:    rows,
	}))

	return nil
}
