package cmd

import (
	"errors"
	"fmt"

	"github.com/assistify/assistify/internal/cli"
	"github.com/assistify/assistify/internal/config"
	"github.com/assistify/assistify/internal/model"
	"github.com/assistify/assistify/internal/tui/theme"

	"github.com/spf13/cobra"
)

var (
	costModel            string
	costPromptTokens     int64
	costCompletionTokens int64
)

var costCmd = &cobra.Command{
	Use:   "cost",
	Short: "Estimate the cost of a request without sending it",
	RunE:  runCost,
}

func init() {
	costCmd.Flags().StringVarP(&costModel, "model", "m", "", "Model id (default: default_model)")
	costCmd.Flags().Int64VarP(&costPromptTokens, "prompt-tokens", "p", 0, "Prompt token count")
	costCmd.Flags().Int64VarP(&costCompletionTokens, "completion-tokens", "k", 0, "Completion token count")
	rootCmd.AddCommand(costCmd)
}

func runCost(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	theme.SetActive(cfg.Theme)

	id := costModel
	if id == "" {
		id = cfg.ModelIDs()[0]
	}
	if costPromptTokens < 0 || costCompletionTokens < 0 {
		return errors.New("token counts must be >= 0")
	}

	usage := model.Usage{PromptTokens: costPromptTokens, CompletionTokens: costCompletionTokens}
	cost, ok := cfg.EstimateFor(id, usage)
	if !ok {
		return fmt.Errorf("unknown model %q", id)
	}
	p, _ := cfg.Pricing(id)

	pairs := [][2]string{
		{"Model", id},
		{"Input price", cli.FormatPrice(p.InputPer1K) + " " + config.NativeCurrency + " / 1K"},
		{"Output price", cli.FormatPrice(p.OutputPer1K) + " " + config.NativeCurrency + " / 1K"},
		{"Prompt tokens", cli.FormatNumber(usage.PromptTokens)},
		{"Completion tokens", cli.FormatNumber(usage.CompletionTokens)},
	}
	if cfg.Currency != config.NativeCurrency {
		pairs = append(pairs, [2]string{"Exchange rate", cli.FormatPrice(cfg.CurrencyExchangeRate)})
	}
	pairs = append(pairs, [2]string{"Estimated cost", cli.FormatCost(cost, cfg.Currency)})

	fmt.Println()
	fmt.Print(cli.RenderKeyValues(pairs))
	fmt.Println()
	return nil
}
