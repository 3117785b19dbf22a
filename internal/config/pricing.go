package config

import (
	"math"
	"strconv"
	"strings"

	"github.com/assistify/assistify/internal/model"
)

// NativeCurrency is the unit model prices are quoted in.
const NativeCurrency = "USD"

const perTokens = 1000

// ModelPricing holds per-1000-token prices for a model, in NativeCurrency.
type ModelPricing struct {
	InputPer1K  float64 `json:"input_token_cost"`
	OutputPer1K float64 `json:"output_token_cost"`
}

// EstimateCost computes the cost of one request. When currency is not the
// native one and rate is non-zero, the cost is converted by rate. The result
// is rounded to 3 decimals and never negative.
func EstimateCost(u model.Usage, p ModelPricing, currency string, rate float64) float64 {
	cost := float64(u.PromptTokens) / perTokens * p.InputPer1K
	cost += float64(u.CompletionTokens) / perTokens * p.OutputPer1K

	if !strings.EqualFold(currency, NativeCurrency) && rate != 0 {
		cost *= rate
	}

	cost = roundCost(cost)
	if cost < 0 || math.IsNaN(cost) {
		return 0
	}
	return cost
}

// EstimateFor prices usage for a configured model in the configured currency.
// Unknown models cost zero and report false.
func (c *Config) EstimateFor(modelID string, u model.Usage) (float64, bool) {
	p, ok := c.Pricing(modelID)
	if !ok {
		return 0, false
	}
	return EstimateCost(u, p, c.Currency, c.CurrencyExchangeRate), true
}

// roundCost rounds to 3 decimals from the exact binary value, ties to even.
// strconv produces the correctly rounded decimal, so 0.0625 -> 0.062 and
// 0.1875 -> 0.188.
func roundCost(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 3, 64), 64)
	if err != nil {
		return 0
	}
	return r
}
