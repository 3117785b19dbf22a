package model

import "time"

// ModelStats holds aggregated exchange metrics for one model and currency.
type ModelStats struct {
	Model            string
	Currency         string
	Exchanges        int
	PromptTokens     int64
	CompletionTokens int64
	Cost             float64
	SharePercent     float64 // of all exchanges in the window
}

// TemplateStats holds aggregated exchange metrics for one template.
type TemplateStats struct {
	Template     string
	Exchanges    int
	TotalTokens  int64
	AvgDuration  time.Duration
	SharePercent float64
}

// DailyStats holds metrics for a single calendar day.
type DailyStats struct {
	Date             time.Time
	Exchanges        int
	PromptTokens     int64
	CompletionTokens int64
	Cost             map[string]float64 // per currency
}
