// Package model defines domain types for assistify exchanges.
package model

import "time"

// Usage holds token counts reported by the chat endpoint for one request.
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
}

// Total returns prompt plus completion tokens.
func (u Usage) Total() int64 {
	return u.PromptTokens + u.CompletionTokens
}

// Exchange is one request/response round trip plus its derived cost.
// It lives only long enough to be displayed, archived, and indexed.
type Exchange struct {
	Model    string
	Template string
	Input    string // composed prompt
	Output   string
	Usage    Usage
	Cost     float64
	Currency string

	CreatedAt time.Time
	Duration  time.Duration
}
