package config

import (
	"time"

	"github.com/assistify/assistify/internal/prompt"
)

// UI holds the presentation strings shown by the front-ends.
// Messages with "{}" slots are rendered with prompt.Format.
type UI struct {
	Title               string `json:"title"`
	ButtonGenerate      string `json:"button_generate"`
	ButtonLoadArticle   string `json:"button_load_article"`
	Copied              string `json:"copied"`
	Error               string `json:"error"`
	ErrorLoadArticle    string `json:"error_load_article"`
	ErrorNoInput        string `json:"error_no_input"`
	ErrorNoURL          string `json:"error_no_url"`
	MessageInput        string `json:"message_input"`
	MessageURL          string `json:"message_url"`
	Ready               string `json:"ready"`
	RequestCompleted    string `json:"request_completed"`
	Separator           string `json:"separator"`
	UnableToLoadArticle string `json:"unable_to_load_article"`
	Waiting             string `json:"waiting"`
	Warning             string `json:"warning"`
}

// DefaultUI returns the built-in English strings.
func DefaultUI() UI {
	return UI{
		Title:               "Assistify",
		ButtonGenerate:      "Generate",
		ButtonLoadArticle:   "Load article",
		Copied:              "Copied to clipboard",
		Error:               "Error:",
		ErrorLoadArticle:    "Could not load the article.",
		ErrorNoInput:        "Nothing to send: enter or load some text first.",
		ErrorNoURL:          "Enter a valid http(s) URL first.",
		MessageInput:        "Paste text here or load an article from a URL...",
		MessageURL:          "https://",
		Ready:               "Ready",
		RequestCompleted:    "Completed in {} s, cost {} {}",
		Separator:           "|",
		UnableToLoadArticle: "Unable to load the article from this URL.",
		Waiting:             "Waiting for response...",
		Warning:             "Warning:",
	}
}

// InputSentinels are texts that may sit in the input area without being
// real user input.
func (u UI) InputSentinels() []string {
	return []string{u.MessageInput, u.UnableToLoadArticle}
}

// Completed renders the request_completed message.
func (u UI) Completed(elapsed time.Duration, cost float64, currency string) string {
	return prompt.Format(u.RequestCompleted, int64(elapsed/time.Second), cost, currency)
}
