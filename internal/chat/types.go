package chat

import "github.com/assistify/assistify/internal/model"

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// request is the body posted to /chat/completions.
type request struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// response is the subset of a completion response the client reads.
type response struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
	} `json:"usage"`
}

// errorBody is the provider's error envelope.
type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// Completion is the text of the first choice plus reported token usage.
type Completion struct {
	Text  string
	Usage model.Usage
}
