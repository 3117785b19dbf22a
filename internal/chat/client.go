// Package chat provides a client for OpenAI-compatible chat completion APIs.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "https://api.openai.com/v1"
	// DisplayLimit bounds provider messages shown in the status line.
	DisplayLimit = 85

	requestTimeout = 120 * time.Second
	maxBodySize    = 4 << 20 // 4 MB
)

var (
	// ErrNoAPIKey indicates neither the environment nor the config holds a key.
	ErrNoAPIKey = errors.New("chat: no api key configured")
	// ErrEmptyResponse indicates the provider returned no choices.
	ErrEmptyResponse = errors.New("chat: response has no choices")
)

// APIError is a non-2xx reply from the provider.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chat: api error (HTTP %d): %s", e.Status, e.Message)
}

// Client sends chat completion requests.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given key. An empty baseURL selects
// DefaultBaseURL. The key is checked on each call, not here.
func NewClient(apiKey, baseURL string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: baseURL,
		http:    &http.Client{},
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// BuildMessages wraps a composed prompt as a single user message.
func BuildMessages(prompt string) []Message {
	return []Message{{Role: "user", Content: prompt}}
}

// Complete sends prompt to model and returns the first choice.
func (c *Client) Complete(ctx context.Context, model, prompt string) (Completion, error) {
	if c.apiKey == "" {
		return Completion{}, ErrNoAPIKey
	}

	payload, err := json.Marshal(request{Model: model, Messages: BuildMessages(prompt)})
	if err != nil {
		return Completion{}, fmt.Errorf("chat: encoding request: %w", err)
	}

	body, err := c.post(ctx, "/chat/completions", payload)
	if err != nil {
		return Completion{}, err
	}

	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return Completion{}, fmt.Errorf("chat: parsing response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Completion{}, ErrEmptyResponse
	}

	out := Completion{Text: resp.Choices[0].Message.Content}
	out.Usage.PromptTokens = resp.Usage.PromptTokens
	out.Usage.CompletionTokens = resp.Usage.CompletionTokens
	return out, nil
}

// post performs an authenticated POST request and returns the response body.
func (c *Client) post(ctx context.Context, path string, payload []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("chat: creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "github.com/assistify/assistify/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("chat: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(body, resp.Status)}
	}
	return body, nil
}

// errorMessage extracts error.message from body, falling back to the raw
// body text and then the HTTP status line.
func errorMessage(body []byte, status string) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error.Message != "" {
		return eb.Error.Message
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return status
}

// Truncate returns at most limit runes of msg.
func Truncate(msg string, limit int) string {
	if limit < 0 {
		limit = 0
	}
	r := []rune(msg)
	if len(r) <= limit {
		return msg
	}
	return string(r[:limit])
}
