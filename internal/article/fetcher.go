// Package article downloads web pages and extracts their readable text.
package article

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	requestTimeout = 30 * time.Second
	maxBodySize    = 5 << 20 // 5 MB
	userAgent      = "Mozilla/5.0 (compatible; assistify/1.0)"
)

var (
	// ErrNoURL indicates an empty URL or one still equal to the placeholder text.
	ErrNoURL = errors.New("article: no url")
	// ErrInvalidURL indicates a URL without host or with a scheme other than http(s).
	ErrInvalidURL = errors.New("article: invalid url")
	// ErrNoText indicates the page was downloaded but no article text was found.
	ErrNoText = errors.New("article: no text extracted")
)

// FetchError reports a failed article download or extraction.
type FetchError struct {
	URL    string
	Status int // HTTP status, 0 when the request did not complete
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("article: fetching %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("article: fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ValidateURL trims raw and checks it is an absolute http(s) URL.
// Sentinels are placeholder texts that must not be dispatched.
func ValidateURL(raw string, sentinels ...string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrNoURL
	}
	for _, s := range sentinels {
		if s = strings.TrimSpace(s); s != "" && raw == s {
			return nil, ErrNoURL
		}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return u, nil
}

// Fetcher downloads pages over HTTP.
type Fetcher struct {
	http *http.Client
}

// NewFetcher creates a fetcher. A nil client uses a default one.
func NewFetcher(hc *http.Client) *Fetcher {
	if hc == nil {
		hc = &http.Client{}
	}
	return &Fetcher{http: hc}
}

// Fetch downloads rawURL and returns its article text.
// Callers are expected to have validated the URL with ValidateURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.http.Do(req)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &FetchError{URL: rawURL, Status: resp.StatusCode, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	text, err := Extract(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	if text == "" {
		return "", &FetchError{URL: rawURL, Err: ErrNoText}
	}
	return text, nil
}
