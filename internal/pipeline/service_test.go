package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/assistify/assistify/internal/archive"
	"github.com/assistify/assistify/internal/article"
	"github.com/assistify/assistify/internal/chat"
	"github.com/assistify/assistify/internal/config"
	"github.com/assistify/assistify/internal/model"
	"github.com/assistify/assistify/internal/prompt"
	"github.com/assistify/assistify/internal/store"

	"github.com/stretchr/testify/require"
)

type fakeChat struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	reply   chat.Completion
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeChat) Complete(ctx context.Context, model, p string) (chat.Completion, error) {
	f.mu.Lock()
	f.calls++
	f.prompts = append(f.prompts, p)
	f.mu.Unlock()

	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	return f.reply, f.err
}

func (f *fakeChat) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeFetcher struct {
	text string
	err  error
	urls []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.urls = append(f.urls, url)
	return f.text, f.err
}

type fakeLedger struct {
	entries []store.Entry
	err     error
}

func (f *fakeLedger) Record(e store.Entry) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.entries = append(f.entries, e)
	return "id-1", nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Models = map[string]config.ModelPricing{
		"gpt-4o-mini": {InputPer1K: 1, OutputPer1K: 2},
	}
	cfg.Templates = map[string][]string{
		"summary": {"Summarize: {}"},
		"two":     {"First {}", "Second {}"},
	}
	cfg.DefaultModel = "gpt-4o-mini"
	cfg.DefaultTemplate = "summary"
	cfg.Archive = true
	cfg.ArchivePath = filepath.Join(t.TempDir(), "archive")
	cfg.Currency = "EUR"
	cfg.CurrencyExchangeRate = 0.5
	cfg.CopyToClipboard = true
	return &cfg
}

func fixedClock() func() time.Time {
	t := time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local)
	return func() time.Time {
		t = t.Add(2 * time.Second)
		return t
	}
}

func TestGenerate_FullExchange(t *testing.T) {
	cfg := testConfig(t)
	fc := &fakeChat{reply: chat.Completion{Text: "A summary.", Usage: model.Usage{PromptTokens: 1000, CompletionTokens: 500}}}
	ledger := &fakeLedger{}
	var copied string

	svc := New(cfg, fc, &fakeFetcher{}).
		WithLedger(ledger).
		WithClipboard(func(s string) error { copied = s; return nil }).
		WithClock(fixedClock())

	res, err := svc.Generate(context.Background(), Request{Model: "gpt-4o-mini", Template: "summary", Input: "  hello  "})
	require.NoError(t, err)

	require.Equal(t, []string{"Summarize: \n\nhello"}, fc.prompts)
	require.Equal(t, "A summary.", res.Exchange.Output)
	// (1 + 1) * 0.5
	require.InDelta(t, 1.0, res.Exchange.Cost, 1e-9)
	require.Equal(t, "EUR", res.Exchange.Currency)
	require.Equal(t, 2*time.Second, res.Exchange.Duration)

	require.True(t, res.Copied)
	require.Equal(t, "A summary.", copied)

	require.NoError(t, res.ArchiveErr)
	rec, err := archive.Read(res.ArchivePath)
	require.NoError(t, err)
	require.Equal(t, "Summarize: \n\nhello", rec.Input)
	require.Equal(t, int64(500), rec.CompletionTokens)

	require.Len(t, ledger.entries, 1)
	require.Equal(t, res.ArchivePath, ledger.entries[0].ArchiveFile)
	require.Equal(t, "id-1", res.LedgerID)

	require.Equal(t, "Completed in 2 s, cost 1 EUR | Copied to clipboard", res.Status())
}

func TestGenerate_InvalidInputNeverCallsChat(t *testing.T) {
	cfg := testConfig(t)
	fc := &fakeChat{}
	svc := New(cfg, fc, &fakeFetcher{})

	for _, input := range []string{"", "   \n", cfg.UI.MessageInput, cfg.UI.UnableToLoadArticle} {
		_, err := svc.Generate(context.Background(), Request{Model: "gpt-4o-mini", Template: "summary", Input: input})
		require.ErrorIs(t, err, prompt.ErrNoInput, "input %q", input)
		require.Equal(t, cfg.UI.ErrorNoInput, svc.Status(err))
	}
	require.Zero(t, fc.callCount())
}

func TestGenerate_UnknownModelOrTemplate(t *testing.T) {
	svc := New(testConfig(t), &fakeChat{}, &fakeFetcher{})

	_, err := svc.Generate(context.Background(), Request{Model: "nope", Template: "summary", Input: "x"})
	require.ErrorIs(t, err, ErrUnknownModel)

	_, err = svc.Generate(context.Background(), Request{Model: "gpt-4o-mini", Template: "nope", Input: "x"})
	require.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestGenerate_MultiFragmentTemplate(t *testing.T) {
	fc := &fakeChat{reply: chat.Completion{Text: "ok"}}
	svc := New(testConfig(t), fc, &fakeFetcher{})

	_, err := svc.Generate(context.Background(), Request{Model: "gpt-4o-mini", Template: "two", Input: "abc"})
	require.NoError(t, err)
	require.Equal(t, "First \n\nabc\n\nSecond \n\nabc", fc.prompts[0])
}

func TestGenerate_APIErrorStatus(t *testing.T) {
	cfg := testConfig(t)
	long := "You exceeded your current quota, please check your plan and billing details. For more information read the docs."
	fc := &fakeChat{err: &chat.APIError{Status: 429, Message: long}}
	svc := New(cfg, fc, &fakeFetcher{})

	_, err := svc.Generate(context.Background(), Request{Model: "gpt-4o-mini", Template: "summary", Input: "x"})
	var apiErr *chat.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, cfg.UI.Warning+" "+long[:85]+" ...", svc.Status(err))

	entries, _ := os.ReadDir(cfg.ArchivePath)
	require.Empty(t, entries)
}

func TestGenerate_ArchiveFailureKeepsResponse(t *testing.T) {
	cfg := testConfig(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	cfg.ArchivePath = filepath.Join(blocker, "archive")

	ledger := &fakeLedger{}
	svc := New(cfg, &fakeChat{reply: chat.Completion{Text: "kept"}}, &fakeFetcher{}).WithLedger(ledger)

	res, err := svc.Generate(context.Background(), Request{Model: "gpt-4o-mini", Template: "summary", Input: "x"})
	require.NoError(t, err)
	require.Equal(t, "kept", res.Exchange.Output)

	var aerr *archive.Error
	require.ErrorAs(t, res.ArchiveErr, &aerr)
	require.Empty(t, res.ArchivePath)
	require.Len(t, ledger.entries, 1)
}

func TestGenerate_SideEffectsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Archive = false
	cfg.CopyToClipboard = false
	called := false

	svc := New(cfg, &fakeChat{reply: chat.Completion{Text: "x"}}, &fakeFetcher{}).
		WithClipboard(func(string) error { called = true; return nil })

	res, err := svc.Generate(context.Background(), Request{Model: "gpt-4o-mini", Template: "summary", Input: "x"})
	require.NoError(t, err)
	require.False(t, called)
	require.False(t, res.Copied)
	require.Empty(t, res.ArchivePath)

	_, statErr := os.Stat(cfg.ArchivePath)
	require.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestGenerate_ClipboardFailureIsNotFatal(t *testing.T) {
	svc := New(testConfig(t), &fakeChat{reply: chat.Completion{Text: "x"}}, &fakeFetcher{}).
		WithClipboard(func(string) error { return errors.New("no display") })

	res, err := svc.Generate(context.Background(), Request{Model: "gpt-4o-mini", Template: "summary", Input: "x"})
	require.NoError(t, err)
	require.False(t, res.Copied)
	require.Error(t, res.ClipboardErr)
	require.NotContains(t, res.Status(), "Copied")
}

func TestGenerate_ConcurrentCallIsBusy(t *testing.T) {
	fc := &fakeChat{
		reply:   chat.Completion{Text: "x"},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := New(testConfig(t), fc, &fakeFetcher{})

	done := make(chan error, 1)
	go func() {
		_, err := svc.Generate(context.Background(), Request{Model: "gpt-4o-mini", Template: "summary", Input: "first"})
		done <- err
	}()

	<-fc.started
	require.True(t, svc.Busy())
	_, err := svc.Generate(context.Background(), Request{Model: "gpt-4o-mini", Template: "summary", Input: "second"})
	require.ErrorIs(t, err, ErrBusy)

	close(fc.release)
	require.NoError(t, <-done)
	require.False(t, svc.Busy())
	require.Equal(t, 1, fc.callCount())
}

func TestLoadArticle(t *testing.T) {
	cfg := testConfig(t)

	t.Run("success", func(t *testing.T) {
		ff := &fakeFetcher{text: "Article body."}
		text, err := New(cfg, &fakeChat{}, ff).LoadArticle(context.Background(), "  https://example.com/a ")
		require.NoError(t, err)
		require.Equal(t, "Article body.", text)
		require.Equal(t, []string{"https://example.com/a"}, ff.urls)
	})

	t.Run("placeholder url", func(t *testing.T) {
		ff := &fakeFetcher{}
		svc := New(cfg, &fakeChat{}, ff)
		_, err := svc.LoadArticle(context.Background(), cfg.UI.MessageURL)
		require.ErrorIs(t, err, article.ErrNoURL)
		require.Equal(t, cfg.UI.ErrorNoURL, svc.Status(err))
		require.Empty(t, ff.urls)
	})

	t.Run("fetch failure", func(t *testing.T) {
		ff := &fakeFetcher{err: &article.FetchError{URL: "https://example.com", Status: 500}}
		svc := New(cfg, &fakeChat{}, ff)
		text, err := svc.LoadArticle(context.Background(), "https://example.com")
		require.Error(t, err)
		require.Equal(t, cfg.UI.UnableToLoadArticle, text)
		require.Equal(t, cfg.UI.ErrorLoadArticle, svc.Status(err))
	})
}

func TestStatusFor(t *testing.T) {
	ui := config.DefaultUI()
	require.Equal(t, ui.Ready, StatusFor(ui, nil))
	require.Equal(t, ui.ErrorNoURL, StatusFor(ui, article.ErrInvalidURL))
	require.Equal(t, ui.Waiting, StatusFor(ui, ErrBusy))
	require.Equal(t, ui.Error+" "+chat.ErrNoAPIKey.Error(), StatusFor(ui, chat.ErrNoAPIKey))
}
