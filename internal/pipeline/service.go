// Package pipeline runs exchanges: prompt composition, the chat call, cost
// estimation, archival, ledger bookkeeping, and clipboard copy.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync/atomic"
	"time"

	"github.com/assistify/assistify/internal/archive"
	"github.com/assistify/assistify/internal/article"
	"github.com/assistify/assistify/internal/chat"
	"github.com/assistify/assistify/internal/config"
	"github.com/assistify/assistify/internal/model"
	"github.com/assistify/assistify/internal/prompt"
	"github.com/assistify/assistify/internal/store"
)

var (
	// ErrBusy indicates an action of the same kind is already in flight.
	ErrBusy = errors.New("pipeline: request already in progress")
	// ErrUnknownModel indicates a model id missing from the configuration.
	ErrUnknownModel = errors.New("pipeline: unknown model")
	// ErrUnknownTemplate indicates a template id missing from the configuration.
	ErrUnknownTemplate = errors.New("pipeline: unknown template")
)

// Completer sends a composed prompt to a chat model.
type Completer interface {
	Complete(ctx context.Context, model, prompt string) (chat.Completion, error)
}

// ArticleFetcher downloads article text from a URL.
type ArticleFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Recorder stores ledger entries.
type Recorder interface {
	Record(e store.Entry) (string, error)
}

// Request selects what to send.
type Request struct {
	Model    string
	Template string
	Input    string // raw user text, before composition
}

// Result is a completed exchange and what happened to it afterwards.
// ArchiveErr and ClipboardErr never discard the response.
type Result struct {
	Exchange     model.Exchange
	ArchivePath  string
	ArchiveErr   error
	LedgerID     string
	Copied       bool
	ClipboardErr error

	ui config.UI
}

// Status renders the completion message, with the copied notice appended
// when the response reached the clipboard.
func (r *Result) Status() string {
	msg := r.ui.Completed(r.Exchange.Duration, r.Exchange.Cost, r.Exchange.Currency)
	if r.Copied {
		msg += " " + r.ui.Separator + " " + r.ui.Copied
	}
	return msg
}

// Service runs exchanges against one immutable configuration.
// At most one Generate and one LoadArticle run at a time.
type Service struct {
	cfg      *config.Config
	chat     Completer
	fetcher  ArticleFetcher
	ledger   Recorder
	archiver archive.Archiver
	copy     func(string) error
	now      func() time.Time
	log      *log.Logger

	generating atomic.Bool
	fetching   atomic.Bool
}

// New creates a service. Archival follows cfg; the ledger, clipboard, and
// logger are optional and attached with the With* methods.
func New(cfg *config.Config, c Completer, f ArticleFetcher) *Service {
	return &Service{
		cfg:     cfg,
		chat:    c,
		fetcher: f,
		archiver: archive.Archiver{
			Enabled: cfg.Archive,
			Dir:     cfg.ArchivePath,
		},
		now: time.Now,
		log: log.New(io.Discard, "", 0),
	}
}

// WithLedger records every completed exchange in r.
func (s *Service) WithLedger(r Recorder) *Service {
	s.ledger = r
	return s
}

// WithClipboard sets the function used when copy_to_clipboard is on.
func (s *Service) WithClipboard(copyFn func(string) error) *Service {
	s.copy = copyFn
	return s
}

// WithLogger sends side-effect failures to l.
func (s *Service) WithLogger(l *log.Logger) *Service {
	if l != nil {
		s.log = l
	}
	return s
}

// WithClock overrides the time source used for durations and archive names.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	s.archiver.Now = now
	return s
}

// Config returns the configuration the service was built with.
func (s *Service) Config() *config.Config { return s.cfg }

// Busy reports whether a Generate call is in flight.
func (s *Service) Busy() bool { return s.generating.Load() }

// LoadArticle validates rawURL and downloads its article text. When the
// download fails, the configured unable_to_load_article text is returned
// together with the error so callers can put it in the input area.
func (s *Service) LoadArticle(ctx context.Context, rawURL string) (string, error) {
	if !s.fetching.CompareAndSwap(false, true) {
		return "", ErrBusy
	}
	defer s.fetching.Store(false)

	u, err := article.ValidateURL(rawURL, s.cfg.UI.MessageURL)
	if err != nil {
		return "", err
	}

	text, err := s.fetcher.Fetch(ctx, u.String())
	if err != nil {
		s.log.Printf("fetch %s: %v", u, err)
		return s.cfg.UI.UnableToLoadArticle, err
	}
	return text, nil
}

// Generate composes the prompt, calls the model, and finishes the exchange.
// Input that is empty or still a placeholder is rejected before any
// network call.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	if !s.generating.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.generating.Store(false)

	if _, ok := s.cfg.Pricing(req.Model); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, req.Model)
	}
	fragments, ok := s.cfg.Template(req.Template)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, req.Template)
	}

	composed, err := prompt.Compose(fragments, req.Input, s.cfg.UI.InputSentinels()...)
	if err != nil {
		return nil, err
	}

	start := s.now()
	completion, err := s.chat.Complete(ctx, req.Model, composed)
	if err != nil {
		return nil, err
	}
	finished := s.now()

	cost, _ := s.cfg.EstimateFor(req.Model, completion.Usage)
	res := &Result{
		Exchange: model.Exchange{
			Model:     req.Model,
			Template:  req.Template,
			Input:     composed,
			Output:    completion.Text,
			Usage:     completion.Usage,
			Cost:      cost,
			Currency:  s.cfg.Currency,
			CreatedAt: finished,
			Duration:  finished.Sub(start),
		},
		ui: s.cfg.UI,
	}

	s.finish(res)
	return res, nil
}

// finish runs the post-response side effects. Failures are recorded on res
// and logged; none of them fail the exchange.
func (s *Service) finish(res *Result) {
	if s.cfg.CopyToClipboard && s.copy != nil {
		if err := s.copy(res.Exchange.Output); err != nil {
			res.ClipboardErr = err
			s.log.Printf("clipboard: %v", err)
		} else {
			res.Copied = true
		}
	}

	res.ArchivePath, res.ArchiveErr = s.archiver.Save(res.Exchange)
	if res.ArchiveErr != nil {
		s.log.Printf("%v", res.ArchiveErr)
	}

	if s.ledger != nil {
		id, err := s.ledger.Record(store.NewEntry(res.Exchange, res.ArchivePath))
		if err != nil {
			s.log.Printf("ledger: %v", err)
		}
		res.LedgerID = id
	}
}

// Status renders err as a status-line message using the configured strings.
func (s *Service) Status(err error) string {
	return StatusFor(s.cfg.UI, err)
}
