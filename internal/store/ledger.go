// Package store provides a SQLite-backed ledger of completed exchanges.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/assistify/assistify/internal/model"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // register sqlite driver
)

const (
	previewLen = 80
	// fixed width so created_at sorts lexically
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

// Ledger records one row per completed exchange.
type Ledger struct {
	db *sql.DB
}

// Entry is one ledger row.
type Entry struct {
	ID               string
	CreatedAt        time.Time
	Model            string
	Template         string
	PromptTokens     int64
	CompletionTokens int64
	Cost             float64
	Currency         string
	Duration         time.Duration
	ArchiveFile      string
	InputPreview     string
}

// NewEntry builds a ledger entry from an exchange and its archive path.
func NewEntry(ex model.Exchange, archiveFile string) Entry {
	return Entry{
		CreatedAt:        ex.CreatedAt,
		Model:            ex.Model,
		Template:         ex.Template,
		PromptTokens:     ex.Usage.PromptTokens,
		CompletionTokens: ex.Usage.CompletionTokens,
		Cost:             ex.Cost,
		Currency:         ex.Currency,
		Duration:         ex.Duration,
		ArchiveFile:      archiveFile,
		InputPreview:     preview(ex.Input),
	}
}

// CurrencyTotal sums exchanges recorded in one currency.
type CurrencyTotal struct {
	Currency string
	Count    int
	Cost     float64
	Tokens   int64
}

// Open opens or creates the ledger database at the given path.
func Open(dbPath string) (*Ledger, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating ledger dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening ledger db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Ledger{db: db}, nil
}

// Close closes the ledger database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record stores e, assigning an id and timestamp when missing.
// The stored id is returned.
func (l *Ledger) Record(e Entry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := l.db.Exec(`INSERT INTO exchanges
		(id, created_at, model, template, prompt_tokens, completion_tokens,
		 cost, currency, duration_ms, archive_file, input_preview)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.CreatedAt.UTC().Format(timeLayout), e.Model, e.Template,
		e.PromptTokens, e.CompletionTokens, e.Cost, e.Currency,
		e.Duration.Milliseconds(), e.ArchiveFile, e.InputPreview,
	)
	if err != nil {
		return "", fmt.Errorf("recording exchange: %w", err)
	}
	return e.ID, nil
}

const selectEntries = `SELECT
	id, created_at, model, template, prompt_tokens, completion_tokens,
	cost, currency, duration_ms, archive_file, input_preview
	FROM exchanges`

// Recent returns up to limit entries, newest first.
func (l *Ledger) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.Query(selectEntries+` ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// Since returns every entry created at or after t, oldest first.
func (l *Ledger) Since(t time.Time) ([]Entry, error) {
	rows, err := l.db.Query(selectEntries+` WHERE created_at >= ? ORDER BY created_at`,
		t.UTC().Format(timeLayout))
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created string
		var durationMs int64
		var archiveFile, inputPreview sql.NullString

		err := rows.Scan(&e.ID, &created, &e.Model, &e.Template,
			&e.PromptTokens, &e.CompletionTokens, &e.Cost, &e.Currency,
			&durationMs, &archiveFile, &inputPreview)
		if err != nil {
			return nil, err
		}

		e.CreatedAt, _ = time.Parse(timeLayout, created)
		e.Duration = time.Duration(durationMs) * time.Millisecond
		if archiveFile.Valid {
			e.ArchiveFile = archiveFile.String
		}
		if inputPreview.Valid {
			e.InputPreview = inputPreview.String
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Totals sums all recorded exchanges per currency.
func (l *Ledger) Totals() ([]CurrencyTotal, error) {
	rows, err := l.db.Query(`SELECT currency, COUNT(*), COALESCE(SUM(cost), 0),
		COALESCE(SUM(prompt_tokens + completion_tokens), 0)
		FROM exchanges GROUP BY currency ORDER BY currency`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var totals []CurrencyTotal
	for rows.Next() {
		var t CurrencyTotal
		if err := rows.Scan(&t.Currency, &t.Count, &t.Cost, &t.Tokens); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// Count returns the number of recorded exchanges.
func (l *Ledger) Count() (int, error) {
	var count int
	err := l.db.QueryRow("SELECT COUNT(*) FROM exchanges").Scan(&count)
	return count, err
}

func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= previewLen {
		return s
	}
	return string(r[:previewLen-3]) + "..."
}
