// Package archive writes completed exchanges to timestamped JSON files.
package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/assistify/assistify/internal/model"
)

// TimeLayout names archive files; one file per second.
const TimeLayout = "2006-01-02_15-04-05"

// Record is the on-disk shape of an archived exchange.
type Record struct {
	Model            string  `json:"model"`
	Template         string  `json:"template"`
	Input            string  `json:"input"`
	Output           string  `json:"output"`
	PromptTokens     int64   `json:"prompt_tokens"`
	CompletionTokens int64   `json:"completion_tokens"`
	Cost             float64 `json:"cost"`
	Currency         string  `json:"currency"`
}

// NewRecord converts an exchange to its archived form.
func NewRecord(ex model.Exchange) Record {
	return Record{
		Model:            ex.Model,
		Template:         ex.Template,
		Input:            ex.Input,
		Output:           ex.Output,
		PromptTokens:     ex.Usage.PromptTokens,
		CompletionTokens: ex.Usage.CompletionTokens,
		Cost:             ex.Cost,
		Currency:         ex.Currency,
	}
}

// Error reports a failed archive write or read.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("archive %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// FileName returns the archive file name for an exchange finished at now.
func FileName(now time.Time) string {
	return now.Format(TimeLayout) + ".json"
}

// Write stores ex under dir, creating dir if needed, and returns the file path.
// A second write within the same second replaces the earlier file.
func Write(ex model.Exchange, dir string, now time.Time) (string, error) {
	path := filepath.Join(dir, FileName(now))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &Error{Path: path, Err: fmt.Errorf("creating archive dir: %w", err)}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(NewRecord(ex)); err != nil {
		return "", &Error{Path: path, Err: fmt.Errorf("encoding record: %w", err)}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", &Error{Path: path, Err: err}
	}
	return path, nil
}

// Read loads an archived record.
func Read(path string) (Record, error) {
	var r Record
	data, err := os.ReadFile(path)
	if err != nil {
		return r, &Error{Path: path, Err: err}
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return r, &Error{Path: path, Err: fmt.Errorf("parsing record: %w", err)}
	}
	return r, nil
}

// Archiver applies the archive setting to Write.
type Archiver struct {
	Enabled bool
	Dir     string
	Now     func() time.Time // defaults to time.Now
}

// Save archives ex when enabled. A disabled archiver writes nothing and
// returns an empty path.
func (a Archiver) Save(ex model.Exchange) (string, error) {
	if !a.Enabled {
		return "", nil
	}
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	return Write(ex, a.Dir, now())
}
