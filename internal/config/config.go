// Package config loads, merges, and validates assistify configuration.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/assistify/assistify/internal/prompt"
)

// File names looked up in the config directory.
const (
	BaseFile = "config.json"
	UserFile = "config.user.json"
	UIFile   = "ui.json"
)

// APIKeyEnv overrides the configured API key when set.
const APIKeyEnv = "OPENAI_API_KEY"

// Config holds all assistify configuration.
type Config struct {
	Models    map[string]ModelPricing `json:"models"`
	Templates map[string][]string     `json:"templates"`

	DefaultModel    string `json:"default_model,omitempty"`
	DefaultTemplate string `json:"default_template,omitempty"`

	Archive     bool   `json:"archive"`
	ArchivePath string `json:"archive_path"`
	Ledger      bool   `json:"ledger"`

	CopyToClipboard      bool    `json:"copy_to_clipboard"`
	Currency             string  `json:"currency"`
	CurrencyExchangeRate float64 `json:"currency_exchange_rate"`

	ResizableWindow bool   `json:"resizable_window"`
	Theme           string `json:"theme"`

	OpenAIAPIKey string `json:"openai_api_key,omitempty"`
	APIBaseURL   string `json:"api_base_url,omitempty"`

	UI UI `json:"ui"`
}

// Paths locates the configuration sources. Only Base is required.
type Paths struct {
	Base string
	User string
	UI   string
}

// DefaultConfig returns the configuration used for keys absent from files.
func DefaultConfig() Config {
	return Config{
		Archive:              true,
		ArchivePath:          "archive",
		Ledger:               true,
		CopyToClipboard:      true,
		Currency:             NativeCurrency,
		CurrencyExchangeRate: 1.0,
		Theme:                "dark",
		APIBaseURL:           "https://api.openai.com/v1",
		UI:                   DefaultUI(),
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "assistify")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "assistify")
}

// ResolveDir picks the directory holding config.json: the explicit dir when
// given, else the working directory when it has a config.json, else ConfigDir.
func ResolveDir(dir string) string {
	if dir != "" {
		return dir
	}
	if _, err := os.Stat(BaseFile); err == nil {
		return "."
	}
	return ConfigDir()
}

// PathsIn returns the standard file layout inside dir.
func PathsIn(dir string) Paths {
	return Paths{
		Base: filepath.Join(dir, BaseFile),
		User: filepath.Join(dir, UserFile),
		UI:   filepath.Join(dir, UIFile),
	}
}

// Load reads and merges all sources and returns the validated config.
// The ui block is layered as: base ui, then the UI file, then user ui.
func Load(p Paths) (*Config, error) {
	base, err := readRequired(p.Base)
	if err != nil {
		return nil, err
	}
	user, err := readOptional(p.User)
	if err != nil {
		return nil, err
	}
	uiFile, err := readOptional(p.UI)
	if err != nil {
		return nil, err
	}

	if len(uiFile) > 0 {
		base = Merge(base, map[string]any{"ui": uiFile})
	}
	cfg, err := Decode(Merge(base, user))
	if err != nil {
		var cerr *Error
		if errors.As(err, &cerr) && cerr.Path == "" {
			cerr.Path = p.Base
		}
		return nil, err
	}
	return cfg, nil
}

// Decode turns a merged mapping into a validated Config. Unknown keys are
// rejected; absent keys keep their defaults.
func Decode(raw map[string]any) (*Config, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, &Error{Err: fmt.Errorf("encoding merged config: %w", err)}
	}

	cfg := DefaultConfig()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, &Error{Err: fmt.Errorf("decoding config: %w", err)}
	}

	cfg.Currency = strings.ToUpper(strings.TrimSpace(cfg.Currency))
	if err := cfg.Validate(); err != nil {
		return nil, &Error{Err: err}
	}
	return &cfg, nil
}

// Validate checks the invariants the rest of the program relies on.
func (c *Config) Validate() error {
	if len(c.Models) == 0 {
		return errors.New("no models configured")
	}
	for id, p := range c.Models {
		if p.InputPer1K < 0 || p.OutputPer1K < 0 {
			return fmt.Errorf("model %q: token costs must be >= 0", id)
		}
	}
	if len(c.Templates) == 0 {
		return errors.New("no templates configured")
	}
	for id, frags := range c.Templates {
		if err := prompt.Validate(frags); err != nil {
			return fmt.Errorf("template %q: %w", id, err)
		}
	}
	if c.CurrencyExchangeRate < 0 {
		return errors.New("currency_exchange_rate must be >= 0")
	}
	if c.DefaultModel != "" {
		if _, ok := c.Models[c.DefaultModel]; !ok {
			return fmt.Errorf("default_model %q is not a configured model", c.DefaultModel)
		}
	}
	if c.DefaultTemplate != "" {
		if _, ok := c.Templates[c.DefaultTemplate]; !ok {
			return fmt.Errorf("default_template %q is not a configured template", c.DefaultTemplate)
		}
	}
	if c.Archive && strings.TrimSpace(c.ArchivePath) == "" {
		return errors.New("archive is enabled but archive_path is empty")
	}
	return nil
}

// ModelIDs returns the configured model ids in display order.
func (c *Config) ModelIDs() []string {
	return orderedKeys(c.Models, c.DefaultModel)
}

// TemplateIDs returns the configured template ids in display order.
func (c *Config) TemplateIDs() []string {
	return orderedKeys(c.Templates, c.DefaultTemplate)
}

// Template returns the fragments of a template.
func (c *Config) Template(id string) ([]string, bool) {
	frags, ok := c.Templates[id]
	return frags, ok
}

// Pricing returns the pricing of a model.
func (c *Config) Pricing(id string) (ModelPricing, bool) {
	p, ok := c.Models[id]
	return p, ok
}

// LedgerPath returns the SQLite exchange index location.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.ArchivePath, "index.db")
}

// orderedKeys sorts ids, moving preferred (when present) to the front.
func orderedKeys[V any](m map[string]V, preferred string) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if _, ok := m[preferred]; !ok {
		return ids
	}
	out := make([]string, 0, len(ids))
	out = append(out, preferred)
	for _, id := range ids {
		if id != preferred {
			out = append(out, id)
		}
	}
	return out
}

// GetAPIKey returns the API key from env var or config, in that order.
func GetAPIKey(cfg *Config) string {
	if key := os.Getenv(APIKeyEnv); key != "" {
		return key
	}
	return cfg.OpenAIAPIKey
}
