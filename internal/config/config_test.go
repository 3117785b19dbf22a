package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const minimalBase = `{
	"models": {"gpt-4o-mini": {"input_token_cost": 0.00015, "output_token_cost": 0.0006}},
	"templates": {"summary": ["Summarize: {}"]}
}`

func TestLoad_AppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, BaseFile, minimalBase)

	cfg, err := Load(PathsIn(dir))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Archive || cfg.ArchivePath != "archive" {
		t.Errorf("archive defaults = %v %q, want true \"archive\"", cfg.Archive, cfg.ArchivePath)
	}
	if cfg.Currency != "USD" || cfg.CurrencyExchangeRate != 1.0 {
		t.Errorf("currency defaults = %q %v", cfg.Currency, cfg.CurrencyExchangeRate)
	}
	if !cfg.CopyToClipboard || cfg.ResizableWindow || cfg.Theme != "dark" {
		t.Errorf("window defaults = clip:%v resizable:%v theme:%q", cfg.CopyToClipboard, cfg.ResizableWindow, cfg.Theme)
	}
	if cfg.UI.Ready != DefaultUI().Ready {
		t.Errorf("UI.Ready = %q, want default", cfg.UI.Ready)
	}
}

func TestLoad_UserOverrideAndUIFileLayering(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, BaseFile, `{
		"models": {"gpt-4o-mini": {"input_token_cost": 0.00015, "output_token_cost": 0.0006}},
		"templates": {"summary": ["Summarize: {}"]},
		"currency": "USD",
		"ui": {"title": "from base", "ready": "base ready", "waiting": "base waiting"}
	}`)
	writeFile(t, dir, UIFile, `{"ready": "file ready", "waiting": "file waiting"}`)
	writeFile(t, dir, UserFile, `{
		"currency": "eur",
		"currency_exchange_rate": 0.9,
		"models": {"gpt-4o": {"input_token_cost": 0.0025, "output_token_cost": 0.01}},
		"ui": {"waiting": "user waiting"}
	}`)

	cfg, err := Load(PathsIn(dir))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Currency != "EUR" || cfg.CurrencyExchangeRate != 0.9 {
		t.Errorf("currency = %q %v, want EUR 0.9", cfg.Currency, cfg.CurrencyExchangeRate)
	}
	if len(cfg.Models) != 2 {
		t.Errorf("models = %v, want base and user model", cfg.ModelIDs())
	}
	if cfg.UI.Title != "from base" || cfg.UI.Ready != "file ready" || cfg.UI.Waiting != "user waiting" {
		t.Errorf("ui layering = %+v", cfg.UI)
	}
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, BaseFile, minimalBase)
	writeFile(t, dir, UserFile, `{"archve": false}`)

	_, err := Load(PathsIn(dir))
	var cerr *Error
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, want *config.Error", err)
	}
	if !strings.Contains(err.Error(), "archve") {
		t.Fatalf("err = %v, want mention of unknown key", err)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	cases := map[string]string{
		"no models":        `{"models": {}, "templates": {"s": ["{}"]}}`,
		"negative price":   `{"models": {"m": {"input_token_cost": -1, "output_token_cost": 0}}, "templates": {"s": ["{}"]}}`,
		"no templates":     `{"models": {"m": {"input_token_cost": 1, "output_token_cost": 1}}, "templates": {}}`,
		"empty template":   `{"models": {"m": {"input_token_cost": 1, "output_token_cost": 1}}, "templates": {"s": []}}`,
		"no placeholder":   `{"models": {"m": {"input_token_cost": 1, "output_token_cost": 1}}, "templates": {"s": ["static"]}}`,
		"negative rate":    `{"models": {"m": {"input_token_cost": 1, "output_token_cost": 1}}, "templates": {"s": ["{}"]}, "currency_exchange_rate": -2}`,
		"unknown default":  `{"models": {"m": {"input_token_cost": 1, "output_token_cost": 1}}, "templates": {"s": ["{}"]}, "default_model": "x"}`,
		"empty archive to": `{"models": {"m": {"input_token_cost": 1, "output_token_cost": 1}}, "templates": {"s": ["{}"]}, "archive_path": " "}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, BaseFile, body)
			_, err := Load(PathsIn(dir))
			var cerr *Error
			if !errors.As(err, &cerr) {
				t.Fatalf("err = %v, want *config.Error", err)
			}
			if cerr.Path != filepath.Join(dir, BaseFile) {
				t.Fatalf("Error.Path = %q", cerr.Path)
			}
		})
	}
}

func TestGetAPIKey_EnvWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OpenAIAPIKey = "sk-from-config"

	t.Setenv(APIKeyEnv, "")
	if got := GetAPIKey(&cfg); got != "sk-from-config" {
		t.Fatalf("GetAPIKey = %q, want config key", got)
	}

	t.Setenv(APIKeyEnv, "sk-from-env")
	if got := GetAPIKey(&cfg); got != "sk-from-env" {
		t.Fatalf("GetAPIKey = %q, want env key", got)
	}
}

func TestOrderedIDs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Models = map[string]ModelPricing{"b": {}, "a": {}, "c": {}}
	if got := strings.Join(cfg.ModelIDs(), ","); got != "a,b,c" {
		t.Fatalf("ModelIDs = %s, want a,b,c", got)
	}
	cfg.DefaultModel = "c"
	if got := strings.Join(cfg.ModelIDs(), ","); got != "c,a,b" {
		t.Fatalf("ModelIDs with default = %s, want c,a,b", got)
	}
}

func TestWriteDefaults_LoadsCleanly(t *testing.T) {
	dir := t.TempDir()
	written, err := WriteDefaults(dir)
	if err != nil {
		t.Fatalf("WriteDefaults: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("written = %v, want config.json and ui.json", written)
	}

	cfg, err := Load(PathsIn(dir))
	if err != nil {
		t.Fatalf("bundled defaults do not load: %v", err)
	}
	if cfg.ModelIDs()[0] != cfg.DefaultModel {
		t.Fatalf("first model = %q, want default %q", cfg.ModelIDs()[0], cfg.DefaultModel)
	}

	again, err := WriteDefaults(dir)
	if err != nil || len(again) != 0 {
		t.Fatalf("second WriteDefaults = %v, %v; want no files written", again, err)
	}
}

func TestSaveUser_MergesIntoExistingFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := WriteDefaults(dir); err != nil {
		t.Fatal(err)
	}
	p := PathsIn(dir)
	writeFile(t, dir, UserFile, `{"currency": "EUR", "currency_exchange_rate": 0.9}`)

	if err := SaveUser(p.User, map[string]any{"theme": "light", "openai_api_key": "sk-test"}); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Currency != "EUR" || cfg.Theme != "light" || cfg.OpenAIAPIKey != "sk-test" {
		t.Fatalf("currency=%q theme=%q key=%q", cfg.Currency, cfg.Theme, cfg.OpenAIAPIKey)
	}

	if err := SaveUser(filepath.Join(dir, "user.toml"), nil); err == nil {
		t.Fatal("SaveUser to .toml should fail")
	}
}

func TestUICompleted(t *testing.T) {
	ui := DefaultUI()
	got := ui.Completed(3500*time.Millisecond, 0.012, "EUR")
	if got != "Completed in 3 s, cost 0.012 EUR" {
		t.Fatalf("Completed = %q", got)
	}
}
