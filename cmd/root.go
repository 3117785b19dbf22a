// Package cmd implements the assistify CLI commands.
package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/assistify/assistify/internal/article"
	"github.com/assistify/assistify/internal/chat"
	"github.com/assistify/assistify/internal/config"
	"github.com/assistify/assistify/internal/pipeline"
	"github.com/assistify/assistify/internal/store"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

var (
	flagConfigDir  string
	flagConfig     string
	flagUserConfig string
	flagUIConfig   string
	flagQuiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "assistify",
	Short: "Run prompt templates against OpenAI chat models",
	Long:  "Compose prompts from templates, send them to a chat model, and keep an archive of every exchange with its estimated cost.",
	RunE:  runTUI,

	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfigDir, "config-dir", "c", "", "Directory holding config.json (default: ./ or ~/.config/assistify)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Base config file (.json, .toml, .yaml)")
	rootCmd.PersistentFlags().StringVar(&flagUserConfig, "user-config", "", "User override config file")
	rootCmd.PersistentFlags().StringVar(&flagUIConfig, "ui-config", "", "UI strings file")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// configPaths resolves the config sources from the flags.
func configPaths() config.Paths {
	p := config.PathsIn(config.ResolveDir(flagConfigDir))
	if flagConfig != "" {
		p.Base = flagConfig
	}
	if flagUserConfig != "" {
		p.User = flagUserConfig
	}
	if flagUIConfig != "" {
		p.UI = flagUIConfig
	}
	return p
}

// loadConfig is the shared config path used by all commands.
func loadConfig() (*config.Config, error) {
	p := configPaths()
	cfg, err := config.Load(p)
	if err != nil {
		if !fileExists(p.Base) {
			return nil, fmt.Errorf("%w\n  Run `assistify init` to create a default configuration", err)
		}
		return nil, err
	}
	return cfg, nil
}

// newService wires the pipeline with the real collaborators. The returned
// cleanup closes the ledger.
func newService(cfg *config.Config, logger *log.Logger) (*pipeline.Service, func()) {
	client := chat.NewClient(config.GetAPIKey(cfg), cfg.APIBaseURL)
	svc := pipeline.New(cfg, client, article.NewFetcher(nil)).
		WithClipboard(clipboard.WriteAll).
		WithLogger(logger)

	cleanup := func() {}
	if cfg.Ledger && cfg.Archive {
		ledger, err := store.Open(cfg.LedgerPath())
		if err != nil {
			logger.Printf("ledger unavailable, exchanges will not be indexed: %v", err)
		} else {
			svc.WithLedger(ledger)
			cleanup = func() { _ = ledger.Close() }
		}
	}
	return svc, cleanup
}

// openLedger opens the exchange ledger for the report commands.
func openLedger(cfg *config.Config) (*store.Ledger, error) {
	path := cfg.LedgerPath()
	if !fileExists(path) {
		return nil, fmt.Errorf("no ledger at %s yet; run a request first", path)
	}
	return store.Open(path)
}

func stderrLogger() *log.Logger {
	if flagQuiet {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "  ", 0)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func maskAPIKey(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
