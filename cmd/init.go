package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/assistify/assistify/internal/config"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var initNoPrompt bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration and pick an API key and theme",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initNoPrompt, "no-prompt", false, "Only write the default files")
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) error {
	dir := flagConfigDir
	if dir == "" {
		dir = config.ConfigDir()
	}

	written, err := config.WriteDefaults(dir)
	if err != nil {
		return err
	}

	fmt.Println()
	if len(written) == 0 {
		fmt.Printf("  Defaults already present in %s\n", dir)
	}
	for _, path := range written {
		fmt.Printf("  Wrote %s\n", path)
	}

	if initNoPrompt || !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Println()
		return nil
	}

	cfg, err := config.Load(config.PathsIn(dir))
	if err != nil {
		return err
	}

	apiKey := ""
	themeName := cfg.Theme
	existing := "none"
	if key := config.GetAPIKey(cfg); key != "" {
		existing = maskAPIKey(key)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("OpenAI API key").
				Description(fmt.Sprintf("Current: %s. Leave empty to keep it, or set %s instead.", existing, config.APIKeyEnv)).
				EchoMode(huh.EchoModePassword).
				Value(&apiKey),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(
					huh.NewOption("Flexoki Dark", "flexoki-dark"),
					huh.NewOption("Flexoki Light", "flexoki-light"),
					huh.NewOption("Catppuccin Mocha", "catppuccin-mocha"),
					huh.NewOption("Tokyo Night", "tokyo-night"),
					huh.NewOption("Terminal (ANSI 16)", "terminal"),
				).
				Value(&themeName),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	overrides := map[string]any{"theme": themeName}
	if key := strings.TrimSpace(apiKey); key != "" {
		overrides["openai_api_key"] = key
	}

	userPath := config.PathsIn(dir).User
	if err := config.SaveUser(userPath, overrides); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("  Saved to %s\n", userPath)
	fmt.Println("  Run `assistify init` anytime to reconfigure.")
	fmt.Println()
	return nil
}
