package config

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed defaults/config.json defaults/ui.json
var defaultFiles embed.FS

// WriteDefaults writes the bundled config.json and ui.json into dir.
// Existing files are left alone; the paths actually written are returned.
func WriteDefaults(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating config dir: %w", err)
	}

	var written []string
	for _, name := range []string{BaseFile, UIFile} {
		dst := filepath.Join(dir, name)
		if _, err := os.Stat(dst); err == nil {
			continue
		}

		data, err := defaultFiles.ReadFile("defaults/" + name)
		if err != nil {
			return written, fmt.Errorf("reading bundled %s: %w", name, err)
		}
		if err := os.WriteFile(dst, data, 0o600); err != nil {
			return written, fmt.Errorf("writing %s: %w", dst, err)
		}
		written = append(written, dst)
	}
	return written, nil
}

// SaveUser merges overrides into the user override file at path, creating
// it when absent. Only JSON user files are written.
func SaveUser(path string, overrides map[string]any) error {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".json" {
		return &Error{Path: path, Err: fmt.Errorf("cannot write %s files", ext)}
	}
	current, err := readOptional(path)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(Merge(current, overrides), "", "    ")
	if err != nil {
		return fmt.Errorf("encoding user config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("writing user config: %w", err)
	}
	return nil
}
