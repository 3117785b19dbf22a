package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Error reports a missing or malformed configuration source.
// It is the only error class that is fatal at startup.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// LoadRaw reads the required base file and the optional override file and
// returns their deep merge. A missing override is treated as empty.
func LoadRaw(basePath, overridePath string) (map[string]any, error) {
	base, err := readRequired(basePath)
	if err != nil {
		return nil, err
	}
	override, err := readOptional(overridePath)
	if err != nil {
		return nil, err
	}
	return Merge(base, override), nil
}

// Merge combines base and override. For every base key holding a mapping,
// the corresponding override mapping is merged into it recursively (a
// missing or non-mapping override value counts as empty). Other base keys
// take the override value when present. Keys only in override are added.
// Neither input is modified.
func Merge(base, override map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(override))

	for key, val := range base {
		if sub, ok := asMap(val); ok {
			over, _ := asMap(override[key])
			merged[key] = Merge(sub, over)
			continue
		}
		if ov, ok := override[key]; ok {
			merged[key] = ov
		} else {
			merged[key] = val
		}
	}

	for key, val := range override {
		if _, ok := base[key]; !ok {
			merged[key] = val
		}
	}

	return merged
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func readRequired(path string) (map[string]any, error) {
	if path == "" {
		return nil, &Error{Err: errors.New("no base config file given")}
	}
	data, err := os.ReadFile(path) //nolint:gosec // path comes from flags or the config dir
	if err != nil {
		return nil, &Error{Path: path, Err: fmt.Errorf("reading config: %w", err)}
	}
	m, err := decode(path, data)
	if err != nil {
		return nil, &Error{Path: path, Err: fmt.Errorf("parsing config: %w", err)}
	}
	return m, nil
}

func readOptional(path string) (map[string]any, error) {
	if path == "" {
		return map[string]any{}, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, &Error{Path: path, Err: fmt.Errorf("reading config: %w", err)}
	}
	return readRequired(path)
}

// decode picks the format from the file extension. JSON is the default.
func decode(path string, data []byte) (map[string]any, error) {
	var m map[string]any
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &m)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &m)
	default:
		err = json.Unmarshal(data, &m)
	}
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}
