package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMerge_EmptyOverrideIsIdentity(t *testing.T) {
	base := map[string]any{
		"currency": "USD",
		"archive":  true,
		"models": map[string]any{
			"gpt-4o": map[string]any{"input_token_cost": 0.005},
		},
		"templates": map[string]any{"sum": []any{"Summarize: {}"}},
	}
	got := Merge(base, map[string]any{})
	if !reflect.DeepEqual(got, base) {
		t.Fatalf("Merge(base, {}) = %#v, want %#v", got, base)
	}
	if got := Merge(base, nil); !reflect.DeepEqual(got, base) {
		t.Fatalf("Merge(base, nil) = %#v, want %#v", got, base)
	}
}

func TestMerge_OverrideWinsForScalars(t *testing.T) {
	base := map[string]any{"currency": "USD", "archive": true, "theme": "dark"}
	over := map[string]any{"currency": "EUR", "archive": false}

	got := Merge(base, over)
	want := map[string]any{"currency": "EUR", "archive": false, "theme": "dark"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Merge = %#v, want %#v", got, want)
	}
}

func TestMerge_NestedRecurses(t *testing.T) {
	base := map[string]any{"a": map[string]any{"x": 1, "y": 2}}
	over := map[string]any{"a": map[string]any{"y": 9}}

	got := Merge(base, over)
	want := map[string]any{"a": map[string]any{"x": 1, "y": 9}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Merge = %#v, want %#v", got, want)
	}
}

func TestMerge_AddsOverrideOnlyKeys(t *testing.T) {
	base := map[string]any{"a": map[string]any{"x": 1}}
	over := map[string]any{
		"a":       map[string]any{"z": 3},
		"new_key": []any{"kept", "verbatim"},
	}

	got := Merge(base, over)
	want := map[string]any{
		"a":       map[string]any{"x": 1, "z": 3},
		"new_key": []any{"kept", "verbatim"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Merge = %#v, want %#v", got, want)
	}
}

func TestMerge_NonMappingOverrideOfMappingIsIgnored(t *testing.T) {
	base := map[string]any{"ui": map[string]any{"title": "A"}}
	over := map[string]any{"ui": "flat string"}

	got := Merge(base, over)
	want := map[string]any{"ui": map[string]any{"title": "A"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Merge = %#v, want %#v", got, want)
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	base := map[string]any{"a": map[string]any{"x": 1}}
	over := map[string]any{"a": map[string]any{"x": 2}, "b": 3}

	_ = Merge(base, over)
	if base["a"].(map[string]any)["x"] != 1 {
		t.Fatal("base was mutated")
	}
	if _, ok := base["b"]; ok {
		t.Fatal("override key leaked into base")
	}
}

func TestLoadRaw_MissingOverrideIsEmpty(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "config.json", `{"currency": "USD", "archive": true}`)

	got, err := LoadRaw(base, filepath.Join(dir, "config.user.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]any{"currency": "USD", "archive": true}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("LoadRaw = %#v, want %#v", got, want)
	}
}

func TestLoadRaw_MissingBaseIsConfigError(t *testing.T) {
	_, err := LoadRaw(filepath.Join(t.TempDir(), "config.json"), "")
	var cerr *Error
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, want *config.Error", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want wrapped os.ErrNotExist", err)
	}
}

func TestLoadRaw_InvalidJSONIsConfigError(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "config.json", `{"currency": `)

	_, err := LoadRaw(base, "")
	var cerr *Error
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, want *config.Error", err)
	}
	if cerr.Path != base {
		t.Fatalf("Error.Path = %q, want %q", cerr.Path, base)
	}
}

func TestLoadRaw_InvalidOverrideIsConfigError(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "config.json", `{}`)
	user := writeFile(t, dir, "config.user.json", `[1, 2]`)

	_, err := LoadRaw(base, user)
	var cerr *Error
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, want *config.Error", err)
	}
}

func TestLoadRaw_TOMLAndYAMLOverrides(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "config.json", `{"currency": "USD", "ui": {"title": "A", "ready": "Ready"}}`)

	tomlUser := writeFile(t, dir, "config.user.toml", `
currency = "EUR"

[ui]
title = "B"
`)
	got, err := LoadRaw(base, tomlUser)
	if err != nil {
		t.Fatalf("toml override: %v", err)
	}
	ui := got["ui"].(map[string]any)
	if got["currency"] != "EUR" || ui["title"] != "B" || ui["ready"] != "Ready" {
		t.Fatalf("toml merge = %#v", got)
	}

	yamlUser := writeFile(t, dir, "config.user.yaml", "currency: PLN\nui:\n  ready: Gotowe\n")
	got, err = LoadRaw(base, yamlUser)
	if err != nil {
		t.Fatalf("yaml override: %v", err)
	}
	ui = got["ui"].(map[string]any)
	if got["currency"] != "PLN" || ui["title"] != "A" || ui["ready"] != "Gotowe" {
		t.Fatalf("yaml merge = %#v", got)
	}
}
