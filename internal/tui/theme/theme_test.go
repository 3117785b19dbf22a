package theme

import "testing"

func TestByName_Aliases(t *testing.T) {
	cases := map[string]string{
		"dark":             "flexoki-dark",
		"Light":            "flexoki-light",
		" tokyo-night ":    "tokyo-night",
		"catppuccin-mocha": "catppuccin-mocha",
		"no-such-theme":    "flexoki-dark",
		"":                 "flexoki-dark",
	}
	for in, want := range cases {
		if got := ByName(in).Name; got != want {
			t.Errorf("ByName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGlamourStyle(t *testing.T) {
	if got := ByName("light").GlamourStyle(); got != "light" {
		t.Fatalf("light theme glamour style = %q", got)
	}
	if got := ByName("dark").GlamourStyle(); got != "dark" {
		t.Fatalf("dark theme glamour style = %q", got)
	}
}
