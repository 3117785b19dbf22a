package prompt

import (
	"errors"
	"testing"
)

func TestCompose_SingleFragment(t *testing.T) {
	got, err := Compose([]string{"Summarize: {}"}, "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Summarize: \n\nhello"
	if got != want {
		t.Fatalf("Compose = %q, want %q", got, want)
	}
}

func TestCompose_MultipleFragmentsKeepOrder(t *testing.T) {
	frags := []string{
		"  Translate to English: {}  ",
		"Then list the key points of: {}",
	}
	got, err := Compose(frags, "  bonjour \n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Translate to English: \n\nbonjour\n\nThen list the key points of: \n\nbonjour"
	if got != want {
		t.Fatalf("Compose = %q, want %q", got, want)
	}
}

func TestCompose_RejectsEmptyAndSentinel(t *testing.T) {
	sentinel := "Paste the article text here"
	cases := []string{"", "   \n\t", sentinel, "\n" + sentinel + "  "}
	for _, in := range cases {
		_, err := Compose([]string{"{}"}, in, sentinel, "Could not load the article")
		if !errors.Is(err, ErrNoInput) {
			t.Errorf("Compose(%q) err = %v, want ErrNoInput", in, err)
		}
	}
}

func TestCompose_EmptySentinelIgnored(t *testing.T) {
	got, err := Compose([]string{"{}"}, "text", "", "  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "\n\ntext" {
		t.Fatalf("Compose = %q", got)
	}
}

func TestCompose_EscapedBraces(t *testing.T) {
	got, err := Compose([]string{`Reply as JSON {{"summary": ...}} for: {}`}, "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Reply as JSON {\"summary\": ...} for: \n\nx"
	if got != want {
		t.Fatalf("Compose = %q, want %q", got, want)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate([]string{"a {}", "b {} {{literal}}"}); err != nil {
		t.Fatalf("valid template rejected: %v", err)
	}
	if err := Validate(nil); !errors.Is(err, ErrEmptyTemplate) {
		t.Fatalf("empty template err = %v, want ErrEmptyTemplate", err)
	}
	if err := Validate([]string{"no slot"}); err == nil {
		t.Fatal("fragment without placeholder accepted")
	}
	if err := Validate([]string{"{} twice {}"}); err == nil {
		t.Fatal("fragment with two placeholders accepted")
	}
}

func TestFormat(t *testing.T) {
	got := Format("Done in {} s, cost {} {}", 3, 0.012, "EUR")
	if got != "Done in 3 s, cost 0.012 EUR" {
		t.Fatalf("Format = %q", got)
	}
	if got := Format("{} and {}", "only"); got != "only and {}" {
		t.Fatalf("Format with missing arg = %q", got)
	}
}
