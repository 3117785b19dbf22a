// Package prompt assembles chat prompts from templates and user text.
package prompt

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// inputPrefix visually separates the user text from the template line.
	inputPrefix = "\n\n"
	// fragmentSep joins substituted fragments.
	fragmentSep = "\n\n"
)

var (
	// ErrNoInput indicates the user text is empty or still the placeholder text.
	ErrNoInput = errors.New("prompt: no input")
	// ErrEmptyTemplate indicates a template with no fragments.
	ErrEmptyTemplate = errors.New("prompt: template has no fragments")
)

// Compose substitutes userText into every fragment of a template and joins
// the results with blank lines. Fragment order is preserved.
//
// userText is rejected with ErrNoInput when it is blank or matches one of
// the sentinel strings (the instructional text shown before any input, the
// "could not load article" message, ...).
func Compose(fragments []string, userText string, sentinels ...string) (string, error) {
	text := strings.TrimSpace(userText)
	if text == "" || isSentinel(text, sentinels) {
		return "", ErrNoInput
	}
	if len(fragments) == 0 {
		return "", ErrEmptyTemplate
	}

	parts := make([]string, 0, len(fragments))
	for _, frag := range fragments {
		parts = append(parts, Format(strings.TrimSpace(frag), inputPrefix+text))
	}
	return strings.Join(parts, fragmentSep), nil
}

// Validate checks that a template is non-empty and that every fragment
// carries exactly one placeholder.
func Validate(fragments []string) error {
	if len(fragments) == 0 {
		return ErrEmptyTemplate
	}
	for i, frag := range fragments {
		if n := CountPlaceholders(frag); n != 1 {
			return fmt.Errorf("prompt: fragment %d has %d placeholders, want 1", i, n)
		}
	}
	return nil
}

func isSentinel(text string, sentinels []string) bool {
	for _, s := range sentinels {
		s = strings.TrimSpace(s)
		if s != "" && text == s {
			return true
		}
	}
	return false
}
