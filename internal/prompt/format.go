package prompt

import (
	"fmt"
	"strings"
)

// Placeholder is the substitution slot used by templates and UI strings.
// Literal braces are written as "{{" and "}}".
const Placeholder = "{}"

// CountPlaceholders returns the number of unescaped "{}" slots in s.
func CountPlaceholders(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		switch {
		case strings.HasPrefix(s[i:], "{{"), strings.HasPrefix(s[i:], "}}"):
			i++
		case strings.HasPrefix(s[i:], Placeholder):
			n++
			i++
		}
	}
	return n
}

// Format fills the "{}" slots of tmpl with args in order, unescaping "{{"
// and "}}". Slots without a matching argument are left as "{}"; surplus
// arguments are ignored.
func Format(tmpl string, args ...any) string {
	var b strings.Builder
	b.Grow(len(tmpl))

	next := 0
	for i := 0; i < len(tmpl); i++ {
		rest := tmpl[i:]
		switch {
		case strings.HasPrefix(rest, "{{"):
			b.WriteByte('{')
			i++
		case strings.HasPrefix(rest, "}}"):
			b.WriteByte('}')
			i++
		case strings.HasPrefix(rest, Placeholder):
			if next < len(args) {
				b.WriteString(fmt.Sprint(args[next]))
				next++
			} else {
				b.WriteString(Placeholder)
			}
			i++
		default:
			b.WriteByte(tmpl[i])
		}
	}
	return b.String()
}
