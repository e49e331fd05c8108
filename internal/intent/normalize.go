package intent

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes text for comparison: every non-alphanumeric rune is
// stripped and the rest is lowercased. Applied identically to user input and
// catalogue phrases, so "Open Notepad!" and "open notepad" compare equal.
// Never fails; empty input yields empty output.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
