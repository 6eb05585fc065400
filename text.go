package harvest

import (
	"strings"
	"unicode"
)

// Clean strips newline, carriage-return and tab characters from s and trims
// leading and trailing whitespace. A run of those characters between two
// words becomes a single space so the words stay apart; a run next to a
// space leaves no trace.
func Clean(s string) string {
	if !strings.ContainsAny(s, "\n\r\t") {
		return strings.TrimSpace(s)
	}

	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	lastSpace := true
	for _, r := range s {
		switch r {
		case '\n', '\r', '\t':
			inRun = true
			continue
		}
		space := unicode.IsSpace(r)
		if inRun && !space && !lastSpace {
			b.WriteByte(' ')
		}
		inRun = false
		lastSpace = space
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// Join concatenates fragments separated by a single space.
func Join(fragments []string) string {
	return strings.Join(fragments, " ")
}
