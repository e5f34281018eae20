package security

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// MaxNameLength caps player names, in runes.
const MaxNameLength = 32

var htmlPolicy = bluemonday.StrictPolicy()

// SanitizeName strips markup, record separators and control characters from a
// player-supplied name and limits its length. The result may be empty.
func SanitizeName(input string) string {
	cleaned := html.UnescapeString(htmlPolicy.Sanitize(input))
	cleaned = strings.Map(func(r rune) rune {
		switch {
		case r == '<' || r == '>':
			return -1
		case r == '|' || unicode.IsControl(r):
			return ' '
		}
		return r
	}, cleaned)
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	if runes := []rune(cleaned); len(runes) > MaxNameLength {
		cleaned = strings.TrimSpace(string(runes[:MaxNameLength]))
	}
	return cleaned
}
