package moderation

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

// StripMarkup reduces a submitted body to plain text for analysis:
// all HTML tags removed, entities decoded, whitespace trimmed.
func StripMarkup(body string) string {
	plain := stripPolicy.Sanitize(body)
	plain = html.UnescapeString(plain)
	return strings.TrimSpace(plain)
}
