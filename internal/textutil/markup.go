package textutil

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// StripMarkup returns the visible text of an HTML fragment. Tags are removed
// and character references decoded; text without a '<' is returned as is.
func StripMarkup(value string) string {
	if !strings.Contains(value, "<") {
		return value
	}
	return html.UnescapeString(strictPolicy.Sanitize(value))
}
