package textutil

import (
	"strings"
	"unicode"
)

// SanitizeToken reduces value to a lowercase token safe to use inside a file
// name. Letters and digits (any script) are kept, '-' is kept, and every run
// of other characters becomes a single underscore. Empty results map to
// "unknown".
func SanitizeToken(value string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.TrimSpace(value) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(unicode.ToLower(r))
		default:
			pendingSep = true
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "unknown"
	}
	return out
}
