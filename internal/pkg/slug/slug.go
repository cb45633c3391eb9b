// Package slug derives URL-safe project identifiers from titles.
package slug

import "strings"

// MaxLength matches the width of the slug column.
const MaxLength = 255

// Make lowercases the title, collapses every run of non-alphanumeric
// characters into a single dash, strips leading/trailing dashes and truncates
// to MaxLength. It never fails; a title with no alphanumeric characters
// yields "".
func Make(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	pendingDash := false
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		} else {
			pendingDash = true
		}
	}

	s := b.String()
	if len(s) > MaxLength {
		s = strings.TrimRight(s[:MaxLength], "-")
	}
	return s
}
