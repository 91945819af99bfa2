package numbering

import (
	"regexp"
	"strings"
)

var (
	slugDrop       = regexp.MustCompile(`[^\p{L}\p{N}\s_-]`)
	slugWhitespace = regexp.MustCompile(`\s+`)
	slugHyphens    = regexp.MustCompile(`-{2,}`)
)

// Slug converts heading text to an anchor fragment: lowercase, periods and
// other punctuation dropped, whitespace runs become one hyphen, hyphen runs
// collapse. It never fails; "1.2 Install Go" becomes "12-install-go".
func Slug(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = slugDrop.ReplaceAllString(s, "")
	s = slugWhitespace.ReplaceAllString(s, "-")
	return slugHyphens.ReplaceAllString(s, "-")
}
