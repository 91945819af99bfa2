package renderer

import (
	"fmt"
	htmlutil "html"
	"regexp"
	"strings"

	"github.com/geocine/bookgen/internal/numbering"
)

var (
	headingTag    = regexp.MustCompile(`<h([1-6])>(.*?)</h[1-6]>`)
	tagPattern    = regexp.MustCompile(`<[^>]+>`)
	admonition    = regexp.MustCompile(`(?is)<blockquote>\s*<p>\s*\[!([A-Z]+)\]\s*(.*?)</p>(.*?)</blockquote>`)
	mdLinkPattern = regexp.MustCompile(`href="([^"]+)\.md([^"]*)"`)
)

// HeadingInfo represents a heading in the document
type HeadingInfo struct {
	Level string
	Text  string
	ID    string
}

// transformHeadingIDs gives every heading an id and a self link. Ids use the
// same slug as the table of contents, so "1.1 Getting Started" becomes
// "11-getting-started". Repeated ids are left as they are.
func transformHeadingIDs(html string) (string, []HeadingInfo) {
	var headings []HeadingInfo
	html = headingTag.ReplaceAllStringFunc(html, func(match string) string {
		parts := headingTag.FindStringSubmatch(match)
		if len(parts) < 3 {
			return match
		}
		level, text := parts[1], parts[2]
		plain := htmlutil.UnescapeString(tagPattern.ReplaceAllString(text, ""))
		id := numbering.Slug(plain)
		if level == "2" || level == "3" {
			headings = append(headings, HeadingInfo{Level: level, Text: plain, ID: id})
		}
		if strings.Contains(text, "<a ") {
			return fmt.Sprintf(`<h%s id="%s">%s</h%s>`, level, id, text, level)
		}
		return fmt.Sprintf(`<h%s id="%s"><a class="header" href="#%s">%s</a></h%s>`, level, id, id, text, level)
	})
	return html, headings
}

// transformAdmonitions converts [!TAG] blockquotes into titled callouts.
func transformAdmonitions(html string) string {
	titles := map[string]string{
		"NOTE":      "Note",
		"TIP":       "Tip",
		"IMPORTANT": "Important",
		"WARNING":   "Warning",
		"CAUTION":   "Caution",
	}
	return admonition.ReplaceAllStringFunc(html, func(m string) string {
		parts := admonition.FindStringSubmatch(m)
		if len(parts) < 4 {
			return m
		}
		tag := strings.ToUpper(parts[1])
		title, ok := titles[tag]
		if !ok {
			return m
		}
		var sb strings.Builder
		sb.WriteString(`<blockquote class="callout callout-` + strings.ToLower(tag) + `">`)
		sb.WriteString(`<p class="callout-title">` + title + `</p>`)
		if first := strings.TrimSpace(parts[2]); first != "" {
			sb.WriteString(`<p>` + first + `</p>`)
		}
		sb.WriteString(parts[3])
		sb.WriteString(`</blockquote>`)
		return sb.String()
	})
}

// transformLinksMdToHtml converts href attribute values ending in .md to .html (preserving fragments and query).
func transformLinksMdToHtml(html string) string {
	return mdLinkPattern.ReplaceAllString(html, `href="$1.html$2"`)
}
