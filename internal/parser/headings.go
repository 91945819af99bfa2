package parser

import (
	"regexp"
	"strings"

	"github.com/geocine/bookgen/internal/models"
)

// headingLine matches a structural heading: "##" or "###", spaces, then text
// restricted to alphanumerics, '/', '.', ',', space and '-'.
var headingLine = regexp.MustCompile(`^(#{2,3}) +([0-9A-Za-z/., -]+)$`)

// ExtractHeadings returns the level-2 and level-3 headings of a chapter in
// source order. Headings whose text falls outside the allowed character class
// are ignored. Fenced code blocks are not special-cased.
func ExtractHeadings(text string) []models.Heading {
	var headings []models.Heading
	offset := 0
	for {
		next := strings.IndexByte(text[offset:], '\n')
		lineEnd := len(text)
		if next >= 0 {
			lineEnd = offset + next
		}

		line := strings.TrimRight(text[offset:lineEnd], " \t\r")
		if m := headingLine.FindStringSubmatch(line); m != nil {
			if title := strings.TrimSpace(m[2]); title != "" {
				headings = append(headings, models.Heading{
					Level:  len(m[1]),
					Text:   title,
					Offset: offset,
					End:    offset + len(line),
				})
			}
		}

		if next < 0 {
			break
		}
		offset = lineEnd + 1
	}
	return headings
}
