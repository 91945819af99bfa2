// Package decorate applies the page-load decorations to rendered HTML:
// chapter/subtopic sentinel numbering and source-line highlight overlays.
package decorate

import (
	"regexp"
	"strconv"
	"strings"
)

// Sentinel tokens as they appear verbatim in rendered text.
const (
	ChapterSentinelPrefix = "{{chapter-number},"
	SubtopicSentinel      = "{{subtopic}}"
)

var sentinelToken = regexp.MustCompile(`\{\{chapter-number\},([0-9]+)\}|\{\{subtopic\}\}`)

// SentinelReport counts what a sentinel pass resolved and what it could not
type SentinelReport struct {
	Chapters  int // chapter sentinels replaced
	Subtopics int // subtopic sentinels replaced
	Missing   int // subtopics declared by chapters but absent from the text
	Unclaimed int // subtopic sentinels left in place
}

// Balanced reports whether declared and actual subtopic counts agree
func (r SentinelReport) Balanced() bool {
	return r.Missing == 0 && r.Unclaimed == 0
}

// ResolveSentinels numbers chapter and subtopic sentinels. Each chapter
// sentinel {{chapter-number},N} takes the next chapter number and claims the
// next N subtopic sentinels still unclaimed in document order, which become
// "<chapter>.<k>". The text is scanned once and rebuilt from spans, so
// replacements never feed back into matching.
func ResolveSentinels(text string) (string, SentinelReport) {
	var report SentinelReport
	matches := sentinelToken.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, report
	}

	var subtopics []int
	for i, m := range matches {
		if m[2] < 0 {
			subtopics = append(subtopics, i)
		}
	}

	replacements := make(map[int]string, len(matches))
	chapter, cursor := 0, 0
	for i, m := range matches {
		if m[2] < 0 {
			continue
		}
		chapter++
		replacements[i] = strconv.Itoa(chapter)

		declared, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil {
			declared = 0
		}
		for k := 1; k <= declared; k++ {
			if cursor >= len(subtopics) {
				report.Missing += declared - k + 1
				break
			}
			replacements[subtopics[cursor]] = strconv.Itoa(chapter) + "." + strconv.Itoa(k)
			cursor++
		}
	}
	report.Chapters = chapter
	report.Subtopics = cursor
	report.Unclaimed = len(subtopics) - cursor

	var sb strings.Builder
	sb.Grow(len(text))
	prev := 0
	for i, m := range matches {
		rep, ok := replacements[i]
		if !ok {
			continue
		}
		sb.WriteString(text[prev:m[0]])
		sb.WriteString(rep)
		prev = m[1]
	}
	sb.WriteString(text[prev:])
	return sb.String(), report
}
