// Package toc builds the book's table of contents and places it on the
// front page.
package toc

import (
	"fmt"
	"strings"

	"github.com/geocine/bookgen/internal/models"
)

// Defaults used when the configuration leaves them empty.
const (
	DefaultPlaceholder = "{{table-of-content}}"
	DefaultHeading     = "## Table of Contents"
)

// Entry is one section link in the table of contents
type Entry struct {
	Label string
	Href  string
}

// ChapterLink returns the relative link to a chapter document
func ChapterLink(ch *models.Chapter) string {
	return "./" + ch.Name
}

// Entries lists the section-level links of a chapter in document order.
// Subsections are not part of the table of contents.
func Entries(ch *models.Chapter) []Entry {
	sections := ch.Sections()
	entries := make([]Entry, 0, len(sections))
	for _, s := range sections {
		s := s
		entries = append(entries, Entry{
			Label: fmt.Sprintf("**%s** %s", s.Number.String(), s.Text),
			Href:  ChapterLink(ch) + "#" + s.Slug,
		})
	}
	return entries
}

// ChapterTitle returns the title shown for a chapter, falling back to
// "Chapter N" for untitled entries.
func ChapterTitle(ch *models.Chapter) string {
	if strings.TrimSpace(ch.Title) == "" {
		return fmt.Sprintf("Chapter %d", ch.Index)
	}
	return ch.Title
}

// Build renders the table of contents as markdown, one block per chapter in
// manifest order.
func Build(book *models.Book, heading string) string {
	if heading == "" {
		heading = DefaultHeading
	}

	var sb strings.Builder
	sb.WriteString(heading)
	sb.WriteString("\n\n")
	for _, ch := range book.Chapters {
		fmt.Fprintf(&sb, "#### [Chapter %d - %s](%s)\n", ch.Index, ChapterTitle(ch), ChapterLink(ch))
		for _, e := range Entries(ch) {
			fmt.Fprintf(&sb, "- [%s](%s)\n", e.Label, e.Href)
		}
	}
	return sb.String()
}

// Insert replaces the first placeholder occurrence in the front page with
// the table of contents. A front page without the placeholder is returned
// unchanged and ok is false.
func Insert(frontPage, placeholder, toc string) (string, bool) {
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	idx := strings.Index(frontPage, placeholder)
	if idx < 0 {
		return frontPage, false
	}
	return frontPage[:idx] + toc + frontPage[idx+len(placeholder):], true
}
