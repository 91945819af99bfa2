package models

import (
	"strconv"
	"strings"
)

// Heading levels recognized as book structure.
const (
	SectionLevel    = 2
	SubsectionLevel = 3
)

// ManifestEntry is one chapter record from the manifest
type ManifestEntry struct {
	Name  string `json:"name" yaml:"name"`
	Title string `json:"title" yaml:"title"`
}

// Manifest is the ordered chapter list; order defines chapter numbers
type Manifest []ManifestEntry

// Names returns the chapter filenames in manifest order
func (m Manifest) Names() []string {
	names := make([]string, len(m))
	for i, e := range m {
		names[i] = e.Name
	}
	return names
}

// SectionNumber represents a hierarchical number (e.g., "1.2.3")
type SectionNumber struct {
	Parts []int
}

// String returns the dotted representation of a section number
func (sn *SectionNumber) String() string {
	if sn == nil || len(sn.Parts) == 0 {
		return ""
	}
	parts := make([]string, len(sn.Parts))
	for i, p := range sn.Parts {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ".")
}

// Heading is a level-2 or level-3 heading line found in chapter text.
// Offset and End delimit the whole line, excluding its line break.
type Heading struct {
	Level  int
	Text   string
	Offset int
	End    int
}

// NumberedHeading is a heading with its assigned number and anchor
type NumberedHeading struct {
	Heading
	Number SectionNumber
	Slug   string
}

// Display returns the heading text with the number inserted in front
func (h NumberedHeading) Display() string {
	return h.Number.String() + " " + h.Text
}

// IsSection reports whether the heading is a top-level section
func (h NumberedHeading) IsSection() bool {
	return h.Level == SectionLevel
}

// Chapter is one manifest entry together with its loaded content
type Chapter struct {
	Index      int    // 1-based chapter number
	Name       string // source filename, also the stable id
	Title      string // display title
	Content    string // chapter source text
	SourcePath string // actual path on disk
	Skipped    bool   // content could not be read; no output is written
	Headings   []NumberedHeading
}

// Sections returns the level-2 numbered headings in document order
func (c *Chapter) Sections() []NumberedHeading {
	var out []NumberedHeading
	for _, h := range c.Headings {
		if h.IsSection() {
			out = append(out, h)
		}
	}
	return out
}

// Book is the compiled unit: front page plus chapters in manifest order
type Book struct {
	FrontPage     string
	FrontPageName string
	Chapters      []*Chapter
}

// NewBook creates an empty book
func NewBook() *Book {
	return &Book{
		Chapters: make([]*Chapter, 0),
	}
}

// PushChapter appends a chapter, assigning it the next chapter number
func (b *Book) PushChapter(ch *Chapter) {
	ch.Index = len(b.Chapters) + 1
	b.Chapters = append(b.Chapters, ch)
}

// ChapterByName finds a chapter by its source filename
func (b *Book) ChapterByName(name string) *Chapter {
	for _, ch := range b.Chapters {
		if ch.Name == name {
			return ch
		}
	}
	return nil
}
