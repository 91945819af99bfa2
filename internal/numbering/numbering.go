// Package numbering assigns hierarchical chapter.section[.subsection]
// numbers to extracted headings and derives their anchor slugs.
package numbering

import (
	"fmt"

	"github.com/geocine/bookgen/internal/models"
)

// AnomalyKind classifies recoverable heading-structure problems
type AnomalyKind string

const (
	// OrphanSubsection is a level-3 heading seen before any level-2 heading
	OrphanSubsection AnomalyKind = "orphan-subsection"
	// DuplicateSlug is a heading whose anchor repeats an earlier one
	DuplicateSlug AnomalyKind = "duplicate-slug"
)

// Anomaly is a heading-structure problem that did not stop numbering
type Anomaly struct {
	Kind    AnomalyKind
	Chapter string
	Heading string
	Slug    string
}

func (a Anomaly) String() string {
	switch a.Kind {
	case OrphanSubsection:
		return fmt.Sprintf("%s: subsection %q has no parent section; numbered under section 0", a.Chapter, a.Heading)
	case DuplicateSlug:
		return fmt.Sprintf("%s: heading %q repeats anchor #%s", a.Chapter, a.Heading, a.Slug)
	}
	return fmt.Sprintf("%s: %s %q", a.Chapter, a.Kind, a.Heading)
}

// NumberChapter numbers one chapter's headings. Sections count from 1 per
// chapter and subsections from 1 per section; a subsection that precedes
// every section is placed under an implicit section 0.
func NumberChapter(chapter int, name string, headings []models.Heading) ([]models.NumberedHeading, []Anomaly) {
	var (
		numbered   = make([]models.NumberedHeading, 0, len(headings))
		anomalies  []Anomaly
		section    int
		subsection int
		seen       = make(map[string]bool, len(headings))
	)

	for _, h := range headings {
		var parts []int
		switch h.Level {
		case models.SectionLevel:
			section++
			subsection = 0
			parts = []int{chapter, section}
		case models.SubsectionLevel:
			if section == 0 {
				anomalies = append(anomalies, Anomaly{Kind: OrphanSubsection, Chapter: name, Heading: h.Text})
			}
			subsection++
			parts = []int{chapter, section, subsection}
		default:
			continue
		}

		nh := models.NumberedHeading{Heading: h, Number: models.SectionNumber{Parts: parts}}
		nh.Slug = Slug(nh.Display())
		if seen[nh.Slug] {
			anomalies = append(anomalies, Anomaly{Kind: DuplicateSlug, Chapter: name, Heading: h.Text, Slug: nh.Slug})
		}
		seen[nh.Slug] = true
		numbered = append(numbered, nh)
	}
	return numbered, anomalies
}

// NumberBook numbers every chapter in place using each chapter's Index
func NumberBook(book *models.Book, extract func(string) []models.Heading) []Anomaly {
	var anomalies []Anomaly
	for _, ch := range book.Chapters {
		if ch.Skipped {
			ch.Headings = nil
			continue
		}
		numbered, found := NumberChapter(ch.Index, ch.Name, extract(ch.Content))
		ch.Headings = numbered
		anomalies = append(anomalies, found...)
	}
	return anomalies
}
