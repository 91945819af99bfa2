package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSectionNumberString(t *testing.T) {
	var nilNum *SectionNumber
	assert.Equal(t, "", nilNum.String())
	assert.Equal(t, "1", (&SectionNumber{Parts: []int{1}}).String())
	assert.Equal(t, "12.3.10", (&SectionNumber{Parts: []int{12, 3, 10}}).String())
}

func TestPushChapterAssignsNumbers(t *testing.T) {
	book := NewBook()
	book.PushChapter(&Chapter{Name: "a.md"})
	book.PushChapter(&Chapter{Name: "b.md"})

	assert.Equal(t, 1, book.Chapters[0].Index)
	assert.Equal(t, 2, book.Chapters[1].Index)
	assert.Same(t, book.Chapters[1], book.ChapterByName("b.md"))
	assert.Nil(t, book.ChapterByName("c.md"))
}

func TestChapterSections(t *testing.T) {
	ch := &Chapter{Headings: []NumberedHeading{
		{Heading: Heading{Level: 2, Text: "One"}, Number: SectionNumber{Parts: []int{1, 1}}},
		{Heading: Heading{Level: 3, Text: "Sub"}, Number: SectionNumber{Parts: []int{1, 1, 1}}},
		{Heading: Heading{Level: 2, Text: "Two"}, Number: SectionNumber{Parts: []int{1, 2}}},
	}}

	sections := ch.Sections()
	assert.Len(t, sections, 2)
	assert.Equal(t, "1.2 Two", sections[1].Display())
}
