package toc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/geocine/bookgen/internal/models"
	"github.com/geocine/bookgen/internal/numbering"
	"github.com/geocine/bookgen/internal/parser"
)

func scenarioBook() *models.Book {
	book := models.NewBook()
	book.PushChapter(&models.Chapter{Name: "a.md", Title: "Intro", Content: "## Why Go\n## Install\n### On Linux\n"})
	book.PushChapter(&models.Chapter{Name: "b.md", Title: "Setup", Content: "## Editor\n"})
	numbering.NumberBook(book, parser.ExtractHeadings)
	return book
}

func TestBuildScenario(t *testing.T) {
	got := Build(scenarioBook(), "")

	want := "## Table of Contents\n\n" +
		"#### [Chapter 1 - Intro](./a.md)\n" +
		"- [**1.1** Why Go](./a.md#11-why-go)\n" +
		"- [**1.2** Install](./a.md#12-install)\n" +
		"#### [Chapter 2 - Setup](./b.md)\n" +
		"- [**2.1** Editor](./b.md#21-editor)\n"
	assert.Equal(t, want, got)
	assert.NotContains(t, got, "1.2.1", "subsections stay out of the table of contents")
}

func TestBuildChapterWithoutSections(t *testing.T) {
	book := models.NewBook()
	book.PushChapter(&models.Chapter{Name: "empty.md", Content: "just text"})
	numbering.NumberBook(book, parser.ExtractHeadings)

	got := Build(book, "## Contents")
	assert.Equal(t, "## Contents\n\n#### [Chapter 1 - Chapter 1](./empty.md)\n", got)
}

func TestInsert(t *testing.T) {
	out, ok := Insert("# Welcome\n\n{{table-of-content}}\n\nBye {{table-of-content}}", "", "TOC")
	assert.True(t, ok)
	assert.Equal(t, "# Welcome\n\nTOC\n\nBye {{table-of-content}}", out)

	out, ok = Insert("# No placeholder", DefaultPlaceholder, "TOC")
	assert.False(t, ok)
	assert.Equal(t, "# No placeholder", out)
}
