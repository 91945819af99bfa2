package frontmatter

import (
	"testing"

	"github.com/geocine/bookgen/internal/models"
)

func TestStripFrontmatter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name: "YAML frontmatter",
			input: `---
id: old
title: Test Chapter
---

## Install

This is the content.`,
			expected: `## Install

This is the content.`,
		},
		{
			name: "TOML frontmatter",
			input: `+++
title = "Test Chapter"
+++
## Install`,
			expected: `## Install`,
		},
		{
			name:     "No frontmatter",
			input:    "## Install\n\nJust content, no metadata.",
			expected: "## Install\n\nJust content, no metadata.",
		},
		{
			name: "Multiline YAML values",
			input: `---
title: Multi
description: |
  This is a long
  description
---
## Heading`,
			expected: `## Heading`,
		},
		{
			name:     "Content with dashes (no frontmatter)",
			input:    "## Chapter\n\n---\nnot: meta\n---\n",
			expected: "## Chapter\n\n---\nnot: meta\n---\n",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			result := stripFrontmatter(tt.input)
			if result != tt.expected {
				t.Errorf("stripFrontmatter() mismatch\nGot:\n%q\nExpected:\n%q", result, tt.expected)
			}
		})
	}
}

func TestFrontmatterPreprocessorProcess(t *testing.T) {
	book := models.NewBook()
	book.PushChapter(&models.Chapter{Name: "a.md", Content: "---\nid: a\n---\n## A\n"})
	book.PushChapter(&models.Chapter{Name: "b.md", Content: "## B\n"})
	book.PushChapter(&models.Chapter{Name: "c.md", Skipped: true})

	fp := NewFrontmatterPreprocessor()
	if err := fp.Process(book); err != nil {
		t.Fatalf("Process() error: %v", err)
	}

	if got := book.Chapters[0].Content; got != "## A\n" {
		t.Errorf("Chapter 1 frontmatter not stripped. Got: %q", got)
	}
	if got := book.Chapters[1].Content; got != "## B\n" {
		t.Errorf("Chapter 2 was modified. Got: %q", got)
	}
}

func TestFrontmatterPreprocessorName(t *testing.T) {
	fp := NewFrontmatterPreprocessor()
	if fp.Name() != "frontmatter" {
		t.Errorf("Name() = %q, want 'frontmatter'", fp.Name())
	}
}
