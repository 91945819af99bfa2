package frontmatter

import (
	"regexp"

	"github.com/geocine/bookgen/internal/models"
)

var (
	yamlPattern = regexp.MustCompile(`(?s)^---\s*\n(.*?)\n---\s*\n`)
	tomlPattern = regexp.MustCompile(`(?s)^\+\+\+\s*\n(.*?)\n\+\+\+\s*\n`)
)

// FrontmatterPreprocessor strips YAML/TOML frontmatter from chapter sources
// so the generated id/title block is the only one in the output.
// Enabled by default; turn it off in book.toml:
//
//	[preprocessor.frontmatter]
//	enable = false
type FrontmatterPreprocessor struct{}

// NewFrontmatterPreprocessor creates a new frontmatter preprocessor
func NewFrontmatterPreprocessor() *FrontmatterPreprocessor {
	return &FrontmatterPreprocessor{}
}

// Name returns the preprocessor name
func (f *FrontmatterPreprocessor) Name() string {
	return "frontmatter"
}

// Process strips frontmatter from all readable chapters
func (f *FrontmatterPreprocessor) Process(book *models.Book) error {
	for _, ch := range book.Chapters {
		if ch.Skipped {
			continue
		}
		ch.Content = stripFrontmatter(ch.Content)
	}
	return nil
}

// stripFrontmatter removes YAML or TOML frontmatter from content
// Frontmatter formats:
// - YAML: between --- delimiters
// - TOML: between +++ delimiters
// - Must be at the very start of the content
func stripFrontmatter(content string) string {
	if loc := yamlPattern.FindStringIndex(content); loc != nil {
		return content[loc[1]:]
	}
	if loc := tomlPattern.FindStringIndex(content); loc != nil {
		return content[loc[1]:]
	}
	return content
}
