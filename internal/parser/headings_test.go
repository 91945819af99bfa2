package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractHeadingsLevelsAndOrder(t *testing.T) {
	text := "# Title\n\n## Getting Started\ntext\n### Install, Configure\n## Next/Steps v1.2\n"
	hs := ExtractHeadings(text)
	require.Len(t, hs, 3)

	assert.Equal(t, 2, hs[0].Level)
	assert.Equal(t, "Getting Started", hs[0].Text)
	assert.Equal(t, 3, hs[1].Level)
	assert.Equal(t, "Install, Configure", hs[1].Text)
	assert.Equal(t, "Next/Steps v1.2", hs[2].Text)
}

func TestExtractHeadingsOffsets(t *testing.T) {
	text := "intro\n## One\r\nbody\n###   Two  \n"
	hs := ExtractHeadings(text)
	require.Len(t, hs, 2)

	assert.Equal(t, "## One", text[hs[0].Offset:hs[0].End])
	assert.Equal(t, "###   Two", text[hs[1].Offset:hs[1].End])
	assert.Equal(t, "Two", hs[1].Text)
}

func TestExtractHeadingsRejectsOutsideCharacterClass(t *testing.T) {
	text := "## What's new\n## Use `go`\n#### Deep\n##NoSpace\n## \n text ## inline\n"
	assert.Empty(t, ExtractHeadings(text))
}

func TestExtractHeadingsInsideFencesAreCounted(t *testing.T) {
	text := "## Real\n```sh\n## looks like a heading\n```\n"
	hs := ExtractHeadings(text)
	require.Len(t, hs, 2)
	assert.Equal(t, "looks like a heading", hs[1].Text)
}

func TestExtractHeadingsLastLineWithoutNewline(t *testing.T) {
	hs := ExtractHeadings("## Only")
	require.Len(t, hs, 1)
	assert.Equal(t, 0, hs[0].Offset)
	assert.Equal(t, 7, hs[0].End)
}
