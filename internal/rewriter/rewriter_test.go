package rewriter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocine/bookgen/internal/models"
	"github.com/geocine/bookgen/internal/numbering"
	"github.com/geocine/bookgen/internal/parser"
)

func numberedChapter(index int, name, title, content string) *models.Chapter {
	ch := &models.Chapter{Index: index, Name: name, Title: title, Content: content}
	ch.Headings, _ = numbering.NumberChapter(index, name, parser.ExtractHeadings(content))
	return ch
}

func TestBodyInsertsNumbers(t *testing.T) {
	ch := numberedChapter(1, "a.md", "Intro", "Lead\n## Why Go\ntext ## Why Go\n## Install  \r\n### On Linux\nend")

	got := Body(ch)
	assert.Equal(t, "Lead\n## 1.1 Why Go\ntext ## Why Go\n## 1.2 Install  \r\n### 1.2.1 On Linux\nend", got)
}

func TestBodyWithoutHeadingsIsUnchanged(t *testing.T) {
	ch := numberedChapter(4, "d.md", "D", "plain text\n")
	assert.Equal(t, "plain text\n", Body(ch))
}

func TestRewriteFrontMatter(t *testing.T) {
	ch := numberedChapter(2, "b.md", "Setup: the basics", "## Editor\n")

	out, err := Rewrite(ch, Options{})
	require.NoError(t, err)
	assert.Equal(t, "---\nid: b.md\ntitle: 'Setup: the basics'\n---\n\n## 2.1 Editor\n", string(out))
}

func TestRewriteUntitledFallsBackToChapterNumber(t *testing.T) {
	ch := numberedChapter(3, "c.md", "", "")
	out, err := Rewrite(ch, Options{})
	require.NoError(t, err)
	assert.Contains(t, string(out), "title: Chapter 3\n")
}

func TestRewriteSidebarNavTrailer(t *testing.T) {
	ch := numberedChapter(1, "a.md", "Intro", "## One")

	out, err := Rewrite(ch, Options{SidebarNav: true})
	require.NoError(t, err)
	assert.Contains(t, string(out), "## 1.1 One\n\n<script>")
	assert.True(t, len(out) > 0 && out[len(out)-1] == '\n')

	out, err = Rewrite(ch, Options{SidebarNav: true, Trailer: "<!-- nav -->\n"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "## 1.1 One\n\n<!-- nav -->\n")
}
