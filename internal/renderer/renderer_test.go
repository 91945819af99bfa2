package renderer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocine/bookgen/internal/config"
	"github.com/geocine/bookgen/internal/models"
	"github.com/geocine/bookgen/internal/numbering"
	"github.com/geocine/bookgen/internal/parser"
	"github.com/geocine/bookgen/internal/testutil"
	"github.com/geocine/bookgen/internal/toc"
)

func testBook(t *testing.T) *models.Book {
	t.Helper()
	book := models.NewBook()
	book.FrontPageName = "Introduction.md"
	book.FrontPage = "# My Book\n\n{{table-of-content}}\n"
	book.PushChapter(&models.Chapter{
		Name:  "a.md",
		Title: "Basics",
		Content: "# Basics\n\n## Getting Started\n\nSee [next](./b.md#21-more).\n\n" +
			"```js {2}\nconst a = 1;\nconst b = 2;\n```\n",
	})
	book.PushChapter(&models.Chapter{Name: "b.md", Title: "Advanced", Content: "# Advanced\n\n## More\n"})
	book.PushChapter(&models.Chapter{Name: "c.md", Title: "Broken", Skipped: true})
	numbering.NumberBook(book, parser.ExtractHeadings)
	return book
}

func renderTestBook(t *testing.T) string {
	t.Helper()
	cfg := config.NewDefaultConfig()
	src := t.TempDir()
	testutil.WriteFile(t, src, "img/logo.png", "png")
	testutil.WriteFile(t, src, "a.md", "raw")
	testutil.WriteFile(t, src, "ToC.json", "[]")

	book := testBook(t)
	front, _ := toc.Insert(book.FrontPage, cfg.Toc.Placeholder, toc.Build(book, cfg.Toc.Heading))

	dest := filepath.Join(t.TempDir(), "preview")
	r := NewHtmlRenderer(cfg)
	err := r.Render(&RenderContext{
		DestDir:                dest,
		SourceDir:              src,
		Book:                   book,
		FrontPage:              front,
		Config:                 cfg,
		LiveReloadEndpointPath: "/__livereload",
		AssetsFS:               os.DirFS("../.."),
	})
	require.NoError(t, err)
	return dest
}

func TestRenderWritesPreview(t *testing.T) {
	dest := renderTestBook(t)

	assert.ElementsMatch(t, []string{
		"index.html",
		"a.html",
		"b.html",
		"css/book.css",
		"css/highlight.css",
		"img/logo.png",
	}, testutil.ListFiles(t, dest))
}

func TestRenderChapterPage(t *testing.T) {
	dest := renderTestBook(t)
	page := testutil.ReadFile(t, dest, "a.html")

	assert.Contains(t, page, `<h2 id="11-getting-started"><a class="header" href="#11-getting-started">1.1 Getting Started</a></h2>`)
	assert.Contains(t, page, `href="./b.html#21-more"`)
	assert.Contains(t, page, `class="hljs language-js {2}"`)
	assert.Contains(t, page, `class="line-highlight" style="top:24px;height:24px"`)
	assert.Contains(t, page, `<a rel="next" href="b.html">`)
	assert.NotContains(t, page, `rel="prev"`)
	assert.Contains(t, page, `new EventSource("/__livereload")`)
	assert.Contains(t, page, `<title>Basics - My Book</title>`)
}

func TestRenderIndexCarriesToc(t *testing.T) {
	dest := renderTestBook(t)
	page := testutil.ReadFile(t, dest, "index.html")

	assert.Contains(t, page, `href="./a.html#11-getting-started"`)
	assert.Contains(t, page, `href="./b.html#21-more"`)
	assert.Contains(t, page, `href="./c.html"`)
	assert.NotContains(t, page, `<a href="c.html">`)
	assert.Contains(t, page, `<a rel="next" href="a.html">`)
}

func TestRenderWithoutDecorate(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Html.Decorate = false
	book := testBook(t)

	dest := t.TempDir()
	err := NewHtmlRenderer(cfg).Render(&RenderContext{
		DestDir:  dest,
		Book:     book,
		Config:   cfg,
		AssetsFS: os.DirFS("../.."),
	})
	require.NoError(t, err)

	page := testutil.ReadFile(t, dest, "a.html")
	assert.Contains(t, page, `{2}`)
	assert.NotContains(t, page, "line-highlight")
	assert.NotContains(t, page, "EventSource")
}

func TestRenderMissingTemplates(t *testing.T) {
	cfg := config.NewDefaultConfig()
	err := NewHtmlRenderer(cfg).Render(&RenderContext{
		DestDir:  t.TempDir(),
		Book:     testBook(t),
		Config:   cfg,
		AssetsFS: os.DirFS(t.TempDir()),
	})
	assert.Error(t, err)
}

func TestRenderRejectsSourceAsDest(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Root = t.TempDir()
	testutil.WriteFile(t, cfg.SourceDir(), "a.md", "# A\n")

	err := NewHtmlRenderer(cfg).Render(&RenderContext{
		DestDir:  cfg.SourceDir(),
		Book:     testBook(t),
		Config:   cfg,
		AssetsFS: os.DirFS("../.."),
	})
	require.ErrorIs(t, err, config.ErrUnsafeOutputDir)
	assert.Equal(t, "# A\n", testutil.ReadFile(t, cfg.SourceDir(), "a.md"))
}

func TestParseFenceInfo(t *testing.T) {
	cases := []struct {
		info, lang, spec string
	}{
		{"", "", ""},
		{"go", "go", ""},
		{"JS {3,5-7}", "js", "{3,5-7}"},
		{"js{3}", "js", "{3}"},
		{"py { 1, 4 - 5 }", "py", "{1,4-5}"},
		{"{2}", "", "{2}"},
	}
	for _, c := range cases {
		lang, spec := parseFenceInfo(c.info)
		assert.Equal(t, c.lang, lang, c.info)
		assert.Equal(t, c.spec, spec, c.info)
	}
}

func TestConvertMarkdownHeadings(t *testing.T) {
	r := NewHtmlRenderer(config.NewDefaultConfig())
	html, headings, err := r.convertMarkdown("# Title\n\n## 1.1 Section <em>One</em>\n\n### 1.1.1 Deep\n\nParagraph.\n")
	require.NoError(t, err)

	assert.Contains(t, html, `<h1 id="title"><a class="header" href="#title">Title</a></h1>`)
	assert.Contains(t, html, `id="11-section-one"`)
	require.Len(t, headings, 2)
	assert.Equal(t, HeadingInfo{Level: "2", Text: "1.1 Section One", ID: "11-section-one"}, headings[0])
	assert.Equal(t, "3", headings[1].Level)
}

func TestCodeBlockFallsBackForUnknownLanguage(t *testing.T) {
	r := NewHtmlRenderer(config.NewDefaultConfig())
	html, _, err := r.convertMarkdown("```nosuchlang\n<b>x</b>\n```\n")
	require.NoError(t, err)

	assert.Contains(t, html, `<pre class="chroma"><code class="hljs language-nosuchlang">`)
	assert.Contains(t, html, "&lt;b&gt;")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(html), "</code></pre>"))
}

func TestTransformAdmonitions(t *testing.T) {
	in := "<blockquote>\n<p>[!WARNING]\nMind the gap</p>\n</blockquote>"
	out := transformAdmonitions(in)
	assert.Contains(t, out, `class="callout callout-warning"`)
	assert.Contains(t, out, `<p class="callout-title">Warning</p>`)
	assert.Contains(t, out, "<p>Mind the gap</p>")

	plain := "<blockquote>\n<p>[!UNKNOWN] text</p>\n</blockquote>"
	assert.Equal(t, plain, transformAdmonitions(plain))
}

func TestTransformLinksMdToHtml(t *testing.T) {
	in := `<a href="./a.md#x">a</a> <a href="b.md">b</a> <a href="https://x.io/readme">c</a>`
	out := transformLinksMdToHtml(in)
	assert.Equal(t, `<a href="./a.html#x">a</a> <a href="b.html">b</a> <a href="https://x.io/readme">c</a>`, out)
}
