package renderer

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/aymerick/raymond"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	ghtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/geocine/bookgen/internal/config"
	"github.com/geocine/bookgen/internal/decorate"
	"github.com/geocine/bookgen/internal/models"
	"github.com/geocine/bookgen/internal/rewriter"
	"github.com/geocine/bookgen/internal/toc"
	"github.com/geocine/bookgen/internal/utils"
)

// RenderContext holds context for rendering
type RenderContext struct {
	DestDir   string
	SourceDir string
	// Book must already be numbered
	Book *models.Book
	// FrontPage is the front page text with the table of contents in place
	FrontPage string
	Config    *config.Config
	// If non-empty, pages inject an SSE live-reload client targeting this path.
	LiveReloadEndpointPath string
	// AssetsFS provides the front-end assets (expects paths under "frontend/")
	AssetsFS fs.FS
	Logger   *slog.Logger
}

// HtmlRenderer renders a compiled book to a browsable HTML preview
type HtmlRenderer struct {
	markdown  goldmark.Markdown
	style     *chroma.Style
	codeBlock *codeBlockRenderer
	decorate  decorate.Options
	decorated bool
}

// NewHtmlRenderer creates a new HTML renderer
func NewHtmlRenderer(cfg *config.Config) *HtmlRenderer {
	style := styles.Get(cfg.Html.HighlightStyle)
	if style == nil {
		style = styles.Fallback
	}
	codeBlock := newCodeBlockRenderer(style, cfg.Decorate.CodeClass)

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.DefinitionList,
		),
		goldmark.WithRendererOptions(
			ghtml.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(codeBlock, 100)),
		),
	)
	return &HtmlRenderer{
		markdown:  md,
		style:     style,
		codeBlock: codeBlock,
		decorate: decorate.Options{
			LineHeight: cfg.Decorate.LineHeight,
			CodeClass:  cfg.Decorate.CodeClass,
		},
		decorated: cfg.Html.Decorate,
	}
}

// Render writes index.html, one page per chapter and the stylesheets into
// DestDir. The directory is emptied first.
func (r *HtmlRenderer) Render(ctx *RenderContext) error {
	if err := ctx.Config.CheckOutputDir(ctx.DestDir); err != nil {
		return err
	}
	if err := utils.PrepareDir(ctx.DestDir); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tpl, err := loadPageTemplate(ctx.AssetsFS)
	if err != nil {
		return err
	}

	if err := r.copyAssets(ctx); err != nil {
		return fmt.Errorf("failed to copy assets: %w", err)
	}

	chapters := readableChapters(ctx.Book)
	for i, ch := range chapters {
		var prev, next *models.Chapter
		if i > 0 {
			prev = chapters[i-1]
		}
		if i < len(chapters)-1 {
			next = chapters[i+1]
		}
		if err := r.renderChapter(ctx, tpl, ch, prev, next); err != nil {
			return fmt.Errorf("failed to render chapter '%s': %w", ch.Name, err)
		}
	}

	if err := r.renderIndex(ctx, tpl, chapters); err != nil {
		return fmt.Errorf("failed to render index: %w", err)
	}

	if err := r.copyNonMarkdown(ctx); err != nil {
		return fmt.Errorf("failed to copy source assets: %w", err)
	}

	return nil
}

func readableChapters(book *models.Book) []*models.Chapter {
	chapters := make([]*models.Chapter, 0, len(book.Chapters))
	for _, ch := range book.Chapters {
		if !ch.Skipped {
			chapters = append(chapters, ch)
		}
	}
	return chapters
}

// pageName maps a chapter source name to its preview page
func pageName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".html"
}

// convertMarkdown converts markdown to HTML and extracts headings for the on-page nav
func (r *HtmlRenderer) convertMarkdown(content string) (string, []HeadingInfo, error) {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(content), &buf); err != nil {
		return "", nil, fmt.Errorf("failed to convert markdown: %w", err)
	}

	html, headings := transformHeadingIDs(buf.String())
	html = transformAdmonitions(html)
	html = transformLinksMdToHtml(html)
	return html, headings, nil
}

func (r *HtmlRenderer) sidebar(ctx *RenderContext, active *models.Chapter) []*navLink {
	links := make([]*navLink, 0, len(ctx.Book.Chapters))
	for _, ch := range readableChapters(ctx.Book) {
		links = append(links, &navLink{
			Number: strconv.Itoa(ch.Index),
			Title:  toc.ChapterTitle(ch),
			Link:   pageName(ch.Name),
			Active: ch == active,
		})
	}
	return links
}

func chapterLink(ch *models.Chapter) *navLink {
	if ch == nil {
		return nil
	}
	return &navLink{Number: strconv.Itoa(ch.Index), Title: toc.ChapterTitle(ch), Link: pageName(ch.Name)}
}

// renderChapter renders a single chapter to an HTML file
func (r *HtmlRenderer) renderChapter(ctx *RenderContext, tpl *raymond.Template, ch, prev, next *models.Chapter) error {
	htmlContent, headings, err := r.convertMarkdown(rewriter.Body(ch))
	if err != nil {
		return err
	}

	pd := &pageData{
		Language:           ctx.Config.Book.Language,
		Title:              fmt.Sprintf("%s - %s", toc.ChapterTitle(ch), ctx.Config.Book.Title),
		Description:        ctx.Config.Book.Description,
		BookTitle:          ctx.Config.Book.Title,
		Chapters:           r.sidebar(ctx, ch),
		Headings:           headings,
		Previous:           chapterLink(prev),
		Next:               chapterLink(next),
		LiveReloadEndpoint: ctx.LiveReloadEndpointPath,
		Content:            raymond.SafeString(htmlContent),
	}
	return r.writePage(ctx, tpl, pageName(ch.Name), pd)
}

// renderIndex renders index.html from the front page
func (r *HtmlRenderer) renderIndex(ctx *RenderContext, tpl *raymond.Template, chapters []*models.Chapter) error {
	htmlContent, headings, err := r.convertMarkdown(ctx.FrontPage)
	if err != nil {
		return err
	}

	var next *models.Chapter
	if len(chapters) > 0 {
		next = chapters[0]
	}

	pd := &pageData{
		Language:           ctx.Config.Book.Language,
		Title:              ctx.Config.Book.Title,
		Description:        ctx.Config.Book.Description,
		BookTitle:          ctx.Config.Book.Title,
		Chapters:           r.sidebar(ctx, nil),
		Headings:           headings,
		Next:               chapterLink(next),
		LiveReloadEndpoint: ctx.LiveReloadEndpointPath,
		Content:            raymond.SafeString(htmlContent),
	}
	return r.writePage(ctx, tpl, "index.html", pd)
}

// writePage renders the template, runs the page-load decorations ahead of
// time and writes the result.
func (r *HtmlRenderer) writePage(ctx *RenderContext, tpl *raymond.Template, name string, pd *pageData) error {
	page, err := renderPageWithHbs(tpl, pd)
	if err != nil {
		return err
	}

	if r.decorated {
		decorated, report, err := decorate.Page(page, r.decorate)
		if err != nil {
			return fmt.Errorf("failed to decorate '%s': %w", name, err)
		}
		if !report.Balanced() && ctx.Logger != nil {
			ctx.Logger.Warn("unresolved sentinels",
				slog.String("page", name),
				slog.Int("missing", report.Missing),
				slog.Int("unclaimed", report.Unclaimed))
		}
		page = decorated
	}

	return utils.WriteFile(filepath.Join(ctx.DestDir, name), []byte(page))
}

// copyAssets writes the stylesheet and the chroma theme for the configured style
func (r *HtmlRenderer) copyAssets(ctx *RenderContext) error {
	css, err := fs.ReadFile(ctx.AssetsFS, "frontend/css/book.css")
	if err != nil {
		return err
	}
	if err := utils.WriteFile(filepath.Join(ctx.DestDir, "css", "book.css"), css); err != nil {
		return err
	}

	var highlight bytes.Buffer
	if err := r.codeBlock.formatter.WriteCSS(&highlight, r.style); err != nil {
		return err
	}
	return utils.WriteFile(filepath.Join(ctx.DestDir, "css", "highlight.css"), highlight.Bytes())
}

// copyNonMarkdown copies images and other non-Markdown files from the source
// directory, preserving their relative paths. The manifest is not copied.
func (r *HtmlRenderer) copyNonMarkdown(ctx *RenderContext) error {
	srcRoot := filepath.Clean(ctx.SourceDir)
	dstRoot := filepath.Clean(ctx.DestDir)
	manifest := ctx.Config.Build.Manifest

	if ctx.SourceDir == "" || !utils.DirExists(srcRoot) {
		return nil
	}

	return filepath.WalkDir(srcRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == dstRoot {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		if strings.EqualFold(filepath.Ext(name), ".md") || name == manifest {
			return nil
		}
		rel, err := filepath.Rel(srcRoot, path)
		if err != nil {
			return err
		}
		return utils.CopyFile(path, filepath.Join(dstRoot, rel))
	})
}
