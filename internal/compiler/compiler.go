// Package compiler runs one book build: load, preprocess, number, build the
// table of contents, then write every output document.
package compiler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/geocine/bookgen/internal/config"
	"github.com/geocine/bookgen/internal/loader"
	"github.com/geocine/bookgen/internal/models"
	"github.com/geocine/bookgen/internal/numbering"
	"github.com/geocine/bookgen/internal/parser"
	"github.com/geocine/bookgen/internal/preprocessor"
	"github.com/geocine/bookgen/internal/rewriter"
	"github.com/geocine/bookgen/internal/toc"
	"github.com/geocine/bookgen/internal/utils"
)

// Result describes a finished run
type Result struct {
	Book      *models.Book
	Written   []string // output paths, sorted
	Skipped   []string // chapters without output
	Failed    []string // output paths that could not be written
	Anomalies []numbering.Anomaly
	TocPlaced bool   // front page carried the placeholder
	FrontPage string // front page text with the table of contents in place
}

// Compiler builds the book described by a configuration
type Compiler struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a compiler
func New(cfg *config.Config, logger *slog.Logger) *Compiler {
	return &Compiler{cfg: cfg, logger: logger}
}

type output struct {
	path   string
	render func() ([]byte, error)
}

// Run performs a full build. Input-structure errors abort before the output
// directory is touched. Once writing starts, a file that fails is logged and
// the rest are still written.
func (c *Compiler) Run(ctx context.Context) (*Result, error) {
	if err := c.cfg.CheckOutputDir(c.cfg.BuildDir()); err != nil {
		return nil, err
	}

	book, err := loader.NewBookLoader(c.cfg, c.logger).Load()
	if err != nil {
		return nil, err
	}

	if err := preprocessor.FromConfig(c.cfg, c.logger).Process(book); err != nil {
		return nil, err
	}

	result := &Result{Book: book}
	result.Anomalies = numbering.NumberBook(book, parser.ExtractHeadings)
	for _, a := range result.Anomalies {
		c.logger.Warn("numbering anomaly",
			slog.String("kind", string(a.Kind)),
			slog.String("chapter", a.Chapter),
			slog.String("heading", a.Heading),
			slog.String("slug", a.Slug))
	}

	tocText := toc.Build(book, c.cfg.Toc.Heading)
	frontPage, placed := toc.Insert(book.FrontPage, c.cfg.Toc.Placeholder, tocText)
	result.TocPlaced = placed
	result.FrontPage = frontPage
	if !placed {
		c.logger.Warn("table of contents placeholder not found",
			slog.String("front_page", book.FrontPageName),
			slog.String("placeholder", c.cfg.Toc.Placeholder))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outDir := c.cfg.BuildDir()
	if err := utils.PrepareDir(outDir); err != nil {
		return nil, fmt.Errorf("failed to prepare output directory: %w", err)
	}

	outputs := c.outputs(book, frontPage, result)
	if err := c.write(ctx, outputs, result); err != nil {
		return result, err
	}
	return result, nil
}

func (c *Compiler) outputs(book *models.Book, frontPage string, result *Result) []output {
	outDir := c.cfg.BuildDir()
	opts := rewriter.Options{SidebarNav: c.cfg.Build.SidebarNav, Trailer: c.cfg.Build.Trailer}

	outputs := make([]output, 0, len(book.Chapters)+2)
	for _, ch := range book.Chapters {
		ch := ch
		if ch.Skipped {
			result.Skipped = append(result.Skipped, ch.Name)
			continue
		}
		outputs = append(outputs, output{
			path:   filepath.Join(outDir, ch.Name),
			render: func() ([]byte, error) { return rewriter.Rewrite(ch, opts) },
		})
	}
	outputs = append(outputs,
		output{
			path:   filepath.Join(outDir, book.FrontPageName),
			render: func() ([]byte, error) { return []byte(frontPage), nil },
		},
		output{
			path:   c.cfg.SidebarPath(),
			render: func() ([]byte, error) { return c.Sidebar(book) },
		},
	)
	return outputs
}

func (c *Compiler) write(ctx context.Context, outputs []output, result *Result) error {
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Build.Workers)

	for _, out := range outputs {
		out := out
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			err := c.writeOne(out)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				c.logger.Error("write failed", slog.String("path", out.path), slog.String("error", err.Error()))
				result.Failed = append(result.Failed, out.path)
				return nil
			}
			result.Written = append(result.Written, out.path)
			return nil
		})
	}
	err := g.Wait()

	sort.Strings(result.Written)
	sort.Strings(result.Failed)
	return err
}

func (c *Compiler) writeOne(out output) error {
	data, err := out.render()
	if err != nil {
		return err
	}
	return utils.WriteFile(out.path, data)
}

// Sidebar renders the navigation index: the configured group lists the
// front page id followed by every written chapter id in manifest order.
func (c *Compiler) Sidebar(book *models.Book) ([]byte, error) {
	ids := make([]string, 0, len(book.Chapters)+1)
	ids = append(ids, c.cfg.Build.IndexID)
	for _, ch := range book.Chapters {
		if ch.Skipped {
			continue
		}
		ids = append(ids, ch.Name)
	}
	sidebar := map[string]map[string][]string{
		c.cfg.Build.SidebarKey: {c.cfg.Build.SidebarGroup: ids},
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "\t")
	if err := enc.Encode(sidebar); err != nil {
		return nil, fmt.Errorf("failed to encode sidebar: %w", err)
	}
	return buf.Bytes(), nil
}
