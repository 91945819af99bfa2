package decorate

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// overlay is the highlight pass used by Page
var overlay = Overlay

// Page runs both decoration passes over one rendered page: sentinel
// numbering first, then highlight overlays. When the overlay pass fails the
// numbered text is still returned alongside the error.
func Page(content string, opts Options) (string, SentinelReport, error) {
	numbered, report := ResolveSentinels(content)
	out, err := overlay(numbered, opts)
	if err != nil {
		return numbered, report, err
	}
	return out, report, nil
}

// DirResult summarizes a directory pass
type DirResult struct {
	Pages      int // HTML pages visited
	Rewritten  int // pages whose content changed
	Unresolved int // pages left with unbalanced sentinels
	Failed     int // pages that could not be read, decorated or written
}

// Dir decorates every .html file under root in place. Pages are processed
// concurrently; a failing page is logged and skipped.
func Dir(ctx context.Context, root string, opts Options, workers int, logger *slog.Logger) (DirResult, error) {
	var pages []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".html") {
			pages = append(pages, path)
		}
		return nil
	})
	if err != nil {
		return DirResult{}, err
	}

	var (
		mu     sync.Mutex
		result = DirResult{Pages: len(pages)}
	)
	record := func(fn func(*DirResult)) {
		mu.Lock()
		fn(&result)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for _, path := range pages {
		path := path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			changed, report, err := decorateFile(path, opts)
			if err != nil {
				logger.Warn("decorate failed", slog.String("path", path), slog.String("error", err.Error()))
				record(func(r *DirResult) { r.Failed++ })
				return nil
			}
			if !report.Balanced() {
				logger.Warn("unresolved sentinels",
					slog.String("path", path),
					slog.Int("missing", report.Missing),
					slog.Int("unclaimed", report.Unclaimed))
			}
			record(func(r *DirResult) {
				if changed {
					r.Rewritten++
				}
				if !report.Balanced() {
					r.Unresolved++
				}
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}

func decorateFile(path string, opts Options) (bool, SentinelReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, SentinelReport{}, err
	}
	out, report, err := Page(string(data), opts)
	if err != nil {
		return false, report, err
	}
	if out == string(data) {
		return false, report, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, report, err
	}
	return true, report, os.WriteFile(path, []byte(out), info.Mode().Perm())
}
