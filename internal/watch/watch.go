// Package watch reports debounced filesystem changes under a set of paths.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when Options.Debounce is zero
const DefaultDebounce = 150 * time.Millisecond

// Options configures a watch
type Options struct {
	// Paths are files or directories to watch. Directories are watched
	// recursively. Missing paths are skipped.
	Paths []string
	// Ignore lists directories whose events are dropped, such as output
	// directories that a rebuild writes into.
	Ignore   []string
	Debounce time.Duration
}

// Watch calls onChange with the sorted set of changed paths once events stop
// arriving for the debounce period. It returns when ctx is cancelled.
func Watch(ctx context.Context, opts Options, logger *slog.Logger, onChange func(changed []string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	ignore := make([]string, 0, len(opts.Ignore))
	for _, p := range opts.Ignore {
		ignore = append(ignore, absPath(p))
	}

	var dirs []string
	files := make(map[string]bool)
	for _, p := range opts.Paths {
		p = absPath(p)
		info, err := os.Stat(p)
		if err != nil {
			logger.Debug("watcher: skipping path", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		if info.IsDir() {
			if err := addDirsRecursive(w, p, ignore); err != nil {
				return err
			}
			dirs = append(dirs, p)
			continue
		}
		if err := w.Add(filepath.Dir(p)); err != nil {
			return err
		}
		files[p] = true
	}

	relevant := func(name string) bool {
		if files[name] {
			return true
		}
		for _, d := range dirs {
			if within(d, name) {
				return true
			}
		}
		return false
	}

	logger.Info("watcher: started", slog.Int("paths", len(dirs)+len(files)))

	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			pending = make(map[string]struct{})
			onChange(changed)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod || ignored(ignore, ev.Name) || !relevant(ev.Name) {
				continue
			}

			if ev.Has(fsnotify.Create) {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name, ignore); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
				}
			}

			logger.Debug("watcher: event", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			pending[ev.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher,
// leaving out ignored trees.
func addDirsRecursive(w *fsnotify.Watcher, root string, ignore []string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if ignored(ignore, path) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

func ignored(ignore []string, path string) bool {
	for _, dir := range ignore {
		if within(dir, path) {
			return true
		}
	}
	return false
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
