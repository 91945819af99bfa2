package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *recorder) onChange(changed []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, changed)
}

func (r *recorder) seen(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, call := range r.calls {
		for _, p := range call {
			if p == path {
				return true
			}
		}
	}
	return false
}

func startWatch(t *testing.T, opts Options) *recorder {
	t.Helper()
	rec := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, opts, slog.New(slog.NewTextHandler(io.Discard, nil)), rec.onChange)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})
	return rec
}

// touchUntilSeen keeps writing path until the watcher reports it, which also
// covers the window before the watcher has registered its directories.
func touchUntilSeen(t *testing.T, rec *recorder, path string) {
	t.Helper()
	require.Eventually(t, func() bool {
		if err := os.WriteFile(path, []byte(time.Now().String()), 0644); err != nil {
			return false
		}
		return rec.seen(path)
	}, 5*time.Second, 100*time.Millisecond)
}

func TestWatchDirectory(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0755))

	rec := startWatch(t, Options{Paths: []string{root}, Debounce: 20 * time.Millisecond})
	touchUntilSeen(t, rec, filepath.Join(root, "sub", "a.md"))
}

func TestWatchSingleFile(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	cfg := filepath.Join(root, "book.toml")
	other := filepath.Join(root, "other.txt")
	require.NoError(t, os.WriteFile(cfg, []byte("x"), 0644))

	rec := startWatch(t, Options{Paths: []string{cfg}, Debounce: 20 * time.Millisecond})
	touchUntilSeen(t, rec, cfg)

	require.NoError(t, os.WriteFile(other, []byte("x"), 0644))
	time.Sleep(200 * time.Millisecond)
	assert.False(t, rec.seen(other))
}

func TestWatchIgnoresOutputDir(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	out := filepath.Join(root, "preview")
	require.NoError(t, os.MkdirAll(out, 0755))

	rec := startWatch(t, Options{
		Paths:    []string{root},
		Ignore:   []string{out},
		Debounce: 20 * time.Millisecond,
	})
	touchUntilSeen(t, rec, filepath.Join(root, "a.md"))

	ignoredFile := filepath.Join(out, "index.html")
	require.NoError(t, os.WriteFile(ignoredFile, []byte("x"), 0644))
	time.Sleep(200 * time.Millisecond)
	assert.False(t, rec.seen(ignoredFile))
}

func TestWatchMissingPathIsSkipped(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	rec := startWatch(t, Options{
		Paths:    []string{filepath.Join(root, "nope"), root},
		Debounce: 20 * time.Millisecond,
	})
	touchUntilSeen(t, rec, filepath.Join(root, "b.md"))
}

func TestWithin(t *testing.T) {
	assert.True(t, within("/a/b", "/a/b/c.md"))
	assert.True(t, within("/a/b", "/a/b"))
	assert.False(t, within("/a/b", "/a/bc/d.md"))
	assert.False(t, within("/a/b", "/a"))
}
