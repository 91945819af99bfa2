package decorate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocine/bookgen/internal/testutil"
)

func TestPageRunsBothPasses(t *testing.T) {
	in := `<h2>{{chapter-number},1}</h2><h3>{{subtopic}}</h3><pre><code class="hljs {1}">x</code></pre>`
	out, report, err := Page(in, Options{})
	require.NoError(t, err)

	assert.True(t, report.Balanced())
	assert.Contains(t, out, "<h2>1</h2><h3>1.1</h3>")
	assert.Contains(t, out, "line-highlight")
}

func TestPageKeepsNumberingWhenOverlayFails(t *testing.T) {
	boom := errors.New("boom")
	overlay = func(string, Options) (string, error) { return "", boom }
	t.Cleanup(func() { overlay = Overlay })

	out, report, err := Page("<p>{{chapter-number},1} {{subtopic}}</p>", Options{})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "<p>1 1.1</p>", out)
	assert.True(t, report.Balanced())
}

func TestDirDecoratesHTMLFiles(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "index.html", "<p>{{chapter-number},1} {{subtopic}}</p>")
	testutil.WriteFile(t, root, filepath.Join("docs", "a.html"), "<p>{{chapter-number},2} {{subtopic}}</p>")
	testutil.WriteFile(t, root, "plain.html", "<p>nothing</p>")
	testutil.WriteFile(t, root, "notes.md", "{{subtopic}}")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	res, err := Dir(context.Background(), root, Options{}, 2, logger)
	require.NoError(t, err)

	assert.Equal(t, DirResult{Pages: 3, Rewritten: 2, Unresolved: 1}, res)
	assert.Equal(t, "<p>1 1.1</p>", testutil.ReadFile(t, root, "index.html"))
	assert.Equal(t, "{{subtopic}}", testutil.ReadFile(t, root, "notes.md"))
}

func TestDirMissingRoot(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := Dir(context.Background(), filepath.Join(t.TempDir(), "nope"), Options{}, 1, logger)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
