package integration

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocine/bookgen/internal/compiler"
	"github.com/geocine/bookgen/internal/config"
	"github.com/geocine/bookgen/internal/renderer"
	"github.com/geocine/bookgen/internal/testutil"
	th "github.com/geocine/bookgen/test"
)

var (
	hrefPattern = regexp.MustCompile(`href="\./([^"#]+)\.html#([^"]+)"`)
	idPattern   = regexp.MustCompile(`id="([^"]+)"`)
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func buildFixture(t *testing.T, root string) (*config.Config, *compiler.Result) {
	t.Helper()
	cfg, err := config.Load(root)
	require.NoError(t, err)
	res, err := compiler.New(cfg, quietLogger()).Run(context.Background())
	require.NoError(t, err)
	return cfg, res
}

func TestFixtureBookMatchesExpected(t *testing.T) {
	root := th.CopyFixture(t, "book")
	_, res := buildFixture(t, root)

	assert.Empty(t, res.Anomalies)
	assert.Empty(t, res.Failed)
	assert.Empty(t, res.Skipped)

	for rel, want := range th.ExpectedFiles(t, "book") {
		rel := rel
		want := want
		t.Run(rel, func(t *testing.T) {
			assert.Equal(t, want, testutil.ReadFile(t, root, rel))
		})
	}
	assert.ElementsMatch(t, []string{"basics.md", "advanced.md", "Introduction.md"},
		testutil.ListFiles(t, filepath.Join(root, "docs")))
}

func TestFixtureBookRerunIsIdentical(t *testing.T) {
	root := th.CopyFixture(t, "book")
	buildFixture(t, root)
	first := snapshot(t, root)

	buildFixture(t, root)
	assert.Equal(t, first, snapshot(t, root))
}

func TestFixturePreviewLinksResolve(t *testing.T) {
	root := th.CopyFixture(t, "book")
	cfg, res := buildFixture(t, root)

	err := renderer.NewHtmlRenderer(cfg).Render(&renderer.RenderContext{
		DestDir:   cfg.PreviewDir(),
		SourceDir: cfg.SourceDir(),
		Book:      res.Book,
		FrontPage: res.FrontPage,
		Config:    cfg,
		AssetsFS:  os.DirFS(th.RepoRoot()),
		Logger:    quietLogger(),
	})
	require.NoError(t, err)

	preview := cfg.PreviewDir()
	index := testutil.ReadFile(t, preview, "index.html")
	links := hrefPattern.FindAllStringSubmatch(index, -1)
	require.Len(t, links, 4)

	for _, l := range links {
		page := testutil.ReadFile(t, preview, l[1]+".html")
		ids := map[string]bool{}
		for _, m := range idPattern.FindAllStringSubmatch(page, -1) {
			ids[m[1]] = true
		}
		assert.True(t, ids[l[2]], "%s.html has no id %q", l[1], l[2])
	}

	basics := testutil.ReadFile(t, preview, "basics.html")
	assert.Contains(t, basics, `class="line-highlight" style="top:24px;height:24px"`)
	assert.Contains(t, basics, `href="./advanced.html#21-configuration"`)
	assert.NotContains(t, basics, "title: Ignored")

	advanced := testutil.ReadFile(t, preview, "advanced.html")
	assert.Contains(t, advanced, `callout-note`)
	assert.True(t, testutil.FileExists(t, filepath.Join(preview, "img", "diagram.svg")))
	assert.False(t, testutil.FileExists(t, filepath.Join(preview, "ToC.json")))
}

func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	for _, dir := range []string{"docs", "website"} {
		for _, rel := range testutil.ListFiles(t, filepath.Join(root, dir)) {
			out[dir+"/"+rel] = testutil.ReadFile(t, filepath.Join(root, dir), rel)
		}
	}
	return out
}
