// Package rewriter produces the final text of each chapter: numbered
// headings, front matter and the optional navigation trailer.
package rewriter

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/geocine/bookgen/internal/models"
	"github.com/geocine/bookgen/internal/toc"
)

// DefaultTrailer re-reveals the on-page navigation that the site theme hides
// until the page has been numbered.
const DefaultTrailer = `<script>
document.querySelectorAll('.onPageNav, .docs-prevnext').forEach(function (el) { el.style.display = ''; });
</script>
`

// Options controls the sidebar-navigation variant
type Options struct {
	SidebarNav bool
	Trailer    string // defaults to DefaultTrailer when SidebarNav is set
}

type frontMatter struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
}

// FrontMatter renders the YAML block that identifies a chapter to the
// hosting framework. The id is the source filename so it survives reruns.
func FrontMatter(ch *models.Chapter) ([]byte, error) {
	body, err := yaml.Marshal(frontMatter{ID: ch.Name, Title: toc.ChapterTitle(ch)})
	if err != nil {
		return nil, fmt.Errorf("failed to encode front matter for '%s': %w", ch.Name, err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(body)
	buf.WriteString("---\n\n")
	return buf.Bytes(), nil
}

// Body inserts each heading's number right after its "##"/"###" marker.
// Text between headings is copied through untouched.
func Body(ch *models.Chapter) string {
	var sb strings.Builder
	sb.Grow(len(ch.Content) + 8*len(ch.Headings))

	prev := 0
	for _, h := range ch.Headings {
		sb.WriteString(ch.Content[prev:h.Offset])
		sb.WriteString(strings.Repeat("#", h.Level))
		sb.WriteByte(' ')
		sb.WriteString(h.Display())
		prev = h.End
	}
	sb.WriteString(ch.Content[prev:])
	return sb.String()
}

// Rewrite returns the complete output document for a chapter
func Rewrite(ch *models.Chapter, opts Options) ([]byte, error) {
	fm, err := FrontMatter(ch)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(fm)
	buf.WriteString(Body(ch))
	if opts.SidebarNav {
		trailer := opts.Trailer
		if trailer == "" {
			trailer = DefaultTrailer
		}
		if buf.Len() > 0 && !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
			buf.WriteByte('\n')
		}
		buf.WriteString("\n")
		buf.WriteString(trailer)
	}
	return buf.Bytes(), nil
}
