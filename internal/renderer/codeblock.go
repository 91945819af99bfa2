package renderer

import (
	"bytes"
	htmlutil "html"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// Matches a line spec such as {3,5-7} in a fence info string.
var infoLineSpec = regexp.MustCompile(`\{[0-9,\-\s]*\}`)

// codeBlockRenderer renders fenced code through chroma and keeps the fence's
// line spec as a class on the code element, where the highlight overlay pass
// looks for it.
type codeBlockRenderer struct {
	formatter *chromahtml.Formatter
	style     *chroma.Style
	codeClass string
}

func newCodeBlockRenderer(style *chroma.Style, codeClass string) *codeBlockRenderer {
	return &codeBlockRenderer{
		formatter: chromahtml.New(chromahtml.WithClasses(true), chromahtml.PreventSurroundingPre(true)),
		style:     style,
		codeClass: codeClass,
	}
}

// RegisterFuncs implements renderer.NodeRenderer
func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *codeBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)

	var info string
	if n.Info != nil {
		info = string(n.Info.Segment.Value(source))
	}
	lang, spec := parseFenceInfo(info)

	var code bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		code.Write(seg.Value(source))
	}

	classes := []string{r.codeClass}
	if lang != "" {
		classes = append(classes, "language-"+lang)
	}
	if spec != "" {
		classes = append(classes, spec)
	}

	_, _ = w.WriteString(`<pre class="chroma"><code class="` + htmlutil.EscapeString(strings.Join(classes, " ")) + `">`)
	if err := r.highlight(w, lang, code.String()); err != nil {
		_, _ = w.WriteString(htmlutil.EscapeString(code.String()))
	}
	_, _ = w.WriteString("</code></pre>\n")
	return ast.WalkSkipChildren, nil
}

func (r *codeBlockRenderer) highlight(w util.BufWriter, lang, code string) error {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := r.formatter.Format(&buf, r.style, iterator); err != nil {
		return err
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// parseFenceInfo splits "js {3,5-7}" or "js{3}" into the language and the
// space-free line spec.
func parseFenceInfo(info string) (lang, spec string) {
	if loc := infoLineSpec.FindStringIndex(info); loc != nil {
		spec = strings.Join(strings.Fields(info[loc[0]:loc[1]]), "")
		info = info[:loc[0]] + info[loc[1]:]
	}
	fields := strings.Fields(info)
	if len(fields) > 0 {
		lang = strings.ToLower(fields[0])
	}
	return lang, spec
}
