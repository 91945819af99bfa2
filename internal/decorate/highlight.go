package decorate

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Defaults for Options fields left at their zero value.
const (
	DefaultLineHeight   = 24
	DefaultCodeClass    = "hljs"
	DefaultOverlayClass = "line-highlight"
)

// Options configures the highlight overlay pass
type Options struct {
	LineHeight   int    // pixel height of one rendered source line
	CodeClass    string // class marking code elements that may carry a spec
	OverlayClass string // class given to each overlay element
}

func (o Options) withDefaults() Options {
	if o.LineHeight <= 0 {
		o.LineHeight = DefaultLineHeight
	}
	if o.CodeClass == "" {
		o.CodeClass = DefaultCodeClass
	}
	if o.OverlayClass == "" {
		o.OverlayClass = DefaultOverlayClass
	}
	return o
}

// LineRange is an inclusive 1-based range of source lines
type LineRange struct {
	Start int
	End   int
}

// Lines returns how many lines the range spans
func (r LineRange) Lines() int { return r.End - r.Start + 1 }

// Top is the overlay offset from the top of the code block
func (r LineRange) Top(lineHeight int) int { return (r.Start - 1) * lineHeight }

// Height is the overlay height for the whole range
func (r LineRange) Height(lineHeight int) int { return r.Lines() * lineHeight }

// ParseHighlightSpec parses a class token such as "{3,5-7}". Items that are
// not a positive line number or an ascending range are dropped.
func ParseHighlightSpec(token string) []LineRange {
	if !strings.HasPrefix(token, "{") || !strings.HasSuffix(token, "}") {
		return nil
	}
	body := strings.TrimSuffix(strings.TrimPrefix(token, "{"), "}")

	var ranges []LineRange
	for _, item := range strings.Split(body, ",") {
		item = strings.TrimSpace(item)
		startStr, endStr, isRange := strings.Cut(item, "-")
		if !isRange {
			endStr = startStr
		}
		start, err1 := strconv.Atoi(startStr)
		end, err2 := strconv.Atoi(endStr)
		if err1 != nil || err2 != nil || start < 1 || end < start {
			continue
		}
		ranges = append(ranges, LineRange{Start: start, End: end})
	}
	return ranges
}

// Overlay appends a positioned highlight element next to every code element
// whose class list carries a line spec. Content without any spec is returned
// unchanged. Code blocks that already have overlays are left alone.
func Overlay(content string, opts Options) (string, error) {
	opts = opts.withDefaults()
	if !strings.Contains(content, "{") {
		return content, nil
	}

	doc, isFragment, err := parseHTML(content)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	type target struct {
		parent *html.Node
		ranges []LineRange
	}
	var targets []target
	walk(doc, func(n *html.Node) {
		classes := strings.Fields(attr(n, "class"))
		if !contains(classes, opts.CodeClass) || n.Parent == nil {
			return
		}
		if hasOverlay(n.Parent, opts.OverlayClass) {
			return
		}
		for _, c := range classes {
			if ranges := ParseHighlightSpec(c); len(ranges) > 0 {
				targets = append(targets, target{parent: n.Parent, ranges: ranges})
			}
		}
	})
	if len(targets) == 0 {
		return content, nil
	}

	for _, t := range targets {
		for _, r := range t.ranges {
			t.parent.AppendChild(overlayNode(r, opts))
		}
	}
	return renderHTML(doc, isFragment)
}

func overlayNode(r LineRange, opts Options) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Div,
		Data:     "div",
		Attr: []html.Attribute{
			{Key: "aria-hidden", Val: "true"},
			{Key: "class", Val: opts.OverlayClass},
			{Key: "style", Val: fmt.Sprintf("top:%dpx;height:%dpx", r.Top(opts.LineHeight), r.Height(opts.LineHeight))},
		},
	}
}

func hasOverlay(n *html.Node, overlayClass string) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && contains(strings.Fields(attr(c, "class")), overlayClass) {
			return true
		}
	}
	return false
}

func walk(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// parseHTML parses full documents as such and everything else as a body
// fragment wrapped in a document node.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))
	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	context := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, true, err
	}
	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder
	if !isFragment {
		if err := html.Render(&buf, doc); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
