package renderer

import (
	"fmt"
	"io/fs"

	"github.com/aymerick/raymond"
)

const templatesDir = "frontend/templates/"

// navLink is one entry of the sidebar or the previous/next links
type navLink struct {
	Number string
	Title  string
	Link   string
	Active bool
}

func (n *navLink) toMap() map[string]interface{} {
	if n == nil {
		return nil
	}
	return map[string]interface{}{
		"number": n.Number,
		"title":  n.Title,
		"link":   n.Link,
		"active": n.Active,
	}
}

// pageData is the context passed to the Handlebars templates for pages
type pageData struct {
	Language           string
	Title              string
	Description        string
	BookTitle          string
	Chapters           []*navLink
	Headings           []HeadingInfo
	Previous           *navLink
	Next               *navLink
	LiveReloadEndpoint string
	Content            raymond.SafeString
}

// loadPageTemplate parses page.hbs together with its partials
func loadPageTemplate(assets fs.FS) (*raymond.Template, error) {
	page, err := fs.ReadFile(assets, templatesDir+"page.hbs")
	if err != nil {
		return nil, fmt.Errorf("failed to read page.hbs: %w", err)
	}
	tpl, err := raymond.Parse(string(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page.hbs: %w", err)
	}

	for _, name := range []string{"head", "nav"} {
		b, err := fs.ReadFile(assets, templatesDir+name+".hbs")
		if err != nil {
			return nil, fmt.Errorf("failed to read %s.hbs: %w", name, err)
		}
		tpl.RegisterPartial(name, string(b))
	}

	tpl.RegisterHelper("eq", func(a interface{}, b interface{}) bool {
		return fmt.Sprint(a) == fmt.Sprint(b)
	})
	return tpl, nil
}

// renderPageWithHbs renders a page using Handlebars template engine
func renderPageWithHbs(tpl *raymond.Template, data *pageData) (string, error) {
	chapters := make([]map[string]interface{}, 0, len(data.Chapters))
	for _, ch := range data.Chapters {
		chapters = append(chapters, ch.toMap())
	}
	headings := make([]map[string]interface{}, 0, len(data.Headings))
	for _, h := range data.Headings {
		headings = append(headings, map[string]interface{}{
			"level": h.Level,
			"text":  h.Text,
			"id":    h.ID,
		})
	}

	// Convert struct to map for proper field name resolution in template
	dataMap := map[string]interface{}{
		"language":             data.Language,
		"title":                data.Title,
		"description":          data.Description,
		"book_title":           data.BookTitle,
		"chapters":             chapters,
		"headings":             headings,
		"previous":             data.Previous.toMap(),
		"next":                 data.Next.toMap(),
		"live_reload_endpoint": data.LiveReloadEndpoint,
		"content":              data.Content,
	}

	result, err := tpl.Exec(dataMap)
	if err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return result, nil
}
