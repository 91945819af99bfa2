package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Chapter describes one fixture chapter file and its manifest entry
type Chapter struct {
	Name    string
	Title   string
	Content string
}

// TempBook creates a temporary project with a book/ source folder holding a
// ToC.json manifest, an Introduction.md front page and the given chapters.
// It returns the project root.
func TempBook(t *testing.T, intro string, chapters ...Chapter) string {
	t.Helper()
	root := t.TempDir()

	type entry struct {
		Name  string `json:"name"`
		Title string `json:"title"`
	}
	manifest := make([]entry, 0, len(chapters))
	for _, ch := range chapters {
		manifest = append(manifest, entry{Name: ch.Name, Title: ch.Title})
		WriteFile(t, root, filepath.Join("book", ch.Name), ch.Content)
	}
	data, err := json.MarshalIndent(manifest, "", "\t")
	require.NoError(t, err)

	WriteFile(t, root, filepath.Join("book", "ToC.json"), string(data))
	WriteFile(t, root, filepath.Join("book", "Introduction.md"), intro)
	return root
}

// WriteFile writes content to a file in the test directory
func WriteFile(t *testing.T, dir, path, content string) {
	t.Helper()
	fullPath := filepath.Join(dir, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0755))
	require.NoError(t, os.WriteFile(fullPath, []byte(content), 0644))
}

// ReadFile reads content from a test file
func ReadFile(t *testing.T, dir, path string) string {
	t.Helper()
	fullPath := filepath.Join(dir, path)
	content, err := os.ReadFile(fullPath)
	require.NoError(t, err)
	return string(content)
}

// ListFiles returns the slash-separated paths of all regular files under dir
func ListFiles(t *testing.T, dir string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

// NormalizeHTML normalizes HTML for comparison (whitespace, attrs, etc.)
func NormalizeHTML(html string) string {
	// Collapse multiple whitespace
	html = regexp.MustCompile(`\s+`).ReplaceAllString(html, " ")

	// Remove spaces around tags
	html = regexp.MustCompile(`>\s+<`).ReplaceAllString(html, "><")

	return strings.TrimSpace(html)
}

// FileExists checks if a file exists
func FileExists(t *testing.T, path string) bool {
	t.Helper()
	_, err := os.Stat(path)
	return err == nil
}
