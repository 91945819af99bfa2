package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/geocine/bookgen/internal/models"
)

// ErrInvalidManifest marks manifests that make the build output meaningless
var ErrInvalidManifest = errors.New("invalid manifest")

var (
	// Chapters live flat next to the manifest, so names carry no separators.
	chapterName = regexp.MustCompile(`^[^/\\]+\.md$`)
	// Regex for matching link pattern: [Title](path.md)
	linkRegex = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)
)

// LoadManifest reads a manifest file. The format follows the extension:
// .json, .yaml/.yml, or .md (a flat "- [Title](file.md)" list).
func LoadManifest(path string) (models.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest '%s': %w", path, err)
	}
	return ParseManifest(data, filepath.Ext(path))
}

// ParseManifest decodes manifest content for the given extension
func ParseManifest(data []byte, ext string) (models.Manifest, error) {
	var m models.Manifest
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%w: failed to parse JSON: %v", ErrInvalidManifest, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%w: failed to parse YAML: %v", ErrInvalidManifest, err)
		}
	case ".md":
		m = ParseSummaryList(string(data))
	default:
		return nil, fmt.Errorf("%w: unsupported manifest format %q", ErrInvalidManifest, ext)
	}
	return m, nil
}

// ParseSummaryList reads a SUMMARY.md style link list. Only top-level items
// are chapters; nested items, headers and separators are ignored since the
// book is a flat collection.
func ParseSummaryList(content string) models.Manifest {
	m := models.Manifest{}
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "-") && !strings.HasPrefix(trimmed, "*") {
			continue
		}
		matches := linkRegex.FindStringSubmatch(trimmed)
		if len(matches) != 3 {
			continue
		}
		m = append(m, models.ManifestEntry{
			Name:  strings.TrimPrefix(strings.TrimSpace(matches[2]), "./"),
			Title: strings.TrimSpace(matches[1]),
		})
	}
	return m
}

// ValidateManifest checks every entry. Titles may be omitted only when
// allowUntitled is set.
func ValidateManifest(m models.Manifest, allowUntitled bool) error {
	if len(m) == 0 {
		return fmt.Errorf("%w: no chapters", ErrInvalidManifest)
	}

	seen := make(map[string]int, len(m))
	for i := range m {
		entry := &m[i]
		if err := validateEntry(entry, !allowUntitled); err != nil {
			return fmt.Errorf("%w: entry %d: %v", ErrInvalidManifest, i+1, err)
		}
		if prev, dup := seen[entry.Name]; dup {
			return fmt.Errorf("%w: entry %d repeats %q from entry %d", ErrInvalidManifest, i+1, entry.Name, prev)
		}
		seen[entry.Name] = i + 1
	}
	return nil
}

func validateEntry(e *models.ManifestEntry, requireTitle bool) error {
	rules := []*validation.FieldRules{
		validation.Field(&e.Name, validation.Required, validation.Match(chapterName).Error("must be a .md filename")),
	}
	if requireTitle {
		rules = append(rules, validation.Field(&e.Title, validation.Required))
	}
	return validation.ValidateStruct(e, rules...)
}
