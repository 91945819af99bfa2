package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// FileName is the configuration file looked up in the project root
const FileName = "book.toml"

// EnvPrefix marks environment variables that override book.toml values
const EnvPrefix = "BOOKGEN_"

var manifestName = regexp.MustCompile(`(?i)\.(json|ya?ml|md)$`)

// ErrUnsafeOutputDir is returned for an output directory that is, or
// contains, the project root or the source directory.
var ErrUnsafeOutputDir = errors.New("output directory would remove project sources")

// BookConfig contains metadata about the book
type BookConfig struct {
	Title       string   `toml:"title"`
	Authors     []string `toml:"authors"`
	Description string   `toml:"description"`
	Language    string   `toml:"language"`
	Src         string   `toml:"src"` // Source directory, defaults to "book"
}

// DefaultBookConfig returns a book config with defaults
func DefaultBookConfig() BookConfig {
	return BookConfig{
		Title:       "My Book",
		Authors:     []string{},
		Description: "",
		Language:    "en",
		Src:         "book",
	}
}

// Validate validates the book section.
func (c *BookConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Src, validation.Required),
	)
}

// BuildConfig contains build settings
type BuildConfig struct {
	BuildDir       string   `toml:"build-dir"`
	Manifest       string   `toml:"manifest"`
	FrontPage      string   `toml:"front-page"`
	Sidebar        string   `toml:"sidebar"`
	SidebarKey     string   `toml:"sidebar-key"`
	SidebarGroup   string   `toml:"sidebar-group"`
	IndexID        string   `toml:"index-id"`
	SidebarNav     bool     `toml:"sidebar-nav"`
	Trailer        string   `toml:"trailer"`
	AllowUntitled  bool     `toml:"allow-untitled"`
	CreateMissing  bool     `toml:"create-missing"`
	Workers        int      `toml:"workers"`
	PreviewDir     string   `toml:"preview-dir"`
	ExtraWatchDirs []string `toml:"extra-watch-dirs"`
}

// DefaultBuildConfig returns a build config with defaults
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		BuildDir:       "docs",
		Manifest:       "ToC.json",
		FrontPage:      "Introduction.md",
		Sidebar:        filepath.Join("website", "sidebars.json"),
		SidebarKey:     "docs",
		SidebarGroup:   "book",
		IndexID:        "index",
		Workers:        8,
		PreviewDir:     "preview",
		ExtraWatchDirs: []string{},
	}
}

// Validate validates the build section.
func (c *BuildConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BuildDir, validation.Required),
		validation.Field(&c.Manifest, validation.Required, validation.Match(manifestName)),
		validation.Field(&c.FrontPage, validation.Required),
		validation.Field(&c.Sidebar, validation.Required),
		validation.Field(&c.SidebarKey, validation.Required),
		validation.Field(&c.SidebarGroup, validation.Required),
		validation.Field(&c.Workers, validation.Required, validation.Min(1), validation.Max(256)),
		validation.Field(&c.PreviewDir, validation.Required),
	)
}

// TocConfig controls the generated table of contents
type TocConfig struct {
	Placeholder string `toml:"placeholder"`
	Heading     string `toml:"heading"`
}

// DefaultTocConfig returns ToC settings with defaults
func DefaultTocConfig() TocConfig {
	return TocConfig{
		Placeholder: "{{table-of-content}}",
		Heading:     "## Table of Contents",
	}
}

// Validate validates the toc section.
func (c *TocConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Placeholder, validation.Required),
	)
}

// DecorateConfig controls the rendered-page decoration pass
type DecorateConfig struct {
	LineHeight int    `toml:"line-height"`
	CodeClass  string `toml:"code-class"`
}

// DefaultDecorateConfig returns decorate settings with defaults
func DefaultDecorateConfig() DecorateConfig {
	return DecorateConfig{
		LineHeight: 24,
		CodeClass:  "hljs",
	}
}

// Validate validates the decorate section.
func (c *DecorateConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.LineHeight, validation.Required, validation.Min(1)),
		validation.Field(&c.CodeClass, validation.Required),
	)
}

// HtmlConfig contains preview renderer settings
type HtmlConfig struct {
	HighlightStyle string `toml:"highlight-style"`
	Decorate       bool   `toml:"decorate"`
}

// DefaultHtmlConfig returns HTML config with defaults
func DefaultHtmlConfig() HtmlConfig {
	return HtmlConfig{
		HighlightStyle: "github",
		Decorate:       true,
	}
}

// ServeConfig contains preview server settings
type ServeConfig struct {
	Port     int    `toml:"port"`
	Hostname string `toml:"hostname"`
}

// DefaultServeConfig returns serve settings with defaults
func DefaultServeConfig() ServeConfig {
	return ServeConfig{
		Port:     3000,
		Hostname: "localhost",
	}
}

// Address returns the listen address
func (c *ServeConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Hostname, c.Port)
}

// Validate validates the serve section.
func (c *ServeConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.Hostname, validation.Required),
	)
}

// LogConfig holds logging settings
type LogConfig struct {
	Level slog.Level `toml:"level"`
}

// Config is the top-level configuration
type Config struct {
	Book         BookConfig          `toml:"book"`
	Build        BuildConfig         `toml:"build"`
	Toc          TocConfig           `toml:"toc"`
	Decorate     DecorateConfig      `toml:"decorate"`
	Html         HtmlConfig          `toml:"html"`
	Serve        ServeConfig         `toml:"serve"`
	Log          LogConfig           `toml:"log"`
	Preprocessor PreprocessorConfigs `toml:"preprocessor"`

	// Root is the project directory relative paths are resolved against
	Root string `toml:"-"`
}

// NewDefaultConfig returns a config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Book:         DefaultBookConfig(),
		Build:        DefaultBuildConfig(),
		Toc:          DefaultTocConfig(),
		Decorate:     DefaultDecorateConfig(),
		Html:         DefaultHtmlConfig(),
		Serve:        DefaultServeConfig(),
		Log:          LogConfig{Level: slog.LevelInfo},
		Preprocessor: make(PreprocessorConfigs),
		Root:         ".",
	}
}

// Load reads the configuration of the project in root: a .env file if one
// exists, then book.toml if one exists, then BOOKGEN_ variables. The result
// is validated.
func Load(root string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(root, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	path := filepath.Join(root, FileName)
	var cfg *Config
	if _, err := os.Stat(path); err == nil {
		cfg, err = LoadFromFile(path)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = NewDefaultConfig()
		cfg.UpdateFromEnv()
	}
	cfg.Root = root

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a book.toml file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := LoadFromString(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.Root = filepath.Dir(path)
	return cfg, nil
}

// LoadFromString loads configuration from a TOML string
func LoadFromString(content string) (*Config, error) {
	cfg := NewDefaultConfig()
	if err := toml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.UpdateFromEnv()
	return cfg, nil
}

// Validate validates every section
func (c *Config) Validate() error {
	if err := c.Book.Validate(); err != nil {
		return fmt.Errorf("book: %w", err)
	}
	if err := c.Build.Validate(); err != nil {
		return fmt.Errorf("build: %w", err)
	}
	if err := c.Toc.Validate(); err != nil {
		return fmt.Errorf("toc: %w", err)
	}
	if err := c.Decorate.Validate(); err != nil {
		return fmt.Errorf("decorate: %w", err)
	}
	if err := c.Serve.Validate(); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	for _, dir := range []string{c.BuildDir(), c.PreviewDir()} {
		if err := c.CheckOutputDir(dir); err != nil {
			return fmt.Errorf("build: %w", err)
		}
	}
	return nil
}

// CheckOutputDir rejects dir when emptying it would delete the project root
// or the source directory.
func (c *Config) CheckOutputDir(dir string) error {
	out := absPath(dir)
	for _, protected := range []string{c.Root, c.SourceDir()} {
		if within(out, absPath(protected)) {
			return fmt.Errorf("%w: '%s' holds '%s'", ErrUnsafeOutputDir, dir, protected)
		}
	}
	return nil
}

// within reports whether path is dir or lies below it
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

// SourceDir is the absolute-or-root-relative chapter source directory
func (c *Config) SourceDir() string { return c.resolve(c.Book.Src) }

// BuildDir is the chapter output directory
func (c *Config) BuildDir() string { return c.resolve(c.Build.BuildDir) }

// ManifestPath is the manifest location inside the source directory
func (c *Config) ManifestPath() string { return filepath.Join(c.SourceDir(), c.Build.Manifest) }

// SidebarPath is the sidebar index output location
func (c *Config) SidebarPath() string { return c.resolve(c.Build.Sidebar) }

// PreviewDir is the HTML preview output directory
func (c *Config) PreviewDir() string { return c.resolve(c.Build.PreviewDir) }

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// UpdateFromEnv updates config from environment variables
// Variables starting with BOOKGEN_ are used
// BOOKGEN_FOO_BAR -> foo-bar
// BOOKGEN_FOO__BAR -> foo.bar
func (c *Config) UpdateFromEnv() {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, EnvPrefix) {
			continue
		}

		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimPrefix(parts[0], EnvPrefix)
		value := parts[1]

		configKey := strings.ToLower(key)
		configKey = strings.ReplaceAll(configKey, "__", ".")
		configKey = strings.ReplaceAll(configKey, "_", "-")

		c.Set(configKey, value)
	}
}

// Set sets a configuration value using dot notation (e.g., "book.title",
// "preprocessor.sentinels.enable"). Unknown keys and unparsable values are
// ignored.
func (c *Config) Set(key, value string) {
	parts := strings.Split(key, ".")
	if len(parts) < 2 {
		return
	}

	switch parts[0] {
	case "book":
		c.setBookValue(parts[1], value)
	case "build":
		c.setBuildValue(parts[1], value)
	case "toc":
		switch parts[1] {
		case "placeholder":
			c.Toc.Placeholder = value
		case "heading":
			c.Toc.Heading = value
		}
	case "decorate":
		switch parts[1] {
		case "line-height":
			setInt(&c.Decorate.LineHeight, value)
		case "code-class":
			c.Decorate.CodeClass = value
		}
	case "html":
		switch parts[1] {
		case "highlight-style":
			c.Html.HighlightStyle = value
		case "decorate":
			setBool(&c.Html.Decorate, value)
		}
	case "serve":
		switch parts[1] {
		case "port":
			setInt(&c.Serve.Port, value)
		case "hostname":
			c.Serve.Hostname = value
		}
	case "log":
		if parts[1] == "level" {
			var lvl slog.Level
			if err := lvl.UnmarshalText([]byte(value)); err == nil {
				c.Log.Level = lvl
			}
		}
	case "preprocessor":
		if len(parts) == 3 && parts[2] == "enable" {
			if b, err := strconv.ParseBool(value); err == nil {
				c.Preprocessor.set(parts[1], b)
			}
		}
	}
}

func (c *Config) setBookValue(key, value string) {
	switch key {
	case "title":
		c.Book.Title = value
	case "authors":
		c.Book.Authors = []string{value}
	case "description":
		c.Book.Description = value
	case "language":
		c.Book.Language = value
	case "src":
		c.Book.Src = value
	}
}

func (c *Config) setBuildValue(key, value string) {
	switch key {
	case "build-dir":
		c.Build.BuildDir = value
	case "manifest":
		c.Build.Manifest = value
	case "front-page":
		c.Build.FrontPage = value
	case "sidebar":
		c.Build.Sidebar = value
	case "sidebar-key":
		c.Build.SidebarKey = value
	case "sidebar-group":
		c.Build.SidebarGroup = value
	case "index-id":
		c.Build.IndexID = value
	case "sidebar-nav":
		setBool(&c.Build.SidebarNav, value)
	case "trailer":
		c.Build.Trailer = value
	case "allow-untitled":
		setBool(&c.Build.AllowUntitled, value)
	case "create-missing":
		setBool(&c.Build.CreateMissing, value)
	case "workers":
		setInt(&c.Build.Workers, value)
	case "preview-dir":
		c.Build.PreviewDir = value
	}
}

func setInt(dst *int, value string) {
	if n, err := strconv.Atoi(value); err == nil {
		*dst = n
	}
}

func setBool(dst *bool, value string) {
	if b, err := strconv.ParseBool(value); err == nil {
		*dst = b
	}
}
