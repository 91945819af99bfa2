package loader

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/geocine/bookgen/internal/config"
	"github.com/geocine/bookgen/internal/models"
	"github.com/geocine/bookgen/internal/parser"
	"github.com/geocine/bookgen/internal/utils"
)

var (
	// ErrMissingChapter is returned when a manifest entry names a file that does not exist
	ErrMissingChapter = errors.New("missing chapter file")
	// ErrMissingFrontPage is returned when the front page file does not exist
	ErrMissingFrontPage = errors.New("missing front page")
)

// BookLoader handles loading books from disk
type BookLoader struct {
	srcDir string
	config *config.Config
	logger *slog.Logger
}

// NewBookLoader creates a new book loader
func NewBookLoader(cfg *config.Config, logger *slog.Logger) *BookLoader {
	return &BookLoader{
		srcDir: cfg.SourceDir(),
		config: cfg,
		logger: logger,
	}
}

// Load reads and validates the manifest, then loads the front page and every
// chapter it lists. A chapter whose file is missing aborts the load; one that
// exists but cannot be read is logged and kept as Skipped.
func (bl *BookLoader) Load() (*models.Book, error) {
	manifest, err := parser.LoadManifest(bl.config.ManifestPath())
	if err != nil {
		return nil, err
	}

	if err := parser.ValidateManifest(manifest, bl.config.Build.AllowUntitled); err != nil {
		return nil, err
	}

	if bl.config.Build.CreateMissing {
		if err := bl.createMissingChapters(manifest); err != nil {
			return nil, fmt.Errorf("failed to create missing chapters: %w", err)
		}
	}

	book := models.NewBook()
	book.FrontPageName = bl.config.Build.FrontPage
	frontPath := filepath.Join(bl.srcDir, book.FrontPageName)
	book.FrontPage, err = utils.ReadToString(frontPath)
	if err != nil {
		if utils.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingFrontPage, frontPath)
		}
		return nil, err
	}

	for _, entry := range manifest {
		if entry.Name == book.FrontPageName {
			return nil, fmt.Errorf("%w: chapter '%s' has the front page's name", parser.ErrInvalidManifest, entry.Name)
		}
		ch, err := bl.loadChapter(entry)
		if err != nil {
			return nil, err
		}
		book.PushChapter(ch)
	}

	return book, nil
}

func (bl *BookLoader) loadChapter(entry models.ManifestEntry) (*models.Chapter, error) {
	path := filepath.Join(bl.srcDir, entry.Name)
	ch := &models.Chapter{
		Name:       entry.Name,
		Title:      entry.Title,
		SourcePath: path,
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingChapter, entry.Name)
		}
		bl.logger.Warn("chapter skipped", slog.String("chapter", entry.Name), slog.String("error", err.Error()))
		ch.Skipped = true
		return ch, nil
	}

	content, err := utils.ReadToString(path)
	if err != nil {
		bl.logger.Warn("chapter skipped", slog.String("chapter", entry.Name), slog.String("error", err.Error()))
		ch.Skipped = true
		return ch, nil
	}
	ch.Content = content

	return ch, nil
}

func (bl *BookLoader) createMissingChapters(manifest models.Manifest) error {
	for _, entry := range manifest {
		filePath := filepath.Join(bl.srcDir, entry.Name)
		if _, err := os.Stat(filePath); err == nil || !os.IsNotExist(err) {
			continue
		}

		title := entry.Title
		if title == "" {
			title = strings.TrimSuffix(entry.Name, filepath.Ext(entry.Name))
		}
		content := fmt.Sprintf("# %s\n", title)
		if err := utils.WriteFile(filePath, []byte(content)); err != nil {
			return err
		}
		bl.logger.Info("created missing chapter", slog.String("chapter", entry.Name))
	}

	return nil
}

// LoadBook is a convenience function to load a book with the given configuration
func LoadBook(cfg *config.Config, logger *slog.Logger) (*models.Book, error) {
	return NewBookLoader(cfg, logger).Load()
}
