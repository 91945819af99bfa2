package preprocessor

import (
	"fmt"
	"log/slog"

	"github.com/geocine/bookgen/internal/config"
	"github.com/geocine/bookgen/internal/models"
	"github.com/geocine/bookgen/internal/preprocessor/frontmatter"
	"github.com/geocine/bookgen/internal/preprocessor/sentinels"
)

// Preprocessor interface for processing chapters before numbering
type Preprocessor interface {
	Name() string
	Process(book *models.Book) error
}

// Pipeline runs multiple preprocessors in sequence
type Pipeline struct {
	preprocessors []Preprocessor
}

// NewPipeline creates a new preprocessor pipeline
func NewPipeline() *Pipeline {
	return &Pipeline{
		preprocessors: make([]Preprocessor, 0),
	}
}

// FromConfig builds the pipeline of built-in preprocessors enabled by cfg.
// frontmatter runs by default, sentinels only when enabled.
func FromConfig(cfg *config.Config, logger *slog.Logger) *Pipeline {
	p := NewPipeline()
	if cfg.Preprocessor.Enabled(config.PreprocessorFrontMatter, true) {
		p.Add(frontmatter.NewFrontmatterPreprocessor())
	}
	if cfg.Preprocessor.Enabled(config.PreprocessorSentinels, false) {
		p.Add(sentinels.NewSentinelPreprocessor(logger))
	}
	return p
}

// Add adds a preprocessor to the pipeline
func (p *Pipeline) Add(preprocessor Preprocessor) {
	p.preprocessors = append(p.preprocessors, preprocessor)
}

// Names lists the preprocessors in run order
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.preprocessors))
	for i, pp := range p.preprocessors {
		names[i] = pp.Name()
	}
	return names
}

// Process runs all preprocessors on the book
func (p *Pipeline) Process(book *models.Book) error {
	for _, preprocessor := range p.preprocessors {
		if err := preprocessor.Process(book); err != nil {
			return fmt.Errorf("preprocessor '%s' failed: %w", preprocessor.Name(), err)
		}
	}
	return nil
}
