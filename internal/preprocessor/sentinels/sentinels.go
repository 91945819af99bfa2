package sentinels

import (
	"log/slog"

	"github.com/geocine/bookgen/internal/decorate"
	"github.com/geocine/bookgen/internal/models"
)

// SentinelPreprocessor resolves {{chapter-number},N} and {{subtopic}}
// tokens in the book sources, so pages no longer depend on the page-load
// pass. Each document is numbered on its own, as a browser would number
// each page.
type SentinelPreprocessor struct {
	logger *slog.Logger
}

// NewSentinelPreprocessor creates a new sentinel preprocessor
func NewSentinelPreprocessor(logger *slog.Logger) *SentinelPreprocessor {
	return &SentinelPreprocessor{logger: logger}
}

// Name returns the preprocessor name
func (s *SentinelPreprocessor) Name() string {
	return "sentinels"
}

// Process resolves tokens in the front page and every readable chapter.
// Unbalanced documents are logged; leftover tokens stay in place.
func (s *SentinelPreprocessor) Process(book *models.Book) error {
	book.FrontPage = s.resolve(book.FrontPageName, book.FrontPage)
	for _, ch := range book.Chapters {
		if ch.Skipped {
			continue
		}
		ch.Content = s.resolve(ch.Name, ch.Content)
	}
	return nil
}

func (s *SentinelPreprocessor) resolve(name, text string) string {
	out, report := decorate.ResolveSentinels(text)
	if !report.Balanced() {
		s.logger.Warn("unbalanced sentinels",
			slog.String("document", name),
			slog.Int("missing", report.Missing),
			slog.Int("unclaimed", report.Unclaimed))
	}
	return out
}
