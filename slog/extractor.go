package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/sitetext"
)

// Ensure LoggingExtractor implements sitetext.Extractor.
var _ sitetext.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with debug logging.
type LoggingExtractor struct {
	next   sitetext.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next sitetext.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the sizes involved.
func (e *LoggingExtractor) Extract(html string) (result *sitetext.ExtractResult) {
	defer func(begin time.Time) {
		var title string
		var chars int
		if result != nil {
			title = result.Title
			chars = len(result.Body)
		}
		e.logger.Debug("extract",
			"bytes", len(html),
			"title", title,
			"chars", chars,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return e.next.Extract(html)
}
