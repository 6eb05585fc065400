package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/harvest"
)

// Ensure LoggingExtractor implements harvest.DocumentExtractor.
var _ harvest.DocumentExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps a DocumentExtractor with logging that names the
// document format being extracted.
type LoggingExtractor struct {
	next   harvest.DocumentExtractor
	format string
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor for the given format.
func NewLoggingExtractor(next harvest.DocumentExtractor, format string, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, format: format, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the operation.
func (e *LoggingExtractor) Extract(ctx context.Context, body []byte, contentType string) (text string, err error) {
	defer func(begin time.Time) {
		e.logger.DebugContext(ctx, "extract",
			"format", e.format,
			"bytes", len(body),
			"chars", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(ctx, body, contentType)
}
