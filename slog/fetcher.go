// Package slog provides log/slog decorators for harvest services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/harvest"
)

// Ensure LoggingFetcher implements harvest.Fetcher.
var _ harvest.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with per-attempt debug logging. Failures
// are reported once, by whoever gives up on the URL.
type LoggingFetcher struct {
	next   harvest.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next harvest.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (res *harvest.FetchResult, err error) {
	defer func(begin time.Time) {
		if err != nil {
			f.logger.Debug("fetch",
				"url", url,
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		f.logger.Debug("fetch",
			"url", url,
			"bytes", len(res.Body),
			"contentType", res.ContentType,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
