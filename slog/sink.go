package slog

import (
	"context"
	"log/slog"

	"github.com/fwojciec/harvest"
)

// Ensure LoggingStore implements harvest.RecordStore.
var _ harvest.RecordStore = (*LoggingStore)(nil)

// LoggingStore wraps a RecordStore with logging of every emitted record.
type LoggingStore struct {
	next   harvest.RecordStore
	logger *slog.Logger
}

// NewLoggingStore creates a new LoggingStore.
func NewLoggingStore(next harvest.RecordStore, logger *slog.Logger) *LoggingStore {
	return &LoggingStore{next: next, logger: logger}
}

// WriteWebsite delegates to the wrapped store and logs the record.
func (s *LoggingStore) WriteWebsite(ctx context.Context, rec *harvest.WebsiteRecord) (err error) {
	defer func() {
		s.logger.Info("website",
			"url", rec.URL,
			"title", rec.Title,
			"chars", len(rec.Content),
			"err", err,
		)
	}()
	return s.next.WriteWebsite(ctx, rec)
}

// WriteDocument delegates to the wrapped store and logs the record.
func (s *LoggingStore) WriteDocument(ctx context.Context, rec *harvest.DocumentRecord) (err error) {
	defer func() {
		s.logger.Info("document",
			"url", rec.URL,
			"kind", rec.Kind,
			"chars", len(rec.Content),
			"err", err,
		)
	}()
	return s.next.WriteDocument(ctx, rec)
}

// Close delegates to the wrapped store.
func (s *LoggingStore) Close() (err error) {
	defer func() {
		if err != nil {
			s.logger.Error("close store", "err", err)
		}
	}()
	return s.next.Close()
}
