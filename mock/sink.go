package mock

import (
	"context"

	"github.com/fwojciec/harvest"
)

// Compile-time interface verification.
var (
	_ harvest.RecordSink  = (*RecordSink)(nil)
	_ harvest.RecordStore = (*RecordStore)(nil)
)

// RecordSink is a mock implementation of harvest.RecordSink.
type RecordSink struct {
	WriteWebsiteFn  func(ctx context.Context, rec *harvest.WebsiteRecord) error
	WriteDocumentFn func(ctx context.Context, rec *harvest.DocumentRecord) error
}

func (s *RecordSink) WriteWebsite(ctx context.Context, rec *harvest.WebsiteRecord) error {
	return s.WriteWebsiteFn(ctx, rec)
}

func (s *RecordSink) WriteDocument(ctx context.Context, rec *harvest.DocumentRecord) error {
	return s.WriteDocumentFn(ctx, rec)
}

// RecordStore is a mock implementation of harvest.RecordStore.
type RecordStore struct {
	RecordSink
	CloseFn func() error
}

func (s *RecordStore) Close() error {
	return s.CloseFn()
}
