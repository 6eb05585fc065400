package mock

import (
	"context"

	"github.com/fwojciec/harvest"
)

// Compile-time interface verification.
var (
	_ harvest.DocumentExtractor = (*DocumentExtractor)(nil)
	_ harvest.PageExtractor     = (*PageExtractor)(nil)
)

// DocumentExtractor is a mock implementation of harvest.DocumentExtractor.
type DocumentExtractor struct {
	ExtractFn func(ctx context.Context, body []byte, contentType string) (string, error)
}

func (e *DocumentExtractor) Extract(ctx context.Context, body []byte, contentType string) (string, error) {
	return e.ExtractFn(ctx, body, contentType)
}

// PageExtractor is a mock implementation of harvest.PageExtractor.
type PageExtractor struct {
	ExtractPageFn func(res *harvest.FetchResult) (*harvest.Page, error)
}

func (e *PageExtractor) ExtractPage(res *harvest.FetchResult) (*harvest.Page, error) {
	return e.ExtractPageFn(res)
}
