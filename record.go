package harvest

import "context"

// WebsiteRecord is the text of a crawled HTML page.
type WebsiteRecord struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Validate returns an error if the record contains invalid fields.
func (r *WebsiteRecord) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "website record URL required")
	}
	return nil
}

// DocumentRecord is the text extracted from a linked document.
// Content is empty when extraction failed entirely.
type DocumentRecord struct {
	URL     string   `json:"url"`
	Kind    LinkKind `json:"-"`
	Content string   `json:"content"`
}

// Validate returns an error if the record contains invalid fields.
func (r *DocumentRecord) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "document record URL required")
	}
	return nil
}

// RecordSink receives records as the crawl produces them.
// Records arrive in completion order; order is not significant.
type RecordSink interface {
	WriteWebsite(ctx context.Context, rec *WebsiteRecord) error
	WriteDocument(ctx context.Context, rec *DocumentRecord) error
}

// RecordStore is a RecordSink backed by storage that must be released.
type RecordStore interface {
	RecordSink

	// Close flushes pending output and releases the underlying storage.
	Close() error
}
