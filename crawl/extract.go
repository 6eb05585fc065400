package crawl

import (
	"context"

	"github.com/fwojciec/harvest"
)

// extractDocument converts a fetched document into a record. It never
// fails: extractor errors keep the partial text, a panicking extractor
// yields empty content, and both are logged.
func (c *Crawler) extractDocument(ctx context.Context, kind harvest.LinkKind, res *harvest.FetchResult) (rec *harvest.DocumentRecord) {
	rec = &harvest.DocumentRecord{URL: res.URL, Kind: kind}

	extractor, ok := c.Extractors[kind]
	if !ok || extractor == nil {
		c.logger().Warn("no extractor for document", "url", res.URL, "kind", kind)
		return rec
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger().Error("document extraction panicked", "url", res.URL, "kind", kind, "panic", r)
			rec.Content = ""
		}
	}()

	text, err := extractor.Extract(ctx, res.Body, res.ContentType)
	if err != nil {
		c.logger().Warn("document extraction failed",
			"url", res.URL,
			"kind", kind,
			"partial", len(text),
			"err", err,
		)
	}
	rec.Content = harvest.Clean(text)
	return rec
}
