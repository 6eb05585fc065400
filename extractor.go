package harvest

import "context"

// DocumentExtractor converts a raw document payload into plain text.
type DocumentExtractor interface {
	// Extract returns the text of body. contentType is the Content-Type
	// the payload was served with, empty if unknown. On failure it returns
	// the text accumulated before the failure point together with a
	// non-nil error, so callers may keep partial output.
	Extract(ctx context.Context, body []byte, contentType string) (string, error)
}
