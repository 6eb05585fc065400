package harvest

import (
	"context"
	"mime"
	"strings"
)

// FetchResult is a response returned by a Fetcher.
type FetchResult struct {
	// URL is the final URL of the response, after redirects.
	URL string

	// ContentType is the Content-Type header of the response.
	ContentType string

	// Body is the raw response body.
	Body []byte
}

// IsHTML reports whether the response declares an HTML media type.
// A response without a Content-Type is sniffed for a leading markup tag.
func (r *FetchResult) IsHTML() bool {
	if r.ContentType == "" {
		head := strings.ToLower(strings.TrimSpace(string(r.Body[:min(len(r.Body), 512)])))
		return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
	}
	mediaType, _, err := mime.ParseMediaType(r.ContentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// Fetcher retrieves the body of a URL.
type Fetcher interface {
	// Fetch retrieves the URL. Non-2xx responses are returned as EFETCH
	// errors. The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*FetchResult, error)

	// Close releases fetcher resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}
