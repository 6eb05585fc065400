package crawl

import (
	"fmt"
	"net/url"
	"strings"
)

// ShortURL renders rawURL without its scheme and query for a progress
// line. When the result exceeds maxLen the front is elided, since crawled
// URLs tend to share their leading host and path segments.
func ShortURL(rawURL string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	s := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		s = u.Host + u.EscapedPath()
	}
	s = strings.TrimSuffix(s, "/")

	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[len(s)-maxLen:]
	}
	return "..." + s[len(s)-maxLen+3:]
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// Summary describes a crawl result in one line.
func (r *Result) Summary() string {
	return fmt.Sprintf("%d pages, %d documents, %d failed, %d skipped (%s fetched)",
		r.Pages, r.Documents, r.Failed, r.Skipped, FormatBytes(r.Bytes))
}
