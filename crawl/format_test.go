package crawl_test

import (
	"testing"

	"github.com/fwojciec/harvest/crawl"
	"github.com/stretchr/testify/assert"
)

func TestShortURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		url    string
		maxLen int
		want   string
	}{
		{"drops scheme and trailing slash", "https://crai.upr.edu.cu/", 50, "crai.upr.edu.cu"},
		{"drops query and fragment", "http://www.upr.edu.cu/noticias?page=2#top", 50, "www.upr.edu.cu/noticias"},
		{"elides the front", "https://upr.edu.cu/revistas/article/download/12/34", 20, "...le/download/12/34"},
		{"keeps exact fit", "https://upr.edu.cu/a", 12, "upr.edu.cu/a"},
		{"tail only when very short", "https://upr.edu.cu/plan.pdf", 3, "pdf"},
		{"zero length", "https://upr.edu.cu/", 0, ""},
		{"negative length", "https://upr.edu.cu/", -1, ""},
		{"unparsable URL kept as is", "%zz", 10, "%zz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := crawl.ShortURL(tt.url, tt.maxLen)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), max(tt.maxLen, 0))
		})
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "512 B", crawl.FormatBytes(512))
	assert.Equal(t, "1.5 KB", crawl.FormatBytes(1536))
	assert.Equal(t, "2.0 MB", crawl.FormatBytes(2*1024*1024))
}

func TestResult_Summary(t *testing.T) {
	t.Parallel()

	r := &crawl.Result{Pages: 3, Documents: 2, Failed: 1, Skipped: 4, Bytes: 2048}

	assert.Equal(t, "3 pages, 2 documents, 1 failed, 4 skipped (2.0 KB fetched)", r.Summary())
}
