// Package charset decodes plain-text documents of unknown encoding.
package charset

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/harvest"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

var _ harvest.DocumentExtractor = (*TextExtractor)(nil)

// TextExtractor decodes TXT payloads to UTF-8.
type TextExtractor struct {
	// Fallback decodes payloads that are neither valid UTF-8 nor marked with
	// a byte order mark. Defaults to Windows-1252.
	Fallback encoding.Encoding
}

// NewTextExtractor creates a TextExtractor with the Windows-1252 fallback.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{Fallback: charmap.Windows1252}
}

// Extract returns valid UTF-8 input unchanged and decodes anything else
// using, in order, a byte order mark, the charset parameter of contentType
// and the fallback.
func (e *TextExtractor) Extract(ctx context.Context, body []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if utf8.Valid(body) {
		return string(body), nil
	}

	if contentType == "" {
		contentType = "text/plain"
	}
	enc, name, certain := charset.DetermineEncoding(body, contentType)
	if !certain && e.Fallback != nil {
		enc, name = e.Fallback, "fallback"
	}

	out, err := enc.NewDecoder().Bytes(body)
	text := strings.TrimPrefix(string(out), "\ufeff")
	if err != nil {
		return text, harvest.Errorf(harvest.EPARSE, "failed to decode text as %s: %v", name, err)
	}
	return text, nil
}
