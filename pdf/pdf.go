// Package pdf extracts plain text from PDF documents using ledongthuc/pdf.
package pdf

import (
	"bytes"
	"context"
	"strings"

	"github.com/fwojciec/harvest"
	"github.com/ledongthuc/pdf"
)

var _ harvest.DocumentExtractor = (*Extractor)(nil)

// Extractor extracts the text of a PDF page by page.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract concatenates the plain text of every page in order. When a page
// fails, the text of the preceding pages is returned with an EPARSE error.
// Panics raised while decoding malformed streams are returned as errors.
func (e *Extractor) Extract(ctx context.Context, body []byte, _ string) (text string, err error) {
	var sb strings.Builder
	defer func() {
		if r := recover(); r != nil {
			text = sb.String()
			err = harvest.Errorf(harvest.EPARSE, "malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", harvest.Errorf(harvest.EPARSE, "failed to open PDF: %v", err)
	}

	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return sb.String(), err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return sb.String(), harvest.Errorf(harvest.EPARSE, "failed to read PDF page %d: %v", i, err)
		}
		sb.WriteString(content)
	}
	return sb.String(), nil
}
