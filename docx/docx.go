// Package docx extracts plain text from Office Open XML word processing
// documents.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/harvest"
)

var _ harvest.DocumentExtractor = (*Extractor)(nil)

// documentPart is the main story part of a DOCX package.
const documentPart = "word/document.xml"

// maxPartSize bounds the decompressed size of the document part.
const maxPartSize = 64 << 20

// Extractor extracts paragraph text from DOCX payloads.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the text of every paragraph in document order. Text runs
// are concatenated, tabs and breaks become whitespace, and paragraphs are
// joined without a separator. A malformed document part yields the text of
// the paragraphs parsed before the error together with an EPARSE error.
func (e *Extractor) Extract(ctx context.Context, body []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", harvest.Errorf(harvest.EPARSE, "failed to open DOCX container: %v", err)
	}

	part, err := readPart(zr, documentPart)
	if err != nil {
		return "", err
	}

	doc := etree.NewDocument()
	parseErr := doc.ReadFromBytes(part)

	var sb strings.Builder
	writeText(&sb, &doc.Element)

	if parseErr != nil {
		return sb.String(), harvest.Errorf(harvest.EPARSE, "failed to parse %s: %v", documentPart, parseErr)
	}
	return sb.String(), nil
}

func readPart(zr *zip.Reader, name string) ([]byte, error) {
	f, err := zr.Open(name)
	if err != nil {
		return nil, harvest.Errorf(harvest.EPARSE, "DOCX part %s: %v", name, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxPartSize))
	if err != nil {
		return nil, harvest.Errorf(harvest.EPARSE, "failed to read DOCX part %s: %v", name, err)
	}
	return data, nil
}

// writeText walks el depth-first and writes the text of w:t runs.
func writeText(sb *strings.Builder, el *etree.Element) {
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "t":
			sb.WriteString(child.Text())
		case "tab":
			sb.WriteByte('\t')
		case "br", "cr":
			sb.WriteByte('\n')
		default:
			writeText(sb, child)
		}
	}
}
