package pdf_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPDF assembles a minimal PDF with one Helvetica text line per page.
func buildPDF(pages ...string) []byte {
	var objects []string
	kids := make([]string, len(pages))
	fontID := 3 + 2*len(pages)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 3+2*i)
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
	)
	for i, text := range pages {
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R /Resources << /Font << /F1 %d 0 R >> >> >>", 4+2*i, fontID),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}
	objects = append(objects, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return []byte(b.String())
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts text of every page in order", func(t *testing.T) {
		t.Parallel()

		text, err := pdf.NewExtractor().Extract(context.Background(), buildPDF("Hello", "World"), "")

		require.NoError(t, err)
		hello := strings.Index(text, "Hello")
		world := strings.Index(text, "World")
		require.GreaterOrEqual(t, hello, 0)
		require.GreaterOrEqual(t, world, 0)
		assert.Less(t, hello, world)
	})

	t.Run("returns parse error for corrupted payload", func(t *testing.T) {
		t.Parallel()

		var text string
		var err error
		assert.NotPanics(t, func() {
			text, err = pdf.NewExtractor().Extract(context.Background(), []byte("this is not a pdf"), "")
		})

		require.Error(t, err)
		assert.Equal(t, harvest.EPARSE, harvest.ErrorCode(err))
		assert.Empty(t, text)
	})

	t.Run("returns parse error for truncated payload", func(t *testing.T) {
		t.Parallel()

		full := buildPDF("Hello")
		var err error
		assert.NotPanics(t, func() {
			_, err = pdf.NewExtractor().Extract(context.Background(), full[:len(full)/2], "")
		})

		assert.Equal(t, harvest.EPARSE, harvest.ErrorCode(err))
	})

	t.Run("returns parse error for empty payload", func(t *testing.T) {
		t.Parallel()

		text, err := pdf.NewExtractor().Extract(context.Background(), nil, "")

		assert.Equal(t, harvest.EPARSE, harvest.ErrorCode(err))
		assert.Empty(t, text)
	})

	t.Run("stops on canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := pdf.NewExtractor().Extract(ctx, buildPDF("Hello"), "")

		assert.ErrorIs(t, err, context.Canceled)
	})
}
