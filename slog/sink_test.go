package slog_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/mock"
	harvestslog "github.com/fwojciec/harvest/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingStore(t *testing.T) {
	t.Parallel()

	newStore := func(buf *bytes.Buffer, writeErr error) (*harvestslog.LoggingStore, *[]any) {
		var written []any
		inner := &mock.RecordStore{
			RecordSink: mock.RecordSink{
				WriteWebsiteFn: func(_ context.Context, rec *harvest.WebsiteRecord) error {
					written = append(written, rec)
					return writeErr
				},
				WriteDocumentFn: func(_ context.Context, rec *harvest.DocumentRecord) error {
					written = append(written, rec)
					return writeErr
				},
			},
			CloseFn: func() error { return writeErr },
		}
		return harvestslog.NewLoggingStore(inner, newDebugLogger(buf)), &written
	}

	t.Run("logs website records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		store, written := newStore(&buf, nil)
		rec := &harvest.WebsiteRecord{URL: "https://upr.edu.cu/", Title: "Inicio", Content: "Bienvenidos"}

		require.NoError(t, store.WriteWebsite(context.Background(), rec))

		assert.Equal(t, []any{rec}, *written)
		output := buf.String()
		assert.Contains(t, output, "msg=website")
		assert.Contains(t, output, "title=Inicio")
		assert.Contains(t, output, "chars=11")
	})

	t.Run("logs document records with kind", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		store, _ := newStore(&buf, nil)
		rec := &harvest.DocumentRecord{URL: "https://upr.edu.cu/plan.pdf", Kind: harvest.LinkPDF, Content: "texto"}

		require.NoError(t, store.WriteDocument(context.Background(), rec))

		output := buf.String()
		assert.Contains(t, output, "msg=document")
		assert.Contains(t, output, "kind=pdf")
		assert.Contains(t, output, "chars=5")
	})

	t.Run("returns and logs write errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		store, _ := newStore(&buf, errors.New("disk full"))

		err := store.WriteWebsite(context.Background(), &harvest.WebsiteRecord{URL: "https://upr.edu.cu/"})

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"disk full\"")
	})

	t.Run("logs close errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		store, _ := newStore(&buf, errors.New("disk full"))

		require.Error(t, store.Close())
		assert.Contains(t, buf.String(), "msg=\"close store\"")
	})
}
