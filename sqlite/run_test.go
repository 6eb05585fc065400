package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunService(t *testing.T) {
	t.Parallel()

	t.Run("creates a run", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()
		seeds := []string{"http://www.upr.edu.cu/", "https://crai.upr.edu.cu/"}

		run, err := svc.CreateRun(ctx, seeds)
		require.NoError(t, err)
		assert.NotEmpty(t, run.ID)
		assert.False(t, run.StartedAt.IsZero())

		var storedSeeds, startedAt string
		err = db.QueryRowContext(ctx, "SELECT seeds, started_at FROM runs WHERE id = ?", run.ID).Scan(&storedSeeds, &startedAt)
		require.NoError(t, err)
		assert.Equal(t, "http://www.upr.edu.cu/\nhttps://crai.upr.edu.cu/", storedSeeds)

		started, err := time.Parse(time.RFC3339Nano, startedAt)
		require.NoError(t, err)
		assert.True(t, started.Equal(run.StartedAt))
		assert.Empty(t, finishedAt(t, db, run.ID))
	})

	t.Run("finishes a run", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		run, err := svc.CreateRun(ctx, nil)
		require.NoError(t, err)
		require.NoError(t, svc.FinishRun(ctx, run.ID))

		finished, err := time.Parse(time.RFC3339Nano, finishedAt(t, db, run.ID))
		require.NoError(t, err)
		assert.False(t, finished.Before(run.StartedAt))
	})

	t.Run("returns not found for unknown run", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(openTestDB(t))

		err := svc.FinishRun(context.Background(), "missing")
		assert.Equal(t, harvest.ENOTFOUND, harvest.ErrorCode(err))
	})
}
