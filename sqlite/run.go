package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/google/uuid"
)

// Run is one invocation of the crawler.
type Run struct {
	ID         string
	Seeds      []string
	StartedAt  time.Time
	FinishedAt time.Time
}

// RunService records crawl runs.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun starts a new run for the given seeds.
func (s *RunService) CreateRun(ctx context.Context, seeds []string) (*Run, error) {
	run := &Run{
		ID:        uuid.New().String(),
		Seeds:     seeds,
		StartedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, seeds, started_at)
		VALUES (?, ?, ?)
	`, run.ID, strings.Join(run.Seeds, "\n"), formatTime(run.StartedAt))
	if err != nil {
		return nil, err
	}
	return run, nil
}

// FinishRun stamps the run's finish time.
func (s *RunService) FinishRun(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE runs SET finished_at = ? WHERE id = ?
	`, formatTime(time.Now()), id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return harvest.Errorf(harvest.ENOTFOUND, "run not found")
	}
	return nil
}
