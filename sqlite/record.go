package sqlite

import (
	"context"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ harvest.RecordStore = (*RecordStore)(nil)

// RecordStore writes the records of a single run. Records keep arrival
// order and duplicates are stored as separate rows.
type RecordStore struct {
	db   *DB
	runs *RunService
	run  *Run
}

// NewRecordStore starts a run for seeds and returns a store writing into it.
// The store takes ownership of db and closes it on Close.
func NewRecordStore(ctx context.Context, db *DB, seeds []string) (*RecordStore, error) {
	runs := NewRunService(db)
	run, err := runs.CreateRun(ctx, seeds)
	if err != nil {
		return nil, err
	}
	return &RecordStore{db: db, runs: runs, run: run}, nil
}

// Run returns the run the store writes into.
func (s *RecordStore) Run() *Run {
	return s.run
}

// WriteWebsite stores a website record.
func (s *RecordStore) WriteWebsite(ctx context.Context, rec *harvest.WebsiteRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO websites (id, run_id, url, title, content, content_hash, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), s.run.ID, rec.URL, rec.Title, rec.Content,
		hashContent(rec.Content), formatTime(time.Now()))
	return err
}

// WriteDocument stores a document record.
func (s *RecordStore) WriteDocument(ctx context.Context, rec *harvest.DocumentRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, run_id, url, kind, content, content_hash, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), s.run.ID, rec.URL, string(rec.Kind), rec.Content,
		hashContent(rec.Content), formatTime(time.Now()))
	return err
}

// Finish marks the run as finished.
func (s *RecordStore) Finish(ctx context.Context) error {
	return s.runs.FinishRun(ctx, s.run.ID)
}

// Close finishes the run and closes the database.
func (s *RecordStore) Close() error {
	finishErr := s.Finish(context.Background())
	if err := s.db.Close(); err != nil {
		return err
	}
	return finishErr
}
