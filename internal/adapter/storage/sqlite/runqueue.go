package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/scribe/internal/adapter/storage/sqlite/sqlitedb"
	"github.com/bnema/scribe/internal/domain"
	"github.com/bnema/scribe/internal/infrastructure/clock"
	"github.com/bnema/scribe/internal/port"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type RunQueue struct {
	queries *sqlitedb.Queries
	clock   clock.Clock
}

func NewRunQueue(store *Store) *RunQueue {
	return &RunQueue{
		queries: store.queries,
		clock:   store.clock,
	}
}

func (q *RunQueue) now() sql.NullString {
	return sql.NullString{String: formatTime(q.clock.Now()), Valid: true}
}

func (q *RunQueue) Enqueue(jobID string) (*domain.Run, error) {
	ctx := context.Background()
	row, err := q.queries.InsertRun(ctx, sqlitedb.InsertRunParams{
		JobID:     jobID,
		CreatedAt: formatTime(q.clock.Now()),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrRunActive
		}
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return runFromRow(row)
}

func (q *RunQueue) Claim() (*domain.Run, error) {
	ctx := context.Background()
	row, err := q.queries.ClaimNextRun(ctx, q.now())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return runFromRow(row)
}

func (q *RunQueue) Complete(runID int64) error {
	ctx := context.Background()
	n, err := q.queries.CompleteRun(ctx, sqlitedb.CompleteRunParams{
		CompletedAt: q.now(),
		ID:          runID,
	})
	return affected(n, err)
}

func (q *RunQueue) Fail(runID int64, errMsg string) error {
	ctx := context.Background()
	n, err := q.queries.FailRun(ctx, sqlitedb.FailRunParams{
		ErrorMessage: errMsg,
		CompletedAt:  q.now(),
		ID:           runID,
	})
	return affected(n, err)
}

func (q *RunQueue) ResetStalled() error {
	ctx := context.Background()
	return q.queries.ResetStalledRuns(ctx)
}

func affected(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || se.Code() == sqlite3.SQLITE_CONSTRAINT
}

func runFromRow(row sqlitedb.Run) (*domain.Run, error) {
	created, err := parseTime(row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("run %d created_at: %w", row.ID, err)
	}
	run := &domain.Run{
		ID:           row.ID,
		JobID:        row.JobID,
		Status:       domain.RunStatus(row.Status),
		ErrorMessage: row.ErrorMessage,
		Attempts:     row.Attempts,
		CreatedAt:    created,
	}
	if run.StartedAt, err = parseNullTime(row.StartedAt); err != nil {
		return nil, fmt.Errorf("run %d started_at: %w", row.ID, err)
	}
	if run.CompletedAt, err = parseNullTime(row.CompletedAt); err != nil {
		return nil, fmt.Errorf("run %d completed_at: %w", row.ID, err)
	}
	return run, nil
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

var _ port.RunQueue = (*RunQueue)(nil)
