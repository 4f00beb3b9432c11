package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/scribe/internal/domain"
	"github.com/bnema/scribe/internal/infrastructure/clock"
	"github.com/bnema/scribe/internal/port"
)

type runRecord struct {
	ID           int64            `json:"id"`
	JobID        string           `json:"jobId"`
	Status       domain.RunStatus `json:"status"`
	ErrorMessage string           `json:"errorMessage,omitempty"`
	Attempts     int64            `json:"attempts"`
	CreatedAt    time.Time        `json:"createdAt"`
	StartedAt    *time.Time       `json:"startedAt,omitempty"`
	CompletedAt  *time.Time       `json:"completedAt,omitempty"`
}

// RunQueue is a file-backed run queue for the JSON storage mode. The whole
// queue lives in <dataDir>/runs.json and is rewritten on every change.
type RunQueue struct {
	mu     sync.Mutex
	path   string
	clock  clock.Clock
	runs   []*runRecord
	nextID int64
}

func NewRunQueue(dataDir string, c clock.Clock) (*RunQueue, error) {
	if c == nil {
		c = clock.New()
	}
	q := &RunQueue{
		path:   filepath.Join(dataDir, "runs.json"),
		clock:  c,
		nextID: 1,
	}
	if err := q.load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load run queue: %w", err)
	}
	return q, nil
}

func (q *RunQueue) load() error {
	data, err := os.ReadFile(q.path)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &q.runs); err != nil {
		return err
	}
	for _, r := range q.runs {
		if r.ID >= q.nextID {
			q.nextID = r.ID + 1
		}
	}
	return nil
}

func (q *RunQueue) save() error {
	tmpPath := q.path + ".tmp"

	data, err := json.MarshalIndent(q.runs, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmpPath, q.path)
}

func (q *RunQueue) Enqueue(jobID string) (*domain.Run, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, r := range q.runs {
		if r.JobID == jobID && (r.Status == domain.RunStatusPending || r.Status == domain.RunStatusRunning) {
			return nil, domain.ErrRunActive
		}
	}

	r := &runRecord{
		ID:        q.nextID,
		JobID:     jobID,
		Status:    domain.RunStatusPending,
		CreatedAt: q.clock.Now().UTC(),
	}
	q.runs = append(q.runs, r)
	q.nextID++

	if err := q.save(); err != nil {
		q.runs = q.runs[:len(q.runs)-1]
		q.nextID--
		return nil, err
	}
	return r.toDomain(), nil
}

// Claim marks the oldest pending run as running.
func (q *RunQueue) Claim() (*domain.Run, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, r := range q.runs {
		if r.Status != domain.RunStatusPending {
			continue
		}
		now := q.clock.Now().UTC()
		r.Status = domain.RunStatusRunning
		r.Attempts++
		r.StartedAt = &now
		if err := q.save(); err != nil {
			return nil, err
		}
		return r.toDomain(), nil
	}
	return nil, nil
}

func (q *RunQueue) Complete(runID int64) error {
	return q.finish(runID, domain.RunStatusDone, "")
}

func (q *RunQueue) Fail(runID int64, errMsg string) error {
	return q.finish(runID, domain.RunStatusFailed, errMsg)
}

func (q *RunQueue) finish(runID int64, status domain.RunStatus, errMsg string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, r := range q.runs {
		if r.ID != runID {
			continue
		}
		now := q.clock.Now().UTC()
		r.Status = status
		r.ErrorMessage = errMsg
		r.CompletedAt = &now
		return q.save()
	}
	return domain.ErrNotFound
}

// ResetStalled returns runs left running by a previous process to pending.
func (q *RunQueue) ResetStalled() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	changed := false
	for _, r := range q.runs {
		if r.Status == domain.RunStatusRunning {
			r.Status = domain.RunStatusPending
			r.StartedAt = nil
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return q.save()
}

func (r *runRecord) toDomain() *domain.Run {
	return &domain.Run{
		ID:           r.ID,
		JobID:        r.JobID,
		Status:       r.Status,
		ErrorMessage: r.ErrorMessage,
		Attempts:     r.Attempts,
		CreatedAt:    r.CreatedAt,
		StartedAt:    r.StartedAt,
		CompletedAt:  r.CompletedAt,
	}
}

var _ port.RunQueue = (*RunQueue)(nil)
