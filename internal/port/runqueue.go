package port

import "github.com/bnema/scribe/internal/domain"

type RunQueue interface {
	// Enqueue returns domain.ErrRunActive if the job already has a pending
	// or running run.
	Enqueue(jobID string) (*domain.Run, error)
	// Claim returns nil, nil when nothing is pending.
	Claim() (*domain.Run, error)
	Complete(runID int64) error
	Fail(runID int64, errMsg string) error
	ResetStalled() error
}
