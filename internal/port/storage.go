package port

import "github.com/bnema/scribe/internal/domain"

// JobStore persists jobs. Update is a read-modify-write; callers guarantee
// at most one active run per job.
type JobStore interface {
	Create(originalName, videoPath string) (*domain.Job, error)
	Get(id string) (*domain.Job, error)
	Update(id string, patch domain.JobPatch) (*domain.Job, error)
	List() ([]*domain.Job, error)
}
