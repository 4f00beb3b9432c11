package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bnema/scribe/internal/domain"
	"github.com/bnema/scribe/internal/infrastructure/clock"
	"github.com/bnema/scribe/internal/port"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// Store keeps one indented JSON document per job under <dataDir>/jobs.
type Store struct {
	mu    sync.RWMutex
	dir   string
	clock clock.Clock
}

func NewStore(dataDir string, c clock.Clock) (*Store, error) {
	dir := filepath.Join(dataDir, "jobs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create jobs directory: %w", err)
	}
	if c == nil {
		c = clock.New()
	}
	return &Store{dir: dir, clock: c}, nil
}

func (s *Store) jobPath(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", domain.ErrNotFound
	}
	return filepath.Join(s.dir, id+".json"), nil
}

func (s *Store) Create(originalName, videoPath string) (*domain.Job, error) {
	job := domain.NewJob(originalName, videoPath)
	now := s.clock.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *Store) Get(id string) (*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.read(id)
}

// Update applies patch to the stored job. It is a read-modify-write under
// the store lock; concurrent runs on one job are excluded by the caller.
func (s *Store) Update(id string, patch domain.JobPatch) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, err := s.read(id)
	if err != nil {
		return nil, err
	}

	job.Apply(patch, s.clock.Now())
	if err := s.write(job); err != nil {
		return nil, err
	}
	return job, nil
}

// List returns every readable job ordered by creation time. Files that fail
// to decode are skipped and reported together in the returned error.
func (s *Store) List() ([]*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read jobs directory: %w", err)
	}

	var jobs []*domain.Job
	var errs error
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		job, err := s.read(strings.TrimSuffix(e.Name(), ".json"))
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", e.Name(), err))
			continue
		}
		jobs = append(jobs, job)
	}

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.Before(jobs[j].CreatedAt)
	})
	return jobs, errs
}

func (s *Store) read(id string) (*domain.Job, error) {
	path, err := s.jobPath(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("read job %s: %w", id, err)
	}

	var job domain.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &job, nil
}

func (s *Store) write(job *domain.Job) error {
	path, err := s.jobPath(job.ID)
	if err != nil {
		return err
	}
	tmpPath := path + ".tmp"

	data, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return fmt.Errorf("encode job %s: %w", job.ID, err)
	}

	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write job %s: %w", job.ID, err)
	}
	return os.Rename(tmpPath, path)
}

var _ port.JobStore = (*Store)(nil)
