package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/scribe/internal/domain"
	"github.com/bnema/scribe/internal/infrastructure/logger"
	"github.com/bnema/scribe/internal/port"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// RunNotifier is told when a run has been queued.
type RunNotifier interface {
	Notify()
}

type JobServiceConfig struct {
	Store           port.JobStore
	Queue           port.RunQueue
	STT             port.SpeechToText
	Analyzer        port.ThemeAnalyzer
	STTGovernor     port.RateGovernor
	AnalyzeGovernor port.RateGovernor
	Notifier        RunNotifier
	Events          EventPublisher
	DataDir         string
	// STTConfigured is false when no speech-to-text credential is set.
	STTConfigured bool
}

// JobService is the entry point for uploads, run starts, status reads and
// the single-shot speech endpoints.
type JobService struct {
	store           port.JobStore
	queue           port.RunQueue
	stt             port.SpeechToText
	analyzer        port.ThemeAnalyzer
	sttGovernor     port.RateGovernor
	analyzeGovernor port.RateGovernor
	notifier        RunNotifier
	events          EventPublisher
	uploadDir       string
	configured      bool

	// startMu serializes the check-and-transition of StartProcessing.
	startMu sync.Mutex
}

func NewJobService(cfg JobServiceConfig) *JobService {
	return &JobService{
		store:           cfg.Store,
		queue:           cfg.Queue,
		stt:             cfg.STT,
		analyzer:        cfg.Analyzer,
		sttGovernor:     cfg.STTGovernor,
		analyzeGovernor: cfg.AnalyzeGovernor,
		notifier:        cfg.Notifier,
		events:          cfg.Events,
		uploadDir:       filepath.Join(cfg.DataDir, "uploads"),
		configured:      cfg.STTConfigured,
	}
}

// CreateUploadFile opens a temporary file inside the upload directory so
// that Upload can move it into place with a rename.
func (s *JobService) CreateUploadFile() (*os.File, error) {
	if err := os.MkdirAll(s.uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return os.CreateTemp(s.uploadDir, ".upload-*")
}

// Upload moves a received file into the upload directory and creates an
// uploaded job for it. safeName must already be sanitized; only its base
// name is used.
func (s *JobService) Upload(originalName, safeName string, file *os.File) (*domain.Job, error) {
	if err := os.MkdirAll(s.uploadDir, 0755); err != nil {
		logger.Error.Printf("failed to create upload directory: %v", err)
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	base := filepath.Base(safeName)
	if base == "." || base == string(filepath.Separator) || base == "" {
		base = "video"
	}
	uploadPath := filepath.Join(s.uploadDir, uuid.NewString()+"_"+base)
	if err := os.Rename(file.Name(), uploadPath); err != nil {
		logger.Error.Printf("failed to save upload %s: %v", logger.SanitizeForLog(base), err)
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}

	job, err := s.store.Create(originalName, uploadPath)
	if err != nil {
		_ = os.Remove(uploadPath)
		logger.Error.Printf("failed to create job for %s: %v", logger.SanitizeForLog(base), err)
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	var size uint64
	if info, statErr := os.Stat(uploadPath); statErr == nil {
		size = uint64(info.Size())
	}
	logger.Info.Printf("job created: id=%s, file=%s, size=%s", job.ID, logger.SanitizeForLog(originalName), humanize.Bytes(size))
	return job, nil
}

// StartProcessing moves a job into processing and queues a run for it.
// Jobs already processing or completed are returned unchanged.
func (s *JobService) StartProcessing(ctx context.Context, id string) (domain.JobStatus, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	job, err := s.store.Get(id)
	if err != nil {
		return "", err
	}
	if job.VideoPath == "" {
		return "", domain.NewValidationError("videoPath", "job has no uploaded media")
	}
	if !s.configured {
		return "", domain.ErrNotConfigured
	}

	s.startMu.Lock()
	defer s.startMu.Unlock()

	job, err = s.store.Get(id)
	if err != nil {
		return "", err
	}
	if !job.CanStart() {
		return job.Status, nil
	}

	job, err = s.store.Update(id, domain.JobPatch{
		Status:       domain.StatusPtr(domain.JobStatusProcessing),
		Progress:     domain.IntPtr(0),
		ClearOutputs: true,
	})
	if err != nil {
		return "", fmt.Errorf("start job: %w", err)
	}

	if _, err := s.queue.Enqueue(id); err != nil {
		if errors.Is(err, domain.ErrRunActive) {
			logger.Warn.Printf("job %s already has an active run", id)
			return domain.JobStatusProcessing, nil
		}
		msg := "failed to queue processing run"
		if _, uerr := s.store.Update(id, domain.JobPatch{
			Status: domain.StatusPtr(domain.JobStatusError),
			Error:  &msg,
		}); uerr != nil {
			logger.Error.Printf("job %s: failed to record queue error: %v", id, uerr)
		}
		return "", fmt.Errorf("enqueue run: %w", err)
	}

	if s.events != nil {
		s.events.Publish(id, Event{Type: EventStatus, Job: job.View()})
	}
	if s.notifier != nil {
		s.notifier.Notify()
	}
	logger.Info.Printf("job %s queued for processing", id)
	return domain.JobStatusProcessing, nil
}

func (s *JobService) Status(id string) (domain.JobView, error) {
	job, err := s.store.Get(id)
	if err != nil {
		return domain.JobView{}, err
	}
	return job.View(), nil
}

// Unfinished lists jobs that were processing when the process last stopped.
func (s *JobService) Unfinished() ([]*domain.Job, error) {
	jobs, err := s.store.List()
	var out []*domain.Job
	for _, j := range jobs {
		if j.Status == domain.JobStatusProcessing {
			out = append(out, j)
		}
	}
	return out, err
}

// TranscribeOnce sends one file straight to the speech API, drawing from
// the same global budget as chunked runs.
func (s *JobService) TranscribeOnce(ctx context.Context, filename string, audio io.Reader) (*domain.Transcription, domain.RateDecision, error) {
	if !s.configured {
		return nil, domain.RateDecision{}, domain.ErrNotConfigured
	}

	d := s.sttGovernor.Check(domain.GlobalRateKey)
	if !d.Allowed {
		return nil, d, d.Err()
	}

	tr, err := s.stt.Transcribe(ctx, filename, audio)
	if err != nil {
		return nil, d, fmt.Errorf("transcribe: %w", err)
	}
	return tr, d, nil
}

// Analyze splits a transcript into themes. clientKey selects the caller's
// budget; the transcript is expected to be validated already.
func (s *JobService) Analyze(ctx context.Context, clientKey, transcript string) ([]domain.Theme, domain.RateDecision, error) {
	if !s.configured {
		return nil, domain.RateDecision{}, domain.ErrNotConfigured
	}

	d := s.analyzeGovernor.Check(clientKey)
	if !d.Allowed {
		return nil, d, d.Err()
	}

	themes, err := s.analyzer.AnalyzeThemes(ctx, transcript)
	if err != nil {
		return nil, d, fmt.Errorf("analyze themes: %w", err)
	}
	return themes, d, nil
}

func (s *JobService) Health(ctx context.Context) error {
	if !s.configured {
		return domain.ErrNotConfigured
	}
	return s.stt.Health(ctx)
}
