package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/scribe/internal/domain"
	"github.com/bnema/scribe/internal/infrastructure/logger"
	"github.com/bnema/scribe/internal/port"
	"github.com/samber/lo"
)

const (
	progressAudioExtracted = 5
	progressChunksPlanned  = 15
	progressTranscribeSpan = 70
	progressDone           = 100
)

var ErrNoChunks = errors.New("no audio chunks were produced")

// Pipeline runs one job from uploaded media to a merged transcript. It must
// not be invoked concurrently for the same job.
type Pipeline struct {
	store    port.JobStore
	audio    port.AudioTool
	stt      port.SpeechToText
	governor port.RateGovernor
	planner  *Planner
	events   EventPublisher
	chunkCfg domain.ChunkConfig
}

func NewPipeline(
	store port.JobStore,
	audio port.AudioTool,
	stt port.SpeechToText,
	governor port.RateGovernor,
	events EventPublisher,
	chunkCfg domain.ChunkConfig,
) *Pipeline {
	return &Pipeline{
		store:    store,
		audio:    audio,
		stt:      stt,
		governor: governor,
		planner:  NewPlanner(audio),
		events:   events,
		chunkCfg: chunkCfg.Normalize(),
	}
}

// Run executes the job's pipeline. Failures are recorded on the job and
// returned. finish is called with the outcome before the job leaves
// processing, so a start request that sees the terminal state never finds
// the old run still active. A cancelled context leaves the job in
// processing, and finish uncalled, so that a restarted worker can pick it
// up again.
func (p *Pipeline) Run(ctx context.Context, jobID string, finish RunFinisher) error {
	if finish == nil {
		finish = func(error) {}
	}

	job, err := p.store.Get(jobID)
	if err != nil {
		return fmt.Errorf("load job: %w", err)
	}
	if job.Status != domain.JobStatusProcessing {
		logger.Warn.Printf("job %s is %s, skipping stale run", jobID, job.Status)
		return nil
	}

	if err := p.run(ctx, job, finish); err != nil {
		if ctx.Err() != nil {
			logger.Info.Printf("job %s interrupted: %v", jobID, err)
			return err
		}
		finish(err)
		p.fail(jobID, err)
		return err
	}
	return nil
}

// run transcribes the job's chunks. Chunks recorded by an earlier run are
// reused while all their files exist; they are re-planned, and replaced on
// the job, only when a file has gone missing.
func (p *Pipeline) run(ctx context.Context, job *domain.Job, finish RunFinisher) error {
	if job.VideoPath == "" {
		return errors.New("job has no uploaded media")
	}

	chunks := job.Chunks
	if chunkFilesExist(chunks) {
		logger.Info.Printf("job %s: reusing %d existing chunks", job.ID, len(chunks))
		if err := p.progress(job.ID, progressChunksPlanned, domain.JobPatch{}); err != nil {
			return err
		}
	} else {
		var err error
		chunks, err = p.prepare(ctx, job)
		if err != nil {
			return err
		}
	}

	results := make([]domain.ChunkResult, 0, len(chunks))
	var text strings.Builder
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return err
		}

		if d := p.governor.Check(domain.GlobalRateKey); !d.Allowed {
			return d.Err()
		}

		tr, err := p.transcribeChunk(ctx, chunk)
		if err != nil {
			return fmt.Errorf("transcribe chunk %d: %w", i, err)
		}
		results = append(results, domain.ChunkResult{Offset: chunk.Start, Segments: tr.Segments})
		text.WriteString(tr.Text)
		text.WriteString("\n")

		pct := progressChunksPlanned + (i+1)*progressTranscribeSpan/len(chunks)
		if err := p.progress(job.ID, pct, domain.JobPatch{}); err != nil {
			return err
		}
		logger.Debug.Printf("job %s: chunk %d/%d transcribed (%d segments)", job.ID, i+1, len(chunks), len(tr.Segments))
	}

	segments := domain.MergeSegments(results, p.chunkCfg.Overlap)
	finish(nil)
	done, err := p.store.Update(job.ID, domain.JobPatch{
		Status:            domain.StatusPtr(domain.JobStatusCompleted),
		Progress:          domain.IntPtr(progressDone),
		TranscriptionText: domain.StringPtr(strings.TrimSpace(text.String())),
		Segments:          segments,
	})
	if err != nil {
		return fmt.Errorf("save transcript: %w", err)
	}
	p.publish(EventStatus, done)
	logger.Info.Printf("job %s completed: %d chunks, %d segments", job.ID, len(chunks), len(segments))
	return nil
}

// prepare extracts the audio track and cuts it into chunk files.
func (p *Pipeline) prepare(ctx context.Context, job *domain.Job) ([]domain.Chunk, error) {
	dir := filepath.Dir(job.VideoPath)
	audioPath := filepath.Join(dir, job.ID+"_audio.mp3")
	if err := p.audio.ExtractAudio(ctx, job.VideoPath, audioPath); err != nil {
		return nil, fmt.Errorf("extract audio: %w", err)
	}
	if err := p.progress(job.ID, progressAudioExtracted, domain.JobPatch{AudioPath: &audioPath}); err != nil {
		return nil, err
	}

	total, chunks, err := p.planner.Plan(ctx, audioPath, filepath.Join(dir, job.ID+"_chunks"), p.chunkCfg)
	if err != nil {
		return nil, fmt.Errorf("plan chunks: %w", err)
	}
	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}
	if err := p.progress(job.ID, progressChunksPlanned, domain.JobPatch{Chunks: chunks}); err != nil {
		return nil, err
	}
	logger.Info.Printf("job %s: %s of audio split into %d chunks", job.ID, domain.FormatDuration(total), len(chunks))
	return chunks, nil
}

func (p *Pipeline) transcribeChunk(ctx context.Context, chunk domain.Chunk) (*domain.Transcription, error) {
	f, err := os.Open(chunk.Path)
	if err != nil {
		return nil, fmt.Errorf("open chunk: %w", err)
	}
	defer f.Close()

	return p.stt.Transcribe(ctx, filepath.Base(chunk.Path), f)
}

// progress persists pct together with any extra patched fields and
// publishes the resulting view.
func (p *Pipeline) progress(jobID string, pct int, patch domain.JobPatch) error {
	patch.Progress = domain.IntPtr(pct)
	job, err := p.store.Update(jobID, patch)
	if err != nil {
		return fmt.Errorf("update progress: %w", err)
	}
	p.publish(EventProgress, job)
	return nil
}

func (p *Pipeline) fail(jobID string, cause error) {
	logger.Error.Printf("job %s failed: %v", jobID, cause)
	job, err := p.store.Update(jobID, domain.JobPatch{
		Status:   domain.StatusPtr(domain.JobStatusError),
		Progress: domain.IntPtr(0),
		Error:    domain.StringPtr(cause.Error()),
	})
	if err != nil {
		logger.Error.Printf("job %s: failed to record error: %v", jobID, err)
		return
	}
	p.publish(EventStatus, job)
}

func (p *Pipeline) publish(eventType string, job *domain.Job) {
	if p.events != nil {
		p.events.Publish(job.ID, Event{Type: eventType, Job: job.View()})
	}
}

func chunkFilesExist(chunks []domain.Chunk) bool {
	if len(chunks) == 0 {
		return false
	}
	return lo.EveryBy(chunks, func(c domain.Chunk) bool {
		_, err := os.Stat(c.Path)
		return err == nil
	})
}
