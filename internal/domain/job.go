package domain

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusUploaded   JobStatus = "uploaded"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusError      JobStatus = "error"
)

// Job is one tracked transcription request from upload through completion
// or failure. It is persisted as a whole on every mutation.
type Job struct {
	ID                string    `json:"id"`
	Status            JobStatus `json:"status"`
	Progress          int       `json:"progress"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
	OriginalName      string    `json:"originalName"`
	VideoPath         string    `json:"videoPath"`
	AudioPath         string    `json:"audioPath,omitempty"`
	Chunks            []Chunk   `json:"chunks,omitempty"`
	TranscriptionText string    `json:"transcriptionText,omitempty"`
	Segments          []Segment `json:"segments,omitempty"`
	Error             string    `json:"error,omitempty"`
}

func NewJob(originalName, videoPath string) *Job {
	now := time.Now().UTC()
	return &Job{
		ID:           uuid.NewString(),
		Status:       JobStatusUploaded,
		Progress:     0,
		CreatedAt:    now,
		UpdatedAt:    now,
		OriginalName: originalName,
		VideoPath:    videoPath,
	}
}

// CanStart reports whether a new run may be started. Jobs that are already
// processing or completed are left alone; errored jobs may be retried.
func (j *Job) CanStart() bool {
	return j.Status != JobStatusProcessing && j.Status != JobStatusCompleted
}

// IsTerminal reports whether no further progress will be published for
// the status until a new run is started.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusError
}

// JobPatch is a partial overwrite of a Job. Nil fields are left unchanged.
// Chunks and Segments are replaced when non-nil, including empty slices.
type JobPatch struct {
	Status            *JobStatus
	Progress          *int
	AudioPath         *string
	Chunks            []Chunk
	TranscriptionText *string
	Segments          []Segment
	Error             *string

	// ClearOutputs drops the transcript, segments and error of a previous run.
	ClearOutputs bool
}

// Apply overwrites the patched fields and advances UpdatedAt. UpdatedAt is
// kept strictly increasing even if the wall clock has not moved.
func (j *Job) Apply(p JobPatch, now time.Time) {
	if p.ClearOutputs {
		j.TranscriptionText = ""
		j.Segments = nil
		j.Error = ""
	}
	if p.Status != nil {
		j.Status = *p.Status
	}
	if p.Progress != nil {
		j.Progress = *p.Progress
	}
	if p.AudioPath != nil {
		j.AudioPath = *p.AudioPath
	}
	if p.Chunks != nil {
		j.Chunks = p.Chunks
	}
	if p.TranscriptionText != nil {
		j.TranscriptionText = *p.TranscriptionText
	}
	if p.Segments != nil {
		j.Segments = p.Segments
	}
	if p.Error != nil {
		j.Error = *p.Error
	}

	now = now.UTC()
	if !now.After(j.UpdatedAt) {
		now = j.UpdatedAt.Add(time.Nanosecond)
	}
	j.UpdatedAt = now
}

// JobView is the read-only shape returned to pollers.
type JobView struct {
	ID                string    `json:"id"`
	Status            JobStatus `json:"status"`
	Progress          int       `json:"progress"`
	TranscriptionText string    `json:"transcriptionText,omitempty"`
	Segments          []Segment `json:"segments,omitempty"`
	Error             string    `json:"error,omitempty"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (j *Job) View() JobView {
	return JobView{
		ID:                j.ID,
		Status:            j.Status,
		Progress:          j.Progress,
		TranscriptionText: j.TranscriptionText,
		Segments:          j.Segments,
		Error:             j.Error,
		UpdatedAt:         j.UpdatedAt,
	}
}

func StatusPtr(s JobStatus) *JobStatus { return &s }
func IntPtr(i int) *int                { return &i }
func StringPtr(s string) *string       { return &s }

type RunStatus string

const (
	RunStatusPending RunStatus = "pending"
	RunStatusRunning RunStatus = "running"
	RunStatusDone    RunStatus = "done"
	RunStatusFailed  RunStatus = "failed"
)

// Run is one queued execution attempt of a job's pipeline.
type Run struct {
	ID           int64
	JobID        string
	Status       RunStatus
	ErrorMessage string
	Attempts     int64
	CreatedAt    time.Time
	StartedAt    *time.Time
	CompletedAt  *time.Time
}
