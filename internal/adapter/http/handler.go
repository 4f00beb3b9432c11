package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/bnema/scribe/internal/adapter/http/validation"
	"github.com/bnema/scribe/internal/adapter/ratelimit"
	"github.com/bnema/scribe/internal/domain"
	"github.com/bnema/scribe/internal/infrastructure/clock"
	"github.com/bnema/scribe/internal/infrastructure/logger"
)

// maxAnalyzeBody bounds the JSON body of an analysis request. A transcript
// at the length limit of multi-byte text fits with room to spare.
const maxAnalyzeBody = 4 << 20

// multipartOverhead is the slack allowed on top of the file size for the
// multipart envelope.
const multipartOverhead = 1 << 20

type JobService interface {
	CreateUploadFile() (*os.File, error)
	Upload(originalName, safeName string, file *os.File) (*domain.Job, error)
	StartProcessing(ctx context.Context, id string) (domain.JobStatus, error)
	Status(id string) (domain.JobView, error)
	TranscribeOnce(ctx context.Context, filename string, audio io.Reader) (*domain.Transcription, domain.RateDecision, error)
	Analyze(ctx context.Context, clientKey, transcript string) ([]domain.Theme, domain.RateDecision, error)
	Health(ctx context.Context) error
}

type Handlers struct {
	jobs          JobService
	clock         clock.Clock
	maxUploadSize int64
	behindProxy   bool
}

func NewHandlers(jobs JobService, c clock.Clock, maxUploadSize int64, behindProxy bool) *Handlers {
	if c == nil {
		c = clock.New()
	}
	if maxUploadSize <= 0 {
		maxUploadSize = validation.DefaultMaxUploadSize
	}
	return &Handlers{
		jobs:          jobs,
		clock:         c,
		maxUploadSize: maxUploadSize,
		behindProxy:   behindProxy,
	}
}

type rateLimitInfo struct {
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"resetAt"`
}

func newRateLimitInfo(d domain.RateDecision) rateLimitInfo {
	return rateLimitInfo{Remaining: d.Remaining, ResetAt: d.ResetAt}
}

func (h *Handlers) Upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tmp, filename, err := h.receiveFile(w, r)
		if err != nil {
			h.writeError(w, err)
			return
		}
		defer os.Remove(tmp.Name()) //nolint:errcheck

		job, err := h.jobs.Upload(filename, validation.SanitizeUploadName(filename), tmp)
		if err != nil {
			h.writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"success": true,
			"jobId":   job.ID,
		})
	}
}

func (h *Handlers) Process() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			h.writeError(w, domain.NewValidationError("jobId", "Missing jobId"))
			return
		}

		status, err := h.jobs.StartProcessing(r.Context(), id)
		if err != nil {
			h.writeError(w, err)
			return
		}

		writeJSON(w, http.StatusAccepted, map[string]any{
			"success": true,
			"jobId":   id,
			"status":  status,
		})
	}
}

func (h *Handlers) Status() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := h.jobs.Status(r.PathValue("id"))
		if err != nil {
			h.writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"job":     view,
		})
	}
}

func (h *Handlers) Transcribe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tmp, filename, err := h.receiveFile(w, r)
		if err != nil {
			h.writeError(w, err)
			return
		}
		defer os.Remove(tmp.Name()) //nolint:errcheck

		f, err := os.Open(tmp.Name())
		if err != nil {
			h.writeError(w, fmt.Errorf("reopen upload: %w", err))
			return
		}
		defer f.Close() //nolint:errcheck

		tr, d, err := h.jobs.TranscribeOnce(r.Context(), validation.SanitizeUploadName(filename), f)
		if err != nil {
			h.writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"text":      tr.Text,
			"segments":  nonNil(tr.Segments),
			"rateLimit": newRateLimitInfo(d),
		})
	}
}

type analyzeRequest struct {
	Transcription string `json:"transcription"`
}

func (h *Handlers) Analyze() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxAnalyzeBody)

		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				h.writeError(w, err)
				return
			}
			h.writeError(w, domain.NewValidationError("body", "Invalid JSON body"))
			return
		}
		if req.Transcription == "" {
			h.writeError(w, domain.NewValidationError("transcription", "No transcription provided"))
			return
		}
		if err := validation.ValidateTranscript(req.Transcription); err != nil {
			h.writeError(w, err)
			return
		}

		key := ratelimit.ClientKey(r.RemoteAddr, r.Header.Get("X-Forwarded-For"), h.behindProxy)
		themes, d, err := h.jobs.Analyze(r.Context(), key, req.Transcription)
		if err != nil {
			h.writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"themes":    nonNil(themes),
			"rateLimit": newRateLimitInfo(d),
		})
	}
}

func (h *Handlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.jobs.Health(r.Context()); err != nil {
			msg := err.Error()
			if errors.Is(err, domain.ErrNotConfigured) {
				msg = "API key not configured"
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"healthy": false,
				"service": "stt",
				"error":   msg,
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"healthy": true,
			"service": "stt",
			"status":  "available",
		})
	}
}

func Liveness(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version})
	}
}

// receiveFile checks the declared name and type of the first file part of a
// multipart request, then streams it into a temporary file in the upload
// directory and validates its size and content. The returned
// file is closed; the caller removes it unless it was moved.
func (h *Handlers) receiveFile(w http.ResponseWriter, r *http.Request) (*os.File, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+multipartOverhead)

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, "", domain.NewValidationError("file", "No file provided")
	}

	part, err := nextFilePart(mr)
	if err != nil {
		return nil, "", err
	}
	defer part.Close() //nolint:errcheck

	filename := part.FileName()
	if err := validation.ValidateUploadName(filename, part.Header.Get("Content-Type")); err != nil {
		logger.Warn.Printf("rejected upload %s: %v", logger.SanitizeForLog(filename), err)
		return nil, "", err
	}

	tmp, err := h.jobs.CreateUploadFile()
	if err != nil {
		return nil, "", err
	}
	keep := false
	defer func() {
		if !keep {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	size, err := io.Copy(tmp, io.LimitReader(part, h.maxUploadSize+1))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			size = h.maxUploadSize + 1
		} else {
			return nil, "", fmt.Errorf("failed to save file: %w", err)
		}
	}

	if err := validation.ValidateUploadSize(size, h.maxUploadSize); err != nil {
		logger.Warn.Printf("rejected upload %s: %v", logger.SanitizeForLog(filename), err)
		return nil, "", err
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, "", fmt.Errorf("failed to rewind upload: %w", err)
	}
	detected, allowed, err := validation.ValidateMagicBytes(tmp)
	if err != nil {
		return nil, "", fmt.Errorf("failed to inspect upload: %w", err)
	}
	if !allowed {
		logger.Warn.Printf("rejected upload %s: content detected as %s", logger.SanitizeForLog(filename), detected)
		return nil, "", domain.NewValidationError("file", "Invalid file content: detected %s", detected)
	}

	if err := tmp.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to save file: %w", err)
	}
	keep = true
	return tmp, filename, nil
}

func nextFilePart(mr *multipart.Reader) (*multipart.Part, error) {
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return nil, domain.NewValidationError("file", "No file provided")
		}
		if err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				return nil, err
			}
			return nil, domain.NewValidationError("file", "Invalid multipart body")
		}
		if part.FileName() != "" {
			return part, nil
		}
		_ = part.Close()
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error.Printf("failed to encode response: %v", err)
	}
}

// writeError maps service errors onto HTTP status codes. Unexpected errors
// are logged and reported without detail.
func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "Internal server error"

	var ve *domain.ValidationError
	var rle *domain.RateLimitError
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &ve):
		status, msg = http.StatusBadRequest, ve.Message
	case errors.As(err, &rle):
		status, msg = http.StatusTooManyRequests, rle.Error()
		w.Header().Set("Retry-After", strconv.Itoa(rle.RetryAfter(h.clock.Now())))
	case errors.Is(err, domain.ErrNotFound):
		status, msg = http.StatusNotFound, "Job not found"
	case errors.Is(err, domain.ErrNotConfigured):
		status, msg = http.StatusBadRequest, "Speech-to-text API key not configured. Set STT_API_KEY or GROQ_API_KEY."
	case errors.As(err, &mbe):
		status, msg = http.StatusRequestEntityTooLarge, "Request body too large"
	default:
		logger.Error.Printf("request failed: %v", err)
	}

	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   msg,
	})
}
