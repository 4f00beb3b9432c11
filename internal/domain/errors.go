package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrNotConfigured = errors.New("speech-to-text API key not configured")
	ErrRunActive     = errors.New("job already has an active run")
)

// ValidationError reports caller input that was rejected before any job or
// run was created.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// RateLimitError is returned when the request budget of a window is spent.
type RateLimitError struct {
	Limit   int
	Window  time.Duration
	ResetAt time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded: maximum %d requests per %s, try again after %s",
		e.Limit, e.Window, e.ResetAt.UTC().Format(time.RFC3339))
}

// RetryAfter returns the whole seconds until capacity returns, at least 1.
func (e *RateLimitError) RetryAfter(now time.Time) int {
	secs := int(e.ResetAt.Sub(now).Seconds() + 0.999)
	if secs < 1 {
		return 1
	}
	return secs
}
