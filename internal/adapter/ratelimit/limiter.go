package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/scribe/internal/domain"
	"github.com/bnema/scribe/internal/infrastructure/clock"
	"github.com/bnema/scribe/internal/port"
)

// GlobalKey is the bucket shared by every caller of the upstream
// speech-to-text API, whether single-shot or chunked.
const GlobalKey = domain.GlobalRateKey

type windowRecord struct {
	count   int
	resetAt time.Time
}

// Limiter is a fixed-window request counter keyed by caller identity.
// Check-and-increment is atomic under mu.
type Limiter struct {
	mu      sync.Mutex
	clock   clock.Clock
	records map[string]*windowRecord
	max     int
	window  time.Duration
}

func NewLimiter(c clock.Clock, max int, window time.Duration) *Limiter {
	if c == nil {
		c = clock.New()
	}
	return &Limiter{
		clock:   c,
		records: make(map[string]*windowRecord),
		max:     max,
		window:  window,
	}
}

// Check admits one request for key if the current window has capacity.
// A denied request does not consume anything.
func (l *Limiter) Check(key string) domain.RateDecision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	record, exists := l.records[key]
	if !exists || !now.Before(record.resetAt) {
		record = &windowRecord{resetAt: now.Add(l.window)}
		l.records[key] = record
	}

	if record.count >= l.max {
		return l.decision(false, 0, record.resetAt)
	}

	record.count++
	return l.decision(true, l.max-record.count, record.resetAt)
}

func (l *Limiter) decision(allowed bool, remaining int, resetAt time.Time) domain.RateDecision {
	return domain.RateDecision{
		Allowed:   allowed,
		Remaining: remaining,
		ResetAt:   resetAt,
		Limit:     l.max,
		Window:    l.window,
	}
}

// Sweep drops records whose window has ended and returns how many went.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	removed := 0
	for key, record := range l.records {
		if !now.Before(record.resetAt) {
			delete(l.records, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (l *Limiter) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

var _ port.RateGovernor = (*Limiter)(nil)
