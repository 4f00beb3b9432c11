package clock

import (
	"sync"
	"time"
)

// Clock is the time source used by the job store, the rate governor and the
// pipeline. Tests swap in a ManagedClock.
type Clock interface {
	Now() time.Time
}

type clock struct{}

func New() Clock {
	return &clock{}
}

func (c *clock) Now() time.Time {
	return time.Now().UTC()
}

// ManagedClock is a hand-driven clock for tests. It is safe for concurrent use.
type ManagedClock struct {
	mu        sync.Mutex
	startTime time.Time
	offset    time.Duration
}

func NewManaged(startTime time.Time) *ManagedClock {
	return &ManagedClock{startTime: startTime}
}

func (c *ManagedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startTime.Add(c.offset)
}

// WarpForward moves the clock forward by offset and returns the new time.
// Negative offsets are ignored.
func (c *ManagedClock) WarpForward(offset time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if offset > 0 {
		c.offset += offset
	}
	return c.startTime.Add(c.offset)
}
