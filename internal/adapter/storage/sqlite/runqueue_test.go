package sqlite

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bnema/scribe/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunQueue_Lifecycle(t *testing.T) {
	store, clk := newTestStore(t)
	q := NewRunQueue(store)

	run, err := q.Enqueue("job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusPending, run.Status)
	assert.Equal(t, epoch, run.CreatedAt)
	assert.Nil(t, run.StartedAt)

	clk.WarpForward(time.Second)
	claimed, err := q.Claim()
	require.NoError(t, err)
	require.NotNil(t, claimed)
	assert.Equal(t, run.ID, claimed.ID)
	assert.Equal(t, domain.RunStatusRunning, claimed.Status)
	assert.Equal(t, int64(1), claimed.Attempts)
	require.NotNil(t, claimed.StartedAt)
	assert.Equal(t, epoch.Add(time.Second), *claimed.StartedAt)

	empty, err := q.Claim()
	require.NoError(t, err)
	assert.Nil(t, empty)

	require.NoError(t, q.Complete(run.ID))
	assert.ErrorIs(t, q.Complete(12345), domain.ErrNotFound)
}

func TestRunQueue_OneActiveRunPerJob(t *testing.T) {
	store, _ := newTestStore(t)
	q := NewRunQueue(store)

	first, err := q.Enqueue("job-1")
	require.NoError(t, err)

	_, err = q.Enqueue("job-1")
	assert.ErrorIs(t, err, domain.ErrRunActive)

	_, err = q.Claim()
	require.NoError(t, err)
	_, err = q.Enqueue("job-1")
	assert.ErrorIs(t, err, domain.ErrRunActive)

	require.NoError(t, q.Fail(first.ID, "boom"))
	_, err = q.Enqueue("job-1")
	assert.NoError(t, err, "a failed run frees the job for a retry")
}

func TestRunQueue_ConcurrentEnqueue(t *testing.T) {
	store, _ := newTestStore(t)
	q := NewRunQueue(store)

	var wg sync.WaitGroup
	var mu sync.Mutex
	created, active := 0, 0
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := q.Enqueue("job-1")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				created++
			} else if errors.Is(err, domain.ErrRunActive) {
				active++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, 9, active)
}

func TestRunQueue_ResetStalled(t *testing.T) {
	store, _ := newTestStore(t)
	q := NewRunQueue(store)

	_, err := q.Enqueue("job-1")
	require.NoError(t, err)
	_, err = q.Claim()
	require.NoError(t, err)

	require.NoError(t, q.ResetStalled())

	again, err := q.Claim()
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, "job-1", again.JobID)
	assert.Equal(t, int64(2), again.Attempts)
}

func TestRunQueue_ClaimOrder(t *testing.T) {
	store, _ := newTestStore(t)
	q := NewRunQueue(store)

	for _, id := range []string{"a", "b", "c"} {
		_, err := q.Enqueue(id)
		require.NoError(t, err)
	}
	for _, want := range []string{"a", "b", "c"} {
		r, err := q.Claim()
		require.NoError(t, err)
		assert.Equal(t, want, r.JobID)
	}
}
