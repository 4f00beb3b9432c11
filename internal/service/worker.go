package service

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/scribe/internal/domain"
	"github.com/bnema/scribe/internal/infrastructure/logger"
	"github.com/bnema/scribe/internal/port"
)

const defaultPollInterval = 500 * time.Millisecond

// RunFinisher records the outcome of a claimed run in the queue. Only the
// first call has an effect.
type RunFinisher func(runErr error)

// RunExecutor processes the job behind one claimed run. It calls finish
// before making the outcome visible on the job; the pool calls it
// afterwards if the executor did not.
type RunExecutor interface {
	Run(ctx context.Context, jobID string, finish RunFinisher) error
}

// Backoff yields the pause before the next claim after consecutive queue
// failures.
type Backoff interface {
	Duration(attempt int) time.Duration
}

type fixedBackoff time.Duration

func (b fixedBackoff) Duration(int) time.Duration { return time.Duration(b) }

type WorkerPool struct {
	queue        port.RunQueue
	executor     RunExecutor
	backoff      Backoff
	workers      int
	pollInterval time.Duration
	wake         chan struct{}
	wg           sync.WaitGroup
}

func NewWorkerPool(queue port.RunQueue, executor RunExecutor, workers int, backoff Backoff) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	if backoff == nil {
		backoff = fixedBackoff(2 * time.Second)
	}
	return &WorkerPool{
		queue:        queue,
		executor:     executor,
		backoff:      backoff,
		workers:      workers,
		pollInterval: defaultPollInterval,
		wake:         make(chan struct{}, workers),
	}
}

// SetPollInterval changes how long an idle worker sleeps between claims
// when no notification arrives.
func (wp *WorkerPool) SetPollInterval(d time.Duration) {
	if d > 0 {
		wp.pollInterval = d
	}
}

func (wp *WorkerPool) Start(ctx context.Context) {
	// Runs left running by a previous process are claimable again.
	if err := wp.queue.ResetStalled(); err != nil {
		logger.Error.Printf("failed to reset stalled runs: %v", err)
	}

	for i := range wp.workers {
		wp.wg.Add(1)
		go func() {
			defer wp.wg.Done()
			wp.runWorker(ctx, i)
		}()
	}
	logger.Info.Printf("started %d workers", wp.workers)
}

// Run starts the pool and blocks until ctx is done and every worker has
// finished its current run.
func (wp *WorkerPool) Run(ctx context.Context) error {
	wp.Start(ctx)
	<-ctx.Done()
	wp.Wait()
	return nil
}

func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Notify wakes an idle worker after a run was enqueued.
func (wp *WorkerPool) Notify() {
	select {
	case wp.wake <- struct{}{}:
	default:
	}
}

func (wp *WorkerPool) runWorker(ctx context.Context, id int) {
	failures := 0
	for {
		if ctx.Err() != nil {
			logger.Info.Printf("worker %d shutting down", id)
			return
		}

		run, err := wp.queue.Claim()
		if err != nil {
			failures++
			logger.Error.Printf("worker %d: failed to claim run: %v", id, err)
			wp.sleep(ctx, wp.backoff.Duration(failures))
			continue
		}
		failures = 0

		if run == nil {
			wp.idle(ctx)
			continue
		}

		wp.processRun(ctx, id, run)
	}
}

func (wp *WorkerPool) processRun(ctx context.Context, worker int, run *domain.Run) {
	logger.Info.Printf("worker %d: processing run %d (job=%s, attempt=%d)", worker, run.ID, run.JobID, run.Attempts)

	var once sync.Once
	finish := func(runErr error) {
		once.Do(func() { wp.finishRun(run, runErr) })
	}

	err := wp.executor.Run(ctx, run.JobID, finish)
	if err != nil && ctx.Err() != nil {
		logger.Info.Printf("run %d interrupted, it will resume after restart", run.ID)
		return
	}
	finish(err)
}

func (wp *WorkerPool) finishRun(run *domain.Run, runErr error) {
	if runErr != nil {
		if err := wp.queue.Fail(run.ID, runErr.Error()); err != nil {
			logger.Error.Printf("failed to mark run %d failed: %v", run.ID, err)
		}
		return
	}

	if err := wp.queue.Complete(run.ID); err != nil {
		logger.Error.Printf("failed to mark run %d done: %v", run.ID, err)
		return
	}
	logger.Info.Printf("run %d completed", run.ID)
}

func (wp *WorkerPool) idle(ctx context.Context) {
	timer := time.NewTimer(wp.pollInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-wp.wake:
	case <-timer.C:
	}
}

func (wp *WorkerPool) sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
