// Package dispatch runs fire-and-forget tasks off the caller's goroutine.
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"shopping-list/internal/metrics"
)

// Task is a unit of background work.
type Task = func(ctx context.Context) error

// Recorder receives the outcome of every task.
type Recorder interface {
	Record(ctx context.Context, m metrics.TaskMetric) error
}

type job struct {
	id   string
	name string
	task Task
}

// Queue runs submitted tasks one at a time, in submission order, on a single
// worker goroutine. Submit never blocks.
type Queue struct {
	logger   zerolog.Logger
	recorder Recorder

	mu      sync.Mutex
	pending []job
	closed  bool
	wake    chan struct{}
	done    chan struct{}
}

// NewQueue starts the worker. recorder may be nil.
func NewQueue(logger zerolog.Logger, recorder Recorder) *Queue {
	q := &Queue{
		logger:   logger.With().Str("component", "dispatch").Logger(),
		recorder: recorder,
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	go q.run()
	return q
}

// Submit schedules task and returns its id. Tasks submitted after Close are
// dropped with a warning and an empty id is returned.
func (q *Queue) Submit(name string, task Task) string {
	j := job{id: uuid.NewString(), name: name, task: task}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.logger.Warn().Str("task", name).Msg("queue closed, dropping task")
		return ""
	}
	q.pending = append(q.pending, j)
	// wake is closed under mu, so signal while still holding it.
	select {
	case q.wake <- struct{}{}:
	default:
	}
	q.mu.Unlock()

	return j.id
}

// Close stops accepting tasks, waits for the pending ones to finish or for
// ctx to expire.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.wake)
	}
	q.mu.Unlock()

	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("dispatch queue did not drain: %w", ctx.Err())
	}
}

func (q *Queue) run() {
	defer close(q.done)
	for {
		j, ok := q.next()
		if !ok {
			return
		}
		q.execute(j)
	}
}

// next pops the oldest job, waiting for one if needed. It reports false once
// the queue is closed and empty.
func (q *Queue) next() (job, bool) {
	for {
		q.mu.Lock()
		if len(q.pending) > 0 {
			j := q.pending[0]
			q.pending[0] = job{}
			q.pending = q.pending[1:]
			q.mu.Unlock()
			return j, true
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			return job{}, false
		}
		<-q.wake
	}
}

func (q *Queue) execute(j job) {
	logger := q.logger.With().Str("task_id", j.id).Str("task", j.name).Logger()
	start := time.Now()

	err := safeRun(j.task)
	latency := time.Since(start)

	m := metrics.TaskMetric{
		TaskName:  j.name,
		Succeeded: err == nil,
		LatencyMS: latency.Milliseconds(),
	}
	if err != nil {
		m.Error = err.Error()
		logger.Error().Err(err).Dur("latency", latency).Msg("task failed")
	} else {
		logger.Debug().Dur("latency", latency).Msg("task completed")
	}

	if q.recorder != nil {
		if rerr := q.recorder.Record(context.Background(), m); rerr != nil {
			logger.Warn().Err(rerr).Msg("failed to record task metric")
		}
	}
}

func safeRun(task Task) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("task panicked: %v", p)
		}
	}()
	return task(context.Background())
}
