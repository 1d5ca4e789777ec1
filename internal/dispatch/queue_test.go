package dispatch

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopping-list/internal/metrics"
)

type recordingRecorder struct {
	mu      sync.Mutex
	metrics []metrics.TaskMetric
}

func (r *recordingRecorder) Record(_ context.Context, m metrics.TaskMetric) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics = append(r.metrics, m)
	return nil
}

func (r *recordingRecorder) snapshot() []metrics.TaskMetric {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]metrics.TaskMetric(nil), r.metrics...)
}

func closeQueue(t *testing.T, q *Queue) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, q.Close(ctx))
}

func TestQueueRunsTasksInSubmissionOrder(t *testing.T) {
	q := NewQueue(zerolog.Nop(), nil)

	var mu sync.Mutex
	var order []int
	for i := 0; i < 50; i++ {
		i := i
		id := q.Submit("append", func(context.Context) error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		})
		assert.NotEmpty(t, id)
	}
	closeQueue(t, q)

	require.Len(t, order, 50)
	for i, v := range order {
		assert.Equal(t, i, v)
	}
}

func TestQueueSubmitDoesNotBlock(t *testing.T) {
	q := NewQueue(zerolog.Nop(), nil)
	release := make(chan struct{})

	q.Submit("blocker", func(context.Context) error {
		<-release
		return nil
	})

	submitted := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			q.Submit("noop", func(context.Context) error { return nil })
		}
		close(submitted)
	}()

	select {
	case <-submitted:
	case <-time.After(2 * time.Second):
		t.Fatal("Submit blocked while the worker was busy")
	}
	close(release)
	closeQueue(t, q)
}

func TestQueueReportsFailures(t *testing.T) {
	var logs bytes.Buffer
	recorder := &recordingRecorder{}
	q := NewQueue(zerolog.New(&logs), recorder)

	q.Submit("ok", func(context.Context) error { return nil })
	q.Submit("broken", func(context.Context) error { return errors.New("disk full") })
	q.Submit("panics", func(context.Context) error { panic("boom") })
	closeQueue(t, q)

	got := recorder.snapshot()
	require.Len(t, got, 3)
	assert.True(t, got[0].Succeeded)
	assert.False(t, got[1].Succeeded)
	assert.Equal(t, "disk full", got[1].Error)
	assert.False(t, got[2].Succeeded)
	assert.Contains(t, got[2].Error, "boom")

	assert.Contains(t, logs.String(), `"task":"broken"`)
	assert.Contains(t, logs.String(), "task failed")
}

func TestQueueDropsAfterClose(t *testing.T) {
	q := NewQueue(zerolog.Nop(), nil)
	closeQueue(t, q)

	ran := false
	id := q.Submit("late", func(context.Context) error {
		ran = true
		return nil
	})

	assert.Empty(t, id)
	assert.False(t, ran)
	require.NoError(t, q.Close(context.Background()))
}

func TestQueueCloseHonorsContext(t *testing.T) {
	q := NewQueue(zerolog.Nop(), nil)
	release := make(chan struct{})
	q.Submit("slow", func(context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := q.Close(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	closeQueue(t, q)
}
