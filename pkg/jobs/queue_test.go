package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesEnqueuedJob(t *testing.T) {
	done := make(chan Job, 1)
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		done <- job
		return nil
	}, QueueConfig{Workers: 1})

	q.Start(context.Background())
	defer q.Stop()

	err := q.Enqueue(Job{ID: "job-1", Type: "notification", Payload: "hello"})
	require.NoError(t, err)

	select {
	case job := <-done:
		assert.Equal(t, "job-1", job.ID)
		assert.Equal(t, "hello", job.Payload)
		assert.False(t, job.Enqueued.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("job was not processed")
	}
}

func TestQueueEnqueueBeforeStart(t *testing.T) {
	q := NewQueue("test", func(ctx context.Context, job Job) error { return nil }, QueueConfig{})

	err := q.Enqueue(Job{ID: "job-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not started")
}

func TestQueueRetriesFailedJob(t *testing.T) {
	var mu sync.Mutex
	attempts := make([]int, 0, 2)
	done := make(chan struct{})

	q := NewQueue("test", func(ctx context.Context, job Job) error {
		mu.Lock()
		attempts = append(attempts, job.Attempt)
		count := len(attempts)
		mu.Unlock()
		if count == 1 {
			return errors.New("transient failure")
		}
		close(done)
		return nil
	}, QueueConfig{Workers: 1, MaxRetries: 2, RetryDelay: 10 * time.Millisecond})

	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "job-1", Type: "notification"}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not retried")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, attempts, 2)
	assert.Equal(t, 0, attempts[0])
	assert.Equal(t, 1, attempts[1])
}

func TestQueueStopWaitsForWorkers(t *testing.T) {
	q := NewQueue("test", func(ctx context.Context, job Job) error { return nil }, QueueConfig{Workers: 3})

	q.Start(context.Background())
	q.Stop()

	err := q.Enqueue(Job{ID: "job-1"})
	require.Error(t, err)
}
