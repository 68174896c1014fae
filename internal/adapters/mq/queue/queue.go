// Package queue carries recomputation triggers from producers (HTTP, CLI,
// scheduler) to the recompute workers.
//
// The queue is bounded and never blocks producers: a full queue rejects the
// trigger, which callers surface as backpressure.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/sectorscore/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 16
)

// Trigger asks for one recomputation run.
type Trigger struct {
	ID     string    `json:"id"`
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
}

// NewTrigger returns a trigger with a fresh id stamped now.
func NewTrigger(reason string) Trigger {
	return Trigger{ID: uuid.NewString(), Reason: reason, At: time.Now().UTC()}
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a trigger to the queue.
	// Returns false if the queue is full or closed.
	Enqueue(ctx context.Context, t Trigger) bool

	// Dequeue returns a channel that receives triggers as they become available.
	// The channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Trigger

	// Len returns the current number of queued triggers.
	Len(ctx context.Context) int

	// Close stops accepting triggers and closes the dequeue channel.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	triggers chan Trigger
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}

	q.triggers = make(chan Trigger, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue adds a trigger to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, t Trigger) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueRejected("closed")
		return false
	}

	select {
	case q.triggers <- t:
		metrics.UpdateQueueSize(len(q.triggers))
		return true
	case <-ctx.Done():
		metrics.RecordQueueRejected("context_cancelled")
		return false
	default:
		metrics.RecordQueueRejected("queue_full")
		return false
	}
}

// Dequeue returns a channel that will receive triggers as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Trigger {
	out := make(chan Trigger)

	go func() {
		defer close(out)
		for t := range q.triggers {
			select {
			case out <- t:
				metrics.UpdateQueueSize(len(q.triggers))
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

// Len returns the current number of queued triggers.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.triggers)
	metrics.UpdateQueueSize(size)
	return size
}

// Capacity returns the configured bound.
func (q *InMemoryQueue) Capacity() int {
	return q.capacity
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.triggers)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
