// Package service runs the tournament scoring workflows against a document
// store: full recomputation, the big-catch field migration, live standings,
// and queued recomputation triggers.
package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/sectorscore/internal/adapters/mq/queue"
	"github.com/okian/sectorscore/internal/adapters/mq/worker"
	"github.com/okian/sectorscore/internal/adapters/repository"
	"github.com/okian/sectorscore/pkg/logger"
)

// Default service configuration constants.
const (
	defaultWriteConcurrency = 16
	defaultQueueSize        = 16
	defaultWorkerCount      = 1
	stopTimeout             = 30 * time.Second
)

// Service owns the scoring workflows.
type Service struct {
	mu sync.RWMutex

	store       repository.Store
	collections repository.Collections

	writeConcurrency  int
	duplicatePolicy   DuplicatePolicy
	queueSize         int
	workerCount       int
	recomputeInterval time.Duration
	now               func() time.Time

	triggers *queue.InMemoryQueue
	pool     *worker.Pool
	cancel   context.CancelFunc // workers
	unsched  context.CancelFunc // scheduler
	ticker   sync.WaitGroup

	lastMu sync.RWMutex
	last   *Summary
	runs   atomic.Int64

	started bool
	logger  logger.Logger
}

// New constructs a Service. Without WithStore it runs on an empty MemoryStore.
func New(opts ...Option) *Service {
	s := &Service{
		collections:      repository.DefaultCollections(),
		writeConcurrency: defaultWriteConcurrency,
		duplicatePolicy:  PolicyFirst,
		queueSize:        defaultQueueSize,
		workerCount:      defaultWorkerCount,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore(repository.WithLogger(s.logger))
	}
	return s
}

// Store returns the store the service reads and writes.
func (s *Service) Store() repository.Store {
	return s.store
}

// Start launches the recompute workers and, when configured, the scheduler.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.triggers = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.triggers, s)
	s.pool.Start(runCtx)

	schedCtx, unsched := context.WithCancel(runCtx)
	s.unsched = unsched
	if s.recomputeInterval > 0 {
		s.ticker.Add(1)
		go s.schedule(schedCtx, s.recomputeInterval)
	}

	s.started = true
	s.logger.Info(ctx, "scoring service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Duration("recompute_interval", s.recomputeInterval),
		logger.String("duplicate_policy", string(s.duplicatePolicy)),
	)
	return nil
}

func (s *Service) schedule(ctx context.Context, every time.Duration) {
	defer s.ticker.Done()

	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := s.RequestRecompute(ctx, "scheduled"); err != nil {
				s.logger.Warn(ctx, "scheduled recompute not queued", logger.Error(err))
			}
		}
	}
}

// Stop stops the scheduler, then drains the workers.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	pool, cancel, unsched := s.pool, s.cancel, s.unsched
	s.started = false
	s.mu.Unlock()

	ctx, done := context.WithTimeout(context.Background(), stopTimeout)
	defer done()

	s.logger.Info(ctx, "stopping scoring service...")
	unsched()
	s.ticker.Wait()
	if err := pool.Shutdown(ctx); err != nil {
		s.logger.Error(ctx, "worker pool shutdown failed", logger.Error(err))
	}
	cancel()
	s.logger.Info(ctx, "scoring service stopped")
}

// RequestRecompute queues a recomputation. It never blocks: a full queue
// returns queue.ErrFull.
func (s *Service) RequestRecompute(ctx context.Context, reason string) (queue.Trigger, error) {
	s.mu.RLock()
	q, started := s.triggers, s.started
	s.mu.RUnlock()

	if !started {
		return queue.Trigger{}, ErrNotStarted
	}

	t := queue.NewTrigger(reason)
	if !q.Enqueue(ctx, t) {
		if q.IsClosed() {
			return queue.Trigger{}, queue.ErrClosed
		}
		return queue.Trigger{}, queue.ErrFull
	}
	s.logger.Debug(ctx, "recompute queued", logger.String("trigger_id", t.ID), logger.String("reason", reason))
	return t, nil
}

// RunTrigger runs one queued recomputation.
func (s *Service) RunTrigger(ctx context.Context, t queue.Trigger) error {
	sum := s.Recompute(ctx)
	if !sum.Success {
		return fmt.Errorf("trigger %s (%s): %w: %d errors", t.ID, t.Reason, ErrRunIncomplete, sum.Failed)
	}
	return nil
}

// LastSummary returns the most recent completed recomputation.
func (s *Service) LastSummary() (Summary, bool) {
	s.lastMu.RLock()
	defer s.lastMu.RUnlock()
	if s.last == nil {
		return Summary{}, false
	}
	return *s.last, true
}

func (s *Service) recordSummary(sum Summary) {
	s.runs.Add(1)
	s.lastMu.Lock()
	s.last = &sum
	s.lastMu.Unlock()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":          s.started,
		"workerCount":      s.workerCount,
		"queueSize":        s.queueSize,
		"writeConcurrency": s.writeConcurrency,
		"duplicatePolicy":  string(s.duplicatePolicy),
		"runs":             s.runs.Load(),
	}
	if s.recomputeInterval > 0 {
		stats["recomputeInterval"] = s.recomputeInterval.String()
	}

	if s.started {
		stats["queueLength"] = s.triggers.Len(ctx)
		stats["queueCapacity"] = s.triggers.Capacity()
		stats["triggersServed"] = s.pool.Served()
	}

	if last, ok := s.LastSummary(); ok {
		stats["lastRunID"] = last.RunID
		stats["lastRunAt"] = last.StartedAt
		stats["lastRunSuccess"] = last.Success
	}
	return stats
}
