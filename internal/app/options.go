package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/sectorscore/internal/adapters/repository"
	"github.com/okian/sectorscore/pkg/logger"
)

// DuplicatePolicy decides what happens to a competitor with more than one
// countable record for the same slot.
type DuplicatePolicy string

// Duplicate policies.
const (
	// PolicyFirst keeps the first record in id order and reports the rest as warnings.
	PolicyFirst DuplicatePolicy = "first"
	// PolicyReject leaves the competitor unwritten and counts it as failed.
	PolicyReject DuplicatePolicy = "reject"
)

// ParseDuplicatePolicy maps a config string to a policy. Empty means PolicyFirst.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyFirst:
		return PolicyFirst, nil
	case PolicyReject:
		return PolicyReject, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the document store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCollections overrides the collection names.
func WithCollections(c repository.Collections) Option {
	return func(s *Service) {
		if c.Competitors != "" {
			s.collections.Competitors = c.Competitors
		}
		if c.HourlyEntries != "" {
			s.collections.HourlyEntries = c.HourlyEntries
		}
		if c.BigCatches != "" {
			s.collections.BigCatches = c.BigCatches
		}
	}
}

// WithWriteConcurrency bounds the number of concurrent write-backs per run.
func WithWriteConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.writeConcurrency = n
		}
	}
}

// WithDuplicatePolicy sets the duplicate policy.
func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(s *Service) {
		if p != "" {
			s.duplicatePolicy = p
		}
	}
}

// WithQueueSize sets the capacity of the trigger queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithWorkerCount sets the number of recompute workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithRecomputeInterval enqueues a scheduled trigger every d. Zero disables it.
func WithRecomputeInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.recomputeInterval = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
