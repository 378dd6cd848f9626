// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"

	eventqueue "github.com/vrodas/ropero/internal/adapters/mq/queue"
	workerpool "github.com/vrodas/ropero/internal/adapters/mq/worker"
	repository "github.com/vrodas/ropero/internal/adapters/repository"
	"github.com/vrodas/ropero/internal/domain/compat"
	"github.com/vrodas/ropero/internal/domain/dedupe"
	"github.com/vrodas/ropero/internal/domain/model"
	"github.com/vrodas/ropero/internal/domain/types"
	"github.com/vrodas/ropero/internal/domain/versatility"
	"github.com/vrodas/ropero/pkg/logger"
	"github.com/vrodas/ropero/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize  = 100_000
	defaultDedupeSize = 50_000
)

// Service implements the API dependencies for the wardrobe system.
type Service struct {
	mu sync.RWMutex

	// Core components
	closet     repository.Store
	deduper    dedupe.Deduper
	eventQueue eventqueue.Queue
	scorer     *versatility.Scorer
	workerPool *workerpool.Pool

	// Configuration
	workerCount         int
	queueSize           int
	dedupeSize          int
	maxRankLimit        int
	highCompatThreshold int
	topPairsLimit       int
	neutralColors       []string
	basicVibes          []string

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the event queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxRankLimit caps how many entries a ranking query may request.
func WithMaxRankLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxRankLimit = limit
		}
	}
}

// WithHighCompatThreshold sets the score bound for highly compatible pairs.
func WithHighCompatThreshold(threshold int) Option {
	return func(s *Service) {
		if threshold >= 0 && threshold <= 100 {
			s.highCompatThreshold = threshold
		}
	}
}

// WithTopPairsLimit sets the default limit for top-pair listings.
func WithTopPairsLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.topPairsLimit = limit
		}
	}
}

// WithNeutralColors overrides the neutral-color scoring vocabulary.
func WithNeutralColors(terms []string) Option {
	return func(s *Service) {
		s.neutralColors = terms
	}
}

// WithBasicVibes overrides the basic/classic vibe scoring vocabulary.
func WithBasicVibes(terms []string) Option {
	return func(s *Service) {
		s.basicVibes = terms
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:         runtime.NumCPU() * 2,
		queueSize:           defaultQueueSize,
		dedupeSize:          defaultDedupeSize,
		maxRankLimit:        100,
		highCompatThreshold: compat.DefaultHighThreshold,
		topPairsLimit:       compat.DefaultTopLimit,
		stopCh:              make(chan struct{}),
		logger:              nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting wardrobe service...")

	// Initialize components
	s.closet = repository.NewClosetStore(ctx)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.eventQueue = eventqueue.NewInMemoryQueue(
		eventqueue.WithCapacity(s.queueSize),
		eventqueue.WithBufferSize(s.queueSize),
	)

	scorerOpts := make([]versatility.Option, 0, 2)
	if len(s.neutralColors) > 0 {
		scorerOpts = append(scorerOpts, versatility.WithNeutralColors(s.neutralColors))
	}
	if len(s.basicVibes) > 0 {
		scorerOpts = append(scorerOpts, versatility.WithBasicVibes(s.basicVibes))
	}
	s.scorer = versatility.New(scorerOpts...)

	// Create and start the worker pool
	s.workerPool = workerpool.NewPool(s.workerCount, s.eventQueue, s.scorer, s.closet)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "wardrobe service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping wardrobe service...")

	// Stop worker pool
	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	// Close closet store
	if s.closet != nil {
		if closer, ok := s.closet.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}

	// Close queue
	if q, ok := s.eventQueue.(*eventqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	// Signal cleanup loop to stop
	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "wardrobe service stopped")
}

// SeenAndRecord atomically checks if an event id was seen and records it if not.
// Returns true if the event was already seen, false if it was newly recorded.
// This is the ONLY method for deduplication - thread-safe and atomic.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordGarmentDuplicate()
	}
	return seen
}

// Unrecord removes an event ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Enqueue submits a closet event for asynchronous processing.
// Returns false when the queue is saturated.
func (s *Service) Enqueue(ctx context.Context, e model.ClosetEvent) bool {
	s.logger.Debug(ctx, "enqueueing closet event",
		logger.String("eventID", e.EventID),
		logger.String("kind", string(e.Kind)),
		logger.String("garmentID", e.Garment.ID),
	)

	success := s.eventQueue.Enqueue(ctx, e)
	if success {
		metrics.UpdateQueueSize(s.eventQueue.Len(ctx))
	}
	return success
}

// TopN returns the top N versatility ranking entries.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	return s.closet.TopN(ctx, n)
}

// Rank returns the ranking entry for a given garment id.
func (s *Service) Rank(ctx context.Context, garmentID string) (types.Entry, error) {
	return s.closet.Rank(ctx, garmentID)
}

// SaveCapsule stores a capsule wardrobe with its compatibility matrix.
func (s *Service) SaveCapsule(ctx context.Context, c model.CapsuleWardrobe) error {
	return s.closet.SaveCapsule(ctx, c)
}

// Capsule retrieves a stored capsule wardrobe by id.
func (s *Service) Capsule(ctx context.Context, capsuleID string) (model.CapsuleWardrobe, error) {
	return s.closet.Capsule(ctx, capsuleID)
}

// MaxRankLimit returns the configured cap for ranking queries.
func (s *Service) MaxRankLimit() int { return s.maxRankLimit }

// HighCompatThreshold returns the configured high-compatibility bound.
func (s *Service) HighCompatThreshold() int { return s.highCompatThreshold }

// TopPairsLimit returns the configured default top-pair limit.
func (s *Service) TopPairsLimit() int { return s.topPairsLimit }

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.eventQueue.Len(ctx)
		closetSize := s.closet.Count(ctx)
		capsuleCount := s.closet.CapsuleCount(ctx)

		stats["queueLength"] = queueLen
		stats["closetSize"] = closetSize
		stats["capsuleCount"] = capsuleCount
		stats["closetVersion"] = s.closet.Version(ctx)

		// Update metrics
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateClosetSize(closetSize)
		metrics.UpdateCapsuleCount(capsuleCount)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
