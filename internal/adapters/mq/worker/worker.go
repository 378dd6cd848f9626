// Package worker defines worker contracts for asynchronous closet mutation
// and ranking rebuilds.
//
// Workers take closet events off the queue, apply the mutation to the store,
// rescore the whole closet through the versatility engine, and swap the
// resulting ranking snapshot into the store. The store discards rankings
// built against a version that has since moved on, so concurrent workers
// never publish stale results.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/vrodas/ropero/internal/adapters/mq/queue"
	"github.com/vrodas/ropero/internal/adapters/repository"
	"github.com/vrodas/ropero/internal/domain/model"
	"github.com/vrodas/ropero/internal/domain/types"
	"github.com/vrodas/ropero/internal/domain/versatility"
	"github.com/vrodas/ropero/pkg/logger"
	"github.com/vrodas/ropero/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Event abstracts what workers read off the queue.
// Using the model.ClosetEvent type for consistency.
type Event = model.ClosetEvent

// Ranker scores a full closet, best first.
type Ranker interface {
	TopItems(closet []model.Garment, limit int) []versatility.Ranked
}

// Store is the slice of the repository the workers need.
type Store interface {
	Upsert(ctx context.Context, g model.Garment) (uint64, error)
	Remove(ctx context.Context, garmentID string) (uint64, error)
	Snapshot(ctx context.Context) []model.Garment
	ReplaceRanking(ctx context.Context, entries []types.Entry, version uint64) bool
}

// Queue defines how workers receive events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Worker processes closet events and publishes ranking snapshots.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing closet events.
type InMemoryWorker struct {
	queue  Queue
	ranker Ranker
	store  Store
	name   string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, ranker Ranker, store Store, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		ranker:   ranker,
		store:    store,
		name:     "worker", // default name
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	eventChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if err := w.processEvent(ctx, event); err != nil {
				w.logger.Error(ctx, "error processing closet event", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processEvent applies a single closet mutation and rebuilds the ranking.
func (w *InMemoryWorker) processEvent(ctx context.Context, event queue.Event) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	var (
		version uint64
		err     error
	)
	switch event.Kind {
	case model.EventAdd:
		version, err = w.store.Upsert(ctx, event.Garment)
	case model.EventRemove:
		version, err = w.store.Remove(ctx, event.Garment.ID)
		if errors.Is(err, repository.ErrNotFound) {
			// Already gone; nothing to rescore.
			w.logger.Debug(ctx, "remove for unknown garment",
				logger.String("eventID", event.EventID),
				logger.String("garmentID", event.Garment.ID),
			)
			return nil
		}
	default:
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "unknown_event_kind")
		return fmt.Errorf("unknown closet event kind %q", event.Kind)
	}
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		w.logger.Error(ctx, "closet mutation failed",
			logger.String("eventID", event.EventID),
			logger.Error(err),
		)
		return fmt.Errorf("closet mutation failed for event %s: %w", event.EventID, err)
	}

	w.rebuildRanking(ctx, version)
	metrics.RecordGarmentProcessed()
	return nil
}

// rebuildRanking rescores the closet and publishes the snapshot.
func (w *InMemoryWorker) rebuildRanking(ctx context.Context, version uint64) {
	rebuildStart := time.Now()

	closet := w.store.Snapshot(ctx)
	ranked := w.ranker.TopItems(closet, len(closet))

	entries := make([]types.Entry, len(ranked))
	for i, r := range ranked {
		entries[i] = types.Entry{
			Rank:      i + 1,
			GarmentID: r.Garment.ID,
			Score:     r.Score,
			Label:     versatility.Label(r.Score),
			Badge:     versatility.BadgeColor(r.Score),
		}
	}

	metrics.RecordRankingRebuildLatency(float64(time.Since(rebuildStart).Milliseconds()))

	if !w.store.ReplaceRanking(ctx, entries, version) {
		// A newer mutation owns the next rebuild.
		w.logger.Debug(ctx, "discarded stale ranking",
			logger.Uint64("version", version),
			logger.Int("entries", len(entries)),
		)
	}
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	ranker  Ranker
	store   Store

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, q Queue, ranker Ranker, store Store) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		ranker:  ranker,
		store:   store,
		logger:  logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			q,
			ranker,
			store,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerActiveCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), workerShutdownTimeout)
	defer cancel()

	for _, w := range p.workers {
		if err := w.Shutdown(ctx); err != nil {
			p.logger.Warn(ctx, "worker stop timed out", logger.Error(err))
		}
	}
}

// Shutdown gracefully shuts down the entire worker pool, closing the queue
// first so no new events arrive while workers drain.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
