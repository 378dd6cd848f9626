package repository

import (
	"context"
	"sync"
	"time"

	"github.com/vrodas/ropero/internal/domain/model"
	"github.com/vrodas/ropero/internal/domain/types"
	"github.com/vrodas/ropero/pkg/metrics"
)

// ClosetStore is an in-memory Store implementation. Garments keep insertion
// order so tie scores rank deterministically; the versatility ranking is a
// snapshot swapped in wholesale by the workers.
type ClosetStore struct {
	mu sync.RWMutex

	garments map[string]model.Garment
	order    []string // garment ids, insertion order; may hold stale ids after Remove
	version  uint64

	ranking       []types.Entry
	rankIndex     map[string]int // garment id -> index into ranking
	rankedVersion uint64

	capsules map[string]model.CapsuleWardrobe

	compactionSlack int
}

// NewClosetStore creates an empty closet store.
func NewClosetStore(ctx context.Context, opts ...Option) *ClosetStore {
	s := &ClosetStore{
		garments:        make(map[string]model.Garment),
		rankIndex:       make(map[string]int),
		capsules:        make(map[string]model.CapsuleWardrobe),
		compactionSlack: defaultCompactionSlack,
	}

	for _, opt := range opts {
		opt(s)
	}

	metrics.UpdateClosetSize(0)
	metrics.UpdateCapsuleCount(0)
	return s
}

// Upsert adds or replaces a garment and returns the new closet version.
func (s *ClosetStore) Upsert(ctx context.Context, g model.Garment) (uint64, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.garments[g.ID]; !exists {
		s.order = append(s.order, g.ID)
	}
	s.garments[g.ID] = g
	s.version++

	metrics.UpdateClosetSize(len(s.garments))
	return s.version, nil
}

// Remove deletes a garment by id and returns the new closet version.
func (s *ClosetStore) Remove(ctx context.Context, garmentID string) (uint64, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.garments[garmentID]; !exists {
		return s.version, ErrNotFound
	}
	delete(s.garments, garmentID)
	s.version++

	if len(s.order) > len(s.garments)*2+s.compactionSlack {
		s.compactOrder()
	}

	metrics.UpdateClosetSize(len(s.garments))
	return s.version, nil
}

// compactOrder drops stale ids left behind by removals.
// Must be called with s.mu held.
func (s *ClosetStore) compactOrder() {
	live := make([]string, 0, len(s.garments))
	for _, id := range s.order {
		if _, ok := s.garments[id]; ok {
			live = append(live, id)
		}
	}
	s.order = live
}

// Snapshot returns a copy of the garments in insertion order.
func (s *ClosetStore) Snapshot(ctx context.Context) []model.Garment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]model.Garment, 0, len(s.garments))
	for _, id := range s.order {
		if g, live := s.garments[id]; live {
			snapshot = append(snapshot, g)
		}
	}
	return snapshot
}

// Version returns the current closet version.
func (s *ClosetStore) Version(ctx context.Context) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// ReplaceRanking installs a ranking computed against the given version.
// A ranking built from a snapshot older than the current version is dropped;
// the worker that applied the newer mutation owns the next rebuild.
func (s *ClosetStore) ReplaceRanking(ctx context.Context, entries []types.Entry, version uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if version != s.version {
		metrics.RecordRankingDiscarded()
		return false
	}

	s.ranking = entries
	s.rankIndex = make(map[string]int, len(entries))
	for i, e := range entries {
		s.rankIndex[e.GarmentID] = i
	}
	s.rankedVersion = version

	metrics.RecordRankingRebuild()
	return true
}

// Rank returns the ranking entry for a garment.
func (s *ClosetStore) Rank(ctx context.Context, garmentID string) (types.Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.rankIndex[garmentID]
	if !ok {
		return types.Entry{}, ErrNotFound
	}
	return s.ranking[idx], nil
}

// TopN returns the top-N ranking entries ordered by score desc.
func (s *ClosetStore) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > len(s.ranking) {
		n = len(s.ranking)
	}
	top := make([]types.Entry, n)
	copy(top, s.ranking[:n])
	return top, nil
}

// Count returns the number of garments in the closet.
func (s *ClosetStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.garments)
}

// SaveCapsule stores a capsule wardrobe, replacing any previous one with the
// same id. The matrix slice is copied so later caller mutations cannot leak in.
func (s *ClosetStore) SaveCapsule(ctx context.Context, c model.CapsuleWardrobe) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := model.CapsuleWardrobe{
		ID:      c.ID,
		ItemIDs: append([]string(nil), c.ItemIDs...),
		Matrix:  append([]model.CompatibilityPair(nil), c.Matrix...),
	}
	s.capsules[c.ID] = stored

	metrics.UpdateCapsuleCount(len(s.capsules))
	return nil
}

// Capsule returns a stored capsule wardrobe by id.
func (s *ClosetStore) Capsule(ctx context.Context, capsuleID string) (model.CapsuleWardrobe, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.capsules[capsuleID]
	if !ok {
		return model.CapsuleWardrobe{}, ErrNotFound
	}
	return c, nil
}

// CapsuleCount returns the number of stored capsules.
func (s *ClosetStore) CapsuleCount(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.capsules)
}

// Close releases nothing today but keeps the store compatible with the
// service shutdown path.
func (s *ClosetStore) Close() error {
	return nil
}
