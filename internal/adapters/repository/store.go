// Package repository defines the closet store interface and errors.
package repository

import (
	"context"

	"github.com/vrodas/ropero/internal/domain/model"
	"github.com/vrodas/ropero/internal/domain/types"
)

// Store provides read/write access to the closet, its cached versatility
// ranking, and stored capsule wardrobes.
//
// The scoring engine itself is cache-free; this store is where memoization
// lives. Every mutation bumps a closet version, and a freshly computed
// ranking is only accepted while its version still matches, so a stale
// rebuild can never overwrite the result of a newer mutation.
type Store interface {
	// Upsert adds or replaces a garment and returns the new closet version.
	Upsert(ctx context.Context, g model.Garment) (uint64, error)

	// Remove deletes a garment by id and returns the new closet version.
	// Removing an unknown id returns ErrNotFound.
	Remove(ctx context.Context, garmentID string) (uint64, error)

	// Snapshot returns the garments in insertion order. The returned slice
	// is a copy; callers may not observe later mutations through it.
	Snapshot(ctx context.Context) []model.Garment

	// Version returns the current closet version.
	Version(ctx context.Context) uint64

	// ReplaceRanking installs a ranking computed against the given version.
	// Returns false when the closet has moved on and the ranking was dropped.
	ReplaceRanking(ctx context.Context, entries []types.Entry, version uint64) bool

	// Rank returns the ranking entry for a garment.
	// Returns ErrNotFound if the garment is unknown or not yet ranked.
	Rank(ctx context.Context, garmentID string) (types.Entry, error)

	// TopN returns the top-N ranking entries ordered by score desc.
	TopN(ctx context.Context, n int) ([]types.Entry, error)

	// Count returns the number of garments in the closet.
	Count(ctx context.Context) int

	// SaveCapsule stores a capsule wardrobe, replacing any previous one
	// with the same id.
	SaveCapsule(ctx context.Context, c model.CapsuleWardrobe) error

	// Capsule returns a stored capsule wardrobe by id.
	// Returns ErrNotFound for unknown ids.
	Capsule(ctx context.Context, capsuleID string) (model.CapsuleWardrobe, error)

	// CapsuleCount returns the number of stored capsules.
	CapsuleCount(ctx context.Context) int
}
