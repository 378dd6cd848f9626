// Package compat provides read-only query, ranking and aggregation
// operations over a precomputed pairwise compatibility matrix. The matrix is
// produced upstream (an external capsule generator); this package never
// creates, mutates or stores pairs, it only answers questions about them.
//
// Lookups are symmetric: (A,B) and (B,A) name the same pair. A garment
// queried against itself is a perfect match by definition, decided here once
// so every caller gets the same answer.
package compat

import (
	"math"
	"sort"

	"github.com/vrodas/ropero/internal/domain/model"
)

// Self-match and threshold constants.
const (
	selfMatchScore = 100

	// DefaultHighThreshold is the score at or above which a pair counts as
	// highly compatible.
	DefaultHighThreshold = 80

	// DefaultTopLimit bounds top-pair listings when callers pass no limit.
	DefaultTopLimit = 5
)

// Matrix is an externally generated collection of compatibility pairs.
// A nil Matrix is a valid, empty one.
type Matrix []model.CompatibilityPair

// Score returns the compatibility score for the two garment ids.
// Identical ids always yield (100, true), even against an empty matrix.
// A miss yields (0, false): the caller must treat that as "no data", never
// as a zero score.
func Score(item1ID, item2ID string, m Matrix) (int, bool) {
	if item1ID == item2ID {
		return selfMatchScore, true
	}
	for _, p := range m {
		if matches(p, item1ID, item2ID) {
			return p.Score, true
		}
	}
	return 0, false
}

// Pair returns the full compatibility record for the two garment ids,
// including the reasoning. Self-pairs have no underlying record and always
// return false.
func Pair(item1ID, item2ID string, m Matrix) (model.CompatibilityPair, bool) {
	if item1ID == item2ID {
		return model.CompatibilityPair{}, false
	}
	for _, p := range m {
		if matches(p, item1ID, item2ID) {
			return p, true
		}
	}
	return model.CompatibilityPair{}, false
}

// Average returns the rounded arithmetic mean of all scores in the matrix,
// or 0 for an empty matrix.
func Average(m Matrix) int {
	if len(m) == 0 {
		return 0
	}
	sum := 0
	for _, p := range m {
		sum += p.Score
	}
	return int(math.Round(float64(sum) / float64(len(m))))
}

// CountHigh counts pairs whose score is at or above threshold.
func CountHigh(m Matrix, threshold int) int {
	count := 0
	for _, p := range m {
		if p.Score >= threshold {
			count++
		}
	}
	return count
}

// TopPairs returns up to limit pairs scoring at or above threshold, ordered
// by score descending. Ties keep matrix order. The input matrix is never
// reordered; results are a fresh slice.
func TopPairs(m Matrix, threshold, limit int) []model.CompatibilityPair {
	if limit < 0 {
		limit = 0
	}

	filtered := make([]model.CompatibilityPair, 0, len(m))
	for _, p := range m {
		if p.Score >= threshold {
			filtered = append(filtered, p)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Score > filtered[j].Score
	})

	if limit < len(filtered) {
		filtered = filtered[:limit]
	}
	return filtered
}

// matches reports whether p joins the two ids, in either orientation.
func matches(p model.CompatibilityPair, item1ID, item2ID string) bool {
	return (p.Item1ID == item1ID && p.Item2ID == item2ID) ||
		(p.Item1ID == item2ID && p.Item2ID == item1ID)
}
