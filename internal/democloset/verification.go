package democloset

import (
	"context"

	"github.com/vrodas/ropero/internal/domain/model"
	"github.com/vrodas/ropero/internal/domain/versatility"
	"github.com/vrodas/ropero/pkg/logger"
)

// VerifyResults checks the service output against a local recomputation
// of every versatility score and against the ranking's own invariants.
// It returns true when all checks pass.
func VerifyResults(ctx context.Context, garments []model.Garment, ranks map[string]Entry, ranking []Entry) bool {
	log := logger.Get().Named("verify")
	ok := true

	scorer := versatility.New()
	expected := make(map[string]int, len(garments))
	for _, g := range garments {
		expected[g.ID] = scorer.Score(g, garments)
	}

	mismatches := 0
	for id, entry := range ranks {
		want, known := expected[id]
		if !known {
			log.Warn(ctx, "ranked garment was never generated", logger.String("garment_id", id))
			ok = false
			continue
		}
		if entry.Score != want {
			mismatches++
			log.Warn(ctx, "score mismatch",
				logger.String("garment_id", id),
				logger.Int("service_score", entry.Score),
				logger.Int("expected_score", want))
		}
		if entry.Label != versatility.Label(entry.Score) {
			mismatches++
			log.Warn(ctx, "label mismatch",
				logger.String("garment_id", id),
				logger.String("label", entry.Label))
		}
	}
	if mismatches > 0 {
		log.Error(ctx, "verification found mismatches", logger.Int("mismatches", mismatches))
		ok = false
	}

	if !verifyRankingOrder(ctx, ranking) {
		ok = false
	}
	if !verifyRankingConsistency(ctx, expected, ranking) {
		ok = false
	}

	if ok {
		log.Info(ctx, "verification passed",
			logger.Int("garments_checked", len(ranks)),
			logger.Int("ranking_entries", len(ranking)))
	}
	return ok
}

// verifyRankingOrder checks ranks are 1..n and scores never increase.
func verifyRankingOrder(ctx context.Context, ranking []Entry) bool {
	log := logger.Get().Named("verify")
	for i, entry := range ranking {
		if entry.Rank != i+1 {
			log.Error(ctx, "ranking positions are not contiguous",
				logger.Int("index", i),
				logger.Int("rank", entry.Rank))
			return false
		}
		if i > 0 && entry.Score > ranking[i-1].Score {
			log.Error(ctx, "ranking is not sorted by score",
				logger.Int("index", i),
				logger.Int("score", entry.Score),
				logger.Int("previous_score", ranking[i-1].Score))
			return false
		}
	}
	return true
}

// verifyRankingConsistency checks the top of the service ranking against
// the locally computed best score.
func verifyRankingConsistency(ctx context.Context, expected map[string]int, ranking []Entry) bool {
	log := logger.Get().Named("verify")
	if len(ranking) == 0 || len(expected) == 0 {
		return true
	}

	best := 0
	for _, score := range expected {
		if score > best {
			best = score
		}
	}
	if ranking[0].Score != best {
		log.Error(ctx, "top ranking score does not match local computation",
			logger.Int("service_top", ranking[0].Score),
			logger.Int("local_top", best))
		return false
	}
	return true
}

// DisplayTopGarments logs the leading ranking entries with their labels.
func DisplayTopGarments(ctx context.Context, ranking []Entry, garments []model.Garment) {
	log := logger.Get().Named("results")

	byID := make(map[string]model.Garment, len(garments))
	for _, g := range garments {
		byID[g.ID] = g
	}

	for _, entry := range ranking {
		g := byID[entry.GarmentID]
		log.Info(ctx, "top garment",
			logger.Int("rank", entry.Rank),
			logger.String("garment_id", entry.GarmentID),
			logger.String("category", string(g.Category)),
			logger.String("color", g.ColorPrimary),
			logger.Int("score", entry.Score),
			logger.String("label", entry.Label))
	}
}

// AverageScore computes the mean score across retrieved ranks.
func AverageScore(ranks map[string]Entry) float64 {
	if len(ranks) == 0 {
		return 0
	}
	total := 0
	for _, entry := range ranks {
		total += entry.Score
	}
	return float64(total) / float64(len(ranks))
}
