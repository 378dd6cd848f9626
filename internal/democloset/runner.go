package democloset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/vrodas/ropero/pkg/logger"
)

// Run executes a full demo cycle against a running service: health check,
// closet generation, submission, ranking retrieval, capsule demo and
// verification.
func Run(ctx context.Context, cfg *Config) error {
	log := logger.Get().Named("runner")
	client := NewHTTPClient(cfg.Timeout)

	stats := &Stats{StartTime: time.Now()}
	defer func() {
		stats.EndTime = time.Now()
		displayFinalStats(ctx, cfg, stats)
	}()

	// Step 1: make sure the service is up before generating anything.
	if err := checkServiceHealth(ctx, client, cfg); err != nil {
		return fmt.Errorf("service health check: %w", err)
	}

	// Step 2: generate the synthetic closet.
	subs, garments := GenerateGarments(ctx, cfg)
	stats.GarmentsGenerated = len(subs)

	// Step 3: submit it.
	SubmitGarments(ctx, client, cfg, subs, stats)

	// Step 4: give the ranking workers time to catch up.
	log.Info(ctx, "waiting for ranking rebuild", logger.Duration("wait", ProcessingWait))
	select {
	case <-time.After(ProcessingWait):
	case <-ctx.Done():
		return ctx.Err()
	}

	// Step 5: read back per-garment ranks and the top-N ranking.
	ranks := RetrieveRanks(ctx, client, cfg, subs, stats)
	ranking, err := GetRanking(ctx, client, cfg, stats)
	if err != nil {
		return fmt.Errorf("retrieve ranking: %w", err)
	}
	DisplayTopGarments(ctx, ranking, garments)

	// Step 6: optionally store a capsule and fetch its summary.
	if cfg.WithCapsule && len(garments) >= 2 {
		capsule := BuildCapsule(garments)
		summary, err := StoreCapsule(ctx, client, cfg, capsule)
		if err != nil {
			log.Warn(ctx, "capsule demo failed", logger.Error(err))
		} else {
			stats.CapsuleStored = true
			log.Info(ctx, "capsule stored",
				logger.String("capsule_id", summary.CapsuleID),
				logger.Int("items", summary.ItemCount),
				logger.Int("pairs", summary.PairCount),
				logger.Float64("average_score", summary.AverageScore),
				logger.Int("high_pairs", summary.HighPairs))
		}
	}

	// Step 7: verify everything the service returned.
	stats.VerificationPassed = VerifyResults(ctx, garments, ranks, ranking)

	// Step 8: persist the generated closet when requested.
	if cfg.OutputFile != "" {
		if err := saveGarmentsToFile(cfg.OutputFile, subs); err != nil {
			log.Warn(ctx, "saving garments failed", logger.Error(err))
		} else {
			log.Info(ctx, "garments saved", logger.String("file", cfg.OutputFile))
		}
	}

	if !stats.VerificationPassed {
		return fmt.Errorf("verification failed")
	}
	return nil
}

func checkServiceHealth(ctx context.Context, client *HTTPClient, cfg *Config) error {
	log := logger.Get().Named("runner")

	status, _, err := client.Get(ctx, cfg.BaseURL+"/healthz")
	if err != nil {
		return err
	}
	if status != StatusOK {
		return fmt.Errorf("unexpected status %d", status)
	}
	log.Info(ctx, "service is healthy", logger.String("url", cfg.BaseURL))
	return nil
}

func saveGarmentsToFile(path string, subs []GarmentSubmission) error {
	data, err := json.MarshalIndent(subs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal garments: %w", err)
	}
	if err := os.WriteFile(path, data, OutputFilePermissions); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func displayFinalStats(ctx context.Context, cfg *Config, stats *Stats) {
	log := logger.Get().Named("runner")

	successRate := 0.0
	if stats.GarmentsSubmitted > 0 {
		successRate = float64(stats.SubmitSuccessful) / float64(stats.GarmentsSubmitted) * PercentageMultiplier
	}

	log.Info(ctx, "demo run complete",
		logger.Int("garments_generated", stats.GarmentsGenerated),
		logger.Int("submitted", int(stats.GarmentsSubmitted)),
		logger.Int("successful", int(stats.SubmitSuccessful)),
		logger.Int("duplicate", int(stats.SubmitDuplicate)),
		logger.Int("failed", int(stats.SubmitFailed)),
		logger.Float64("success_rate_pct", successRate),
		logger.Int("ranks_retrieved", stats.RanksRetrieved),
		logger.Int("ranking_entries", stats.RankingEntries),
		logger.Any("capsule_stored", stats.CapsuleStored),
		logger.Any("verification_passed", stats.VerificationPassed),
		logger.Duration("duration", stats.Duration()))
}
