package democloset

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/vrodas/ropero/pkg/logger"
)

// RetrieveRanks fetches the per-garment rank for every submitted garment
// concurrently. Garments that are not yet ranked are skipped.
func RetrieveRanks(ctx context.Context, client *HTTPClient, cfg *Config, subs []GarmentSubmission, stats *Stats) map[string]Entry {
	log := logger.Get().Named("ranks")

	var mu sync.Mutex
	ranks := make(map[string]Entry, len(subs))

	jobs := make(chan string, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				entry, err := getRank(ctx, client, cfg.BaseURL, id)
				if err != nil {
					log.Debug(ctx, "rank not available",
						logger.String("garment_id", id),
						logger.Error(err))
					continue
				}
				mu.Lock()
				ranks[id] = *entry
				mu.Unlock()
			}
		}()
	}

	for _, sub := range subs {
		select {
		case jobs <- sub.GarmentID:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ranks
		}
	}
	close(jobs)
	wg.Wait()

	stats.RanksRetrieved = len(ranks)
	log.Info(ctx, "rank retrieval complete",
		logger.Int("retrieved", len(ranks)),
		logger.Int("requested", len(subs)))
	return ranks
}

func getRank(ctx context.Context, client *HTTPClient, baseURL, garmentID string) (*Entry, error) {
	status, body, err := client.Get(ctx, fmt.Sprintf("%s/versatility/%s", baseURL, garmentID))
	if err != nil {
		return nil, err
	}
	if status != StatusOK {
		return nil, fmt.Errorf("unexpected status %d", status)
	}

	var entry Entry
	if err := json.Unmarshal(body, &entry); err != nil {
		return nil, fmt.Errorf("decode entry: %w", err)
	}
	return &entry, nil
}

// GetRanking fetches the top-N versatility ranking.
func GetRanking(ctx context.Context, client *HTTPClient, cfg *Config, stats *Stats) ([]Entry, error) {
	status, body, err := client.Get(ctx, fmt.Sprintf("%s/versatility?limit=%d", cfg.BaseURL, cfg.TopN))
	if err != nil {
		return nil, err
	}
	if status != StatusOK {
		return nil, fmt.Errorf("ranking: unexpected status %d: %s", status, string(body))
	}

	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decode ranking: %w", err)
	}

	stats.RankingEntries = len(entries)
	return entries, nil
}
