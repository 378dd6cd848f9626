package democloset

import (
	"time"

	"github.com/vrodas/ropero/internal/domain/model"
)

// Config holds the demo tool configuration.
type Config struct {
	BaseURL     string
	NumGarments int
	TopN        int
	Workers     int
	Timeout     time.Duration
	OutputFile  string
	LogFile     string
	Verbose     bool
	WithCapsule bool
}

// GarmentSubmission mirrors the POST /garments request body.
type GarmentSubmission struct {
	EventID      string   `json:"event_id"`
	GarmentID    string   `json:"garment_id"`
	Category     string   `json:"category"`
	ColorPrimary string   `json:"color_primary"`
	VibeTags     []string `json:"vibe_tags"`
	Seasons      []string `json:"seasons"`
	TS           string   `json:"ts"`
}

// AckResponse mirrors the ingest acknowledgement body.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Entry mirrors a ranking entry returned by the versatility endpoints.
type Entry struct {
	Rank      int    `json:"rank"`
	GarmentID string `json:"garment_id"`
	Score     int    `json:"score"`
	Label     string `json:"label"`
	Badge     string `json:"badge"`
}

// CapsuleSubmission mirrors the POST /capsules request body.
type CapsuleSubmission struct {
	CapsuleID string                    `json:"capsule_id"`
	ItemIDs   []string                  `json:"item_ids"`
	Matrix    []model.CompatibilityPair `json:"matrix"`
}

// CapsuleSummary mirrors GET /capsules/{id}/summary.
type CapsuleSummary struct {
	CapsuleID    string  `json:"capsule_id"`
	ItemCount    int     `json:"item_count"`
	PairCount    int     `json:"pair_count"`
	AverageScore float64 `json:"average_score"`
	HighPairs    int     `json:"high_pairs"`
	Threshold    int     `json:"threshold"`
}

// Stats tracks the outcome of a demo run.
type Stats struct {
	GarmentsGenerated  int
	GarmentsSubmitted  int64
	SubmitSuccessful   int64
	SubmitDuplicate    int64
	SubmitFailed       int64
	RanksRetrieved     int
	RankingEntries     int
	CapsuleStored      bool
	VerificationPassed bool
	StartTime          time.Time
	EndTime            time.Time
}

// Duration returns the total wall-clock time of the run.
func (s *Stats) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}
