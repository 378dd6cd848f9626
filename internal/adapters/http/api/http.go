// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/vrodas/ropero/internal/adapters/repository"
	"github.com/vrodas/ropero/internal/domain/dedupe"
	"github.com/vrodas/ropero/internal/domain/model"
	"github.com/vrodas/ropero/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a closet event for async processing.
	// Returns false on backpressure.
	Enqueue(ctx context.Context, e model.ClosetEvent) bool

	// Read operations expose the versatility ranking.
	TopN(ctx context.Context, n int) ([]Entry, error)
	Rank(ctx context.Context, garmentID string) (Entry, error)

	// Capsule operations store and retrieve compatibility matrices.
	SaveCapsule(ctx context.Context, c model.CapsuleWardrobe) error
	Capsule(ctx context.Context, capsuleID string) (model.CapsuleWardrobe, error)
}

// Entry mirrors the read shape returned by ranking queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	garmentsHandler *GarmentsHandler
	rankingHandler  *RankingHandler
	capsulesHandler *CapsulesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	cfg := newServerConfig(opts...)
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		garmentsHandler: NewGarmentsHandler(deps),
		rankingHandler:  NewRankingHandler(deps, cfg.maxRankLimit),
		capsulesHandler: NewCapsulesHandler(deps, cfg.highThreshold, cfg.topPairsLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/garments", MetricsMiddleware(s.garmentsHandler.HandlePostGarment, "garments"))
	mux.HandleFunc("/garments/", MetricsMiddleware(s.garmentsHandler.HandleDeleteGarment, "garments"))
	mux.HandleFunc("/versatility", MetricsMiddleware(s.rankingHandler.HandleGetRanking, "versatility"))
	mux.HandleFunc("/versatility/", MetricsMiddleware(s.rankingHandler.HandleGetGarmentRank, "versatility"))
	mux.HandleFunc("/capsules", MetricsMiddleware(s.capsulesHandler.HandlePostCapsule, "capsules"))
	mux.HandleFunc("/capsules/", MetricsMiddleware(s.capsulesHandler.HandleGetCapsule, "capsules"))
}

// garmentRequest mirrors the JSON schema for POST /garments.
type garmentRequest struct {
	EventID      string   `json:"event_id"`
	GarmentID    string   `json:"garment_id"`
	Category     string   `json:"category"`
	ColorPrimary string   `json:"color_primary"`
	VibeTags     []string `json:"vibe_tags"`
	Seasons      []string `json:"seasons"`
	TS           string   `json:"ts"`
}

func (g garmentRequest) validate() error {
	switch {
	case strings.TrimSpace(g.EventID) == "":
		return errors.New("missing event_id")
	case strings.TrimSpace(g.GarmentID) == "":
		return errors.New("missing garment_id")
	case strings.TrimSpace(g.Category) == "":
		return errors.New("missing category")
	case strings.TrimSpace(g.TS) == "":
		return errors.New("missing ts")
	}
	if _, err := time.Parse(time.RFC3339, g.TS); err != nil {
		return errors.New("invalid ts; must be RFC3339")
	}
	return nil
}

// toEvent converts a validated request into a closet add event.
// The timestamp has already been checked by validate.
func (g garmentRequest) toEvent() model.ClosetEvent {
	ts, _ := time.Parse(time.RFC3339, g.TS)
	return model.ClosetEvent{
		EventID: g.EventID,
		Kind:    model.EventAdd,
		Garment: model.Garment{
			ID:           g.GarmentID,
			Category:     model.Category(g.Category),
			ColorPrimary: g.ColorPrimary,
			VibeTags:     g.VibeTags,
			Seasons:      g.Seasons,
		},
		TS: ts,
	}
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
