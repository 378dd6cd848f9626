// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/vrodas/ropero/internal/domain/compat"
	"github.com/vrodas/ropero/internal/domain/model"
)

// CapsuleDependencies defines the interface for capsule wardrobe storage.
type CapsuleDependencies interface {
	SaveCapsule(ctx context.Context, c model.CapsuleWardrobe) error
	Capsule(ctx context.Context, capsuleID string) (model.CapsuleWardrobe, error)
}

// CapsulesHandler handles capsule wardrobe requests.
type CapsulesHandler struct {
	deps          CapsuleDependencies
	highThreshold int
	topPairsLimit int
}

// NewCapsulesHandler creates a new capsules handler.
func NewCapsulesHandler(deps CapsuleDependencies, highThreshold, topPairsLimit int) *CapsulesHandler {
	return &CapsulesHandler{
		deps:          deps,
		highThreshold: highThreshold,
		topPairsLimit: topPairsLimit,
	}
}

// capsuleRequest mirrors the JSON schema for POST /capsules.
type capsuleRequest struct {
	CapsuleID string        `json:"capsule_id"`
	ItemIDs   []string      `json:"item_ids"`
	Matrix    []pairPayload `json:"matrix"`
}

type pairPayload struct {
	Item1ID   string `json:"item1_id"`
	Item2ID   string `json:"item2_id"`
	Score     int    `json:"score"`
	Reasoning string `json:"reasoning"`
}

func (c capsuleRequest) validate() error {
	if strings.TrimSpace(c.CapsuleID) == "" {
		return errors.New("missing capsule_id")
	}
	if len(c.ItemIDs) < 2 {
		return errors.New("capsule needs at least two item_ids")
	}
	for i, p := range c.Matrix {
		switch {
		case strings.TrimSpace(p.Item1ID) == "" || strings.TrimSpace(p.Item2ID) == "":
			return fmt.Errorf("matrix[%d]: missing item id", i)
		case p.Item1ID == p.Item2ID:
			return fmt.Errorf("matrix[%d]: pair references a single item", i)
		case p.Score < 0 || p.Score > 100:
			return fmt.Errorf("matrix[%d]: score must be within [0,100]", i)
		}
	}
	return nil
}

func (c capsuleRequest) toModel() model.CapsuleWardrobe {
	matrix := make([]model.CompatibilityPair, len(c.Matrix))
	for i, p := range c.Matrix {
		matrix[i] = model.CompatibilityPair{
			Item1ID:   p.Item1ID,
			Item2ID:   p.Item2ID,
			Score:     p.Score,
			Reasoning: p.Reasoning,
		}
	}
	return model.CapsuleWardrobe{
		ID:      c.CapsuleID,
		ItemIDs: c.ItemIDs,
		Matrix:  matrix,
	}
}

// pairScoreResponse is the read shape for pair lookups. Score is null when
// the matrix carries no data for the pair.
type pairScoreResponse struct {
	Item1ID   string `json:"item1_id"`
	Item2ID   string `json:"item2_id"`
	Score     *int   `json:"score"`
	Label     string `json:"label"`
	Reasoning string `json:"reasoning,omitempty"`
}

type capsuleSummaryResponse struct {
	CapsuleID    string                    `json:"capsule_id"`
	ItemCount    int                       `json:"item_count"`
	PairCount    int                       `json:"pair_count"`
	AverageScore int                       `json:"average_score"`
	HighPairs    int                       `json:"high_pairs"`
	Threshold    int                       `json:"threshold"`
	TopPairs     []model.CompatibilityPair `json:"top_pairs"`
}

// HandlePostCapsule handles POST /capsules requests.
func (h *CapsulesHandler) HandlePostCapsule(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_capsule"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req capsuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.SaveCapsule(r.Context(), req.toModel()); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, ackResponse{Status: "stored", Duplicate: false})
}

// HandleGetCapsule dispatches GET /capsules/{capsule_id}/{action} requests
// to the score, pairs and summary views.
func (h *CapsulesHandler) HandleGetCapsule(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_capsule"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/capsules/")
	capsuleID, action, ok := strings.Cut(path, "/")
	if !ok || capsuleID == "" || strings.Contains(action, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	capsule, err := h.deps.Capsule(r.Context(), capsuleID)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	switch action {
	case "score":
		h.handleScore(w, r, capsule)
	case "pairs":
		h.handlePairs(w, r, capsule)
	case "summary":
		h.handleSummary(w, capsule)
	default:
		http.NotFound(w, r)
	}
}

// handleScore answers GET /capsules/{id}/score?item1=X&item2=Y.
func (h *CapsulesHandler) handleScore(w http.ResponseWriter, r *http.Request, capsule model.CapsuleWardrobe) {
	const op = "api.get_capsule_score"
	item1 := r.URL.Query().Get("item1")
	item2 := r.URL.Query().Get("item2")
	if item1 == "" || item2 == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	resp := pairScoreResponse{Item1ID: item1, Item2ID: item2}
	score, ok := compat.Score(item1, item2, capsule.Matrix)
	resp.Label = compat.Label(score, ok)
	if ok {
		resp.Score = &score
		if pair, found := compat.Pair(item1, item2, capsule.Matrix); found {
			resp.Reasoning = pair.Reasoning
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handlePairs answers GET /capsules/{id}/pairs?threshold=N&limit=M.
// Both query parameters are optional and fall back to the configured
// defaults.
func (h *CapsulesHandler) handlePairs(w http.ResponseWriter, r *http.Request, capsule model.CapsuleWardrobe) {
	const op = "api.get_capsule_pairs"
	threshold := h.highThreshold
	limit := h.topPairsLimit

	if raw := r.URL.Query().Get("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 100 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		threshold = n
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}

	pairs := compat.TopPairs(capsule.Matrix, threshold, limit)
	writeJSON(w, http.StatusOK, pairs)
}

// handleSummary answers GET /capsules/{id}/summary.
func (h *CapsulesHandler) handleSummary(w http.ResponseWriter, capsule model.CapsuleWardrobe) {
	matrix := compat.Matrix(capsule.Matrix)
	writeJSON(w, http.StatusOK, capsuleSummaryResponse{
		CapsuleID:    capsule.ID,
		ItemCount:    len(capsule.ItemIDs),
		PairCount:    len(matrix),
		AverageScore: compat.Average(matrix),
		HighPairs:    compat.CountHigh(matrix, h.highThreshold),
		Threshold:    h.highThreshold,
		TopPairs:     compat.TopPairs(matrix, h.highThreshold, h.topPairsLimit),
	})
}
