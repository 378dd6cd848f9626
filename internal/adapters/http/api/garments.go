// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vrodas/ropero/internal/domain/dedupe"
	"github.com/vrodas/ropero/internal/domain/model"
)

// GarmentDependencies defines the interface for closet mutation dependencies.
type GarmentDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, e model.ClosetEvent) bool
}

// GarmentsHandler handles closet mutation requests.
type GarmentsHandler struct {
	deps GarmentDependencies
}

// NewGarmentsHandler creates a new garments handler.
func NewGarmentsHandler(deps GarmentDependencies) *GarmentsHandler {
	return &GarmentsHandler{deps: deps}
}

// HandlePostGarment handles POST /garments requests.
func (h *GarmentsHandler) HandlePostGarment(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_garment"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req garmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), req.EventID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	// Try to enqueue for async processing
	if ok := h.deps.Enqueue(r.Context(), req.toEvent()); !ok {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), req.EventID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}

// HandleDeleteGarment handles DELETE /garments/{garment_id} requests.
// Removals flow through the same event queue as additions so the ranking
// rebuild ordering matches the mutation ordering.
func (h *GarmentsHandler) HandleDeleteGarment(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_garment"
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	garmentID := strings.TrimPrefix(r.URL.Path, "/garments/")
	if garmentID == "" || strings.Contains(garmentID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	event := model.ClosetEvent{
		EventID: uuid.NewString(),
		Kind:    model.EventRemove,
		Garment: model.Garment{ID: garmentID},
		TS:      time.Now().UTC(),
	}
	if ok := h.deps.Enqueue(r.Context(), event); !ok {
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
