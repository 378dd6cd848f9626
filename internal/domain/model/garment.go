// Package model contains domain models passed between layers.
package model

import "time"

// Category classifies a garment. The six values below are the only ones the
// scoring engine knows about; anything else contributes no combinations.
type Category string

// Known garment categories.
const (
	CategoryTop       Category = "top"
	CategoryBottom    Category = "bottom"
	CategoryShoes     Category = "shoes"
	CategoryAccessory Category = "accessory"
	CategoryOuterwear Category = "outerwear"
	CategoryOnePiece  Category = "one-piece"
)

// Garment is a single clothing item in a closet. Garments are immutable
// inputs throughout the service: nothing downstream mutates one, and the
// scoring engine only ever reads them.
//
// ColorPrimary, VibeTags and Seasons are free text and may mix Spanish and
// English descriptors ("negro", "minimalista", "Todo el año"); the scoring
// vocabularies account for both languages.
type Garment struct {
	ID           string
	Category     Category
	ColorPrimary string
	VibeTags     []string
	Seasons      []string
}

// CompatibilityPair is a scored assessment of how well two garments combine,
// produced by the external capsule generator. Pairs are symmetric: (A,B) and
// (B,A) describe the same relation and only one of them appears in a matrix.
type CompatibilityPair struct {
	Item1ID   string `json:"item1_id"`
	Item2ID   string `json:"item2_id"`
	Score     int    `json:"score"`
	Reasoning string `json:"reasoning"`
}

// CapsuleWardrobe is a curated subset of a closet annotated with a pairwise
// compatibility matrix. The service stores capsules as read-only views.
type CapsuleWardrobe struct {
	ID      string
	ItemIDs []string
	Matrix  []CompatibilityPair
}

// EventKind distinguishes closet mutation events.
type EventKind string

// Closet event kinds.
const (
	EventAdd    EventKind = "add"
	EventRemove EventKind = "remove"
)

// ClosetEvent represents a closet mutation submitted by clients.
// Fields mirror the JSON schema for /garments.
type ClosetEvent struct {
	EventID string    // unique id for idempotency
	Kind    EventKind // add or remove
	Garment Garment   // full garment for add, only ID meaningful for remove
	TS      time.Time // submission timestamp
}
