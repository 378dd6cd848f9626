// Package types contains common types used across the application
package types

// Entry represents a versatility ranking entry
type Entry struct {
	Rank      int    `json:"rank"`
	GarmentID string `json:"garment_id"`
	Score     int    `json:"score"`
	Label     string `json:"label"`
	Badge     string `json:"badge"`
}
