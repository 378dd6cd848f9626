package compat

// Label threshold constants.
const (
	perfectMin    = 90
	veryGoodMin   = 80
	goodMin       = 70
	acceptableMin = 60
)

// LabelUnknown is returned when no compatibility data exists for a pair.
const LabelUnknown = "N/A"

// Label maps a compatibility score to its display tier. When ok is false
// (no data for the pair) the score is ignored and LabelUnknown is returned.
func Label(score int, ok bool) string {
	if !ok {
		return LabelUnknown
	}
	switch {
	case score >= perfectMin:
		return "perfect"
	case score >= veryGoodMin:
		return "very good"
	case score >= goodMin:
		return "good"
	case score >= acceptableMin:
		return "acceptable"
	default:
		return "not recommended"
	}
}
