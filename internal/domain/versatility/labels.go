package versatility

// Label threshold constants.
const (
	veryVersatileMin = 80
	versatileMin     = 60
	moderateMin      = 40
)

// Label maps a versatility score to its display tier.
func Label(score int) string {
	switch {
	case score >= veryVersatileMin:
		return "very versatile"
	case score >= versatileMin:
		return "versatile"
	case score >= moderateMin:
		return "moderate"
	default:
		return "limited"
	}
}

// BadgeColor maps a versatility score to its badge color.
func BadgeColor(score int) string {
	switch {
	case score >= veryVersatileMin:
		return "green"
	case score >= versatileMin:
		return "blue"
	case score >= moderateMin:
		return "yellow"
	default:
		return "gray"
	}
}
