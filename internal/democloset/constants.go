package democloset

import "time"

// HTTP status codes used by the wardrobe API.
const (
	StatusOK       = 200
	StatusAccepted = 202
	StatusCreated  = 201
)

// Timing constants.
const (
	// ProcessingWait is how long we wait after submitting garments before
	// reading rankings, so the worker pool can finish rebuilding.
	ProcessingWait = 5 * time.Second

	// ProgressReportInterval controls how often submission progress is logged.
	ProgressReportInterval = 100
)

// Generation constants.
const (
	// ScoreMatrixMin and ScoreMatrixMax bound the generated capsule
	// compatibility scores.
	ScoreMatrixMin = 40
	ScoreMatrixMax = 100

	// MaxCapsuleItems caps how many garments go into the demo capsule.
	MaxCapsuleItems = 6

	// PercentageMultiplier converts a ratio to a percentage.
	PercentageMultiplier = 100
)

// File permissions.
const (
	LogFilePermissions    = 0600
	OutputFilePermissions = 0600
)
