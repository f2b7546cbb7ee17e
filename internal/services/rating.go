package services

import "math"

// Logistic curve parameters. Changing any of them changes every stored rating.
const (
	MaxRating      = 2000
	ratingSlope    = 0.12
	ratingMidpoint = 30
)

// ToRating squashes a raw questionnaire score onto [0, MaxRating] with a
// logistic curve centred on ratingMidpoint. The result is not clamped; the
// curve itself never leaves the interval.
func ToRating(raw int) int {
	logistic := 1 / (1 + math.Exp(-ratingSlope*float64(raw-ratingMidpoint)))
	return int(math.Round(logistic * MaxRating))
}
