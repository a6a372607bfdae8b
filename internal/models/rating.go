package models

// Rating is the user's self-assessed recall quality for a card.
// Exactly four values are recognized, case-sensitive.
type Rating string

const (
	RatingAgain Rating = "again"
	RatingHard  Rating = "hard"
	RatingGood  Rating = "good"
	RatingEasy  Rating = "easy"
)

// ParseRating reports whether s is one of the recognized rating strings.
// Unrecognized ratings are not rejected upstream: the scheduler treats them
// as a no-op on the interval, so callers pass the raw value through.
func ParseRating(s string) (Rating, bool) {
	switch Rating(s) {
	case RatingAgain, RatingHard, RatingGood, RatingEasy:
		return Rating(s), true
	}
	return Rating(s), false
}
