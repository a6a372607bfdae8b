// Package srs implements the spaced repetition scheduling core: the interval
// calculator and the due-queue selection. Both are pure functions over card
// state with an injected clock, so they are deterministic under test.
package srs

import (
	"math"
	"time"

	"github.com/memozise/memozise/internal/logger"
	"github.com/memozise/memozise/internal/models"
)

// Interval constants, all in wall-clock durations. These reproduce the
// deployed clients' schedule exactly; changing them breaks compatibility
// with review state already in users' decks.
const (
	AgainInterval          = 1 * time.Minute
	GoodIntervalFirstTime  = 10 * time.Minute
	GraduatingInterval     = 24 * time.Hour
	EasyInterval           = 4 * 24 * time.Hour
	HardIntervalMultiplier = 1.2
	EasyBonus              = 1.3
)

// Ease deltas per rating, in fixed-point hundredths.
const (
	againEaseDelta = -20
	hardEaseDelta  = -15
	easyEaseDelta  = 15
)

// ComputeNextSchedule maps (current card state, rating) to the card's next
// schedule. now is the single clock input; the function never reads wall time
// itself. The returned update always carries the card's unique id unchanged.
//
// An unrecognized rating leaves the interval as it was (clamping still
// applies) and is logged as a warning, not an error.
func ComputeNextSchedule(card models.Card, rating models.Rating, now time.Time) models.PendingUpdate {
	ease := card.EaseFactor
	if ease == 0 {
		ease = models.DefaultEaseFactor
	}
	if ease < models.MinEaseFactor {
		ease = models.MinEaseFactor
	}

	first := card.FirstReview()
	interval := float64(card.Interval)
	nextInterval := interval
	nextEase := ease

	switch rating {
	case models.RatingAgain:
		nextInterval = float64(AgainInterval.Milliseconds())
		nextEase = ease + againEaseDelta
	case models.RatingHard:
		if first {
			nextInterval = float64(GoodIntervalFirstTime.Milliseconds())
		} else {
			nextInterval = math.Round(interval * HardIntervalMultiplier)
		}
		nextEase = ease + hardEaseDelta
	case models.RatingGood:
		if first {
			nextInterval = float64(GraduatingInterval.Milliseconds())
		} else {
			nextInterval = math.Round(interval * float64(ease) / 100)
		}
	case models.RatingEasy:
		if first {
			nextInterval = float64(EasyInterval.Milliseconds())
		} else {
			nextInterval = math.Round(interval * float64(ease) / 100 * EasyBonus)
		}
		nextEase = ease + easyEaseDelta
	default:
		logger.Default().WithPrefix("srs").Warn("unknown rating %q for card %s, interval unchanged", rating, card.UniqueID)
	}

	if nextEase < models.MinEaseFactor {
		nextEase = models.MinEaseFactor
	}
	newInterval := int64(math.Round(nextInterval))
	if min := AgainInterval.Milliseconds(); newInterval < min {
		newInterval = min
	}

	return models.PendingUpdate{
		UniqueID:    card.UniqueID,
		Interval:    newInterval,
		EaseFactor:  nextEase,
		ReviewCount: card.ReviewCount + 1,
		NextReview:  now.UnixMilli() + newInterval,
	}
}
