package srs

import (
	"fmt"
	"sort"
	"time"

	"github.com/memozise/memozise/internal/models"
)

// SelectDue filters cards down to those due at now and orders them for
// review: never-scheduled cards first, then ascending by next-review time.
// Equal keys keep their input order. The result is a fresh snapshot; the
// input slice is not touched.
func SelectDue(cards []models.Card, now time.Time) []models.Card {
	nowMillis := now.UnixMilli()

	var due []models.Card
	for _, c := range cards {
		if !c.NextReview.IsSet() || c.NextReview.Millis() <= nowMillis {
			due = append(due, c)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].NextReview.SortKey() < due[j].NextReview.SortKey()
	})
	return due
}

// DueDisplay renders a card's next-review time for session payloads.
func DueDisplay(ts models.Timestamp, now time.Time) string {
	if !ts.IsSet() {
		return "New card"
	}
	diff := ts.Time().Sub(now)
	if diff <= 0 {
		return "Due now"
	}
	switch {
	case diff < time.Minute:
		return "Due in <1m"
	case diff < time.Hour:
		return fmt.Sprintf("Due in %dm", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("Due in %dh", int(diff.Hours()))
	case diff < 365*24*time.Hour:
		return fmt.Sprintf("Due in %dd", int(diff.Hours()/24))
	default:
		return fmt.Sprintf("Due in %dy", int(diff.Hours()/(24*365)))
	}
}
