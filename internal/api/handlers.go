// Package api exposes the deck and review session surface over JSON HTTP.
package api

import (
	"github.com/memozise/memozise/internal/services"
)

type Server struct {
	DeckService   services.DeckService
	ReviewService services.ReviewService

	// AdvanceDelayMs is surfaced to clients as the pause between a rating
	// and the next card being shown.
	AdvanceDelayMs int
}
