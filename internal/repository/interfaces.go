package repository

import (
	"context"

	"github.com/memozise/memozise/internal/models"
)

// DeckRepository is the canonical store for decks and their cards.
// Get and List return normalized cards (see models.NormalizeCards); a missing
// deck is (nil, nil), not an error.
type DeckRepository interface {
	Insert(ctx context.Context, deck models.Deck) error
	Get(ctx context.Context, id string) (*models.Deck, error)
	List(ctx context.Context, filter models.DeckFilter) ([]models.Deck, error)
	Count(ctx context.Context, filter models.DeckFilter) (int, error)
	UpdateCards(ctx context.Context, id string, cards []models.Card) error
	Delete(ctx context.Context, id string) error
}

// KVRepository is a string-keyed local persistence primitive. It survives
// process restarts; the overlay store is its only consumer.
type KVRepository interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
