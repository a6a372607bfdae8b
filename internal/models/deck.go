package models

import "time"

// Deck is an ordered set of cards owned by a single user.
type Deck struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	QuestionType string    `json:"question_type"`
	CreatedAt    time.Time `json:"created_at"`
	Cards        []Card    `json:"cards"`
}

// DeckFilter selects decks for listing.
type DeckFilter struct {
	UserID string
	Limit  int
	Offset int
}
