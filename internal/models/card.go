package models

import (
	"fmt"
	"time"
)

// Scheduling defaults shared by normalization and the interval calculator.
// Ease factors are fixed-point integers scaled by 100: 250 means 2.50x.
const (
	DefaultEaseFactor = 250
	MinEaseFactor     = 130

	// legacySentinelInterval is the interval value older clients wrote to mark
	// a never-reviewed card. New payloads carry an explicit review count.
	legacySentinelInterval = 1
)

// Card is one flashcard's scheduling state plus its opaque text payload.
// JSON field names match the original deck document shape so existing stored
// decks load unchanged.
type Card struct {
	UniqueID    string    `json:"uniqueId,omitempty"`
	Question    string    `json:"question"`
	Answer      string    `json:"answer"`
	Options     []string  `json:"options,omitempty"`
	Interval    int64     `json:"interval,omitempty"` // milliseconds; 0 = never reviewed
	EaseFactor  int       `json:"easeFactor,omitempty"`
	ReviewCount int       `json:"reviewCount,omitempty"`
	NextReview  Timestamp `json:"nextReview"`
	CreatedAt   Timestamp `json:"createdAt"`
}

// FirstReview reports whether the card has never been reviewed.
func (c Card) FirstReview() bool {
	return c.ReviewCount == 0
}

// PendingUpdate is a staged per-card schedule update, keyed by
// (deck id, card unique id) in the overlay store. Timestamps are epoch
// milliseconds so the serialized form is storage-representation-agnostic.
type PendingUpdate struct {
	UniqueID    string `json:"uniqueId"`
	Interval    int64  `json:"interval"`
	EaseFactor  int    `json:"easeFactor"`
	ReviewCount int    `json:"reviewCount"`
	NextReview  int64  `json:"nextReview"`
}

// Apply overlays the staged update onto a card.
func (u PendingUpdate) Apply(c Card) Card {
	c.Interval = u.Interval
	c.EaseFactor = u.EaseFactor
	c.ReviewCount = u.ReviewCount
	c.NextReview = TimestampFromMillis(u.NextReview)
	return c
}

// NewCard builds a card in its initial scheduling state: ease at the default,
// interval unset, due immediately.
func NewCard(uniqueID, question, answer string, options []string, now time.Time) Card {
	return Card{
		UniqueID:   uniqueID,
		Question:   question,
		Answer:     answer,
		Options:    options,
		EaseFactor: DefaultEaseFactor,
		CreatedAt:  TimestampFromTime(now),
	}
}

// NormalizeCard fills the canonical defaults for a card loaded from durable
// storage. deckID and position produce a stable fallback identity when the
// stored payload has no uniqueId.
//
// Review counts did not exist in older payloads; they are inferred from the
// interval: an absent interval or the legacy sentinel value means the card was
// never reviewed, anything larger means it was.
func NormalizeCard(c Card, deckID string, position int) Card {
	if c.UniqueID == "" {
		c.UniqueID = fmt.Sprintf("%s-%d", deckID, position)
	}
	if c.Question == "" {
		c.Question = "Question missing"
	}
	if c.Answer == "" {
		c.Answer = "Answer missing"
	}
	if c.EaseFactor == 0 {
		c.EaseFactor = DefaultEaseFactor
	}
	if c.ReviewCount == 0 && c.Interval > legacySentinelInterval {
		c.ReviewCount = 1
	}
	if c.Interval == legacySentinelInterval {
		c.Interval = 0
	}
	return c
}

// NormalizeCards normalizes a full deck payload in place order.
func NormalizeCards(cards []Card, deckID string) []Card {
	out := make([]Card, len(cards))
	for i, c := range cards {
		out[i] = NormalizeCard(c, deckID, i)
	}
	return out
}

// StripClientFields returns a copy of cards without the client-only staging
// key, for writing to the canonical store. Identity is regenerated
// deterministically from deck id and position on the next load.
func StripClientFields(cards []Card) []Card {
	out := make([]Card, len(cards))
	for i, c := range cards {
		c.UniqueID = ""
		out[i] = c
	}
	return out
}
