package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memozise/memozise/internal/models"
)

func TestNormalizeCard_Defaults(t *testing.T) {
	c := models.NormalizeCard(models.Card{}, "deck-1", 3)

	assert.Equal(t, "deck-1-3", c.UniqueID, "fallback id is deterministic from deck and position")
	assert.Equal(t, models.DefaultEaseFactor, c.EaseFactor)
	assert.Equal(t, int64(0), c.Interval)
	assert.Equal(t, 0, c.ReviewCount)
	assert.False(t, c.NextReview.IsSet())
	assert.True(t, c.FirstReview())
}

func TestNormalizeCard_KeepsExistingIdentity(t *testing.T) {
	c := models.NormalizeCard(models.Card{UniqueID: "abc", Question: "q", Answer: "a"}, "deck-1", 0)

	assert.Equal(t, "abc", c.UniqueID)
	assert.Equal(t, "q", c.Question)
}

func TestNormalizeCard_LegacySentinelInterval(t *testing.T) {
	// Older payloads marked never-reviewed cards with interval == 1.
	c := models.NormalizeCard(models.Card{Interval: 1}, "deck-1", 0)

	assert.Equal(t, int64(0), c.Interval)
	assert.Equal(t, 0, c.ReviewCount)
	assert.True(t, c.FirstReview())
}

func TestNormalizeCard_InfersReviewCountFromInterval(t *testing.T) {
	c := models.NormalizeCard(models.Card{Interval: 86_400_000}, "deck-1", 0)

	assert.Equal(t, 1, c.ReviewCount)
	assert.False(t, c.FirstReview())
}

func TestNormalizeCards_HeterogeneousPayload(t *testing.T) {
	raw := `[
		{"question": "q1", "answer": "a1"},
		{"question": "q2", "answer": "a2", "nextReview": 1748779200000, "interval": 86400000, "easeFactor": 235},
		{"question": "q3", "answer": "a3", "nextReview": {"seconds": 1748779200, "nanoseconds": 0}, "interval": 1},
		{"question": "q4", "answer": "a4", "nextReview": "garbage"}
	]`

	var cards []models.Card
	require.NoError(t, json.Unmarshal([]byte(raw), &cards))

	cards = models.NormalizeCards(cards, "deck-9")

	assert.False(t, cards[0].NextReview.IsSet())
	assert.True(t, cards[0].FirstReview())

	assert.Equal(t, int64(1748779200000), cards[1].NextReview.Millis())
	assert.Equal(t, 235, cards[1].EaseFactor)
	assert.False(t, cards[1].FirstReview())

	assert.Equal(t, int64(1748779200000), cards[2].NextReview.Millis())
	assert.True(t, cards[2].FirstReview(), "legacy sentinel interval keeps first-review state")

	assert.False(t, cards[3].NextReview.IsSet(), "unparseable nextReview is treated as due now")
	assert.Equal(t, "deck-9-3", cards[3].UniqueID)
}

func TestPendingUpdate_Apply(t *testing.T) {
	card := models.NewCard("id-1", "q", "a", nil, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	upd := models.PendingUpdate{
		UniqueID:    "id-1",
		Interval:    86_400_000,
		EaseFactor:  230,
		ReviewCount: 1,
		NextReview:  1748779200000,
	}

	card = upd.Apply(card)

	assert.Equal(t, int64(86_400_000), card.Interval)
	assert.Equal(t, 230, card.EaseFactor)
	assert.Equal(t, 1, card.ReviewCount)
	assert.Equal(t, int64(1748779200000), card.NextReview.Millis())
}

func TestStripClientFields(t *testing.T) {
	cards := []models.Card{
		{UniqueID: "a", Question: "q1", Answer: "a1"},
		{UniqueID: "b", Question: "q2", Answer: "a2"},
	}

	stripped := models.StripClientFields(cards)

	for _, c := range stripped {
		assert.Empty(t, c.UniqueID)
	}
	assert.Equal(t, "a", cards[0].UniqueID, "input is untouched")
}

func TestNewCard_InitialState(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	c := models.NewCard("u1", "q", "a", []string{"x", "y"}, now)

	assert.Equal(t, models.DefaultEaseFactor, c.EaseFactor)
	assert.True(t, c.FirstReview())
	assert.False(t, c.NextReview.IsSet())
	assert.Equal(t, now.UnixMilli(), c.CreatedAt.Millis())
}

func TestParseRating(t *testing.T) {
	for _, valid := range []string{"again", "hard", "good", "easy"} {
		_, ok := models.ParseRating(valid)
		assert.True(t, ok, valid)
	}
	for _, invalid := range []string{"Again", "GOOD", "", "perfect", "easy "} {
		_, ok := models.ParseRating(invalid)
		assert.False(t, ok, invalid)
	}
}
