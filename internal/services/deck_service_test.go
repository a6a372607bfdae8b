package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/memozise/memozise/internal/errors"
	"github.com/memozise/memozise/internal/repository/sqlite"
	"github.com/memozise/memozise/internal/services"
	"github.com/memozise/memozise/internal/testutil"
)

var serviceNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newDeckService(t *testing.T) services.DeckService {
	database := testutil.NewTestDB(t)
	t.Cleanup(func() { testutil.MustClose(t, database) })
	repo := sqlite.NewDeckRepository(database.DB)
	return services.NewDeckService(repo, func() time.Time { return serviceNow })
}

func TestCreateDeck(t *testing.T) {
	ctx := context.Background()
	svc := newDeckService(t)

	deck, err := svc.CreateDeck(ctx, "user-1", services.CreateDeckRequest{
		Name: "Spanish Verbs",
		Cards: []services.AddCardRequest{
			{Question: "hablar", Answer: "to speak"},
			{Question: "comer", Answer: "to eat"},
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, deck.ID)
	assert.Equal(t, "user-1", deck.UserID)
	assert.Equal(t, "text", deck.QuestionType, "question type defaults")
	require.Len(t, deck.Cards, 2)
	assert.True(t, deck.Cards[0].FirstReview())
	assert.NotEqual(t, deck.Cards[0].UniqueID, deck.Cards[1].UniqueID)

	got, err := svc.GetDeck(ctx, "user-1", deck.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spanish Verbs", got.Name)
	assert.Len(t, got.Cards, 2)
}

func TestCreateDeck_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newDeckService(t)

	cases := []struct {
		name string
		req  services.CreateDeckRequest
	}{
		{"empty name", services.CreateDeckRequest{}},
		{"bad question type", services.CreateDeckRequest{Name: "x", QuestionType: "essay"}},
		{"card without answer", services.CreateDeckRequest{
			Name:  "x",
			Cards: []services.AddCardRequest{{Question: "q"}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateDeck(ctx, "user-1", tc.req)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidation))
		})
	}
}

func TestGetDeck_OwnershipAndMissing(t *testing.T) {
	ctx := context.Background()
	svc := newDeckService(t)

	deck, err := svc.CreateDeck(ctx, "user-1", services.CreateDeckRequest{Name: "Mine"})
	require.NoError(t, err)

	_, err = svc.GetDeck(ctx, "user-2", deck.ID)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))

	_, err = svc.GetDeck(ctx, "user-1", "nope")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
}

func TestListDecks_Pagination(t *testing.T) {
	ctx := context.Background()
	svc := newDeckService(t)

	for _, name := range []string{"a", "b", "c"} {
		_, err := svc.CreateDeck(ctx, "user-1", services.CreateDeckRequest{Name: name})
		require.NoError(t, err)
	}
	_, err := svc.CreateDeck(ctx, "user-2", services.CreateDeckRequest{Name: "other"})
	require.NoError(t, err)

	decks, total, err := svc.ListDecks(ctx, "user-1", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, decks, 2)

	rest, _, err := svc.ListDecks(ctx, "user-1", 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestAddCard(t *testing.T) {
	ctx := context.Background()
	svc := newDeckService(t)

	deck, err := svc.CreateDeck(ctx, "user-1", services.CreateDeckRequest{Name: "Mine"})
	require.NoError(t, err)

	card, err := svc.AddCard(ctx, "user-1", deck.ID, services.AddCardRequest{
		Question: "capital of France",
		Answer:   "Paris",
		Options:  []string{"Paris", "Lyon"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, card.UniqueID)

	got, err := svc.GetDeck(ctx, "user-1", deck.ID)
	require.NoError(t, err)
	require.Len(t, got.Cards, 1)
	assert.Equal(t, []string{"Paris", "Lyon"}, got.Cards[0].Options)

	_, err = svc.AddCard(ctx, "user-2", deck.ID, services.AddCardRequest{Question: "q", Answer: "a"})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
}

func TestDeleteDeck(t *testing.T) {
	ctx := context.Background()
	svc := newDeckService(t)

	deck, err := svc.CreateDeck(ctx, "user-1", services.CreateDeckRequest{Name: "Mine"})
	require.NoError(t, err)

	err = svc.DeleteDeck(ctx, "user-2", deck.ID)
	require.Error(t, err, "only the owner can delete")

	require.NoError(t, svc.DeleteDeck(ctx, "user-1", deck.ID))

	_, err = svc.GetDeck(ctx, "user-1", deck.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
}
