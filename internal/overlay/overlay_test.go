package overlay_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memozise/memozise/internal/models"
	"github.com/memozise/memozise/internal/overlay"
	"github.com/memozise/memozise/internal/repository/sqlite"
	"github.com/memozise/memozise/internal/testutil"
)

func newStore(t *testing.T) *overlay.Store {
	database := testutil.NewTestDB(t)
	t.Cleanup(func() { testutil.MustClose(t, database) })
	return overlay.NewStore(sqlite.NewKVRepository(database.DB))
}

func TestOverlay_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	upd := models.PendingUpdate{
		UniqueID:    "card-1",
		Interval:    86_400_000,
		EaseFactor:  250,
		ReviewCount: 1,
		NextReview:  1748779200000,
	}
	require.NoError(t, store.SetPendingUpdate(ctx, "deck-1", "card-1", upd))

	pending := store.Load(ctx)
	require.Contains(t, pending, "deck-1")
	assert.Equal(t, upd, pending["deck-1"]["card-1"])
}

func TestOverlay_OverwriteNotAppend(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	first := models.PendingUpdate{UniqueID: "card-1", Interval: 60_000, EaseFactor: 230, ReviewCount: 1, NextReview: 100}
	second := models.PendingUpdate{UniqueID: "card-1", Interval: 600_000, EaseFactor: 215, ReviewCount: 2, NextReview: 200}

	require.NoError(t, store.SetPendingUpdate(ctx, "deck-1", "card-1", first))
	require.NoError(t, store.SetPendingUpdate(ctx, "deck-1", "card-1", second))

	pending := store.Load(ctx)
	require.Len(t, pending["deck-1"], 1, "a new rating on the same card overwrites")
	assert.Equal(t, second, pending["deck-1"]["card-1"])
}

func TestOverlay_ClearRemovesOnlyThatDeck(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	upd := models.PendingUpdate{UniqueID: "c", Interval: 60_000, EaseFactor: 250, ReviewCount: 1, NextReview: 1}
	require.NoError(t, store.SetPendingUpdate(ctx, "deck-1", "c", upd))
	require.NoError(t, store.SetPendingUpdate(ctx, "deck-2", "c", upd))

	require.NoError(t, store.ClearPendingUpdates(ctx, "deck-1"))

	pending := store.Load(ctx)
	assert.NotContains(t, pending, "deck-1")
	assert.Contains(t, pending, "deck-2")
}

func TestOverlay_ClearLastDeckRemovesKey(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	t.Cleanup(func() { testutil.MustClose(t, database) })
	kv := sqlite.NewKVRepository(database.DB)
	store := overlay.NewStore(kv)

	upd := models.PendingUpdate{UniqueID: "c", Interval: 60_000, EaseFactor: 250, ReviewCount: 1, NextReview: 1}
	require.NoError(t, store.SetPendingUpdate(ctx, "deck-1", "c", upd))
	require.NoError(t, store.ClearPendingUpdates(ctx, "deck-1"))

	_, ok, err := kv.Get(ctx, "@allPendingSrsUpdates")
	require.NoError(t, err)
	assert.False(t, ok, "emptied overlay leaves no key behind")
	assert.Empty(t, store.Load(ctx))
}

func TestOverlay_ClearMissingDeckIsNoop(t *testing.T) {
	store := newStore(t)
	assert.NoError(t, store.ClearPendingUpdates(context.Background(), "never-seen"))
}

type flakyKV struct {
	getErr  error
	value   string
	has     bool
	setErr  error
	deleted []string
}

func (f *flakyKV) Get(ctx context.Context, key string) (string, bool, error) {
	return f.value, f.has, f.getErr
}
func (f *flakyKV) Set(ctx context.Context, key, value string) error { return f.setErr }
func (f *flakyKV) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func TestOverlay_LoadFailsSoft(t *testing.T) {
	ctx := context.Background()

	// Storage read failure.
	store := overlay.NewStore(&flakyKV{getErr: errors.New("disk gone")})
	assert.Empty(t, store.Load(ctx))

	// Corrupt payload.
	store = overlay.NewStore(&flakyKV{value: "{not json", has: true})
	assert.Empty(t, store.Load(ctx))

	// Stored null.
	store = overlay.NewStore(&flakyKV{value: "null", has: true})
	assert.NotNil(t, store.Load(ctx))
}

func TestOverlay_SetSurfacesWriteError(t *testing.T) {
	store := overlay.NewStore(&flakyKV{setErr: errors.New("readonly fs")})

	err := store.SetPendingUpdate(context.Background(), "d", "c", models.PendingUpdate{})
	assert.Error(t, err)
}
