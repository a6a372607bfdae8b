// Package session implements the review session controller: one continuous
// pass through a deck's due queue, bounded by lifecycle events that trigger
// persistence. The controller owns the merged in-memory card set; the overlay
// keeps every rating durable until a canonical save lands.
package session

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/memozise/memozise/internal/errors"
	"github.com/memozise/memozise/internal/logger"
	"github.com/memozise/memozise/internal/models"
	"github.com/memozise/memozise/internal/overlay"
	"github.com/memozise/memozise/internal/repository"
	"github.com/memozise/memozise/internal/srs"
)

// State is the session's lifecycle phase. Saving is not a State: it is a
// transient flag that can be raised from any phase.
type State string

const (
	StateReady      State = "ready"
	StateReviewing  State = "reviewing"
	StateComplete   State = "complete"
	StateNothingDue State = "nothing_due"
)

// Clock supplies "now" for scheduling, injected so sessions are deterministic
// under test.
type Clock func() time.Time

// Controller drives one review session for one deck. All methods are safe for
// concurrent use; rating submission is never blocked by an in-flight save.
type Controller struct {
	deckID  string
	userID  string
	repo    repository.DeckRepository
	overlay *overlay.Store
	now     Clock
	log     *logger.Logger

	mu                sync.Mutex
	deckName          string
	cards             []models.Card // merged canonical set, mutated by ratings
	queue             []models.Card // due-queue snapshot, fixed for the session
	cursor            int
	state             State
	saving            bool
	hasUnsavedChanges bool
	dirtyGen          uint64 // bumped per rating; lets a finished save tell whether new ratings arrived meanwhile
}

// Snapshot is a point-in-time view of the session for API payloads.
type Snapshot struct {
	DeckID            string
	DeckName          string
	State             State
	DueCount          int
	Position          int // 1-based position in the due queue, capped at DueCount
	Saving            bool
	HasUnsavedChanges bool
	Current           *models.Card
}

// Ack reports the outcome of one rating submission.
type Ack struct {
	Skipped bool   // card was missing from the canonical set
	Notice  string // non-fatal message for the client, empty when clean
	Update  *models.PendingUpdate
}

// Start loads the deck, merges staged overlay records over the canonical
// cards (pending wins), computes the due queue, and returns a ready
// controller. A missing deck, or a deck owned by someone else, is NotFound.
func Start(ctx context.Context, deckID, userID string, repo repository.DeckRepository, ov *overlay.Store, now Clock) (*Controller, error) {
	log := logger.FromContext(ctx).WithPrefix("session").WithField("deck_id", deckID)

	deck, err := repo.Get(ctx, deckID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if deck == nil || deck.UserID != userID {
		return nil, apperrors.NewNotFoundError("deck", deckID)
	}

	cards := deck.Cards
	pending := ov.Load(ctx)[deckID]
	for i, c := range cards {
		if upd, ok := pending[c.UniqueID]; ok {
			log.Debug("merging pending update for card %s", c.UniqueID)
			cards[i] = upd.Apply(c)
		}
	}

	c := &Controller{
		deckID:   deckID,
		userID:   userID,
		repo:     repo,
		overlay:  ov,
		now:      now,
		log:      log,
		deckName: deck.Name,
		cards:    cards,
		queue:    srs.SelectDue(cards, now()),
		// Staged records that survived a previous session are still uncommitted.
		hasUnsavedChanges: len(pending) > 0,
	}

	switch {
	case len(c.queue) > 0:
		c.state = StateReady
	case c.hasUnsavedChanges:
		c.state = StateComplete
	default:
		c.state = StateNothingDue
	}

	log.Info("session started: total=%d due=%d pending=%d", len(cards), len(c.queue), len(pending))
	return c, nil
}

// UserID returns the session owner.
func (c *Controller) UserID() string { return c.userID }

// DeckID returns the deck under review.
func (c *Controller) DeckID() string { return c.deckID }

// Snapshot returns the current session view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		DeckID:            c.deckID,
		DeckName:          c.deckName,
		State:             c.state,
		DueCount:          len(c.queue),
		Saving:            c.saving,
		HasUnsavedChanges: c.hasUnsavedChanges,
	}
	if len(c.queue) > 0 {
		snap.Position = c.cursor + 1
		if snap.Position > len(c.queue) {
			snap.Position = len(c.queue)
		}
	}
	if c.cursor < len(c.queue) {
		card := c.queue[c.cursor]
		snap.Current = &card
	}
	return snap
}

// SubmitRating applies one difficulty rating to the card at the cursor:
// compute the new schedule, update the in-memory set, stage the result in the
// overlay, advance. A queue card that no longer exists in the canonical set
// is skipped with a non-fatal notice. Never blocked by an in-flight save.
func (c *Controller) SubmitRating(ctx context.Context, rating string) (Ack, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cursor >= len(c.queue) {
		return Ack{}, apperrors.NewBadRequestError("review session is already complete")
	}

	current := c.queue[c.cursor]
	idx := -1
	for i, card := range c.cards {
		if card.UniqueID == current.UniqueID {
			idx = i
			break
		}
	}
	if idx == -1 {
		c.log.Warn("card %s not found in canonical set, skipping", current.UniqueID)
		c.advanceLocked()
		return Ack{
			Skipped: true,
			Notice:  apperrors.NewIdentityMismatchError(current.UniqueID).Message,
		}, nil
	}

	parsed, recognized := models.ParseRating(rating)
	if !recognized {
		c.log.Warn("unrecognized rating %q for card %s", rating, current.UniqueID)
	}

	upd := srs.ComputeNextSchedule(current, parsed, c.now())
	c.cards[idx] = upd.Apply(c.cards[idx])

	// Overlay write failures only degrade crash tolerance; the in-memory
	// state is still authoritative for this session.
	if err := c.overlay.SetPendingUpdate(ctx, c.deckID, current.UniqueID, upd); err != nil {
		c.log.Warn("failed to stage pending update for card %s: %v", current.UniqueID, err)
	}

	c.hasUnsavedChanges = true
	c.dirtyGen++
	c.advanceLocked()

	c.log.Debug("card %s rated %q: interval=%dms ease=%d", current.UniqueID, rating, upd.Interval, upd.EaseFactor)
	return Ack{Update: &upd}, nil
}

func (c *Controller) advanceLocked() {
	c.cursor++
	if c.cursor >= len(c.queue) {
		c.state = StateComplete
	} else {
		c.state = StateReviewing
	}
}

// Save flushes the full in-memory card set to the canonical store and, on
// success, clears the overlay for this deck. Saves are single-flight: if one
// is already running the call is a no-op. On failure the overlay stays
// intact, so the staged state survives for the next attempt.
//
// auto marks lifecycle-triggered saves; they skip silently when there is
// nothing to write, and their errors are meant for logs, not dialogs.
func (c *Controller) Save(ctx context.Context, auto bool) error {
	c.mu.Lock()
	if c.saving {
		c.mu.Unlock()
		c.log.Debug("save already in flight, skipping (auto=%v)", auto)
		return nil
	}
	if !c.hasUnsavedChanges || len(c.cards) == 0 {
		c.mu.Unlock()
		c.log.Debug("nothing to save (auto=%v)", auto)
		return nil
	}
	c.saving = true
	gen := c.dirtyGen
	payload := models.StripClientFields(c.cards)
	c.mu.Unlock()

	err := c.repo.UpdateCards(ctx, c.deckID, payload)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.saving = false

	if err != nil {
		c.log.Error("failed to save deck (auto=%v): %v", auto, err)
		return apperrors.NewSyncError(c.deckID, err)
	}

	// Ratings submitted while the save was in flight are not in the payload
	// just written; keep them staged for the next flush.
	if gen != c.dirtyGen {
		c.log.Debug("ratings arrived during save, overlay kept for next flush")
		return nil
	}

	if err := c.overlay.ClearPendingUpdates(ctx, c.deckID); err != nil {
		c.log.Warn("saved deck but failed to clear overlay: %v", err)
	}
	c.hasUnsavedChanges = false
	c.log.Info("deck saved (auto=%v)", auto)
	return nil
}

// Discard drops all staged progress for this deck without touching the
// canonical store. Only a completed session with unsaved changes can be
// discarded; mid-queue the choice is to keep rating or save.
func (c *Controller) Discard(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateComplete || !c.hasUnsavedChanges {
		return apperrors.NewBadRequestError("nothing to discard: session is not complete or has no unsaved changes")
	}

	if err := c.overlay.ClearPendingUpdates(ctx, c.deckID); err != nil {
		return apperrors.NewInternalError(err)
	}
	c.hasUnsavedChanges = false
	c.log.Info("session progress discarded")
	return nil
}

// HasUnsavedChanges reports whether any rating since the last successful
// save is still uncommitted.
func (c *Controller) HasUnsavedChanges() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasUnsavedChanges
}
