package session

import (
	"context"
	"sync"

	apperrors "github.com/memozise/memozise/internal/errors"
	"github.com/memozise/memozise/internal/overlay"
	"github.com/memozise/memozise/internal/repository"
)

// Manager tracks at most one active session per deck. Starting a session for
// a deck that already has one replaces it: the due queue is session-scoped
// and must be recomputed from fresh canonical state.
type Manager struct {
	repo    repository.DeckRepository
	overlay *overlay.Store
	now     Clock

	mu       sync.Mutex
	sessions map[string]*Controller
}

func NewManager(repo repository.DeckRepository, ov *overlay.Store, now Clock) *Manager {
	return &Manager{
		repo:     repo,
		overlay:  ov,
		now:      now,
		sessions: make(map[string]*Controller),
	}
}

// Start creates a fresh session for the deck, replacing any existing one.
func (m *Manager) Start(ctx context.Context, deckID, userID string) (*Controller, error) {
	c, err := Start(ctx, deckID, userID, m.repo, m.overlay, m.now)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[deckID] = c
	m.mu.Unlock()
	return c, nil
}

// Get returns the active session for the deck, owned by userID.
func (m *Manager) Get(deckID, userID string) (*Controller, error) {
	m.mu.Lock()
	c, ok := m.sessions[deckID]
	m.mu.Unlock()

	if !ok || c.UserID() != userID {
		return nil, apperrors.NewNotFoundError("review session", deckID)
	}
	return c, nil
}

// Remove forgets the session for the deck. The overlay is untouched; staged
// state keeps protecting unflushed progress.
func (m *Manager) Remove(deckID string) {
	m.mu.Lock()
	delete(m.sessions, deckID)
	m.mu.Unlock()
}
