// Package overlay implements the durable staging area for review results that
// have not yet been committed to the canonical deck store. It is what lets a
// session survive app backgrounding or a crash without losing progress.
package overlay

import (
	"context"
	"encoding/json"

	"github.com/memozise/memozise/internal/errors"
	"github.com/memozise/memozise/internal/logger"
	"github.com/memozise/memozise/internal/models"
	"github.com/memozise/memozise/internal/repository"
)

// storageKey matches the key the mobile clients used, so an existing device
// store keeps working across upgrades.
const storageKey = "@allPendingSrsUpdates"

// Pending is the full overlay: deck id -> card unique id -> staged update.
type Pending map[string]map[string]models.PendingUpdate

// Store persists pending updates through a string-keyed KV repository.
type Store struct {
	kv  repository.KVRepository
	log *logger.Logger
}

func NewStore(kv repository.KVRepository) *Store {
	return &Store{
		kv:  kv,
		log: logger.Default().WithPrefix("overlay"),
	}
}

// Load reads the whole overlay. It fails soft: read or parse errors are
// logged and an empty overlay is returned, never an error. Losing staged
// state is recoverable; refusing to start a session is not.
func (s *Store) Load(ctx context.Context) Pending {
	value, ok, err := s.kv.Get(ctx, storageKey)
	if err != nil {
		s.log.Error("failed to load pending updates: %v", err)
		return Pending{}
	}
	if !ok {
		return Pending{}
	}

	var pending Pending
	if err := json.Unmarshal([]byte(value), &pending); err != nil {
		s.log.Error("%v", errors.NewSerializationError("read", err))
		return Pending{}
	}
	if pending == nil {
		pending = Pending{}
	}
	return pending
}

// SetPendingUpdate stages one update under (deckID, cardID), overwriting any
// previous record for the same card. The whole overlay is rewritten; within a
// session there are no concurrent writers, so last-write-wins is enough.
func (s *Store) SetPendingUpdate(ctx context.Context, deckID, cardID string, upd models.PendingUpdate) error {
	pending := s.Load(ctx)
	if pending[deckID] == nil {
		pending[deckID] = make(map[string]models.PendingUpdate)
	}
	pending[deckID][cardID] = upd
	return s.save(ctx, pending)
}

// ClearPendingUpdates removes every staged record for a deck. Called after a
// confirmed flush to the canonical store, or on explicit discard. When the
// last deck's records go, the storage key is removed rather than left holding
// an empty map.
func (s *Store) ClearPendingUpdates(ctx context.Context, deckID string) error {
	pending := s.Load(ctx)
	if _, ok := pending[deckID]; !ok {
		return nil
	}
	delete(pending, deckID)
	if len(pending) == 0 {
		if err := s.kv.Delete(ctx, storageKey); err != nil {
			s.log.Error("failed to remove pending updates key: %v", err)
			return err
		}
		return nil
	}
	return s.save(ctx, pending)
}

func (s *Store) save(ctx context.Context, pending Pending) error {
	data, err := json.Marshal(pending)
	if err != nil {
		serr := errors.NewSerializationError("write", err)
		s.log.Error("%v", serr)
		return serr
	}
	if err := s.kv.Set(ctx, storageKey, string(data)); err != nil {
		s.log.Error("failed to persist pending updates: %v", err)
		return err
	}
	return nil
}
