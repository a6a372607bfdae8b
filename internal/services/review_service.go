package services

import (
	"context"

	apperrors "github.com/memozise/memozise/internal/errors"
	"github.com/memozise/memozise/internal/jobs"
	"github.com/memozise/memozise/internal/logger"
	"github.com/memozise/memozise/internal/session"
)

// Lifecycle signal reasons accepted by Signal. They mirror the app events
// that historically triggered an auto-save.
const (
	SignalBlur       = "blur"
	SignalBackground = "background"
)

// ReviewService drives review sessions: starting them, applying ratings, and
// routing lifecycle signals to background saves.
type ReviewService interface {
	StartSession(ctx context.Context, userID, deckID string) (session.Snapshot, error)
	SessionState(ctx context.Context, userID, deckID string) (session.Snapshot, error)
	SubmitRating(ctx context.Context, userID, deckID, rating string) (session.Ack, session.Snapshot, error)
	FinishSession(ctx context.Context, userID, deckID string) error
	DiscardSession(ctx context.Context, userID, deckID string) error
	Signal(ctx context.Context, userID, deckID, reason string) error
}

type reviewService struct {
	sessions *session.Manager
	queue    jobs.SaveQueue
}

// NewReviewService creates a new ReviewService
func NewReviewService(sessions *session.Manager, queue jobs.SaveQueue) ReviewService {
	return &reviewService{sessions: sessions, queue: queue}
}

func (s *reviewService) StartSession(ctx context.Context, userID, deckID string) (session.Snapshot, error) {
	sess, err := s.sessions.Start(ctx, deckID, userID)
	if err != nil {
		return session.Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

func (s *reviewService) SessionState(ctx context.Context, userID, deckID string) (session.Snapshot, error) {
	sess, err := s.sessions.Get(deckID, userID)
	if err != nil {
		return session.Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

func (s *reviewService) SubmitRating(ctx context.Context, userID, deckID, rating string) (session.Ack, session.Snapshot, error) {
	sess, err := s.sessions.Get(deckID, userID)
	if err != nil {
		return session.Ack{}, session.Snapshot{}, err
	}
	ack, err := sess.SubmitRating(ctx, rating)
	if err != nil {
		return session.Ack{}, session.Snapshot{}, err
	}
	return ack, sess.Snapshot(), nil
}

// FinishSession saves explicitly and, on success, forgets the session. A
// failed save keeps the session alive so the client can retry or discard.
func (s *reviewService) FinishSession(ctx context.Context, userID, deckID string) error {
	sess, err := s.sessions.Get(deckID, userID)
	if err != nil {
		return err
	}
	if err := sess.Save(ctx, false); err != nil {
		return err
	}
	s.sessions.Remove(deckID)
	return nil
}

func (s *reviewService) DiscardSession(ctx context.Context, userID, deckID string) error {
	sess, err := s.sessions.Get(deckID, userID)
	if err != nil {
		return err
	}
	if err := sess.Discard(ctx); err != nil {
		return err
	}
	s.sessions.Remove(deckID)
	return nil
}

// Signal handles a lifecycle event by enqueueing an auto-save for the
// session. The HTTP round trip never waits on the write.
func (s *reviewService) Signal(ctx context.Context, userID, deckID, reason string) error {
	if reason != SignalBlur && reason != SignalBackground {
		return apperrors.NewBadRequestError("unknown lifecycle signal: " + reason)
	}
	sess, err := s.sessions.Get(deckID, userID)
	if err != nil {
		return err
	}
	if !sess.HasUnsavedChanges() {
		logger.FromContext(ctx).Debug("signal %q with no unsaved changes, skipping", reason)
		return nil
	}
	if err := s.queue.EnqueueSave(sess, reason); err != nil {
		logger.FromContext(ctx).Warn("failed to enqueue auto-save: %v", err)
		return apperrors.NewInternalError(err)
	}
	return nil
}
