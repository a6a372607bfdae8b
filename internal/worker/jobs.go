package worker

import (
	"context"

	"github.com/memozise/memozise/internal/logger"
	"github.com/memozise/memozise/internal/session"
)

// SaveDeckJob flushes one session's in-memory card state to the canonical
// store. Triggered by lifecycle signals (blur, background); the session's own
// single-flight guard makes duplicate enqueues harmless.
type SaveDeckJob struct {
	Session *session.Controller
	Reason  string
}

func (j *SaveDeckJob) Name() string { return "save_deck" }

func (j *SaveDeckJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"deck_id": j.Session.DeckID(),
		"reason":  j.Reason,
	})
	log.Debug("auto-save triggered")
	return j.Session.Save(logger.NewContext(ctx, log), true)
}
