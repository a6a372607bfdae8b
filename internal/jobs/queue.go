package jobs

import "github.com/memozise/memozise/internal/session"

// SaveQueue provides an abstraction for enqueueing background deck saves.
type SaveQueue interface {
	EnqueueSave(sess *session.Controller, reason string) error
}
