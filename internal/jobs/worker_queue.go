package jobs

import (
	"github.com/memozise/memozise/internal/session"
	"github.com/memozise/memozise/internal/worker"
)

// WorkerQueue implements SaveQueue using a worker pool.
type WorkerQueue struct {
	savePool *worker.Pool
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(savePool *worker.Pool) SaveQueue {
	return &WorkerQueue{savePool: savePool}
}

func (q *WorkerQueue) EnqueueSave(sess *session.Controller, reason string) error {
	return q.savePool.Submit(&worker.SaveDeckJob{
		Session: sess,
		Reason:  reason,
	})
}
