package jobs

import "github.com/vytor/mathadventures/internal/worker"

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueuePersist(store worker.HistoryPersister) error
}
