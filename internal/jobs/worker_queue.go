package jobs

import (
	"github.com/vytor/mathadventures/internal/metrics"
	"github.com/vytor/mathadventures/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	persistPool *worker.Pool
	metrics     *metrics.Metrics
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(persistPool *worker.Pool, m *metrics.Metrics) JobQueue {
	return &WorkerQueue{persistPool: persistPool, metrics: m}
}

func (q *WorkerQueue) EnqueuePersist(store worker.HistoryPersister) error {
	err := q.persistPool.Submit(&worker.PersistHistoryJob{Store: store})
	q.metrics.SetPersistQueueDepth(q.persistPool.QueueSize())
	return err
}
