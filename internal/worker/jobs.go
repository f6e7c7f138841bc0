package worker

import (
	"context"

	"github.com/vytor/mathadventures/internal/logger"
)

// HistoryPersister writes a player's session history to storage.
type HistoryPersister interface {
	Persist(ctx context.Context) error
	Key() string
}

// PersistHistoryJob saves a session history off the request path.
type PersistHistoryJob struct {
	Store HistoryPersister
}

func (j *PersistHistoryJob) Name() string { return "persist_history" }

func (j *PersistHistoryJob) Run(ctx context.Context) error {
	logger.FromContext(ctx).Debug("persisting history: key=%s", j.Store.Key())
	return j.Store.Persist(ctx)
}
