package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/vytor/mathadventures/internal/worker"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueuePersist(store worker.HistoryPersister) error {
	args := m.Called(store)
	return args.Error(0)
}
