package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/mathadventures/internal/models"
)

// MockHistoryRepository is a mock implementation of repository.HistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Load(ctx context.Context, key string) ([]models.SessionRecord, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SessionRecord), args.Error(1)
}

func (m *MockHistoryRepository) Save(ctx context.Context, key string, sessions []models.SessionRecord) error {
	args := m.Called(ctx, key, sessions)
	return args.Error(0)
}

func (m *MockHistoryRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
