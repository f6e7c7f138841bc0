package history_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/mathadventures/internal/history"
	"github.com/vytor/mathadventures/internal/models"
	"github.com/vytor/mathadventures/internal/testutil/mocks"
)

const key = "math_adventures_sessions:1"

func TestOpen_EmptyHistory(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockHistoryRepository)
	repo.On("Load", ctx, key).Return([]models.SessionRecord{}, nil)

	store, err := history.Open(ctx, repo, key, 50)
	require.NoError(t, err)
	assert.Empty(t, store.Sessions())
	assert.Zero(t, store.Version())
	repo.AssertExpectations(t)
}

func TestOpen_LoadError(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockHistoryRepository)
	repo.On("Load", ctx, key).Return(nil, errors.New("corrupt history"))

	store, err := history.Open(ctx, repo, key, 50)
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestAdd_CapsAtLimit(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockHistoryRepository)
	repo.On("Load", ctx, key).Return([]models.SessionRecord{}, nil)

	store, err := history.Open(ctx, repo, key, 50)
	require.NoError(t, err)

	for i := 0; i < 75; i++ {
		v := store.Add(models.SessionRecord{Score: i})
		assert.Equal(t, uint64(i+1), v)
		assert.LessOrEqual(t, len(store.Sessions()), 50)
	}

	sessions := store.Sessions()
	assert.Len(t, sessions, 50)
	assert.Equal(t, 74, sessions[0].Score)
}

func TestSessions_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockHistoryRepository)
	repo.On("Load", ctx, key).Return([]models.SessionRecord{{Score: 5}}, nil)

	store, err := history.Open(ctx, repo, key, 50)
	require.NoError(t, err)

	got := store.Sessions()
	got[0].Score = 99
	assert.Equal(t, 5, store.Sessions()[0].Score)
}

func TestPersist_SkipsWhenCurrent(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockHistoryRepository)
	repo.On("Load", ctx, key).Return([]models.SessionRecord{}, nil)
	repo.On("Save", ctx, key, mock.AnythingOfType("[]models.SessionRecord")).Return(nil).Once()

	store, err := history.Open(ctx, repo, key, 50)
	require.NoError(t, err)

	require.NoError(t, store.Persist(ctx), "nothing to write yet")
	store.Add(models.SessionRecord{Score: 10})
	require.NoError(t, store.Persist(ctx))
	require.NoError(t, store.Persist(ctx), "already written")

	repo.AssertNumberOfCalls(t, "Save", 1)
}

func TestPersist_NoopAfterClose(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockHistoryRepository)
	repo.On("Load", ctx, key).Return([]models.SessionRecord{}, nil)

	store, err := history.Open(ctx, repo, key, 50)
	require.NoError(t, err)

	store.Add(models.SessionRecord{Score: 10})
	store.Close()
	require.NoError(t, store.Persist(ctx))

	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	assert.Len(t, store.Sessions(), 1)
}

func TestPersist_RetriesAfterFailure(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockHistoryRepository)
	repo.On("Load", ctx, key).Return([]models.SessionRecord{}, nil)
	repo.On("Save", ctx, key, mock.Anything).Return(errors.New("disk full")).Once()
	repo.On("Save", ctx, key, mock.Anything).Return(nil).Once()

	store, err := history.Open(ctx, repo, key, 50)
	require.NoError(t, err)
	store.Add(models.SessionRecord{Score: 10})

	assert.Error(t, store.Persist(ctx))
	assert.Len(t, store.Sessions(), 1, "in-memory history survives a failed write")
	assert.NoError(t, store.Persist(ctx))
	repo.AssertNumberOfCalls(t, "Save", 2)
}

func TestPersist_Concurrent(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockHistoryRepository)
	repo.On("Load", ctx, key).Return([]models.SessionRecord{}, nil)
	repo.On("Save", ctx, key, mock.Anything).Return(nil)

	store, err := history.Open(ctx, repo, key, 50)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.Add(models.SessionRecord{Score: i})
			assert.NoError(t, store.Persist(ctx))
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.Sessions(), 10)
	last := repo.Calls[len(repo.Calls)-1]
	assert.Len(t, last.Arguments.Get(2).([]models.SessionRecord), 10, "last write carries the full history")
}
