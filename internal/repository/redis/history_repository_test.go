package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vytor/mathadventures/internal/models"
	"github.com/vytor/mathadventures/internal/repository"
	"github.com/vytor/mathadventures/internal/repository/redis"
	"github.com/vytor/mathadventures/internal/testutil"
)

// fakeRedis implements the string commands the repository uses.
type fakeRedis struct {
	goredis.Cmdable
	data   map[string]string
	setErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *goredis.StringCmd {
	v, ok := f.data[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, _ time.Duration) *goredis.StatusCmd {
	if f.setErr != nil {
		return goredis.NewStatusResult("", f.setErr)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *goredis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return goredis.NewIntResult(n, nil)
}

func TestHistoryRepository_MissingKey(t *testing.T) {
	repo := redis.NewHistoryRepository(newFakeRedis())

	sessions, err := repo.Load(context.Background(), repository.HistoryKey(1))
	require.NoError(t, err)
	assert.NotNil(t, sessions)
	assert.Empty(t, sessions)
}

func TestHistoryRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	repo := redis.NewHistoryRepository(fake)
	key := repository.HistoryKey(5)

	rec := testutil.SessionRecord(70, models.LevelBasic, "6 x 7 = ?")
	require.NoError(t, repo.Save(ctx, key, []models.SessionRecord{rec}))
	assert.Contains(t, fake.data[key], `"mistakes":["6 x 7 = ?"]`)

	loaded, err := repo.Load(ctx, key)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, 70, loaded[0].Score)

	require.NoError(t, repo.Delete(ctx, key))
	assert.NotContains(t, fake.data, key)
}

func TestHistoryRepository_Errors(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	repo := redis.NewHistoryRepository(fake)
	key := repository.HistoryKey(6)

	fake.data[key] = "[{"
	_, err := repo.Load(ctx, key)
	assert.Error(t, err)

	fake.setErr = errors.New("READONLY")
	assert.Error(t, repo.Save(ctx, key, nil))
}
