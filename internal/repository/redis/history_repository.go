package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/vytor/mathadventures/internal/logger"
	"github.com/vytor/mathadventures/internal/models"
	"github.com/vytor/mathadventures/internal/repository"
)

// Options configure the connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, opts Options) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// historyRepository keeps each session list as a JSON string under its key.
type historyRepository struct {
	client goredis.Cmdable
}

// NewHistoryRepository creates a Redis-backed HistoryRepository.
func NewHistoryRepository(client goredis.Cmdable) repository.HistoryRepository {
	return &historyRepository{client: client}
}

func (r *historyRepository) Load(ctx context.Context, key string) ([]models.SessionRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("redis_history")
	log.Debug("loading history: key=%s", key)

	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return []models.SessionRecord{}, nil
	}
	if err != nil {
		log.Error("failed to load history: %v", err)
		return nil, err
	}

	sessions := []models.SessionRecord{}
	if err := json.Unmarshal(raw, &sessions); err != nil {
		log.Error("stored history is corrupt: key=%s: %v", key, err)
		return nil, fmt.Errorf("decode history %s: %w", key, err)
	}
	return sessions, nil
}

func (r *historyRepository) Save(ctx context.Context, key string, sessions []models.SessionRecord) error {
	log := logger.FromContext(ctx).WithPrefix("redis_history")
	log.Debug("saving history: key=%s sessions=%d", key, len(sessions))

	if sessions == nil {
		sessions = []models.SessionRecord{}
	}
	value, err := json.Marshal(sessions)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		log.Error("failed to save history: %v", err)
		return err
	}
	return nil
}

func (r *historyRepository) Delete(ctx context.Context, key string) error {
	logger.FromContext(ctx).WithPrefix("redis_history").Debug("deleting history: key=%s", key)
	return r.client.Del(ctx, key).Err()
}
