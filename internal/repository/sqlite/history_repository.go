package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/vytor/mathadventures/internal/logger"
	"github.com/vytor/mathadventures/internal/models"
	"github.com/vytor/mathadventures/internal/repository"
)

// historyRepository keeps each session list as one JSON document in kv_store.
type historyRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository implementation
func NewHistoryRepository(db *sql.DB) repository.HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Load(ctx context.Context, key string) ([]models.SessionRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("loading history: key=%s", key)

	query, args, err := sqlBuilder.Select("value").
		From("kv_store").
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var raw string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no history stored: key=%s", key)
		return []models.SessionRecord{}, nil
	}
	if err != nil {
		log.Error("failed to load history: %v", err)
		return nil, err
	}

	sessions := []models.SessionRecord{}
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		log.Error("stored history is corrupt: key=%s: %v", key, err)
		return nil, fmt.Errorf("decode history %s: %w", key, err)
	}
	return sessions, nil
}

func (r *historyRepository) Save(ctx context.Context, key string, sessions []models.SessionRecord) error {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("saving history: key=%s sessions=%d", key, len(sessions))

	if sessions == nil {
		sessions = []models.SessionRecord{}
	}
	value, err := json.Marshal(sessions)
	if err != nil {
		return err
	}

	query, args, err := sqlBuilder.Insert("kv_store").
		Columns("key", "value", "updated_at").
		Values(key, string(value), time.Now().UTC()).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to save history: %v", err)
		return err
	}
	return nil
}

func (r *historyRepository) Delete(ctx context.Context, key string) error {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("deleting history: key=%s", key)

	query, args, err := sqlBuilder.Delete("kv_store").Where(squirrel.Eq{"key": key}).ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}
