package repository

import (
	"context"
	"fmt"

	"github.com/vytor/mathadventures/internal/models"
)

// HistoryKeyPrefix namespaces persisted session lists.
const HistoryKeyPrefix = "math_adventures_sessions"

// HistoryKey returns the storage key of a profile's session list.
func HistoryKey(profileID int64) string {
	return fmt.Sprintf("%s:%d", HistoryKeyPrefix, profileID)
}

// HistoryRepository stores one ordered session list per key. Load returns an
// empty list when the key is absent. Save replaces the whole list.
type HistoryRepository interface {
	Load(ctx context.Context, key string) ([]models.SessionRecord, error)
	Save(ctx context.Context, key string, sessions []models.SessionRecord) error
	Delete(ctx context.Context, key string) error
}
