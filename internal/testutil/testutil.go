package testutil

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/vytor/mathadventures/internal/db"
	"github.com/vytor/mathadventures/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.ApplyMigrations(context.Background(), sqlDB))
	return sqlDB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// SessionRecord builds a record with the given score and mistakes.
func SessionRecord(score int, level models.DifficultyLevel, mistakes ...string) models.SessionRecord {
	if mistakes == nil {
		mistakes = []string{}
	}
	return models.SessionRecord{
		Mode:              models.ModeTimed,
		Level:             level,
		Score:             score,
		Accuracy:          80,
		AvgTime:           1.5,
		Mistakes:          mistakes,
		ToughestQuestions: []string{},
	}
}
