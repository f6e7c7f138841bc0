package history

import (
	"context"
	"sync"

	"github.com/vytor/mathadventures/internal/logger"
	"github.com/vytor/mathadventures/internal/models"
	"github.com/vytor/mathadventures/internal/repository"
	"github.com/vytor/mathadventures/internal/scoring"
)

// DefaultLimit is the number of sessions kept per player.
const DefaultLimit = 50

// Store holds one player's session history, newest first. It is loaded once
// and written back in full after each change.
type Store struct {
	repo  repository.HistoryRepository
	key   string
	limit int

	mu       sync.RWMutex
	sessions []models.SessionRecord
	version  uint64

	persistMu sync.Mutex
	persisted uint64
	closed    bool
}

// Open loads the history stored under key.
func Open(ctx context.Context, repo repository.HistoryRepository, key string, limit int) (*Store, error) {
	log := logger.FromContext(ctx).WithPrefix("history")
	if limit <= 0 {
		limit = DefaultLimit
	}

	sessions, err := repo.Load(ctx, key)
	if err != nil {
		log.Error("failed to load history: key=%s: %v", key, err)
		return nil, err
	}
	if len(sessions) > limit {
		sessions = sessions[:limit]
	}
	log.Debug("history loaded: key=%s sessions=%d", key, len(sessions))

	return &Store{
		repo:     repo,
		key:      key,
		limit:    limit,
		sessions: sessions,
	}, nil
}

func (s *Store) Key() string { return s.key }

// Sessions returns a copy of the history.
func (s *Store) Sessions() []models.SessionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SessionRecord, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// Version changes every time the history does.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Add prepends a finished session, dropping the oldest beyond the limit.
func (s *Store) Add(rec models.SessionRecord) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = scoring.Prepend(s.sessions, rec, s.limit)
	s.version++
	return s.version
}

// Close waits for an in-flight Persist and turns every later one into a
// no-op. A closed store still accepts Add.
func (s *Store) Close() {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	s.closed = true
}

// Persist writes the current history. Concurrent calls are serialized and a
// call is a no-op when a newer or equal version was already written, or
// when the store is closed.
func (s *Store) Persist(ctx context.Context) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if s.closed {
		logger.FromContext(ctx).WithPrefix("history").Debug("history closed, skipping write: key=%s", s.key)
		return nil
	}

	s.mu.RLock()
	version := s.version
	snapshot := make([]models.SessionRecord, len(s.sessions))
	copy(snapshot, s.sessions)
	s.mu.RUnlock()

	if version <= s.persisted {
		return nil
	}
	if err := s.repo.Save(ctx, s.key, snapshot); err != nil {
		return err
	}
	s.persisted = version
	logger.FromContext(ctx).WithPrefix("history").Debug("history saved: key=%s version=%d", s.key, version)
	return nil
}
