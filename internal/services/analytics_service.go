package services

import (
	"context"
	"sync"

	"github.com/vytor/mathadventures/internal/analytics"
	"github.com/vytor/mathadventures/internal/history"
	"github.com/vytor/mathadventures/internal/logger"
	"github.com/vytor/mathadventures/internal/models"
)

// HistoryProvider resolves a profile's session store.
type HistoryProvider interface {
	History(ctx context.Context, profileID int64) (*history.Store, error)
}

// AnalyticsService serves the parent-facing view of a profile's history.
type AnalyticsService interface {
	// Summary returns nil when the profile has no sessions yet.
	Summary(ctx context.Context, profileID int64) (*models.AnalyticsSummary, error)
	Sessions(ctx context.Context, profileID int64) ([]models.SessionRecord, error)
}

type cachedSummary struct {
	store   *history.Store
	version uint64
	summary *models.AnalyticsSummary
}

type analyticsService struct {
	histories HistoryProvider

	mu    sync.Mutex
	cache map[int64]cachedSummary
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(histories HistoryProvider) AnalyticsService {
	return &analyticsService{
		histories: histories,
		cache:     map[int64]cachedSummary{},
	}
}

func (s *analyticsService) Summary(ctx context.Context, profileID int64) (*models.AnalyticsSummary, error) {
	log := logger.FromContext(ctx)

	store, err := s.histories.History(ctx, profileID)
	if err != nil {
		return nil, err
	}

	version := store.Version()
	s.mu.Lock()
	cached, ok := s.cache[profileID]
	s.mu.Unlock()
	if ok && cached.store == store && cached.version == version {
		log.Debug("analytics cache hit: profile_id=%d version=%d", profileID, version)
		return cached.summary, nil
	}

	// The version is read before the sessions, so a concurrent Add can only
	// make the cached entry look older than it is.
	summary := analytics.Summarize(store.Sessions())

	s.mu.Lock()
	s.cache[profileID] = cachedSummary{store: store, version: version, summary: summary}
	s.mu.Unlock()

	log.Debug("analytics recomputed: profile_id=%d version=%d", profileID, version)
	return summary, nil
}

func (s *analyticsService) Sessions(ctx context.Context, profileID int64) ([]models.SessionRecord, error) {
	store, err := s.histories.History(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return store.Sessions(), nil
}
