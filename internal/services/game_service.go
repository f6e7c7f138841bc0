package services

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/vytor/mathadventures/internal/config"
	"github.com/vytor/mathadventures/internal/errors"
	"github.com/vytor/mathadventures/internal/game"
	"github.com/vytor/mathadventures/internal/history"
	"github.com/vytor/mathadventures/internal/jobs"
	"github.com/vytor/mathadventures/internal/logger"
	"github.com/vytor/mathadventures/internal/metrics"
	"github.com/vytor/mathadventures/internal/models"
	"github.com/vytor/mathadventures/internal/repository"
)

// AnswerResult is the outcome of an answer together with the updated game.
type AnswerResult struct {
	Outcome game.Outcome `json:"outcome"`
	Game    game.View    `json:"game"`
}

// GameService drives one game per profile.
type GameService interface {
	State(ctx context.Context, profileID int64) (game.View, error)
	Start(ctx context.Context, profileID int64, mode, level string) (game.View, error)
	Answer(ctx context.Context, profileID int64, choice int) (*AnswerResult, error)
	Acknowledge(ctx context.Context, profileID int64) (game.View, error)
	OpenHelp(ctx context.Context, profileID int64) (game.View, error)
	CloseHelp(ctx context.Context, profileID int64) (game.View, error)
	Finish(ctx context.Context, profileID int64) (*models.SessionRecord, error)
	ReturnToMenu(ctx context.Context, profileID int64) (game.View, error)
	OpenAnalytics(ctx context.Context, profileID int64) (game.View, error)
	CloseAnalytics(ctx context.Context, profileID int64) (game.View, error)
	// History returns the profile's session store, loading it on first use.
	History(ctx context.Context, profileID int64) (*history.Store, error)
	// Forget drops the in-memory state of a deleted profile and closes its
	// history so pending writes are discarded.
	Forget(profileID int64)
	// TickAll advances every timed game by one second.
	TickAll(ctx context.Context)
	// RunTimer calls TickAll every second until ctx is done.
	RunTimer(ctx context.Context)
}

type player struct {
	mu    sync.Mutex
	game  *game.Game
	store *history.Store
}

type gameService struct {
	profileRepo repository.ProfileRepository
	historyRepo repository.HistoryRepository
	queue       jobs.JobQueue
	questions   game.QuestionSource
	metrics     *metrics.Metrics
	rules       config.Rules
	now         func() time.Time
	tick        time.Duration

	mu      sync.Mutex
	players map[int64]*player
}

type GameServiceOption func(*gameService)

func WithGameClock(now func() time.Time) GameServiceOption {
	return func(s *gameService) { s.now = now }
}

func WithTickInterval(d time.Duration) GameServiceOption {
	return func(s *gameService) { s.tick = d }
}

// NewGameService creates a new GameService
func NewGameService(
	profileRepo repository.ProfileRepository,
	historyRepo repository.HistoryRepository,
	queue jobs.JobQueue,
	questions game.QuestionSource,
	m *metrics.Metrics,
	rules config.Rules,
	opts ...GameServiceOption,
) GameService {
	s := &gameService{
		profileRepo: profileRepo,
		historyRepo: historyRepo,
		queue:       queue,
		questions:   questions,
		metrics:     m,
		rules:       rules,
		now:         time.Now,
		tick:        time.Second,
		players:     map[int64]*player{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *gameService) player(ctx context.Context, profileID int64) (*player, error) {
	s.mu.Lock()
	p, ok := s.players[profileID]
	s.mu.Unlock()
	if ok {
		return p, nil
	}

	log := logger.FromContext(ctx).WithField("profile_id", profileID)
	profile, err := s.profileRepo.Get(ctx, profileID)
	if err != nil {
		log.Error("failed to get profile: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if profile == nil {
		return nil, errors.NewNotFoundError("profile", profileID)
	}

	store, err := history.Open(ctx, s.historyRepo, repository.HistoryKey(profileID), s.rules.HistoryLimit)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// A concurrent first access may have loaded the same player.
	if existing, ok := s.players[profileID]; ok {
		return existing, nil
	}
	p = &player{
		game: game.New(s.questions,
			game.WithClock(s.now),
			game.WithSessionSeconds(s.rules.SessionSeconds),
		),
		store: store,
	}
	s.players[profileID] = p
	log.Debug("player loaded with %d sessions", len(store.Sessions()))
	return p, nil
}

// apply runs an event against the player's game under its lock.
func (s *gameService) apply(ctx context.Context, profileID int64, event func(*player) error) (game.View, error) {
	p, err := s.player(ctx, profileID)
	if err != nil {
		return game.View{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := event(p); err != nil {
		return game.View{}, translateGameError(err)
	}
	return p.game.View(), nil
}

func translateGameError(err error) error {
	if stderrors.Is(err, game.ErrInvalidTransition) {
		return errors.NewInvalidStateError(err)
	}
	return err
}

func (s *gameService) State(ctx context.Context, profileID int64) (game.View, error) {
	return s.apply(ctx, profileID, func(*player) error { return nil })
}

func (s *gameService) Start(ctx context.Context, profileID int64, mode, level string) (game.View, error) {
	gameMode, err := models.ParseGameMode(mode)
	if err != nil {
		return game.View{}, errors.NewValidationError("mode", "must be TIMED or RELAXED")
	}
	gameLevel, err := models.ParseDifficultyLevel(level)
	if err != nil {
		return game.View{}, errors.NewValidationError("level", "must be BASIC or ADVANCED")
	}

	view, err := s.apply(ctx, profileID, func(p *player) error {
		return p.game.Start(gameMode, gameLevel)
	})
	if err == nil {
		logger.FromContext(ctx).Info("session started: profile_id=%d mode=%s level=%s", profileID, gameMode, gameLevel)
	}
	return view, err
}

func (s *gameService) Answer(ctx context.Context, profileID int64, choice int) (*AnswerResult, error) {
	var out game.Outcome
	view, err := s.apply(ctx, profileID, func(p *player) error {
		var err error
		out, err = p.game.Answer(choice)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveAnswer(out.Result.IsCorrect, time.Duration(out.Result.TimeTaken)*time.Millisecond)
	logger.FromContext(ctx).Debug("answer recorded: profile_id=%d correct=%t time_ms=%d",
		profileID, out.Result.IsCorrect, out.Result.TimeTaken)
	return &AnswerResult{Outcome: out, Game: view}, nil
}

func (s *gameService) Acknowledge(ctx context.Context, profileID int64) (game.View, error) {
	return s.apply(ctx, profileID, func(p *player) error { return p.game.Acknowledge() })
}

func (s *gameService) OpenHelp(ctx context.Context, profileID int64) (game.View, error) {
	return s.apply(ctx, profileID, func(p *player) error { return p.game.OpenHelp() })
}

func (s *gameService) CloseHelp(ctx context.Context, profileID int64) (game.View, error) {
	return s.apply(ctx, profileID, func(p *player) error { return p.game.CloseHelp() })
}

func (s *gameService) Finish(ctx context.Context, profileID int64) (*models.SessionRecord, error) {
	var rec models.SessionRecord
	_, err := s.apply(ctx, profileID, func(p *player) error {
		var err error
		rec, err = p.game.Finish()
		if err != nil {
			return err
		}
		s.recordFinished(ctx, profileID, p, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *gameService) ReturnToMenu(ctx context.Context, profileID int64) (game.View, error) {
	return s.apply(ctx, profileID, func(p *player) error { return p.game.ReturnToMenu() })
}

func (s *gameService) OpenAnalytics(ctx context.Context, profileID int64) (game.View, error) {
	return s.apply(ctx, profileID, func(p *player) error { return p.game.OpenAnalytics() })
}

func (s *gameService) CloseAnalytics(ctx context.Context, profileID int64) (game.View, error) {
	return s.apply(ctx, profileID, func(p *player) error { return p.game.CloseAnalytics() })
}

func (s *gameService) History(ctx context.Context, profileID int64) (*history.Store, error) {
	p, err := s.player(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return p.store, nil
}

func (s *gameService) Forget(profileID int64) {
	s.mu.Lock()
	p, ok := s.players[profileID]
	delete(s.players, profileID)
	s.mu.Unlock()
	if !ok {
		return
	}

	// Queued persist jobs and a tick already holding p keep the store;
	// closing it makes their writes no-ops.
	p.mu.Lock()
	defer p.mu.Unlock()
	p.store.Close()
}

// recordFinished adds the record to the history and schedules a write.
// Callers hold p.mu.
func (s *gameService) recordFinished(ctx context.Context, profileID int64, p *player, rec models.SessionRecord) {
	log := logger.FromContext(ctx).WithField("profile_id", profileID)
	version := p.store.Add(rec)
	s.metrics.ObserveSessionFinished(string(rec.Mode), string(rec.Level))
	log.Info("session finished: score=%d accuracy=%d history_version=%d", rec.Score, rec.Accuracy, version)

	if err := s.queue.EnqueuePersist(p.store); err != nil {
		log.Warn("could not queue history write, saving inline: %v", err)
		if err := p.store.Persist(ctx); err != nil {
			s.metrics.PersistFailed()
			log.Error("failed to save history: %v", err)
		}
	}
}

func (s *gameService) TickAll(ctx context.Context) {
	s.mu.Lock()
	players := make(map[int64]*player, len(s.players))
	for id, p := range s.players {
		players[id] = p
	}
	s.mu.Unlock()

	active := 0
	for id, p := range players {
		p.mu.Lock()
		if rec := p.game.Tick(); rec != nil {
			s.recordFinished(ctx, id, p, *rec)
		}
		if p.game.State() == models.StatePlaying {
			active++
		}
		p.mu.Unlock()
	}
	s.metrics.SetActiveGames(active)
}

func (s *gameService) RunTimer(ctx context.Context) {
	log := logger.FromContext(ctx).WithPrefix("timer")
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	log.Debug("game timer started: interval=%v", s.tick)
	for {
		select {
		case <-ctx.Done():
			log.Debug("game timer stopped")
			return
		case <-ticker.C:
			s.TickAll(ctx)
		}
	}
}
