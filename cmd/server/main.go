package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/mathadventures/internal/api"
	"github.com/vytor/mathadventures/internal/config"
	"github.com/vytor/mathadventures/internal/db"
	"github.com/vytor/mathadventures/internal/jobs"
	"github.com/vytor/mathadventures/internal/logger"
	"github.com/vytor/mathadventures/internal/mathgen"
	"github.com/vytor/mathadventures/internal/metrics"
	"github.com/vytor/mathadventures/internal/repository"
	"github.com/vytor/mathadventures/internal/repository/redis"
	"github.com/vytor/mathadventures/internal/repository/sqlite"
	"github.com/vytor/mathadventures/internal/services"
	"github.com/vytor/mathadventures/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Math Adventures Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	rules, err := config.LoadRules(cfg.RulesPath)
	if err != nil {
		log.Error("failed to load rules: %v", err)
		os.Exit(1)
	}

	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("history_backend=%s", cfg.HistoryBackend)
	log.Debug("persist_worker_count=%d", cfg.PersistWorkerCount)
	log.Debug("persist_queue_size=%d", cfg.PersistQueueSize)
	log.Debug("cors_allowed_origins=%v", cfg.CORSAllowedOrigins)
	log.Debug("session_seconds=%d history_limit=%d max_operand=%d",
		rules.SessionSeconds, rules.HistoryLimit, rules.MaxOperand)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	profileRepo := sqlite.NewProfileRepository(database.DB)
	var historyRepo repository.HistoryRepository
	switch cfg.HistoryBackend {
	case config.BackendRedis:
		client, err := redis.NewClient(ctx, redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Error("failed to connect to redis at %s: %v", cfg.RedisAddr, err)
			os.Exit(1)
		}
		defer client.Close()
		historyRepo = redis.NewHistoryRepository(client)
	default:
		historyRepo = sqlite.NewHistoryRepository(database.DB)
	}
	log.Info("history backend: %s", cfg.HistoryBackend)

	m := metrics.New()

	persistPool := worker.NewPool(cfg.PersistWorkerCount, cfg.PersistQueueSize)
	persistPool.OnFailure = func(job worker.Job, err error) {
		m.PersistFailed()
	}
	persistPool.Start(ctx)

	gameService := services.NewGameService(
		profileRepo,
		historyRepo,
		jobs.NewWorkerQueue(persistPool, m),
		mathgen.New(rules.MaxOperand),
		m,
		rules,
	)

	srv := &api.Server{
		ProfileService:   services.NewProfileService(profileRepo, historyRepo, gameService),
		GameService:      gameService,
		AnalyticsService: services.NewAnalyticsService(gameService),
		Metrics:          m,
		DB:               database,
		AllowedOrigins:   cfg.CORSAllowedOrigins,
	}

	timerCtx, stopTimer := context.WithCancel(ctx)
	timerDone := make(chan struct{})
	go func() {
		defer close(timerDone)
		gameService.RunTimer(timerCtx)
	}()

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping game timer")
	stopTimer()
	<-timerDone

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Queued history writes finish before the database closes.
	log.Debug("stopping persist pool")
	persistPool.Stop()

	log.Info("===========================================")
	log.Info("Math Adventures Server Stopped")
	log.Info("===========================================")
}
