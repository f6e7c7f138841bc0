package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/help-table", s.handleHelpTable)

		r.Get("/profiles", s.handleListProfiles)
		r.Post("/profiles", s.handleCreateProfile)

		r.Route("/profiles/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetProfile)
			r.Delete("/", s.handleDeleteProfile)

			r.Get("/game", s.handleGameState)
			r.Post("/game/start", s.handleStartGame)
			r.Post("/game/answer", s.handleAnswer)
			r.Post("/game/acknowledge", s.handleAcknowledge)
			r.Post("/game/help", s.handleOpenHelp)
			r.Post("/game/help/close", s.handleCloseHelp)
			r.Post("/game/finish", s.handleFinishGame)
			r.Post("/game/menu", s.handleReturnToMenu)

			r.Get("/analytics", s.handleAnalytics)
			r.Post("/analytics/open", s.handleOpenAnalytics)
			r.Post("/analytics/close", s.handleCloseAnalytics)
			r.Get("/sessions", s.handleSessions)
		})
	})
	return r
}
