package api

import (
	"net/http"

	"github.com/vytor/mathadventures/internal/models"
)

type analyticsResponse struct {
	// Summary is null until the profile has finished a session.
	Summary *models.AnalyticsSummary `json:"summary"`
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	id, err := profileID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	summary, err := s.AnalyticsService.Summary(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, analyticsResponse{Summary: summary})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	id, err := profileID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	sessions, err := s.AnalyticsService.Sessions(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sessions)
}

func (s *Server) handleOpenAnalytics(w http.ResponseWriter, r *http.Request) {
	s.gameEvent(w, r, s.GameService.OpenAnalytics)
}

func (s *Server) handleCloseAnalytics(w http.ResponseWriter, r *http.Request) {
	s.gameEvent(w, r, s.GameService.CloseAnalytics)
}
