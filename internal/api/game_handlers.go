package api

import (
	"context"
	"net/http"

	"github.com/vytor/mathadventures/internal/errors"
	"github.com/vytor/mathadventures/internal/game"
)

type startGameRequest struct {
	Mode  string `json:"mode"`
	Level string `json:"level"`
}

type answerRequest struct {
	Choice *int `json:"choice"`
}

// gameEvent runs a view-returning game event for the profile in the URL.
func (s *Server) gameEvent(w http.ResponseWriter, r *http.Request, event func(ctx context.Context, id int64) (game.View, error)) {
	id, err := profileID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	view, err := event(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
	s.gameEvent(w, r, s.GameService.State)
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	var req startGameRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	s.gameEvent(w, r, func(ctx context.Context, id int64) (game.View, error) {
		return s.GameService.Start(ctx, id, req.Mode, req.Level)
	})
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	id, err := profileID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Choice == nil {
		handleError(w, r, errors.NewValidationError("choice", "required"))
		return
	}

	res, err := s.GameService.Answer(r.Context(), id, *req.Choice)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	s.gameEvent(w, r, s.GameService.Acknowledge)
}

func (s *Server) handleOpenHelp(w http.ResponseWriter, r *http.Request) {
	s.gameEvent(w, r, s.GameService.OpenHelp)
}

func (s *Server) handleCloseHelp(w http.ResponseWriter, r *http.Request) {
	s.gameEvent(w, r, s.GameService.CloseHelp)
}

func (s *Server) handleFinishGame(w http.ResponseWriter, r *http.Request) {
	id, err := profileID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	rec, err := s.GameService.Finish(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}

func (s *Server) handleReturnToMenu(w http.ResponseWriter, r *http.Request) {
	s.gameEvent(w, r, s.GameService.ReturnToMenu)
}

func (s *Server) handleHelpTable(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string][][]int{"table": game.HelpTable()})
}
