package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/mathadventures/internal/errors"
	"github.com/vytor/mathadventures/internal/logger"
	"github.com/vytor/mathadventures/internal/metrics"
	"github.com/vytor/mathadventures/internal/services"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	ProfileService   services.ProfileService
	GameService      services.GameService
	AnalyticsService services.AnalyticsService
	Metrics          *metrics.Metrics
	DB               Pinger
	AllowedOrigins   []string
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Warn("failed to encode response: %v", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.NewBadRequestError("invalid JSON body: " + err.Error())
	}
	return nil
}

func profileID(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		logger.FromContext(r.Context()).Warn("invalid profile id: %s", idStr)
		return 0, errors.NewBadRequestError("invalid profile id")
	}
	return id, nil
}
