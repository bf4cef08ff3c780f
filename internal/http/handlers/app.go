package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"volunteerhub/internal/checklist"
	"volunteerhub/internal/domain"
	"volunteerhub/internal/infra"
)

// App carries the handler dependencies. Audit is optional; the audit routes
// respond 404 when it is not configured.
type App struct {
	Engine *checklist.Engine
	Audit  domain.AuditRepository
	Logger infra.Logger
}

func NewApp(engine *checklist.Engine, audit domain.AuditRepository, logger infra.Logger) *App {
	return &App{Engine: engine, Audit: audit, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, codeStr, message string) {
	a.json(w, code, map[string]any{
		"error":   codeStr,
		"message": message,
	})
}

// writeError maps domain errors onto HTTP statuses. Upstream record-store
// failures surface as 502 so callers can tell them from our own faults.
func (a *App) writeError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		a.error(w, http.StatusUnprocessableEntity, "validation_failed",
			"missing or invalid: "+strings.Join(verr.Fields, ", "))
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "record not found")
	case errors.Is(err, domain.ErrUpstreamFailure):
		a.Logger.Error().Err(err).Msg("record store failure")
		a.error(w, http.StatusBadGateway, "upstream_failure", "record store request failed")
	default:
		a.Logger.Error().Err(err).Msg("unhandled error")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
