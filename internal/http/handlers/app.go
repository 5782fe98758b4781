package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"server/internal/infra"
	"server/internal/middleware"
)

// App is the handler container. Everything a handler needs comes in here at
// startup; nothing is ambient.
type App struct {
	SQL    infra.SQLExecutor
	Logger zerolog.Logger
	Cfg    *infra.Config
}

func NewApp(sql infra.SQLExecutor, logger zerolog.Logger, cfg *infra.Config) *App {
	return &App{SQL: sql, Logger: logger, Cfg: cfg}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// message writes the single-error body shape, {"message": ...}.
func (a *App) message(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, map[string]string{"message": msg})
}

// serverError logs the cause and returns a generic 500 body. Internals never
// reach the caller.
func (a *App) serverError(w http.ResponseWriter, err error) {
	a.Logger.Error().Err(err).Msg("unhandled server error")
	a.message(w, http.StatusInternalServerError, "Server error")
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// validation writes the collected field errors as {"errors":[...]}.
func (a *App) validation(w http.ResponseWriter, errs []fieldError) {
	a.json(w, http.StatusBadRequest, map[string]any{"errors": errs})
}

// parseID validates a path identifier. Malformed ids are treated the same as
// unknown ones, so callers respond NotFound.
func parseID(raw string) (string, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func pathParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

func (a *App) currentRole(r *http.Request) string {
	return middleware.RoleFromContext(r.Context())
}
