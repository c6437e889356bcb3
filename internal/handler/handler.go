package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dangwonlab/dangwon/internal/exam"
	appI18n "github.com/dangwonlab/dangwon/internal/i18n"
	"github.com/dangwonlab/dangwon/internal/model"
	"github.com/dangwonlab/dangwon/internal/store"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store *store.Store
	exams *exam.Service
}

// New creates a new Handler.
func New(s *store.Store, svc *exam.Service) *Handler {
	return &Handler{store: s, exams: svc}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/api/auth/login", h.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)

		r.Post("/api/auth/logout", h.handleLogout)
		r.Get("/api/units", h.handleListUnits)

		r.Group(func(r chi.Router) {
			r.Use(requireRole(model.UserRoleTeacher, model.UserRoleAdmin))
			r.Post("/api/unit-exam/generate", h.handleGenerate)
			r.Get("/api/unit-exam/{code}/results", h.handleResults)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireRole(model.UserRoleStudent))
			r.Post("/api/unit-exam/verify", h.handleVerify)
			r.Post("/api/unit-exam/start", h.handleStart)
			r.Get("/api/unit-exam/{code}/questions", h.handleQuestions)
			r.Post("/api/unit-exam/{code}/submit", h.handleSubmit)
			r.Post("/api/solves/{solveID}/recheck", h.handleRecheck)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireRole(model.UserRoleAdmin))
			r.Post("/api/admin/units", h.handleCreateUnit)
			r.Get("/api/admin/users", h.handleListUsers)
			r.Post("/api/admin/users", h.handleCreateUser)
			r.Post("/api/admin/users/{userID}/toggle", h.handleToggleUserActive)
		})
	})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// fail writes a localized {success:false, error} response.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, msgID string) {
	respondJSON(w, status, map[string]any{
		"success": false,
		"error":   appI18n.T(r.Context(), msgID),
	})
}

// failFromErr maps domain errors to HTTP statuses and localized messages.
func (h *Handler) failFromErr(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			h.fail(w, r, m.status, m.msgID)
			return
		}
	}
	slog.Error("request failed", "error", err)
	h.fail(w, r, http.StatusInternalServerError, "InternalError")
}

var errorMappings = []struct {
	err    error
	status int
	msgID  string
}{
	{exam.ErrNoUnits, http.StatusBadRequest, "ErrNoUnits"},
	{exam.ErrBadQuestionCount, http.StatusBadRequest, "ErrBadQuestionCount"},
	{exam.ErrCountBelowUnits, http.StatusBadRequest, "ErrCountBelowUnits"},
	{exam.ErrBadTimer, http.StatusBadRequest, "ErrBadTimer"},
	{exam.ErrBadCode, http.StatusBadRequest, "ErrBadCode"},
	{exam.ErrNoAnswers, http.StatusBadRequest, "ErrNoAnswers"},
	{exam.ErrNoAPIKey, http.StatusServiceUnavailable, "ErrNoAPIKey"},
	{exam.ErrGenerationFailed, http.StatusBadGateway, "ErrGenerationFailed"},
	{exam.ErrInsufficientQuestions, http.StatusBadGateway, "ErrInsufficientQuestions"},
	{exam.ErrCodeExhausted, http.StatusInternalServerError, "ErrCodeExhausted"},
	{exam.ErrExamNotFound, http.StatusNotFound, "ErrExamNotFound"},
	{exam.ErrSolveNotFound, http.StatusNotFound, "ErrSolveNotFound"},
	{exam.ErrNotOwner, http.StatusForbidden, "ErrNotOwner"},
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
