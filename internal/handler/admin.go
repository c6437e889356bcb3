package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/go-chi/chi/v5"

	"github.com/dangwonlab/dangwon/internal/model"
)

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func (h *Handler) handleListUnits(w http.ResponseWriter, r *http.Request) {
	units, err := h.store.ListUnits()
	if err != nil {
		slog.Error("failed to list units", "error", err)
		h.fail(w, r, http.StatusInternalServerError, "InternalError")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "units": units})
}

func (h *Handler) handleCreateUnit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		VideoURL string `json:"videoUrl"`
	}
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.Name) == "" {
		h.fail(w, r, http.StatusBadRequest, "BadRequest")
		return
	}

	id, err := h.store.CreateUnit(model.Unit{Name: req.Name, VideoURL: req.VideoURL})
	if err != nil {
		slog.Error("failed to create unit", "error", err)
		h.fail(w, r, http.StatusInternalServerError, "InternalError")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "id": id})
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers()
	if err != nil {
		slog.Error("failed to list users", "error", err)
		h.fail(w, r, http.StatusInternalServerError, "InternalError")
		return
	}

	type userView struct {
		ID          int64          `json:"id"`
		Username    string         `json:"username"`
		DisplayName string         `json:"displayName"`
		Role        model.UserRole `json:"role"`
		Active      bool           `json:"active"`
	}
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, userView{
			ID:          u.ID,
			Username:    u.Username,
			DisplayName: u.DisplayName,
			Role:        u.Role,
			Active:      u.Active,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "users": views})
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username    string `json:"username"`
		DisplayName string `json:"displayName"`
		Password    string `json:"password"`
		Role        string `json:"role"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, http.StatusBadRequest, "BadRequest")
		return
	}
	if req.Username == "" || req.Password == "" {
		h.fail(w, r, http.StatusBadRequest, "BadRequest")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		h.fail(w, r, http.StatusInternalServerError, "InternalError")
		return
	}

	if req.DisplayName == "" {
		req.DisplayName = req.Username
	}
	role := model.UserRole(req.Role)
	if role != model.UserRoleStudent && role != model.UserRoleTeacher && role != model.UserRoleAdmin {
		role = model.UserRoleStudent
	}

	id, err := h.store.CreateUser(model.User{
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	})
	if err != nil {
		slog.Error("failed to create user", "error", err)
		h.fail(w, r, http.StatusInternalServerError, "InternalError")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "id": id})
}

func (h *Handler) handleToggleUserActive(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "userID"))
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, "BadRequest")
		return
	}

	if err := h.store.ToggleUserActive(id); err != nil {
		slog.Error("failed to toggle user active", "id", id, "error", err)
		h.fail(w, r, http.StatusInternalServerError, "InternalError")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}
