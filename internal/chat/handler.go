package chat

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/api"
	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/gemini"
)

type Handler struct {
	svc      *Service
	validate *validator.Validate
}

func NewHandler(svc *Service) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// Complete handles POST /chat/completions. The caller's timezone comes
// from the X-Timezone header; an absent or unknown zone falls back to
// the server's local zone.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	var req CompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	if req.Messages == nil {
		api.HandleError(w, api.NewBadRequestError("Messages array required"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewBadRequestError(err.Error()))
		return
	}

	loc := time.Local
	if tz := r.Header.Get("X-Timezone"); tz != "" {
		if parsed, err := time.LoadLocation(tz); err == nil {
			loc = parsed
		}
	}

	resp, err := h.svc.Complete(r.Context(), &req, loc)
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionNotFound):
			api.HandleError(w, api.NewNotFoundError("session not found"))
		case errors.Is(err, gemini.ErrInvalidResponse):
			slog.Error("model returned malformed response", "error", err)
			api.HandleError(w, api.ErrUpstream)
		default:
			slog.Error("running completion", "error", err)
			api.HandleError(w, api.ErrInternalServer)
		}
		return
	}

	api.JSON(w, http.StatusOK, resp)
}

func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.svc.ListSessions(r.Context())
	if err != nil {
		slog.Error("listing sessions", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	api.JSON(w, http.StatusOK, sessions)
}

// RenameSession handles PATCH /chat/sessions/{id} and responds with the
// refreshed session list.
func (h *Handler) RenameSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.HandleError(w, api.NewBadRequestError("invalid session id"))
		return
	}

	var req RenameSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	sessions, err := h.svc.RenameSession(r.Context(), id, req.Title)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			api.HandleError(w, api.NewNotFoundError("session not found"))
			return
		}
		slog.Error("renaming session", "error", err, "session_id", id)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	api.JSON(w, http.StatusOK, sessions)
}

// DeleteSession handles DELETE /chat/sessions/{id} and responds with
// the refreshed session list.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.HandleError(w, api.NewBadRequestError("invalid session id"))
		return
	}

	sessions, err := h.svc.DeleteSession(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			api.HandleError(w, api.NewNotFoundError("session not found"))
			return
		}
		slog.Error("deleting session", "error", err, "session_id", id)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	api.JSON(w, http.StatusOK, sessions)
}
