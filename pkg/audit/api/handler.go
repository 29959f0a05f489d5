package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/openagora/agora/pkg/audit"
	"github.com/openagora/agora/pkg/errors"
	"github.com/openagora/agora/pkg/httpx"
)

// Handler handles HTTP requests for the audit trail
type Handler struct {
	service *audit.Service
}

// NewHandler creates a new audit handler
func NewHandler(service *audit.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers the audit lookup routes. They must be mounted
// under an admin-authenticated route group.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/audit-logs/{id}", h.GetEntry)
	r.Get("/posts/{postId}/moderation-logs/{logId}", h.GetModerationLog)
}

// GetEntry handles GET /audit-logs/{id}
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RenderError(w, r, errors.InvalidInput("id", "must be a valid uuid"))
		return
	}

	entry, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RenderError(w, r, err)
		return
	}
	httpx.RenderJSON(w, r, http.StatusOK, entry)
}

// GetModerationLog handles GET /posts/{postId}/moderation-logs/{logId}
func (h *Handler) GetModerationLog(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(chi.URLParam(r, "postId"))
	if err != nil {
		httpx.RenderError(w, r, errors.InvalidInput("postId", "must be a valid uuid"))
		return
	}
	logID, err := uuid.Parse(chi.URLParam(r, "logId"))
	if err != nil {
		httpx.RenderError(w, r, errors.InvalidInput("logId", "must be a valid uuid"))
		return
	}

	entry, err := h.service.GetModerationLog(r.Context(), postID, logID)
	if err != nil {
		httpx.RenderError(w, r, err)
		return
	}
	httpx.RenderJSON(w, r, http.StatusOK, entry)
}
