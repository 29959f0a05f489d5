package report

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/openagora/agora/pkg/errors"
	"github.com/openagora/agora/pkg/httpx"
	"github.com/openagora/agora/pkg/identity"
)

// Handler handles HTTP requests for reports
type Handler struct {
	service *Service
}

// NewHandler creates a new report handler
func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterMemberRoutes registers the member-facing filing routes.
func (h *Handler) RegisterMemberRoutes(r chi.Router) {
	r.Post("/posts/{postId}/reports", h.FilePostReport)
	r.Post("/comments/{commentId}/reports", h.FileCommentReport)
}

// RegisterAdminRoutes registers the moderation routes.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Delete("/reports/{id}", h.ResolveReport)
}

// FilePostReport handles POST /posts/{postId}/reports
func (h *Handler) FilePostReport(w http.ResponseWriter, r *http.Request) {
	h.fileReport(w, r, ParentTypePost, chi.URLParam(r, "postId"))
}

// FileCommentReport handles POST /comments/{commentId}/reports
func (h *Handler) FileCommentReport(w http.ResponseWriter, r *http.Request) {
	h.fileReport(w, r, ParentTypeComment, chi.URLParam(r, "commentId"))
}

func (h *Handler) fileReport(w http.ResponseWriter, r *http.Request, parentType ParentType, rawParentID string) {
	ident, err := identity.MustFromContext(r.Context())
	if err != nil {
		httpx.RenderError(w, r, err)
		return
	}

	parentID, err := uuid.Parse(rawParentID)
	if err != nil {
		httpx.RenderError(w, r, errors.InvalidInput("parent id", "must be a valid uuid"))
		return
	}

	var req FileReportRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		httpx.RenderError(w, r, errors.InvalidInput("body", "must be valid JSON"))
		return
	}

	report, err := h.service.File(r.Context(), ident.ID, parentType, parentID, req)
	if err != nil {
		httpx.RenderError(w, r, err)
		return
	}
	httpx.RenderJSON(w, r, http.StatusCreated, report)
}

// ResolveReport handles DELETE /reports/{id}
func (h *Handler) ResolveReport(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RenderError(w, r, errors.InvalidInput("id", "must be a valid uuid"))
		return
	}

	if err := h.service.Resolve(r.Context(), id); err != nil {
		httpx.RenderError(w, r, err)
		return
	}
	httpx.RenderNoContent(w, r)
}
