package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/openagora/agora/pkg/errors"
	"github.com/openagora/agora/pkg/httpx"
)

// Handler handles HTTP requests for categories
type Handler struct {
	service *Service
}

// NewHandler creates a new category handler
func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterPublicRoutes registers the routes any authenticated identity can
// reach.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/", h.ListCategories)
	r.Get("/{id}", h.GetCategory)
}

// RegisterAdminRoutes registers the moderation routes.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/", h.CreateCategory)
	r.Delete("/{id}", h.DeleteCategory)
}

// RegisterAdminUserRoutes registers the operator-only routes.
func (h *Handler) RegisterAdminUserRoutes(r chi.Router) {
	r.Get("/{id}", h.GetAnyCategory)
}

// ListCategories handles GET /categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context())
	if err != nil {
		httpx.RenderError(w, r, err)
		return
	}
	httpx.RenderJSON(w, r, http.StatusOK, categories)
}

// GetCategory handles GET /categories/{id}
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RenderError(w, r, errors.InvalidInput("id", "must be a valid uuid"))
		return
	}

	category, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RenderError(w, r, err)
		return
	}
	httpx.RenderJSON(w, r, http.StatusOK, category)
}

// GetAnyCategory handles GET /admin/categories/{id}; unlike GetCategory it
// also returns deleted categories.
func (h *Handler) GetAnyCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RenderError(w, r, errors.InvalidInput("id", "must be a valid uuid"))
		return
	}

	category, err := h.service.GetAny(r.Context(), id)
	if err != nil {
		httpx.RenderError(w, r, err)
		return
	}
	httpx.RenderJSON(w, r, http.StatusOK, category)
}

// CreateCategory handles POST /categories
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		httpx.RenderError(w, r, errors.InvalidInput("body", "must be valid JSON"))
		return
	}

	category, err := h.service.Create(r.Context(), req)
	if err != nil {
		httpx.RenderError(w, r, err)
		return
	}
	httpx.RenderJSON(w, r, http.StatusCreated, category)
}

// DeleteCategory handles DELETE /categories/{id}
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RenderError(w, r, errors.InvalidInput("id", "must be a valid uuid"))
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RenderError(w, r, err)
		return
	}
	httpx.RenderNoContent(w, r)
}
