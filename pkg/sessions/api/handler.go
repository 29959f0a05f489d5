package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/openagora/agora/pkg/errors"
	"github.com/openagora/agora/pkg/httpx"
	"github.com/openagora/agora/pkg/identity"
	"github.com/openagora/agora/pkg/sessions"
)

// TokenIDParser extracts the token id from a raw bearer token so the
// listing can flag the caller's current session.
type TokenIDParser interface {
	TokenID(raw string) string
}

// Handler handles HTTP requests for session management
type Handler struct {
	service *sessions.Service
	tokens  TokenIDParser
}

// NewHandler creates a new session handler
func NewHandler(service *sessions.Service, tokens TokenIDParser) *Handler {
	return &Handler{
		service: service,
		tokens:  tokens,
	}
}

// RegisterRoutes registers the session management routes. They must be
// mounted under an authenticated route group.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ListSessions)
	r.Delete("/{id}", h.InvalidateSession)
}

// ListSessions handles GET /sessions
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	ident, err := identity.MustFromContext(r.Context())
	if err != nil {
		httpx.RenderError(w, r, err)
		return
	}

	currentTokenID := ""
	if h.tokens != nil {
		currentTokenID = h.tokens.TokenID(identity.TokenFromHeader(r))
	}

	response, err := h.service.ListActive(r.Context(), ident.ID, currentTokenID)
	if err != nil {
		httpx.RenderError(w, r, err)
		return
	}
	httpx.RenderJSON(w, r, http.StatusOK, response)
}

// InvalidateSession handles DELETE /sessions/{id}
func (h *Handler) InvalidateSession(w http.ResponseWriter, r *http.Request) {
	ident, err := identity.MustFromContext(r.Context())
	if err != nil {
		httpx.RenderError(w, r, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RenderError(w, r, errors.InvalidInput("id", "must be a valid uuid"))
		return
	}

	if err := h.service.Invalidate(r.Context(), id, ident); err != nil {
		httpx.RenderError(w, r, err)
		return
	}
	httpx.RenderNoContent(w, r)
}
