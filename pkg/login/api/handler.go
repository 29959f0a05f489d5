package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/openagora/agora/pkg/errors"
	"github.com/openagora/agora/pkg/httpx"
	"github.com/openagora/agora/pkg/login"
)

// Handler handles HTTP requests for authentication
type Handler struct {
	service *login.Service
}

// NewHandler creates a new login handler
func NewHandler(service *login.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers the public authentication routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/login/member", h.LoginMember)
	r.Post("/login/admin", h.LoginAdmin)
	r.Post("/guests", h.EnrollGuest)
}

// LoginMember handles POST /login/member
func (h *Handler) LoginMember(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.service.LoginMember)
}

// LoginAdmin handles POST /login/admin
func (h *Handler) LoginAdmin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.service.LoginAdmin)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request,
	authenticate func(ctx context.Context, req login.LoginRequest, client login.ClientInfo) (*login.LoginResponse, error),
) {
	var req login.LoginRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		httpx.RenderError(w, r, errors.InvalidInput("body", "must be valid JSON"))
		return
	}
	if req.Email == "" {
		httpx.RenderError(w, r, errors.MissingRequired("email"))
		return
	}
	if req.Password == "" {
		httpx.RenderError(w, r, errors.MissingRequired("password"))
		return
	}

	response, err := authenticate(r.Context(), req, clientInfo(r))
	if err != nil {
		httpx.RenderError(w, r, err)
		return
	}
	httpx.RenderJSON(w, r, http.StatusOK, response)
}

// EnrollGuest handles POST /guests
func (h *Handler) EnrollGuest(w http.ResponseWriter, r *http.Request) {
	response, err := h.service.EnrollGuest(r.Context(), clientInfo(r))
	if err != nil {
		httpx.RenderError(w, r, err)
		return
	}
	httpx.RenderJSON(w, r, http.StatusCreated, response)
}

func clientInfo(r *http.Request) login.ClientInfo {
	return login.ClientInfo{
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
}
