package login

import (
	"time"

	"github.com/openagora/agora/pkg/identity"
)

// LoginRequest is the credential payload for member and admin logins.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ClientInfo carries request metadata recorded on the session.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// LoginResponse is returned on any successful login or guest enrollment.
type LoginResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	Identity  identity.Identity `json:"identity"`
}
