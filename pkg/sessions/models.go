package sessions

import (
	"time"

	"github.com/google/uuid"

	"github.com/openagora/agora/pkg/identity"
)

// Session is one issued-token record. DeletedAt is the invalidation stamp:
// nil means the session is live, non-nil means it was invalidated and can
// never come back.
type Session struct {
	ID        uuid.UUID     `json:"id"`
	OwnerID   uuid.UUID     `json:"owner_id"`
	OwnerType identity.Type `json:"owner_type"`
	TokenID   string        `json:"token_id"`
	IPAddress string        `json:"ip_address,omitempty"`
	UserAgent string        `json:"user_agent,omitempty"`
	ExpiresAt time.Time     `json:"expires_at"`
	CreatedAt time.Time     `json:"created_at"`
	DeletedAt *time.Time    `json:"deleted_at,omitempty"`
}

// Live reports whether the session can still back requests.
func (s *Session) Live() bool {
	if s == nil {
		return false
	}
	if s.DeletedAt != nil {
		return false
	}
	return s.ExpiresAt.After(time.Now())
}

// CreateSessionRequest is the input for recording a new session.
type CreateSessionRequest struct {
	OwnerID   uuid.UUID     `json:"owner_id"`
	OwnerType identity.Type `json:"owner_type"`
	TokenID   string        `json:"token_id"`
	IPAddress string        `json:"ip_address,omitempty"`
	UserAgent string        `json:"user_agent,omitempty"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// SessionSummary is the owner-facing view of a session.
type SessionSummary struct {
	ID        uuid.UUID `json:"id"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Current   bool      `json:"current"`
}

// SessionListResponse wraps a listing of active sessions.
type SessionListResponse struct {
	Sessions []SessionSummary `json:"sessions"`
	Total    int              `json:"total"`
}
