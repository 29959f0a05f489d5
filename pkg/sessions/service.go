package sessions

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openagora/agora/pkg/errors"
	"github.com/openagora/agora/pkg/identity"
)

// Service provides session lifecycle business logic. Sessions are created at
// login and read everywhere; Invalidate is the sole mutation and it is
// terminal.
type Service struct {
	repo Repository
}

// NewService creates a new session service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// Create records a new session for an identity that just logged in. The
// session starts live: deleted_at is never set at creation.
func (s *Service) Create(ctx context.Context, req CreateSessionRequest) (*Session, error) {
	if req.OwnerID == uuid.Nil {
		return nil, errors.MissingRequired("owner_id")
	}
	if !req.OwnerType.Valid() {
		return nil, errors.InvalidInput("owner_type", "unknown identity type")
	}
	if req.TokenID == "" {
		return nil, errors.MissingRequired("token_id")
	}
	if !req.ExpiresAt.After(time.Now()) {
		return nil, errors.InvalidInput("expires_at", "must be in the future")
	}

	session, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, errors.InternalWrap(err, "failed to create session")
	}
	return session, nil
}

// GetActive fetches a session that is still live. Missing, invalidated and
// expired sessions all surface as the same not-found error, so callers
// cannot tell a revoked session from one that never existed.
func (s *Service) GetActive(ctx context.Context, id uuid.UUID) (*Session, error) {
	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.InternalWrap(err, "failed to get session")
	}
	if !session.Live() {
		return nil, errors.NotFound("session", id.String())
	}
	return session, nil
}

// ListActive returns the owner-facing view of an identity's live sessions.
// The caller's own session is resolved from the token id (jti) of the bearer
// token presented with the request and flagged as current.
func (s *Service) ListActive(ctx context.Context, ownerID uuid.UUID, currentTokenID string) (*SessionListResponse, error) {
	sessions, err := s.repo.ListActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.InternalWrap(err, "failed to list sessions")
	}

	var currentID uuid.UUID
	if currentTokenID != "" {
		current, err := s.repo.GetByTokenID(ctx, currentTokenID)
		if err != nil {
			return nil, errors.InternalWrap(err, "failed to resolve current session")
		}
		if current.Live() {
			currentID = current.ID
		}
	}

	summaries := make([]SessionSummary, len(sessions))
	for i, session := range sessions {
		summaries[i] = SessionSummary{
			ID:        session.ID,
			IPAddress: session.IPAddress,
			UserAgent: session.UserAgent,
			CreatedAt: session.CreatedAt,
			ExpiresAt: session.ExpiresAt,
			Current:   session.ID == currentID,
		}
	}

	return &SessionListResponse{
		Sessions: summaries,
		Total:    len(summaries),
	}, nil
}

// Invalidate terminates a session on behalf of the given actor. Admins may
// invalidate any session; everyone else only their own. Invalidating a
// session that is missing or already invalidated fails with the same
// not-found error, and a repeat never overwrites the original stamp.
func (s *Service) Invalidate(ctx context.Context, id uuid.UUID, actor identity.Identity) error {
	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return errors.InternalWrap(err, "failed to get session")
	}
	if session == nil || session.DeletedAt != nil {
		return errors.NotFound("session", id.String())
	}

	if actor.Type != identity.TypeAdmin && session.OwnerID != actor.ID {
		return errors.Forbidden("session belongs to another identity")
	}

	applied, err := s.repo.Invalidate(ctx, id)
	if err != nil {
		return errors.InternalWrap(err, "failed to invalidate session")
	}
	if !applied {
		// Lost the race against a concurrent invalidation.
		return errors.NotFound("session", id.String())
	}

	slog.Info("Session invalidated", "sessionId", id, "actorId", actor.ID, "actorType", actor.Type)
	return nil
}

// Cleanup removes expired sessions and invalidated sessions older than the
// retention window. It is meant to run periodically.
func (s *Service) Cleanup(ctx context.Context, retention time.Duration) error {
	expired, err := s.repo.DeleteExpired(ctx)
	if err != nil {
		return errors.InternalWrap(err, "failed to delete expired sessions")
	}

	invalidated, err := s.repo.DeleteOldInvalidated(ctx, time.Now().UTC().Add(-retention))
	if err != nil {
		return errors.InternalWrap(err, "failed to delete old invalidated sessions")
	}

	if expired > 0 || invalidated > 0 {
		slog.Info("Session cleanup finished", "expired", expired, "invalidated", invalidated)
	}
	return nil
}
