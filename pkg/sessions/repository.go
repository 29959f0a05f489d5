package sessions

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines storage for session records. Lookups return (nil, nil)
// when no row exists; Invalidate is the only mutation a session ever sees
// after creation and must fail once the row is already invalidated.
type Repository interface {
	// Create records a new session.
	Create(ctx context.Context, req CreateSessionRequest) (*Session, error)

	// GetByID retrieves a session by id, invalidated or not.
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)

	// GetByTokenID retrieves a session by its token id.
	GetByTokenID(ctx context.Context, tokenID string) (*Session, error)

	// ListActiveByOwner lists live sessions belonging to one owner.
	ListActiveByOwner(ctx context.Context, ownerID uuid.UUID) ([]Session, error)

	// Invalidate stamps deleted_at on a live session. It returns
	// applied=false when the row is missing or already invalidated.
	Invalidate(ctx context.Context, id uuid.UUID) (bool, error)

	// DeleteExpired removes sessions past their expiry.
	DeleteExpired(ctx context.Context) (int64, error)

	// DeleteOldInvalidated removes sessions invalidated before the cutoff.
	DeleteOldInvalidated(ctx context.Context, before time.Time) (int64, error)
}
