package audit

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines append-only storage for audit entries. Append and the
// lookups are the whole surface: there is no update and no delete.
type Repository interface {
	// Append records a new entry.
	Append(ctx context.Context, req AppendEntryRequest) (*Entry, error)

	// GetByID retrieves an entry, returning (nil, nil) when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)

	// ListByEntity lists entries for one entity, newest first.
	ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]Entry, error)
}
