package category

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNameTaken is returned by Create when another active category already
// holds the requested name. The storage constraint is the backstop behind
// the service's pre-insert probe.
var ErrNameTaken = errors.New("category name already taken")

// Repository defines storage for categories. It embeds the soft-delete
// store surface (FindActive, MarkDeleted, Remove) so the guard can drive
// reads and deletes, plus the category-specific operations.
type Repository interface {
	// Create inserts a new category. The storage layer enforces name
	// uniqueness among active rows and reports a violation as
	// ErrNameTaken.
	Create(ctx context.Context, req CreateCategoryRequest) (*Category, error)

	// FindActive returns the category if it exists and is not deleted.
	FindActive(ctx context.Context, id uuid.UUID) (Category, bool, error)

	// FindActiveByName probes for an active category with the given name.
	FindActiveByName(ctx context.Context, name string) (*Category, error)

	// GetAny retrieves a category regardless of deletion state,
	// returning (nil, nil) when no row exists at all.
	GetAny(ctx context.Context, id uuid.UUID) (*Category, error)

	// ListActive lists all active categories by name.
	ListActive(ctx context.Context) ([]Category, error)

	// MarkDeleted stamps deleted_at on an active category.
	MarkDeleted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)

	// Remove hard deletes a category row.
	Remove(ctx context.Context, id uuid.UUID) (bool, error)
}
