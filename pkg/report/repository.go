package report

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines storage for reports. It embeds the soft-delete store
// surface so both delete policies dispatch through the guard.
type Repository interface {
	// Create inserts a new report.
	Create(ctx context.Context, report Report) (*Report, error)

	// FindActive returns the report if it exists and is not deleted.
	FindActive(ctx context.Context, id uuid.UUID) (Report, bool, error)

	// ListActiveByParent lists live reports against one parent.
	ListActiveByParent(ctx context.Context, parentType ParentType, parentID uuid.UUID) ([]Report, error)

	// MarkDeleted stamps deleted_at on an active report.
	MarkDeleted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)

	// Remove hard deletes a report row.
	Remove(ctx context.Context, id uuid.UUID) (bool, error)
}
