// Package softdelete provides a small guard that centralizes the soft-delete
// lifecycle shared by the platform's resources: active-only reads, a single
// terminal delete, and a uniform "already deleted looks like never existed"
// surface.
package softdelete

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/openagora/agora/pkg/errors"
)

// Policy selects what Delete does to the backing row.
type Policy int

const (
	// PolicySoft stamps deleted_at and keeps the row.
	PolicySoft Policy = iota
	// PolicyHard removes the row outright.
	PolicyHard
)

// Store is the storage surface a guarded resource must expose. FindActive
// returns ok=false both when no row exists and when the row is already
// deleted; MarkDeleted and Remove return applied=false in the same two
// cases, so a repeated delete cannot succeed twice.
type Store[T any] interface {
	FindActive(ctx context.Context, id uuid.UUID) (T, bool, error)
	MarkDeleted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	Remove(ctx context.Context, id uuid.UUID) (bool, error)
}

// Guard wraps a Store with the platform's read/delete semantics for one
// resource kind.
type Guard[T any] struct {
	store    Store[T]
	resource string
	policy   Policy
}

// NewGuard creates a guard for the named resource kind.
func NewGuard[T any](store Store[T], resource string, policy Policy) *Guard[T] {
	return &Guard[T]{store: store, resource: resource, policy: policy}
}

// Policy returns the delete policy this guard applies.
func (g *Guard[T]) Policy() Policy {
	return g.policy
}

// ReadActive fetches the row if it exists and is not deleted. A deleted row
// is indistinguishable from a missing one.
func (g *Guard[T]) ReadActive(ctx context.Context, id uuid.UUID) (T, error) {
	var zero T
	value, ok, err := g.store.FindActive(ctx, id)
	if err != nil {
		return zero, errors.InternalWrap(err, "failed to read "+g.resource)
	}
	if !ok {
		return zero, errors.NotFound(g.resource, id.String())
	}
	return value, nil
}

// Delete removes the row according to the guard's policy. Deleting a row
// that is missing or already deleted fails with the same not-found error.
func (g *Guard[T]) Delete(ctx context.Context, id uuid.UUID) error {
	var applied bool
	var err error
	switch g.policy {
	case PolicyHard:
		applied, err = g.store.Remove(ctx, id)
	default:
		applied, err = g.store.MarkDeleted(ctx, id, time.Now().UTC())
	}
	if err != nil {
		return errors.InternalWrap(err, "failed to delete "+g.resource)
	}
	if !applied {
		return errors.NotFound(g.resource, id.String())
	}
	return nil
}
