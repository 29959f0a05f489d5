package identity

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines point lookups against the four identity tables.
// Find* methods return (nil, nil) when no row exists; a non-nil Record may
// still be soft deleted or inactive — callers decide with Record.Live.
type Repository interface {
	// Liveness lookups, one per variant. Each is a single point read by
	// primary key returning deleted_at and, where the table has it,
	// is_active.
	FindGuest(ctx context.Context, id uuid.UUID) (*Record, error)
	FindMember(ctx context.Context, id uuid.UUID) (*Record, error)
	FindAdmin(ctx context.Context, id uuid.UUID) (*Record, error)
	FindAdminUser(ctx context.Context, id uuid.UUID) (*Record, error)

	// Enrollment and credential lookups used by the login flows.
	CreateGuest(ctx context.Context) (*Guest, error)
	GetMemberByEmail(ctx context.Context, email string) (*Member, error)
	GetAdminByEmail(ctx context.Context, email string) (*Admin, error)
}

// LookupFor returns the liveness lookup matching the given discriminator.
func LookupFor(repo Repository, typ Type) RecordLookup {
	switch typ {
	case TypeGuest:
		return repo.FindGuest
	case TypeMember:
		return repo.FindMember
	case TypeAdmin:
		return repo.FindAdmin
	case TypeAdminUser:
		return repo.FindAdminUser
	}
	return nil
}
