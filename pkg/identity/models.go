package identity

import (
	"time"

	"github.com/google/uuid"
)

// Type is the role discriminator carried inside a bearer token. It selects
// which backing table an identity resolves against and which authorizer
// accepts it.
type Type string

const (
	TypeGuest     Type = "guest"
	TypeMember    Type = "member"
	TypeAdmin     Type = "admin"
	TypeAdminUser Type = "adminUser"
)

// Valid reports whether t is one of the known discriminators.
func (t Type) Valid() bool {
	switch t {
	case TypeGuest, TypeMember, TypeAdmin, TypeAdminUser:
		return true
	}
	return false
}

// Identity is the decoded claims payload of a verified bearer token: the
// subject's row id in its own identity table plus the role discriminator.
// Callers must not infer anything beyond these two fields from it.
type Identity struct {
	ID   uuid.UUID `json:"id"`
	Type Type      `json:"type"`
}

// Record is the liveness view of one identity row. IsActive is nil for
// variants whose table has no is_active column (guests, members).
type Record struct {
	ID        uuid.UUID  `json:"id"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	IsActive  *bool      `json:"is_active,omitempty"`
}

// Live reports whether the record can still authorize requests: not soft
// deleted, and active where the variant tracks activity.
func (r *Record) Live() bool {
	if r == nil {
		return false
	}
	if r.DeletedAt != nil {
		return false
	}
	if r.IsActive != nil && !*r.IsActive {
		return false
	}
	return true
}

// Guest is an anonymous enrolled visitor.
type Guest struct {
	ID        uuid.UUID  `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Member is a registered community member.
type Member struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Admin is a staff moderator account.
type Admin struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// AdminUser is a privileged operator account with platform-level access.
type AdminUser struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}
