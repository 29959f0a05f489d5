package identity

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRepository implements Repository using in-memory storage. It is
// used by tests and by the in-memory demo server.
type InMemoryRepository struct {
	mu         sync.RWMutex
	guests     map[uuid.UUID]Guest
	members    map[uuid.UUID]Member
	admins     map[uuid.UUID]Admin
	adminUsers map[uuid.UUID]AdminUser
}

// NewInMemoryRepository creates a new in-memory identity repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		guests:     make(map[uuid.UUID]Guest),
		members:    make(map[uuid.UUID]Member),
		admins:     make(map[uuid.UUID]Admin),
		adminUsers: make(map[uuid.UUID]AdminUser),
	}
}

var _ Repository = (*InMemoryRepository)(nil)

// FindGuest looks up a guest row.
func (r *InMemoryRepository) FindGuest(ctx context.Context, id uuid.UUID) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	guest, ok := r.guests[id]
	if !ok {
		return nil, nil
	}
	return &Record{ID: guest.ID, DeletedAt: guest.DeletedAt}, nil
}

// FindMember looks up a member row.
func (r *InMemoryRepository) FindMember(ctx context.Context, id uuid.UUID) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	member, ok := r.members[id]
	if !ok {
		return nil, nil
	}
	return &Record{ID: member.ID, DeletedAt: member.DeletedAt}, nil
}

// FindAdmin looks up an admin row.
func (r *InMemoryRepository) FindAdmin(ctx context.Context, id uuid.UUID) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	admin, ok := r.admins[id]
	if !ok {
		return nil, nil
	}
	isActive := admin.IsActive
	return &Record{ID: admin.ID, DeletedAt: admin.DeletedAt, IsActive: &isActive}, nil
}

// FindAdminUser looks up an admin-user row.
func (r *InMemoryRepository) FindAdminUser(ctx context.Context, id uuid.UUID) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adminUser, ok := r.adminUsers[id]
	if !ok {
		return nil, nil
	}
	isActive := adminUser.IsActive
	return &Record{ID: adminUser.ID, DeletedAt: adminUser.DeletedAt, IsActive: &isActive}, nil
}

// CreateGuest enrolls a new guest.
func (r *InMemoryRepository) CreateGuest(ctx context.Context) (*Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	guest := Guest{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
	}
	r.guests[guest.ID] = guest
	return &guest, nil
}

// GetMemberByEmail fetches a member by email.
func (r *InMemoryRepository) GetMemberByEmail(ctx context.Context, email string) (*Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, member := range r.members {
		if member.Email == email {
			m := member
			return &m, nil
		}
	}
	return nil, nil
}

// GetAdminByEmail fetches an admin by email.
func (r *InMemoryRepository) GetAdminByEmail(ctx context.Context, email string) (*Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, admin := range r.admins {
		if admin.Email == email {
			a := admin
			return &a, nil
		}
	}
	return nil, nil
}

// Seed helpers used by tests and the in-memory server.

// AddMember inserts a member row directly.
func (r *InMemoryRepository) AddMember(member Member) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[member.ID] = member
}

// AddAdmin inserts an admin row directly.
func (r *InMemoryRepository) AddAdmin(admin Admin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.admins[admin.ID] = admin
}

// AddAdminUser inserts an admin-user row directly.
func (r *InMemoryRepository) AddAdminUser(adminUser AdminUser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adminUsers[adminUser.ID] = adminUser
}

// AddGuest inserts a guest row directly.
func (r *InMemoryRepository) AddGuest(guest Guest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guests[guest.ID] = guest
}

// MarkMemberDeleted soft deletes a member row.
func (r *InMemoryRepository) MarkMemberDeleted(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if member, ok := r.members[id]; ok {
		now := time.Now().UTC()
		member.DeletedAt = &now
		r.members[id] = member
	}
}

// SetAdminActive flips an admin row's is_active flag.
func (r *InMemoryRepository) SetAdminActive(id uuid.UUID, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if admin, ok := r.admins[id]; ok {
		admin.IsActive = active
		r.admins[id] = admin
	}
}
