package sessions

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRepository implements Repository using in-memory storage.
type InMemoryRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]Session
}

// NewInMemoryRepository creates a new in-memory session repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		sessions: make(map[uuid.UUID]Session),
	}
}

var _ Repository = (*InMemoryRepository)(nil)

// Create records a new session.
func (r *InMemoryRepository) Create(ctx context.Context, req CreateSessionRequest) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session := Session{
		ID:        uuid.New(),
		OwnerID:   req.OwnerID,
		OwnerType: req.OwnerType,
		TokenID:   req.TokenID,
		IPAddress: req.IPAddress,
		UserAgent: req.UserAgent,
		ExpiresAt: req.ExpiresAt,
		CreatedAt: time.Now().UTC(),
	}
	r.sessions[session.ID] = session
	return &session, nil
}

// GetByID retrieves a session by id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

// GetByTokenID retrieves a session by token id.
func (r *InMemoryRepository) GetByTokenID(ctx context.Context, tokenID string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, session := range r.sessions {
		if session.TokenID == tokenID {
			s := session
			return &s, nil
		}
	}
	return nil, nil
}

// ListActiveByOwner lists live sessions for one owner, newest first.
func (r *InMemoryRepository) ListActiveByOwner(ctx context.Context, ownerID uuid.UUID) ([]Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := time.Now()
	var sessions []Session
	for _, session := range r.sessions {
		if session.OwnerID == ownerID && session.DeletedAt == nil && session.ExpiresAt.After(now) {
			sessions = append(sessions, session)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions, nil
}

// Invalidate stamps deleted_at on a live session.
func (r *InMemoryRepository) Invalidate(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok || session.DeletedAt != nil {
		return false, nil
	}
	now := time.Now().UTC()
	session.DeletedAt = &now
	r.sessions[id] = session
	return true, nil
}

// DeleteExpired removes sessions past their expiry.
func (r *InMemoryRepository) DeleteExpired(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	var removed int64
	for id, session := range r.sessions {
		if session.ExpiresAt.Before(now) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// DeleteOldInvalidated removes sessions invalidated before the cutoff.
func (r *InMemoryRepository) DeleteOldInvalidated(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for id, session := range r.sessions {
		if session.DeletedAt != nil && session.DeletedAt.Before(before) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed, nil
}
