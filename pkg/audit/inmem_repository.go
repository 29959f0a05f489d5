package audit

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRepository implements Repository using in-memory storage.
type InMemoryRepository struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]Entry
}

// NewInMemoryRepository creates a new in-memory audit repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		entries: make(map[uuid.UUID]Entry),
	}
}

var _ Repository = (*InMemoryRepository)(nil)

// Append records a new entry.
func (r *InMemoryRepository) Append(ctx context.Context, req AppendEntryRequest) (*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := Entry{
		ID:         uuid.New(),
		AdminID:    req.AdminID,
		MemberID:   req.MemberID,
		EventType:  req.EventType,
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		Metadata:   req.Metadata,
		Result:     req.Result,
		CreatedAt:  time.Now().UTC(),
	}
	r.entries[entry.ID] = entry
	return &entry, nil
}

// GetByID retrieves an entry by id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[id]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

// ListByEntity lists entries for one entity, newest first.
func (r *InMemoryRepository) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []Entry
	for _, entry := range r.entries {
		if entry.EntityType == entityType && entry.EntityID == entityID {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}
