package category

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRepository implements Repository using in-memory storage.
type InMemoryRepository struct {
	mu         sync.RWMutex
	categories map[uuid.UUID]Category
}

// NewInMemoryRepository creates a new in-memory category repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		categories: make(map[uuid.UUID]Category),
	}
}

var _ Repository = (*InMemoryRepository)(nil)

// Create inserts a new category, enforcing active-name uniqueness the way
// the partial unique index does in PostgreSQL.
func (r *InMemoryRepository) Create(ctx context.Context, req CreateCategoryRequest) (*Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.categories {
		if existing.Name == req.Name && existing.DeletedAt == nil {
			return nil, ErrNameTaken
		}
	}

	category := Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}
	r.categories[category.ID] = category
	return &category, nil
}

// FindActive returns the category if it exists and is not deleted.
func (r *InMemoryRepository) FindActive(ctx context.Context, id uuid.UUID) (Category, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, ok := r.categories[id]
	if !ok || category.DeletedAt != nil {
		return Category{}, false, nil
	}
	return category, true, nil
}

// FindActiveByName probes for an active category with the given name.
func (r *InMemoryRepository) FindActiveByName(ctx context.Context, name string) (*Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, category := range r.categories {
		if category.Name == name && category.DeletedAt == nil {
			c := category
			return &c, nil
		}
	}
	return nil, nil
}

// GetAny retrieves a category regardless of deletion state.
func (r *InMemoryRepository) GetAny(ctx context.Context, id uuid.UUID) (*Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, ok := r.categories[id]
	if !ok {
		return nil, nil
	}
	return &category, nil
}

// ListActive lists all active categories by name.
func (r *InMemoryRepository) ListActive(ctx context.Context) ([]Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var categories []Category
	for _, category := range r.categories {
		if category.DeletedAt == nil {
			categories = append(categories, category)
		}
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

// MarkDeleted stamps deleted_at on an active category.
func (r *InMemoryRepository) MarkDeleted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	category, ok := r.categories[id]
	if !ok || category.DeletedAt != nil {
		return false, nil
	}
	category.DeletedAt = &at
	r.categories[id] = category
	return true, nil
}

// Remove hard deletes a category row.
func (r *InMemoryRepository) Remove(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[id]; !ok {
		return false, nil
	}
	delete(r.categories, id)
	return true, nil
}
