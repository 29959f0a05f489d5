package report

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
	reports map[uuid.UUID]Report
}

// NewInMemoryRepository creates a new in-memory report repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		reports: make(map[uuid.UUID]Report),
	}
}

var _ Repository = (*InMemoryRepository)(nil)

// Create inserts a new report.
func (r *InMemoryRepository) Create(ctx context.Context, report Report) (*Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	report.CreatedAt = time.Now().UTC()
	r.reports[report.ID] = report
	return &report, nil
}

// FindActive returns the report if it exists and is not deleted.
func (r *InMemoryRepository) FindActive(ctx context.Context, id uuid.UUID) (Report, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	report, ok := r.reports[id]
	if !ok || report.DeletedAt != nil {
		return Report{}, false, nil
	}
	return report, true, nil
}

// ListActiveByParent lists live reports against one parent, newest first.
func (r *InMemoryRepository) ListActiveByParent(ctx context.Context, parentType ParentType, parentID uuid.UUID) ([]Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var reports []Report
	for _, report := range r.reports {
		if report.ParentType == parentType && report.ParentID == parentID && report.DeletedAt == nil {
			reports = append(reports, report)
		}
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	return reports, nil
}

// MarkDeleted stamps deleted_at on an active report.
func (r *InMemoryRepository) MarkDeleted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	report, ok := r.reports[id]
	if !ok || report.DeletedAt != nil {
		return false, nil
	}
	report.DeletedAt = &at
	r.reports[id] = report
	return true, nil
}

// Remove hard deletes a report row.
func (r *InMemoryRepository) Remove(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reports[id]; !ok {
		return false, nil
	}
	delete(r.reports, id)
	return true, nil
}

// GetAny retrieves a report regardless of deletion state. Used by tests.
func (r *InMemoryRepository) GetAny(id uuid.UUID) (Report, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.reports[id]
	return report, ok
}
