package category

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"github.com/openagora/agora/pkg/errors"
	"github.com/openagora/agora/pkg/softdelete"
)

// Service provides category business logic. Reads and deletes go through
// the soft-delete guard; the admin lookup is the only path that can see a
// deleted row.
type Service struct {
	repo  Repository
	guard *softdelete.Guard[Category]
}

// NewService creates a new category service.
func NewService(repo Repository) *Service {
	return &Service{
		repo:  repo,
		guard: softdelete.NewGuard[Category](repo, "category", softdelete.PolicySoft),
	}
}

// Create creates a new category. The name must not be held by any active
// category: a probe rejects the common case up front and the storage
// constraint catches the race between two concurrent creates.
func (s *Service) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, errors.MissingRequired("name")
	}

	existing, err := s.repo.FindActiveByName(ctx, req.Name)
	if err != nil {
		return nil, errors.InternalWrap(err, "failed to probe category name")
	}
	if existing != nil {
		return nil, errors.AlreadyExists("category", req.Name)
	}

	category, err := s.repo.Create(ctx, req)
	if err != nil {
		if stderrors.Is(err, ErrNameTaken) {
			return nil, errors.AlreadyExists("category", req.Name)
		}
		return nil, errors.InternalWrap(err, "failed to create category")
	}

	slog.Info("Category created", "categoryId", category.ID, "name", category.Name)
	return toResponse(category)
}

// Get fetches an active category. Deleted categories are indistinguishable
// from missing ones on this path.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.guard.ReadActive(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(&category)
}

// GetAny fetches a category whether or not it is deleted. It backs the
// admin-user lookup, which needs to inspect removed categories.
func (s *Service) GetAny(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.repo.GetAny(ctx, id)
	if err != nil {
		return nil, errors.InternalWrap(err, "failed to get category")
	}
	if category == nil {
		return nil, errors.NotFound("category", id.String())
	}
	return toResponse(category)
}

// List returns all active categories.
func (s *Service) List(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, errors.InternalWrap(err, "failed to list categories")
	}

	responses := make([]CategoryResponse, 0, len(categories))
	if err := copier.Copy(&responses, &categories); err != nil {
		return nil, errors.InternalWrap(err, "failed to map categories")
	}
	return responses, nil
}

// Delete soft deletes a category. Deleting a missing or already-deleted
// category fails with the same not-found error.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.guard.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("Category deleted", "categoryId", id)
	return nil
}

func toResponse(category *Category) (*CategoryResponse, error) {
	response := &CategoryResponse{}
	if err := copier.Copy(response, category); err != nil {
		return nil, errors.InternalWrap(err, "failed to map category")
	}
	return response, nil
}
