package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

// PostgresRepository implements the Repository interface using PostgreSQL.
// Name uniqueness among active rows is enforced by a partial unique index
// on name WHERE deleted_at IS NULL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL category repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		pool: pool,
	}
}

var _ Repository = (*PostgresRepository)(nil)

// Create inserts a new category
func (r *PostgresRepository) Create(ctx context.Context, req CreateCategoryRequest) (*Category, error) {
	query := `
		INSERT INTO categories (id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, created_at, deleted_at
	`

	category, err := r.scanRow(r.pool.QueryRow(ctx, query, uuid.New(), req.Name, req.Description))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrNameTaken
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// FindActive returns the category if it exists and is not deleted
func (r *PostgresRepository) FindActive(ctx context.Context, id uuid.UUID) (Category, bool, error) {
	query := `
		SELECT id, name, description, created_at, deleted_at
		FROM categories
		WHERE id = $1
		  AND deleted_at IS NULL
	`

	category, err := r.scanRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, false, nil
		}
		return Category{}, false, fmt.Errorf("failed to find category: %w", err)
	}
	return *category, true, nil
}

// FindActiveByName probes for an active category with the given name
func (r *PostgresRepository) FindActiveByName(ctx context.Context, name string) (*Category, error) {
	query := `
		SELECT id, name, description, created_at, deleted_at
		FROM categories
		WHERE name = $1
		  AND deleted_at IS NULL
	`

	category, err := r.scanRow(r.pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find category by name: %w", err)
	}
	return category, nil
}

// GetAny retrieves a category regardless of deletion state
func (r *PostgresRepository) GetAny(ctx context.Context, id uuid.UUID) (*Category, error) {
	query := `
		SELECT id, name, description, created_at, deleted_at
		FROM categories
		WHERE id = $1
	`

	category, err := r.scanRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// ListActive lists all active categories by name
func (r *PostgresRepository) ListActive(ctx context.Context) ([]Category, error) {
	query := `
		SELECT id, name, description, created_at, deleted_at
		FROM categories
		WHERE deleted_at IS NULL
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		category, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, *category)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", rows.Err())
	}

	return categories, nil
}

// MarkDeleted stamps deleted_at on an active category
func (r *PostgresRepository) MarkDeleted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE categories
		SET deleted_at = $2
		WHERE id = $1
		  AND deleted_at IS NULL
	`

	result, err := r.pool.Exec(ctx, query, id, at)
	if err != nil {
		return false, fmt.Errorf("failed to delete category: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// Remove hard deletes a category row
func (r *PostgresRepository) Remove(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		DELETE FROM categories
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to remove category: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *PostgresRepository) scanRow(row pgx.Row) (*Category, error) {
	category := &Category{}
	var deletedAt sql.NullTime

	err := row.Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.CreatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if deletedAt.Valid {
		category.DeletedAt = &deletedAt.Time
	}

	return category, nil
}
