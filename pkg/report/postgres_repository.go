package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL report repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		pool: pool,
	}
}

var _ Repository = (*PostgresRepository)(nil)

// Create inserts a new report
func (r *PostgresRepository) Create(ctx context.Context, report Report) (*Report, error) {
	query := `
		INSERT INTO reports (id, reporter_id, parent_type, parent_id, reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, reporter_id, parent_type, parent_id, reason, created_at, deleted_at
	`

	created, err := r.scanRow(r.pool.QueryRow(ctx, query,
		report.ID,
		report.ReporterID,
		report.ParentType,
		report.ParentID,
		report.Reason,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return created, nil
}

// FindActive returns the report if it exists and is not deleted
func (r *PostgresRepository) FindActive(ctx context.Context, id uuid.UUID) (Report, bool, error) {
	query := `
		SELECT id, reporter_id, parent_type, parent_id, reason, created_at, deleted_at
		FROM reports
		WHERE id = $1
		  AND deleted_at IS NULL
	`

	report, err := r.scanRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Report{}, false, nil
		}
		return Report{}, false, fmt.Errorf("failed to find report: %w", err)
	}
	return *report, true, nil
}

// ListActiveByParent lists live reports against one parent
func (r *PostgresRepository) ListActiveByParent(ctx context.Context, parentType ParentType, parentID uuid.UUID) ([]Report, error) {
	query := `
		SELECT id, reporter_id, parent_type, parent_id, reason, created_at, deleted_at
		FROM reports
		WHERE parent_type = $1
		  AND parent_id = $2
		  AND deleted_at IS NULL
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, parentType, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		report, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, *report)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", rows.Err())
	}

	return reports, nil
}

// MarkDeleted stamps deleted_at on an active report
func (r *PostgresRepository) MarkDeleted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE reports
		SET deleted_at = $2
		WHERE id = $1
		  AND deleted_at IS NULL
	`

	result, err := r.pool.Exec(ctx, query, id, at)
	if err != nil {
		return false, fmt.Errorf("failed to delete report: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// Remove hard deletes a report row
func (r *PostgresRepository) Remove(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		DELETE FROM reports
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to remove report: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *PostgresRepository) scanRow(row pgx.Row) (*Report, error) {
	report := &Report{}
	var deletedAt sql.NullTime

	err := row.Scan(
		&report.ID,
		&report.ReporterID,
		&report.ParentType,
		&report.ParentID,
		&report.Reason,
		&report.CreatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if deletedAt.Valid {
		report.DeletedAt = &deletedAt.Time
	}

	return report, nil
}
