package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL audit repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		pool: pool,
	}
}

var _ Repository = (*PostgresRepository)(nil)

// Append records a new entry
func (r *PostgresRepository) Append(ctx context.Context, req AppendEntryRequest) (*Entry, error) {
	metadata, err := json.Marshal(req.Metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
		INSERT INTO audit_logs (
			id, admin_id, member_id, event_type, entity_type, entity_id, metadata, result
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING
			id, admin_id, member_id, event_type, entity_type, entity_id, metadata, result, created_at
	`

	entry, err := r.scanRow(r.pool.QueryRow(ctx, query,
		uuid.New(),
		req.AdminID,
		req.MemberID,
		req.EventType,
		req.EntityType,
		req.EntityID,
		metadata,
		req.Result,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to append audit entry: %w", err)
	}
	return entry, nil
}

// GetByID retrieves an entry by id
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Entry, error) {
	query := `
		SELECT id, admin_id, member_id, event_type, entity_type, entity_id, metadata, result, created_at
		FROM audit_logs
		WHERE id = $1
	`

	entry, err := r.scanRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get audit entry: %w", err)
	}
	return entry, nil
}

// ListByEntity lists entries for one entity, newest first
func (r *PostgresRepository) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]Entry, error) {
	query := `
		SELECT id, admin_id, member_id, event_type, entity_type, entity_id, metadata, result, created_at
		FROM audit_logs
		WHERE entity_type = $1
		  AND entity_id = $2
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, *entry)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to iterate audit entries: %w", rows.Err())
	}

	return entries, nil
}

func (r *PostgresRepository) scanRow(row pgx.Row) (*Entry, error) {
	entry := &Entry{}
	var metadata []byte

	err := row.Scan(
		&entry.ID,
		&entry.AdminID,
		&entry.MemberID,
		&entry.EventType,
		&entry.EntityType,
		&entry.EntityID,
		&metadata,
		&entry.Result,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	return entry, nil
}
