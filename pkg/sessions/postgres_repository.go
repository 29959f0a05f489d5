package sessions

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

// NewPostgresRepository creates a new PostgreSQL session repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		pool: pool,
	}
}

var _ Repository = (*PostgresRepository)(nil)

// Create records a new session
func (r *PostgresRepository) Create(ctx context.Context, req CreateSessionRequest) (*Session, error) {
	query := `
		INSERT INTO sessions (
			id, owner_id, owner_type, token_id, ip_address, user_agent, expires_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING
			id, owner_id, owner_type, token_id, ip_address, user_agent,
			expires_at, created_at, deleted_at
	`

	session, err := r.scanRow(r.pool.QueryRow(ctx, query,
		uuid.New(),
		req.OwnerID,
		req.OwnerType,
		req.TokenID,
		req.IPAddress,
		req.UserAgent,
		req.ExpiresAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// GetByID retrieves a session by its ID
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	query := `
		SELECT
			id, owner_id, owner_type, token_id, ip_address, user_agent,
			expires_at, created_at, deleted_at
		FROM sessions
		WHERE id = $1
	`

	session, err := r.scanRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

// GetByTokenID retrieves a session by its token ID
func (r *PostgresRepository) GetByTokenID(ctx context.Context, tokenID string) (*Session, error) {
	query := `
		SELECT
			id, owner_id, owner_type, token_id, ip_address, user_agent,
			expires_at, created_at, deleted_at
		FROM sessions
		WHERE token_id = $1
	`

	session, err := r.scanRow(r.pool.QueryRow(ctx, query, tokenID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

// ListActiveByOwner lists all live sessions for an owner
func (r *PostgresRepository) ListActiveByOwner(ctx context.Context, ownerID uuid.UUID) ([]Session, error) {
	query := `
		SELECT
			id, owner_id, owner_type, token_id, ip_address, user_agent,
			expires_at, created_at, deleted_at
		FROM sessions
		WHERE owner_id = $1
		  AND deleted_at IS NULL
		  AND expires_at > NOW()
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var session Session
		var deletedAt sql.NullTime

		err := rows.Scan(
			&session.ID,
			&session.OwnerID,
			&session.OwnerType,
			&session.TokenID,
			&session.IPAddress,
			&session.UserAgent,
			&session.ExpiresAt,
			&session.CreatedAt,
			&deletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if deletedAt.Valid {
			session.DeletedAt = &deletedAt.Time
		}
		sessions = append(sessions, session)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", rows.Err())
	}

	return sessions, nil
}

// Invalidate stamps deleted_at on a live session. The WHERE guard makes the
// stamp first-writer-wins: the row is touched only while deleted_at is still
// NULL, so a repeated invalidation reports applied=false and the original
// timestamp survives.
func (r *PostgresRepository) Invalidate(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE sessions
		SET deleted_at = NOW()
		WHERE id = $1
		  AND deleted_at IS NULL
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to invalidate session: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// DeleteExpired removes sessions past their expiry
func (r *PostgresRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM sessions
		WHERE expires_at < NOW()
	`

	result, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	return result.RowsAffected(), nil
}

// DeleteOldInvalidated removes sessions invalidated before the cutoff
func (r *PostgresRepository) DeleteOldInvalidated(ctx context.Context, before time.Time) (int64, error) {
	query := `
		DELETE FROM sessions
		WHERE deleted_at IS NOT NULL
		  AND deleted_at < $1
	`

	result, err := r.pool.Exec(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old invalidated sessions: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *PostgresRepository) scanRow(row pgx.Row) (*Session, error) {
	session := &Session{}
	var deletedAt sql.NullTime

	err := row.Scan(
		&session.ID,
		&session.OwnerID,
		&session.OwnerType,
		&session.TokenID,
		&session.IPAddress,
		&session.UserAgent,
		&session.ExpiresAt,
		&session.CreatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if deletedAt.Valid {
		session.DeletedAt = &deletedAt.Time
	}

	return session, nil
}
