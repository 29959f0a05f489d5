package identity

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL identity repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		pool: pool,
	}
}

var _ Repository = (*PostgresRepository)(nil)

func (r *PostgresRepository) findRecord(ctx context.Context, table string, id uuid.UUID, hasIsActive bool) (*Record, error) {
	record := &Record{}
	var deletedAt sql.NullTime

	if hasIsActive {
		query := fmt.Sprintf(`SELECT id, deleted_at, is_active FROM %s WHERE id = $1`, table)
		var isActive bool
		err := r.pool.QueryRow(ctx, query, id).Scan(&record.ID, &deletedAt, &isActive)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to look up %s: %w", table, err)
		}
		record.IsActive = &isActive
	} else {
		query := fmt.Sprintf(`SELECT id, deleted_at FROM %s WHERE id = $1`, table)
		err := r.pool.QueryRow(ctx, query, id).Scan(&record.ID, &deletedAt)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to look up %s: %w", table, err)
		}
	}

	if deletedAt.Valid {
		record.DeletedAt = &deletedAt.Time
	}
	return record, nil
}

// FindGuest looks up a guest row by primary key.
func (r *PostgresRepository) FindGuest(ctx context.Context, id uuid.UUID) (*Record, error) {
	return r.findRecord(ctx, "guests", id, false)
}

// FindMember looks up a member row by primary key.
func (r *PostgresRepository) FindMember(ctx context.Context, id uuid.UUID) (*Record, error) {
	return r.findRecord(ctx, "members", id, false)
}

// FindAdmin looks up an admin row by primary key.
func (r *PostgresRepository) FindAdmin(ctx context.Context, id uuid.UUID) (*Record, error) {
	return r.findRecord(ctx, "admins", id, true)
}

// FindAdminUser looks up an admin-user row by primary key.
func (r *PostgresRepository) FindAdminUser(ctx context.Context, id uuid.UUID) (*Record, error) {
	return r.findRecord(ctx, "admin_users", id, true)
}

// CreateGuest enrolls a new anonymous guest.
func (r *PostgresRepository) CreateGuest(ctx context.Context) (*Guest, error) {
	query := `
		INSERT INTO guests (id) VALUES ($1)
		RETURNING id, created_at, deleted_at
	`

	guest := &Guest{}
	var deletedAt sql.NullTime

	err := r.pool.QueryRow(ctx, query, uuid.New()).Scan(&guest.ID, &guest.CreatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create guest: %w", err)
	}
	if deletedAt.Valid {
		guest.DeletedAt = &deletedAt.Time
	}
	return guest, nil
}

// GetMemberByEmail fetches a member row including its password hash.
// Returns (nil, nil) when no row matches.
func (r *PostgresRepository) GetMemberByEmail(ctx context.Context, email string) (*Member, error) {
	query := `
		SELECT id, email, password_hash, created_at, deleted_at
		FROM members
		WHERE email = $1
	`

	member := &Member{}
	var deletedAt sql.NullTime

	err := r.pool.QueryRow(ctx, query, email).Scan(
		&member.ID,
		&member.Email,
		&member.PasswordHash,
		&member.CreatedAt,
		&deletedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member by email: %w", err)
	}
	if deletedAt.Valid {
		member.DeletedAt = &deletedAt.Time
	}
	return member, nil
}

// GetAdminByEmail fetches an admin row including its password hash.
// Returns (nil, nil) when no row matches.
func (r *PostgresRepository) GetAdminByEmail(ctx context.Context, email string) (*Admin, error) {
	query := `
		SELECT id, email, password_hash, is_active, created_at, deleted_at
		FROM admins
		WHERE email = $1
	`

	admin := &Admin{}
	var deletedAt sql.NullTime

	err := r.pool.QueryRow(ctx, query, email).Scan(
		&admin.ID,
		&admin.Email,
		&admin.PasswordHash,
		&admin.IsActive,
		&admin.CreatedAt,
		&deletedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get admin by email: %w", err)
	}
	if deletedAt.Valid {
		admin.DeletedAt = &deletedAt.Time
	}
	return admin, nil
}
