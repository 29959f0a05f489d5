package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/openagora/agora/pkg/identity"
)

const sessionsSchema = `
CREATE TABLE sessions (
	id UUID PRIMARY KEY,
	owner_id UUID NOT NULL,
	owner_type VARCHAR(20) NOT NULL,
	token_id VARCHAR(255) NOT NULL UNIQUE,
	ip_address VARCHAR(45) NOT NULL DEFAULT '',
	user_agent TEXT NOT NULL DEFAULT '',
	expires_at TIMESTAMP NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT NOW(),
	deleted_at TIMESTAMP
);
`

func TestPostgresSessionRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	postgresContainer, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	defer func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}()

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.Exec(ctx, sessionsSchema)
	require.NoError(t, err)

	repo := NewPostgresRepository(pool)

	t.Run("CreateAndGet", func(t *testing.T) {
		created, err := repo.Create(ctx, CreateSessionRequest{
			OwnerID:   uuid.New(),
			OwnerType: identity.TypeMember,
			TokenID:   uuid.New().String(),
			ExpiresAt: time.Now().Add(time.Hour),
		})
		require.NoError(t, err)
		assert.Nil(t, created.DeletedAt)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, created.TokenID, got.TokenID)
	})

	t.Run("GetByTokenID", func(t *testing.T) {
		tokenID := uuid.New().String()
		created, err := repo.Create(ctx, CreateSessionRequest{
			OwnerID:   uuid.New(),
			OwnerType: identity.TypeMember,
			TokenID:   tokenID,
			ExpiresAt: time.Now().Add(time.Hour),
		})
		require.NoError(t, err)

		got, err := repo.GetByTokenID(ctx, tokenID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, created.ID, got.ID)

		missing, err := repo.GetByTokenID(ctx, uuid.New().String())
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("GetMissingReturnsNil", func(t *testing.T) {
		got, err := repo.GetByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("InvalidateIsTerminal", func(t *testing.T) {
		created, err := repo.Create(ctx, CreateSessionRequest{
			OwnerID:   uuid.New(),
			OwnerType: identity.TypeMember,
			TokenID:   uuid.New().String(),
			ExpiresAt: time.Now().Add(time.Hour),
		})
		require.NoError(t, err)

		applied, err := repo.Invalidate(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, applied)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, got.DeletedAt)
		firstStamp := *got.DeletedAt

		applied, err = repo.Invalidate(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, applied)

		got, err = repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, firstStamp, *got.DeletedAt)
	})

	t.Run("ListActiveSkipsInvalidated", func(t *testing.T) {
		ownerID := uuid.New()
		live, err := repo.Create(ctx, CreateSessionRequest{
			OwnerID:   ownerID,
			OwnerType: identity.TypeAdmin,
			TokenID:   uuid.New().String(),
			ExpiresAt: time.Now().Add(time.Hour),
		})
		require.NoError(t, err)

		dead, err := repo.Create(ctx, CreateSessionRequest{
			OwnerID:   ownerID,
			OwnerType: identity.TypeAdmin,
			TokenID:   uuid.New().String(),
			ExpiresAt: time.Now().Add(time.Hour),
		})
		require.NoError(t, err)

		_, err = repo.Invalidate(ctx, dead.ID)
		require.NoError(t, err)

		sessions, err := repo.ListActiveByOwner(ctx, ownerID)
		require.NoError(t, err)
		require.Len(t, sessions, 1)
		assert.Equal(t, live.ID, sessions[0].ID)
	})
}
