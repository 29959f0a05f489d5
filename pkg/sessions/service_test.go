package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openagora/agora/pkg/errors"
	"github.com/openagora/agora/pkg/identity"
)

func newTestService() (*Service, *InMemoryRepository) {
	repo := NewInMemoryRepository()
	return NewService(repo), repo
}

func createTestSession(t *testing.T, svc *Service, ownerID uuid.UUID, ownerType identity.Type) *Session {
	t.Helper()
	session, err := svc.Create(context.Background(), CreateSessionRequest{
		OwnerID:   ownerID,
		OwnerType: ownerType,
		TokenID:   uuid.New().String(),
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	return session
}

func TestCreateSession(t *testing.T) {
	svc, _ := newTestService()
	ownerID := uuid.New()

	session := createTestSession(t, svc, ownerID, identity.TypeMember)

	assert.Equal(t, ownerID, session.OwnerID)
	assert.Equal(t, identity.TypeMember, session.OwnerType)
	assert.Nil(t, session.DeletedAt, "new session must start live")
}

func TestCreateSession_Validation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), CreateSessionRequest{
		OwnerType: identity.TypeMember,
		TokenID:   "abc",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	assert.True(t, errors.IsCode(err, errors.ErrCodeMissingRequired))

	_, err = svc.Create(context.Background(), CreateSessionRequest{
		OwnerID:   uuid.New(),
		OwnerType: "robot",
		TokenID:   "abc",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidInput))

	_, err = svc.Create(context.Background(), CreateSessionRequest{
		OwnerID:   uuid.New(),
		OwnerType: identity.TypeMember,
		TokenID:   "abc",
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidInput))
}

func TestInvalidateSession(t *testing.T) {
	svc, repo := newTestService()
	ownerID := uuid.New()
	owner := identity.Identity{ID: ownerID, Type: identity.TypeMember}

	session := createTestSession(t, svc, ownerID, identity.TypeMember)

	require.NoError(t, svc.Invalidate(context.Background(), session.ID, owner))

	// The row survives with the stamp set; it is not removed.
	stored, err := repo.GetByID(context.Background(), session.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NotNil(t, stored.DeletedAt)
	firstStamp := *stored.DeletedAt

	// A second invalidation fails and the original stamp survives.
	err = svc.Invalidate(context.Background(), session.ID, owner)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))

	stored, err = repo.GetByID(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, firstStamp, *stored.DeletedAt)
}

func TestInvalidateSession_NeverExisted(t *testing.T) {
	svc, _ := newTestService()
	owner := identity.Identity{ID: uuid.New(), Type: identity.TypeMember}

	// A session that never existed and one that was invalidated earlier
	// produce the same error.
	err := svc.Invalidate(context.Background(), uuid.New(), owner)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))

	session := createTestSession(t, svc, owner.ID, identity.TypeMember)
	require.NoError(t, svc.Invalidate(context.Background(), session.ID, owner))

	again := svc.Invalidate(context.Background(), session.ID, owner)
	assert.Equal(t, errors.GetCode(err), errors.GetCode(again))
}

func TestInvalidateSession_Ownership(t *testing.T) {
	svc, _ := newTestService()
	ownerID := uuid.New()

	session := createTestSession(t, svc, ownerID, identity.TypeMember)

	// Another member cannot touch it.
	stranger := identity.Identity{ID: uuid.New(), Type: identity.TypeMember}
	err := svc.Invalidate(context.Background(), session.ID, stranger)
	assert.True(t, errors.IsCode(err, errors.ErrCodeForbidden))

	// An admin can.
	admin := identity.Identity{ID: uuid.New(), Type: identity.TypeAdmin}
	assert.NoError(t, svc.Invalidate(context.Background(), session.ID, admin))
}

func TestGetActiveSession(t *testing.T) {
	svc, _ := newTestService()
	ownerID := uuid.New()
	owner := identity.Identity{ID: ownerID, Type: identity.TypeMember}

	session := createTestSession(t, svc, ownerID, identity.TypeMember)

	got, err := svc.GetActive(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)

	require.NoError(t, svc.Invalidate(context.Background(), session.ID, owner))

	_, err = svc.GetActive(context.Background(), session.ID)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}

func TestListActiveSessions(t *testing.T) {
	svc, _ := newTestService()
	ownerID := uuid.New()
	owner := identity.Identity{ID: ownerID, Type: identity.TypeMember}

	first := createTestSession(t, svc, ownerID, identity.TypeMember)
	second := createTestSession(t, svc, ownerID, identity.TypeMember)
	createTestSession(t, svc, uuid.New(), identity.TypeMember)

	response, err := svc.ListActive(context.Background(), ownerID, second.TokenID)
	require.NoError(t, err)
	require.Equal(t, 2, response.Total)

	var currentCount int
	for _, summary := range response.Sessions {
		if summary.Current {
			currentCount++
			assert.Equal(t, second.ID, summary.ID)
		}
	}
	assert.Equal(t, 1, currentCount)

	require.NoError(t, svc.Invalidate(context.Background(), first.ID, owner))

	response, err = svc.ListActive(context.Background(), ownerID, "")
	require.NoError(t, err)
	assert.Equal(t, 1, response.Total)
}

func TestListActiveSessions_CurrentResolvedByTokenID(t *testing.T) {
	svc, _ := newTestService()
	ownerID := uuid.New()

	current := createTestSession(t, svc, ownerID, identity.TypeMember)
	other := createTestSession(t, svc, ownerID, identity.TypeMember)

	response, err := svc.ListActive(context.Background(), ownerID, current.TokenID)
	require.NoError(t, err)
	for _, summary := range response.Sessions {
		assert.Equal(t, summary.ID == current.ID, summary.Current)
	}

	// An unknown token id flags nothing.
	response, err = svc.ListActive(context.Background(), ownerID, uuid.New().String())
	require.NoError(t, err)
	for _, summary := range response.Sessions {
		assert.False(t, summary.Current)
	}

	// Once the admin revokes the caller's session, its token id no longer
	// resolves to a current session for the remaining list.
	admin := identity.Identity{ID: uuid.New(), Type: identity.TypeAdmin}
	require.NoError(t, svc.Invalidate(context.Background(), current.ID, admin))

	response, err = svc.ListActive(context.Background(), ownerID, current.TokenID)
	require.NoError(t, err)
	require.Equal(t, 1, response.Total)
	assert.Equal(t, other.ID, response.Sessions[0].ID)
	assert.False(t, response.Sessions[0].Current)
}

func TestSessionCleanup(t *testing.T) {
	svc, repo := newTestService()
	ownerID := uuid.New()
	owner := identity.Identity{ID: ownerID, Type: identity.TypeMember}

	session := createTestSession(t, svc, ownerID, identity.TypeMember)
	require.NoError(t, svc.Invalidate(context.Background(), session.ID, owner))

	// Push the invalidation stamp past the retention window.
	repo.mu.Lock()
	old := repo.sessions[session.ID]
	stamp := time.Now().Add(-48 * time.Hour)
	old.DeletedAt = &stamp
	repo.sessions[session.ID] = old
	repo.mu.Unlock()

	keep := createTestSession(t, svc, ownerID, identity.TypeMember)

	require.NoError(t, svc.Cleanup(context.Background(), 24*time.Hour))

	gone, err := repo.GetByID(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	kept, err := repo.GetByID(context.Background(), keep.ID)
	require.NoError(t, err)
	assert.NotNil(t, kept)
}
