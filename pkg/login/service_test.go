package login

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openagora/agora/pkg/errors"
	"github.com/openagora/agora/pkg/identity"
	"github.com/openagora/agora/pkg/sessions"
	"github.com/openagora/agora/pkg/token"
)

func newTestService(t *testing.T) (*Service, *identity.InMemoryRepository, *sessions.Service) {
	t.Helper()
	identities := identity.NewInMemoryRepository()
	codec := token.NewCodec("test-secret", "agora", "agora-api", time.Hour)
	sessionSvc := sessions.NewService(sessions.NewInMemoryRepository())
	return NewService(identities, codec, sessionSvc), identities, sessionSvc
}

func seedMember(t *testing.T, identities *identity.InMemoryRepository, email, password string) identity.Member {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	member := identity.Member{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	identities.AddMember(member)
	return member
}

func seedAdmin(t *testing.T, identities *identity.InMemoryRepository, email, password string, active bool) identity.Admin {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	admin := identity.Admin{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		IsActive:     active,
		CreatedAt:    time.Now().UTC(),
	}
	identities.AddAdmin(admin)
	return admin
}

func TestLoginMember(t *testing.T) {
	svc, identities, sessionSvc := newTestService(t)
	member := seedMember(t, identities, "alice@example.com", "pass1234")

	response, err := svc.LoginMember(context.Background(), LoginRequest{
		Email:    "alice@example.com",
		Password: "pass1234",
	}, ClientInfo{})
	require.NoError(t, err)

	assert.Equal(t, member.ID, response.Identity.ID)
	assert.Equal(t, identity.TypeMember, response.Identity.Type)
	assert.NotEmpty(t, response.Token)

	// A session was recorded for the new token.
	list, err := sessionSvc.ListActive(context.Background(), member.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
}

func TestLoginMember_Failures(t *testing.T) {
	svc, identities, _ := newTestService(t)
	member := seedMember(t, identities, "alice@example.com", "pass1234")

	// Wrong password.
	_, wrongPass := svc.LoginMember(context.Background(), LoginRequest{
		Email: "alice@example.com", Password: "nope",
	}, ClientInfo{})
	assert.True(t, errors.IsCode(wrongPass, errors.ErrCodeInvalidCredentials))

	// Unknown email fails identically.
	_, unknown := svc.LoginMember(context.Background(), LoginRequest{
		Email: "bob@example.com", Password: "pass1234",
	}, ClientInfo{})
	assert.Equal(t, wrongPass.Error(), unknown.Error())

	// Deleted member fails identically even with the right password.
	identities.MarkMemberDeleted(member.ID)
	_, deleted := svc.LoginMember(context.Background(), LoginRequest{
		Email: "alice@example.com", Password: "pass1234",
	}, ClientInfo{})
	assert.Equal(t, wrongPass.Error(), deleted.Error())
}

func TestLoginAdmin(t *testing.T) {
	svc, identities, _ := newTestService(t)
	admin := seedAdmin(t, identities, "mod@example.com", "pass1234", true)

	response, err := svc.LoginAdmin(context.Background(), LoginRequest{
		Email:    "mod@example.com",
		Password: "pass1234",
	}, ClientInfo{})
	require.NoError(t, err)
	assert.Equal(t, admin.ID, response.Identity.ID)
	assert.Equal(t, identity.TypeAdmin, response.Identity.Type)
}

func TestLoginAdmin_Inactive(t *testing.T) {
	svc, identities, _ := newTestService(t)
	seedAdmin(t, identities, "mod@example.com", "pass1234", false)

	_, err := svc.LoginAdmin(context.Background(), LoginRequest{
		Email:    "mod@example.com",
		Password: "pass1234",
	}, ClientInfo{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidCredentials))
}

func TestEnrollGuest(t *testing.T) {
	svc, identities, _ := newTestService(t)

	response, err := svc.EnrollGuest(context.Background(), ClientInfo{})
	require.NoError(t, err)
	assert.Equal(t, identity.TypeGuest, response.Identity.Type)
	assert.NotEmpty(t, response.Token)

	// The guest row exists and is live.
	record, err := identities.FindGuest(context.Background(), response.Identity.ID)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.True(t, record.Live())
}

func TestLoginTokenRoundTrip(t *testing.T) {
	svc, identities, _ := newTestService(t)
	member := seedMember(t, identities, "alice@example.com", "pass1234")

	response, err := svc.LoginMember(context.Background(), LoginRequest{
		Email:    "alice@example.com",
		Password: "pass1234",
	}, ClientInfo{})
	require.NoError(t, err)

	codec := token.NewCodec("test-secret", "agora", "agora-api", time.Hour)
	ident, err := codec.Verify(response.Token)
	require.NoError(t, err)
	assert.Equal(t, member.ID, ident.ID)
	assert.Equal(t, identity.TypeMember, ident.Type)
}
