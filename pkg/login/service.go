package login

import (
	"context"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/openagora/agora/pkg/errors"
	"github.com/openagora/agora/pkg/identity"
	"github.com/openagora/agora/pkg/sessions"
	"github.com/openagora/agora/pkg/token"
)

// Service authenticates identities and hands out bearer tokens. Every
// successful login also records a session, so the token can be cut off
// before it expires.
type Service struct {
	identities identity.Repository
	tokens     *token.Codec
	sessionSvc *sessions.Service
}

// NewService creates a new login service.
func NewService(identities identity.Repository, tokens *token.Codec, sessionSvc *sessions.Service) *Service {
	return &Service{
		identities: identities,
		tokens:     tokens,
		sessionSvc: sessionSvc,
	}
}

// invalidCredentials is the single error every failed login path returns.
// A missing account, a wrong password and a deactivated account must be
// indistinguishable to the caller.
func invalidCredentials() *errors.Error {
	return errors.New(errors.ErrCodeInvalidCredentials, "invalid email or password")
}

// LoginMember authenticates a member by email and password.
func (s *Service) LoginMember(ctx context.Context, req LoginRequest, client ClientInfo) (*LoginResponse, error) {
	member, err := s.identities.GetMemberByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.InternalWrap(err, "failed to look up member")
	}
	if member == nil || member.DeletedAt != nil {
		return nil, invalidCredentials()
	}
	if bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(req.Password)) != nil {
		return nil, invalidCredentials()
	}

	return s.issue(ctx, identity.Identity{ID: member.ID, Type: identity.TypeMember}, client)
}

// LoginAdmin authenticates an admin by email and password. Deactivated
// admins fail the same way as wrong passwords.
func (s *Service) LoginAdmin(ctx context.Context, req LoginRequest, client ClientInfo) (*LoginResponse, error) {
	admin, err := s.identities.GetAdminByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.InternalWrap(err, "failed to look up admin")
	}
	if admin == nil || admin.DeletedAt != nil || !admin.IsActive {
		return nil, invalidCredentials()
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		return nil, invalidCredentials()
	}

	return s.issue(ctx, identity.Identity{ID: admin.ID, Type: identity.TypeAdmin}, client)
}

// EnrollGuest creates a fresh anonymous guest and hands it a token. No
// credentials are involved.
func (s *Service) EnrollGuest(ctx context.Context, client ClientInfo) (*LoginResponse, error) {
	guest, err := s.identities.CreateGuest(ctx)
	if err != nil {
		return nil, errors.InternalWrap(err, "failed to create guest")
	}

	return s.issue(ctx, identity.Identity{ID: guest.ID, Type: identity.TypeGuest}, client)
}

func (s *Service) issue(ctx context.Context, ident identity.Identity, client ClientInfo) (*LoginResponse, error) {
	signed, expiresAt, err := s.tokens.Generate(ident)
	if err != nil {
		return nil, err
	}

	_, err = s.sessionSvc.Create(ctx, sessions.CreateSessionRequest{
		OwnerID:   ident.ID,
		OwnerType: ident.Type,
		TokenID:   s.tokens.TokenID(signed),
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Login succeeded", "identityId", ident.ID, "identityType", ident.Type)
	return &LoginResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		Identity:  ident,
	}, nil
}

// HashPassword hashes a plaintext password for storage. Exposed for seed
// tooling and tests.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.InternalWrap(err, "failed to hash password")
	}
	return string(hash), nil
}
