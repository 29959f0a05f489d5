package identity

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/openagora/agora/pkg/errors"
)

// TokenVerifier verifies a raw bearer credential and decodes the identity
// payload embedded in it. It performs no database access; implementations
// live in pkg/token.
type TokenVerifier interface {
	Verify(raw string) (Identity, error)
}

// RecordLookup resolves a subject id to its backing record. It returns
// (nil, nil) when no row exists.
type RecordLookup func(ctx context.Context, id uuid.UUID) (*Record, error)

// Authorizer validates a bearer credential for exactly one role: verify the
// token, check the discriminator, then re-check the backing record's
// liveness. It runs on every authenticated request, so the only I/O is one
// point lookup by primary key.
type Authorizer struct {
	verifier TokenVerifier
	lookup   RecordLookup
	want     Type
}

// NewAuthorizer constructs an Authorizer for the given role.
func NewAuthorizer(verifier TokenVerifier, lookup RecordLookup, want Type) *Authorizer {
	return &Authorizer{
		verifier: verifier,
		lookup:   lookup,
		want:     want,
	}
}

// Authorize extracts the bearer credential from the request, verifies it and
// returns the embedded payload unchanged. A cryptographically valid token is
// rejected when its role does not match or when its backing record is gone,
// soft deleted, or inactive — which of those happened is deliberately not
// distinguishable to the caller.
func (a *Authorizer) Authorize(r *http.Request) (Identity, error) {
	raw := TokenFromHeader(r)
	if raw == "" {
		return Identity{}, errors.New(errors.ErrCodeTokenInvalid, "missing bearer token")
	}

	ident, err := a.verifier.Verify(raw)
	if err != nil {
		return Identity{}, err
	}

	if ident.Type != a.want {
		return Identity{}, errors.Newf(errors.ErrCodeRoleMismatch,
			"token role %q is not allowed here", ident.Type)
	}

	record, err := a.lookup(r.Context(), ident.ID)
	if err != nil {
		return Identity{}, errors.InternalWrap(err, "identity lookup failed")
	}
	if !record.Live() {
		return Identity{}, errors.New(errors.ErrCodeNotEnrolled, "identity is not enrolled")
	}

	return ident, nil
}

// Want returns the discriminator this authorizer accepts.
func (a *Authorizer) Want() Type {
	return a.want
}

// Authorizers bundles one Authorizer per role over a shared verifier and
// repository.
type Authorizers struct {
	Guest     *Authorizer
	Member    *Authorizer
	Admin     *Authorizer
	AdminUser *Authorizer
}

// NewAuthorizers builds the per-role authorizer set.
func NewAuthorizers(verifier TokenVerifier, repo Repository) *Authorizers {
	return &Authorizers{
		Guest:     NewAuthorizer(verifier, repo.FindGuest, TypeGuest),
		Member:    NewAuthorizer(verifier, repo.FindMember, TypeMember),
		Admin:     NewAuthorizer(verifier, repo.FindAdmin, TypeAdmin),
		AdminUser: NewAuthorizer(verifier, repo.FindAdminUser, TypeAdminUser),
	}
}

// AsGuest authorizes the request against the guest role.
func (a *Authorizers) AsGuest(r *http.Request) (Identity, error) {
	return a.Guest.Authorize(r)
}

// AsMember authorizes the request against the member role.
func (a *Authorizers) AsMember(r *http.Request) (Identity, error) {
	return a.Member.Authorize(r)
}

// AsAdmin authorizes the request against the admin role.
func (a *Authorizers) AsAdmin(r *http.Request) (Identity, error) {
	return a.Admin.Authorize(r)
}

// AsAdminUser authorizes the request against the privileged admin-user role.
func (a *Authorizers) AsAdminUser(r *http.Request) (Identity, error) {
	return a.AdminUser.Authorize(r)
}

// AnyOf tries each authorizer in order and returns the first success. A
// failure other than a role mismatch means the token's role matched that
// authorizer, so its verdict is final; when every authorizer reports a
// mismatch the first mismatch is returned, still naming the token's actual
// role.
func AnyOf(r *http.Request, authorizers ...*Authorizer) (Identity, error) {
	var firstErr error
	for _, authorizer := range authorizers {
		ident, err := authorizer.Authorize(r)
		if err == nil {
			return ident, nil
		}
		if !errors.IsCode(err, errors.ErrCodeRoleMismatch) {
			return Identity{}, err
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil {
		firstErr = errors.Unauthorized("no authorizer configured")
	}
	return Identity{}, firstErr
}

// TokenFromHeader reads a token from the Authorization header using the
// Bearer scheme.
func TokenFromHeader(r *http.Request) string {
	bearer := r.Header.Get("Authorization")
	if len(bearer) > 7 && strings.EqualFold(bearer[0:7], "bearer ") {
		return bearer[7:]
	}
	return ""
}
