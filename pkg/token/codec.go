package token

import (
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperr "github.com/openagora/agora/pkg/errors"
	"github.com/openagora/agora/pkg/identity"
)

// Claims is the full JWT payload. The identity claim carries the subject's
// row id and role discriminator; everything else is standard registered
// claims.
type Claims struct {
	Identity identity.Identity `json:"identity"`
	jwt.RegisteredClaims
}

// Codec signs and verifies bearer tokens. It implements
// identity.TokenVerifier.
type Codec struct {
	Secret   string
	Issuer   string
	Audience string
	Expiry   time.Duration
}

// NewCodec creates a token codec with the given signing secret.
func NewCodec(secret, issuer, audience string, expiry time.Duration) *Codec {
	return &Codec{
		Secret:   secret,
		Issuer:   issuer,
		Audience: audience,
		Expiry:   expiry,
	}
}

var _ identity.TokenVerifier = (*Codec)(nil)

// Generate signs a token for the given identity and returns the token string
// together with its expiry.
func (c *Codec) Generate(ident identity.Identity) (string, time.Time, error) {
	now := time.Now().UTC()
	claims := Claims{
		Identity: ident,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(c.Expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-5 * time.Minute)),
			Issuer:    c.Issuer,
			Subject:   ident.ID.String(),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{c.Audience},
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(c.Secret))
	if err != nil {
		slog.Error("Failed to sign token", "err", err)
		return "", time.Time{}, apperr.InternalWrap(err, "failed to sign token")
	}
	return signed, claims.ExpiresAt.Time, nil
}

// Verify parses and validates a raw token string and returns the identity it
// carries. Signature, expiry, issuer and audience are all checked; an
// expired token is reported distinctly from a malformed or forged one.
func (c *Codec) Verify(raw string) (identity.Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (interface{}, error) {
			return []byte(c.Secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.Issuer),
		jwt.WithAudience(c.Audience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return identity.Identity{}, apperr.New(apperr.ErrCodeTokenExpired, "token has expired")
		}
		slog.Debug("Failed to parse token", "err", err)
		return identity.Identity{}, apperr.Wrap(err, apperr.ErrCodeTokenInvalid, "invalid token")
	}

	if !claims.Identity.Type.Valid() {
		return identity.Identity{}, apperr.New(apperr.ErrCodeTokenInvalid, "token carries no known role")
	}
	if claims.Identity.ID == uuid.Nil {
		return identity.Identity{}, apperr.New(apperr.ErrCodeTokenInvalid, "token carries no subject id")
	}
	return claims.Identity, nil
}

// TokenID returns the jti of a verified token, or "" when the token does not
// validate. It is used to flag the caller's current session in listings.
func (c *Codec) TokenID(raw string) string {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (interface{}, error) {
			return []byte(c.Secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return ""
	}
	return claims.ID
}
