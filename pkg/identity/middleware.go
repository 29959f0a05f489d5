package identity

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/openagora/agora/pkg/errors"
	"github.com/openagora/agora/pkg/httpx"
)

// contextKey is a value for use with context.WithValue. It's used as a
// pointer so it fits in an interface{} without allocation.
type contextKey struct {
	name string
}

func (k *contextKey) String() string {
	return "agora context value " + k.name
}

var identityKey = &contextKey{"Identity"}

// ContextWithIdentity stores the verified identity in the context.
func ContextWithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

// FromContext extracts the verified identity from the context.
func FromContext(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(identityKey).(Identity)
	return ident, ok
}

// Require returns a middleware that authorizes every request with the given
// authorizer and stores the verified identity in the request context.
// Failures are written as structured JSON with the error's mapped status.
func Require(authorizer *Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, err := authorizer.Authorize(r)
			if err != nil {
				slog.Debug("request rejected", "role", authorizer.Want(), "error", err)
				httpx.RenderError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), ident)))
		})
	}
}

// RequireAny behaves like Require but accepts any of the given authorizers.
func RequireAny(authorizers ...*Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, err := AnyOf(r, authorizers...)
			if err != nil {
				slog.Debug("request rejected", "error", err)
				httpx.RenderError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), ident)))
		})
	}
}

// MustFromContext returns the identity stored by Require; handlers mounted
// behind the middleware may assume it is present.
func MustFromContext(ctx context.Context) (Identity, error) {
	ident, ok := FromContext(ctx)
	if !ok {
		return Identity{}, errors.Unauthorized("no identity in request context")
	}
	return ident, nil
}
