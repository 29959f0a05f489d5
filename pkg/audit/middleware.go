package audit

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/openagora/agora/pkg/identity"
)

// Middleware records privileged HTTP requests in the audit trail.
type Middleware struct {
	service *Service
}

// NewMiddleware creates a new audit middleware instance.
func NewMiddleware(service *Service) *Middleware {
	return &Middleware{
		service: service,
	}
}

// RequestAudit is an HTTP middleware that appends one trail entry per
// mutating request, attributed to the authenticated identity. The write
// happens asynchronously so the request path never blocks on the trail.
// It must run after the authorizer middleware.
func (m *Middleware) RequestAudit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			return
		}

		ident, ok := identity.FromContext(r.Context())
		if !ok {
			return
		}

		result := ResultSuccess
		if ww.Status() >= http.StatusBadRequest {
			result = ResultFailure
		}

		req := AppendEntryRequest{
			EventType:  r.Method + " " + r.URL.Path,
			EntityType: "http_request",
			EntityID:   ident.ID,
			Result:     result,
			Metadata: map[string]interface{}{
				"uri":        r.RequestURI,
				"method":     r.Method,
				"status":     ww.Status(),
				"actor_type": string(ident.Type),
				"at":         time.Now().UTC().Format(time.RFC3339),
			},
		}
		switch ident.Type {
		case identity.TypeAdmin, identity.TypeAdminUser:
			id := ident.ID
			req.AdminID = &id
		default:
			id := ident.ID
			req.MemberID = &id
		}

		// Detach from the request context so the write survives the
		// response being sent.
		go m.service.Record(context.WithoutCancel(r.Context()), req)
	})
}
