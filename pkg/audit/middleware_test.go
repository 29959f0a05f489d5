package audit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openagora/agora/pkg/identity"
)

func recordedEntries(t *testing.T, svc *Service, entityID uuid.UUID) []Entry {
	t.Helper()
	var entries []Entry
	require.Eventually(t, func() bool {
		var err error
		entries, err = svc.ListForEntity(context.Background(), "http_request", entityID)
		return err == nil && len(entries) > 0
	}, time.Second, 10*time.Millisecond, "audit entry was never recorded")
	return entries
}

func auditedRequest(t *testing.T, svc *Service, ident identity.Identity, status int) *httptest.ResponseRecorder {
	t.Helper()
	mw := NewMiddleware(svc)
	handler := mw.RequestAudit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))

	req := httptest.NewRequest(http.MethodPost, "/categories", nil)
	req = req.WithContext(identity.ContextWithIdentity(req.Context(), ident))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRequestAudit_RecordsOutcome(t *testing.T) {
	svc := newTestService()
	admin := identity.Identity{ID: uuid.New(), Type: identity.TypeAdmin}

	auditedRequest(t, svc, admin, http.StatusCreated)

	entries := recordedEntries(t, svc, admin.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, "POST /categories", entries[0].EventType)
	assert.Equal(t, ResultSuccess, entries[0].Result)
	require.NotNil(t, entries[0].AdminID)
	assert.Equal(t, admin.ID, *entries[0].AdminID)
}

func TestRequestAudit_FailedHandlerRecordsFailure(t *testing.T) {
	svc := newTestService()
	admin := identity.Identity{ID: uuid.New(), Type: identity.TypeAdmin}

	auditedRequest(t, svc, admin, http.StatusConflict)

	entries := recordedEntries(t, svc, admin.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, ResultFailure, entries[0].Result)
	assert.Equal(t, http.StatusConflict, entries[0].Metadata["status"])
}

func TestRequestAudit_SkipsReads(t *testing.T) {
	svc := newTestService()
	mw := NewMiddleware(svc)
	member := identity.Identity{ID: uuid.New(), Type: identity.TypeMember}

	handler := mw.RequestAudit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	req = req.WithContext(identity.ContextWithIdentity(req.Context(), member))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	// Give the async path a moment; nothing should land.
	time.Sleep(50 * time.Millisecond)
	entries, err := svc.ListForEntity(context.Background(), "http_request", member.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
