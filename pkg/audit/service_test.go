package audit

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openagora/agora/pkg/errors"
)

func newTestService() *Service {
	return NewService(NewInMemoryRepository())
}

func appendTestEntry(t *testing.T, svc *Service, entityType string, entityID uuid.UUID) *Entry {
	t.Helper()
	adminID := uuid.New()
	entry, err := svc.Append(context.Background(), AppendEntryRequest{
		AdminID:    &adminID,
		EventType:  "moderation.remove",
		EntityType: entityType,
		EntityID:   entityID,
		Result:     ResultSuccess,
	})
	require.NoError(t, err)
	return entry
}

func TestAppendEntry(t *testing.T) {
	svc := newTestService()
	postID := uuid.New()

	entry := appendTestEntry(t, svc, EntityTypePost, postID)

	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.Equal(t, postID, entry.EntityID)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestAppendEntry_Validation(t *testing.T) {
	svc := newTestService()
	adminID := uuid.New()

	cases := []struct {
		name string
		req  AppendEntryRequest
	}{
		{"missing event_type", AppendEntryRequest{AdminID: &adminID, EntityType: EntityTypePost, EntityID: uuid.New(), Result: ResultSuccess}},
		{"missing entity_type", AppendEntryRequest{AdminID: &adminID, EventType: "moderation.remove", EntityID: uuid.New(), Result: ResultSuccess}},
		{"missing entity_id", AppendEntryRequest{AdminID: &adminID, EventType: "moderation.remove", EntityType: EntityTypePost, Result: ResultSuccess}},
		{"missing result", AppendEntryRequest{AdminID: &adminID, EventType: "moderation.remove", EntityType: EntityTypePost, EntityID: uuid.New()}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Append(context.Background(), tc.req)
			assert.True(t, errors.IsCode(err, errors.ErrCodeMissingRequired))
		})
	}
}

func TestAppendEntry_SystemOriginated(t *testing.T) {
	svc := newTestService()
	sessionID := uuid.New()

	// Events like the session cleanup sweep have no acting admin or member.
	entry, err := svc.Append(context.Background(), AppendEntryRequest{
		EventType:  "session.cleanup",
		EntityType: EntityTypeSession,
		EntityID:   sessionID,
		Result:     ResultSuccess,
	})
	require.NoError(t, err)
	assert.Nil(t, entry.AdminID)
	assert.Nil(t, entry.MemberID)

	got, err := svc.Get(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, sessionID, got.EntityID)
}

func TestGetEntry(t *testing.T) {
	svc := newTestService()

	entry := appendTestEntry(t, svc, EntityTypePost, uuid.New())

	got, err := svc.Get(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)

	_, err = svc.Get(context.Background(), uuid.New())
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}

func TestGetModerationLog(t *testing.T) {
	svc := newTestService()
	postID := uuid.New()

	entry := appendTestEntry(t, svc, EntityTypePost, postID)

	got, err := svc.GetModerationLog(context.Background(), postID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)
}

func TestGetModerationLog_Mismatch(t *testing.T) {
	svc := newTestService()
	postID := uuid.New()

	// Entry exists but belongs to a different post.
	otherPost := appendTestEntry(t, svc, EntityTypePost, uuid.New())
	_, err := svc.GetModerationLog(context.Background(), postID, otherPost.ID)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMismatch))

	// Entry exists but is not about a post at all.
	comment := appendTestEntry(t, svc, EntityTypeComment, postID)
	_, err = svc.GetModerationLog(context.Background(), postID, comment.ID)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMismatch))

	// Missing entry stays not-found, not mismatch.
	_, err = svc.GetModerationLog(context.Background(), postID, uuid.New())
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}

func TestListForEntity(t *testing.T) {
	svc := newTestService()
	postID := uuid.New()

	appendTestEntry(t, svc, EntityTypePost, postID)
	appendTestEntry(t, svc, EntityTypePost, postID)
	appendTestEntry(t, svc, EntityTypePost, uuid.New())

	entries, err := svc.ListForEntity(context.Background(), EntityTypePost, postID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
