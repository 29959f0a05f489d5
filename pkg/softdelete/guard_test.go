package softdelete

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openagora/agora/pkg/errors"
)

type note struct {
	ID        uuid.UUID
	Body      string
	DeletedAt *time.Time
}

type noteStore struct {
	mu    sync.RWMutex
	notes map[uuid.UUID]note
}

func newNoteStore() *noteStore {
	return &noteStore{notes: make(map[uuid.UUID]note)}
}

func (s *noteStore) FindActive(ctx context.Context, id uuid.UUID) (note, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notes[id]
	if !ok || n.DeletedAt != nil {
		return note{}, false, nil
	}
	return n, true, nil
}

func (s *noteStore) MarkDeleted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	if !ok || n.DeletedAt != nil {
		return false, nil
	}
	n.DeletedAt = &at
	s.notes[id] = n
	return true, nil
}

func (s *noteStore) Remove(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notes[id]; !ok {
		return false, nil
	}
	delete(s.notes, id)
	return true, nil
}

func TestGuard_ReadActive(t *testing.T) {
	ctx := context.Background()
	store := newNoteStore()
	guard := NewGuard[note](store, "note", PolicySoft)

	id := uuid.New()
	store.notes[id] = note{ID: id, Body: "hello"}

	got, err := guard.ReadActive(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Body)

	_, err = guard.ReadActive(ctx, uuid.New())
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}

func TestGuard_SoftDelete(t *testing.T) {
	ctx := context.Background()
	store := newNoteStore()
	guard := NewGuard[note](store, "note", PolicySoft)

	id := uuid.New()
	store.notes[id] = note{ID: id, Body: "hello"}

	require.NoError(t, guard.Delete(ctx, id))

	// Row survives but is invisible to reads.
	kept, ok := store.notes[id]
	require.True(t, ok)
	require.NotNil(t, kept.DeletedAt)
	firstStamp := *kept.DeletedAt

	_, err := guard.ReadActive(ctx, id)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))

	// Second delete fails and does not touch the original timestamp.
	err = guard.Delete(ctx, id)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
	assert.Equal(t, firstStamp, *store.notes[id].DeletedAt)
}

func TestGuard_HardDelete(t *testing.T) {
	ctx := context.Background()
	store := newNoteStore()
	guard := NewGuard[note](store, "note", PolicyHard)

	id := uuid.New()
	store.notes[id] = note{ID: id, Body: "hello"}

	require.NoError(t, guard.Delete(ctx, id))
	_, ok := store.notes[id]
	assert.False(t, ok)

	err := guard.Delete(ctx, id)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}

func TestGuard_DeleteNeverExisted(t *testing.T) {
	ctx := context.Background()
	guard := NewGuard[note](newNoteStore(), "note", PolicySoft)

	err := guard.Delete(ctx, uuid.New())
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}
