package audit

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/openagora/agora/pkg/errors"
)

// Service provides audit trail business logic on top of an append-only
// repository.
type Service struct {
	repo Repository
}

// NewService creates a new audit service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// Append records a new entry after validating the required fields. Entries
// are immutable once written.
func (s *Service) Append(ctx context.Context, req AppendEntryRequest) (*Entry, error) {
	if req.EventType == "" {
		return nil, errors.MissingRequired("event_type")
	}
	if req.EntityType == "" {
		return nil, errors.MissingRequired("entity_type")
	}
	if req.EntityID == uuid.Nil {
		return nil, errors.MissingRequired("entity_id")
	}
	if req.Result == "" {
		return nil, errors.MissingRequired("result")
	}

	entry, err := s.repo.Append(ctx, req)
	if err != nil {
		return nil, errors.InternalWrap(err, "failed to append audit entry")
	}
	return entry, nil
}

// Get fetches one entry by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Entry, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.InternalWrap(err, "failed to get audit entry")
	}
	if entry == nil {
		return nil, errors.NotFound("audit entry", id.String())
	}
	return entry, nil
}

// GetModerationLog fetches an entry addressed through its parent post. The
// entry must exist AND belong to the named post; an entry that exists but
// hangs off a different entity is a mismatch, which is reported distinctly
// from not-found so the caller knows the id itself was valid.
func (s *Service) GetModerationLog(ctx context.Context, postID, logID uuid.UUID) (*Entry, error) {
	entry, err := s.repo.GetByID(ctx, logID)
	if err != nil {
		return nil, errors.InternalWrap(err, "failed to get audit entry")
	}
	if entry == nil {
		return nil, errors.NotFound("moderation log", logID.String())
	}

	if entry.EntityType != EntityTypePost || entry.EntityID != postID {
		return nil, errors.Newf(errors.ErrCodeMismatch,
			"moderation log %s does not belong to post %s", logID, postID)
	}
	return entry, nil
}

// ListForEntity lists the trail for one entity.
func (s *Service) ListForEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]Entry, error) {
	entries, err := s.repo.ListByEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, errors.InternalWrap(err, "failed to list audit entries")
	}
	return entries, nil
}

// Record appends an entry and only logs on failure. It is the fire-and-forget
// variant used by the middleware and by services that must not fail their
// main operation over a trail write.
func (s *Service) Record(ctx context.Context, req AppendEntryRequest) {
	if _, err := s.Append(ctx, req); err != nil {
		slog.Error("Failed to record audit entry",
			"eventType", req.EventType, "entityType", req.EntityType, "err", err)
	}
}
