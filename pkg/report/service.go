package report

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/openagora/agora/pkg/errors"
	"github.com/openagora/agora/pkg/softdelete"
)

// Service provides report business logic. Each parent kind has its own
// delete policy, so the service keeps one guard per policy over the shared
// repository and dispatches on the report's parent type.
type Service struct {
	repo   Repository
	guards map[softdelete.Policy]*softdelete.Guard[Report]
}

// NewService creates a new report service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		guards: map[softdelete.Policy]*softdelete.Guard[Report]{
			softdelete.PolicySoft: softdelete.NewGuard[Report](repo, "report", softdelete.PolicySoft),
			softdelete.PolicyHard: softdelete.NewGuard[Report](repo, "report", softdelete.PolicyHard),
		},
	}
}

// File records a member's report against a post or comment.
func (s *Service) File(ctx context.Context, reporterID uuid.UUID, parentType ParentType, parentID uuid.UUID, req FileReportRequest) (*Report, error) {
	if !parentType.Valid() {
		return nil, errors.InvalidInput("parent_type", "unknown parent kind")
	}
	if parentID == uuid.Nil {
		return nil, errors.MissingRequired("parent_id")
	}
	req.Reason = strings.TrimSpace(req.Reason)
	if req.Reason == "" {
		return nil, errors.MissingRequired("reason")
	}

	report, err := s.repo.Create(ctx, Report{
		ID:         uuid.New(),
		ReporterID: reporterID,
		ParentType: parentType,
		ParentID:   parentID,
		Reason:     req.Reason,
	})
	if err != nil {
		return nil, errors.InternalWrap(err, "failed to create report")
	}

	slog.Info("Report filed", "reportId", report.ID, "parentType", parentType, "parentId", parentID)
	return report, nil
}

// Get fetches an active report.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Report, error) {
	report, ok, err := s.repo.FindActive(ctx, id)
	if err != nil {
		return nil, errors.InternalWrap(err, "failed to get report")
	}
	if !ok {
		return nil, errors.NotFound("report", id.String())
	}
	return &report, nil
}

// ListForParent lists live reports against one parent.
func (s *Service) ListForParent(ctx context.Context, parentType ParentType, parentID uuid.UUID) ([]Report, error) {
	if !parentType.Valid() {
		return nil, errors.InvalidInput("parent_type", "unknown parent kind")
	}
	reports, err := s.repo.ListActiveByParent(ctx, parentType, parentID)
	if err != nil {
		return nil, errors.InternalWrap(err, "failed to list reports")
	}
	return reports, nil
}

// Resolve deletes a report under the policy declared for its parent kind:
// post reports are stamped and kept, comment reports are removed. Either
// way a resolved report cannot be resolved again.
func (s *Service) Resolve(ctx context.Context, id uuid.UUID) error {
	report, ok, err := s.repo.FindActive(ctx, id)
	if err != nil {
		return errors.InternalWrap(err, "failed to get report")
	}
	if !ok {
		return errors.NotFound("report", id.String())
	}

	guard := s.guards[deletePolicies[report.ParentType]]
	if err := guard.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("Report resolved", "reportId", id, "parentType", report.ParentType)
	return nil
}
