package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/openagora/agora/pkg/softdelete"
)

// ParentType names the kind of content a report is filed against.
type ParentType string

const (
	ParentTypePost    ParentType = "post"
	ParentTypeComment ParentType = "comment"
)

// Valid reports whether p is a known parent kind.
func (p ParentType) Valid() bool {
	switch p {
	case ParentTypePost, ParentTypeComment:
		return true
	}
	return false
}

// deletePolicies declares, per parent kind, what resolving a report does to
// its row. Post reports are kept with a deletion stamp; comment reports are
// removed outright.
var deletePolicies = map[ParentType]softdelete.Policy{
	ParentTypePost:    softdelete.PolicySoft,
	ParentTypeComment: softdelete.PolicyHard,
}

// Report is a member's complaint about a post or comment.
type Report struct {
	ID         uuid.UUID  `json:"id"`
	ReporterID uuid.UUID  `json:"reporter_id"`
	ParentType ParentType `json:"parent_type"`
	ParentID   uuid.UUID  `json:"parent_id"`
	Reason     string     `json:"reason"`
	CreatedAt  time.Time  `json:"created_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

// FileReportRequest is the input for filing a report.
type FileReportRequest struct {
	Reason string `json:"reason"`
}
