// Package audit records the platform's immutable moderation and activity
// trail. Entries are append-only: nothing updates or deletes them.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one audit log row. Exactly one of AdminID and MemberID is set
// depending on who acted; EntityType and EntityID name the thing acted on.
type Entry struct {
	ID         uuid.UUID              `json:"id"`
	AdminID    *uuid.UUID             `json:"admin_id,omitempty"`
	MemberID   *uuid.UUID             `json:"member_id,omitempty"`
	EventType  string                 `json:"event_type"`
	EntityType string                 `json:"entity_type"`
	EntityID   uuid.UUID              `json:"entity_id"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Result     string                 `json:"result"`
	CreatedAt  time.Time              `json:"created_at"`
}

// AppendEntryRequest is the input for recording a new audit entry.
type AppendEntryRequest struct {
	AdminID    *uuid.UUID             `json:"admin_id,omitempty"`
	MemberID   *uuid.UUID             `json:"member_id,omitempty"`
	EventType  string                 `json:"event_type"`
	EntityType string                 `json:"entity_type"`
	EntityID   uuid.UUID              `json:"entity_id"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Result     string                 `json:"result"`
}

// Entity types recorded in the trail.
const (
	EntityTypePost     = "post"
	EntityTypeComment  = "comment"
	EntityTypeCategory = "category"
	EntityTypeReport   = "report"
	EntityTypeSession  = "session"
)

// Results recorded in the trail.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)
