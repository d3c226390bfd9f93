package events

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated       EventType = "complaint_created"
	EventComplaintAssigned      EventType = "complaint_assigned"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
	EventComplaintResolved      EventType = "complaint_resolved"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID string      `json:"complaint_id"`
	ActorID     string      `json:"actor_id"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	CategoryID string `json:"category_id"`
	Title      string `json:"title"`
}

// ComplaintAssignedPayload payload.
type ComplaintAssignedPayload struct {
	AssigneeID *string `json:"assignee_id,omitempty"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	OldStatus domain.ComplaintStatus `json:"old_status"`
	NewStatus domain.ComplaintStatus `json:"new_status"`
}

// ComplaintResolvedPayload payload.
type ComplaintResolvedPayload struct {
	ResolvedAt time.Time `json:"resolved_at"`
}
