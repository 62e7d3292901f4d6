package events

import (
	"time"

	"github.com/spec-kit/handypro/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTechnicianRegistered    EventType = "technician.registered"
	EventTechnicianStatusChanged EventType = "technician.status_changed"
	EventTechnicianApproved      EventType = "technician.approved"
	EventReviewSubmitted         EventType = "review.submitted"
	EventReviewStatusChanged     EventType = "review.status_changed"
)

// Actor encapsulates actor metadata for an event. ID is nil for anonymous visitors.
type Actor struct {
	Type domain.SubjectType `json:"type,omitempty"`
	ID   *string            `json:"id,omitempty"`
}

// ActorFrom converts a workflow actor; nil yields the anonymous actor.
func ActorFrom(a *domain.Actor) Actor {
	if a == nil {
		return Actor{}
	}
	id := a.ID
	return Actor{Type: a.Type, ID: &id}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EntityID  string      `json:"entity_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TechnicianRegisteredPayload carries the snapshot taken at registration.
type TechnicianRegisteredPayload struct {
	Technician domain.Technician `json:"technician"`
}

// TechnicianStatusChangedPayload payload.
type TechnicianStatusChangedPayload struct {
	OldStatus domain.RegistrationStatus `json:"old_status"`
	NewStatus domain.RegistrationStatus `json:"new_status"`
	Reason    string                    `json:"reason,omitempty"`
}

// TechnicianApprovedPayload carries the approved technician.
type TechnicianApprovedPayload struct {
	Technician domain.Technician `json:"technician"`
}

// ReviewSubmittedPayload payload.
type ReviewSubmittedPayload struct {
	Review         domain.Review `json:"review"`
	TechnicianName string        `json:"technician_name"`
}

// ReviewStatusChangedPayload payload.
type ReviewStatusChangedPayload struct {
	TechnicianID string              `json:"technician_id"`
	OldStatus    domain.ReviewStatus `json:"old_status"`
	NewStatus    domain.ReviewStatus `json:"new_status"`
}
