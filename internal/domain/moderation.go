package domain

import "time"

// EntityType names the kind of record a moderation entry refers to.
type EntityType string

const (
	EntityTechnician EntityType = "TECHNICIAN"
	EntityReview     EntityType = "REVIEW"
)

// ModerationEntry is an immutable audit trail entry for a status change.
type ModerationEntry struct {
	ID         string
	EntityType EntityType
	EntityID   string
	ActorType  SubjectType
	ActorID    *string
	OldStatus  string
	NewStatus  string
	Reason     string
	CreatedAt  time.Time
}
