package domain

import "time"

// ReviewStatus is the moderation state of a review.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "PENDING"
	ReviewApproved ReviewStatus = "APPROVED"
	ReviewRejected ReviewStatus = "REJECTED"
)

// Valid reports whether the status is one of the known values.
func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewPending, ReviewApproved, ReviewRejected:
		return true
	}
	return false
}

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a public rating of a technician. Only APPROVED reviews count.
type Review struct {
	ID           string
	TechnicianID string
	AuthorName   string
	AuthorPhone  string
	Rating       int
	Comment      string
	Status       ReviewStatus
	CreatedAt    time.Time
}
