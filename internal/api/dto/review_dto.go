package dto

import "time"

// CreateReviewRequest is the public review form.
type CreateReviewRequest struct {
	AuthorName  string `json:"author_name"`
	AuthorPhone string `json:"author_phone"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
}

// ReviewResponse is the moderator view of a review.
type ReviewResponse struct {
	ID           string    `json:"id"`
	TechnicianID string    `json:"technician_id"`
	AuthorName   string    `json:"author_name"`
	AuthorPhone  string    `json:"author_phone"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicReviewResponse omits the author's phone number.
type PublicReviewResponse struct {
	ID         string    `json:"id"`
	AuthorName string    `json:"author_name"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}
