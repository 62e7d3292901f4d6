package dto

import "time"

// RegisterTechnicianRequest is the self-registration form.
type RegisterTechnicianRequest struct {
	FullName             string   `json:"full_name"`
	Contact1             string   `json:"contact_1"`
	Contact2             string   `json:"contact_2"`
	LoginEmail           string   `json:"login_email"`
	Commune              string   `json:"commune"`
	Skills               []string `json:"skills"`
	ShortDescription     string   `json:"short_description"`
	PricePerHour         *float64 `json:"price_per_hour"`
	NegotiablePerJob     bool     `json:"negotiable_per_job"`
	Password             string   `json:"password"`
	PasswordConfirmation string   `json:"password_confirmation"`
}

// UpdateProfileRequest is a technician self-edit. Omitted fields stay unchanged.
type UpdateProfileRequest struct {
	FullName                *string  `json:"full_name"`
	Contact1                *string  `json:"contact_1"`
	Contact2                *string  `json:"contact_2"`
	LoginEmail              *string  `json:"login_email"`
	Commune                 *string  `json:"commune"`
	Skills                  []string `json:"skills"`
	ShortDescription        *string  `json:"short_description"`
	PricePerHour            *float64 `json:"price_per_hour"`
	ClearPricePerHour       bool     `json:"clear_price_per_hour"`
	NegotiablePerJob        *bool    `json:"negotiable_per_job"`
	NewPassword             *string  `json:"new_password"`
	NewPasswordConfirmation *string  `json:"new_password_confirmation"`
}

// StatusUpdateRequest payload for moderation endpoints.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// TechnicianResponse is the full record shown to its owner and to moderators.
type TechnicianResponse struct {
	ID                 string    `json:"id"`
	FullName           string    `json:"full_name"`
	Contact1           *string   `json:"contact_1"`
	Contact2           *string   `json:"contact_2"`
	LoginEmail         *string   `json:"login_email"`
	Commune            string    `json:"commune"`
	Skills             []string  `json:"skills"`
	ShortDescription   *string   `json:"short_description"`
	PricePerHour       *float64  `json:"price_per_hour"`
	NegotiablePerJob   bool      `json:"negotiable_per_job"`
	RegistrationStatus string    `json:"registration_status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// PublicTechnicianResponse is a directory card.
type PublicTechnicianResponse struct {
	ID               string   `json:"id"`
	FullName         string   `json:"full_name"`
	Contact1         *string  `json:"contact_1"`
	Contact2         *string  `json:"contact_2"`
	Commune          string   `json:"commune"`
	Skills           []string `json:"skills"`
	ShortDescription *string  `json:"short_description"`
	PricePerHour     *float64 `json:"price_per_hour"`
	NegotiablePerJob bool     `json:"negotiable_per_job"`
	AverageRating    *float64 `json:"average_rating"`
	ReviewCount      int      `json:"review_count"`
}

// PublicProfileResponse is a directory card with its published reviews.
type PublicProfileResponse struct {
	PublicTechnicianResponse
	Reviews []PublicReviewResponse `json:"reviews"`
}

// TechnicianListResponse is the back-office roster.
type TechnicianListResponse struct {
	Technicians []TechnicianResponse `json:"technicians"`
	Counts      StatusCountsResponse `json:"counts"`
}

// StatusCountsResponse tallies technicians per registration status.
type StatusCountsResponse struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// ModerationEntryResponse is one audit trail entry.
type ModerationEntryResponse struct {
	ID        string    `json:"id"`
	ActorType string    `json:"actor_type,omitempty"`
	ActorID   *string   `json:"actor_id,omitempty"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PageMeta describes a paginated listing.
type PageMeta struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}
