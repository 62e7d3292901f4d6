package dto

import "time"

// LoginRequest payload. Login is a username, a technician e-mail or a technician phone number.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// PasswordChangeRequest payload for authenticated password changes.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SubjectResponse identifies the logged-in principal.
type SubjectResponse struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Role string `json:"role,omitempty"`
	Name string `json:"name"`
}

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	Subject SubjectResponse `json:"subject"`
	Auth    AuthResponse    `json:"auth"`
}
