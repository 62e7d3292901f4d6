package dto

import "time"

// CreateEditorRequest payload.
type CreateEditorRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse is a back-office account without its credential.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// EditorRosterResponse lists editors with the roster capacity.
type EditorRosterResponse struct {
	Editors    []UserResponse `json:"editors"`
	MaxEditors int            `json:"max_editors"`
}
