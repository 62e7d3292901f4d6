package domain

import "time"

// UserRole enumerates back-office roles.
type UserRole string

const (
	UserRoleAdmin  UserRole = "ADMIN"
	UserRoleEditor UserRole = "EDITOR"
)

// User is a back-office account (admin or editor).
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
