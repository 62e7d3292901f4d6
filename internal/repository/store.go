package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a record does not exist. It aliases pgx.ErrNoRows so
// callers can match either.
var ErrNotFound = pgx.ErrNoRows

var (
	// ErrEditorCapacity is returned when the editor roster is full.
	ErrEditorCapacity = errors.New("editor capacity reached")
	// ErrDuplicateUsername is returned on a case-insensitive username collision.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrStatusChanged is returned when a conditional status update finds the
	// record in another status than expected.
	ErrStatusChanged = errors.New("status changed concurrently")
)

// validID reports whether id can match a stored row. Record ids are UUIDs.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Store bundles every collection handle. It is passed explicitly to services.
type Store struct {
	Technicians TechnicianRepository
	Reviews     ReviewRepository
	Users       UserRepository
	Settings    SettingsRepository
	Moderation  ModerationLogRepository
}

// NewPostgresStore returns a Store backed by the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *Store {
	return &Store{
		Technicians: NewTechnicianRepository(pool),
		Reviews:     NewReviewRepository(pool),
		Users:       NewUserRepository(pool),
		Settings:    NewSettingsRepository(pool),
		Moderation:  NewModerationLogRepository(pool),
	}
}
