package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/handypro/internal/auth"
	"github.com/spec-kit/handypro/internal/domain"
	"github.com/spec-kit/handypro/internal/repository"
	"github.com/spec-kit/handypro/internal/validate"
	apperrors "github.com/spec-kit/handypro/pkg/util/errorutil"
)

// TeamService manages the back-office roster and credentials.
type TeamService struct {
	users       repository.UserRepository
	technicians repository.TechnicianRepository
	maxEditors  int
	bcryptCost  int
	logger      *zap.Logger
}

// TeamDependencies bundles collaborators for the team service.
type TeamDependencies struct {
	Store      *repository.Store
	MaxEditors int
	BcryptCost int
	Logger     *zap.Logger
}

// NewTeamService constructs the service.
func NewTeamService(deps TeamDependencies) *TeamService {
	return &TeamService{
		users:       deps.Store.Users,
		technicians: deps.Store.Technicians,
		maxEditors:  deps.MaxEditors,
		bcryptCost:  deps.BcryptCost,
		logger:      loggerOrNop(deps.Logger),
	}
}

// MaxEditors returns the roster capacity.
func (s *TeamService) MaxEditors() int {
	return s.maxEditors
}

// AddEditor creates an EDITOR account. The roster size check and the
// case-insensitive username check run atomically in the store.
func (s *TeamService) AddEditor(ctx context.Context, actor *domain.Actor, username, password string) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	username = strings.TrimSpace(username)

	errs := validate.Errors{}
	errs.Required("username", username)
	errs.Required("password", password)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	user := &domain.User{Username: username, PasswordHash: hash}
	if err := s.users.CreateEditor(ctx, user, s.maxEditors); err != nil {
		switch {
		case errors.Is(err, repository.ErrEditorCapacity):
			return nil, apperrors.NewCapacityError("editor roster is full", map[string]any{"max_editors": s.maxEditors})
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, apperrors.NewDuplicateError("username already taken", map[string]any{"username": username})
		}
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("editor added", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// RemoveEditor deletes an EDITOR account. ADMIN accounts cannot be removed here.
func (s *TeamService) RemoveEditor(ctx context.Context, actor *domain.Actor, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return storeError(err, "editor")
	}
	if user.Role != domain.UserRoleEditor {
		return apperrors.NewNotFound("editor", nil)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return storeError(err, "editor")
	}
	return nil
}

// ListEditors returns the EDITOR roster in creation order.
func (s *TeamService) ListEditors(ctx context.Context, actor *domain.Actor) ([]domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	editors, err := s.users.ListByRole(ctx, domain.UserRoleEditor)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return editors, nil
}

// ChangePassword verifies the current password of a user or technician before replacing it.
func (s *TeamService) ChangePassword(ctx context.Context, actor *domain.Actor, currentPassword, newPassword string) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	errs := validate.Errors{}
	errs.Required("current_password", currentPassword)
	errs.Required("new_password", newPassword)
	if err := errs.Err(); err != nil {
		return err
	}

	switch actor.Type {
	case domain.SubjectTypeUser:
		user, err := s.users.GetByID(ctx, actor.ID)
		if err != nil {
			return storeError(err, "user")
		}
		hash, err := s.rehash(user.PasswordHash, currentPassword, newPassword)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
		return apperrors.MapError(s.users.Update(ctx, user))
	case domain.SubjectTypeTechnician:
		tech, err := s.technicians.GetByID(ctx, actor.ID)
		if err != nil {
			return storeError(err, "technician")
		}
		hash, err := s.rehash(tech.PasswordHash, currentPassword, newPassword)
		if err != nil {
			return err
		}
		tech.PasswordHash = hash
		return apperrors.MapError(s.technicians.Update(ctx, tech))
	default:
		return apperrors.NewUnauthorized("unknown subject")
	}
}

// EnsureAdmin seeds the ADMIN account when no user holds the username yet.
func (s *TeamService) EnsureAdmin(ctx context.Context, username, password string) (*domain.User, error) {
	existing, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	admin := &domain.User{Username: username, PasswordHash: hash, Role: domain.UserRoleAdmin}
	if err := s.users.Create(ctx, admin); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("admin account seeded", zap.String("username", username))
	return admin, nil
}

func (s *TeamService) rehash(currentHash, currentPassword, newPassword string) (string, error) {
	if err := auth.ComparePassword(currentHash, currentPassword); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return "", apperrors.NewValidationError("validation failed", map[string]string{
				"current_password": "incorrect password",
			})
		}
		return "", apperrors.NewInternalError(err)
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	return hash, nil
}
