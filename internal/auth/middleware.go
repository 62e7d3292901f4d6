package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/handypro/internal/domain"
	"github.com/spec-kit/handypro/internal/repository"
	apperrors "github.com/spec-kit/handypro/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	SubjectType domain.SubjectType
	User        *domain.User
	Technician  *domain.Technician
}

// Actor converts the principal into the workflow actor.
func (p *Principal) Actor() *domain.Actor {
	switch {
	case p == nil:
		return nil
	case p.User != nil:
		return &domain.Actor{Type: domain.SubjectTypeUser, ID: p.User.ID, Role: p.User.Role}
	case p.Technician != nil:
		return &domain.Actor{Type: domain.SubjectTypeTechnician, ID: p.Technician.ID}
	}
	return nil
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens      *TokenManager
	users       repository.UserRepository
	technicians repository.TechnicianRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository, technicians repository.TechnicianRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, technicians: technicians}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	principal := &Principal{SubjectType: claims.Subject}

	switch claims.Subject {
	case domain.SubjectTypeUser:
		user, err := m.users.GetByID(c.UserContext(), claims.SubjectID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.NewUnauthorized("user not found")
			}
			return apperrors.MapError(err)
		}
		principal.User = user
	case domain.SubjectTypeTechnician:
		tech, err := m.technicians.GetByID(c.UserContext(), claims.SubjectID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.NewUnauthorized("technician not found")
			}
			return apperrors.MapError(err)
		}
		principal.Technician = tech
	default:
		return apperrors.NewUnauthorized("unknown subject")
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
