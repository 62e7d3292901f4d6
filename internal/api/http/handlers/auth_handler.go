package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/handypro/internal/api/dto"
	"github.com/spec-kit/handypro/internal/auth"
	"github.com/spec-kit/handypro/internal/domain"
	"github.com/spec-kit/handypro/internal/service"
	"github.com/spec-kit/handypro/internal/validate"
	apperrors "github.com/spec-kit/handypro/pkg/util/errorutil"
)

// AuthHandler exposes login and credential endpoints.
type AuthHandler struct {
	auth *service.AuthService
	team *service.TeamService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, teamService *service.TeamService) *AuthHandler {
	return &AuthHandler{auth: authService, team: teamService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	errs := validate.Errors{}
	errs.Required("login", req.Login)
	errs.Required("password", req.Password)
	if err := errs.Err(); err != nil {
		return err
	}

	session, err := h.auth.Login(c.UserContext(), req.Login, req.Password)
	if err != nil {
		return err
	}

	id, role, name := session.Result.Identity()
	subject := dto.SubjectResponse{ID: id, Role: string(role), Name: name}
	if session.Result.Kind == service.LoginSystemUser {
		subject.Type = string(domain.SubjectTypeUser)
	} else {
		subject.Type = string(domain.SubjectTypeTechnician)
	}

	return c.JSON(fiber.Map{
		"data": dto.LoginResponse{
			Subject: subject,
			Auth:    dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
		},
	})
}

// ChangePassword handles POST /auth/password/change.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	if err := h.team.ChangePassword(c.UserContext(), actor, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password_changed"}})
}

// Me handles GET /me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	switch {
	case principal.User != nil:
		return c.JSON(fiber.Map{"data": fiber.Map{
			"type": domain.SubjectTypeUser,
			"user": userResponse(principal.User),
		}})
	case principal.Technician != nil:
		return c.JSON(fiber.Map{"data": fiber.Map{
			"type":       domain.SubjectTypeTechnician,
			"technician": technicianResponse(principal.Technician),
		}})
	}
	return apperrors.NewUnauthorized("unknown subject")
}
