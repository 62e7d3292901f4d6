package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/handypro/internal/api/dto"
	"github.com/spec-kit/handypro/internal/service"
)

// TeamHandler manages the editor roster.
type TeamHandler struct {
	team *service.TeamService
}

// NewTeamHandler constructs handler.
func NewTeamHandler(team *service.TeamService) *TeamHandler {
	return &TeamHandler{team: team}
}

// List handles GET /admin/editors.
func (h *TeamHandler) List(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	editors, err := h.team.ListEditors(c.UserContext(), actor)
	if err != nil {
		return err
	}
	resp := make([]dto.UserResponse, 0, len(editors))
	for i := range editors {
		resp = append(resp, userResponse(&editors[i]))
	}
	return c.JSON(fiber.Map{"data": dto.EditorRosterResponse{
		Editors:    resp,
		MaxEditors: h.team.MaxEditors(),
	}})
}

// Create handles POST /admin/editors.
func (h *TeamHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateEditorRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	user, err := h.team.AddEditor(c.UserContext(), actor, req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": userResponse(user)})
}

// Delete handles DELETE /admin/editors/:id.
func (h *TeamHandler) Delete(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	if err := h.team.RemoveEditor(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
