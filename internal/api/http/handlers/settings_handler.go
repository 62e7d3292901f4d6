package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/handypro/internal/api/dto"
	"github.com/spec-kit/handypro/internal/domain"
	"github.com/spec-kit/handypro/internal/service"
)

// SettingsHandler exposes the site configuration.
type SettingsHandler struct {
	settings *service.SettingsService
}

// NewSettingsHandler constructs handler.
func NewSettingsHandler(settings *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get handles GET /settings.
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	settings, err := h.settings.Get(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": settingsResponse(settings)})
}

// Update handles PUT /admin/settings.
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	settings, err := h.settings.Update(c.UserContext(), actor, service.SettingsUpdate{
		AppName:    req.AppName,
		FooterText: req.FooterText,
		Logo:       req.Logo,
		Banners:    req.Banners,
		FAQ:        req.FAQ,
		Communes:   req.Communes,
		Skills:     req.Skills,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": settingsResponse(settings)})
}

func settingsResponse(s *domain.SiteSettings) dto.SettingsResponse {
	resp := dto.SettingsResponse{
		AppName:    s.AppName,
		FooterText: s.FooterText,
		Logo:       s.Logo,
		Banners:    s.Banners,
		FAQ:        s.FAQ,
		Communes:   stringsOrEmpty(s.Communes),
		Skills:     stringsOrEmpty(s.Skills),
	}
	if resp.FAQ == nil {
		resp.FAQ = []domain.FAQEntry{}
	}
	if !s.UpdatedAt.IsZero() {
		updated := s.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}
