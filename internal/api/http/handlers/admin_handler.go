package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/handypro/internal/api/dto"
	"github.com/spec-kit/handypro/internal/domain"
	"github.com/spec-kit/handypro/internal/service"
	apperrors "github.com/spec-kit/handypro/pkg/util/errorutil"
)

// AdminHandler serves the moderation back office.
type AdminHandler struct {
	technicians *service.TechnicianService
	reviews     *service.ReviewService
	stats       *service.StatsService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(technicians *service.TechnicianService, reviews *service.ReviewService, stats *service.StatsService) *AdminHandler {
	return &AdminHandler{technicians: technicians, reviews: reviews, stats: stats}
}

// ListTechnicians handles GET /admin/technicians.
func (h *AdminHandler) ListTechnicians(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var status *domain.RegistrationStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.RegistrationStatus(strings.ToUpper(raw))
		if !s.Valid() {
			return invalidStatusFilter()
		}
		status = &s
	}

	techs, counts, err := h.technicians.List(c.UserContext(), actor, status)
	if err != nil {
		return err
	}
	resp := make([]dto.TechnicianResponse, 0, len(techs))
	for i := range techs {
		resp = append(resp, technicianResponse(&techs[i]))
	}
	return c.JSON(fiber.Map{"data": dto.TechnicianListResponse{
		Technicians: resp,
		Counts: dto.StatusCountsResponse{
			Pending:  counts.Pending,
			Approved: counts.Approved,
			Rejected: counts.Rejected,
		},
	}})
}

// GetTechnician handles GET /admin/technicians/:id.
func (h *AdminHandler) GetTechnician(c *fiber.Ctx) error {
	tech, err := h.technicians.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": technicianResponse(tech)})
}

// SetTechnicianStatus handles PUT /admin/technicians/:id/status.
func (h *AdminHandler) SetTechnicianStatus(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	status := domain.RegistrationStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	tech, err := h.technicians.SetStatus(c.UserContext(), actor, c.Params("id"), status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": technicianResponse(tech)})
}

// DeleteTechnician handles DELETE /admin/technicians/:id.
func (h *AdminHandler) DeleteTechnician(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	if err := h.technicians.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// TechnicianHistory handles GET /admin/technicians/:id/history.
func (h *AdminHandler) TechnicianHistory(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	entries, err := h.technicians.ModerationHistory(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": moderationResponse(entries)})
}

// ListReviews handles GET /admin/reviews.
func (h *AdminHandler) ListReviews(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var status *domain.ReviewStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.ReviewStatus(strings.ToUpper(raw))
		if !s.Valid() {
			return invalidStatusFilter()
		}
		status = &s
	}

	reviews, err := h.reviews.List(c.UserContext(), actor, status)
	if err != nil {
		return err
	}
	resp := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		resp = append(resp, reviewResponse(&reviews[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// SetReviewStatus handles PUT /admin/reviews/:id/status.
func (h *AdminHandler) SetReviewStatus(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	status := domain.ReviewStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	review, err := h.reviews.SetStatus(c.UserContext(), actor, c.Params("id"), status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reviewResponse(review)})
}

// ReviewHistory handles GET /admin/reviews/:id/history.
func (h *AdminHandler) ReviewHistory(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	entries, err := h.reviews.ModerationHistory(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": moderationResponse(entries)})
}

// Stats handles GET /admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	dash, err := h.stats.Dashboard(c.UserContext(), actor)
	if err != nil {
		return err
	}

	resp := dto.DashboardResponse{
		TotalTechnicians:    dash.TotalTechnicians,
		ApprovedTechnicians: dash.ApprovedTechnicians,
		PendingTechnicians:  dash.PendingTechnicians,
		TotalReviews:        dash.TotalReviews,
		ApprovedReviews:     dash.ApprovedReviews,
		PendingReviews:      dash.PendingReviews,
		ByStatus:            categoryCounts(dash.ByStatus),
		ByCommune:           categoryCounts(dash.ByCommune),
		BySkill:             categoryCounts(dash.BySkill),
		PopularSkills:       categoryCounts(dash.PopularSkills),
		TopRated:            make([]dto.TopRatedResponse, 0, len(dash.TopRated)),
	}
	if dash.SiteAverage != nil {
		avg := service.RoundRating(*dash.SiteAverage)
		resp.SiteAverageRating = &avg
	}
	for _, entry := range dash.TopRated {
		resp.TopRated = append(resp.TopRated, dto.TopRatedResponse{
			TechnicianID:  entry.TechnicianID,
			Name:          entry.Name,
			AverageRating: service.RoundRating(entry.Average),
			ReviewCount:   entry.Count,
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

func invalidStatusFilter() error {
	return apperrors.NewValidationError("validation failed", map[string]string{
		"status": "must be PENDING, APPROVED or REJECTED",
	})
}
