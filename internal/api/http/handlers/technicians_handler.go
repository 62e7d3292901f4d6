package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/handypro/internal/api/dto"
	"github.com/spec-kit/handypro/internal/auth"
	"github.com/spec-kit/handypro/internal/service"
	apperrors "github.com/spec-kit/handypro/pkg/util/errorutil"
)

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

// TechniciansHandler serves the public directory and technician self-service.
type TechniciansHandler struct {
	technicians *service.TechnicianService
	reviews     *service.ReviewService
	listing     *service.ListingService
}

// NewTechniciansHandler constructs handler.
func NewTechniciansHandler(technicians *service.TechnicianService, reviews *service.ReviewService, listing *service.ListingService) *TechniciansHandler {
	return &TechniciansHandler{technicians: technicians, reviews: reviews, listing: listing}
}

// Register handles POST /technicians/register.
func (h *TechniciansHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterTechnicianRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}

	tech, err := h.technicians.SubmitRegistration(c.UserContext(), service.RegistrationInput{
		FullName:             req.FullName,
		Contact1:             req.Contact1,
		Contact2:             req.Contact2,
		LoginEmail:           req.LoginEmail,
		Commune:              req.Commune,
		Skills:               req.Skills,
		ShortDescription:     req.ShortDescription,
		PricePerHour:         req.PricePerHour,
		NegotiablePerJob:     req.NegotiablePerJob,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": technicianResponse(tech)})
}

// List handles GET /technicians.
func (h *TechniciansHandler) List(c *fiber.Ctx) error {
	criteria := service.ListingCriteria{
		Search:  c.Query("q"),
		Commune: c.Query("commune"),
		Skill:   c.Query("skill"),
	}
	listed, err := h.listing.PublicListing(c.UserContext(), criteria)
	if err != nil {
		return err
	}

	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), defaultPageSize)
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	items := service.Page(listed, page, pageSize)
	resp := make([]dto.PublicTechnicianResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, publicTechnicianResponse(item))
	}
	return c.JSON(fiber.Map{
		"data": resp,
		"meta": dto.PageMeta{Page: page, PageSize: pageSize, Total: len(listed)},
	})
}

// Get handles GET /technicians/:id.
func (h *TechniciansHandler) Get(c *fiber.Ctx) error {
	profile, err := h.listing.PublicProfile(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	reviews := make([]dto.PublicReviewResponse, 0, len(profile.Reviews))
	for _, r := range profile.Reviews {
		reviews = append(reviews, publicReviewResponse(r))
	}
	return c.JSON(fiber.Map{"data": dto.PublicProfileResponse{
		PublicTechnicianResponse: publicTechnicianResponse(profile.PublicTechnician),
		Reviews:                  reviews,
	}})
}

// SubmitReview handles POST /technicians/:id/reviews.
func (h *TechniciansHandler) SubmitReview(c *fiber.Ctx) error {
	var req dto.CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	review, err := h.reviews.Submit(c.UserContext(), service.ReviewInput{
		TechnicianID: c.Params("id"),
		AuthorName:   req.AuthorName,
		AuthorPhone:  req.AuthorPhone,
		Rating:       req.Rating,
		Comment:      req.Comment,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"id":     review.ID,
		"status": review.Status,
	}})
}

// Profile handles GET /me/profile.
func (h *TechniciansHandler) Profile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Technician == nil {
		return apperrors.NewForbidden("technician required")
	}
	return c.JSON(fiber.Map{"data": technicianResponse(principal.Technician)})
}

// UpdateProfile handles PUT /me/profile. The payload has no status field; any
// registration_status sent by the client is ignored.
func (h *TechniciansHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Technician == nil {
		return apperrors.NewForbidden("technician required")
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}

	tech, err := h.technicians.UpdateProfile(c.UserContext(), principal.Technician.ID, service.TechnicianUpdate{
		FullName:                req.FullName,
		Contact1:                req.Contact1,
		Contact2:                req.Contact2,
		LoginEmail:              req.LoginEmail,
		Commune:                 req.Commune,
		Skills:                  req.Skills,
		ShortDescription:        req.ShortDescription,
		PricePerHour:            req.PricePerHour,
		ClearPricePerHour:       req.ClearPricePerHour,
		NegotiablePerJob:        req.NegotiablePerJob,
		NewPassword:             req.NewPassword,
		NewPasswordConfirmation: req.NewPasswordConfirmation,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": technicianResponse(tech)})
}
