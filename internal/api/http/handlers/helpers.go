package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/handypro/internal/api/dto"
	"github.com/spec-kit/handypro/internal/auth"
	"github.com/spec-kit/handypro/internal/domain"
	"github.com/spec-kit/handypro/internal/service"
	apperrors "github.com/spec-kit/handypro/pkg/util/errorutil"
)

func invalidPayload() error {
	return apperrors.NewDomainError(apperrors.CodeValidation, "invalid payload", http.StatusBadRequest, nil)
}

func actorFromContext(c *fiber.Ctx) (*domain.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal.Actor(), nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func technicianResponse(t *domain.Technician) dto.TechnicianResponse {
	return dto.TechnicianResponse{
		ID:                 t.ID,
		FullName:           t.FullName,
		Contact1:           t.Contact1,
		Contact2:           t.Contact2,
		LoginEmail:         t.LoginEmail,
		Commune:            t.Commune,
		Skills:             stringsOrEmpty(t.Skills),
		ShortDescription:   t.ShortDescription,
		PricePerHour:       t.PricePerHour,
		NegotiablePerJob:   t.NegotiablePerJob,
		RegistrationStatus: string(t.RegistrationStatus),
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

func publicTechnicianResponse(pt service.PublicTechnician) dto.PublicTechnicianResponse {
	t := pt.Technician
	resp := dto.PublicTechnicianResponse{
		ID:               t.ID,
		FullName:         t.FullName,
		Contact1:         t.Contact1,
		Contact2:         t.Contact2,
		Commune:          t.Commune,
		Skills:           stringsOrEmpty(t.Skills),
		ShortDescription: t.ShortDescription,
		PricePerHour:     t.PricePerHour,
		NegotiablePerJob: t.NegotiablePerJob,
		ReviewCount:      pt.ReviewCount,
	}
	if pt.AverageRating != nil {
		rounded := service.RoundRating(*pt.AverageRating)
		resp.AverageRating = &rounded
	}
	return resp
}

func reviewResponse(r *domain.Review) dto.ReviewResponse {
	return dto.ReviewResponse{
		ID:           r.ID,
		TechnicianID: r.TechnicianID,
		AuthorName:   r.AuthorName,
		AuthorPhone:  r.AuthorPhone,
		Rating:       r.Rating,
		Comment:      r.Comment,
		Status:       string(r.Status),
		CreatedAt:    r.CreatedAt,
	}
}

func publicReviewResponse(r domain.Review) dto.PublicReviewResponse {
	return dto.PublicReviewResponse{
		ID:         r.ID,
		AuthorName: r.AuthorName,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

func userResponse(u *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func moderationResponse(entries []domain.ModerationEntry) []dto.ModerationEntryResponse {
	resp := make([]dto.ModerationEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, dto.ModerationEntryResponse{
			ID:        e.ID,
			ActorType: string(e.ActorType),
			ActorID:   e.ActorID,
			OldStatus: e.OldStatus,
			NewStatus: e.NewStatus,
			Reason:    e.Reason,
			CreatedAt: e.CreatedAt,
		})
	}
	return resp
}

func categoryCounts(counts []service.CategoryCount) []dto.CategoryCountResponse {
	resp := make([]dto.CategoryCountResponse, 0, len(counts))
	for _, c := range counts {
		resp = append(resp, dto.CategoryCountResponse{Label: c.Label, Count: c.Count})
	}
	return resp
}

func stringsOrEmpty(skills []string) []string {
	if skills == nil {
		return []string{}
	}
	return skills
}
