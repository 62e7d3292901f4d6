package service

import (
	"context"

	"github.com/spec-kit/handypro/internal/domain"
	"github.com/spec-kit/handypro/internal/repository"
	apperrors "github.com/spec-kit/handypro/pkg/util/errorutil"
)

// PublicTechnician is a listed technician with its rating aggregate.
// AverageRating is nil when no review has been approved yet.
type PublicTechnician struct {
	Technician    domain.Technician
	AverageRating *float64
	ReviewCount   int
}

// PublicProfile is a technician page with its approved reviews.
type PublicProfile struct {
	PublicTechnician
	Reviews []domain.Review
}

// ListingService serves the public directory.
type ListingService struct {
	technicians repository.TechnicianRepository
	reviews     repository.ReviewRepository
}

// NewListingService constructs the service.
func NewListingService(store *repository.Store) *ListingService {
	return &ListingService{technicians: store.Technicians, reviews: store.Reviews}
}

// PublicListing filters the directory and attaches rating aggregates.
func (s *ListingService) PublicListing(ctx context.Context, criteria ListingCriteria) ([]PublicTechnician, error) {
	all, err := s.technicians.List(ctx, repository.TechnicianFilter{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	approved := domain.ReviewApproved
	reviews, err := s.reviews.List(ctx, repository.ReviewFilter{Status: &approved})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	index := RatingIndex(reviews)
	listed := PublicListing(all, criteria)
	out := make([]PublicTechnician, 0, len(listed))
	for _, t := range listed {
		out = append(out, withRating(t, index))
	}
	return out, nil
}

// PublicProfile returns an APPROVED technician with its approved reviews.
// Technicians that are not publicly visible are reported as not found.
func (s *ListingService) PublicProfile(ctx context.Context, id string) (*PublicProfile, error) {
	tech, err := s.technicians.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "technician")
	}
	if !tech.IsPublic() {
		return nil, apperrors.NewNotFound("technician", nil)
	}
	approved := domain.ReviewApproved
	reviews, err := s.reviews.List(ctx, repository.ReviewFilter{TechnicianID: &tech.ID, Status: &approved})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &PublicProfile{
		PublicTechnician: withRating(*tech, RatingIndex(reviews)),
		Reviews:          reviews,
	}, nil
}

func withRating(t domain.Technician, index map[string]RatingSummary) PublicTechnician {
	pt := PublicTechnician{Technician: t}
	if summary, ok := index[t.ID]; ok {
		avg := summary.Average
		pt.AverageRating = &avg
		pt.ReviewCount = summary.Count
	}
	return pt
}
