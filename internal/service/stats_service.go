package service

import (
	"context"

	"github.com/spec-kit/handypro/internal/domain"
	"github.com/spec-kit/handypro/internal/repository"
	apperrors "github.com/spec-kit/handypro/pkg/util/errorutil"
)

const (
	dashboardTopRated      = 5
	dashboardPopularSkills = 5
	unknownTechnicianName  = "unknown"
)

// TopRatedEntry is a ranked technician with its display name.
type TopRatedEntry struct {
	RatingSummary
	Name string
}

// Dashboard holds the admin statistics page.
type Dashboard struct {
	TotalTechnicians    int
	ApprovedTechnicians int
	PendingTechnicians  int
	TotalReviews        int
	ApprovedReviews     int
	PendingReviews      int
	SiteAverage         *float64
	ByStatus            []CategoryCount
	ByCommune           []CategoryCount
	BySkill             []CategoryCount
	TopRated            []TopRatedEntry
	PopularSkills       []CategoryCount
}

// StatsService computes the dashboard from a fresh snapshot of the store.
type StatsService struct {
	technicians repository.TechnicianRepository
	reviews     repository.ReviewRepository
}

// NewStatsService constructs the service.
func NewStatsService(store *repository.Store) *StatsService {
	return &StatsService{technicians: store.Technicians, reviews: store.Reviews}
}

// Dashboard aggregates technicians and reviews for moderators.
func (s *StatsService) Dashboard(ctx context.Context, actor *domain.Actor) (*Dashboard, error) {
	if err := requireModerator(actor); err != nil {
		return nil, err
	}
	techs, err := s.technicians.List(ctx, repository.TechnicianFilter{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	reviews, err := s.reviews.List(ctx, repository.ReviewFilter{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return buildDashboard(techs, reviews), nil
}

func buildDashboard(techs []domain.Technician, reviews []domain.Review) *Dashboard {
	byStatus := Distribution(techs, DimensionStatus)
	bySkill := SortedCounts(Distribution(techs, DimensionSkill))

	d := &Dashboard{
		TotalTechnicians:    len(techs),
		ApprovedTechnicians: byStatus[string(domain.RegistrationApproved)],
		PendingTechnicians:  byStatus[string(domain.RegistrationPending)],
		TotalReviews:        len(reviews),
		ByStatus:            SortedCounts(byStatus),
		ByCommune:           SortedCounts(Distribution(techs, DimensionCommune)),
		BySkill:             bySkill,
	}
	for _, r := range reviews {
		switch r.Status {
		case domain.ReviewApproved:
			d.ApprovedReviews++
		case domain.ReviewPending:
			d.PendingReviews++
		}
	}
	if avg, ok := SiteWideAverage(reviews); ok {
		d.SiteAverage = &avg
	}

	names := make(map[string]string, len(techs))
	for _, t := range techs {
		names[t.ID] = t.FullName
	}
	for _, summary := range TopRated(reviews, dashboardTopRated) {
		name, ok := names[summary.TechnicianID]
		if !ok {
			name = unknownTechnicianName
		}
		d.TopRated = append(d.TopRated, TopRatedEntry{RatingSummary: summary, Name: name})
	}

	d.PopularSkills = bySkill
	if len(d.PopularSkills) > dashboardPopularSkills {
		d.PopularSkills = d.PopularSkills[:dashboardPopularSkills]
	}
	return d
}
