package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/handypro/internal/domain"
)

func reviewsOf(techID string, status domain.ReviewStatus, ratings ...int) []domain.Review {
	out := make([]domain.Review, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, domain.Review{TechnicianID: techID, Rating: r, Status: status})
	}
	return out
}

func TestAverageRating(t *testing.T) {
	reviews := append(reviewsOf("t1", domain.ReviewApproved, 5, 5, 3), reviewsOf("t1", domain.ReviewPending, 1)...)
	reviews = append(reviews, reviewsOf("t1", domain.ReviewRejected, 1)...)
	reviews = append(reviews, reviewsOf("t2", domain.ReviewApproved, 1)...)

	avg, ok := AverageRating(reviews, "t1")
	assert.True(t, ok)
	assert.Equal(t, 13.0/3.0, avg)
	assert.Equal(t, 4.33, RoundRating(avg))
}

func TestAverageRatingUndefinedWithoutApprovedReviews(t *testing.T) {
	_, ok := AverageRating(nil, "t1")
	assert.False(t, ok)

	_, ok = AverageRating(reviewsOf("t1", domain.ReviewPending, 5, 4), "t1")
	assert.False(t, ok)
}

func TestSiteWideAverage(t *testing.T) {
	_, ok := SiteWideAverage(reviewsOf("t1", domain.ReviewRejected, 5))
	assert.False(t, ok)

	reviews := append(reviewsOf("t1", domain.ReviewApproved, 5, 4), reviewsOf("t2", domain.ReviewApproved, 3)...)
	avg, ok := SiteWideAverage(reviews)
	assert.True(t, ok)
	assert.Equal(t, 4.0, avg)
}

func TestRankRatingsBreaksTiesByCount(t *testing.T) {
	summaries := []RatingSummary{
		{TechnicianID: "A", Average: 4.5, Count: 2},
		{TechnicianID: "B", Average: 4.5, Count: 5},
		{TechnicianID: "C", Average: 3.0, Count: 1},
	}
	ranked := RankRatings(summaries, 5)
	assert.Equal(t, []string{"B", "A", "C"}, ids(ranked))
	assert.Equal(t, "A", summaries[0].TechnicianID)
}

func TestTopRatedFromReviews(t *testing.T) {
	var reviews []domain.Review
	reviews = append(reviews, reviewsOf("A", domain.ReviewApproved, 5, 4)...)
	reviews = append(reviews, reviewsOf("C", domain.ReviewApproved, 3)...)
	reviews = append(reviews, reviewsOf("B", domain.ReviewApproved, 5, 4, 5, 4)...)
	reviews = append(reviews, reviewsOf("D", domain.ReviewPending, 5)...)

	top := TopRated(reviews, 5)
	assert.Equal(t, []string{"B", "A", "C"}, ids(top))
	assert.Equal(t, 4, top[0].Count)

	assert.Equal(t, []string{"B"}, ids(TopRated(reviews, 1)))
	assert.Len(t, TopRated(reviews, 0), 3)
}

func TestTopRatedKeepsFirstAppearanceOnFullTies(t *testing.T) {
	var reviews []domain.Review
	reviews = append(reviews, reviewsOf("X", domain.ReviewApproved, 4)...)
	reviews = append(reviews, reviewsOf("Y", domain.ReviewApproved, 4)...)
	reviews = append(reviews, reviewsOf("Z", domain.ReviewApproved, 4)...)

	for i := 0; i < 3; i++ {
		assert.Equal(t, []string{"X", "Y", "Z"}, ids(TopRated(reviews, 0)))
	}
}

func TestDistribution(t *testing.T) {
	techs := []domain.Technician{
		{Commune: "Kenya", Skills: []string{"Plomberie", "Peinture"}, RegistrationStatus: domain.RegistrationApproved},
		{Commune: "Kenya", Skills: []string{"Plomberie"}, RegistrationStatus: domain.RegistrationPending},
		{Commune: "Ruashi", Skills: nil, RegistrationStatus: domain.RegistrationApproved},
	}

	assert.Equal(t, map[string]int{"APPROVED": 2, "PENDING": 1}, Distribution(techs, DimensionStatus))
	assert.Equal(t, map[string]int{"Kenya": 2, "Ruashi": 1}, Distribution(techs, DimensionCommune))
	assert.Equal(t, map[string]int{"Plomberie": 2, "Peinture": 1}, Distribution(techs, DimensionSkill))
}

func TestSortedCounts(t *testing.T) {
	got := SortedCounts(map[string]int{"b": 2, "a": 2, "c": 5, "d": 1})
	assert.Equal(t, []CategoryCount{{"c", 5}, {"a", 2}, {"b", 2}, {"d", 1}}, got)
}

func TestRatingIndex(t *testing.T) {
	reviews := append(reviewsOf("t1", domain.ReviewApproved, 4, 5), reviewsOf("t2", domain.ReviewPending, 5)...)
	index := RatingIndex(reviews)
	assert.Len(t, index, 1)
	assert.Equal(t, RatingSummary{TechnicianID: "t1", Average: 4.5, Count: 2}, index["t1"])
}

func ids(summaries []RatingSummary) []string {
	out := make([]string, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, s.TechnicianID)
	}
	return out
}
