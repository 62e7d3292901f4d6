package service

import (
	"math"
	"sort"

	"github.com/spec-kit/handypro/internal/domain"
)

// RatingSummary is the approved-review aggregate of one technician.
type RatingSummary struct {
	TechnicianID string
	Average      float64
	Count        int
}

// CategoryCount is one bucket of a distribution.
type CategoryCount struct {
	Label string
	Count int
}

// Dimension selects the technician attribute a distribution groups by.
type Dimension string

const (
	DimensionStatus  Dimension = "status"
	DimensionCommune Dimension = "commune"
	DimensionSkill   Dimension = "skill"
)

// AverageRating returns the mean approved rating of a technician. ok is false
// when the technician has no approved review, which is distinct from a zero average.
func AverageRating(reviews []domain.Review, technicianID string) (avg float64, ok bool) {
	sum, count := 0, 0
	for _, r := range reviews {
		if r.Status != domain.ReviewApproved || r.TechnicianID != technicianID {
			continue
		}
		sum += r.Rating
		count++
	}
	if count == 0 {
		return 0, false
	}
	return float64(sum) / float64(count), true
}

// SiteWideAverage returns the mean of every approved rating.
func SiteWideAverage(reviews []domain.Review) (avg float64, ok bool) {
	sum, count := 0, 0
	for _, r := range reviews {
		if r.Status != domain.ReviewApproved {
			continue
		}
		sum += r.Rating
		count++
	}
	if count == 0 {
		return 0, false
	}
	return float64(sum) / float64(count), true
}

// RatingIndex aggregates approved reviews per technician.
func RatingIndex(reviews []domain.Review) map[string]RatingSummary {
	summaries := summarize(reviews)
	index := make(map[string]RatingSummary, len(summaries))
	for _, s := range summaries {
		index[s.TechnicianID] = s
	}
	return index
}

// TopRated ranks technicians with at least one approved review. Technicians are
// ordered by average, then review count, then first appearance in reviews. n <= 0
// returns every ranked technician.
func TopRated(reviews []domain.Review, n int) []RatingSummary {
	return RankRatings(summarize(reviews), n)
}

// RankRatings sorts summaries by average then count, both descending. Full ties
// keep their input order. The input slice is not modified.
func RankRatings(summaries []RatingSummary, n int) []RatingSummary {
	ranked := append([]RatingSummary(nil), summaries...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Average != ranked[j].Average {
			return ranked[i].Average > ranked[j].Average
		}
		return ranked[i].Count > ranked[j].Count
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// summarize returns one summary per technician in order of first approved review.
func summarize(reviews []domain.Review) []RatingSummary {
	type acc struct{ sum, count int }
	order := make([]string, 0)
	totals := make(map[string]*acc)
	for _, r := range reviews {
		if r.Status != domain.ReviewApproved {
			continue
		}
		a, ok := totals[r.TechnicianID]
		if !ok {
			a = &acc{}
			totals[r.TechnicianID] = a
			order = append(order, r.TechnicianID)
		}
		a.sum += r.Rating
		a.count++
	}

	out := make([]RatingSummary, 0, len(order))
	for _, id := range order {
		a := totals[id]
		out = append(out, RatingSummary{
			TechnicianID: id,
			Average:      float64(a.sum) / float64(a.count),
			Count:        a.count,
		})
	}
	return out
}

// Distribution counts technicians per label of dim. A technician counts once for
// every skill it lists, so skill totals may exceed the number of technicians.
func Distribution(technicians []domain.Technician, dim Dimension) map[string]int {
	counts := make(map[string]int)
	for _, t := range technicians {
		switch dim {
		case DimensionStatus:
			counts[string(t.RegistrationStatus)]++
		case DimensionCommune:
			counts[t.Commune]++
		case DimensionSkill:
			for _, skill := range t.Skills {
				counts[skill]++
			}
		}
	}
	return counts
}

// SortedCounts orders a distribution by count descending, then label ascending.
func SortedCounts(counts map[string]int) []CategoryCount {
	out := make([]CategoryCount, 0, len(counts))
	for label, count := range counts {
		out = append(out, CategoryCount{Label: label, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// RoundRating rounds to two decimals for display.
func RoundRating(v float64) float64 {
	return math.Round(v*100) / 100
}
