package service

import (
	"strings"

	"github.com/spec-kit/handypro/internal/domain"
)

// ListingCriteria are the public search filters. Empty fields match everything.
type ListingCriteria struct {
	Search  string
	Commune string
	Skill   string
}

// PublicListing returns the APPROVED technicians matching every criterion, in
// input order. The result is a new slice; callers may reorder or interleave it.
func PublicListing(all []domain.Technician, criteria ListingCriteria) []domain.Technician {
	search := strings.ToLower(strings.TrimSpace(criteria.Search))
	out := make([]domain.Technician, 0, len(all))
	for _, t := range all {
		if !t.IsPublic() {
			continue
		}
		if search != "" && !matchesSearch(t, search) {
			continue
		}
		if criteria.Commune != "" && t.Commune != criteria.Commune {
			continue
		}
		if criteria.Skill != "" && !t.HasSkill(criteria.Skill) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchesSearch(t domain.Technician, lowered string) bool {
	if strings.Contains(strings.ToLower(t.FullName), lowered) {
		return true
	}
	return strings.Contains(strings.ToLower(derefString(t.ShortDescription)), lowered)
}

// Page returns a copy of the 1-based page of items. Out-of-range pages are empty.
func Page[T any](items []T, page, pageSize int) []T {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		return append([]T(nil), items...)
	}
	if page-1 > len(items)/pageSize {
		return []T{}
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return append([]T(nil), items[start:end]...)
}
