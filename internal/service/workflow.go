package service

import "github.com/spec-kit/handypro/internal/domain"

// Moderators may move a technician into these states from any prior state.
// Self-edits move it back to PENDING.
var moderatorTechnicianTargets = map[domain.RegistrationStatus]bool{
	domain.RegistrationApproved: true,
	domain.RegistrationRejected: true,
}

// Reviews leave PENDING exactly once.
var reviewTransitions = map[domain.ReviewStatus][]domain.ReviewStatus{
	domain.ReviewPending:  {domain.ReviewApproved, domain.ReviewRejected},
	domain.ReviewApproved: {},
	domain.ReviewRejected: {},
}

func canModerateTechnicianTo(status domain.RegistrationStatus) bool {
	return moderatorTechnicianTargets[status]
}

func isValidReviewTransition(current, next domain.ReviewStatus) bool {
	for _, candidate := range reviewTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
