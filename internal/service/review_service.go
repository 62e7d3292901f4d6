package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/handypro/internal/domain"
	"github.com/spec-kit/handypro/internal/events"
	"github.com/spec-kit/handypro/internal/observability"
	"github.com/spec-kit/handypro/internal/repository"
	"github.com/spec-kit/handypro/internal/validate"
	apperrors "github.com/spec-kit/handypro/pkg/util/errorutil"
)

// ReviewService handles public review submission and moderation.
type ReviewService struct {
	reviews     repository.ReviewRepository
	technicians repository.TechnicianRepository
	moderation  repository.ModerationLogRepository
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// ReviewDependencies bundles collaborators for the review service.
type ReviewDependencies struct {
	Store      *repository.Store
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// ReviewInput is the public review form.
type ReviewInput struct {
	TechnicianID string
	AuthorName   string
	AuthorPhone  string
	Rating       int
	Comment      string
}

// NewReviewService constructs the service.
func NewReviewService(deps ReviewDependencies) *ReviewService {
	return &ReviewService{
		reviews:     deps.Store.Reviews,
		technicians: deps.Store.Technicians,
		moderation:  deps.Store.Moderation,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		logger:      loggerOrNop(deps.Logger),
	}
}

// Submit stores a PENDING review for a publicly visible technician.
func (s *ReviewService) Submit(ctx context.Context, input ReviewInput) (*domain.Review, error) {
	review := &domain.Review{
		TechnicianID: strings.TrimSpace(input.TechnicianID),
		AuthorName:   strings.TrimSpace(input.AuthorName),
		AuthorPhone:  strings.TrimSpace(input.AuthorPhone),
		Rating:       input.Rating,
		Comment:      strings.TrimSpace(input.Comment),
		Status:       domain.ReviewPending,
	}

	errs := validate.Errors{}
	errs.Required("author_name", review.AuthorName)
	errs.Required("author_phone", review.AuthorPhone)
	errs.Required("comment", review.Comment)
	errs.RangeInt("rating", review.Rating, domain.MinRating, domain.MaxRating)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	tech, err := s.technicians.GetByID(ctx, review.TechnicianID)
	if err != nil {
		return nil, storeError(err, "technician")
	}
	if !tech.IsPublic() {
		return nil, apperrors.NewNotFound("technician", nil)
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, storeError(err, "technician")
	}

	s.metrics.RecordReviewSubmitted()
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:     events.EventReviewSubmitted,
		EntityID: review.ID,
		Payload: events.ReviewSubmittedPayload{
			Review:         *review,
			TechnicianName: tech.FullName,
		},
	})
	return review, nil
}

// SetStatus moves a PENDING review to APPROVED or REJECTED. Moderated reviews are final.
func (s *ReviewService) SetStatus(ctx context.Context, actor *domain.Actor, id string, status domain.ReviewStatus) (*domain.Review, error) {
	if err := requireModerator(actor); err != nil {
		return nil, err
	}
	if status != domain.ReviewApproved && status != domain.ReviewRejected {
		return nil, apperrors.NewValidationError("validation failed", map[string]string{
			"status": "must be APPROVED or REJECTED",
		})
	}

	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "review")
	}
	oldStatus := review.Status
	if !isValidReviewTransition(oldStatus, status) {
		return nil, apperrors.NewConflict(
			fmt.Sprintf("review already %s", strings.ToLower(string(oldStatus))),
			map[string]any{"status": oldStatus},
		)
	}

	if err := s.reviews.UpdateStatus(ctx, id, oldStatus, status); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, apperrors.NewConflict("review was moderated concurrently", nil)
		}
		return nil, storeError(err, "review")
	}
	review.Status = status

	recordModeration(ctx, s.moderation, s.logger, domain.ModerationEntry{
		EntityType: domain.EntityReview,
		EntityID:   review.ID,
		OldStatus:  string(oldStatus),
		NewStatus:  string(status),
	}, actor)
	s.metrics.RecordTransition(string(domain.EntityReview), string(status))
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:     events.EventReviewStatusChanged,
		EntityID: review.ID,
		Actor:    events.ActorFrom(actor),
		Payload: events.ReviewStatusChangedPayload{
			TechnicianID: review.TechnicianID,
			OldStatus:    oldStatus,
			NewStatus:    status,
		},
	})
	return review, nil
}

// List returns reviews for moderators, optionally narrowed to one status.
func (s *ReviewService) List(ctx context.Context, actor *domain.Actor, status *domain.ReviewStatus) ([]domain.Review, error) {
	if err := requireModerator(actor); err != nil {
		return nil, err
	}
	reviews, err := s.reviews.List(ctx, repository.ReviewFilter{Status: status})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return reviews, nil
}

// ListPending returns the moderation queue.
func (s *ReviewService) ListPending(ctx context.Context, actor *domain.Actor) ([]domain.Review, error) {
	pending := domain.ReviewPending
	return s.List(ctx, actor, &pending)
}

// ListApprovedForTechnician returns the reviews shown on a public profile.
func (s *ReviewService) ListApprovedForTechnician(ctx context.Context, technicianID string) ([]domain.Review, error) {
	approved := domain.ReviewApproved
	reviews, err := s.reviews.List(ctx, repository.ReviewFilter{TechnicianID: &technicianID, Status: &approved})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return reviews, nil
}

// ModerationHistory lists the status changes recorded for a review.
func (s *ReviewService) ModerationHistory(ctx context.Context, actor *domain.Actor, id string) ([]domain.ModerationEntry, error) {
	if err := requireModerator(actor); err != nil {
		return nil, err
	}
	entries, err := s.moderation.ListByEntity(ctx, domain.EntityReview, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}
