package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/handypro/internal/domain"
	"github.com/spec-kit/handypro/internal/repository"
	apperrors "github.com/spec-kit/handypro/pkg/util/errorutil"
)

func validReview(technicianID string) ReviewInput {
	return ReviewInput{
		TechnicianID: technicianID,
		AuthorName:   "Client",
		AuthorPhone:  "0812223344",
		Rating:       4,
		Comment:      "Travail soigné",
	}
}

func TestSubmitReviewIsPendingAndNotifies(t *testing.T) {
	env := newTestEnv(t)
	tech := env.approved(t, "Jean Kabila")
	var gotName string
	env.notifier.review = func(_ domain.Review, name string) error {
		gotName = name
		return nil
	}

	review, err := env.reviews.Submit(context.Background(), validReview(tech.ID))
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewPending, review.Status)
	assert.Equal(t, "Jean Kabila", gotName)

	_, ok := AverageRating([]domain.Review{*review}, tech.ID)
	assert.False(t, ok)
}

func TestSubmitReviewValidation(t *testing.T) {
	env := newTestEnv(t)
	tech := env.approved(t, "Jean")

	for _, rating := range []int{0, 6} {
		input := validReview(tech.ID)
		input.Rating = rating
		_, err := env.reviews.Submit(context.Background(), input)
		domainErr := requireCode(t, err, apperrors.CodeValidation)
		assert.Contains(t, domainErr.Details, "rating")
	}

	_, err := env.reviews.Submit(context.Background(), ReviewInput{TechnicianID: tech.ID, Rating: 3})
	domainErr := requireCode(t, err, apperrors.CodeValidation)
	assert.Len(t, domainErr.Details, 3)
}

func TestSubmitReviewRequiresVisibleTechnician(t *testing.T) {
	env := newTestEnv(t)
	pending := env.register(t, validRegistration("Pending"))

	_, err := env.reviews.Submit(context.Background(), validReview(pending.ID))
	requireCode(t, err, apperrors.CodeNotFound)

	_, err = env.reviews.Submit(context.Background(), validReview("missing"))
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestReviewModerationIsOneWay(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	tech := env.approved(t, "Jean")
	review, err := env.reviews.Submit(ctx, validReview(tech.ID))
	require.NoError(t, err)

	approved, err := env.reviews.SetStatus(ctx, editorActor, review.ID, domain.ReviewApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewApproved, approved.Status)

	_, err = env.reviews.SetStatus(ctx, editorActor, review.ID, domain.ReviewRejected)
	requireCode(t, err, apperrors.CodeConflict)

	public, err := env.reviews.ListApprovedForTechnician(ctx, tech.ID)
	require.NoError(t, err)
	require.Len(t, public, 1)

	history, err := env.reviews.ModerationHistory(ctx, adminActor, review.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "APPROVED", history[0].NewStatus)
}

func TestReviewSetStatusRules(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	tech := env.approved(t, "Jean")
	review, err := env.reviews.Submit(ctx, validReview(tech.ID))
	require.NoError(t, err)

	_, err = env.reviews.SetStatus(ctx, editorActor, review.ID, domain.ReviewPending)
	requireCode(t, err, apperrors.CodeValidation)

	_, err = env.reviews.SetStatus(ctx, &domain.Actor{Type: domain.SubjectTypeTechnician, ID: tech.ID}, review.ID, domain.ReviewApproved)
	requireCode(t, err, apperrors.CodeForbidden)

	_, err = env.reviews.SetStatus(ctx, editorActor, "missing", domain.ReviewApproved)
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestListPendingReviews(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	tech := env.approved(t, "Jean")
	env.review(t, tech.ID, 5, domain.ReviewApproved)
	env.review(t, tech.ID, 3, domain.ReviewPending)
	env.review(t, tech.ID, 1, domain.ReviewRejected)

	pending, err := env.reviews.ListPending(ctx, editorActor)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 3, pending[0].Rating)

	all, err := env.reviews.List(ctx, adminActor, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

// staleReviews serves the review as it was before another moderator acted.
type staleReviews struct {
	repository.ReviewRepository
}

func (s staleReviews) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	review, err := s.ReviewRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	review.Status = domain.ReviewPending
	return review, nil
}

func TestReviewSetStatusLosesRaceWithConflict(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	tech := env.approved(t, "Jean")
	review, err := env.reviews.Submit(ctx, validReview(tech.ID))
	require.NoError(t, err)
	_, err = env.reviews.SetStatus(ctx, editorActor, review.ID, domain.ReviewApproved)
	require.NoError(t, err)

	store := *env.store
	store.Reviews = staleReviews{env.store.Reviews}
	racing := NewReviewService(ReviewDependencies{Store: &store})

	_, err = racing.SetStatus(ctx, adminActor, review.ID, domain.ReviewRejected)
	requireCode(t, err, apperrors.CodeConflict)

	stored, err := env.store.Reviews.GetByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewApproved, stored.Status)
}
