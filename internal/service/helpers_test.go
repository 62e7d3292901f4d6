package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/handypro/internal/auth"
	"github.com/spec-kit/handypro/internal/domain"
	"github.com/spec-kit/handypro/internal/events"
	"github.com/spec-kit/handypro/internal/repository"
	"github.com/spec-kit/handypro/internal/repository/memory"
	apperrors "github.com/spec-kit/handypro/pkg/util/errorutil"
)

const testBcryptCost = 4

var (
	adminActor  = &domain.Actor{Type: domain.SubjectTypeUser, ID: "admin-1", Role: domain.UserRoleAdmin}
	editorActor = &domain.Actor{Type: domain.SubjectTypeUser, ID: "editor-1", Role: domain.UserRoleEditor}
)

type fakeNotifier struct {
	registration func(domain.Technician) error
	review       func(domain.Review, string) error
	approval     func(domain.Technician) error
}

func (f *fakeNotifier) NotifyNewRegistration(_ context.Context, tech domain.Technician) error {
	if f.registration == nil {
		return nil
	}
	return f.registration(tech)
}

func (f *fakeNotifier) NotifyNewReview(_ context.Context, review domain.Review, name string) error {
	if f.review == nil {
		return nil
	}
	return f.review(review, name)
}

func (f *fakeNotifier) NotifyApproval(_ context.Context, tech domain.Technician) error {
	if f.approval == nil {
		return nil
	}
	return f.approval(tech)
}

type testEnv struct {
	store       *repository.Store
	notifier    *fakeNotifier
	technicians *TechnicianService
	reviews     *ReviewService
	team        *TeamService
	auth        *AuthService
	listing     *ListingService
	stats       *StatsService
	settings    *SettingsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	dispatcher := events.NewInMemoryDispatcher()
	notifier := &fakeNotifier{}
	NewNotificationService(NotificationDependencies{Dispatcher: dispatcher, Notifier: notifier}).RegisterHandlers()

	return &testEnv{
		store:       store,
		notifier:    notifier,
		technicians: NewTechnicianService(TechnicianDependencies{Store: store, Dispatcher: dispatcher, BcryptCost: testBcryptCost}),
		reviews:     NewReviewService(ReviewDependencies{Store: store, Dispatcher: dispatcher}),
		team:        NewTeamService(TeamDependencies{Store: store, MaxEditors: 4, BcryptCost: testBcryptCost}),
		auth:        NewAuthService(store, auth.NewTokenManager("test-secret", 5)),
		listing:     NewListingService(store),
		stats:       NewStatsService(store),
		settings:    NewSettingsService(store),
	}
}

func validRegistration(name string) RegistrationInput {
	return RegistrationInput{
		FullName:             name,
		Contact1:             "0990000000",
		Commune:              "Lubumbashi",
		Skills:               []string{"Plomberie"},
		ShortDescription:     "Plombier expérimenté",
		Password:             "pw",
		PasswordConfirmation: "pw",
	}
}

func (e *testEnv) register(t *testing.T, input RegistrationInput) *domain.Technician {
	t.Helper()
	tech, err := e.technicians.SubmitRegistration(context.Background(), input)
	require.NoError(t, err)
	return tech
}

func (e *testEnv) approved(t *testing.T, name string) *domain.Technician {
	t.Helper()
	tech := e.register(t, validRegistration(name))
	tech, err := e.technicians.SetStatus(context.Background(), adminActor, tech.ID, domain.RegistrationApproved)
	require.NoError(t, err)
	return tech
}

// review stores a review with the given status directly, bypassing moderation.
func (e *testEnv) review(t *testing.T, technicianID string, rating int, status domain.ReviewStatus) {
	t.Helper()
	require.NoError(t, e.store.Reviews.Create(context.Background(), &domain.Review{
		TechnicianID: technicianID,
		AuthorName:   "client",
		AuthorPhone:  "0811111111",
		Rating:       rating,
		Comment:      "ok",
		Status:       status,
	}))
}

func requireCode(t *testing.T, err error, code string) *apperrors.DomainError {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, code, domainErr.Code, domainErr.Message)
	return domainErr
}

func strPtr(s string) *string { return &s }
