package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/handypro/internal/auth"
	"github.com/spec-kit/handypro/internal/domain"
	"github.com/spec-kit/handypro/internal/events"
	"github.com/spec-kit/handypro/internal/observability"
	"github.com/spec-kit/handypro/internal/repository"
	"github.com/spec-kit/handypro/internal/validate"
	apperrors "github.com/spec-kit/handypro/pkg/util/errorutil"
)

// TechnicianService coordinates registration, self-edit and moderation of technicians.
type TechnicianService struct {
	technicians repository.TechnicianRepository
	moderation  repository.ModerationLogRepository
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
	logger      *zap.Logger
	bcryptCost  int
}

// TechnicianDependencies bundles collaborators for the technician service.
type TechnicianDependencies struct {
	Store      *repository.Store
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	BcryptCost int
}

// RegistrationInput is the self-registration form.
type RegistrationInput struct {
	FullName             string
	Contact1             string
	Contact2             string
	LoginEmail           string
	Commune              string
	Skills               []string
	ShortDescription     string
	PricePerHour         *float64
	NegotiablePerJob     bool
	Password             string
	PasswordConfirmation string
}

// TechnicianUpdate is a technician self-edit. Nil fields are left unchanged; a
// pointer to an empty string clears an optional field. There is no status field:
// every self-edit sends the profile back to moderation.
type TechnicianUpdate struct {
	FullName                *string
	Contact1                *string
	Contact2                *string
	LoginEmail              *string
	Commune                 *string
	Skills                  []string
	ShortDescription        *string
	PricePerHour            *float64
	ClearPricePerHour       bool
	NegotiablePerJob        *bool
	NewPassword             *string
	NewPasswordConfirmation *string
}

// StatusCounts tallies technicians per registration status.
type StatusCounts struct {
	Pending  int
	Approved int
	Rejected int
}

// NewTechnicianService constructs the service.
func NewTechnicianService(deps TechnicianDependencies) *TechnicianService {
	return &TechnicianService{
		technicians: deps.Store.Technicians,
		moderation:  deps.Store.Moderation,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		logger:      loggerOrNop(deps.Logger),
		bcryptCost:  deps.BcryptCost,
	}
}

// SubmitRegistration validates the form and stores a PENDING technician.
func (s *TechnicianService) SubmitRegistration(ctx context.Context, input RegistrationInput) (*domain.Technician, error) {
	tech := &domain.Technician{
		FullName:           strings.TrimSpace(input.FullName),
		Contact1:           optionalString(input.Contact1),
		Contact2:           optionalString(input.Contact2),
		LoginEmail:         optionalString(input.LoginEmail),
		Commune:            strings.TrimSpace(input.Commune),
		Skills:             normalizeTags(input.Skills),
		ShortDescription:   optionalString(input.ShortDescription),
		PricePerHour:       input.PricePerHour,
		NegotiablePerJob:   input.NegotiablePerJob,
		RegistrationStatus: domain.RegistrationPending,
	}

	errs := validate.Errors{}
	validateTechnician(errs, tech)
	errs.Required("password", input.Password)
	if input.Password != "" && input.Password != input.PasswordConfirmation {
		errs.Add("password_confirmation", "passwords do not match")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	tech.PasswordHash = hash

	if err := s.technicians.Create(ctx, tech); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.metrics.RecordRegistration()
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:     events.EventTechnicianRegistered,
		EntityID: tech.ID,
		Actor:    events.Actor{Type: domain.SubjectTypeTechnician, ID: &tech.ID},
		Payload:  events.TechnicianRegisteredPayload{Technician: *tech},
	})
	return tech, nil
}

// UpdateProfile applies a self-edit and resets the status to PENDING.
func (s *TechnicianService) UpdateProfile(ctx context.Context, id string, update TechnicianUpdate) (*domain.Technician, error) {
	tech, err := s.technicians.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "technician")
	}
	oldStatus := tech.RegistrationStatus

	applyTechnicianUpdate(tech, update)

	errs := validate.Errors{}
	validateTechnician(errs, tech)
	if update.NewPassword != nil {
		errs.Required("new_password", *update.NewPassword)
		if *update.NewPassword != derefString(update.NewPasswordConfirmation) {
			errs.Add("new_password_confirmation", "passwords do not match")
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if update.NewPassword != nil {
		hash, err := auth.HashPassword(*update.NewPassword, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		tech.PasswordHash = hash
	}

	tech.RegistrationStatus = domain.RegistrationPending
	if err := s.technicians.Update(ctx, tech); err != nil {
		return nil, storeError(err, "technician")
	}

	if oldStatus != domain.RegistrationPending {
		actor := &domain.Actor{Type: domain.SubjectTypeTechnician, ID: tech.ID}
		s.recordTransition(ctx, actor, tech.ID, oldStatus, domain.RegistrationPending, "profile updated")
	}
	return tech, nil
}

// SetStatus approves or rejects a technician from any prior state.
func (s *TechnicianService) SetStatus(ctx context.Context, actor *domain.Actor, id string, status domain.RegistrationStatus) (*domain.Technician, error) {
	if err := requireModerator(actor); err != nil {
		return nil, err
	}
	if !canModerateTechnicianTo(status) {
		return nil, apperrors.NewValidationError("validation failed", map[string]string{
			"status": "must be APPROVED or REJECTED",
		})
	}

	tech, err := s.technicians.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "technician")
	}
	oldStatus := tech.RegistrationStatus
	if oldStatus == status {
		return tech, nil
	}

	tech.RegistrationStatus = status
	if err := s.technicians.Update(ctx, tech); err != nil {
		return nil, storeError(err, "technician")
	}

	s.recordTransition(ctx, actor, tech.ID, oldStatus, status, "")
	if status == domain.RegistrationApproved {
		publishEvent(ctx, s.dispatcher, s.logger, events.Event{
			Type:     events.EventTechnicianApproved,
			EntityID: tech.ID,
			Actor:    events.ActorFrom(actor),
			Payload:  events.TechnicianApprovedPayload{Technician: *tech},
		})
	}
	return tech, nil
}

// Delete removes a technician together with every review that references it.
func (s *TechnicianService) Delete(ctx context.Context, actor *domain.Actor, id string) error {
	if err := requireModerator(actor); err != nil {
		return err
	}
	removed, err := s.technicians.DeleteWithReviews(ctx, id)
	if err != nil {
		return storeError(err, "technician")
	}
	s.logger.Info("technician deleted",
		zap.String("technician_id", id),
		zap.Int("reviews_removed", removed),
		zap.String("actor_id", actor.ID))
	return nil
}

// Get returns a technician regardless of status.
func (s *TechnicianService) Get(ctx context.Context, id string) (*domain.Technician, error) {
	tech, err := s.technicians.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "technician")
	}
	return tech, nil
}

// List returns technicians for the back office, optionally narrowed to one
// status, with the counts of the whole roster.
func (s *TechnicianService) List(ctx context.Context, actor *domain.Actor, status *domain.RegistrationStatus) ([]domain.Technician, StatusCounts, error) {
	if err := requireModerator(actor); err != nil {
		return nil, StatusCounts{}, err
	}
	all, err := s.technicians.List(ctx, repository.TechnicianFilter{})
	if err != nil {
		return nil, StatusCounts{}, apperrors.MapError(err)
	}

	var counts StatusCounts
	result := make([]domain.Technician, 0, len(all))
	for _, tech := range all {
		switch tech.RegistrationStatus {
		case domain.RegistrationPending:
			counts.Pending++
		case domain.RegistrationApproved:
			counts.Approved++
		case domain.RegistrationRejected:
			counts.Rejected++
		}
		if status == nil || tech.RegistrationStatus == *status {
			result = append(result, tech)
		}
	}
	return result, counts, nil
}

// ModerationHistory lists the status changes recorded for a technician.
func (s *TechnicianService) ModerationHistory(ctx context.Context, actor *domain.Actor, id string) ([]domain.ModerationEntry, error) {
	if err := requireModerator(actor); err != nil {
		return nil, err
	}
	if _, err := s.technicians.GetByID(ctx, id); err != nil {
		return nil, storeError(err, "technician")
	}
	entries, err := s.moderation.ListByEntity(ctx, domain.EntityTechnician, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

func (s *TechnicianService) recordTransition(ctx context.Context, actor *domain.Actor, id string, oldStatus, newStatus domain.RegistrationStatus, reason string) {
	recordModeration(ctx, s.moderation, s.logger, domain.ModerationEntry{
		EntityType: domain.EntityTechnician,
		EntityID:   id,
		OldStatus:  string(oldStatus),
		NewStatus:  string(newStatus),
		Reason:     reason,
	}, actor)
	s.metrics.RecordTransition(string(domain.EntityTechnician), string(newStatus))
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:     events.EventTechnicianStatusChanged,
		EntityID: id,
		Actor:    events.ActorFrom(actor),
		Payload: events.TechnicianStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Reason:    reason,
		},
	})
}

func applyTechnicianUpdate(tech *domain.Technician, update TechnicianUpdate) {
	if update.FullName != nil {
		tech.FullName = strings.TrimSpace(*update.FullName)
	}
	if update.Contact1 != nil {
		tech.Contact1 = optionalString(*update.Contact1)
	}
	if update.Contact2 != nil {
		tech.Contact2 = optionalString(*update.Contact2)
	}
	if update.LoginEmail != nil {
		tech.LoginEmail = optionalString(*update.LoginEmail)
	}
	if update.Commune != nil {
		tech.Commune = strings.TrimSpace(*update.Commune)
	}
	if update.Skills != nil {
		tech.Skills = normalizeTags(update.Skills)
	}
	if update.ShortDescription != nil {
		tech.ShortDescription = optionalString(*update.ShortDescription)
	}
	if update.ClearPricePerHour {
		tech.PricePerHour = nil
	} else if update.PricePerHour != nil {
		price := *update.PricePerHour
		tech.PricePerHour = &price
	}
	if update.NegotiablePerJob != nil {
		tech.NegotiablePerJob = *update.NegotiablePerJob
	}
}

// validateTechnician records every violated profile field.
func validateTechnician(errs validate.Errors, tech *domain.Technician) {
	errs.Required("full_name", tech.FullName)
	errs.Required("commune", tech.Commune)

	contact := derefString(tech.Contact1)
	email := derefString(tech.LoginEmail)
	if validate.IsBlank(contact) && validate.IsBlank(email) {
		errs.Add("contact_1", "a phone number or an email address is required")
		errs.Add("login_email", "a phone number or an email address is required")
	}
	if !validate.IsBlank(email) {
		errs.Email("login_email", email)
	}
	if tech.PricePerHour != nil && *tech.PricePerHour < 0 {
		errs.Add("price_per_hour", "must be zero or greater")
	}
}
