// Package memory provides an in-process implementation of the repository
// interfaces. All collections share one lock, so multi-record operations such
// as DeleteWithReviews are all-or-nothing.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/handypro/internal/domain"
	"github.com/spec-kit/handypro/internal/repository"
)

type state struct {
	mu          sync.RWMutex
	technicians []domain.Technician
	reviews     []domain.Review
	users       []domain.User
	settings    *domain.SiteSettings
	moderation  []domain.ModerationEntry
	now         func() time.Time
}

// NewStore returns an empty in-memory Store.
func NewStore() *repository.Store {
	s := &state{now: time.Now}
	return &repository.Store{
		Technicians: &technicianRepo{s},
		Reviews:     &reviewRepo{s},
		Users:       &userRepo{s},
		Settings:    &settingsRepo{s},
		Moderation:  &moderationRepo{s},
	}
}

func cloneTechnician(t domain.Technician) domain.Technician {
	t.Skills = append([]string(nil), t.Skills...)
	return t
}

// ---- technicians ----

type technicianRepo struct{ s *state }

func (r *technicianRepo) Create(_ context.Context, tech *domain.Technician) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	tech.ID = uuid.NewString()
	tech.CreatedAt = now
	tech.UpdatedAt = now
	r.s.technicians = append(r.s.technicians, cloneTechnician(*tech))
	return nil
}

func (r *technicianRepo) Update(_ context.Context, tech *domain.Technician) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.technicians {
		if r.s.technicians[i].ID == tech.ID {
			tech.CreatedAt = r.s.technicians[i].CreatedAt
			tech.UpdatedAt = r.s.now()
			r.s.technicians[i] = cloneTechnician(*tech)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *technicianRepo) GetByID(_ context.Context, id string) (*domain.Technician, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.technicians {
		if t.ID == id {
			out := cloneTechnician(t)
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *technicianRepo) FindByLogin(_ context.Context, login string) ([]domain.Technician, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Technician
	for _, t := range r.s.technicians {
		if (t.LoginEmail != nil && *t.LoginEmail == login) || (t.Contact1 != nil && *t.Contact1 == login) {
			out = append(out, cloneTechnician(t))
		}
	}
	return out, nil
}

func (r *technicianRepo) List(_ context.Context, filter repository.TechnicianFilter) ([]domain.Technician, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Technician, 0, len(r.s.technicians))
	for _, t := range r.s.technicians {
		if filter.Status != nil && t.RegistrationStatus != *filter.Status {
			continue
		}
		out = append(out, cloneTechnician(t))
	}
	return out, nil
}

func (r *technicianRepo) DeleteWithReviews(_ context.Context, id string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	idx := -1
	for i, t := range r.s.technicians {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, repository.ErrNotFound
	}
	kept := r.s.reviews[:0:0]
	removed := 0
	for _, rv := range r.s.reviews {
		if rv.TechnicianID == id {
			removed++
			continue
		}
		kept = append(kept, rv)
	}
	r.s.reviews = kept
	r.s.technicians = append(r.s.technicians[:idx:idx], r.s.technicians[idx+1:]...)
	return removed, nil
}

// ---- reviews ----

type reviewRepo struct{ s *state }

func (r *reviewRepo) Create(_ context.Context, review *domain.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	found := false
	for _, t := range r.s.technicians {
		if t.ID == review.TechnicianID {
			found = true
			break
		}
	}
	if !found {
		return repository.ErrNotFound
	}
	review.ID = uuid.NewString()
	review.CreatedAt = r.s.now()
	r.s.reviews = append(r.s.reviews, *review)
	return nil
}

func (r *reviewRepo) UpdateStatus(_ context.Context, id string, from, to domain.ReviewStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.reviews {
		if r.s.reviews[i].ID == id {
			if r.s.reviews[i].Status != from {
				return repository.ErrStatusChanged
			}
			r.s.reviews[i].Status = to
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *reviewRepo) GetByID(_ context.Context, id string) (*domain.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, rv := range r.s.reviews {
		if rv.ID == id {
			out := rv
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *reviewRepo) List(_ context.Context, filter repository.ReviewFilter) ([]domain.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Review, 0, len(r.s.reviews))
	for _, rv := range r.s.reviews {
		if filter.TechnicianID != nil && rv.TechnicianID != *filter.TechnicianID {
			continue
		}
		if filter.Status != nil && rv.Status != *filter.Status {
			continue
		}
		out = append(out, rv)
	}
	return out, nil
}

// ---- users ----

type userRepo struct{ s *state }

func (r *userRepo) usernameTaken(username string) bool {
	for _, u := range r.s.users {
		if strings.EqualFold(u.Username, username) {
			return true
		}
	}
	return false
}

func (r *userRepo) insert(user *domain.User) {
	now := r.s.now()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.users = append(r.s.users, *user)
}

func (r *userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.usernameTaken(user.Username) {
		return repository.ErrDuplicateUsername
	}
	r.insert(user)
	return nil
}

func (r *userRepo) CreateEditor(_ context.Context, user *domain.User, maxEditors int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	editors := 0
	for _, u := range r.s.users {
		if u.Role == domain.UserRoleEditor {
			editors++
		}
	}
	if editors >= maxEditors {
		return repository.ErrEditorCapacity
	}
	if r.usernameTaken(user.Username) {
		return repository.ErrDuplicateUsername
	}
	user.Role = domain.UserRoleEditor
	r.insert(user)
	return nil
}

func (r *userRepo) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if r.s.users[i].ID == user.ID {
			user.UpdatedAt = r.s.now()
			r.s.users[i] = *user
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *userRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if r.s.users[i].ID == id {
			r.s.users = append(r.s.users[:i:i], r.s.users[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.ID == id {
			out := u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Username, username) {
			out := u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) ListByRole(_ context.Context, role domain.UserRole) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.User
	for _, u := range r.s.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

// ---- settings ----

type settingsRepo struct{ s *state }

func (r *settingsRepo) Get(_ context.Context) (*domain.SiteSettings, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.settings == nil {
		return nil, repository.ErrNotFound
	}
	out := cloneSettings(*r.s.settings)
	return &out, nil
}

func (r *settingsRepo) Save(_ context.Context, settings *domain.SiteSettings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	settings.UpdatedAt = r.s.now()
	stored := cloneSettings(*settings)
	r.s.settings = &stored
	return nil
}

func cloneSettings(s domain.SiteSettings) domain.SiteSettings {
	s.Communes = append([]string(nil), s.Communes...)
	s.Skills = append([]string(nil), s.Skills...)
	s.FAQ = append([]domain.FAQEntry(nil), s.FAQ...)
	banners := make(map[string]*string, len(s.Banners))
	for k, v := range s.Banners {
		banners[k] = v
	}
	s.Banners = banners
	return s
}

// ---- moderation log ----

type moderationRepo struct{ s *state }

func (r *moderationRepo) Create(_ context.Context, entry *domain.ModerationEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entry.ID = uuid.NewString()
	entry.CreatedAt = r.s.now()
	r.s.moderation = append(r.s.moderation, *entry)
	return nil
}

func (r *moderationRepo) ListByEntity(_ context.Context, entityType domain.EntityType, entityID string) ([]domain.ModerationEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.ModerationEntry
	for _, e := range r.s.moderation {
		if e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}
