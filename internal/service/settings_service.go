package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/spec-kit/handypro/internal/domain"
	"github.com/spec-kit/handypro/internal/repository"
	"github.com/spec-kit/handypro/internal/validate"
	apperrors "github.com/spec-kit/handypro/pkg/util/errorutil"
)

// SettingsUpdate edits the site settings. Nil fields are left unchanged.
type SettingsUpdate struct {
	AppName    *string
	FooterText *string
	Logo       *string
	// Banners replaces the listed slots only; a nil value clears a slot.
	Banners  map[string]*string
	FAQ      []domain.FAQEntry
	Communes []string
	Skills   []string
}

// SettingsService reads and edits the singleton settings record.
type SettingsService struct {
	settings repository.SettingsRepository
}

// NewSettingsService constructs the service.
func NewSettingsService(store *repository.Store) *SettingsService {
	return &SettingsService{settings: store.Settings}
}

// Get returns the stored settings, or the defaults when none were saved.
func (s *SettingsService) Get(ctx context.Context) (*domain.SiteSettings, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			defaults := domain.DefaultSiteSettings()
			return &defaults, nil
		}
		return nil, apperrors.MapError(err)
	}
	return settings, nil
}

// EnsureDefaults stores the default settings when the record does not exist yet.
func (s *SettingsService) EnsureDefaults(ctx context.Context) error {
	if _, err := s.settings.Get(ctx); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return apperrors.MapError(err)
	}
	defaults := domain.DefaultSiteSettings()
	return apperrors.MapError(s.settings.Save(ctx, &defaults))
}

// Update merges the edit into the current settings. Communes and skills are
// de-duplicated and sorted.
func (s *SettingsService) Update(ctx context.Context, actor *domain.Actor, update SettingsUpdate) (*domain.SiteSettings, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	errs := validate.Errors{}
	if update.AppName != nil {
		settings.AppName = strings.TrimSpace(*update.AppName)
		errs.Required("app_name", settings.AppName)
	}
	if update.FooterText != nil {
		settings.FooterText = strings.TrimSpace(*update.FooterText)
	}
	if update.Logo != nil {
		settings.Logo = optionalString(*update.Logo)
	}
	if update.Banners != nil {
		if settings.Banners == nil {
			settings.Banners = make(map[string]*string, len(domain.BannerSlots))
		}
		for slot, image := range update.Banners {
			if !isBannerSlot(slot) {
				errs.Add("banners."+slot, "unknown banner slot")
				continue
			}
			settings.Banners[slot] = image
		}
	}
	if update.FAQ != nil {
		faq := append([]domain.FAQEntry{}, update.FAQ...)
		for i, entry := range faq {
			if validate.IsBlank(entry.Question) || validate.IsBlank(entry.Answer) {
				errs.Add("faq", "question and answer are required")
				break
			}
			if entry.ID == 0 {
				faq[i].ID = i + 1
			}
		}
		settings.FAQ = faq
	}
	if update.Communes != nil {
		settings.Communes = sortedTags(update.Communes)
	}
	if update.Skills != nil {
		settings.Skills = sortedTags(update.Skills)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if err := s.settings.Save(ctx, settings); err != nil {
		return nil, apperrors.MapError(err)
	}
	return settings, nil
}

func isBannerSlot(slot string) bool {
	for _, s := range domain.BannerSlots {
		if s == slot {
			return true
		}
	}
	return false
}

func sortedTags(tags []string) []string {
	out := normalizeTags(tags)
	sort.Strings(out)
	return out
}
