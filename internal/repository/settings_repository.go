package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/handypro/internal/domain"
)

// SettingsRepository persists the singleton site settings row.
type SettingsRepository interface {
	// Get returns ErrNotFound until settings have been saved once.
	Get(ctx context.Context) (*domain.SiteSettings, error)
	Save(ctx context.Context, settings *domain.SiteSettings) error
}

type settingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository instantiates the repository.
func NewSettingsRepository(pool *pgxpool.Pool) SettingsRepository {
	return &settingsRepository{pool: pool}
}

func (r *settingsRepository) Get(ctx context.Context) (*domain.SiteSettings, error) {
	const query = `
        SELECT app_name, footer_text, logo, banners, faq, communes, skills, updated_at
        FROM site_settings WHERE id=1`
	var settings domain.SiteSettings
	if err := r.pool.QueryRow(ctx, query).Scan(
		&settings.AppName,
		&settings.FooterText,
		&settings.Logo,
		&settings.Banners,
		&settings.FAQ,
		&settings.Communes,
		&settings.Skills,
		&settings.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) Save(ctx context.Context, settings *domain.SiteSettings) error {
	const query = `
        INSERT INTO site_settings (id, app_name, footer_text, logo, banners, faq, communes, skills)
        VALUES (1,$1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT (id) DO UPDATE
        SET app_name=EXCLUDED.app_name, footer_text=EXCLUDED.footer_text, logo=EXCLUDED.logo,
            banners=EXCLUDED.banners, faq=EXCLUDED.faq, communes=EXCLUDED.communes,
            skills=EXCLUDED.skills, updated_at=NOW()
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		settings.AppName,
		settings.FooterText,
		settings.Logo,
		settings.Banners,
		settings.FAQ,
		skillsOrEmpty(settings.Communes),
		skillsOrEmpty(settings.Skills),
	).Scan(&settings.UpdatedAt)
}
