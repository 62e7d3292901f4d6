package dto

import (
	"time"

	"github.com/spec-kit/handypro/internal/domain"
)

// SettingsResponse is the public site configuration.
type SettingsResponse struct {
	AppName    string             `json:"app_name"`
	FooterText string             `json:"footer_text"`
	Logo       *string            `json:"logo"`
	Banners    map[string]*string `json:"banners"`
	FAQ        []domain.FAQEntry  `json:"faq"`
	Communes   []string           `json:"communes"`
	Skills     []string           `json:"skills"`
	UpdatedAt  *time.Time         `json:"updated_at,omitempty"`
}

// UpdateSettingsRequest edits the site configuration. Omitted fields stay unchanged.
type UpdateSettingsRequest struct {
	AppName    *string            `json:"app_name"`
	FooterText *string            `json:"footer_text"`
	Logo       *string            `json:"logo"`
	Banners    map[string]*string `json:"banners"`
	FAQ        []domain.FAQEntry  `json:"faq"`
	Communes   []string           `json:"communes"`
	Skills     []string           `json:"skills"`
}
