package domain

import (
	"fmt"
	"time"
)

// FAQEntry is a single question/answer pair shown on the FAQ page.
type FAQEntry struct {
	ID       int    `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// SiteSettings is the singleton site configuration record.
type SiteSettings struct {
	AppName    string
	FooterText string
	Logo       *string
	Banners    map[string]*string
	FAQ        []FAQEntry
	Communes   []string
	Skills     []string
	UpdatedAt  time.Time
}

// BannerSlots lists the banner placements the site renders.
var BannerSlots = []string{"top", "sidebar", "listing", "bottom"}

const defaultAppName = "Lubumbashi Handy-Pro Connect"

// DefaultSiteSettings returns the settings used when none have been stored yet.
func DefaultSiteSettings() SiteSettings {
	banners := make(map[string]*string, len(BannerSlots))
	for _, slot := range BannerSlots {
		banners[slot] = nil
	}
	return SiteSettings{
		AppName:    defaultAppName,
		FooterText: fmt.Sprintf("© %d %s. Tous droits réservés.", time.Now().Year(), defaultAppName),
		Banners:    banners,
		FAQ: []FAQEntry{
			{ID: 1, Question: "Combien de temps faut-il pour que mon profil soit approuvé ?", Answer: "Après votre inscription, votre profil est examiné par notre équipe administrative. Ce processus peut prendre jusqu'à 72 heures."},
			{ID: 2, Question: "Puis-je laisser un avis sur un technicien ?", Answer: "Oui. Tous les avis sont soumis à une modération avant d'être publiés."},
			{ID: 3, Question: "L'enregistrement est-il payant ?", Answer: "Non. L'inscription est totalement gratuite."},
		},
		Communes: []string{"Annexe", "Kamalondo", "Kampemba", "Katuba", "Kenya", "Lubumbashi", "Ruashi"},
		Skills: []string{
			"Carrelage", "Climatisation", "Électricité", "Jardinage", "Maçonnerie",
			"Menuiserie", "Peinture", "Plomberie", "Réparation d'appareils", "Soudure",
		},
	}
}
