package domain

import "time"

// RegistrationStatus is the moderation state of a technician profile.
type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "PENDING"
	RegistrationApproved RegistrationStatus = "APPROVED"
	RegistrationRejected RegistrationStatus = "REJECTED"
)

// Valid reports whether the status is one of the known values.
func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegistrationPending, RegistrationApproved, RegistrationRejected:
		return true
	}
	return false
}

// Technician is a self-registered tradesperson listed in the directory.
// Only APPROVED technicians are publicly visible.
type Technician struct {
	ID                 string
	FullName           string
	Contact1           *string
	Contact2           *string
	LoginEmail         *string
	Commune            string
	Skills             []string
	ShortDescription   *string
	PricePerHour       *float64
	NegotiablePerJob   bool
	RegistrationStatus RegistrationStatus
	PasswordHash       string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsPublic reports whether the technician may appear in public listings.
func (t *Technician) IsPublic() bool {
	return t.RegistrationStatus == RegistrationApproved
}

// HasSkill reports whether skill is among the technician's skills.
func (t *Technician) HasSkill(skill string) bool {
	for _, s := range t.Skills {
		if s == skill {
			return true
		}
	}
	return false
}

// PrimaryContact returns the first available contact value.
func (t *Technician) PrimaryContact() string {
	if t.Contact1 != nil && *t.Contact1 != "" {
		return *t.Contact1
	}
	if t.LoginEmail != nil && *t.LoginEmail != "" {
		return *t.LoginEmail
	}
	return ""
}
