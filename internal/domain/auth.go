package domain

// SubjectType differentiates back-office users from technicians in tokens.
type SubjectType string

const (
	SubjectTypeUser       SubjectType = "USER"
	SubjectTypeTechnician SubjectType = "TECHNICIAN"
)

// Actor identifies who performs a workflow operation.
type Actor struct {
	Type SubjectType
	ID   string
	Role UserRole
}

// CanModerate reports whether the actor may approve or reject records.
func (a *Actor) CanModerate() bool {
	return a != nil && a.Type == SubjectTypeUser && (a.Role == UserRoleAdmin || a.Role == UserRoleEditor)
}

// IsAdmin reports whether the actor holds the ADMIN role.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Type == SubjectTypeUser && a.Role == UserRoleAdmin
}
