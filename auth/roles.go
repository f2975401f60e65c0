package auth

// UserRole is the user's role on the platform.
type UserRole = string

const (
	// RoleCandidate is a job seeker account.
	RoleCandidate UserRole = "candidate"
	// RoleRecruiter is a hiring account; it must carry an organization.
	RoleRecruiter UserRole = "recruiter"
)

// IsValidRole checks if the role is one of the predefined valid roles.
func IsValidRole(r UserRole) bool {
	switch r {
	case RoleCandidate, RoleRecruiter:
		return true
	default:
		return false
	}
}

// ParseRole validates and returns a role, reporting whether it was valid.
func ParseRole(s string) (UserRole, bool) {
	if IsValidRole(s) {
		return s, true
	}
	return "", false
}

// GetAllRoles returns all predefined roles.
func GetAllRoles() []UserRole {
	return []UserRole{RoleCandidate, RoleRecruiter}
}
