package auth

import "zapshift/internal/domain"

// Principal is a verified caller identity: the email proven by the
// bearer token plus the role loaded from the user directory.
type Principal struct {
	Email string
	Role  domain.Role
}

// IsAdmin reports whether the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == domain.RoleAdmin
}

// CanActFor reports whether the principal may access resources scoped
// to the given email. Admins may access anything; everyone else only
// their own.
func (p *Principal) CanActFor(email string) bool {
	if p == nil {
		return false
	}
	return p.IsAdmin() || p.Email == email
}
