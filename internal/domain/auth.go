package domain

// Principal is the authenticated caller as described by token claims.
type Principal struct {
	Username string
	Roles    Roles
}

// HasAny reports whether the principal carries at least one of roles.
func (p Principal) HasAny(roles ...Role) bool {
	for _, role := range roles {
		if p.Roles.Has(role) {
			return true
		}
	}
	return false
}

// IsAdmin is shorthand for HasAny(RoleAdmin).
func (p Principal) IsAdmin() bool {
	return p.Roles.Has(RoleAdmin)
}
