package domain

import "strings"

// Role enumerates authorities granted to an account.
type Role string

const (
	RoleInvitation Role = "INVITATION"
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
)

// ParseRole maps a stored token to a Role.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleInvitation:
		return RoleInvitation, true
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// Roles is an ordered set of roles. Stored as a comma-joined string.
type Roles []Role

// ParseRoles reads the comma-joined form. Unknown tokens are dropped.
func ParseRoles(s string) Roles {
	return RolesFromStrings(strings.Split(s, ","))
}

// RolesFromStrings builds a set from raw role names, e.g. token claims.
func RolesFromStrings(values []string) Roles {
	var roles Roles
	for _, v := range values {
		if role, ok := ParseRole(v); ok {
			roles = roles.With(role)
		}
	}
	return roles
}

// Has reports membership.
func (r Roles) Has(role Role) bool {
	for _, existing := range r {
		if existing == role {
			return true
		}
	}
	return false
}

// With returns a set that also contains role.
func (r Roles) With(role Role) Roles {
	if r.Has(role) {
		return r
	}
	out := make(Roles, 0, len(r)+1)
	out = append(out, r...)
	return append(out, role)
}

// Strings returns role names in set order.
func (r Roles) Strings() []string {
	out := make([]string, 0, len(r))
	for _, role := range r {
		out = append(out, string(role))
	}
	return out
}

func (r Roles) String() string {
	return strings.Join(r.Strings(), ",")
}
