package domain

import "time"

// InvitationUsername is the account holding the shared invitation code.
const InvitationUsername = "invitation"

// RegistrationState represents lifecycle states for an account.
type RegistrationState string

const (
	RegistrationInvited  RegistrationState = "INVITED"
	RegistrationPending  RegistrationState = "PENDING"
	RegistrationComplete RegistrationState = "COMPLETE"
)

// User is the persisted credential record.
type User struct {
	ID                    int64
	Username              string
	PasswordHash          string
	Roles                 Roles
	RegistrationSecret    *string
	RegistrationTimestamp time.Time
	RegistrationComplete  bool
}

// State derives the registration state from the stored flags.
func (u *User) State() RegistrationState {
	switch {
	case u.Roles.Has(RoleInvitation):
		return RegistrationInvited
	case !u.RegistrationComplete:
		return RegistrationPending
	default:
		return RegistrationComplete
	}
}

// RegistrationExpired reports whether a pending registration is older than window.
func (u *User) RegistrationExpired(now time.Time, window time.Duration) bool {
	if u.RegistrationComplete {
		return false
	}
	return u.RegistrationTimestamp.Before(now.Add(-window))
}

// Principal returns the authorization view of the user.
func (u *User) Principal() Principal {
	return Principal{Username: u.Username, Roles: u.Roles}
}
