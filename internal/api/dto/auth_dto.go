package dto

import (
	"time"

	"github.com/spec-kit/finance-service/internal/domain"
)

// LoginResponse is returned by POST /login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Roles     []string  `json:"roles"`
}

// ChangePasswordRequest payload for PUT /me/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,maxbytes=72"`
}

// RegisterRequest payload for POST /register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,maxbytes=72"`
}

// ConfirmRequest carries the emailed secret, as JSON body or query string.
type ConfirmRequest struct {
	Username string `json:"username" query:"username" validate:"required"`
	Secret   string `json:"secret" query:"secret" validate:"required"`
}

// RegistrationResponse reports an account and where it is in the sign-up flow.
type RegistrationResponse struct {
	Username string   `json:"username"`
	State    string   `json:"state"`
	Roles    []string `json:"roles"`
}

// InvitationResponse carries a freshly rotated invitation code.
type InvitationResponse struct {
	Code string `json:"code"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID                    int64     `json:"id"`
	Username              string    `json:"username"`
	Roles                 []string  `json:"roles"`
	State                 string    `json:"state"`
	RegistrationTimestamp time.Time `json:"registration_timestamp"`
}

// NewRegistrationResponse maps a user to RegistrationResponse.
func NewRegistrationResponse(u *domain.User) RegistrationResponse {
	return RegistrationResponse{
		Username: u.Username,
		State:    string(u.State()),
		Roles:    u.Roles.Strings(),
	}
}

// NewUserResponse maps a user without exposing hash or secret.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:                    u.ID,
		Username:              u.Username,
		Roles:                 u.Roles.Strings(),
		State:                 string(u.State()),
		RegistrationTimestamp: u.RegistrationTimestamp,
	}
}

// NewUserListResponse maps a slice of users.
func NewUserListResponse(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}
