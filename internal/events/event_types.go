package events

import (
	"time"

	"github.com/segmentio/ksuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered        EventType = "user_registered"
	EventRegistrationConfirmed EventType = "registration_confirmed"
	EventInvitationRotated     EventType = "invitation_rotated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Username  string      `json:"username"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps a new event with a sortable id.
func NewEvent(eventType EventType, username string, at time.Time, payload interface{}) Event {
	return Event{
		ID:        ksuid.New().String(),
		Type:      eventType,
		Username:  username,
		Timestamp: at,
		Payload:   payload,
	}
}

// UserRegisteredPayload carries what the confirmation mail needs.
type UserRegisteredPayload struct {
	Secret     string `json:"-"`
	ConfirmURL string `json:"-"`
}

// RegistrationConfirmedPayload payload.
type RegistrationConfirmedPayload struct {
	Roles []string `json:"roles"`
}
