package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/finance-service/internal/events"
	"github.com/spec-kit/finance-service/internal/mail"
)

// NotificationService turns registration events into mail and log entries.
type NotificationService struct {
	dispatcher events.Dispatcher
	sender     mail.Sender
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, sender mail.Sender, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		sender:     sender,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventRegistrationConfirmed, n.handleRegistrationConfirmed)
	n.dispatcher.Subscribe(events.EventInvitationRotated, n.handleInvitationRotated)
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UserRegisteredPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	msg := mail.Message{
		To:      event.Username,
		Subject: "Confirm your registration",
		Body: fmt.Sprintf("Welcome!\r\n\r\nOpen the link below to confirm your account:\r\n%s\r\n\r\n"+
			"Your confirmation code is %s.\r\n", payload.ConfirmURL, payload.Secret),
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		n.logger.Error("confirmation mail failed", zap.String("event_id", event.ID), zap.Error(err))
		return err
	}
	return nil
}

func (n *NotificationService) handleRegistrationConfirmed(_ context.Context, event events.Event) error {
	n.logger.Info("RegistrationConfirmed", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleInvitationRotated(_ context.Context, event events.Event) error {
	n.logger.Info("InvitationRotated", zap.String("event_id", event.ID))
	return nil
}
