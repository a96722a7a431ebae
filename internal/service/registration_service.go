package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/url"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/spec-kit/finance-service/internal/auth"
	"github.com/spec-kit/finance-service/internal/config"
	"github.com/spec-kit/finance-service/internal/domain"
	"github.com/spec-kit/finance-service/internal/events"
	"github.com/spec-kit/finance-service/internal/repository"
	apperrors "github.com/spec-kit/finance-service/pkg/util/errorutil"
)

// RegistrationService drives the INVITED -> PENDING -> COMPLETE lifecycle.
type RegistrationService struct {
	users      repository.UserRepository
	hasher     auth.PasswordHasher
	dispatcher events.Dispatcher
	clock      clockwork.Clock
	cfg        config.RegistrationConfig
	baseURL    string
	logger     *zap.Logger
	newSecret  func() string
}

// RegistrationDependencies bundles collaborators of the registration workflow.
type RegistrationDependencies struct {
	Users      repository.UserRepository
	Hasher     auth.PasswordHasher
	Dispatcher events.Dispatcher
	Clock      clockwork.Clock
}

// NewRegistrationService constructs the service.
func NewRegistrationService(cfg config.Config, deps RegistrationDependencies, logger *zap.Logger) *RegistrationService {
	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &RegistrationService{
		users:      deps.Users,
		hasher:     deps.Hasher,
		dispatcher: deps.Dispatcher,
		clock:      clock,
		cfg:        cfg.Registration,
		baseURL:    cfg.App.BaseURL,
		logger:     logger,
		newSecret:  uuid.NewString,
	}
}

// Register creates a PENDING account and mails its confirmation link.
// When the mail cannot be sent the account is removed again.
func (s *RegistrationService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	hash, err := hashPassword(s.hasher, password, "password")
	if err != nil {
		return nil, err
	}
	secret := s.newSecret()
	user := &domain.User{
		Username:              username,
		PasswordHash:          hash,
		RegistrationSecret:    &secret,
		RegistrationTimestamp: s.clock.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewDuplicateKey("username already registered", map[string]any{"username": username})
		}
		return nil, apperrors.MapError(err)
	}

	event := events.NewEvent(events.EventUserRegistered, username, user.RegistrationTimestamp, events.UserRegisteredPayload{
		Secret:     secret,
		ConfirmURL: s.confirmURL(username, secret),
	})
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
			s.logger.Error("failed to remove registration after mail failure",
				zap.Int64("user_id", user.ID), zap.Error(delErr))
		}
		return nil, apperrors.NewDependencyFailure("could not send confirmation email", err)
	}

	s.logger.Info("registration pending", zap.Int64("user_id", user.ID))
	return user, nil
}

// Confirm completes a pending registration when secret matches.
// The secret is single use.
func (s *RegistrationService) Confirm(ctx context.Context, username, secret string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("registration", map[string]any{"username": username})
		}
		return nil, apperrors.MapError(err)
	}

	switch user.State() {
	case domain.RegistrationInvited, domain.RegistrationComplete:
		return nil, apperrors.NewInvalidState("registration already confirmed")
	}
	if user.RegistrationExpired(s.clock.Now(), s.cfg.DeleteAfter()) {
		return nil, apperrors.NewInvalidState("registration expired")
	}
	if user.RegistrationSecret == nil || subtle.ConstantTimeCompare([]byte(*user.RegistrationSecret), []byte(secret)) != 1 {
		return nil, apperrors.NewInvalidState("registration secret does not match")
	}

	roles := domain.Roles{domain.RoleUser}
	if s.cfg.IsAdminEmail(user.Username) {
		roles = roles.With(domain.RoleAdmin)
	}
	if err := s.users.CompleteRegistration(ctx, user.ID, secret, roles); err != nil {
		if errors.Is(err, repository.ErrStaleUpdate) {
			return nil, apperrors.NewInvalidState("registration already confirmed")
		}
		return nil, apperrors.MapError(err)
	}

	user.Roles = roles
	user.RegistrationComplete = true
	user.RegistrationSecret = nil

	event := events.NewEvent(events.EventRegistrationConfirmed, user.Username, s.clock.Now().UTC(),
		events.RegistrationConfirmedPayload{Roles: roles.Strings()})
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("registration confirmed handler failed", zap.Error(err))
	}
	return user, nil
}

// EnsureInvitation creates the invitation account when no account holds the
// INVITATION role. It returns the new code, or "" when nothing was created.
func (s *RegistrationService) EnsureInvitation(ctx context.Context) (string, error) {
	existing, err := s.users.FindByRole(ctx, domain.RoleInvitation)
	if err != nil {
		return "", apperrors.MapError(err)
	}
	if len(existing) > 0 {
		return "", nil
	}

	code := s.newSecret()
	hash, err := s.hasher.Hash(code)
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	user := &domain.User{
		Username:              domain.InvitationUsername,
		PasswordHash:          hash,
		Roles:                 domain.Roles{domain.RoleInvitation},
		RegistrationSecret:    &code,
		RegistrationTimestamp: s.clock.Now().UTC(),
		RegistrationComplete:  true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			// another replica won the race
			return "", nil
		}
		return "", apperrors.MapError(err)
	}
	return code, nil
}

// RotateInvitation replaces the shared invitation code. Registered users are unaffected.
func (s *RegistrationService) RotateInvitation(ctx context.Context) (string, error) {
	existing, err := s.users.FindByRole(ctx, domain.RoleInvitation)
	if err != nil {
		return "", apperrors.MapError(err)
	}
	if len(existing) == 0 {
		code, err := s.EnsureInvitation(ctx)
		if err != nil {
			return "", err
		}
		if code == "" {
			return "", apperrors.NewInvalidState("invitation account changed concurrently")
		}
		return code, nil
	}

	code := s.newSecret()
	hash, err := s.hasher.Hash(code)
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	if err := s.users.UpdateInvitationSecret(ctx, existing[0].ID, code, hash); err != nil {
		return "", apperrors.MapError(err)
	}

	event := events.NewEvent(events.EventInvitationRotated, existing[0].Username, s.clock.Now().UTC(), nil)
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("invitation rotated handler failed", zap.Error(err))
	}
	return code, nil
}

// DeleteExpired removes every PENDING account older than the configured window.
func (s *RegistrationService) DeleteExpired(ctx context.Context) (int64, error) {
	cutoff := s.clock.Now().Add(-s.cfg.DeleteAfter())
	return s.users.DeleteUnregisteredOlderThan(ctx, cutoff)
}

func (s *RegistrationService) confirmURL(username, secret string) string {
	q := url.Values{}
	q.Set("username", username)
	q.Set("secret", secret)
	return s.baseURL + "/register/confirm?" + q.Encode()
}
