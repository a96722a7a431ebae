package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/finance-service/internal/auth"
	"github.com/spec-kit/finance-service/internal/domain"
	"github.com/spec-kit/finance-service/internal/observability"
	"github.com/spec-kit/finance-service/internal/repository"
	apperrors "github.com/spec-kit/finance-service/pkg/util/errorutil"
)

const invalidCredentials = "invalid credentials"

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Principal domain.Principal
}

// AuthService coordinates login and credential maintenance.
type AuthService struct {
	users    repository.UserRepository
	hasher   auth.PasswordHasher
	tokenMgr *auth.TokenManager
	metrics  *observability.Metrics
	logger   *zap.Logger

	// compared against for unknown usernames so both paths cost one hash check
	dummyHash string
}

// NewAuthService builds the service.
func NewAuthService(users repository.UserRepository, hasher auth.PasswordHasher, tokenMgr *auth.TokenManager, metrics *observability.Metrics, logger *zap.Logger) *AuthService {
	dummyHash, err := hasher.Hash(uuid.NewString())
	if err != nil {
		logger.Warn("could not build placeholder hash", zap.Error(err))
	}
	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokenMgr:  tokenMgr,
		metrics:   metrics,
		logger:    logger,
		dummyHash: dummyHash,
	}
}

// Login exchanges username and password for a bearer token. Every failure
// yields the same Unauthorized error. A hash written by an outdated algorithm
// is replaced on success.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if apperrors.IsNotFound(err) {
			s.hasher.Verify(s.dummyHash, password)
			s.metrics.RecordLogin(false)
			return nil, apperrors.NewUnauthorized(invalidCredentials)
		}
		return nil, apperrors.MapError(err)
	}
	if !s.hasher.Verify(user.PasswordHash, password) || !user.RegistrationComplete {
		s.metrics.RecordLogin(false)
		return nil, apperrors.NewUnauthorized(invalidCredentials)
	}

	if s.hasher.NeedsRehash(user.PasswordHash) {
		if err := s.rehash(ctx, user, password); err != nil {
			return nil, err
		}
	}

	principal := user.Principal()
	token, exp, err := s.tokenMgr.GenerateToken(principal)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.metrics.RecordLogin(true)
	return &LoginResult{Token: token, ExpiresAt: exp, Principal: principal}, nil
}

func (s *AuthService) rehash(ctx context.Context, user *domain.User, password string) error {
	newHash, err := s.hasher.Hash(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		s.logger.Warn("password too long for current hash, keeping stored hash", zap.Int64("user_id", user.ID))
		return nil
	}
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	err = s.users.ReplacePasswordHash(ctx, user.ID, user.PasswordHash, newHash)
	switch {
	case err == nil:
		s.logger.Info("password hash upgraded", zap.Int64("user_id", user.ID))
		return nil
	case errors.Is(err, repository.ErrStaleUpdate):
		// changed concurrently; the newer hash wins
		return nil
	default:
		return apperrors.MapError(err)
	}
}

// Me returns the stored account behind the principal.
func (s *AuthService) Me(ctx context.Context, principal domain.Principal) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, principal.Username)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewUnauthorized("account no longer exists")
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// ResolveActor maps a token principal to the acting account.
func (s *AuthService) ResolveActor(ctx context.Context, principal domain.Principal) (Actor, error) {
	user, err := s.Me(ctx, principal)
	if err != nil {
		return Actor{}, err
	}
	return Actor{UserID: user.ID, Admin: principal.IsAdmin()}, nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, principal domain.Principal, currentPassword, newPassword string) error {
	user, err := s.Me(ctx, principal)
	if err != nil {
		return err
	}
	if user.Roles.Has(domain.RoleInvitation) {
		return apperrors.NewForbidden("rotate the invitation code instead")
	}
	if !s.hasher.Verify(user.PasswordHash, currentPassword) {
		return apperrors.NewUnauthorized(invalidCredentials)
	}
	hash, err := hashPassword(s.hasher, newPassword, "new_password")
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// hashPassword hashes a user supplied password, reporting an over-long one
// as a validation failure on field.
func hashPassword(hasher auth.PasswordHasher, plain, field string) (string, error) {
	hash, err := hasher.Hash(plain)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return "", apperrors.NewValidationError("invalid payload", map[string]any{
				field: fmt.Sprintf("field %s must be at most %d bytes", field, auth.MaxPasswordBytes),
			})
		}
		return "", apperrors.NewInternalError(err)
	}
	return hash, nil
}
