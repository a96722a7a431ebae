package service

import (
	"context"

	"github.com/spec-kit/finance-service/internal/domain"
	"github.com/spec-kit/finance-service/internal/repository"
	apperrors "github.com/spec-kit/finance-service/pkg/util/errorutil"
)

// BalanceService computes account balances on every call.
type BalanceService struct {
	balances repository.BalanceRepository
	users    repository.UserRepository
}

// NewBalanceService constructs the service.
func NewBalanceService(balances repository.BalanceRepository, users repository.UserRepository) *BalanceService {
	return &BalanceService{balances: balances, users: users}
}

// ReadAccountBalance returns payments minus purchases for userID.
func (s *BalanceService) ReadAccountBalance(ctx context.Context, userID int64) (domain.AccountBalance, error) {
	balance, err := s.balances.ReadAccountBalance(ctx, userID)
	if err != nil {
		return domain.AccountBalance{}, apperrors.MapError(err)
	}
	return balance, nil
}

// ReadUserBalance is the admin view; unknown users are reported as NotFound
// instead of a zero balance.
func (s *BalanceService) ReadUserBalance(ctx context.Context, userID int64) (domain.AccountBalance, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if apperrors.IsNotFound(err) {
			return domain.AccountBalance{}, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return domain.AccountBalance{}, apperrors.MapError(err)
	}
	return s.ReadAccountBalance(ctx, userID)
}
