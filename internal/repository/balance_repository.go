package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/finance-service/internal/domain"
)

// BalanceRepository aggregates payments and purchases. Nothing is cached.
type BalanceRepository interface {
	ReadAccountBalance(ctx context.Context, userID int64) (domain.AccountBalance, error)
}

type balanceRepository struct {
	pool *pgxpool.Pool
}

// NewBalanceRepository instantiates repository.
func NewBalanceRepository(pool *pgxpool.Pool) BalanceRepository {
	return &balanceRepository{pool: pool}
}

func (r *balanceRepository) ReadAccountBalance(ctx context.Context, userID int64) (domain.AccountBalance, error) {
	const query = `
        SELECT
            (SELECT COALESCE(SUM(amount), 0) FROM payments WHERE user_id=$1),
            (SELECT COALESCE(SUM(pp.price), 0)
               FROM purchases pu JOIN product_prices pp ON pp.id = pu.product_price_id
              WHERE pu.user_id=$1)`

	var payments, purchases decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&payments, &purchases); err != nil {
		return domain.AccountBalance{}, err
	}
	return domain.NewAccountBalance(userID, payments, purchases), nil
}
