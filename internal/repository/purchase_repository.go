package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/finance-service/internal/domain"
)

// PurchaseRepository persists purchases. A purchase points at a price row, never at a product.
type PurchaseRepository interface {
	Create(ctx context.Context, userID, productID int64, at time.Time) (*domain.Purchase, error)
	GetByID(ctx context.Context, id int64) (*domain.Purchase, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Purchase, error)
	Delete(ctx context.Context, id int64) error
}

type purchaseRepository struct {
	pool *pgxpool.Pool
}

// NewPurchaseRepository instantiates repository.
func NewPurchaseRepository(pool *pgxpool.Pool) PurchaseRepository {
	return &purchaseRepository{pool: pool}
}

const purchaseSelect = `
        SELECT pu.id, pu.user_id, pu.product_price_id, pu.timestamp, pp.product_id, p.name, pp.price
        FROM purchases pu
        JOIN product_prices pp ON pp.id = pu.product_price_id
        JOIN products p ON p.id = pp.product_id`

// Create records a purchase at the product's active price.
// pgx.ErrNoRows means the product has no active price.
func (r *purchaseRepository) Create(ctx context.Context, userID, productID int64, at time.Time) (*domain.Purchase, error) {
	const query = `
        WITH active AS (
            SELECT pp.id, pp.product_id, pp.price, p.name
            FROM product_prices pp JOIN products p ON p.id = pp.product_id
            WHERE pp.product_id=$2 AND pp.valid_until IS NULL
        ), inserted AS (
            INSERT INTO purchases (user_id, product_price_id, timestamp)
            SELECT $1, active.id, $3 FROM active
            RETURNING id, user_id, product_price_id, timestamp
        )
        SELECT inserted.id, inserted.user_id, inserted.product_price_id, inserted.timestamp,
               active.product_id, active.name, active.price
        FROM inserted JOIN active ON active.id = inserted.product_price_id`
	return scanPurchase(r.pool.QueryRow(ctx, query, userID, productID, at))
}

func (r *purchaseRepository) GetByID(ctx context.Context, id int64) (*domain.Purchase, error) {
	return scanPurchase(r.pool.QueryRow(ctx, purchaseSelect+` WHERE pu.id=$1`, id))
}

func (r *purchaseRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Purchase, error) {
	rows, err := r.pool.Query(ctx, purchaseSelect+` WHERE pu.user_id=$1 ORDER BY pu.timestamp DESC, pu.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Purchase
	for rows.Next() {
		purchase, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *purchase)
	}
	return result, rows.Err()
}

func (r *purchaseRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM purchases WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanPurchase(row pgx.Row) (*domain.Purchase, error) {
	var purchase domain.Purchase
	if err := row.Scan(
		&purchase.ID,
		&purchase.UserID,
		&purchase.ProductPriceID,
		&purchase.Timestamp,
		&purchase.ProductID,
		&purchase.ProductName,
		&purchase.Price,
	); err != nil {
		return nil, err
	}
	return &purchase, nil
}
