package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/finance-service/internal/domain"
)

// ProductRepository persists products and their price history.
type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetByName(ctx context.Context, name string) (*domain.Product, error)
	Rename(ctx context.Context, id int64, name string) error
	CreateWithPrice(ctx context.Context, name string, price decimal.Decimal) (*domain.Product, error)
	AttachPrice(ctx context.Context, productID int64, price decimal.Decimal) (*domain.ProductPrice, error)
	RotatePrice(ctx context.Context, productID int64, price decimal.Decimal, now time.Time) (*domain.ProductPrice, error)
	ClosePrice(ctx context.Context, productID int64, now time.Time) error
	PriceHistory(ctx context.Context, productID int64) ([]domain.ProductPrice, error)
}

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository instantiates repository.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

const productWithPrice = `
        SELECT p.id, p.name, pp.id, pp.price
        FROM products p
        LEFT JOIN product_prices pp ON pp.product_id = p.id AND pp.valid_until IS NULL`

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, productWithPrice+` ORDER BY p.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *product)
	}
	return result, rows.Err()
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx, productWithPrice+` WHERE p.id=$1`, id))
}

func (r *productRepository) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx, productWithPrice+` WHERE p.name=$1`, name))
}

func (r *productRepository) Rename(ctx context.Context, id int64, name string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE products SET name=$1 WHERE id=$2`, name, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// CreateWithPrice inserts a product together with its first active price.
func (r *productRepository) CreateWithPrice(ctx context.Context, name string, price decimal.Decimal) (*domain.Product, error) {
	product := &domain.Product{Name: name}
	err := pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `INSERT INTO products (name) VALUES ($1) RETURNING id`, name).Scan(&product.ID); err != nil {
			return err
		}
		current, err := insertActivePrice(ctx, tx, product.ID, price)
		if err != nil {
			return err
		}
		product.CurrentPrice = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// AttachPrice opens a new active price on a product that has none.
// The partial unique index rejects it when an active price already exists.
func (r *productRepository) AttachPrice(ctx context.Context, productID int64, price decimal.Decimal) (*domain.ProductPrice, error) {
	return insertActivePrice(ctx, r.pool, productID, price)
}

// RotatePrice closes the active price at now and opens a new one, all or nothing.
func (r *productRepository) RotatePrice(ctx context.Context, productID int64, price decimal.Decimal, now time.Time) (*domain.ProductPrice, error) {
	var current *domain.ProductPrice
	err := pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		const closeQuery = `
            UPDATE product_prices SET valid_until=$1
            WHERE product_id=$2 AND valid_until IS NULL`
		if _, err := tx.Exec(ctx, closeQuery, now, productID); err != nil {
			return err
		}
		var err error
		current, err = insertActivePrice(ctx, tx, productID, price)
		return err
	})
	if err != nil {
		return nil, err
	}
	return current, nil
}

func (r *productRepository) ClosePrice(ctx context.Context, productID int64, now time.Time) error {
	const query = `
        UPDATE product_prices SET valid_until=$1
        WHERE product_id=$2 AND valid_until IS NULL`
	cmd, err := r.pool.Exec(ctx, query, now, productID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// PriceHistory lists every price of a product, the active one first.
func (r *productRepository) PriceHistory(ctx context.Context, productID int64) ([]domain.ProductPrice, error) {
	const query = `
        SELECT id, product_id, price, valid_until
        FROM product_prices WHERE product_id=$1
        ORDER BY valid_until DESC NULLS FIRST, id DESC`
	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ProductPrice
	for rows.Next() {
		var price domain.ProductPrice
		if err := rows.Scan(&price.ID, &price.ProductID, &price.Price, &price.ValidUntil); err != nil {
			return nil, err
		}
		result = append(result, price)
	}
	return result, rows.Err()
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertActivePrice(ctx context.Context, q queryRower, productID int64, price decimal.Decimal) (*domain.ProductPrice, error) {
	const query = `
        INSERT INTO product_prices (product_id, price)
        VALUES ($1, $2)
        RETURNING id, price`
	current := &domain.ProductPrice{ProductID: productID}
	if err := q.QueryRow(ctx, query, productID, price).Scan(&current.ID, &current.Price); err != nil {
		return nil, err
	}
	return current, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		product domain.Product
		priceID *int64
		price   decimal.NullDecimal
	)
	if err := row.Scan(&product.ID, &product.Name, &priceID, &price); err != nil {
		return nil, err
	}
	if priceID != nil && price.Valid {
		product.CurrentPrice = &domain.ProductPrice{
			ID:        *priceID,
			ProductID: product.ID,
			Price:     price.Decimal,
		}
	}
	return &product, nil
}
