package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/finance-service/internal/domain"
)

// PaymentRepository persists payments.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Payment, error)
	Delete(ctx context.Context, id int64) error
}

type paymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository instantiates repository.
func NewPaymentRepository(pool *pgxpool.Pool) PaymentRepository {
	return &paymentRepository{pool: pool}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	const query = `
        INSERT INTO payments (user_id, amount, timestamp)
        VALUES ($1, $2, $3)
        RETURNING id, amount`
	return r.pool.QueryRow(ctx, query,
		payment.UserID,
		payment.Amount,
		payment.Timestamp,
	).Scan(&payment.ID, &payment.Amount)
}

func (r *paymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	const query = `SELECT id, user_id, amount, timestamp FROM payments WHERE id=$1`
	var payment domain.Payment
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&payment.ID,
		&payment.UserID,
		&payment.Amount,
		&payment.Timestamp,
	); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Payment, error) {
	const query = `
        SELECT id, user_id, amount, timestamp
        FROM payments WHERE user_id=$1
        ORDER BY timestamp DESC, id DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Payment
	for rows.Next() {
		var payment domain.Payment
		if err := rows.Scan(&payment.ID, &payment.UserID, &payment.Amount, &payment.Timestamp); err != nil {
			return nil, err
		}
		result = append(result, payment)
	}
	return result, rows.Err()
}

func (r *paymentRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM payments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
