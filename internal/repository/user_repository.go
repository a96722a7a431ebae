package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/finance-service/internal/domain"
)

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	ReplacePasswordHash(ctx context.Context, id int64, oldHash, newHash string) error
	CompleteRegistration(ctx context.Context, id int64, secret string, roles domain.Roles) error
	UpdateInvitationSecret(ctx context.Context, id int64, secret, passwordHash string) error
	Delete(ctx context.Context, id int64) error
	DeleteUnregisteredOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, username, password_hash, roles, registration_secret, registration_timestamp, registration_complete`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (username, password_hash, roles, registration_secret, registration_timestamp, registration_complete)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`

	return r.pool.QueryRow(ctx, query,
		user.Username,
		user.PasswordHash,
		user.Roles.String(),
		user.RegistrationSecret,
		user.RegistrationTimestamp,
		user.RegistrationComplete,
	).Scan(&user.ID)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username=$1`
	return scanUser(r.pool.QueryRow(ctx, query, username))
}

func (r *userRepository) FindByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	const query = `
        SELECT ` + userColumns + `
        FROM users WHERE $1 = ANY(string_to_array(roles, ','))
        ORDER BY id`
	rows, err := r.pool.Query(ctx, query, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	const query = `UPDATE users SET password_hash=$1 WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ReplacePasswordHash swaps oldHash for newHash. The row is locked and re-read
// first, so a hash changed concurrently is left alone and ErrStaleUpdate returned.
func (r *userRepository) ReplacePasswordHash(ctx context.Context, id int64, oldHash, newHash string) error {
	return pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		var current string
		if err := tx.QueryRow(ctx, `SELECT password_hash FROM users WHERE id=$1 FOR UPDATE`, id).Scan(&current); err != nil {
			return err
		}
		if current != oldHash {
			return ErrStaleUpdate
		}
		_, err := tx.Exec(ctx, `UPDATE users SET password_hash=$1 WHERE id=$2`, newHash, id)
		return err
	})
}

// CompleteRegistration marks a pending user as registered when secret matches.
func (r *userRepository) CompleteRegistration(ctx context.Context, id int64, secret string, roles domain.Roles) error {
	const query = `
        UPDATE users SET registration_complete=TRUE, registration_secret=NULL, roles=$1
        WHERE id=$2 AND registration_secret=$3 AND registration_complete=FALSE`
	cmd, err := r.pool.Exec(ctx, query, roles.String(), id, secret)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() != 1 {
		return ErrStaleUpdate
	}
	return nil
}

func (r *userRepository) UpdateInvitationSecret(ctx context.Context, id int64, secret, passwordHash string) error {
	const query = `
        UPDATE users SET registration_secret=$1, password_hash=$2
        WHERE id=$3 AND $4 = ANY(string_to_array(roles, ','))`
	cmd, err := r.pool.Exec(ctx, query, secret, passwordHash, id, string(domain.RoleInvitation))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) DeleteUnregisteredOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `
        DELETE FROM users
        WHERE registration_complete=FALSE AND registration_timestamp < $1`
	cmd, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user  domain.User
		roles string
	)
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&roles,
		&user.RegistrationSecret,
		&user.RegistrationTimestamp,
		&user.RegistrationComplete,
	); err != nil {
		return nil, err
	}
	user.Roles = domain.ParseRoles(roles)
	return &user, nil
}

func scanUsers(rows pgx.Rows) ([]domain.User, error) {
	var result []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *user)
	}
	return result, rows.Err()
}
