package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nextgen/nextgen-api/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, email, passwordHash, fullName string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	SetVerificationCode(ctx context.Context, userID int64, codeHash string, issuedAt time.Time) error
	ConsumeVerificationCode(ctx context.Context, userID int64) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userCols = `id, email, password_hash, full_name, is_verified, is_admin, verification_code_hash, verification_code_issued_at, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.IsVerified, &u.IsAdmin,
		&u.CodeHash, &u.CodeIssuedAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, email, passwordHash, fullName string) (*domain.User, error) {
	const q = `
		INSERT INTO users (email, password_hash, full_name, is_verified, is_admin)
		VALUES ($1, $2, $3, false, false)
		RETURNING ` + userCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := scanUser(r.pool.QueryRow(ctx, q, email, passwordHash, fullName))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrConflict
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	// Exact, case-sensitive match on purpose.
	const q = `SELECT ` + userCols + ` FROM users WHERE email = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := scanUser(r.pool.QueryRow(ctx, q, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := scanUser(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// SetVerificationCode overwrites any previous code. Concurrent requests
// race last-write-wins; only the latest code validates.
func (r *userRepository) SetVerificationCode(ctx context.Context, userID int64, codeHash string, issuedAt time.Time) error {
	const q = `
		UPDATE users
		SET verification_code_hash = $2,
		    verification_code_issued_at = $3,
		    updated_at = now()
		WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, userID, codeHash, issuedAt)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ConsumeVerificationCode flips the user to verified and clears the
// code columns in one statement, so a code is usable exactly once.
func (r *userRepository) ConsumeVerificationCode(ctx context.Context, userID int64) error {
	const q = `
		UPDATE users
		SET is_verified = true,
		    verification_code_hash = NULL,
		    verification_code_issued_at = NULL,
		    updated_at = now()
		WHERE id = $1
		  AND verification_code_hash IS NOT NULL`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNoActiveCode
	}
	return nil
}
