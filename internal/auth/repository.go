package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cazuela-chapina/cazuela/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user User) (User, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *PGRepository {
	return &PGRepository{db: db}
}

// FindByEmail fetches a user by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.QueryRow(ctx,
		`SELECT id, name, email, password_hash, is_admin, created_at FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a user, surfacing a duplicate email as ErrDuplicate.
func (r *PGRepository) Create(ctx context.Context, user User) (User, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash, is_admin, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		user.Name, user.Email, user.PasswordHash, user.IsAdmin, now,
	).Scan(&user.ID)
	if err != nil {
		return User{}, translateCreateError(err)
	}
	user.CreatedAt = now
	return user, nil
}

// uniqueViolation is the PostgreSQL error code for a unique constraint
// breach, here only ever the users.email index.
const uniqueViolation = "23505"

func translateCreateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return shared.ErrDuplicate
	}
	return err
}

var _ Repository = (*PGRepository)(nil)
