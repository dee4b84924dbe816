package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/hlzx-oa/project-registry/internal/auth/domain"
)

// UserRepository provides persistence for operator accounts.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	const q = `
SELECT id, username, password, COALESCE(realname, ''), COALESCE(department, ''), created_date
FROM users
WHERE username = $1;
`
	var u domain.User
	err := r.db.QueryRowContext(ctx, q, username).
		Scan(&u.ID, &u.Username, &u.Password, &u.RealName, &u.Department, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create stores a new account. The caller passes the bcrypt hash in
// u.Password; a username collision maps to ErrUsernameTaken.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (int64, error) {
	const q = `
INSERT INTO users (username, password, realname, department)
VALUES ($1, $2, $3, $4)
RETURNING id, created_date;
`
	err := r.db.QueryRowContext(ctx, q, u.Username, u.Password, u.RealName, u.Department).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, fmt.Errorf("%w: %s", domain.ErrUsernameTaken, u.Username)
		}
		return 0, err
	}
	return u.ID, nil
}
