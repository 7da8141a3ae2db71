package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"quiz-platform/internal/domain"
)

// UserRepository resolves principals against the users table.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) GetUser(ctx context.Context, userID string) (domain.User, error) {
	return r.getOne(ctx, `SELECT id, username, role FROM users WHERE id=$1`, userID)
}

func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.getOne(ctx, `SELECT id, username, role FROM users WHERE username=$1`, username)
}

// PutUser registers a directory entry, replacing username and role on conflict.
func (r *UserRepository) PutUser(ctx context.Context, user domain.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, username, role) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET username=EXCLUDED.username, role=EXCLUDED.role`,
		user.ID, user.Username, string(user.Role))
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, sql, arg string) (domain.User, error) {
	var (
		user domain.User
		role string
	)
	err := r.pool.QueryRow(ctx, sql, arg).Scan(&user.ID, &user.Username, &role)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	user.Role = domain.Role(role)
	return user, nil
}
