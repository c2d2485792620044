package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"splitpath/internal/models"
)

// UpsertUser creates or updates a user by OIDC subject. The role is
// only set on first insert so dashboard role changes survive re-login.
func (d *DB) UpsertUser(ctx context.Context, user *models.User) error {
	if user.Role == "" {
		user.Role = models.RoleViewer
	}
	return d.Pool.QueryRow(ctx, `
		INSERT INTO users (sub, email, name, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (sub) DO UPDATE
		SET email = EXCLUDED.email, name = EXCLUDED.name, updated_at = NOW()
		RETURNING id, role, created_at, updated_at
	`, user.Sub, user.Email, user.Name, user.Role).
		Scan(&user.ID, &user.Role, &user.CreatedAt, &user.UpdatedAt)
}

// GetUserBySub retrieves a user by OIDC subject identifier.
func (d *DB) GetUserBySub(ctx context.Context, sub string) (*models.User, error) {
	var user models.User
	err := d.Pool.QueryRow(ctx, `
		SELECT id, sub, email, name, role, created_at, updated_at
		FROM users WHERE sub = $1
	`, sub).Scan(&user.ID, &user.Sub, &user.Email, &user.Name, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
