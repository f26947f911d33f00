package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Users reads admin accounts.
type Users struct {
	db *sql.DB
}

func NewUsers(db *sql.DB) *Users {
	return &Users{db: db}
}

// PasswordHash returns the stored bcrypt hash for email.
func (u *Users) PasswordHash(ctx context.Context, email string) (string, error) {
	var hash string
	err := u.db.QueryRowContext(ctx, `SELECT password_hash FROM users WHERE email = ?`, email).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query user credentials: %w", err)
	}
	return hash, nil
}
