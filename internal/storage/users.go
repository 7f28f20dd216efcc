package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/claude/workouttracker/internal/models"
)

// normalizeEmail lowercases and trims an address so lookups are case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser inserts a new account. Returns ErrUserExists if the email is taken.
func (db *DB) CreateUser(ctx context.Context, name, surname, email, passwordHash string) (*models.User, error) {
	u := &models.User{Name: name, Surname: surname, Email: normalizeEmail(email), PasswordHash: passwordHash}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO users (name, surname, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, u.Name, u.Surname, u.Email, u.PasswordHash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("inserting user: %w", err)
	}
	return u, nil
}

// GetUserByEmail looks up an account for login.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := db.Pool.QueryRow(ctx, `
		SELECT id, name, surname, email, password_hash, created_at
		FROM users WHERE email = $1
	`, normalizeEmail(email)).Scan(&u.ID, &u.Name, &u.Surname, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err, "querying user by email")
	}
	return &u, nil
}

// GetUserByID returns the account behind a verified token.
func (db *DB) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	var u models.User
	err := db.Pool.QueryRow(ctx, `
		SELECT id, name, surname, email, password_hash, created_at
		FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Name, &u.Surname, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err, "querying user")
	}
	return &u, nil
}
