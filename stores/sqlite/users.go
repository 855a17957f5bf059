// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mdhender/tabtxt/model"
	"github.com/mdhender/tabtxt/web/auth"
)

// jsonUser is the on-disk shape of an entry in users.json.
type jsonUser struct {
	Handle   string   `json:"handle"`
	UserName string   `json:"user-name"`
	Email    string   `json:"email"`
	Timezone string   `json:"tz"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

// LoadUsersFromJSON loads user accounts from a JSON file. Plaintext
// passwords in the file are bcrypt-hashed on the way in; inactive users
// (no "active" role) get a sentinel hash that can never match.
func (s *Store) LoadUsersFromJSON(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read users file: %w", err)
	}

	var users []jsonUser
	if err := json.Unmarshal(data, &users); err != nil {
		return fmt.Errorf("parse users json: %w", err)
	}

	now := time.Now().Format(time.RFC3339)
	// Invalid bcrypt hash that will never match any password
	const invalidHash = "$2a$10$INVALID.HASH.THAT.WILL.NEVER.MATCH.ANY.PASSWORD.EVER"

	for _, ju := range users {
		isActive := hasRole(ju.Roles, "active")

		var hash string
		if isActive && ju.Password != "" {
			var err error
			hash, err = auth.HashPassword(ju.Password)
			if err != nil {
				return fmt.Errorf("hash password for %s: %w", ju.Handle, err)
			}
		} else {
			// Inactive users get an invalid hash so they can never log in
			hash = invalidHash
		}

		userName := ju.UserName
		if userName == "" {
			userName = ju.Handle // Use handle as fallback for inactive users
		}

		_, err = s.db.ExecContext(ctx, `
			INSERT INTO users (handle, user_name, email, timezone, password_hash, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(handle) DO UPDATE SET
				user_name = excluded.user_name,
				email = excluded.email,
				timezone = excluded.timezone,
				password_hash = excluded.password_hash
		`, ju.Handle, userName, ju.Email, ju.Timezone, hash, now)
		if err != nil {
			return fmt.Errorf("insert user %s: %w", ju.Handle, err)
		}

		// Delete existing roles and insert new ones
		_, _ = s.db.ExecContext(ctx, `DELETE FROM user_roles WHERE user_handle = ?`, ju.Handle)
		for _, role := range ju.Roles {
			_, err = s.db.ExecContext(ctx, `
				INSERT INTO user_roles (user_handle, role) VALUES (?, ?)
				ON CONFLICT DO NOTHING
			`, ju.Handle, role)
			if err != nil {
				return fmt.Errorf("insert role for %s: %w", ju.Handle, err)
			}
		}
	}

	return nil
}

func hasRole(roles []string, want string) bool {
	for _, role := range roles {
		if role == want {
			return true
		}
	}
	return false
}

// CreateUser inserts a user with an already-hashed password, for tests
// and CLI bootstrap.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (handle, user_name, email, timezone, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, user.Handle, user.UserName, user.Email, user.Timezone, user.PasswordHash, createdAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert user %s: %w", user.Handle, err)
	}
	for _, role := range user.Roles {
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO user_roles (user_handle, role) VALUES (?, ?)
			ON CONFLICT DO NOTHING
		`, user.Handle, role)
		if err != nil {
			return fmt.Errorf("insert role for %s: %w", user.Handle, err)
		}
	}
	return nil
}

// GetUser retrieves a user and their roles. Returns nil, nil when not found.
func (s *Store) GetUser(ctx context.Context, handle string) (*model.User, error) {
	const query = `
		SELECT handle, user_name, email, timezone, password_hash, created_at
		FROM users
		WHERE handle = ?
	`
	row := s.db.QueryRowContext(ctx, query, handle)
	var user model.User
	var email, timezone sql.NullString
	var createdAt string
	if err := row.Scan(
		&user.Handle,
		&user.UserName,
		&email,
		&timezone,
		&user.PasswordHash,
		&createdAt,
	); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	user.Email = email.String
	user.Timezone = timezone.String
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		user.CreatedAt = t
	}

	rows, err := s.db.QueryContext(ctx, `SELECT role FROM user_roles WHERE user_handle = ?`, handle)
	if err != nil {
		return nil, fmt.Errorf("get roles: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		user.Roles = append(user.Roles, role)
	}
	return &user, rows.Err()
}

// Authenticate checks a handle and password against the users table.
// Returns nil, false when the user is unknown or the password is wrong.
func (s *Store) Authenticate(ctx context.Context, handle, password string) (*model.User, bool) {
	user, err := s.GetUser(ctx, handle)
	if err != nil || user == nil {
		return nil, false
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, false
	}
	return user, true
}

// IsUserAdmin reports whether the user carries the admin role.
func (s *Store) IsUserAdmin(ctx context.Context, handle string) (bool, error) {
	const query = `
		SELECT COUNT(*) FROM user_roles WHERE user_handle = ? AND role = 'admin'
	`
	var count int
	if err := s.db.QueryRowContext(ctx, query, handle).Scan(&count); err != nil {
		return false, fmt.Errorf("check admin: %w", err)
	}
	return count > 0, nil
}
