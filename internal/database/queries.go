package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/models"
)

// --- User Queries ---

const query_InsertUser = `INSERT INTO users (email, password_hash, display_name, is_admin) VALUES (?, ?, ?, ?)`

// InsertUser creates a new user and fills in the assigned ID
func (db *Database) InsertUser(u *models.User) error {
	result, err := retryableExec(db.mainDB, query_InsertUser,
		u.Email, u.PasswordHash, u.DisplayName, u.IsAdmin,
	)
	if err != nil {
		if isUniqueViolation(err, "users.email") {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get user id: %w", err)
	}
	u.ID = id
	return nil
}

const query_GetUserByEmail = `SELECT id, email, password_hash, display_name, is_admin, login_attempts, locked_until, created_at, updated_at FROM users WHERE email = ?`

func (db *Database) GetUserByEmail(email string) (*models.User, error) {
	var u models.User
	err := retryableQueryRowScan(db.mainDB, query_GetUserByEmail, []interface{}{email},
		&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.IsAdmin,
		&u.LoginAttempts, &u.LockedUntil, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

const query_GetUserByID = `SELECT id, email, password_hash, display_name, is_admin, login_attempts, locked_until, created_at, updated_at FROM users WHERE id = ?`

func (db *Database) GetUserByID(id int64) (*models.User, error) {
	var u models.User
	err := retryableQueryRowScan(db.mainDB, query_GetUserByID, []interface{}{id},
		&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.IsAdmin,
		&u.LoginAttempts, &u.LockedUntil, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

const query_ListUsers = `SELECT id, email, password_hash, display_name, is_admin, login_attempts, locked_until, created_at, updated_at FROM users ORDER BY id`

// ListUsers returns all users (operator tooling)
func (db *Database) ListUsers() ([]*models.User, error) {
	rows, err := retryableQuery(db.mainDB, query_ListUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.IsAdmin,
			&u.LoginAttempts, &u.LockedUntil, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}

const query_UpdateUserPassword = `UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

// UpdateUserPassword updates a user's password hash
func (db *Database) UpdateUserPassword(userID int64, passwordHash string) error {
	result, err := retryableExec(db.mainDB, query_UpdateUserPassword, passwordHash, userID)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

const query_SetUserAdmin = `UPDATE users SET is_admin = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

// SetUserAdmin grants or revokes the admin role flag
func (db *Database) SetUserAdmin(userID int64, isAdmin bool) error {
	result, err := retryableExec(db.mainDB, query_SetUserAdmin, isAdmin, userID)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

const query_DeleteUser = `DELETE FROM users WHERE id = ?`

// DeleteUser removes a user (operator tooling; not reachable from the web app)
func (db *Database) DeleteUser(userID int64) error {
	result, err := retryableExec(db.mainDB, query_DeleteUser, userID)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// isUniqueViolation checks for a sqlite UNIQUE constraint error on the given column
func isUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, column)
}

// requireRowsAffected maps a zero-row write to ErrNotFound
func requireRowsAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
