package database

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/models"
)

// Session security constants
const (
	SessionIDLength  = 64                 // 64 character session ID
	SessionLifetime  = 7 * 24 * time.Hour // Sessions last a week
	MaxLoginAttempts = 5                  // Max failed login attempts
	LoginLockoutTime = 15 * time.Minute   // Lockout time after max attempts
)

// GenerateSecureSessionID creates a cryptographically secure session ID
func GenerateSecureSessionID() (string, error) {
	bytes := make([]byte, SessionIDLength/2) // hex encoding doubles the length
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure session ID: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

const query_InsertSession = `INSERT INTO sessions (id, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`

// CreateUserSession creates a new session row for the user and returns its ID
func (db *Database) CreateUserSession(userID int64) (string, error) {
	sessionID, err := GenerateSecureSessionID()
	if err != nil {
		return "", err
	}

	now := time.Now()
	_, err = retryableExec(db.mainDB, query_InsertSession,
		sessionID, userID, now, now.Add(SessionLifetime))
	if err != nil {
		return "", fmt.Errorf("failed to create user session: %w", err)
	}
	return sessionID, nil
}

const query_ValidateSession = `SELECT u.id, u.email, u.password_hash, u.display_name, u.is_admin, u.login_attempts, u.locked_until, u.created_at, u.updated_at
	FROM sessions s JOIN users u ON u.id = s.user_id
	WHERE s.id = ? AND s.expires_at > ?`

// ValidateUserSession returns the user holding the session, or ErrNotFound
// if the session is unknown or expired
func (db *Database) ValidateUserSession(sessionID string) (*models.User, error) {
	if sessionID == "" {
		return nil, ErrNotFound
	}

	var u models.User
	err := retryableQueryRowScan(db.mainDB, query_ValidateSession,
		[]interface{}{sessionID, time.Now()},
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

const query_DeleteSession = `DELETE FROM sessions WHERE id = ?`

// DeleteSession removes a session (logout)
func (db *Database) DeleteSession(sessionID string) error {
	_, err := retryableExec(db.mainDB, query_DeleteSession, sessionID)
	return err
}

const query_DeleteExpiredSessions = `DELETE FROM sessions WHERE expires_at <= ?`

// CleanupExpiredSessions removes all expired session rows and returns the count
func (db *Database) CleanupExpiredSessions() (int64, error) {
	result, err := retryableExec(db.mainDB, query_DeleteExpiredSessions, time.Now())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// IsUserLockedOut checks if the account is temporarily locked due to failed attempts
func (db *Database) IsUserLockedOut(email string) (bool, error) {
	user, err := db.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if user.LockedUntil != nil && time.Now().Before(*user.LockedUntil) {
		return true, nil
	}
	return false, nil
}

const query_IncrementLoginAttempts = `UPDATE users SET
	login_attempts = login_attempts + 1,
	locked_until = CASE WHEN login_attempts + 1 >= ? THEN ? ELSE locked_until END,
	updated_at = CURRENT_TIMESTAMP
	WHERE email = ?`

// IncrementLoginAttempts increases the failed login counter and locks the
// account once MaxLoginAttempts is reached
func (db *Database) IncrementLoginAttempts(email string) error {
	_, err := retryableExec(db.mainDB, query_IncrementLoginAttempts,
		MaxLoginAttempts, time.Now().Add(LoginLockoutTime), email)
	return err
}

const query_ResetLoginAttempts = `UPDATE users SET login_attempts = 0, locked_until = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

// ResetLoginAttempts clears the failure counter after a successful login
func (db *Database) ResetLoginAttempts(userID int64) error {
	_, err := retryableExec(db.mainDB, query_ResetLoginAttempts, userID)
	return err
}
