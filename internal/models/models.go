// Package models defines core data structures for Bamboo Blogs
package models

import (
	"time"
)

// PostDateFormat is the display date format stored on blog posts.
const PostDateFormat = "January 2, 2006"

// User represents a registered account
type User struct {
	ID            int64      `json:"id" db:"id"`
	Email         string     `json:"email" db:"email"`
	PasswordHash  string     `json:"password_hash" db:"password_hash"`
	DisplayName   string     `json:"display_name" db:"display_name"`
	IsAdmin       bool       `json:"is_admin" db:"is_admin"`             // Role flag, replaces the old "user id 1" convention
	LoginAttempts int        `json:"login_attempts" db:"login_attempts"` // Failed login attempts counter
	LockedUntil   *time.Time `json:"locked_until" db:"locked_until"`     // Lockout deadline after too many failures
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// BlogPost represents a published blog entry
type BlogPost struct {
	ID        int64     `json:"id" db:"id"`
	AuthorID  int64     `json:"author_id" db:"author_id"`
	Title     string    `json:"title" db:"title"`
	Subtitle  string    `json:"subtitle" db:"subtitle"`
	Date      string    `json:"date" db:"date"` // Display string, e.g. "August 31, 2026"
	Body      string    `json:"body" db:"body"` // Rich text (HTML)
	ImgURL    string    `json:"img_url" db:"img_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// AuthorName is joined from the users table on read paths
	AuthorName string `json:"author_name" db:"-"`
}

// Comment represents a reader comment on a blog post
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	Text      string    `json:"text" db:"text"`
	AuthorID  int64     `json:"author_id" db:"author_id"`
	PostID    int64     `json:"post_id" db:"post_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// AuthorName is joined from the users table on read paths
	AuthorName string `json:"author_name" db:"-"`
}

// Session represents a user session
type Session struct {
	ID        string    `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
}

// IsExpired reports whether the session has passed its expiry time
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
