package web

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// FlashMessage holds a one-shot message for a session
type FlashMessage struct {
	Type    string // "success" or "error"
	Message string
}

// Global flash message map and mutex
var (
	flashMessages   = make(map[string]FlashMessage)
	flashMessagesMu sync.RWMutex
)

// SetFlashError sets a temporary error message for a session
func SetFlashError(sessionID, msg string) {
	flashMessagesMu.Lock()
	flashMessages[sessionID] = FlashMessage{Type: "error", Message: msg}
	flashMessagesMu.Unlock()
}

// SetFlashSuccess sets a temporary success message for a session
func SetFlashSuccess(sessionID, msg string) {
	flashMessagesMu.Lock()
	flashMessages[sessionID] = FlashMessage{Type: "success", Message: msg}
	flashMessagesMu.Unlock()
}

// GetAndClearFlash retrieves and clears flash messages for a session
func GetAndClearFlash(sessionID string) (success, errorMsg string) {
	flashMessagesMu.Lock()
	fm := flashMessages[sessionID]
	switch fm.Type {
	case "success":
		success = fm.Message
	case "error":
		errorMsg = fm.Message
	}
	delete(flashMessages, sessionID)
	flashMessagesMu.Unlock()
	return
}

// AuthUser represents a user for authentication
type AuthUser struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	IsAdmin     bool   `json:"is_admin"`
}

// SessionData represents session information with user data
type SessionData struct {
	SessionID string
	UserID    int64
	User      *AuthUser
}

// SetError sets a temporary error message in session data
func (s *SessionData) SetError(msg string) {
	SetFlashError(s.SessionID, msg)
}

// SetSuccess sets a temporary success message in session data
func (s *SessionData) SetSuccess(msg string) {
	SetFlashSuccess(s.SessionID, msg)
}

// WebAuthRequired middleware redirects to login when no valid session exists
func (s *WebServer) WebAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := s.getWebSession(c)
		if session == nil {
			c.Redirect(http.StatusSeeOther, "/login?redirect="+c.Request.URL.Path)
			c.Abort()
			return
		}

		// Store user in context for handlers
		c.Set("user", session.User)
		c.Next()
	}
}

// WebAdminRequired middleware gates the authoring routes: no session renders
// a 401 page, a non-admin session renders a 403 page.
func (s *WebServer) WebAdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := s.getWebSession(c)
		if session == nil {
			s.renderError(c, http.StatusUnauthorized, "Login Required", "You must be logged in to access this page")
			c.Abort()
			return
		}

		if !session.User.IsAdmin {
			s.renderError(c, http.StatusForbidden, "Access Denied", "Admin access required")
			c.Abort()
			return
		}

		c.Set("user", session.User)
		c.Next()
	}
}

// getWebSession retrieves session from cookie and returns full session data
func (s *WebServer) getWebSession(c *gin.Context) *SessionData {
	sessionID, err := c.Cookie("session_id")
	if err != nil {
		return nil
	}

	user, err := s.DB.ValidateUserSession(sessionID)
	if err != nil {
		return nil
	}

	return &SessionData{
		SessionID: sessionID,
		UserID:    user.ID,
		User: &AuthUser{
			ID:          user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			IsAdmin:     user.IsAdmin,
		},
	}
}

// createWebSession creates a new session for user and sets the cookie
func (s *WebServer) createWebSession(c *gin.Context, userID int64) error {
	sessionID, err := s.DB.CreateUserSession(userID)
	if err != nil {
		return err
	}

	s.setSessionCookie(c, sessionID)
	return nil
}

// hashPassword creates a bcrypt hash of the password
func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// checkPassword checks if password matches hash
func checkPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// validateEmail performs basic email validation
func validateEmail(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".")
}

// validateDisplayName validates display name requirements
func validateDisplayName(name string) error {
	if len(name) < 2 {
		return fmt.Errorf("name must be at least 2 characters long")
	}
	if len(name) > 100 {
		return fmt.Errorf("name must be less than 100 characters")
	}
	return nil
}

// validatePassword validates password requirements
func validatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters long")
	}
	if len(password) > 128 {
		return fmt.Errorf("password must be less than 128 characters")
	}
	return nil
}

// Helper function to set session cookie
func (s *WebServer) setSessionCookie(c *gin.Context, sessionID string) {
	// Prefer actual TLS on the request or trusted reverse proxy header
	isHTTPS := c.Request != nil && (c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https"))

	cookie := &http.Cookie{
		Name:     "session_id",
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   isHTTPS,
		SameSite: http.SameSiteLaxMode, // Works well with reverse proxies
		MaxAge:   int(7 * 24 * time.Hour / time.Second),
	}

	http.SetCookie(c.Writer, cookie)
}

// Helper function to clear session cookie
func (s *WebServer) clearSessionCookie(c *gin.Context) {
	isHTTPS := c.Request != nil && (c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https"))

	cookie := &http.Cookie{
		Name:     "session_id",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isHTTPS,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1, // Delete cookie
	}

	http.SetCookie(c.Writer, cookie)
}
