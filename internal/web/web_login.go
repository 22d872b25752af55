package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/database"
)

// LoginPageData represents data for login page
type LoginPageData struct {
	TemplateData
	Error       string
	Email       string
	RedirectURL string
}

// loginPage displays the login form
func (s *WebServer) loginPage(c *gin.Context) {
	// Check if user is already logged in
	if session := s.getWebSession(c); session != nil {
		redirectURL := c.Query("redirect")
		if redirectURL == "" {
			redirectURL = "/"
		}
		c.Redirect(http.StatusSeeOther, redirectURL)
		return
	}

	// Handle different message types
	var errorMsg string
	switch c.Query("message") {
	case "email_exists":
		errorMsg = "You've already signed up with that email, log in instead!"
	case "login_required":
		errorMsg = "You need to login or register to comment."
	case "contact_login_required":
		errorMsg = "You need to login or register to send a message."
	case "logged_out":
		errorMsg = "" // No error for normal logout
	}

	data := LoginPageData{
		TemplateData: s.getBaseTemplateData(c, "Login"),
		Error:        errorMsg,
		RedirectURL:  c.Query("redirect"),
	}

	s.renderTemplate(c, "login.html", data)
}

// loginSubmit processes login form submission
func (s *WebServer) loginSubmit(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	redirectURL := c.PostForm("redirect")

	if redirectURL == "" {
		redirectURL = "/"
	}

	// Validate input
	if email == "" || password == "" {
		s.renderLoginError(c, "Email and password are required", email, redirectURL)
		return
	}

	// Check if the account is locked out
	lockedOut, err := s.DB.IsUserLockedOut(email)
	if err != nil {
		s.renderLoginError(c, "Login error. Please try again.", email, redirectURL)
		return
	}
	if lockedOut {
		s.renderLoginError(c, "Account temporarily locked due to too many failed attempts. Try again in 15 minutes.", email, redirectURL)
		return
	}

	user, err := s.DB.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			s.renderLoginError(c, "That email does not exist, please try again.", email, redirectURL)
			return
		}
		s.renderLoginError(c, "Login error. Please try again.", email, redirectURL)
		return
	}

	// Check password
	if !checkPassword(password, user.PasswordHash) {
		s.DB.IncrementLoginAttempts(email)
		s.renderLoginError(c, "Password incorrect, please try again.", email, redirectURL)
		return
	}

	// Successful login
	s.DB.ResetLoginAttempts(user.ID)
	if err := s.createWebSession(c, user.ID); err != nil {
		s.renderLoginError(c, "Failed to create session", email, redirectURL)
		return
	}

	c.Redirect(http.StatusSeeOther, redirectURL)
}

// logout handles user logout
func (s *WebServer) logout(c *gin.Context) {
	// Get current session to invalidate it
	if sessionID, err := c.Cookie("session_id"); err == nil {
		s.DB.DeleteSession(sessionID)
	}

	s.clearSessionCookie(c)

	c.Redirect(http.StatusSeeOther, "/")
}

// renderLoginError renders login page with error
func (s *WebServer) renderLoginError(c *gin.Context, errorMsg, email, redirectURL string) {
	data := LoginPageData{
		TemplateData: s.getBaseTemplateData(c, "Login"),
		Error:        errorMsg,
		Email:        email,
		RedirectURL:  redirectURL,
	}

	c.Status(http.StatusBadRequest)
	s.renderTemplate(c, "login.html", data)
}
