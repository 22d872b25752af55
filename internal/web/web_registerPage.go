package web

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/database"
	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/models"
)

// RegisterPageData represents data for register page
type RegisterPageData struct {
	TemplateData
	Error string
	Name  string
	Email string
}

// registerPage displays the registration form
func (s *WebServer) registerPage(c *gin.Context) {
	// Check if user is already logged in
	if session := s.getWebSession(c); session != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	data := RegisterPageData{
		TemplateData: s.getBaseTemplateData(c, "Register"),
	}

	s.renderTemplate(c, "register.html", data)
}

// registerSubmit processes registration form submission
func (s *WebServer) registerSubmit(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	// Validate input
	if name == "" || email == "" || password == "" {
		s.renderRegisterError(c, "All fields are required", name, email)
		return
	}

	if err := validateDisplayName(name); err != nil {
		s.renderRegisterError(c, err.Error(), name, email)
		return
	}

	if err := validatePassword(password); err != nil {
		s.renderRegisterError(c, err.Error(), name, email)
		return
	}

	if !validateEmail(email) {
		s.renderRegisterError(c, "Invalid email format", name, email)
		return
	}

	// Hash password
	passwordHash, err := hashPassword(password)
	if err != nil {
		s.renderRegisterError(c, "Failed to process password", name, email)
		return
	}

	// Create user; a duplicate email sends the visitor to the login page
	user := &models.User{
		Email:        email,
		PasswordHash: passwordHash,
		DisplayName:  name,
	}
	if err := s.DB.InsertUser(user); err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			c.Redirect(http.StatusSeeOther, "/login?message=email_exists")
			return
		}
		log.Printf("[ERROR] Failed to create user %s: %v", email, err)
		s.renderRegisterError(c, "Failed to create account", name, email)
		return
	}
	log.Printf("Registered user %s with ID %d", user.Email, user.ID)

	// Create session
	if err := s.createWebSession(c, user.ID); err != nil {
		log.Printf("[ERROR] Failed to create web session for user %s (ID: %d): %v", user.Email, user.ID, err)
		s.renderRegisterError(c, "Registration successful but failed to log in: "+err.Error(), name, email)
		return
	}

	// Redirect to home
	c.Redirect(http.StatusSeeOther, "/")
}

// renderRegisterError renders register page with error
func (s *WebServer) renderRegisterError(c *gin.Context, errorMsg, name, email string) {
	data := RegisterPageData{
		TemplateData: s.getBaseTemplateData(c, "Register"),
		Error:        errorMsg,
		Name:         name,
		Email:        email,
	}

	c.Status(http.StatusBadRequest)
	s.renderTemplate(c, "register.html", data)
}
