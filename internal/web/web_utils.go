package web

import (
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/config"
)

// TemplateData represents common template data
type TemplateData struct {
	Title       template.HTML
	CurrentTime string
	CurrentYear int
	AppVersion  string
	User        *AuthUser
	IsAdmin     bool
	FlashError  string
	FlashOK     string
}

// templatePath resolves a template file inside the configured template directory
func (s *WebServer) templatePath(name string) string {
	dir := s.Config.TemplateDir
	if dir == "" {
		dir = "web/templates"
	}
	return filepath.Join(dir, name)
}

// getBaseTemplateData creates a TemplateData struct with common information including user auth
func (s *WebServer) getBaseTemplateData(c *gin.Context, title string) TemplateData {
	data := TemplateData{
		Title:       template.HTML(title),
		CurrentTime: time.Now().Format("2006-01-02 15:04:05"),
		CurrentYear: time.Now().Year(),
		AppVersion:  config.AppVersion,
	}

	// Add user information if logged in
	if session := s.getWebSession(c); session != nil {
		data.User = session.User
		data.IsAdmin = session.User.IsAdmin
		data.FlashOK, data.FlashError = GetAndClearFlash(session.SessionID)
	}

	return data
}

// renderError renders an error page
func (s *WebServer) renderError(c *gin.Context, statusCode int, message string, errstring string) {
	errorData := struct {
		TemplateData
		Error      string
		StatusCode int
	}{
		TemplateData: s.getBaseTemplateData(c, "Error"),
		Error:        message,
		StatusCode:   statusCode,
	}
	log.Printf("[ERROR] %d: %s - %s", statusCode, message, errstring)

	// Load template individually to avoid engine setup issues
	tmpl, err := template.ParseFiles(s.templatePath("base.html"), s.templatePath("error.html"))
	if err != nil {
		log.Printf("Error loading error template: %v", err)
		c.String(statusCode, "Error: %s - %s", message, errstring)
		return
	}
	c.Header("Content-Type", "text/html")
	c.Status(statusCode)
	if err := tmpl.ExecuteTemplate(c.Writer, "base.html", errorData); err != nil {
		log.Printf("Error rendering error template: %v", err)
		c.String(statusCode, "Error: %s - %s", message, errstring)
	}
}

// renderTemplate renders a page template wrapped in the base template
func (s *WebServer) renderTemplate(c *gin.Context, templateName string, data interface{}) {
	// Load template individually to avoid engine setup issues
	tmpl, err := template.ParseFiles(s.templatePath("base.html"), s.templatePath(templateName))
	if err != nil {
		log.Printf("Error loading template %s: %v", templateName, err)
		s.renderError(c, http.StatusInternalServerError, "Template error", err.Error())
		return
	}
	c.Header("Content-Type", "text/html")
	if err := tmpl.ExecuteTemplate(c.Writer, "base.html", data); err != nil {
		log.Printf("Error rendering template %s: %v", templateName, err)
		s.renderError(c, http.StatusInternalServerError, "Template error", err.Error())
	}
}
