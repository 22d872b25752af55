package web

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/mail"
)

// ContactPageData represents data for the contact page
type ContactPageData struct {
	TemplateData
	Heading string
	Error   string
	Name    string
	Email   string
	Phone   string
	Message string
}

// contactPage displays the contact form
func (s *WebServer) contactPage(c *gin.Context) {
	data := ContactPageData{
		TemplateData: s.getBaseTemplateData(c, "Contact"),
		Heading:      "Let's Connect!",
	}
	s.renderTemplate(c, "contact.html", data)
}

// contactSubmit relays the contact form to the site owner. Requires a
// session. A relay failure is reported to the visitor instead of killing
// the request.
func (s *WebServer) contactSubmit(c *gin.Context) {
	session := s.getWebSession(c)
	if session == nil {
		c.Redirect(http.StatusSeeOther, "/login?message=contact_login_required&redirect=/contact")
		return
	}

	msg := &mail.ContactMessage{
		Name:    strings.TrimSpace(c.PostForm("name")),
		Email:   strings.TrimSpace(c.PostForm("email")),
		Phone:   strings.TrimSpace(c.PostForm("phone")),
		Message: strings.TrimSpace(c.PostForm("message")),
	}

	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		s.renderContactError(c, "Name, email and message are required", msg)
		return
	}

	if err := s.Mailer.SendContactMessage(msg); err != nil {
		log.Printf("[ERROR] Failed to relay contact message from %s: %v", msg.Email, err)
		s.renderContactError(c, "Sorry, your message could not be sent right now. Please try again later.", msg)
		return
	}

	data := ContactPageData{
		TemplateData: s.getBaseTemplateData(c, "Contact"),
		Heading:      "Successfully sent your message",
	}
	s.renderTemplate(c, "contact.html", data)
}

// renderContactError re-renders the contact form with an error
func (s *WebServer) renderContactError(c *gin.Context, errorMsg string, msg *mail.ContactMessage) {
	data := ContactPageData{
		TemplateData: s.getBaseTemplateData(c, "Contact"),
		Heading:      "Let's Connect!",
		Error:        errorMsg,
		Name:         msg.Name,
		Email:        msg.Email,
		Phone:        msg.Phone,
		Message:      msg.Message,
	}

	c.Status(http.StatusBadRequest)
	s.renderTemplate(c, "contact.html", data)
}
