// Package mail relays contact form messages to the site owner over SMTP.
package mail

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/config"
)

// Mailer sends transactional mail through a single SMTP relay. Fire and
// forget: nothing is persisted.
type Mailer struct {
	cfg config.MailConfig
}

// NewMailer creates a Mailer from the given relay configuration
func NewMailer(cfg config.MailConfig) *Mailer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultMailTimeout
	}
	return &Mailer{cfg: cfg}
}

// ContactMessage carries the contact form fields
type ContactMessage struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// Format renders the plain-text mail body including the Subject header
func (m *ContactMessage) Format() string {
	return fmt.Sprintf("Subject: Bamboo Blogs: New Message from %s\r\n\r\nName: %s\nEmail: %s\nPhone: %s\nMessage: %s\n",
		m.Name, m.Name, m.Email, m.Phone, m.Message)
}

// SendContactMessage relays a contact form message to the configured
// recipient. A slow or unreachable relay fails within the configured
// timeout instead of blocking the request forever.
func (m *Mailer) SendContactMessage(msg *ContactMessage) error {
	if !m.cfg.Enabled() {
		return fmt.Errorf("mail relay not configured: EMAIL_ID and PASSWORD must be set")
	}

	conn, err := net.DialTimeout("tcp", m.cfg.Addr(), m.cfg.Timeout)
	if err != nil {
		return fmt.Errorf("failed to reach mail relay %s: %w", m.cfg.Addr(), err)
	}
	// Deadline covers the whole SMTP conversation
	if err := conn.SetDeadline(time.Now().Add(m.cfg.Timeout)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set relay deadline: %w", err)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to start SMTP session: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return fmt.Errorf("failed to negotiate STARTTLS: %w", err)
		}
	}

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("failed to authenticate with mail relay: %w", err)
	}

	if err := client.Mail(m.cfg.Username); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	recipient := m.cfg.Recipient
	if recipient == "" {
		recipient = m.cfg.Username // owner relays to their own mailbox
	}
	if err := client.Rcpt(recipient); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open message body: %w", err)
	}
	if _, err := w.Write([]byte(msg.Format())); err != nil {
		w.Close()
		return fmt.Errorf("failed to write message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish message body: %w", err)
	}

	return client.Quit()
}
