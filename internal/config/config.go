// Package config provides configuration management for Bamboo Blogs.
package config

import (
	"fmt"
	"os"
	"time"
)

var AppVersion = "-unset-" // will be set at build time

const (
	// Default web server port
	DefaultListenPort = 8080

	// Default SMTP relay settings
	DefaultMailHost    = "smtp.gmail.com"
	DefaultMailPort    = 587
	DefaultMailTimeout = 15 * time.Second
)

// MainConfig holds the main configuration for Bamboo Blogs
type MainConfig struct {
	// Web interface settings
	Web WebConfig `json:"web"`

	// Database settings
	Database DatabaseConfig `json:"database"`

	// Outbound mail settings for the contact form
	Mail MailConfig `json:"mail"`

	AppVersion string `json:"app_version"` // Application version, set at build time
}

// WebConfig holds web interface configuration
type WebConfig struct {
	ListenPort  int    `json:"listen_port"`
	SSL         bool   `json:"ssl"`
	CertFile    string `json:"cert_file,omitempty"`
	KeyFile     string `json:"key_file,omitempty"`
	StaticDir   string `json:"static_dir"`
	TemplateDir string `json:"template_dir"`
	Debug       bool   `json:"debug"` // Enable debug logging for sessions/auth
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	MainDB string `json:"main_db"` // Path to the sqlite database file
}

// MailConfig holds SMTP relay configuration for the contact form.
// Username and Password come from the EMAIL_ID and PASSWORD environment
// values; the rest have defaults.
type MailConfig struct {
	Host      string        `json:"host"`
	Port      int           `json:"port"`
	Username  string        `json:"username"`
	Password  string        `json:"-"` // never serialized
	Recipient string        `json:"recipient"`
	Timeout   time.Duration `json:"timeout"`
}

// Addr returns the host:port of the SMTP relay
func (m *MailConfig) Addr() string {
	return fmt.Sprintf("%s:%d", m.Host, m.Port)
}

// Enabled reports whether relay credentials are configured
func (m *MailConfig) Enabled() bool {
	return m.Username != "" && m.Password != ""
}

// NewDefaultConfig returns a configuration with sensible defaults.
// Mail credentials are read from the environment (load a .env file with
// godotenv before calling this).
func NewDefaultConfig() *MainConfig {
	return &MainConfig{
		AppVersion: AppVersion,
		Web: WebConfig{
			ListenPort:  DefaultListenPort,
			SSL:         false,
			StaticDir:   "web/static",
			TemplateDir: "web/templates",
		},
		Database: DatabaseConfig{
			MainDB: "data/bamboo-blogs.sq3",
		},
		Mail: MailConfig{
			Host:      DefaultMailHost,
			Port:      DefaultMailPort,
			Username:  os.Getenv("EMAIL_ID"),
			Password:  os.Getenv("PASSWORD"),
			Recipient: os.Getenv("CONTACT_RECIPIENT"),
			Timeout:   DefaultMailTimeout,
		},
	}
}
