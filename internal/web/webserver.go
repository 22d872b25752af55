// Package web provides the HTTP server and web interface for Bamboo Blogs
package web

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"

	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/cache"
	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/config"
	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/database"
	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/mail"
)

// How long the front page listing may be served from memory
const postCacheMaxAge = 5 * time.Minute

// WebServer represents the web server
type WebServer struct {
	DB        *database.Database
	Router    *gin.Engine
	Config    *config.WebConfig
	Mailer    *mail.Mailer
	PostCache *cache.PostCache
	StartTime time.Time // Track server start time for uptime calculations
}

// NewServer creates a new web server instance
func NewServer(db *database.Database, webconfig *config.WebConfig, mailer *mail.Mailer) *WebServer {
	// Set Gin to release mode for production
	if !webconfig.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Trust common reverse proxy setups (nginx, etc.)
	router.SetTrustedProxies([]string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})

	// Configure security headers based on SSL setup
	secureConfig := secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}

	// Only add SSL-specific headers if SSL is enabled on the application
	// itself (not when running behind a reverse proxy with SSL)
	if webconfig.SSL {
		secureConfig.SSLRedirect = true
		secureConfig.STSSeconds = 31536000
		secureConfig.STSIncludeSubdomains = true
	}

	router.Use(secure.New(secureConfig))

	server := &WebServer{
		DB:        db,
		Router:    router,
		Config:    webconfig,
		Mailer:    mailer,
		PostCache: cache.NewPostCache(postCacheMaxAge),
	}

	// Handle X-Forwarded headers when running behind a reverse proxy
	router.Use(server.ReverseProxyMiddleware())

	server.setupRoutes()

	// Sweep expired sessions in the background
	go server.sessionCleanupLoop()

	return server
}

// setupRoutes configures all HTTP routes
func (s *WebServer) setupRoutes() {
	// Static files first (highest priority)
	s.Router.Static("/static", "./"+s.Config.StaticDir)

	s.Router.GET("/robots.txt", func(c *gin.Context) {
		c.String(http.StatusOK, "User-agent: *\nDisallow:\n")
	})
	s.Router.GET("/ping", func(c *gin.Context) {
		c.String(200, "pong")
	})

	// Authentication routes
	s.Router.GET("/login", s.loginPage)
	s.Router.POST("/login", s.loginSubmit)
	s.Router.GET("/register", s.registerPage)
	s.Router.POST("/register", s.registerSubmit)
	s.Router.GET("/logout", s.logout)

	// Public content routes
	s.Router.GET("/", s.homePage)
	s.Router.GET("/post/:id", s.postPage)
	s.Router.POST("/post/:id", s.postCommentSubmit)
	s.Router.GET("/about", s.aboutPage)
	s.Router.GET("/contact", s.contactPage)
	s.Router.POST("/contact", s.contactSubmit)

	// Authoring routes (admin only)
	admin := s.Router.Group("/")
	admin.Use(s.WebAdminRequired())
	{
		admin.GET("/new-post", s.newPostPage)
		admin.POST("/new-post", s.newPostSubmit)
		admin.GET("/edit-post/:id", s.editPostPage)
		admin.POST("/edit-post/:id", s.editPostSubmit)
		admin.GET("/delete/:id", s.deletePost)
	}
}

// Start starts the web server with SSL support if configured
func (s *WebServer) Start() error {
	addr := ":" + strconv.Itoa(s.Config.ListenPort)
	s.StartTime = time.Now() // Set the start time for uptime calculations
	if s.Config.SSL {
		if s.Config.CertFile == "" || s.Config.KeyFile == "" {
			return errors.New("SSL enabled but cert_file or key_file not specified in config")
		}
		log.Printf("Starting HTTPS server on %s", addr)
		return s.Router.RunTLS(addr, s.Config.CertFile, s.Config.KeyFile)
	}
	log.Printf("Starting HTTP server on %s", addr)
	return s.Router.Run(addr)
}

// GetPort returns the listening port from the config
func (s *WebServer) GetPort() int {
	return s.Config.ListenPort
}

// ReverseProxyMiddleware handles X-Forwarded headers when running behind a reverse proxy
func (s *WebServer) ReverseProxyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Handle X-Forwarded-Proto to detect if the original request was HTTPS
		if proto := c.GetHeader("X-Forwarded-Proto"); proto == "https" {
			c.Request.URL.Scheme = "https"
		}

		// Handle X-Forwarded-For to get the real client IP
		if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
			// Take the first IP from the list (original client)
			ips := strings.Split(xff, ",")
			if len(ips) > 0 {
				clientIP := strings.TrimSpace(ips[0])
				c.Request.RemoteAddr = clientIP + ":0"
			}
		}

		// Handle X-Real-IP as an alternative
		if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
			c.Request.RemoteAddr = realIP + ":0"
		}

		// Handle X-Forwarded-Host to get the original host
		if host := c.GetHeader("X-Forwarded-Host"); host != "" {
			c.Request.Host = host
		}

		c.Next()
	}
}

func (s *WebServer) ApacheLogFormat() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf(`%s - - [%s] "%s %s %s" %d %d "%s" "%s"`+"\n",
			param.ClientIP,
			param.TimeStamp.Format("02/Jan/2006:15:04:05 -0700"),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.BodySize,
			param.Request.Referer(),
			param.Request.UserAgent(),
		)
	})
}
