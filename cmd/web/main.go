// Web server entry point for Bamboo Blogs
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/config"
	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/database"
	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/mail"
	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/web"
)

var (
	// command-line flags
	webport     int
	webssl      bool
	webcertFile string
	webkeyFile  string
	dbPath      string
	debug       bool
	noSeed      bool
)

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion

	flag.IntVar(&webport, "webport", 0, "Web server port (default: 8080)")
	flag.BoolVar(&webssl, "webssl", false, "Enable SSL")
	flag.StringVar(&webcertFile, "websslcert", "", "SSL certificate file (/path/to/fullchain.pem)")
	flag.StringVar(&webkeyFile, "websslkey", "", "SSL key file (/path/to/privkey.pem)")
	flag.StringVar(&dbPath, "db", "", "Path to sqlite database file (default: data/bamboo-blogs.sq3)")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&noSeed, "noseed", false, "Skip seeding of default accounts and sample post")
	flag.Parse()

	// Mail credentials (EMAIL_ID / PASSWORD) come from the environment,
	// optionally via a .env file
	_ = godotenv.Load()

	mainConfig := config.NewDefaultConfig()
	if webport > 0 {
		mainConfig.Web.ListenPort = webport
	}
	mainConfig.Web.SSL = webssl
	mainConfig.Web.CertFile = webcertFile
	mainConfig.Web.KeyFile = webkeyFile
	mainConfig.Web.Debug = debug
	if dbPath != "" {
		mainConfig.Database.MainDB = dbPath
	}

	log.Printf("Bamboo Blogs web server (version: %s)", config.AppVersion)

	dbconfig := database.DefaultDBConfig()
	dbconfig.MainDB = mainConfig.Database.MainDB
	db, err := database.OpenDatabase(dbconfig)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Shutdown()

	// Seeding is an explicit startup step, never part of request handling
	if !noSeed {
		if err := db.SeedDefaults(); err != nil {
			log.Fatalf("Failed to seed default data: %v", err)
		}
	}

	if !mainConfig.Mail.Enabled() {
		log.Printf("[WARN] EMAIL_ID / PASSWORD not set: contact form delivery is disabled")
	}
	mailer := mail.NewMailer(mainConfig.Mail)

	server := web.NewServer(db, &mainConfig.Web, mailer)

	// Shut down the database cleanly on SIGINT/SIGTERM
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received signal %v, shutting down", sig)
		server.PostCache.Stop()
		db.Shutdown()
		os.Exit(0)
	}()

	if err := server.Start(); err != nil {
		log.Fatalf("Web server failed: %v", err)
	}
}
