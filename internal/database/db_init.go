// Package database provides sqlite persistence for Bamboo Blogs
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver
)

// Sentinel errors surfaced to callers. Match with errors.Is.
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrDuplicateTitle = errors.New("post title already exists")
)

// Database wraps the main sqlite connection
type Database struct {
	mainDB   *sql.DB
	dbconfig *DBConfig

	StopChan chan struct{} // Channel to signal shutdown
}

// DBConfig represents database configuration
type DBConfig struct {
	// Path to the sqlite database file
	MainDB string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// Performance settings
	WALMode   bool   // Write-Ahead Logging
	SyncMode  string // OFF, NORMAL, FULL
	CacheSize int    // KB (negative value per sqlite convention)
}

// DefaultDBConfig returns default database configuration
func DefaultDBConfig() *DBConfig {
	return &DBConfig{
		MainDB:          "data/bamboo-blogs.sq3",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 0, // Unlimited for SQLite
		WALMode:         true,
		SyncMode:        "NORMAL",
		CacheSize:       -16384, // 16MB cache
	}
}

// OpenDatabase opens (creating if needed) the main database and applies migrations
func OpenDatabase(dbconfig *DBConfig) (*Database, error) {
	if dbconfig == nil {
		dbconfig = DefaultDBConfig()
	}

	if dir := filepath.Dir(dbconfig.MainDB); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db := &Database{
		dbconfig: dbconfig,
		StopChan: make(chan struct{}),
	}

	if err := db.initMainDB(); err != nil {
		return nil, fmt.Errorf("failed to initialize main database: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.mainDB.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	return db, nil
}

// initMainDB opens the sqlite file and applies connection settings.
// Pragmas that must hold on every pooled connection (foreign keys for the
// comment cascade, journal and sync modes) travel in the DSN.
func (db *Database) initMainDB() error {
	journalMode := "DELETE"
	if db.dbconfig.WALMode {
		journalMode = "WAL"
	}
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=%s&_synchronous=%s&_busy_timeout=5000",
		db.dbconfig.MainDB, journalMode, db.dbconfig.SyncMode)

	mainDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database %s: %w", db.dbconfig.MainDB, err)
	}

	mainDB.SetMaxOpenConns(db.dbconfig.MaxOpenConns)
	mainDB.SetMaxIdleConns(db.dbconfig.MaxIdleConns)
	mainDB.SetConnMaxLifetime(db.dbconfig.ConnMaxLifetime)

	if _, err := mainDB.Exec(fmt.Sprintf("PRAGMA cache_size = %d", db.dbconfig.CacheSize)); err != nil {
		mainDB.Close()
		return fmt.Errorf("failed to apply cache_size pragma: %w", err)
	}

	db.mainDB = mainDB
	return nil
}

// GetMainDB returns the main database connection for direct access.
// This should only be used by specialized tools and tests.
func (db *Database) GetMainDB() *sql.DB {
	return db.mainDB
}

// Shutdown closes the database and stops background tasks
func (db *Database) Shutdown() error {
	select {
	case <-db.StopChan:
		// already closed
	default:
		close(db.StopChan)
	}
	if db.mainDB != nil {
		if err := db.mainDB.Close(); err != nil {
			log.Printf("Failed to close main database: %v", err)
			return err
		}
	}
	return nil
}
