package database

import (
	"embed"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var embeddedMigrationsFS embed.FS

// MigrationFile represents a migration file with its metadata
type MigrationFile struct {
	FileName    string
	Version     int
	Description string
}

// parseMigrationFileName parses a migration file name to extract metadata
func parseMigrationFileName(fileName string) (*MigrationFile, error) {
	if !strings.HasSuffix(fileName, ".sql") {
		return nil, fmt.Errorf("migration file must have .sql extension: %s", fileName)
	}

	name := strings.TrimSuffix(fileName, ".sql")
	parts := strings.SplitN(name, "_", 3)
	if len(parts) < 3 {
		return nil, fmt.Errorf("invalid migration file name format: %s (expected format: 0001_main_description.sql)", fileName)
	}

	version, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid version number in migration file: %s", fileName)
	}
	if parts[1] != "main" {
		return nil, fmt.Errorf("invalid database migration name: %s", fileName)
	}

	return &MigrationFile{
		FileName:    fileName,
		Version:     version,
		Description: parts[2],
	}, nil
}

// getMigrationFiles reads and parses all migration files from the embedded filesystem
func getMigrationFiles() ([]*MigrationFile, error) {
	entries, err := embeddedMigrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	var migrations []*MigrationFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		migration, err := parseMigrationFileName(entry.Name())
		if err != nil {
			return nil, err
		}
		migrations = append(migrations, migration)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// Migrate applies all pending database migrations
func (db *Database) Migrate() error {
	if _, err := db.mainDB.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	migrations, err := getMigrationFiles()
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		var applied int
		err := db.mainDB.QueryRow(`SELECT COUNT(*) FROM schema_migrations WHERE version = ?`,
			migration.Version).Scan(&applied)
		if err != nil {
			return fmt.Errorf("failed to check migration %d: %w", migration.Version, err)
		}
		if applied > 0 {
			continue
		}

		sqlBytes, err := embeddedMigrationsFS.ReadFile("migrations/" + migration.FileName)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", migration.FileName, err)
		}

		if _, err := db.mainDB.Exec(string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", migration.FileName, err)
		}
		if _, err := db.mainDB.Exec(`INSERT INTO schema_migrations (version, description) VALUES (?, ?)`,
			migration.Version, migration.Description); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
		log.Printf("Applied migration %04d_%s", migration.Version, migration.Description)
	}

	return nil
}
