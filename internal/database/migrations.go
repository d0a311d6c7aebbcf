package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
)

// RunMigrations brings the schema up to date for the active dialect.
// migrationsRoot holds one subdirectory per dialect (sqlite, postgres,
// mysql). Files are applied in filename order and recorded in the
// migrations table.
func (db *DB) RunMigrations(migrationsRoot string) error {
	if _, err := db.Exec(db.Dialect.CreateMigrationsTableQuery()); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	dir := filepath.Join(migrationsRoot, db.Dialect.MigrationsSubdir())
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to list migration files: %w", err)
	}
	sort.Strings(files)

	applied, err := db.appliedMigrations()
	if err != nil {
		return err
	}

	for _, file := range files {
		name := filepath.Base(file)
		if applied[name] {
			continue
		}
		if err := db.applyMigration(file); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
		log.Printf("Migration completed: %s", name)
	}
	return nil
}

// appliedMigrations returns the filenames already recorded.
func (db *DB) appliedMigrations() (map[string]bool, error) {
	rows, err := db.Query("SELECT filename FROM migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migration history: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

// applyMigration executes one file and records it. Each file holds a
// single statement so every driver accepts it in one Exec call.
func (db *DB) applyMigration(file string) error {
	content, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	if _, err := db.Exec(string(content)); err != nil {
		return err
	}
	_, err = db.Exec("INSERT INTO migrations (filename) VALUES (?)", filepath.Base(file))
	return err
}
