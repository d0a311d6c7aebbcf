package database

import (
	"database/sql"

	_ "github.com/lib/pq"
)

// PostgresDialect connects via DATABASE_URL.
type PostgresDialect struct{}

func NewPostgresDialect() *PostgresDialect { return &PostgresDialect{} }

func (d *PostgresDialect) DriverName() string { return "postgres" }

func (d *PostgresDialect) DSN(config DialectConfig) string { return config.URL }

// PostgreSQL wants numbered placeholders.
func (d *PostgresDialect) RewriteQuery(query string) string {
	return numberPlaceholders(query)
}

// lib/pq cannot report LastInsertId; inserts go through RETURNING.
func (d *PostgresDialect) SupportsLastInsertId() bool { return false }

func (d *PostgresDialect) ConfigureConnection(db *sql.DB) error {
	tunePool(db)
	return nil
}

func (d *PostgresDialect) MigrationsSubdir() string { return "postgres" }

func (d *PostgresDialect) CreateMigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS migrations (
			id BIGSERIAL PRIMARY KEY,
			filename TEXT UNIQUE NOT NULL,
			applied_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);
	`
}

func (d *PostgresDialect) UpsertProgressQuery() string {
	return `
		INSERT INTO player_progress (player_id, mode, high_score, games_played, updated_at)
		VALUES (?, ?, ?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT (player_id, mode) DO UPDATE SET
			high_score = GREATEST(player_progress.high_score, EXCLUDED.high_score),
			games_played = player_progress.games_played + 1,
			updated_at = CURRENT_TIMESTAMP
	`
}
