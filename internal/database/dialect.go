package database

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// Dialect abstracts over the differences between the supported
// databases: driver registration, placeholder style, insert-id
// retrieval, upsert syntax and migration bookkeeping.
type Dialect interface {
	DriverName() string
	DSN(config DialectConfig) string

	// RewriteQuery converts the ? placeholders queries are written
	// with into the dialect's native style.
	RewriteQuery(query string) string

	// SupportsLastInsertId distinguishes drivers that report the new
	// row id on the result from PostgreSQL's RETURNING clause.
	SupportsLastInsertId() bool

	ConfigureConnection(db *sql.DB) error
	MigrationsSubdir() string
	CreateMigrationsTableQuery() string

	// UpsertProgressQuery is the insert-or-update statement for
	// player_progress: keeps the higher high_score and increments
	// games_played. Placeholders: player_id, mode, high_score.
	UpsertProgressQuery() string
}

// DialectConfig carries the connection target: Path for SQLite, URL
// for PostgreSQL and MySQL.
type DialectConfig struct {
	Path string
	URL  string
}

// numberPlaceholders turns ? placeholders into $1, $2, ...
func numberPlaceholders(query string) string {
	var b strings.Builder
	b.Grow(len(query))
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// tunePool applies the shared connection-pool settings.
func tunePool(db *sql.DB) {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(time.Minute)
}
