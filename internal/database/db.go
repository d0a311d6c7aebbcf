package database

import (
	"database/sql"
	"fmt"
	"strings"

	"memorymaster/internal/config"
)

// DB is a dialect-aware connection handle. Queries are written with `?`
// placeholders and rewritten for the active dialect before execution.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open connects to the database selected by DATABASE_TYPE.
func Open(cfg *config.Config) (*DB, error) {
	switch strings.ToLower(cfg.DatabaseType) {
	case "postgres", "postgresql":
		return open(NewPostgresDialect(), DialectConfig{URL: cfg.DatabaseURL})
	case "mysql":
		return open(NewMySQLDialect(), DialectConfig{URL: cfg.DatabaseURL})
	case "sqlite", "sqlite3", "":
		return OpenSQLite(cfg.DatabasePath)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.DatabaseType)
	}
}

// OpenSQLite connects to a file-backed SQLite database.
func OpenSQLite(path string) (*DB, error) {
	return open(NewSQLiteDialect(), DialectConfig{Path: path})
}

func open(dialect Dialect, dc DialectConfig) (*DB, error) {
	db, err := sql.Open(dialect.DriverName(), dialect.DSN(dc))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect.DriverName(), err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect.DriverName(), err)
	}
	if err := dialect.ConfigureConnection(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure %s: %w", dialect.DriverName(), err)
	}
	return &DB{DB: db, Dialect: dialect}, nil
}

// GetDialect returns the active dialect.
func (db *DB) GetDialect() Dialect {
	return db.Dialect
}

// Query runs a query after placeholder rewriting.
func (db *DB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return db.DB.Query(db.Dialect.RewriteQuery(query), args...)
}

// QueryRow runs a single-row query after placeholder rewriting.
func (db *DB) QueryRow(query string, args ...interface{}) *sql.Row {
	return db.DB.QueryRow(db.Dialect.RewriteQuery(query), args...)
}

// Exec runs a statement after placeholder rewriting.
func (db *DB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return db.DB.Exec(db.Dialect.RewriteQuery(query), args...)
}

// ExecReturningID runs an INSERT and returns the new row's id.
func (db *DB) ExecReturningID(query string, args ...interface{}) (int64, error) {
	return execReturningID(db.DB, db.Dialect, query, args...)
}

// runner is the common execution surface of *sql.DB and *sql.Tx.
type runner interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// execReturningID bridges the LastInsertId split: MySQL and SQLite hand
// back the id on the result, PostgreSQL needs a RETURNING clause.
func execReturningID(r runner, dialect Dialect, query string, args ...interface{}) (int64, error) {
	query = dialect.RewriteQuery(query)

	if dialect.SupportsLastInsertId() {
		res, err := r.Exec(query, args...)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}

	query = strings.TrimSuffix(strings.TrimSpace(query), ";") + " RETURNING id"
	var id int64
	if err := r.QueryRow(query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
