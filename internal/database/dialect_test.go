package database

import (
	"strings"
	"testing"
)

func TestDialectProperties(t *testing.T) {
	tests := []struct {
		name         string
		dialect      Dialect
		driver       string
		subdir       string
		lastInsertID bool
	}{
		{"sqlite", NewSQLiteDialect(), "sqlite3", "sqlite", true},
		{"postgres", NewPostgresDialect(), "postgres", "postgres", false},
		{"mysql", NewMySQLDialect(), "mysql", "mysql", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.DriverName(); got != tt.driver {
				t.Errorf("DriverName() = %q, want %q", got, tt.driver)
			}
			if got := tt.dialect.MigrationsSubdir(); got != tt.subdir {
				t.Errorf("MigrationsSubdir() = %q, want %q", got, tt.subdir)
			}
			if got := tt.dialect.SupportsLastInsertId(); got != tt.lastInsertID {
				t.Errorf("SupportsLastInsertId() = %v, want %v", got, tt.lastInsertID)
			}
		})
	}
}

func TestRewriteQuery(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{
			name:     "SQLite no change",
			dialect:  NewSQLiteDialect(),
			query:    "SELECT * FROM players WHERE id = ?",
			expected: "SELECT * FROM players WHERE id = ?",
		},
		{
			name:     "PostgreSQL single placeholder",
			dialect:  NewPostgresDialect(),
			query:    "SELECT * FROM players WHERE id = ?",
			expected: "SELECT * FROM players WHERE id = $1",
		},
		{
			name:     "PostgreSQL multiple placeholders",
			dialect:  NewPostgresDialect(),
			query:    "INSERT INTO players (name, email) VALUES (?, ?)",
			expected: "INSERT INTO players (name, email) VALUES ($1, $2)",
		},
		{
			name:     "PostgreSQL no placeholders",
			dialect:  NewPostgresDialect(),
			query:    "SELECT COUNT(*) FROM players",
			expected: "SELECT COUNT(*) FROM players",
		},
		{
			name:     "MySQL no change",
			dialect:  NewMySQLDialect(),
			query:    "UPDATE players SET coins = ?, stars = ? WHERE id = ?",
			expected: "UPDATE players SET coins = ?, stars = ? WHERE id = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.dialect.RewriteQuery(tt.query)
			if result != tt.expected {
				t.Errorf("RewriteQuery() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestNumberPlaceholdersDoubleDigit(t *testing.T) {
	query := strings.Repeat("?, ", 11) + "?"
	got := numberPlaceholders(query)
	if !strings.HasSuffix(got, "$12") {
		t.Errorf("numberPlaceholders(12 marks) ends with %q, want $12", got[len(got)-4:])
	}
}

func TestUpsertProgressQueryPlaceholders(t *testing.T) {
	dialects := []struct {
		name    string
		dialect Dialect
	}{
		{"sqlite", NewSQLiteDialect()},
		{"postgres", NewPostgresDialect()},
		{"mysql", NewMySQLDialect()},
	}

	// Every dialect binds player_id, mode and high_score
	for _, d := range dialects {
		t.Run(d.name, func(t *testing.T) {
			query := d.dialect.UpsertProgressQuery()
			if got := strings.Count(query, "?"); got != 3 {
				t.Errorf("UpsertProgressQuery() has %d placeholders, want 3", got)
			}
			if !strings.Contains(query, "player_progress") {
				t.Error("UpsertProgressQuery() does not target player_progress")
			}
		})
	}
}
