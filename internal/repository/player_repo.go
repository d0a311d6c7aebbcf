package repository

import (
	"database/sql"
	"fmt"
	"time"

	"memorymaster/internal/database"
	"memorymaster/internal/models"
)

// PlayerRepository handles database operations for player accounts
type PlayerRepository struct {
	db *database.DB
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *database.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// nullable converts an empty string to NULL so UNIQUE columns do not
// collide on ""
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// CreatePlayer inserts a new player. Email and googleID may be empty
// for guest accounts, passwordHash may be empty for OAuth and guest
// accounts.
func (r *PlayerRepository) CreatePlayer(name, email, passwordHash, googleID string, isGuest bool) (*models.Player, error) {
	query := `
		INSERT INTO players (name, email, password_hash, google_id, is_guest)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, name, nullable(email), passwordHash, nullable(googleID), isGuest)
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	player := &models.Player{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		GoogleID:     googleID,
		IsGuest:      isGuest,
		CreatedAt:    time.Now(),
		LastLoginAt:  time.Now(),
	}

	return player, nil
}

// GetPlayerByEmail retrieves a player by email address
func (r *PlayerRepository) GetPlayerByEmail(email string) (*models.Player, error) {
	query := `
		SELECT id, name, COALESCE(email, ''), password_hash, COALESCE(google_id, ''), is_guest, coins, stars, created_at, last_login_at
		FROM players
		WHERE email = ?
	`
	return r.scanPlayer(r.db.QueryRow(query, email))
}

// GetPlayerByID retrieves a player by ID
func (r *PlayerRepository) GetPlayerByID(id int64) (*models.Player, error) {
	query := `
		SELECT id, name, COALESCE(email, ''), password_hash, COALESCE(google_id, ''), is_guest, coins, stars, created_at, last_login_at
		FROM players
		WHERE id = ?
	`
	return r.scanPlayer(r.db.QueryRow(query, id))
}

// GetPlayerByGoogleID retrieves a player by Google account ID
func (r *PlayerRepository) GetPlayerByGoogleID(googleID string) (*models.Player, error) {
	query := `
		SELECT id, name, COALESCE(email, ''), password_hash, COALESCE(google_id, ''), is_guest, coins, stars, created_at, last_login_at
		FROM players
		WHERE google_id = ?
	`
	return r.scanPlayer(r.db.QueryRow(query, googleID))
}

func (r *PlayerRepository) scanPlayer(row *sql.Row) (*models.Player, error) {
	player := &models.Player{}
	err := row.Scan(
		&player.ID,
		&player.Name,
		&player.Email,
		&player.PasswordHash,
		&player.GoogleID,
		&player.IsGuest,
		&player.Coins,
		&player.Stars,
		&player.CreatedAt,
		&player.LastLoginAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

// UpdateLastLogin stamps the player's last login time
func (r *PlayerRepository) UpdateLastLogin(id int64) error {
	query := "UPDATE players SET last_login_at = ? WHERE id = ?"
	_, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// LinkGoogleAccount attaches a Google account ID to an existing player.
// Fails if the player already has a different Google account linked.
func (r *PlayerRepository) LinkGoogleAccount(playerID int64, googleID string) error {
	query := `
		UPDATE players
		SET google_id = ?
		WHERE id = ?
		AND google_id IS NULL
	`
	result, err := r.db.Exec(query, googleID, playerID)
	if err != nil {
		return fmt.Errorf("failed to link google account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read link result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("google account already linked")
	}

	return nil
}

