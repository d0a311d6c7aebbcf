package repository

import (
	"database/sql"
	"fmt"

	"memorymaster/internal/database"
	"memorymaster/internal/models"
)

// RecordRepository handles database operations for finished game
// sessions and per-mode progress aggregates
type RecordRepository struct {
	db *database.DB
}

// NewRecordRepository creates a new record repository
func NewRecordRepository(db *database.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// SaveSession persists a finished game session atomically: the record
// row, the player's earned coins and stars, and the per-mode progress
// aggregate. The record's ID is set on success. The bool reports
// whether the session set a new high score for the mode.
func (r *RecordRepository) SaveSession(rec *models.GameRecord) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO game_records (
			player_id, mode, total_points, score, wrong_answers, max_combo,
			accuracy_pct, avg_reaction_ms, fastest_reaction_ms, slowest_reaction_ms,
			rating, numerical_rating, duration_seconds, coins_earned, stars_earned
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := tx.ExecReturningID(query,
		rec.PlayerID,
		rec.Mode,
		rec.TotalPoints,
		rec.Score,
		rec.WrongAnswers,
		rec.MaxCombo,
		rec.AccuracyPct,
		rec.AvgReactionMs,
		rec.FastestReactionMs,
		rec.SlowestReactionMs,
		rec.Rating,
		rec.NumericalRating,
		rec.DurationSeconds,
		rec.CoinsEarned,
		rec.StarsEarned,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create game record: %w", err)
	}

	if rec.CoinsEarned > 0 || rec.StarsEarned > 0 {
		query = "UPDATE players SET coins = coins + ?, stars = stars + ? WHERE id = ?"
		if _, err := tx.Exec(query, rec.CoinsEarned, rec.StarsEarned, rec.PlayerID); err != nil {
			return false, fmt.Errorf("failed to add rewards: %w", err)
		}
	}

	newHighScore := true
	prev := &models.PlayerProgress{}
	query = "SELECT high_score FROM player_progress WHERE player_id = ? AND mode = ?"
	err = tx.QueryRow(query, rec.PlayerID, rec.Mode).Scan(&prev.HighScore)
	if err != nil && err != sql.ErrNoRows {
		return false, fmt.Errorf("failed to get progress: %w", err)
	}
	if err == nil {
		newHighScore = prev.IsHighScore(rec.TotalPoints)
	}

	query = tx.GetDialect().UpsertProgressQuery()
	if _, err := tx.Exec(query, rec.PlayerID, rec.Mode, rec.TotalPoints); err != nil {
		return false, fmt.Errorf("failed to upsert progress: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	rec.ID = id
	return newHighScore, nil
}

const recordColumns = `
	r.id, r.player_id, p.name, r.mode, r.total_points, r.score, r.wrong_answers,
	r.max_combo, r.accuracy_pct, r.avg_reaction_ms, r.fastest_reaction_ms,
	r.slowest_reaction_ms, r.rating, r.numerical_rating, r.duration_seconds,
	r.coins_earned, r.stars_earned, r.created_at
`

// GetRecordsByMode retrieves every finished session for one mode with
// the player name joined in. The ranker computes percentiles over the
// whole population, so there is no limit here.
func (r *RecordRepository) GetRecordsByMode(mode string) ([]models.GameRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM game_records r
		JOIN players p ON p.id = r.player_id
		WHERE r.mode = ?
		ORDER BY r.created_at ASC
	`
	rows, err := r.db.Query(query, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// GetAllRecords retrieves every finished session across all modes
func (r *RecordRepository) GetAllRecords() ([]models.GameRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM game_records r
		JOIN players p ON p.id = r.player_id
		ORDER BY r.created_at ASC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// GetPlayerRecords retrieves a player's most recent sessions
func (r *RecordRepository) GetPlayerRecords(playerID int64, limit int) ([]models.GameRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM game_records r
		JOIN players p ON p.id = r.player_id
		WHERE r.player_id = ?
		ORDER BY r.created_at DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query player records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]models.GameRecord, error) {
	var records []models.GameRecord
	for rows.Next() {
		var rec models.GameRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.PlayerID,
			&rec.PlayerName,
			&rec.Mode,
			&rec.TotalPoints,
			&rec.Score,
			&rec.WrongAnswers,
			&rec.MaxCombo,
			&rec.AccuracyPct,
			&rec.AvgReactionMs,
			&rec.FastestReactionMs,
			&rec.SlowestReactionMs,
			&rec.Rating,
			&rec.NumericalRating,
			&rec.DurationSeconds,
			&rec.CoinsEarned,
			&rec.StarsEarned,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// GetPlayerProgress retrieves all per-mode aggregates for a player
func (r *RecordRepository) GetPlayerProgress(playerID int64) ([]models.PlayerProgress, error) {
	query := `
		SELECT id, player_id, mode, high_score, games_played, updated_at
		FROM player_progress
		WHERE player_id = ?
		ORDER BY mode ASC
	`
	rows, err := r.db.Query(query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress: %w", err)
	}
	defer rows.Close()

	var entries []models.PlayerProgress
	for rows.Next() {
		var progress models.PlayerProgress
		if err := rows.Scan(
			&progress.ID,
			&progress.PlayerID,
			&progress.Mode,
			&progress.HighScore,
			&progress.GamesPlayed,
			&progress.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		entries = append(entries, progress)
	}

	return entries, rows.Err()
}
