package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"memorymaster/internal/database"
)

// backupFormatVersion is stamped into every export so a future importer
// can tell snapshots apart.
const backupFormatVersion = "1.0"

// BackupData is the snapshot format: every table serialized in full,
// players first so foreign keys resolve on restore.
type BackupData struct {
	Version    string           `json:"version"`
	ExportedAt time.Time        `json:"exported_at"`
	Players    []PlayerBackup   `json:"players"`
	Records    []RecordBackup   `json:"records"`
	Progress   []ProgressBackup `json:"progress"`
}

// PlayerBackup mirrors one row of the players table.
type PlayerBackup struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	GoogleID     string    `json:"google_id"`
	IsGuest      bool      `json:"is_guest"`
	Coins        int       `json:"coins"`
	Stars        int       `json:"stars"`
	CreatedAt    time.Time `json:"created_at"`
	LastLoginAt  time.Time `json:"last_login_at"`
}

// RecordBackup mirrors one row of the game_records table.
type RecordBackup struct {
	ID                int64     `json:"id"`
	PlayerID          int64     `json:"player_id"`
	Mode              string    `json:"mode"`
	TotalPoints       int       `json:"total_points"`
	Score             int       `json:"score"`
	WrongAnswers      int       `json:"wrong_answers"`
	MaxCombo          int       `json:"max_combo"`
	AccuracyPct       float64   `json:"accuracy_pct"`
	AvgReactionMs     float64   `json:"avg_reaction_ms"`
	FastestReactionMs int       `json:"fastest_reaction_ms"`
	SlowestReactionMs int       `json:"slowest_reaction_ms"`
	Rating            string    `json:"rating"`
	NumericalRating   float64   `json:"numerical_rating"`
	DurationSeconds   float64   `json:"duration_seconds"`
	CoinsEarned       int       `json:"coins_earned"`
	StarsEarned       int       `json:"stars_earned"`
	CreatedAt         time.Time `json:"created_at"`
}

// ProgressBackup mirrors one row of the player_progress table.
type ProgressBackup struct {
	PlayerID    int64     `json:"player_id"`
	Mode        string    `json:"mode"`
	HighScore   int       `json:"high_score"`
	GamesPlayed int       `json:"games_played"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BackupService serializes the whole database to JSON and back.
type BackupService struct {
	db *database.DB
}

func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export writes a full snapshot to outputPath.
func (s *BackupService) Export(outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outputPath, err)
	}
	defer file.Close()
	return s.ExportToWriter(file)
}

// ExportToWriter writes a snapshot as indented JSON.
func (s *BackupService) ExportToWriter(w io.Writer) error {
	backup, err := s.snapshot()
	if err != nil {
		return err
	}

	log.Printf("Exporting %d players, %d records, %d progress rows",
		len(backup.Players), len(backup.Records), len(backup.Progress))

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(backup)
}

func (s *BackupService) snapshot() (*BackupData, error) {
	backup := &BackupData{
		Version:    backupFormatVersion,
		ExportedAt: time.Now(),
	}

	err := s.eachRow(
		"SELECT id, name, COALESCE(email, ''), password_hash, COALESCE(google_id, ''), is_guest, coins, stars, created_at, last_login_at FROM players ORDER BY id",
		func(rows *sql.Rows) error {
			var p PlayerBackup
			if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.PasswordHash, &p.GoogleID, &p.IsGuest, &p.Coins, &p.Stars, &p.CreatedAt, &p.LastLoginAt); err != nil {
				return err
			}
			backup.Players = append(backup.Players, p)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("export players: %w", err)
	}

	err = s.eachRow(
		`SELECT id, player_id, mode, total_points, score, wrong_answers, max_combo,
		accuracy_pct, avg_reaction_ms, fastest_reaction_ms, slowest_reaction_ms,
		rating, numerical_rating, duration_seconds, coins_earned, stars_earned, created_at
		FROM game_records ORDER BY id`,
		func(rows *sql.Rows) error {
			var r RecordBackup
			if err := rows.Scan(&r.ID, &r.PlayerID, &r.Mode, &r.TotalPoints, &r.Score, &r.WrongAnswers, &r.MaxCombo,
				&r.AccuracyPct, &r.AvgReactionMs, &r.FastestReactionMs, &r.SlowestReactionMs,
				&r.Rating, &r.NumericalRating, &r.DurationSeconds, &r.CoinsEarned, &r.StarsEarned, &r.CreatedAt); err != nil {
				return err
			}
			backup.Records = append(backup.Records, r)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("export records: %w", err)
	}

	err = s.eachRow(
		"SELECT player_id, mode, high_score, games_played, updated_at FROM player_progress ORDER BY player_id, mode",
		func(rows *sql.Rows) error {
			var p ProgressBackup
			if err := rows.Scan(&p.PlayerID, &p.Mode, &p.HighScore, &p.GamesPlayed, &p.UpdatedAt); err != nil {
				return err
			}
			backup.Progress = append(backup.Progress, p)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("export progress: %w", err)
	}

	return backup, nil
}

// eachRow runs query and hands every result row to scan.
func (s *BackupService) eachRow(query string, scan func(*sql.Rows) error) error {
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Import restores the database from a snapshot file.
func (s *BackupService) Import(inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", inputPath, err)
	}
	defer file.Close()
	return s.ImportFromReader(file)
}

// ImportFromReader decodes a snapshot and inserts every row as-is.
// Clashing IDs make the insert fail, so a clean restore clears the
// tables first.
func (s *BackupService) ImportFromReader(r io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return fmt.Errorf("decode backup: %w", err)
	}

	log.Printf("Restoring snapshot version %s exported at %s",
		backup.Version, backup.ExportedAt.Format(time.RFC3339))

	if err := s.restorePlayers(backup.Players); err != nil {
		return err
	}
	if err := s.restoreRecords(backup.Records); err != nil {
		return err
	}
	return s.restoreProgress(backup.Progress)
}

func (s *BackupService) restorePlayers(players []PlayerBackup) error {
	log.Printf("Restoring %d players", len(players))
	for _, p := range players {
		_, err := s.db.Exec(
			"INSERT INTO players (id, name, email, password_hash, google_id, is_guest, coins, stars, created_at, last_login_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			p.ID, p.Name, nullable(p.Email), p.PasswordHash, nullable(p.GoogleID), p.IsGuest, p.Coins, p.Stars, p.CreatedAt, p.LastLoginAt)
		if err != nil {
			return fmt.Errorf("restore player %d: %w", p.ID, err)
		}
	}
	return nil
}

func (s *BackupService) restoreRecords(records []RecordBackup) error {
	log.Printf("Restoring %d game records", len(records))
	for _, r := range records {
		_, err := s.db.Exec(
			`INSERT INTO game_records (id, player_id, mode, total_points, score, wrong_answers, max_combo,
			accuracy_pct, avg_reaction_ms, fastest_reaction_ms, slowest_reaction_ms,
			rating, numerical_rating, duration_seconds, coins_earned, stars_earned, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.PlayerID, r.Mode, r.TotalPoints, r.Score, r.WrongAnswers, r.MaxCombo,
			r.AccuracyPct, r.AvgReactionMs, r.FastestReactionMs, r.SlowestReactionMs,
			r.Rating, r.NumericalRating, r.DurationSeconds, r.CoinsEarned, r.StarsEarned, r.CreatedAt)
		if err != nil {
			return fmt.Errorf("restore record %d: %w", r.ID, err)
		}
	}
	return nil
}

func (s *BackupService) restoreProgress(progress []ProgressBackup) error {
	log.Printf("Restoring %d progress rows", len(progress))
	for _, p := range progress {
		_, err := s.db.Exec(
			"INSERT INTO player_progress (player_id, mode, high_score, games_played, updated_at) VALUES (?, ?, ?, ?, ?)",
			p.PlayerID, p.Mode, p.HighScore, p.GamesPlayed, p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("restore progress for player %d mode %s: %w", p.PlayerID, p.Mode, err)
		}
	}
	return nil
}

// nullable maps empty strings back to NULL so the unique indexes on
// email and google_id stay usable after a restore.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
