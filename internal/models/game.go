package models

import "time"

// GameRecord is one finished game session. The leaderboard and the
// statistics endpoints are computed over these rows.
type GameRecord struct {
	ID                int64
	PlayerID          int64
	PlayerName        string // joined from players on list queries
	Mode              string
	TotalPoints       int
	Score             int
	WrongAnswers      int
	MaxCombo          int
	AccuracyPct       float64
	AvgReactionMs     float64
	FastestReactionMs int
	SlowestReactionMs int
	Rating            string
	NumericalRating   float64
	DurationSeconds   float64
	CoinsEarned       int
	StarsEarned       int
	CreatedAt         time.Time
}

// PlayerProgress tracks a player's lifetime aggregate for one mode
type PlayerProgress struct {
	ID          int64
	PlayerID    int64
	Mode        string
	HighScore   int
	GamesPlayed int
	UpdatedAt   time.Time
}

// IsHighScore reports whether points beats the stored high score
func (p *PlayerProgress) IsHighScore(points int) bool {
	return points > p.HighScore
}
