package handlers

import (
	"time"

	"memorymaster/internal/confusion"
	"memorymaster/internal/models"
)

// PlayerView is the public JSON shape of a player account
type PlayerView struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	IsGuest   bool      `json:"is_guest"`
	Coins     int       `json:"coins"`
	Stars     int       `json:"stars"`
	CreatedAt time.Time `json:"created_at"`
}

func newPlayerView(p *models.Player) PlayerView {
	return PlayerView{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		IsGuest:   p.IsGuest,
		Coins:     p.Coins,
		Stars:     p.Stars,
		CreatedAt: p.CreatedAt,
	}
}

// AuthResponse pairs a signed token with the player it identifies
type AuthResponse struct {
	Token  string     `json:"token"`
	Player PlayerView `json:"player"`
}

// ProgressView is one per-mode lifetime aggregate for a player
type ProgressView struct {
	Mode        string    `json:"mode"`
	HighScore   int       `json:"high_score"`
	GamesPlayed int       `json:"games_played"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newProgressViews(progress []models.PlayerProgress) []ProgressView {
	views := make([]ProgressView, 0, len(progress))
	for _, p := range progress {
		views = append(views, ProgressView{
			Mode:        p.Mode,
			HighScore:   p.HighScore,
			GamesPlayed: p.GamesPlayed,
			UpdatedAt:   p.UpdatedAt,
		})
	}
	return views
}

// RecordView is one finished session as shown on a player's history
type RecordView struct {
	ID              int64     `json:"id"`
	Mode            string    `json:"mode"`
	TotalPoints     int       `json:"total_points"`
	Score           int       `json:"score"`
	WrongAnswers    int       `json:"wrong_answers"`
	MaxCombo        int       `json:"max_combo"`
	AccuracyPct     float64   `json:"accuracy_pct"`
	AvgReactionMs   float64   `json:"avg_reaction_ms"`
	Rating          string    `json:"rating"`
	NumericalRating float64   `json:"numerical_rating"`
	DurationSeconds float64   `json:"duration_seconds"`
	CoinsEarned     int       `json:"coins_earned"`
	StarsEarned     int       `json:"stars_earned"`
	CreatedAt       time.Time `json:"created_at"`
}

func newRecordViews(records []models.GameRecord) []RecordView {
	views := make([]RecordView, 0, len(records))
	for _, r := range records {
		views = append(views, RecordView{
			ID:              r.ID,
			Mode:            r.Mode,
			TotalPoints:     r.TotalPoints,
			Score:           r.Score,
			WrongAnswers:    r.WrongAnswers,
			MaxCombo:        r.MaxCombo,
			AccuracyPct:     r.AccuracyPct,
			AvgReactionMs:   r.AvgReactionMs,
			Rating:          r.Rating,
			NumericalRating: r.NumericalRating,
			DurationSeconds: r.DurationSeconds,
			CoinsEarned:     r.CoinsEarned,
			StarsEarned:     r.StarsEarned,
			CreatedAt:       r.CreatedAt,
		})
	}
	return views
}

// ProfileResponse is the authenticated player's account plus their
// per-mode aggregates and latest sessions
type ProfileResponse struct {
	Player      PlayerView     `json:"player"`
	Progress    []ProgressView `json:"progress"`
	RecentGames []RecordView   `json:"recent_games"`
}

// StartGameResponse returns the new session key with its first question
type StartGameResponse struct {
	SessionID string             `json:"session_id"`
	Mode      string             `json:"mode"`
	Question  confusion.Question `json:"question"`
}

// QuestionResponse wraps a freshly dealt question
type QuestionResponse struct {
	Question confusion.Question `json:"question"`
}

// GameFinishedView carries the final report together with how it was
// persisted. Saved is false when the report could not be stored.
type GameFinishedView struct {
	Report       confusion.Report `json:"report"`
	RecordID     int64            `json:"record_id,omitempty"`
	NewHighScore bool             `json:"new_high_score"`
	Saved        bool             `json:"saved"`
}

// AnswerResponse is the running outcome for a processed answer.
// Finished is set only on the answer that ends the session.
type AnswerResponse struct {
	confusion.AnswerOutcome
	Finished *GameFinishedView `json:"finished,omitempty"`
}

// LeaderboardResponse is the ranked top of one mode's leaderboard
type LeaderboardResponse struct {
	Mode    string                `json:"mode"`
	Entries []confusion.RankEntry `json:"entries"`
}

// PercentileResponse reports where a points value lands in a mode
type PercentileResponse struct {
	Mode       string  `json:"mode"`
	Points     int     `json:"points"`
	Percentile float64 `json:"percentile"`
}

// StatsResponse summarizes all stored sessions for a mode
type StatsResponse struct {
	Mode string `json:"mode"`
	confusion.Stats
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	Status        string `json:"status"`
	Database      string `json:"database"`
	ActiveGames   int    `json:"active_games"`
	UptimeSeconds int    `json:"uptime_seconds"`
}
