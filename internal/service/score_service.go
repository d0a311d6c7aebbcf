package service

import (
	"fmt"

	"memorymaster/internal/confusion"
	"memorymaster/internal/models"
	"memorymaster/internal/repository"
)

// ScoreService persists finished sessions and answers leaderboard,
// percentile and statistics queries over the stored records
type ScoreService struct {
	recordRepo       *repository.RecordRepository
	leaderboardLimit int
}

// NewScoreService creates a new score service
func NewScoreService(recordRepo *repository.RecordRepository, leaderboardLimit int) *ScoreService {
	return &ScoreService{
		recordRepo:       recordRepo,
		leaderboardLimit: leaderboardLimit,
	}
}

// SaveReport persists a finished session for a player: one game record
// row, coins and stars accumulated onto the player, and the per-mode
// high score and games-played aggregate bumped. The bool reports
// whether the session set a new personal high score for the mode.
func (s *ScoreService) SaveReport(playerID int64, report *confusion.Report) (*models.GameRecord, bool, error) {
	rec := &models.GameRecord{
		PlayerID:          playerID,
		Mode:              report.Mode,
		TotalPoints:       report.TotalPoints,
		Score:             report.Score,
		WrongAnswers:      report.WrongAnswers,
		MaxCombo:          report.MaxCombo,
		AccuracyPct:       report.AccuracyPct,
		AvgReactionMs:     report.AvgReactionMs,
		FastestReactionMs: report.FastestReactionMs,
		SlowestReactionMs: report.SlowestReactionMs,
		Rating:            report.Rating,
		NumericalRating:   report.NumericalRating,
		DurationSeconds:   report.ElapsedSeconds,
		CoinsEarned:       report.Coins,
		StarsEarned:       report.Stars,
	}

	newHighScore, err := s.recordRepo.SaveSession(rec)
	if err != nil {
		return nil, false, err
	}

	return rec, newHighScore, nil
}

// Leaderboard ranks every stored session for a mode and returns the
// top entries. Percentiles are computed against the full population
// before truncation.
func (s *ScoreService) Leaderboard(mode string) ([]confusion.RankEntry, error) {
	records, err := s.loadRecords(mode)
	if err != nil {
		return nil, err
	}

	entries := confusion.Rank(records, mode)
	if len(entries) > s.leaderboardLimit {
		entries = entries[:s.leaderboardLimit]
	}
	return entries, nil
}

// Percentile reports what share of stored sessions a points value beats
func (s *ScoreService) Percentile(mode string, points int) (float64, error) {
	records, err := s.loadRecords(mode)
	if err != nil {
		return 0, err
	}
	return confusion.PercentileOf(records, points), nil
}

// Stats summarizes the stored sessions for a mode
func (s *ScoreService) Stats(mode string) (confusion.Stats, error) {
	records, err := s.loadRecords(mode)
	if err != nil {
		return confusion.Stats{}, err
	}
	return confusion.SummaryStats(records), nil
}

func (s *ScoreService) loadRecords(mode string) ([]confusion.Record, error) {
	rows, err := s.recordRepo.GetRecordsByMode(mode)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	records := make([]confusion.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, confusion.Record{
			Identity:       row.PlayerName,
			Mode:           row.Mode,
			TotalPoints:    row.TotalPoints,
			Correct:        row.Score,
			MaxCombo:       row.MaxCombo,
			AvgReactionMs:  row.AvgReactionMs,
			ElapsedSeconds: row.DurationSeconds,
			Rating:         row.Rating,
		})
	}
	return records, nil
}

// PlayerProgress retrieves all per-mode aggregates for a player
func (s *ScoreService) PlayerProgress(playerID int64) ([]models.PlayerProgress, error) {
	return s.recordRepo.GetPlayerProgress(playerID)
}

// RecentGames retrieves a player's most recent finished sessions
func (s *ScoreService) RecentGames(playerID int64, limit int) ([]models.GameRecord, error) {
	return s.recordRepo.GetPlayerRecords(playerID, limit)
}
