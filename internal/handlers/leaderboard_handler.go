package handlers

import (
	"net/http"
	"strconv"

	"memorymaster/internal/confusion"
	"memorymaster/internal/service"
)

// LeaderboardHandler serves the ranked leaderboard, percentile and
// statistics endpoints. All three are public.
type LeaderboardHandler struct {
	scoreService *service.ScoreService
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(scoreService *service.ScoreService) *LeaderboardHandler {
	return &LeaderboardHandler{scoreService: scoreService}
}

// parseModeParam validates the {mode} path value and returns its
// canonical name
func parseModeParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	mode, err := confusion.ParseMode(r.PathValue("mode"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrUnknownMode, "", nil)
		return "", false
	}
	return mode.String(), true
}

// Leaderboard returns the top ranked sessions for a mode
func (h *LeaderboardHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	mode, ok := parseModeParam(w, r)
	if !ok {
		return
	}

	entries, err := h.scoreService.Leaderboard(mode)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load leaderboard", err)
		return
	}
	if entries == nil {
		entries = []confusion.RankEntry{}
	}

	respondWithJSON(w, http.StatusOK, LeaderboardResponse{Mode: mode, Entries: entries})
}

// Percentile reports what share of stored sessions a points value beats
func (h *LeaderboardHandler) Percentile(w http.ResponseWriter, r *http.Request) {
	mode, ok := parseModeParam(w, r)
	if !ok {
		return
	}

	points, err := strconv.Atoi(r.URL.Query().Get("points"))
	if err != nil || points < 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid points value", "", nil)
		return
	}

	percentile, err := h.scoreService.Percentile(mode, points)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to compute percentile", err)
		return
	}

	respondWithJSON(w, http.StatusOK, PercentileResponse{
		Mode:       mode,
		Points:     points,
		Percentile: percentile,
	})
}

// Stats summarizes all stored sessions for a mode
func (h *LeaderboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	mode, ok := parseModeParam(w, r)
	if !ok {
		return
	}

	stats, err := h.scoreService.Stats(mode)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to compute stats", err)
		return
	}

	respondWithJSON(w, http.StatusOK, StatsResponse{Mode: mode, Stats: stats})
}
