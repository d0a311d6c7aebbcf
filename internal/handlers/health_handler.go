package handlers

import (
	"net/http"
	"time"

	"memorymaster/internal/database"
	"memorymaster/internal/service"
)

// HealthHandler reports database reachability and live session count
type HealthHandler struct {
	db          *database.DB
	gameService *service.GameService
	startedAt   time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.DB, gameService *service.GameService) *HealthHandler {
	return &HealthHandler{
		db:          db,
		gameService: gameService,
		startedAt:   time.Now(),
	}
}

// Health answers liveness probes
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:        "ok",
		Database:      "ok",
		ActiveGames:   h.gameService.ActiveGames(),
		UptimeSeconds: int(time.Since(h.startedAt).Seconds()),
	}
	status := http.StatusOK

	if err := h.db.Ping(); err != nil {
		resp.Status = "degraded"
		resp.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}

	respondWithJSON(w, status, resp)
}
