package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"memorymaster/internal/confusion"
	"memorymaster/internal/service"
)

// GameHandler drives live game sessions over the JSON API
type GameHandler struct {
	gameService  *service.GameService
	scoreService *service.ScoreService
	authService  *service.AuthService
	emailService *service.EmailService
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameService *service.GameService, scoreService *service.ScoreService, authService *service.AuthService, emailService *service.EmailService) *GameHandler {
	return &GameHandler{
		gameService:  gameService,
		scoreService: scoreService,
		authService:  authService,
		emailService: emailService,
	}
}

type startGameRequest struct {
	Mode string `json:"mode"`
}

type answerRequest struct {
	Color      string `json:"color"`
	ReactionMs int    `json:"reaction_ms"`
}

// StartGame creates a session for the authenticated player and deals
// the first question
func (h *GameHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	var req startGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSONBody, "", nil)
		return
	}

	mode, err := confusion.ParseMode(req.Mode)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrUnknownMode, "", nil)
		return
	}

	id, question, err := h.gameService.StartGame(claims.PlayerID, mode.String())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to start game", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, StartGameResponse{
		SessionID: id,
		Mode:      mode.String(),
		Question:  question,
	})
}

// GetQuestion deals the next question for a live session
func (h *GameHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	question, err := h.gameService.NextQuestion(r.PathValue("id"), claims.PlayerID)
	if err != nil {
		gameErrorResponse(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, QuestionResponse{Question: question})
}

// SubmitAnswer evaluates an answer for a live session. The response
// carries the final report when the answer ends the game.
func (h *GameHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSONBody, "", nil)
		return
	}

	outcome, report, err := h.gameService.SubmitAnswer(r.PathValue("id"), claims.PlayerID, req.Color, req.ReactionMs)
	if err != nil {
		gameErrorResponse(w, err)
		return
	}

	resp := AnswerResponse{AnswerOutcome: outcome}
	if report != nil {
		resp.Finished = h.finishGame(claims.PlayerID, report)
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// Timeout finishes a Survival session whose client-side clock ran out
func (h *GameHandler) Timeout(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	report, err := h.gameService.ExpireTimer(r.PathValue("id"), claims.PlayerID)
	if err != nil {
		gameErrorResponse(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, h.finishGame(claims.PlayerID, report))
}

// finishGame persists the final report and prepares the finished view.
// A failed save is logged and reported to the client, not turned into
// an error status, because the session is already gone from the store.
func (h *GameHandler) finishGame(playerID int64, report *confusion.Report) *GameFinishedView {
	view := &GameFinishedView{Report: *report}

	rec, newHighScore, err := h.scoreService.SaveReport(playerID, report)
	if err != nil {
		log.Printf("Failed to save game record for player %d: %v", playerID, err)
		return view
	}
	view.RecordID = rec.ID
	view.NewHighScore = newHighScore
	view.Saved = true

	h.sendReportEmail(playerID, report)
	return view
}

// sendReportEmail mails the session summary to registered players
func (h *GameHandler) sendReportEmail(playerID int64, report *confusion.Report) {
	if !h.emailService.IsEnabled() {
		return
	}

	player, err := h.authService.GetPlayer(playerID)
	if err != nil || player == nil || player.IsGuest || player.Email == "" {
		return
	}

	summary := *report
	go func() {
		if err := h.emailService.SendSessionReportEmail(context.Background(), player.Email, player.Name, &summary); err != nil {
			log.Printf("Failed to send session report to %s: %v", player.Email, err)
		}
	}()
}

// gameErrorResponse maps session errors onto HTTP statuses
func gameErrorResponse(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		respondWithError(w, http.StatusNotFound, ErrGameNotFound, "", nil)
	case errors.Is(err, confusion.ErrNoQuestion),
		errors.Is(err, confusion.ErrSessionNotActive),
		errors.Is(err, confusion.ErrTimerNotSupported):
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Game operation failed", err)
	}
}
