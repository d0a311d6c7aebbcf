package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"memorymaster/internal/service"
	"memorymaster/internal/validation"
)

// AuthHandler handles registration, login and profile requests
type AuthHandler struct {
	authService  *service.AuthService
	scoreService *service.ScoreService
	emailService *service.EmailService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, scoreService *service.ScoreService, emailService *service.EmailService) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		scoreService: scoreService,
		emailService: emailService,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new player account
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSONBody, "", nil)
		return
	}

	player, token, err := h.authService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		var vErr validation.ValidationError
		switch {
		case errors.As(err, &vErr):
			respondWithError(w, http.StatusBadRequest, vErr.Message, "", nil)
		case errors.Is(err, service.ErrEmailTaken):
			respondWithError(w, http.StatusConflict, "Email already registered", "", nil)
		case errors.Is(err, service.ErrNameNotAllowed):
			respondWithError(w, http.StatusBadRequest, "That name is not allowed", "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Registration failed", err)
		}
		return
	}

	if h.emailService.IsEnabled() && player.Email != "" {
		go func() {
			if err := h.emailService.SendWelcomeEmail(context.Background(), player.Email, player.Name); err != nil {
				log.Printf("Failed to send welcome email to %s: %v", player.Email, err)
			}
		}()
	}

	respondWithJSON(w, http.StatusCreated, AuthResponse{Token: token, Player: newPlayerView(player)})
}

// Login authenticates an existing player
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSONBody, "", nil)
		return
	}

	player, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "Invalid email or password", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Login failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, AuthResponse{Token: token, Player: newPlayerView(player)})
}

// GuestLogin creates a throwaway account with a generated name so a
// player can start without registering
func (h *AuthHandler) GuestLogin(w http.ResponseWriter, r *http.Request) {
	player, token, err := h.authService.GuestLogin()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Guest login failed", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, AuthResponse{Token: token, Player: newPlayerView(player)})
}

// Profile returns the authenticated player with their per-mode
// aggregates and most recent sessions
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	player, err := h.authService.GetPlayer(claims.PlayerID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load profile", err)
		return
	}
	if player == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	progress, err := h.scoreService.PlayerProgress(player.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load progress", err)
		return
	}

	recent, err := h.scoreService.RecentGames(player.ID, 10)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load recent games", err)
		return
	}

	respondWithJSON(w, http.StatusOK, ProfileResponse{
		Player:      newPlayerView(player),
		Progress:    newProgressViews(progress),
		RecentGames: newRecordViews(recent),
	})
}
