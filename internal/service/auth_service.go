package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"memorymaster/internal/credentials"
	"memorymaster/internal/database"
	"memorymaster/internal/models"
	"memorymaster/internal/repository"
	"memorymaster/internal/security"
	"memorymaster/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNameNotAllowed     = errors.New("name not allowed")
)

// AuthService handles authentication business logic. Tokens are
// stateless JWTs, nothing is stored server side per login.
type AuthService struct {
	playerRepo    *repository.PlayerRepository
	db            *database.DB
	jwtSecret     string
	tokenDuration time.Duration
}

func NewAuthService(playerRepo *repository.PlayerRepository, db *database.DB, jwtSecret string, tokenDuration time.Duration) *AuthService {
	return &AuthService{
		playerRepo:    playerRepo,
		db:            db,
		jwtSecret:     jwtSecret,
		tokenDuration: tokenDuration,
	}
}

// Register creates a new player account and returns it with a signed token
func (s *AuthService) Register(name, email, password string) (*models.Player, string, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, "", err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, "", err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, "", err
	}

	// Reject profane display names
	bad, err := s.db.NameContainsBadWord(name)
	if err != nil {
		return nil, "", fmt.Errorf("failed to screen name: %w", err)
	}
	if bad {
		return nil, "", ErrNameNotAllowed
	}

	existing, err := s.playerRepo.GetPlayerByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing player: %w", err)
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	player, err := s.playerRepo.CreatePlayer(name, email, passwordHash, "", false)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create player: %w", err)
	}

	token, err := s.issueToken(player)
	if err != nil {
		return nil, "", err
	}

	return player, token, nil
}

// Login authenticates a player by email and password
func (s *AuthService) Login(email, password string) (*models.Player, string, error) {
	player, err := s.playerRepo.GetPlayerByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, "", ErrInvalidCredentials
	}

	// OAuth-only and guest accounts have no password to check
	if !player.HasPassword() {
		return nil, "", ErrInvalidCredentials
	}
	if !security.CheckPassword(password, player.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	if err := s.playerRepo.UpdateLastLogin(player.ID); err != nil {
		return nil, "", fmt.Errorf("failed to record login: %w", err)
	}

	token, err := s.issueToken(player)
	if err != nil {
		return nil, "", err
	}

	return player, token, nil
}

// GuestLogin creates a throwaway player with a generated name
func (s *AuthService) GuestLogin() (*models.Player, string, error) {
	name, err := credentials.GenerateGuestName()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate guest name: %w", err)
	}

	player, err := s.playerRepo.CreatePlayer(name, "", "", "", true)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create guest player: %w", err)
	}

	token, err := s.issueToken(player)
	if err != nil {
		return nil, "", err
	}

	return player, token, nil
}

// OAuthLogin authenticates or creates a player from a verified Google
// identity. An existing account with the same email gets the Google ID
// linked rather than duplicated.
func (s *AuthService) OAuthLogin(googleID, email, name string) (*models.Player, string, error) {
	if googleID == "" {
		return nil, "", errors.New("missing oauth subject")
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, "", err
	}

	player, err := s.playerRepo.GetPlayerByGoogleID(googleID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to lookup oauth player: %w", err)
	}

	if player == nil {
		existing, err := s.playerRepo.GetPlayerByEmail(email)
		if err != nil {
			return nil, "", fmt.Errorf("failed to check existing player: %w", err)
		}
		if existing != nil {
			if existing.GoogleID != "" && existing.GoogleID != googleID {
				return nil, "", ErrEmailTaken
			}
			if existing.GoogleID == "" {
				if err := s.playerRepo.LinkGoogleAccount(existing.ID, googleID); err != nil {
					return nil, "", fmt.Errorf("failed to link google account: %w", err)
				}
			}
			player = existing
		} else {
			if name == "" {
				name = strings.Split(email, "@")[0]
			}
			if bad, err := s.db.NameContainsBadWord(name); err == nil && bad {
				name = "Master Player"
			}
			player, err = s.playerRepo.CreatePlayer(name, email, "", googleID, false)
			if err != nil {
				return nil, "", fmt.Errorf("failed to create oauth player: %w", err)
			}
		}
	}

	if err := s.playerRepo.UpdateLastLogin(player.ID); err != nil {
		return nil, "", fmt.Errorf("failed to record login: %w", err)
	}

	token, err := s.issueToken(player)
	if err != nil {
		return nil, "", err
	}

	return player, token, nil
}

// GetPlayer loads a player by ID
func (s *AuthService) GetPlayer(playerID int64) (*models.Player, error) {
	player, err := s.playerRepo.GetPlayerByID(playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}

// ValidateToken parses and validates a bearer token
func (s *AuthService) ValidateToken(token string) (*security.Claims, error) {
	return security.ParseToken(s.jwtSecret, token)
}

func (s *AuthService) issueToken(player *models.Player) (string, error) {
	token, err := security.IssueToken(s.jwtSecret, s.tokenDuration, player.ID, player.Name, player.IsGuest)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}
