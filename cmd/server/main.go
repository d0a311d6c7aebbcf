package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"memorymaster/internal/config"
	"memorymaster/internal/database"
	"memorymaster/internal/handlers"
	"memorymaster/internal/repository"
	"memorymaster/internal/security"
	"memorymaster/internal/service"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	log.Printf("Connected to %s database", db.Dialect.DriverName())

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Migrations failed: %v", err)
	}
	if err := db.SeedBadWords(); err != nil {
		log.Printf("Warning: profanity list not seeded: %v", err)
	}

	playerRepo := repository.NewPlayerRepository(db)
	recordRepo := repository.NewRecordRepository(db)

	authService := service.NewAuthService(playerRepo, db, cfg.JWTSecret, cfg.TokenDuration)
	scoreService := service.NewScoreService(recordRepo, cfg.LeaderboardLimit)
	gameService := service.NewGameService(cfg.SessionIdleTimeout)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.EmailFrom, "MemoryMaster", cfg.OAuthRedirectBaseURL, cfg.EmailDebug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	limiter := security.NewRateLimiter(10, time.Minute)
	middleware := handlers.NewMiddleware(authService, limiter)
	authHandler := handlers.NewAuthHandler(authService, scoreService, emailService)
	oauthHandler := handlers.NewOAuthHandler(authService, oauthProviders(cfg), cfg.OAuthRedirectBaseURL)
	gameHandler := handlers.NewGameHandler(gameService, scoreService, authService, emailService)
	leaderboardHandler := handlers.NewLeaderboardHandler(scoreService)
	healthHandler := handlers.NewHealthHandler(db, gameService)

	mux := http.NewServeMux()

	// Credential endpoints sit behind the rate limiter.
	mux.HandleFunc("POST /api/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/guest", middleware.RateLimit(authHandler.GuestLogin))
	mux.HandleFunc("GET /api/auth/{provider}", oauthHandler.StartOAuth)
	mux.HandleFunc("GET /api/auth/{provider}/callback", oauthHandler.OAuthCallback)

	mux.HandleFunc("GET /api/profile", middleware.RequireAuth(authHandler.Profile))

	mux.HandleFunc("POST /api/game/start", middleware.RequireAuth(gameHandler.StartGame))
	mux.HandleFunc("GET /api/game/{id}/question", middleware.RequireAuth(gameHandler.GetQuestion))
	mux.HandleFunc("POST /api/game/{id}/answer", middleware.RequireAuth(gameHandler.SubmitAnswer))
	mux.HandleFunc("POST /api/game/{id}/timeout", middleware.RequireAuth(gameHandler.Timeout))

	mux.HandleFunc("GET /api/leaderboard/{mode}", leaderboardHandler.Leaderboard)
	mux.HandleFunc("GET /api/percentile/{mode}", leaderboardHandler.Percentile)
	mux.HandleFunc("GET /api/stats/{mode}", leaderboardHandler.Stats)

	mux.HandleFunc("GET /api/health", healthHandler.Health)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handlers.Logging(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	cleanupDone := make(chan struct{})
	go cleanupIdleGames(gameService, cleanupDone)

	go func() {
		log.Printf("Listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	close(cleanupDone)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown: %v", err)
	}
}

func oauthProviders(cfg *config.Config) map[string]handlers.OAuthProvider {
	return map[string]handlers.OAuthProvider{
		"google": {
			Name: "google",
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleOAuthClientID,
				ClientSecret: cfg.GoogleOAuthClientSecret,
				Endpoint:     google.Endpoint,
				Scopes:       []string{"openid", "email", "profile"},
			},
			UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		},
	}
}

// cleanupIdleGames periodically removes abandoned game sessions
func cleanupIdleGames(gameService *service.GameService, done <-chan struct{}) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := gameService.CleanupIdle(); removed > 0 {
				log.Printf("Cleaned up %d abandoned game sessions", removed)
			}
		case <-done:
			return
		}
	}
}
