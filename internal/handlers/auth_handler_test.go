package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"memorymaster/internal/database"
	"memorymaster/internal/repository"
	"memorymaster/internal/security"
	"memorymaster/internal/service"
)

const testMigrationsRoot = "../../migrations"

type authTestEnv struct {
	db          *database.DB
	authHandler *AuthHandler
	middleware  *Middleware
}

func newAuthTestEnv(t *testing.T, dbPath string) *authTestEnv {
	t.Helper()

	db, err := database.OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})

	if err := db.RunMigrations(testMigrationsRoot); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	playerRepo := repository.NewPlayerRepository(db)
	recordRepo := repository.NewRecordRepository(db)

	authService := service.NewAuthService(playerRepo, db, testSecret, time.Hour)
	scoreService := service.NewScoreService(recordRepo, 10)
	emailService, err := service.NewEmailService("us-east-1", "", "MemoryMaster", "http://localhost:8080", false)
	if err != nil {
		t.Fatalf("Failed to create email service: %v", err)
	}

	return &authTestEnv{
		db:          db,
		authHandler: NewAuthHandler(authService, scoreService, emailService),
		middleware:  NewMiddleware(authService, security.NewRateLimiter(100, time.Minute)),
	}
}

func postJSON(handler http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler(recorder, httptest.NewRequest("POST", target, strings.NewReader(body)))
	return recorder
}

func TestAuthFlowIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newAuthTestEnv(t, "test_auth_flow.db")

	registerBody := `{"name":"Iris","email":"iris@example.com","password":"hunter2hunter2"}`
	recorder := postJSON(env.authHandler.Register, "/api/register", registerBody)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var registered AuthResponse
	if err := json.NewDecoder(recorder.Body).Decode(&registered); err != nil {
		t.Fatalf("failed to decode register response: %v", err)
	}
	if registered.Token == "" {
		t.Fatal("expected a token")
	}
	if registered.Player.Name != "Iris" || registered.Player.Email != "iris@example.com" {
		t.Errorf("unexpected player: %+v", registered.Player)
	}
	if registered.Player.IsGuest {
		t.Error("registered player must not be a guest")
	}

	recorder = postJSON(env.authHandler.Register, "/api/register", registerBody)
	if recorder.Code != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409, got %d", recorder.Code)
	}

	recorder = postJSON(env.authHandler.Login, "/api/login", `{"email":"iris@example.com","password":"wrong-password"}`)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: expected 401, got %d", recorder.Code)
	}

	recorder = postJSON(env.authHandler.Login, "/api/login", `{"email":"iris@example.com","password":"hunter2hunter2"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var loggedIn AuthResponse
	if err := json.NewDecoder(recorder.Body).Decode(&loggedIn); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}

	profileHandler := env.middleware.RequireAuth(env.authHandler.Profile)
	req := httptest.NewRequest("GET", "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+loggedIn.Token)
	recorder = httptest.NewRecorder()
	profileHandler(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var profile ProfileResponse
	if err := json.NewDecoder(recorder.Body).Decode(&profile); err != nil {
		t.Fatalf("failed to decode profile response: %v", err)
	}
	if profile.Player.ID != registered.Player.ID {
		t.Errorf("expected player %d, got %d", registered.Player.ID, profile.Player.ID)
	}
	if len(profile.Progress) != 0 {
		t.Errorf("expected no progress yet, got %d entries", len(profile.Progress))
	}
	if len(profile.RecentGames) != 0 {
		t.Errorf("expected no games yet, got %d entries", len(profile.RecentGames))
	}
}

func TestGuestLoginIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newAuthTestEnv(t, "test_auth_guest.db")

	recorder := postJSON(env.authHandler.GuestLogin, "/api/guest", "")
	if recorder.Code != http.StatusCreated {
		t.Fatalf("guest login: expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var guest AuthResponse
	if err := json.NewDecoder(recorder.Body).Decode(&guest); err != nil {
		t.Fatalf("failed to decode guest response: %v", err)
	}
	if !guest.Player.IsGuest {
		t.Error("expected a guest account")
	}
	if !strings.Contains(guest.Player.Name, "-") {
		t.Errorf("expected generated adjective-noun name, got %q", guest.Player.Name)
	}

	claims, err := security.ParseToken(testSecret, guest.Token)
	if err != nil {
		t.Fatalf("guest token did not validate: %v", err)
	}
	if !claims.IsGuest {
		t.Error("expected guest claim in token")
	}
}

func TestRegisterValidation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newAuthTestEnv(t, "test_auth_validation.db")

	tests := []struct {
		name string
		body string
	}{
		{name: "short password", body: `{"name":"Iris","email":"iris@example.com","password":"short"}`},
		{name: "bad email", body: `{"name":"Iris","email":"not-an-email","password":"hunter2hunter2"}`},
		{name: "short name", body: `{"name":"I","email":"iris@example.com","password":"hunter2hunter2"}`},
		{name: "invalid json", body: `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := postJSON(env.authHandler.Register, "/api/register", tt.body)
			if recorder.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", recorder.Code)
			}
		})
	}
}

func TestRegisterRejectsScreenedName(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newAuthTestEnv(t, "test_auth_screened.db")

	if _, err := env.db.Exec("INSERT INTO bad_words (word) VALUES (?)", "smeghead"); err != nil {
		t.Fatalf("Failed to seed screened word: %v", err)
	}

	recorder := postJSON(env.authHandler.Register, "/api/register",
		`{"name":"Smeghead Prime","email":"sp@example.com","password":"hunter2hunter2"}`)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for screened name, got %d", recorder.Code)
	}
}
