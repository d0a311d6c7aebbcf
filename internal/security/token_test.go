package security

import (
	"errors"
	"testing"
	"time"
)

const testSecret = "test-secret-key-for-token-signing"

func TestIssueAndParseToken(t *testing.T) {
	token, err := IssueToken(testSecret, time.Hour, 42, "swift-falcon", true)
	if err != nil {
		t.Fatalf("IssueToken returned error: %v", err)
	}
	if token == "" {
		t.Fatal("IssueToken returned empty token")
	}

	claims, err := ParseToken(testSecret, token)
	if err != nil {
		t.Fatalf("ParseToken returned error: %v", err)
	}
	if claims.PlayerID != 42 {
		t.Errorf("PlayerID = %d, want 42", claims.PlayerID)
	}
	if claims.Name != "swift-falcon" {
		t.Errorf("Name = %q, want %q", claims.Name, "swift-falcon")
	}
	if !claims.IsGuest {
		t.Error("IsGuest = false, want true")
	}
	if claims.Subject != "42" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "42")
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := IssueToken(testSecret, time.Hour, 7, "player", false)
	if err != nil {
		t.Fatalf("IssueToken returned error: %v", err)
	}

	_, err = ParseToken("a-completely-different-secret", token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ParseToken with wrong secret = %v, want ErrInvalidToken", err)
	}
}

func TestParseTokenExpired(t *testing.T) {
	token, err := IssueToken(testSecret, -time.Minute, 7, "player", false)
	if err != nil {
		t.Fatalf("IssueToken returned error: %v", err)
	}

	_, err = ParseToken(testSecret, token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Errorf("ParseToken with expired token = %v, want ErrExpiredToken", err)
	}
}

func TestParseTokenGarbage(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "empty string", token: ""},
		{name: "not a jwt", token: "hello world"},
		{name: "truncated jwt", token: "eyJhbGciOiJIUzI1NiJ9.eyJw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseToken(testSecret, tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("ParseToken(%q) = %v, want ErrInvalidToken", tt.token, err)
			}
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("HashPassword returned plaintext")
	}

	if !CheckPassword("correct horse battery staple", hash) {
		t.Error("CheckPassword rejected correct password")
	}
	if CheckPassword("wrong password", hash) {
		t.Error("CheckPassword accepted wrong password")
	}
	if CheckPassword("", hash) {
		t.Error("CheckPassword accepted empty password")
	}
}

func TestGenerateSessionID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateSessionID()
		if id == "" {
			t.Fatal("GenerateSessionID returned empty string")
		}
		if seen[id] {
			t.Fatalf("duplicate session ID generated: %s", id)
		}
		seen[id] = true
	}
}
