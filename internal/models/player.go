package models

import "time"

// Player represents a registered or guest account
type Player struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	GoogleID     string
	IsGuest      bool
	Coins        int
	Stars        int
	CreatedAt    time.Time
	LastLoginAt  time.Time
}

// HasPassword reports whether the player can log in with credentials.
// OAuth-only and guest accounts have no password hash.
func (p *Player) HasPassword() bool {
	return p.PasswordHash != ""
}
