package service

import (
	"errors"
	"sync"
	"time"

	"memorymaster/internal/confusion"
	"memorymaster/internal/security"
)

var (
	ErrGameNotFound = errors.New("game session not found")
)

// gameEntry is one live session owned by one player
type gameEntry struct {
	session  *confusion.Session
	playerID int64
	lastSeen time.Time
}

// GameService owns the in-memory store of live game sessions, keyed by
// generated session IDs. Finished sessions leave the store immediately;
// abandoned ones are swept by CleanupIdle.
type GameService struct {
	mu          sync.Mutex
	games       map[string]*gameEntry
	idleTimeout time.Duration
}

// NewGameService creates a new game service
func NewGameService(idleTimeout time.Duration) *GameService {
	return &GameService{
		games:       make(map[string]*gameEntry),
		idleTimeout: idleTimeout,
	}
}

// StartGame creates and starts a session for a player and deals the
// first question
func (s *GameService) StartGame(playerID int64, modeName string) (string, confusion.Question, error) {
	mode, err := confusion.ParseMode(modeName)
	if err != nil {
		return "", confusion.Question{}, err
	}

	session := confusion.NewSession(mode, nil, nil, nil)
	if err := session.Start(); err != nil {
		return "", confusion.Question{}, err
	}

	question, err := session.NextQuestion()
	if err != nil {
		return "", confusion.Question{}, err
	}

	id := security.GenerateSessionID()

	s.mu.Lock()
	s.games[id] = &gameEntry{
		session:  session,
		playerID: playerID,
		lastSeen: time.Now(),
	}
	s.mu.Unlock()

	return id, question, nil
}

// lookup finds a live session owned by the player. Sessions owned by
// other players are reported as not found rather than forbidden.
// Callers must hold s.mu.
func (s *GameService) lookup(id string, playerID int64) (*gameEntry, error) {
	entry, ok := s.games[id]
	if !ok || entry.playerID != playerID {
		return nil, ErrGameNotFound
	}
	entry.lastSeen = time.Now()
	return entry, nil
}

// NextQuestion deals the next question for a live session
func (s *GameService) NextQuestion(id string, playerID int64) (confusion.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.lookup(id, playerID)
	if err != nil {
		return confusion.Question{}, err
	}
	return entry.session.NextQuestion()
}

// SubmitAnswer evaluates an answer. When the answer finishes the
// session, the final report is returned alongside the outcome and the
// session leaves the store.
func (s *GameService) SubmitAnswer(id string, playerID int64, color string, reactionMs int) (confusion.AnswerOutcome, *confusion.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.lookup(id, playerID)
	if err != nil {
		return confusion.AnswerOutcome{}, nil, err
	}

	outcome, err := entry.session.SubmitAnswer(color, reactionMs)
	if err != nil {
		return confusion.AnswerOutcome{}, nil, err
	}

	if entry.session.IsFinished() {
		report, err := entry.session.FinalReport()
		if err != nil {
			return outcome, nil, err
		}
		delete(s.games, id)
		return outcome, &report, nil
	}

	return outcome, nil, nil
}

// ExpireTimer finishes a Survival session whose clock ran out and
// returns the final report
func (s *GameService) ExpireTimer(id string, playerID int64) (*confusion.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.lookup(id, playerID)
	if err != nil {
		return nil, err
	}

	if err := entry.session.ExpireTimer(); err != nil {
		return nil, err
	}

	report, err := entry.session.FinalReport()
	if err != nil {
		return nil, err
	}
	delete(s.games, id)
	return &report, nil
}

// ActiveGames reports how many live sessions are in the store
func (s *GameService) ActiveGames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.games)
}

// CleanupIdle removes sessions that have not been touched within the
// idle timeout and returns how many were dropped. Abandoned sessions
// are discarded, not persisted.
func (s *GameService) CleanupIdle() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-s.idleTimeout)
	removed := 0
	for id, entry := range s.games {
		if entry.lastSeen.Before(cutoff) {
			delete(s.games, id)
			removed++
		}
	}
	return removed
}
