package confusion

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// Game modes
type Mode int

const (
	// ModeEndless gives the player 3 lives, play until they run out
	ModeEndless Mode = iota
	// ModeSurvival starts a 60 second timer, +3s per correct, -3s per wrong
	ModeSurvival
	// ModeSpeedRun races to 50 correct answers, -5 points per wrong
	ModeSpeedRun
)

// String returns the wire name of the mode
func (m Mode) String() string {
	switch m {
	case ModeEndless:
		return "endless"
	case ModeSurvival:
		return "survival"
	case ModeSpeedRun:
		return "speed"
	default:
		return "unknown"
	}
}

// ParseMode converts a wire name to a Mode
func ParseMode(s string) (Mode, error) {
	switch s {
	case "endless":
		return ModeEndless, nil
	case "survival":
		return ModeSurvival, nil
	case "speed", "speedrun":
		return ModeSpeedRun, nil
	default:
		return ModeEndless, fmt.Errorf("unknown game mode: %q", s)
	}
}

// Mode starting resources
const (
	endlessLives     = 3
	survivalSeconds  = 60.0
	survivalBonusSec = 3.0
	speedRunTarget   = 50
	speedRunPenalty  = 5
	difficultyEvery  = 5
)

// resourceUnused marks the mode resources that do not apply to the
// session's mode
const resourceUnused = -1

type lifecycle int

const (
	lifecycleIdle lifecycle = iota
	lifecycleActive
	lifecycleFinished
)

// Session state machine errors
var (
	ErrAlreadyStarted    = errors.New("session already started")
	ErrSessionNotActive  = errors.New("session is not active")
	ErrNoQuestion        = errors.New("no question awaiting an answer")
	ErrSessionNotDone    = errors.New("session has not finished")
	ErrTimerNotSupported = errors.New("mode has no timer")
)

// AnswerOutcome is returned for every processed answer with the
// updated running state of the session
type AnswerOutcome struct {
	Correct      bool    `json:"correct"`
	PointsEarned int     `json:"points_earned"`
	TotalPoints  int     `json:"total_points"`
	Score        int     `json:"score"`
	Combo        int     `json:"combo"`
	MaxCombo     int     `json:"max_combo"`
	Lives        int     `json:"lives"`
	TimeLeft     float64 `json:"time_left"`
	SpeedBonus   int     `json:"speed_bonus"`
	Multiplier   float64 `json:"multiplier"`
	Active       bool    `json:"active"`
}

// Report is the immutable end-of-session summary. It is derived
// entirely from recorded state, so repeated calls return identical
// values.
type Report struct {
	Mode              string  `json:"mode"`
	TotalPoints       int     `json:"total_points"`
	Score             int     `json:"score"`
	WrongAnswers      int     `json:"wrong_answers"`
	MaxCombo          int     `json:"max_combo"`
	AccuracyPct       float64 `json:"accuracy_pct"`
	AvgReactionMs     float64 `json:"avg_reaction_ms"`
	FastestReactionMs int     `json:"fastest_reaction_ms"`
	SlowestReactionMs int     `json:"slowest_reaction_ms"`
	TotalQuestions    int     `json:"total_questions"`
	ElapsedSeconds    float64 `json:"elapsed_seconds"`
	Rating            string  `json:"rating"`
	NumericalRating   float64 `json:"numerical_rating"`
	Coins             int     `json:"coins"`
	Stars             int     `json:"stars"`
}

// Session owns the mutable state of one game: score, combo, difficulty
// and the mode-specific resource (lives, timer or target). A session is
// used by one caller at a time; it never spawns goroutines and reads
// the clock only at state transitions.
type Session struct {
	mode      Mode
	state     lifecycle
	registry  *Registry
	generator *Generator
	now       func() time.Time

	difficulty  int
	pool        []string
	score       int
	totalPoints int
	combo       ComboState

	lives    int
	timeLeft float64
	target   int

	reactions  []int
	current    *Question
	startedAt  time.Time
	finishedAt time.Time
}

// NewSession creates an idle session for the given mode. The random
// source drives question generation; the clock is read at start and
// finish. Nil rng or now fall back to real randomness and time.
func NewSession(mode Mode, registry *Registry, rng *rand.Rand, now func() time.Time) *Session {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &Session{
		mode:      mode,
		state:     lifecycleIdle,
		registry:  registry,
		generator: NewGenerator(registry, rng),
		now:       now,
		lives:     resourceUnused,
		timeLeft:  resourceUnused,
		target:    resourceUnused,
	}
}

// Start transitions the session from idle to active and initializes
// the mode resource
func (s *Session) Start() error {
	if s.state != lifecycleIdle {
		return ErrAlreadyStarted
	}

	s.difficulty = 1
	s.pool = s.registry.PoolForDifficulty(s.difficulty)

	switch s.mode {
	case ModeEndless:
		s.lives = endlessLives
	case ModeSurvival:
		s.timeLeft = survivalSeconds
	case ModeSpeedRun:
		s.target = speedRunTarget
	}

	s.startedAt = s.now()
	s.state = lifecycleActive
	return nil
}

// NextQuestion generates a question from the current difficulty pool
// and holds it for answer evaluation. Only valid while active.
func (s *Session) NextQuestion() (Question, error) {
	if s.state != lifecycleActive {
		return Question{}, ErrSessionNotActive
	}
	q := s.generator.Generate(s.pool, s.difficulty)
	s.current = &q
	return q, nil
}

// SubmitAnswer evaluates an answer against the pending question and
// applies scoring and mode rules. Calling outside an active session,
// or without a pending question, fails without touching state. The
// reaction time is recorded for correct and wrong answers alike.
func (s *Session) SubmitAnswer(selectedColor string, reactionMs int) (AnswerOutcome, error) {
	if s.state != lifecycleActive {
		return AnswerOutcome{}, ErrSessionNotActive
	}
	if s.current == nil {
		return AnswerOutcome{}, ErrNoQuestion
	}

	question := s.current
	s.current = nil
	s.reactions = append(s.reactions, reactionMs)

	correct := question.IsCorrect(selectedColor)
	earned := 0
	speedBonus := 0
	multiplier := 1.0

	if correct {
		s.score++
		s.combo.RecordCorrect()
		earned = Points(reactionMs, s.combo.Current(), s.difficulty)
		speedBonus = SpeedBonus(reactionMs)
		multiplier = s.combo.Multiplier()
		s.totalPoints += earned

		switch s.mode {
		case ModeEndless:
			// Lives are never restored
		case ModeSurvival:
			s.timeLeft += survivalBonusSec
		case ModeSpeedRun:
			// Progress is the score itself, checked below
		}

		// Difficulty is rederived from the score every 5th correct answer
		if s.score%difficultyEvery == 0 {
			s.difficulty = DifficultyForScore(s.score)
			s.pool = s.registry.PoolForDifficulty(s.difficulty)
		}
	} else {
		s.combo.RecordWrong()

		switch s.mode {
		case ModeEndless:
			s.lives--
			if s.lives <= 0 {
				s.finish()
			}
		case ModeSurvival:
			s.timeLeft -= survivalBonusSec
			if s.timeLeft < 0 {
				s.timeLeft = 0
			}
			if s.timeLeft <= 0 {
				s.finish()
			}
		case ModeSpeedRun:
			// The penalty hits banked points only, never the score
			s.totalPoints -= speedRunPenalty
			if s.totalPoints < 0 {
				s.totalPoints = 0
			}
		}
	}

	if s.mode == ModeSpeedRun && s.score >= s.target {
		s.finish()
	}

	return AnswerOutcome{
		Correct:      correct,
		PointsEarned: earned,
		TotalPoints:  s.totalPoints,
		Score:        s.score,
		Combo:        s.combo.Current(),
		MaxCombo:     s.combo.Max(),
		Lives:        s.lives,
		TimeLeft:     s.timeLeft,
		SpeedBonus:   speedBonus,
		Multiplier:   multiplier,
		Active:       s.state == lifecycleActive,
	}, nil
}

// ExpireTimer finishes an active survival session whose countdown ran
// out. The countdown itself is driven by the caller's clock; the
// session only consumes the expiry.
func (s *Session) ExpireTimer() error {
	if s.state != lifecycleActive {
		return ErrSessionNotActive
	}
	if s.mode != ModeSurvival {
		return ErrTimerNotSupported
	}
	s.timeLeft = 0
	s.finish()
	return nil
}

func (s *Session) finish() {
	s.state = lifecycleFinished
	s.finishedAt = s.now()
	s.current = nil
}

// Mode returns the session's game mode
func (s *Session) Mode() Mode {
	return s.mode
}

// IsActive reports whether the session accepts answers
func (s *Session) IsActive() bool {
	return s.state == lifecycleActive
}

// IsFinished reports whether the session reached a terminal condition
func (s *Session) IsFinished() bool {
	return s.state == lifecycleFinished
}

// Score returns the running correct-answer count
func (s *Session) Score() int {
	return s.score
}

// TotalPoints returns the running banked points
func (s *Session) TotalPoints() int {
	return s.totalPoints
}

// Difficulty returns the current difficulty level
func (s *Session) Difficulty() int {
	return s.difficulty
}

// FinalReport derives the end-of-session summary. Only valid once the
// session is finished; repeated calls return identical values.
func (s *Session) FinalReport() (Report, error) {
	if s.state != lifecycleFinished {
		return Report{}, ErrSessionNotDone
	}

	avgRT := 0.0
	fastest := 0
	slowest := 0
	if len(s.reactions) > 0 {
		sum := 0
		fastest = s.reactions[0]
		slowest = s.reactions[0]
		for _, rt := range s.reactions {
			sum += rt
			if rt < fastest {
				fastest = rt
			}
			if rt > slowest {
				slowest = rt
			}
		}
		avgRT = float64(sum) / float64(len(s.reactions))
	}

	return Report{
		Mode:              s.mode.String(),
		TotalPoints:       s.totalPoints,
		Score:             s.score,
		WrongAnswers:      s.combo.TotalWrong(),
		MaxCombo:          s.combo.Max(),
		AccuracyPct:       s.combo.Accuracy(),
		AvgReactionMs:     avgRT,
		FastestReactionMs: fastest,
		SlowestReactionMs: slowest,
		TotalQuestions:    s.combo.TotalAnswers(),
		ElapsedSeconds:    s.finishedAt.Sub(s.startedAt).Seconds(),
		Rating:            Rating(avgRT, s.score),
		NumericalRating:   NumericalRating(avgRT, s.score, s.combo.Max()),
		Coins:             Coins(s.totalPoints),
		Stars:             Stars(s.score),
	}, nil
}
