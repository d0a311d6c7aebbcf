package confusion

import (
	"errors"
	"math/rand"
	"testing"
	"time"
)

func newTestSession(mode Mode, seed int64) *Session {
	return NewSession(mode, DefaultRegistry(), rand.New(rand.NewSource(seed)), nil)
}

func answerCorrect(t *testing.T, s *Session, reactionMs int) AnswerOutcome {
	t.Helper()
	q, err := s.NextQuestion()
	if err != nil {
		t.Fatalf("NextQuestion() error: %v", err)
	}
	out, err := s.SubmitAnswer(q.CorrectColor, reactionMs)
	if err != nil {
		t.Fatalf("SubmitAnswer() error: %v", err)
	}
	if !out.Correct {
		t.Fatalf("answer %q judged wrong", q.CorrectColor)
	}
	return out
}

func answerWrong(t *testing.T, s *Session, reactionMs int) AnswerOutcome {
	t.Helper()
	q, err := s.NextQuestion()
	if err != nil {
		t.Fatalf("NextQuestion() error: %v", err)
	}
	out, err := s.SubmitAnswer("NoSuchColor", reactionMs)
	if err != nil {
		t.Fatalf("SubmitAnswer() error: %v", err)
	}
	if out.Correct {
		t.Fatalf("wrong answer judged correct for question %v", q)
	}
	return out
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestSession(ModeEndless, 1)

	if _, err := s.NextQuestion(); !errors.Is(err, ErrSessionNotActive) {
		t.Errorf("NextQuestion() before start: err = %v, want ErrSessionNotActive", err)
	}
	if _, err := s.SubmitAnswer("Red", 500); !errors.Is(err, ErrSessionNotActive) {
		t.Errorf("SubmitAnswer() before start: err = %v, want ErrSessionNotActive", err)
	}
	if _, err := s.FinalReport(); !errors.Is(err, ErrSessionNotDone) {
		t.Errorf("FinalReport() before finish: err = %v, want ErrSessionNotDone", err)
	}

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if !s.IsActive() {
		t.Error("session not active after Start()")
	}
	if err := s.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start(): err = %v, want ErrAlreadyStarted", err)
	}

	// Answering without a pending question must not touch state
	if _, err := s.SubmitAnswer("Red", 500); !errors.Is(err, ErrNoQuestion) {
		t.Errorf("SubmitAnswer() without question: err = %v, want ErrNoQuestion", err)
	}
	if s.Score() != 0 || s.TotalPoints() != 0 {
		t.Error("failed submit mutated session state")
	}
}

func TestEndlessLivesExhausted(t *testing.T) {
	s := newTestSession(ModeEndless, 2)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	out := answerWrong(t, s, 800)
	if out.Lives != 2 || !out.Active {
		t.Errorf("after 1 wrong: lives=%d active=%v, want 2 true", out.Lives, out.Active)
	}
	out = answerWrong(t, s, 800)
	if out.Lives != 1 || !out.Active {
		t.Errorf("after 2 wrong: lives=%d active=%v, want 1 true", out.Lives, out.Active)
	}
	out = answerWrong(t, s, 800)
	if out.Lives != 0 || out.Active {
		t.Errorf("after 3 wrong: lives=%d active=%v, want 0 false", out.Lives, out.Active)
	}
	if !s.IsFinished() {
		t.Error("session still not finished with 0 lives")
	}

	// Finished sessions reject further answers
	if _, err := s.SubmitAnswer("Red", 500); !errors.Is(err, ErrSessionNotActive) {
		t.Errorf("SubmitAnswer() after finish: err = %v, want ErrSessionNotActive", err)
	}
	if _, err := s.NextQuestion(); !errors.Is(err, ErrSessionNotActive) {
		t.Errorf("NextQuestion() after finish: err = %v, want ErrSessionNotActive", err)
	}
}

func TestEndlessCorrectNeverChangesLives(t *testing.T) {
	s := newTestSession(ModeEndless, 3)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	for i := 0; i < 10; i++ {
		out := answerCorrect(t, s, 600)
		if out.Lives != endlessLives {
			t.Fatalf("correct answer %d changed lives to %d", i+1, out.Lives)
		}
	}
}

func TestSurvivalTimer(t *testing.T) {
	s := newTestSession(ModeSurvival, 4)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	out := answerCorrect(t, s, 700)
	if out.TimeLeft != 63 {
		t.Errorf("after correct: time=%v, want 63", out.TimeLeft)
	}
	out = answerWrong(t, s, 700)
	if out.TimeLeft != 60 {
		t.Errorf("after wrong: time=%v, want 60", out.TimeLeft)
	}

	// Drain the clock; time never dips below zero and hitting zero ends
	// the session
	for s.IsActive() {
		out = answerWrong(t, s, 700)
		if out.TimeLeft < 0 {
			t.Fatalf("time went negative: %v", out.TimeLeft)
		}
	}
	if out.TimeLeft != 0 {
		t.Errorf("final time=%v, want 0", out.TimeLeft)
	}
	if !s.IsFinished() {
		t.Error("session not finished at zero time")
	}
}

func TestSurvivalExpireTimer(t *testing.T) {
	s := newTestSession(ModeSurvival, 5)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if err := s.ExpireTimer(); err != nil {
		t.Fatalf("ExpireTimer() error: %v", err)
	}
	if !s.IsFinished() {
		t.Error("session not finished after timer expiry")
	}
	if err := s.ExpireTimer(); !errors.Is(err, ErrSessionNotActive) {
		t.Errorf("ExpireTimer() on finished session: err = %v, want ErrSessionNotActive", err)
	}

	endless := newTestSession(ModeEndless, 5)
	if err := endless.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if err := endless.ExpireTimer(); !errors.Is(err, ErrTimerNotSupported) {
		t.Errorf("ExpireTimer() on endless session: err = %v, want ErrTimerNotSupported", err)
	}
}

func TestSpeedRunReachesTarget(t *testing.T) {
	s := newTestSession(ModeSpeedRun, 6)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	var out AnswerOutcome
	for i := 0; i < speedRunTarget; i++ {
		out = answerCorrect(t, s, 500)
	}
	if out.Score != speedRunTarget {
		t.Errorf("score = %d, want %d", out.Score, speedRunTarget)
	}
	if out.Active {
		t.Error("session still active after reaching the target")
	}
	if !s.IsFinished() {
		t.Error("session not finished at target score")
	}
}

func TestSpeedRunPenaltyHitsPointsNotScore(t *testing.T) {
	s := newTestSession(ModeSpeedRun, 7)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	// Penalty with an empty bank floors at zero
	out := answerWrong(t, s, 900)
	if out.TotalPoints != 0 {
		t.Errorf("points after penalty on empty bank = %d, want 0", out.TotalPoints)
	}
	if !out.Active {
		t.Error("wrong answers must not end a speed run")
	}

	out = answerCorrect(t, s, 500)
	scoreBefore := out.Score
	pointsBefore := out.TotalPoints

	out = answerWrong(t, s, 900)
	if out.Score != scoreBefore {
		t.Errorf("penalty changed score from %d to %d", scoreBefore, out.Score)
	}
	if out.TotalPoints != pointsBefore-speedRunPenalty {
		t.Errorf("points = %d, want %d", out.TotalPoints, pointsBefore-speedRunPenalty)
	}
}

func TestDifficultyScalesWithScore(t *testing.T) {
	s := newTestSession(ModeEndless, 8)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	if s.Difficulty() != 1 {
		t.Fatalf("initial difficulty = %d, want 1", s.Difficulty())
	}

	// Score 5 is under the first threshold, so the rederivation keeps 1
	for i := 0; i < 5; i++ {
		answerCorrect(t, s, 600)
	}
	if s.Difficulty() != 1 {
		t.Errorf("difficulty at score 5 = %d, want 1", s.Difficulty())
	}

	for i := 0; i < 5; i++ {
		answerCorrect(t, s, 600)
	}
	if s.Difficulty() != 2 {
		t.Errorf("difficulty at score 10 = %d, want 2", s.Difficulty())
	}

	for i := 0; i < 10; i++ {
		answerCorrect(t, s, 600)
	}
	if s.Difficulty() != 3 {
		t.Errorf("difficulty at score 20 = %d, want 3", s.Difficulty())
	}
}

func TestPointsAccumulateWithCombo(t *testing.T) {
	s := newTestSession(ModeEndless, 9)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	// 500ms at difficulty 1: (10+15) * (1 + combo*0.1)
	out := answerCorrect(t, s, 500)
	if out.PointsEarned != 28 {
		t.Errorf("1st correct earned %d, want 28", out.PointsEarned)
	}
	out = answerCorrect(t, s, 500)
	if out.PointsEarned != 30 {
		t.Errorf("2nd correct earned %d, want 30", out.PointsEarned)
	}
	out = answerCorrect(t, s, 500)
	if out.PointsEarned != 33 {
		t.Errorf("3rd correct earned %d, want 33", out.PointsEarned)
	}
	if out.TotalPoints != 91 {
		t.Errorf("total points = %d, want 91", out.TotalPoints)
	}
	if out.Combo != 3 || out.MaxCombo != 3 {
		t.Errorf("combo = %d max = %d, want 3 3", out.Combo, out.MaxCombo)
	}
}

func TestFinalReportIdempotent(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return current }

	s := NewSession(ModeEndless, DefaultRegistry(), rand.New(rand.NewSource(10)), clock)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	answerCorrect(t, s, 400)
	answerCorrect(t, s, 600)
	current = current.Add(45 * time.Second)
	answerWrong(t, s, 1100)
	answerWrong(t, s, 900)
	answerWrong(t, s, 1000)

	first, err := s.FinalReport()
	if err != nil {
		t.Fatalf("FinalReport() error: %v", err)
	}

	// A later clock must not leak into an already-finished session
	current = current.Add(2 * time.Hour)
	second, err := s.FinalReport()
	if err != nil {
		t.Fatalf("second FinalReport() error: %v", err)
	}
	if first != second {
		t.Errorf("reports differ:\nfirst  = %+v\nsecond = %+v", first, second)
	}

	if first.ElapsedSeconds != 45 {
		t.Errorf("elapsed = %v, want 45", first.ElapsedSeconds)
	}
	if first.Score != 2 || first.WrongAnswers != 3 {
		t.Errorf("score=%d wrong=%d, want 2 3", first.Score, first.WrongAnswers)
	}
	if first.TotalQuestions != 5 {
		t.Errorf("total questions = %d, want 5", first.TotalQuestions)
	}
	// (400+600+1100+900+1000) / 5
	if first.AvgReactionMs != 800 {
		t.Errorf("avg reaction = %v, want 800", first.AvgReactionMs)
	}
	if first.FastestReactionMs != 400 || first.SlowestReactionMs != 1100 {
		t.Errorf("fastest=%d slowest=%d, want 400 1100",
			first.FastestReactionMs, first.SlowestReactionMs)
	}
	if first.AccuracyPct != 40 {
		t.Errorf("accuracy = %v, want 40", first.AccuracyPct)
	}
	if first.Mode != "endless" {
		t.Errorf("mode = %q, want endless", first.Mode)
	}
}

func TestFinalReportEmptyHistory(t *testing.T) {
	s := newTestSession(ModeSurvival, 11)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if err := s.ExpireTimer(); err != nil {
		t.Fatalf("ExpireTimer() error: %v", err)
	}

	report, err := s.FinalReport()
	if err != nil {
		t.Fatalf("FinalReport() error: %v", err)
	}
	if report.AvgReactionMs != 0 || report.FastestReactionMs != 0 || report.SlowestReactionMs != 0 {
		t.Errorf("empty history reactions = %v/%d/%d, want zeros",
			report.AvgReactionMs, report.FastestReactionMs, report.SlowestReactionMs)
	}
	if report.AccuracyPct != 0 {
		t.Errorf("accuracy = %v, want 0", report.AccuracyPct)
	}
	if report.Rating != RatingTrainee {
		t.Errorf("rating = %q, want %q", report.Rating, RatingTrainee)
	}
	if report.Coins != 0 || report.Stars != 0 {
		t.Errorf("coins=%d stars=%d, want 0 0", report.Coins, report.Stars)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"endless", ModeEndless, false},
		{"survival", ModeSurvival, false},
		{"speed", ModeSpeedRun, false},
		{"speedrun", ModeSpeedRun, false},
		{"", ModeEndless, true},
		{"marathon", ModeEndless, true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
