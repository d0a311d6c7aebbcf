package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"memorymaster/internal/confusion"
)

const (
	// Bots get slower and sloppier as the difficulty pool widens
	slowdownPerLevel     = 0.25
	accuracyDropPerLevel = 0.1
	accuracyFloor        = 0.45
	minReactionMs        = 120

	// Backstop for a session that never reaches a terminal condition
	maxQuestions = 1000
)

// botProfile describes how a simulated player answers: a reaction time
// band and a base probability of picking the right color.
type botProfile struct {
	name     string
	meanMs   int
	jitterMs int
	accuracy float64
}

var profiles = []botProfile{
	{name: "blitz", meanMs: 380, jitterMs: 120, accuracy: 0.97},
	{name: "steady", meanMs: 650, jitterMs: 150, accuracy: 0.92},
	{name: "casual", meanMs: 900, jitterMs: 250, accuracy: 0.85},
	{name: "sleepy", meanMs: 1400, jitterMs: 400, accuracy: 0.70},
}

func (p botProfile) reactionMs(rng *rand.Rand, difficulty int) int {
	base := float64(p.meanMs) * (1 + slowdownPerLevel*float64(difficulty-1))
	spread := float64(p.jitterMs) * (rng.Float64()*2 - 1)
	ms := int(base + spread)
	if ms < minReactionMs {
		ms = minReactionMs
	}
	return ms
}

func (p botProfile) accuracyAt(difficulty int) float64 {
	acc := p.accuracy - accuracyDropPerLevel*float64(difficulty-1)
	if acc < accuracyFloor {
		acc = accuracyFloor
	}
	return acc
}

func main() {
	bots := flag.Int("bots", 12, "Number of bot sessions per mode")
	seed := flag.Int64("seed", 1, "Random seed (same seed reproduces the same run)")
	modeFlag := flag.String("mode", "all", "Game mode to simulate: endless, survival, speed or all")
	top := flag.Int("top", 10, "Leaderboard rows to print per mode")
	flag.Parse()

	if *bots < 1 {
		log.Fatalf("Invalid bot count: %d", *bots)
	}

	modes, err := resolveModes(*modeFlag)
	if err != nil {
		log.Fatalf("Invalid mode: %v", err)
	}

	rng := rand.New(rand.NewSource(*seed))
	records := make([]confusion.Record, 0, len(modes)*(*bots))

	for _, mode := range modes {
		for i := 0; i < *bots; i++ {
			profile := profiles[i%len(profiles)]
			identity := fmt.Sprintf("%s-%02d", profile.name, i+1)
			rec, err := playSession(identity, mode, profile, rng)
			if err != nil {
				log.Fatalf("Bot %s (%s) failed: %v", identity, mode, err)
			}
			records = append(records, rec)
		}
		log.Printf("Simulated %d %s sessions", *bots, mode)
	}

	for _, mode := range modes {
		printModeSection(records, mode, *top)
	}

	if len(modes) > 1 {
		overall := confusion.SummaryStats(records)
		fmt.Println("=== All modes ===")
		printStats(overall)
	}
}

func resolveModes(flagValue string) ([]confusion.Mode, error) {
	if flagValue == "all" {
		return []confusion.Mode{confusion.ModeEndless, confusion.ModeSurvival, confusion.ModeSpeedRun}, nil
	}
	mode, err := confusion.ParseMode(flagValue)
	if err != nil {
		return nil, err
	}
	return []confusion.Mode{mode}, nil
}

// playSession drives one full session through the engine. The clock
// handed to the session advances by each simulated reaction, so the
// reported elapsed time matches the time the bot spent answering.
func playSession(identity string, mode confusion.Mode, profile botProfile, rng *rand.Rand) (confusion.Record, error) {
	clock := time.Unix(0, 0)
	session := confusion.NewSession(mode, nil, rng, func() time.Time { return clock })
	if err := session.Start(); err != nil {
		return confusion.Record{}, err
	}

	consumedMs := 0.0
	for answers := 0; answers < maxQuestions; answers++ {
		question, err := session.NextQuestion()
		if err != nil {
			return confusion.Record{}, err
		}

		difficulty := session.Difficulty()
		reaction := profile.reactionMs(rng, difficulty)
		clock = clock.Add(time.Duration(reaction) * time.Millisecond)
		consumedMs += float64(reaction)

		answer := question.CorrectColor
		if rng.Float64() > profile.accuracyAt(difficulty) {
			answer = wrongOption(question, rng)
		}

		outcome, err := session.SubmitAnswer(answer, reaction)
		if err != nil {
			return confusion.Record{}, err
		}
		if !outcome.Active {
			break
		}

		// The countdown runs on the bot's side; the session only
		// learns about expiry through ExpireTimer.
		if mode == confusion.ModeSurvival && consumedMs/1000.0 >= outcome.TimeLeft {
			if err := session.ExpireTimer(); err != nil {
				return confusion.Record{}, err
			}
			break
		}
	}

	if session.IsActive() {
		if mode != confusion.ModeSurvival {
			return confusion.Record{}, fmt.Errorf("session still active after %d questions", maxQuestions)
		}
		if err := session.ExpireTimer(); err != nil {
			return confusion.Record{}, err
		}
	}

	report, err := session.FinalReport()
	if err != nil {
		return confusion.Record{}, err
	}

	return confusion.Record{
		Identity:       identity,
		Mode:           report.Mode,
		TotalPoints:    report.TotalPoints,
		Correct:        report.Score,
		MaxCombo:       report.MaxCombo,
		AvgReactionMs:  report.AvgReactionMs,
		ElapsedSeconds: report.ElapsedSeconds,
		Rating:         report.Rating,
	}, nil
}

func wrongOption(q confusion.Question, rng *rand.Rand) string {
	wrong := make([]string, 0, len(q.Options)-1)
	for _, opt := range q.Options {
		if !q.IsCorrect(opt) {
			wrong = append(wrong, opt)
		}
	}
	return wrong[rng.Intn(len(wrong))]
}

func printModeSection(records []confusion.Record, mode confusion.Mode, top int) {
	entries := confusion.Rank(records, mode.String())
	if top > len(entries) {
		top = len(entries)
	}

	fmt.Printf("=== %s leaderboard (top %d of %d) ===\n", mode, top, len(entries))
	fmt.Printf("%4s  %-16s %8s %9s  %-12s %6s\n", "RANK", "PLAYER", "POINTS", "AVG MS", "RATING", "PCTL")
	for _, entry := range entries[:top] {
		fmt.Printf("%4d  %-16s %8d %9.1f  %-12s %6.1f\n",
			entry.Rank, entry.Identity, entry.TotalPoints, entry.AvgReactionMs, entry.Rating, entry.Percentile)
	}

	printStats(confusion.SummaryStats(recordsForMode(records, mode.String())))
}

func printStats(stats confusion.Stats) {
	fmt.Printf("Games: %d   Mean points: %.1f   Median points: %.1f   Std dev: %.1f   Mean reaction: %.1f ms\n\n",
		stats.TotalGames, stats.MeanPoints, stats.MedianPoints, stats.StdDevPoints, stats.MeanReactionMs)
}

func recordsForMode(records []confusion.Record, mode string) []confusion.Record {
	filtered := make([]confusion.Record, 0, len(records))
	for _, rec := range records {
		if rec.Mode == mode {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}
