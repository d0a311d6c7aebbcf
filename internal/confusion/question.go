package confusion

import (
	"math/rand"
	"strings"
)

// Question is a single Stroop stimulus. The displayed word and the
// font color always differ; the font color is the only correct answer.
// Questions are consumed once and never persisted.
type Question struct {
	DisplayedWord string   `json:"displayed_word"`
	CorrectColor  string   `json:"-"`
	DisplayCode   string   `json:"display_code"`
	Options       []string `json:"options"`
	Difficulty    int      `json:"difficulty"`
}

// IsCorrect reports whether the selected color matches the font color.
// Comparison is case-insensitive.
func (q *Question) IsCorrect(selectedColor string) bool {
	return strings.EqualFold(q.CorrectColor, selectedColor)
}

// Generator produces Stroop questions from a color registry using an
// injected random source, so seeded tests get reproducible sequences
type Generator struct {
	registry *Registry
	rng      *rand.Rand
}

// NewGenerator creates a question generator over the given registry
func NewGenerator(registry *Registry, rng *rand.Rand) *Generator {
	return &Generator{registry: registry, rng: rng}
}

// Generate builds a question from the given color pool. The displayed
// word is always a different color than the font color, and the four
// options always include the correct answer in a randomized position.
// Pools with fewer than four colors are backfilled from the full
// registry so every question still has four distinct options.
func (g *Generator) Generate(pool []string, difficulty int) Question {
	if len(pool) == 0 {
		pool = g.registry.Names()
	}

	correctColor := pool[g.rng.Intn(len(pool))]

	// Pick a different word to display (this mismatch is the Stroop effect)
	wordCandidates := make([]string, 0, len(pool))
	for _, c := range pool {
		if c != correctColor {
			wordCandidates = append(wordCandidates, c)
		}
	}
	displayedWord := fallbackWord
	if len(wordCandidates) > 0 {
		displayedWord = wordCandidates[g.rng.Intn(len(wordCandidates))]
	}

	// Correct answer plus up to three distractors from the active pool
	distractors := make([]string, 0, len(pool))
	for _, c := range pool {
		if c != correctColor && c != displayedWord {
			distractors = append(distractors, c)
		}
	}
	g.rng.Shuffle(len(distractors), func(i, j int) {
		distractors[i], distractors[j] = distractors[j], distractors[i]
	})

	options := []string{correctColor}
	for i := 0; i < 3 && i < len(distractors); i++ {
		options = append(options, distractors[i])
	}

	// Small pools backfill from the full registry, not just the active pool
	allColors := g.registry.Names()
	for len(options) < 4 {
		filler := allColors[g.rng.Intn(len(allColors))]
		if !containsColor(options, filler) {
			options = append(options, filler)
		}
	}

	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return Question{
		DisplayedWord: strings.ToUpper(displayedWord),
		CorrectColor:  correctColor,
		DisplayCode:   g.registry.Hex(correctColor),
		Options:       options,
		Difficulty:    difficulty,
	}
}

func containsColor(list []string, color string) bool {
	for _, c := range list {
		if c == color {
			return true
		}
	}
	return false
}
