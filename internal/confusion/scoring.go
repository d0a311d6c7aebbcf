package confusion

import "math"

// Performance rating tiers, best first
const (
	RatingLegendary    = "Legendary"
	RatingGrandmaster  = "Grandmaster"
	RatingMaster       = "Master"
	RatingExpert       = "Expert"
	RatingAdvanced     = "Advanced"
	RatingProficient   = "Proficient"
	RatingIntermediate = "Intermediate"
	RatingBeginner     = "Beginner"
	RatingTrainee      = "Trainee"
)

// Points calculates the points for a single correct answer.
// Formula: basePoints = 10
//          speedBonus = max(0, (2000 - reactionMs) / 100), integer division
//          comboMultiplier = 1 + combo * 0.1
//          difficultyBonus = 1 + (difficulty - 1) * 0.15
//          points = round((basePoints + speedBonus) * comboMultiplier * difficultyBonus)
func Points(reactionMs, combo, difficulty int) int {
	basePoints := 10

	// Integer division truncates before the outer round
	speedBonus := (2000 - reactionMs) / 100
	if speedBonus < 0 {
		speedBonus = 0
	}

	comboMultiplier := 1.0 + float64(combo)*0.1
	difficultyBonus := 1.0 + float64(difficulty-1)*0.15

	return int(math.Round(float64(basePoints+speedBonus) * comboMultiplier * difficultyBonus))
}

// SpeedBonus returns the speed component of the points formula on its own
func SpeedBonus(reactionMs int) int {
	bonus := (2000 - reactionMs) / 100
	if bonus < 0 {
		bonus = 0
	}
	return bonus
}

// Coins converts session points to coins, 1 coin per 100 points
func Coins(totalPoints int) int {
	return totalPoints / 100
}

// Stars converts correct answers to stars, 1 star per 10 correct
func Stars(correctAnswers int) int {
	return correctAnswers / 10
}

// Rating assigns a performance tier from average reaction time and
// correct-answer count. Clauses are checked best tier first; both
// conditions of a clause must hold.
func Rating(avgReactionMs float64, correct int) string {
	switch {
	case avgReactionMs < 400 && correct > 50:
		return RatingLegendary
	case avgReactionMs < 500 && correct > 40:
		return RatingGrandmaster
	case avgReactionMs < 600 && correct > 30:
		return RatingMaster
	case avgReactionMs < 700 && correct > 25:
		return RatingExpert
	case avgReactionMs < 800 && correct > 20:
		return RatingAdvanced
	case avgReactionMs < 1000 && correct > 15:
		return RatingProficient
	case avgReactionMs < 1200 && correct > 10:
		return RatingIntermediate
	case avgReactionMs < 1500 && correct > 5:
		return RatingBeginner
	default:
		return RatingTrainee
	}
}

// NumericalRating scores a session 0-100 for comparative analysis:
// up to 40 points for speed, 35 for score, 25 for combo consistency.
func NumericalRating(avgReactionMs float64, score, maxCombo int) float64 {
	speedScore := 40.0 * (1.0 - avgReactionMs/2000.0)
	if speedScore < 0 {
		speedScore = 0
	}

	scorePoints := float64(score) * 0.7
	if scorePoints > 35 {
		scorePoints = 35
	}

	comboPoints := float64(maxCombo) * 2.5
	if comboPoints > 25 {
		comboPoints = 25
	}

	total := speedScore + scorePoints + comboPoints
	if total > 100 {
		total = 100
	}
	return total
}

// DifficultyForScore derives the difficulty level from the running
// correct-answer count
func DifficultyForScore(score int) int {
	switch {
	case score >= 40:
		return 5
	case score >= 30:
		return 4
	case score >= 20:
		return 3
	case score >= 10:
		return 2
	default:
		return 1
	}
}
