package confusion

// ComboState tracks the consecutive-correct streak and answer counts
// for a single session. It is owned by exactly one session and only
// mutated through RecordCorrect and RecordWrong.
type ComboState struct {
	current      int
	maxCombo     int
	totalCorrect int
	totalWrong   int
}

// RecordCorrect increments the streak and updates the high-water mark
func (c *ComboState) RecordCorrect() {
	c.current++
	c.totalCorrect++
	if c.current > c.maxCombo {
		c.maxCombo = c.current
	}
}

// RecordWrong resets the streak to zero
func (c *ComboState) RecordWrong() {
	c.current = 0
	c.totalWrong++
}

// Current returns the active streak length
func (c *ComboState) Current() int {
	return c.current
}

// Max returns the highest streak reached
func (c *ComboState) Max() int {
	return c.maxCombo
}

// TotalCorrect returns the number of correct answers recorded
func (c *ComboState) TotalCorrect() int {
	return c.totalCorrect
}

// TotalWrong returns the number of wrong answers recorded
func (c *ComboState) TotalWrong() int {
	return c.totalWrong
}

// TotalAnswers returns the number of answers recorded
func (c *ComboState) TotalAnswers() int {
	return c.totalCorrect + c.totalWrong
}

// Multiplier returns the scoring multiplier for the active streak,
// 1.0 base plus 0.1 per consecutive correct answer
func (c *ComboState) Multiplier() float64 {
	return 1.0 + float64(c.current)*0.1
}

// Accuracy returns the percentage of answers that were correct,
// or 0 when nothing has been answered yet
func (c *ComboState) Accuracy() float64 {
	total := c.TotalAnswers()
	if total == 0 {
		return 0
	}
	return float64(c.totalCorrect) * 100.0 / float64(total)
}
