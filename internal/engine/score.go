package engine

// PenaltyPolicy describes what an incorrect event costs in a continuous game.
// The zero value costs nothing.
type PenaltyPolicy struct {
	Amount int
	// ClampAtZero keeps the score from going negative
	ClampAtZero bool
}

// Apply returns the score after the penalty
func (p PenaltyPolicy) Apply(score int) int {
	score -= p.Amount
	if p.ClampAtZero && score < 0 {
		return 0
	}
	return score
}

// Score tracks progress toward a session's target
type Score struct {
	Value  int `json:"value"`
	Target int `json:"target"`
}

// Hit records a correct answer and reports whether the target is reached
func (s *Score) Hit() bool {
	s.Value++
	return s.Reached()
}

// Miss applies the penalty for an incorrect answer
func (s *Score) Miss(p PenaltyPolicy) {
	s.Value = p.Apply(s.Value)
}

// Reached reports whether the score met the target
func (s Score) Reached() bool {
	return s.Target > 0 && s.Value >= s.Target
}

// Result is what the shell learns from a single input
type Result struct {
	Correct   bool `json:"correct"`
	Ignored   bool `json:"ignored,omitempty"`
	Score     int  `json:"score"`
	Target    int  `json:"target"`
	Completed bool `json:"completed"`
}
