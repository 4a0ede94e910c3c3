package engine

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	ErrNoCorrectChoice  = errors.New("round has no correct choice")
	ErrManyCorrect      = errors.New("round has more than one correct choice")
	ErrDuplicateChoice  = errors.New("round has duplicate choices")
	ErrNotEnoughChoices = errors.New("not enough distinct candidates")
)

// Params carries the difficulty-derived knobs used to build a round
type Params map[string]int

// Round is one question of a discrete game
type Round struct {
	Prompt  []string `json:"prompt"`
	Target  string   `json:"-"`
	Choices []string `json:"choices"`
	Params  Params   `json:"params,omitempty"`
	// Swatches maps a choice to the colour it is painted with
	Swatches map[string]string `json:"swatches,omitempty"`
}

// NewRound builds a round from the correct answer and its distractors, shuffling the choices.
func NewRound(rng *rand.Rand, prompt []string, target string, distractors []string, params Params) Round {
	choices := make([]string, 0, len(distractors)+1)
	choices = append(choices, target)
	choices = append(choices, distractors...)
	Shuffle(rng, choices)

	return Round{
		Prompt:  prompt,
		Target:  target,
		Choices: choices,
		Params:  params,
	}
}

// Validate checks that exactly one choice is correct and that choices are distinct
func (r Round) Validate() error {
	seen := make(map[string]struct{}, len(r.Choices))
	correct := 0
	for _, c := range r.Choices {
		if _, dup := seen[c]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateChoice, c)
		}
		seen[c] = struct{}{}
		if c == r.Target {
			correct++
		}
	}

	switch {
	case correct == 0:
		return ErrNoCorrectChoice
	case correct > 1:
		return ErrManyCorrect
	}
	return nil
}

// Evaluate reports whether choice answers the round
func (r Round) Evaluate(choice string) bool {
	return choice == r.Target
}

// Shuffle permutes s in place with Fisher-Yates
func Shuffle[T any](rng *rand.Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// Sample returns n distinct elements of pool in random order. pool is not modified.
func Sample[T any](rng *rand.Rand, pool []T, n int) []T {
	if n > len(pool) {
		n = len(pool)
	}
	cp := make([]T, len(pool))
	copy(cp, pool)
	Shuffle(rng, cp)
	return cp[:n]
}

// Distractors draws n distinct values from pool that differ from target
func Distractors(rng *rand.Rand, pool []string, target string, n int) ([]string, error) {
	candidates := make([]string, 0, len(pool))
	seen := map[string]struct{}{target: {}}
	for _, p := range pool {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		candidates = append(candidates, p)
	}
	if len(candidates) < n {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrNotEnoughChoices, n, len(candidates))
	}
	return Sample(rng, candidates, n), nil
}

// MustDistractors is Distractors for fixed game tables. It panics when the
// table is too small, which is a programming error.
func MustDistractors(rng *rand.Rand, pool []string, target string, n int) []string {
	out, err := Distractors(rng, pool, target, n)
	if err != nil {
		panic(err)
	}
	return out
}
