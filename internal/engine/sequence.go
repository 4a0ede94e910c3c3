package engine

import "time"

// Press submits a pad during the recall phase of a sequence game.
// A mismatch discards all recalled input and presents the sequence again.
func (c *Controller) Press(pad int) (Result, error) {
	return c.do(func() (Result, error) {
		if err := c.requireRound(CategorySequence); err != nil {
			return Result{}, err
		}
		sg := c.game.(SequenceGame)
		if pad < 0 || pad >= len(sg.Pads()) {
			return Result{}, ErrInvalidMove
		}
		if c.phase != PhaseRecalling {
			return Result{}, ErrInputDisabled
		}

		c.playNote(sg, pad)
		c.input = append(c.input, pad)
		if c.seq[len(c.input)-1] != pad {
			c.miss(PenaltyPolicy{})
			c.present(RecallRetryDelay)
			return c.result(false), nil
		}

		if len(c.input) < len(c.seq) {
			c.react(EmotionHappy)
			return c.result(true), nil
		}

		if !c.hit() {
			c.seq = append(c.seq, c.rng.Intn(len(sg.Pads())))
			c.present(sg.SettleDelay())
		}
		return c.result(true), nil
	})
}

// present schedules the notes of the current sequence, starting after delay,
// then opens recall once the settle delay has passed
func (c *Controller) present(delay time.Duration) {
	sg := c.game.(SequenceGame)
	g := c.timers
	c.phase = PhasePresenting
	c.input = nil

	tempo := sg.Tempo(c.difficulty)
	for i, pad := range c.seq {
		g.After(delay+tempo*time.Duration(i+1), c.timed(g, func() {
			c.activePad = pad
			c.playNote(sg, pad)
		}))
	}
	end := delay + tempo*time.Duration(len(c.seq)) + sg.SettleDelay()
	g.After(end, c.timed(g, func() {
		c.phase = PhaseRecalling
		c.activePad = -1
	}))
}

func (c *Controller) randomSequence(sg SequenceGame, length int) []int {
	pads := len(sg.Pads())
	seq := make([]int, length)
	for i := range seq {
		seq[i] = c.rng.Intn(pads)
	}
	return seq
}

func (c *Controller) playNote(sg SequenceGame, pad int) {
	if np, ok := c.sound.(NotePlayer); ok {
		np.PlayNote(pad, sg.Pads()[pad])
	}
}
