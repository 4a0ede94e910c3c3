package engine

import (
	"context"
	"slices"
)

// Storyteller turns the picked items into a story. ok is false when the
// returned text is a fallback rather than a real story.
type Storyteller interface {
	Tell(ctx context.Context, picks []string) (story string, ok bool)
}

// TogglePick adds an item from the palette, or removes it when already picked.
// Adding beyond the pick limit is ignored.
func (c *Controller) TogglePick(item string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireRound(CategoryFreePlay); err != nil {
		return err
	}
	fg := c.game.(FreePlayGame)
	if !slices.Contains(fg.Palette(), item) {
		return ErrInvalidMove
	}
	if i := slices.Index(c.picks, item); i >= 0 {
		c.picks = slices.Delete(c.picks, i, i+1)
		return nil
	}
	if len(c.picks) < fg.PickLimit(c.difficulty) {
		c.picks = append(c.picks, item)
	}
	return nil
}

// Compose asks the storyteller for a story from the current picks. A real
// story completes the round; a fallback leaves it open for another try.
// The storyteller runs without the controller lock held.
func (c *Controller) Compose(ctx context.Context, teller Storyteller) (string, error) {
	c.mu.Lock()
	if err := c.requireRound(CategoryFreePlay); err != nil {
		c.mu.Unlock()
		return "", err
	}
	limit := c.game.(FreePlayGame).PickLimit(c.difficulty)
	if limit == 0 {
		c.mu.Unlock()
		return "", ErrWrongGame
	}
	if len(c.picks) < limit {
		c.mu.Unlock()
		return "", ErrPicksIncomplete
	}
	picks := append([]string(nil), c.picks...)
	epoch := c.epoch
	c.mu.Unlock()

	story, ok := teller.Tell(ctx, picks)

	_, err := c.do(func() (Result, error) {
		if c.state != StateInRound || c.epoch != epoch {
			return Result{}, ErrWrongState
		}
		c.story = story
		if ok {
			c.hit()
		}
		return c.result(ok), nil
	})
	return story, err
}

// Finish ends a free play round that needs no picks
func (c *Controller) Finish() (Result, error) {
	return c.do(func() (Result, error) {
		if err := c.requireRound(CategoryFreePlay); err != nil {
			return Result{}, err
		}
		if c.game.(FreePlayGame).PickLimit(c.difficulty) > 0 {
			return Result{}, ErrWrongGame
		}
		c.hit()
		return c.result(true), nil
	})
}
