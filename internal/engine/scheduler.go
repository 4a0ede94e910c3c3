package engine

import (
	"context"
	"sync"
	"time"
)

// TimerID identifies a pending timer
type TimerID uint64

type timer struct {
	id    TimerID
	due   time.Duration
	every time.Duration
	fn    func()
}

// Scheduler is a virtual clock with one-shot and periodic timers.
// Time only moves when Advance is called, so tests control it exactly and
// realtime shells drive it from a ticker with Run.
type Scheduler struct {
	mu     sync.Mutex
	now    time.Duration
	nextID TimerID
	timers map[TimerID]*timer
}

// NewScheduler creates a scheduler at time zero
func NewScheduler() *Scheduler {
	return &Scheduler{timers: make(map[TimerID]*timer)}
}

// Now returns the elapsed virtual time
func (s *Scheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// After runs fn once, d from now
func (s *Scheduler) After(d time.Duration, fn func()) TimerID {
	return s.add(d, 0, fn)
}

// Every runs fn every d, first firing d from now
func (s *Scheduler) Every(d time.Duration, fn func()) TimerID {
	if d <= 0 {
		d = time.Millisecond
	}
	return s.add(d, d, fn)
}

func (s *Scheduler) add(d, every time.Duration, fn func()) TimerID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d < 0 {
		d = 0
	}
	s.nextID++
	id := s.nextID
	s.timers[id] = &timer{id: id, due: s.now + d, every: every, fn: fn}
	return id
}

// Cancel removes a timer. It reports whether the timer was still pending.
func (s *Scheduler) Cancel(id TimerID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[id]
	delete(s.timers, id)
	return ok
}

// Pending returns the number of live timers
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Advance moves the clock forward by d, firing due timers in order.
// Callbacks run without the scheduler lock held and may add or cancel timers.
func (s *Scheduler) Advance(d time.Duration) {
	s.mu.Lock()
	end := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		next := s.earliest(end)
		if next == nil {
			s.now = end
			s.mu.Unlock()
			return
		}
		s.now = next.due
		if next.every > 0 {
			next.due += next.every
		} else {
			delete(s.timers, next.id)
		}
		fn := next.fn
		s.mu.Unlock()

		fn()
	}
}

// earliest returns the first timer due at or before end, ties broken by creation order
func (s *Scheduler) earliest(end time.Duration) *timer {
	var best *timer
	for _, t := range s.timers {
		if t.due > end {
			continue
		}
		if best == nil || t.due < best.due || (t.due == best.due && t.id < best.id) {
			best = t
		}
	}
	return best
}

// Run advances the scheduler in real time until ctx is done.
// afterTick, when set, is called after every advance.
func (s *Scheduler) Run(ctx context.Context, tick time.Duration, afterTick func()) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Advance(now.Sub(last))
			last = now
			if afterTick != nil {
				afterTick()
			}
		}
	}
}

// Group owns a set of timers that are cancelled together
type Group struct {
	s         *Scheduler
	mu        sync.Mutex
	ids       []TimerID
	cancelled bool
}

// NewGroup creates an empty timer group on s
func (s *Scheduler) NewGroup() *Group {
	return &Group{s: s}
}

// After schedules a one-shot timer in the group
func (g *Group) After(d time.Duration, fn func()) TimerID {
	return g.track(g.s.After(d, g.guard(fn)))
}

// Every schedules a periodic timer in the group
func (g *Group) Every(d time.Duration, fn func()) TimerID {
	return g.track(g.s.Every(d, g.guard(fn)))
}

func (g *Group) track(id TimerID) TimerID {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancelled {
		g.s.Cancel(id)
		return id
	}
	g.ids = append(g.ids, id)
	return id
}

func (g *Group) guard(fn func()) func() {
	return func() {
		if g.Cancelled() {
			return
		}
		fn()
	}
}

// Cancel stops every timer in the group. Later additions are dropped.
func (g *Group) Cancel() {
	g.mu.Lock()
	ids := g.ids
	g.ids = nil
	g.cancelled = true
	g.mu.Unlock()

	g.s.mu.Lock()
	for _, id := range ids {
		delete(g.s.timers, id)
	}
	g.s.mu.Unlock()
}

// Cancelled reports whether Cancel was called
func (g *Group) Cancelled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cancelled
}
