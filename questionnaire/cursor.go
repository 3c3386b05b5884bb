package questionnaire

import (
	"errors"
	"time"
)

var (
	ErrUnanswered = errors.New("current question has no recorded answer")
	ErrAtEnd      = errors.New("already at the last question")
	ErrAtStart    = errors.New("already at the first question")
)

// Cursor tracks the visible question index over 0..total-1 and the moment
// that question became visible. A rejected move leaves it untouched.
// A Cursor is not safe for concurrent use.
type Cursor struct {
	index    int
	total    int
	clock    Clock
	baseline time.Time
}

func NewCursor(total int, clock Clock) *Cursor {
	if total < 1 {
		violate("cursor", "cannot navigate %d questions", total)
	}
	if clock == nil {
		clock = SystemClock
	}
	return &Cursor{total: total, clock: clock, baseline: clock.Now()}
}

func (c *Cursor) Index() int { return c.index }

func (c *Cursor) Total() int { return c.total }

// IsLast reports whether the cursor sits on the final question.
func (c *Cursor) IsLast() bool { return c.index == c.total-1 }

// Baseline is the instant the current question became visible.
func (c *Cursor) Baseline() time.Time { return c.baseline }

// Elapsed returns the milliseconds since the baseline, never negative.
func (c *Cursor) Elapsed() int64 {
	ms := c.clock.Now().Sub(c.baseline).Milliseconds()
	if ms < 0 {
		return 0
	}
	return ms
}

// Progress is (index+1)/total*100.
func (c *Cursor) Progress() float64 {
	return float64(c.index+1) / float64(c.total) * 100
}

// Advance moves forward one question. answered tells whether the current
// question has a recorded answer; without one the move is rejected.
func (c *Cursor) Advance(answered bool) error {
	if !answered {
		return ErrUnanswered
	}
	if c.index+1 >= c.total {
		return ErrAtEnd
	}
	c.index++
	c.baseline = c.clock.Now()
	return nil
}

// Retreat moves back one question. The timer baseline restarts, so a
// re-selection after returning is timed from the return.
func (c *Cursor) Retreat() error {
	if c.index == 0 {
		return ErrAtStart
	}
	c.index--
	c.baseline = c.clock.Now()
	return nil
}
