package questionnaire

import (
	"errors"
	"testing"
	"time"
)

func TestCursorAdvanceRequiresAnswer(t *testing.T) {
	clock := newFakeClock()
	c := NewCursor(3, clock)
	start := c.Baseline()
	clock.Tick(time.Second)

	if err := c.Advance(false); !errors.Is(err, ErrUnanswered) {
		t.Fatalf("Advance(false) err = %v, want ErrUnanswered", err)
	}
	if c.Index() != 0 {
		t.Fatalf("index = %d after rejected advance, want 0", c.Index())
	}
	if !c.Baseline().Equal(start) {
		t.Fatalf("baseline moved on rejected advance")
	}
}

func TestCursorBounds(t *testing.T) {
	c := NewCursor(2, newFakeClock())

	if err := c.Retreat(); !errors.Is(err, ErrAtStart) {
		t.Fatalf("Retreat at 0 err = %v, want ErrAtStart", err)
	}
	if err := c.Advance(true); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if !c.IsLast() {
		t.Fatalf("IsLast = false at index %d", c.Index())
	}
	if err := c.Advance(true); !errors.Is(err, ErrAtEnd) {
		t.Fatalf("Advance at end err = %v, want ErrAtEnd", err)
	}
	if c.Index() != 1 {
		t.Fatalf("index = %d, want 1", c.Index())
	}
}

func TestCursorResetsBaselineOnEveryMove(t *testing.T) {
	clock := newFakeClock()
	c := NewCursor(3, clock)

	clock.Tick(4 * time.Second)
	if got := c.Elapsed(); got != 4000 {
		t.Fatalf("Elapsed = %d, want 4000", got)
	}
	if err := c.Advance(true); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if got := c.Elapsed(); got != 0 {
		t.Fatalf("Elapsed after advance = %d, want 0", got)
	}

	clock.Tick(1500 * time.Millisecond)
	if err := c.Retreat(); err != nil {
		t.Fatalf("Retreat: %v", err)
	}
	if got := c.Elapsed(); got != 0 {
		t.Fatalf("Elapsed after retreat = %d, want 0", got)
	}
	clock.Tick(250 * time.Millisecond)
	if got := c.Elapsed(); got != 250 {
		t.Fatalf("Elapsed = %d, want 250", got)
	}
}

func TestCursorElapsedNeverNegative(t *testing.T) {
	clock := newFakeClock()
	c := NewCursor(1, clock)
	clock.Tick(-time.Minute)
	if got := c.Elapsed(); got != 0 {
		t.Fatalf("Elapsed with clock skew = %d, want 0", got)
	}
}

func TestCursorProgressFollowsIndex(t *testing.T) {
	c := NewCursor(4, newFakeClock())
	want := []float64{25, 50, 75, 100}

	prev := 0.0
	for i, w := range want {
		p := c.Progress()
		if p != w {
			t.Fatalf("step %d: progress = %v, want %v", i, p, w)
		}
		if p < prev {
			t.Fatalf("progress decreased moving forward: %v -> %v", prev, p)
		}
		prev = p
		if i < len(want)-1 {
			if err := c.Advance(true); err != nil {
				t.Fatalf("Advance: %v", err)
			}
		}
	}

	if err := c.Retreat(); err != nil {
		t.Fatalf("Retreat: %v", err)
	}
	if p := c.Progress(); p != 75 {
		t.Fatalf("progress after retreat = %v, want 75", p)
	}
}

func TestNewCursorRejectsEmptySet(t *testing.T) {
	mustPanicInvariant(t, func() { NewCursor(0, nil) })
}
