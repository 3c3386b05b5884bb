package questionnaire

import (
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Tick(d time.Duration) { c.now = c.now.Add(d) }

func mustPanicInvariant(t *testing.T, fn func()) InvariantViolation {
	t.Helper()
	var got InvariantViolation
	func() {
		defer func() {
			r := recover()
			if r == nil {
				t.Fatalf("expected panic, got none")
			}
			v, ok := r.(InvariantViolation)
			if !ok {
				t.Fatalf("panic value = %#v, want InvariantViolation", r)
			}
			got = v
		}()
		fn()
	}()
	return got
}
