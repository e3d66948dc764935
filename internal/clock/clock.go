package clock

import "time"

// Clock abstracts time.Now so upload names and session expiry can be pinned in tests.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant until moved.
type FixedClock struct {
	current time.Time
}

func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{current: t}
}

func (c *FixedClock) Now() time.Time { return c.current }

func (c *FixedClock) Advance(d time.Duration) { c.current = c.current.Add(d) }
