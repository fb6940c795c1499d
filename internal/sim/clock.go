package sim

import "time"

// WallClock measures real elapsed time on the monotonic clock.
type WallClock struct {
	last time.Time
	now  func() time.Time
}

func NewWallClock() *WallClock {
	return &WallClock{last: time.Now(), now: time.Now}
}

func (c *WallClock) Elapsed() float64 {
	t := c.now()
	dt := t.Sub(c.last).Seconds()
	c.last = t
	return dt
}

// FixedClock reports the same step every call.
type FixedClock struct {
	Dt float64
}

func (c FixedClock) Elapsed() float64 { return c.Dt }

// ScaledClock slows down or speeds up another clock.
type ScaledClock struct {
	Clock Clock
	Scale float64
}

func (c ScaledClock) Elapsed() float64 { return c.Clock.Elapsed() * c.Scale }
