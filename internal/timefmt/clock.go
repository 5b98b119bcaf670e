package timefmt

import "time"

// Clock supplies "now". Formatting never reads the wall clock directly.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// Fixed returns a clock stuck at t.
func Fixed(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}
