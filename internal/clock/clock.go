package clock

import "time"

// Clock supplies "now" so overdue comparisons and dues proration can be
// driven deterministically in tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// Real returns a wall-clock backed Clock.
func Real() Clock { return realClock{} }

// Fixed is a Clock pinned to a single instant. Advance moves it forward.
type Fixed struct {
	Time time.Time
}

func NewFixed(t time.Time) *Fixed { return &Fixed{Time: t} }

func (f *Fixed) Now() time.Time { return f.Time }

func (f *Fixed) Advance(d time.Duration) { f.Time = f.Time.Add(d) }

func (f *Fixed) AdvanceDays(n int) { f.Time = f.Time.AddDate(0, 0, n) }
