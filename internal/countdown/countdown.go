// Package countdown computes the time left until an offer ends
package countdown

import (
	"context"
	"time"
)

type Breakdown struct {
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
}

// Expired reports all fields are zero
func (b Breakdown) Expired() bool {
	return b == Breakdown{}
}

// Remaining splits time left until end. End in the past gives zero in every field
func Remaining(now, end time.Time) Breakdown {
	total := int64(end.Sub(now) / time.Second)
	if total <= 0 {
		return Breakdown{}
	}

	return Breakdown{
		Days:    total / 86400,
		Hours:   total % 86400 / 3600,
		Minutes: total % 3600 / 60,
		Seconds: total % 60,
	}
}

// Timer recomputes breakdown once per tick until context is cancelled or end is reached
type Timer struct {
	end  time.Time
	tick time.Duration
	now  func() time.Time
}

type Option func(*Timer)

func WithTick(d time.Duration) Option {
	return func(t *Timer) { t.tick = d }
}

func WithClock(now func() time.Time) Option {
	return func(t *Timer) { t.now = now }
}

func NewTimer(end time.Time, opts ...Option) *Timer {
	t := &Timer{end: end, tick: time.Second, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Timer) Current() Breakdown {
	return Remaining(t.now(), t.end)
}

// Run sends the current breakdown immediately and then on every tick.
// Channel is closed after the zero breakdown is sent or when ctx is done.
func (t *Timer) Run(ctx context.Context) <-chan Breakdown {
	out := make(chan Breakdown, 1)

	go func() {
		defer close(out)

		ticker := time.NewTicker(t.tick)
		defer ticker.Stop()

		for {
			b := t.Current()
			select {
			case out <- b:
			case <-ctx.Done():
				return
			}
			if b.Expired() {
				return
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
