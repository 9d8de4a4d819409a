package countdown

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRemaining(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		end  time.Time
		want Breakdown
	}{
		{"past end clamps to zero", now.Add(-time.Hour), Breakdown{}},
		{"exactly now", now, Breakdown{}},
		{"one of each", now.Add(90061 * time.Second), Breakdown{Days: 1, Hours: 1, Minutes: 1, Seconds: 1}},
		{"sub second dropped", now.Add(1500 * time.Millisecond), Breakdown{Seconds: 1}},
		{"many days", now.Add(10*24*time.Hour + 59*time.Second), Breakdown{Days: 10, Seconds: 59}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Remaining(now, tt.end))
		})
	}
}

func TestTimer_Run(t *testing.T) {
	t.Run("stops at zero", func(t *testing.T) {
		start := time.Now()
		timer := NewTimer(start.Add(2*time.Second), WithTick(time.Millisecond), WithClock(func() time.Time {
			return start.Add(time.Since(start) * 1000)
		}))

		var last Breakdown
		for b := range timer.Run(t.Context()) {
			last = b
		}

		require.True(t, last.Expired())
	})

	t.Run("past end sends zero once", func(t *testing.T) {
		timer := NewTimer(time.Now().Add(-time.Minute))

		var got []Breakdown
		for b := range timer.Run(t.Context()) {
			got = append(got, b)
		}

		require.Equal(t, []Breakdown{{}}, got)
	})

	t.Run("torn down on cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		timer := NewTimer(time.Now().Add(time.Hour), WithTick(time.Millisecond))

		ch := timer.Run(ctx)
		first := <-ch
		require.Equal(t, int64(59), first.Minutes)

		cancel()
		require.Eventually(t, func() bool {
			select {
			case _, ok := <-ch:
				return !ok
			default:
				return false
			}
		}, time.Second, time.Millisecond)
	})
}
