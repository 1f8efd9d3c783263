package call

import "time"

// Countdown is the elapsed/remaining view of a running session that drives
// the on-screen timer. Pure data, recomputed on demand.
type Countdown struct {
	Elapsed   time.Duration
	Remaining time.Duration
	Overtime  bool
}

// ComputeCountdown derives the timer state for a session at now. Before
// the scheduled start, Elapsed is zero and Remaining is the full duration.
// After the scheduled end, Remaining is zero and Overtime reports how the
// display should switch to counted-up overtime.
func ComputeCountdown(scheduledAt time.Time, durationMinutes int, now time.Time) Countdown {
	duration := time.Duration(durationMinutes) * time.Minute
	end := scheduledAt.Add(duration)

	c := Countdown{}
	if now.After(scheduledAt) {
		c.Elapsed = now.Sub(scheduledAt)
	}
	if now.Before(end) {
		c.Remaining = end.Sub(now)
		if c.Remaining > duration {
			c.Remaining = duration
		}
	}
	c.Overtime = now.After(end)
	return c
}
