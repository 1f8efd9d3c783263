package call

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCountdownBeforeStart(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	c := ComputeCountdown(start, 60, start.Add(-10*time.Minute))
	assert.Zero(t, c.Elapsed)
	assert.Equal(t, 60*time.Minute, c.Remaining)
	assert.False(t, c.Overtime)
}

func TestCountdownMidSession(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	c := ComputeCountdown(start, 60, start.Add(25*time.Minute))
	assert.Equal(t, 25*time.Minute, c.Elapsed)
	assert.Equal(t, 35*time.Minute, c.Remaining)
	assert.False(t, c.Overtime)
}

func TestCountdownOvertime(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	c := ComputeCountdown(start, 30, start.Add(45*time.Minute))
	assert.Equal(t, 45*time.Minute, c.Elapsed)
	assert.Zero(t, c.Remaining)
	assert.True(t, c.Overtime)
}

func TestCountdownAtExactEnd(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	c := ComputeCountdown(start, 30, start.Add(30*time.Minute))
	assert.Equal(t, 30*time.Minute, c.Elapsed)
	assert.Zero(t, c.Remaining)
	assert.False(t, c.Overtime, "the boundary instant is not yet overtime")
}
