package types

import (
	"fmt"
	"time"
)

// Join-window policy constants. Fixed policy, not configurable per mentor.
const (
	// EarlyJoinMargin is how long before the scheduled start the room opens.
	EarlyJoinMargin = 15 * time.Minute
	// LateJoinCutoff is how long after the scheduled end the room stays open.
	LateJoinCutoff = 30 * time.Minute
)

// JoinDecision is the result of evaluating the join window for a session.
// When Allowed is false, Reason carries a human-readable explanation, except
// for status-based denials which carry no message variant.
type JoinDecision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// EvaluateJoinWindow decides whether a participant may enter the live room
// at the instant now. The window opens EarlyJoinMargin before the scheduled
// start and closes LateJoinCutoff after the scheduled end. Sessions outside
// CONFIRMED or IN_PROGRESS are denied outright.
//
// The decision is inherently time-varying and must be re-evaluated on every
// entry attempt, never cached.
func EvaluateJoinWindow(scheduledAt time.Time, durationMinutes int, status SessionStatus, now time.Time) JoinDecision {
	if status != SessionStatusConfirmed && status != SessionStatusInProgress {
		return JoinDecision{Allowed: false}
	}

	windowStart := scheduledAt.Add(-EarlyJoinMargin)
	windowEnd := scheduledAt.Add(time.Duration(durationMinutes) * time.Minute).Add(LateJoinCutoff)

	if now.Before(windowStart) {
		remaining := windowStart.Sub(now)
		minutes := int64(remaining / time.Minute)
		if remaining%time.Minute != 0 {
			minutes++
		}
		return JoinDecision{
			Allowed: false,
			Reason:  fmt.Sprintf("not yet available, %d minutes remaining", minutes),
		}
	}
	if now.After(windowEnd) {
		return JoinDecision{Allowed: false, Reason: "window expired"}
	}
	return JoinDecision{Allowed: true}
}
