// Package types defines shared domain types used by both the MentorHub
// server and its clients: session statuses and their transition rules,
// lesson durations, the completion topic vocabulary, and the join-window
// policy for live meetings.
package types

// SessionStatus is the closed set of states a session can be in.
// Sessions are never deleted, only status-transitioned.
type SessionStatus string

const (
	SessionStatusPendingConfirmation SessionStatus = "PENDING_CONFIRMATION"
	SessionStatusConfirmed           SessionStatus = "CONFIRMED"
	SessionStatusInProgress          SessionStatus = "IN_PROGRESS"
	SessionStatusCompleted           SessionStatus = "COMPLETED"
	SessionStatusCancelledByMentor   SessionStatus = "CANCELLED_BY_MENTOR"
	SessionStatusCancelledByMentee   SessionStatus = "CANCELLED_BY_MENTEE"
	SessionStatusNoShowMentor        SessionStatus = "NO_SHOW_MENTOR"
	SessionStatusNoShowMentee        SessionStatus = "NO_SHOW_MENTEE"
)

// IsValid reports whether the status is a member of the closed enum.
func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionStatusPendingConfirmation, SessionStatusConfirmed,
		SessionStatusInProgress, SessionStatusCompleted,
		SessionStatusCancelledByMentor, SessionStatusCancelledByMentee,
		SessionStatusNoShowMentor, SessionStatusNoShowMentee:
		return true
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
func (s SessionStatus) IsTerminal() bool {
	switch s {
	case SessionStatusCompleted,
		SessionStatusCancelledByMentor, SessionStatusCancelledByMentee,
		SessionStatusNoShowMentor, SessionStatusNoShowMentee:
		return true
	}
	return false
}

// IsCancelled reports whether the status is one of the cancellation branches.
func (s SessionStatus) IsCancelled() bool {
	return s == SessionStatusCancelledByMentor || s == SessionStatusCancelledByMentee
}

// sessionTransitions is the authoritative transition table. The server
// asserts it on every mutation; clients must never flip status locally.
var sessionTransitions = map[SessionStatus][]SessionStatus{
	SessionStatusPendingConfirmation: {
		SessionStatusConfirmed,
		SessionStatusCancelledByMentor,
		SessionStatusCancelledByMentee,
		SessionStatusNoShowMentor,
		SessionStatusNoShowMentee,
	},
	SessionStatusConfirmed: {
		SessionStatusInProgress,
		SessionStatusCancelledByMentor,
		SessionStatusCancelledByMentee,
		SessionStatusNoShowMentor,
		SessionStatusNoShowMentee,
	},
	SessionStatusInProgress: {
		SessionStatusCompleted,
	},
}

// CanTransitionTo reports whether the transition from s to target is allowed.
func (s SessionStatus) CanTransitionTo(target SessionStatus) bool {
	for _, allowed := range sessionTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// CancelActor identifies who requested a cancellation.
type CancelActor string

const (
	CancelActorMentor CancelActor = "mentor"
	CancelActorMentee CancelActor = "mentee"
)

// CancelledStatus returns the cancellation status corresponding to the actor.
func (a CancelActor) CancelledStatus() SessionStatus {
	if a == CancelActorMentor {
		return SessionStatusCancelledByMentor
	}
	return SessionStatusCancelledByMentee
}

// IsValid reports whether the actor is a known cancellation actor.
func (a CancelActor) IsValid() bool {
	return a == CancelActorMentor || a == CancelActorMentee
}
