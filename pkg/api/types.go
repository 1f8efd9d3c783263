// Package api defines the wire contracts between the MentorHub server and
// its clients: session resources, booking requests, slot listings, and the
// meeting room/token exchange.
package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/mentorhub/mentorhub/pkg/types"
)

// Session is the durable reservation as exchanged over the wire.
// Timestamps are UTC instants.
type Session struct {
	ID              uuid.UUID           `json:"id"`
	MentorID        uuid.UUID           `json:"mentorId"`
	MenteeID        uuid.UUID           `json:"menteeId"`
	ScheduledAt     time.Time           `json:"scheduledAt"`
	DurationMinutes int                 `json:"durationMinutes"`
	Status          types.SessionStatus `json:"status"`
	MeetingRoomRef  string              `json:"meetingRoomRef,omitempty"`
	LessonNotes     string              `json:"lessonNotes,omitempty"`
	Completion      *SessionCompletion  `json:"completion,omitempty"`
	Cancellation    *SessionCancel      `json:"cancellation,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// EndsAt returns the scheduled end instant of the session.
func (s *Session) EndsAt() time.Time {
	return s.ScheduledAt.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// JoinWindow evaluates the live-room join window for this session at now.
func (s *Session) JoinWindow(now time.Time) types.JoinDecision {
	return types.EvaluateJoinWindow(s.ScheduledAt, s.DurationMinutes, s.Status, now)
}

// SessionCompletion carries the mentor-supplied outcome of a session.
type SessionCompletion struct {
	Notes         string   `json:"notes,omitempty"`
	TopicsCovered []string `json:"topicsCovered,omitempty"`
	MasteryLevel  *int     `json:"masteryLevel,omitempty"`
}

// SessionCancel records who cancelled a session and why.
type SessionCancel struct {
	Actor  types.CancelActor `json:"actor"`
	Reason string            `json:"reason,omitempty"`
}

// CreateSessionRequest is the payload for booking a new session.
type CreateSessionRequest struct {
	MentorID        uuid.UUID `json:"mentorId" validate:"required"`
	ScheduledAt     time.Time `json:"scheduledAt" validate:"required"`
	DurationMinutes int       `json:"durationMinutes" validate:"required,lessonDuration"`
	Timezone        string    `json:"timezone" validate:"required,timezoneName"`
	LessonNotes     string    `json:"lessonNotes" validate:"omitempty,max=2000"`
}

// ListSessionsResponse is a page of sessions.
type ListSessionsResponse struct {
	Sessions []Session `json:"sessions"`
	HasMore  bool      `json:"hasMore"`
}

// CancelSessionRequest is the payload for cancelling a session.
type CancelSessionRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// RescheduleSessionRequest moves a session to a new start time.
type RescheduleSessionRequest struct {
	ScheduledAt time.Time `json:"scheduledAt" validate:"required"`
}

// CompleteSessionRequest is the payload for finalizing a session with the
// mentor-supplied outcome. All outcome fields are optional; the topic tags
// must come from the fixed vocabulary and the mastery level is 0-100 in
// steps of 5.
type CompleteSessionRequest struct {
	Notes         string   `json:"notes" validate:"omitempty,max=5000"`
	TopicsCovered []string `json:"topicsCovered" validate:"omitempty,dive,lessonTopic"`
	MasteryLevel  *int     `json:"masteryLevel" validate:"omitempty,masteryLevel"`
}

// MeetingRoomResponse carries the room reference for a session's live call.
type MeetingRoomResponse struct {
	MeetingURL string `json:"meeting_url"`
}

// MeetingTokenResponse carries a short-lived per-user room access token.
type MeetingTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// BookingSlot is a concrete bookable interval, expressed in the requesting
// mentee's timezone. Derived, never stored.
type BookingSlot struct {
	Date  string    `json:"date"` // YYYY-MM-DD in the display timezone
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ListSlotsResponse is the set of bookable slots for a mentor.
type ListSlotsResponse struct {
	Slots []BookingSlot `json:"slots"`
}

// TimeOfDayInterval is a (start, end) pair of minutes since local midnight.
type TimeOfDayInterval struct {
	StartMinute int `json:"startMinute"`
	EndMinute   int `json:"endMinute"`
}

// DayAvailability is the set of open intervals for one weekday.
// Weekday follows time.Weekday numbering: 0 is Sunday.
type DayAvailability struct {
	Weekday   int                 `json:"weekday"`
	Intervals []TimeOfDayInterval `json:"intervals"`
}

// WeeklyAvailability is a mentor's recurring weekly availability, stored in
// the mentor's own timezone. Intervals within a day are non-overlapping and
// ordered. Read-only to everything but the mentor's settings flow.
type WeeklyAvailability struct {
	Timezone string            `json:"timezone"`
	Days     []DayAvailability `json:"days"`
}

// PutAvailabilityRequest replaces a mentor's weekly availability.
type PutAvailabilityRequest struct {
	Availability WeeklyAvailability `json:"availability"`
}
