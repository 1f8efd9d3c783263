// Package models defines the database row types for the hub server.
package models

import (
	"encoding/json"
	"time"

	"github.com/mentorhub/mentorhub/internal/common/uuid"
	"github.com/mentorhub/mentorhub/pkg/api"
	"github.com/mentorhub/mentorhub/pkg/types"
)

// Session is the durable reservation row. Rows are never deleted, only
// status-transitioned, to preserve the audit trail.
type Session struct {
	SessionID       uuid.UUID           `db:"session_id"`
	MentorID        uuid.UUID           `db:"mentor_id"`
	MenteeID        uuid.UUID           `db:"mentee_id"`
	ScheduledAt     time.Time           `db:"scheduled_at"`
	DurationMinutes int                 `db:"duration_minutes"`
	Status          types.SessionStatus `db:"status"`
	MeetingRoomRef  string              `db:"meeting_room_ref"`
	LessonNotes     string              `db:"lesson_notes"`
	Completion      json.RawMessage     `db:"completion"`
	Cancellation    json.RawMessage     `db:"cancellation"`
	CreatedAt       time.Time           `db:"created_at"`
	UpdatedAt       time.Time           `db:"updated_at"`
}

// EndsAt returns the scheduled end instant.
func (s *Session) EndsAt() time.Time {
	return s.ScheduledAt.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// ToAPI converts the row into its wire representation.
func (s *Session) ToAPI() (*api.Session, error) {
	out := &api.Session{
		ID:              s.SessionID,
		MentorID:        s.MentorID,
		MenteeID:        s.MenteeID,
		ScheduledAt:     s.ScheduledAt.UTC(),
		DurationMinutes: s.DurationMinutes,
		Status:          s.Status,
		MeetingRoomRef:  s.MeetingRoomRef,
		LessonNotes:     s.LessonNotes,
		CreatedAt:       s.CreatedAt.UTC(),
		UpdatedAt:       s.UpdatedAt.UTC(),
	}
	if len(s.Completion) > 0 {
		var completion api.SessionCompletion
		if err := json.Unmarshal(s.Completion, &completion); err != nil {
			return nil, err
		}
		out.Completion = &completion
	}
	if len(s.Cancellation) > 0 {
		var cancel api.SessionCancel
		if err := json.Unmarshal(s.Cancellation, &cancel); err != nil {
			return nil, err
		}
		out.Cancellation = &cancel
	}
	return out, nil
}
