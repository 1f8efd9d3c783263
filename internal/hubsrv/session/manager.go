// Package session implements the hub server's session lifecycle: booking,
// confirmation, cancellation, rescheduling, completion, and the meeting
// room/token exchange that admits participants to the live call. All status
// transitions are asserted here, server-side; clients only request them.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mentorhub/mentorhub/internal/common/apperrors"
	"github.com/mentorhub/mentorhub/internal/common/uuid"
	"github.com/mentorhub/mentorhub/internal/hubsrv/config"
	"github.com/mentorhub/mentorhub/internal/hubsrv/db"
	"github.com/mentorhub/mentorhub/internal/hubsrv/db/dberror"
	"github.com/mentorhub/mentorhub/internal/hubsrv/db/models"
	"github.com/mentorhub/mentorhub/internal/hubsrv/meeting"
	"github.com/mentorhub/mentorhub/internal/schedule"
	"github.com/mentorhub/mentorhub/pkg/api"
	"github.com/mentorhub/mentorhub/pkg/types"
)

// roomCloser tears down a live meeting room when its session leaves the
// joinable states. Satisfied by *meeting.Hub.
type roomCloser interface {
	CloseRoom(roomRef string)
}

// Manager owns the session lifecycle against the backing store.
type Manager struct {
	store db.Store
	rooms roomCloser
	now   func() time.Time
}

// NewManager returns a Manager backed by store. rooms may be nil when no
// live hub is attached (the CLI test harness does this).
func NewManager(store db.Store, rooms roomCloser) *Manager {
	return &Manager{
		store: store,
		rooms: rooms,
		now:   time.Now,
	}
}

func (m *Manager) closeRoom(ref string) {
	if m.rooms != nil && ref != "" {
		m.rooms.CloseRoom(ref)
	}
}

// Create books a new session for menteeID against the mentor's published
// availability. The requested start must be a slot the calculator would
// offer: inside the mentor's weekly availability, aligned to the slot
// granularity, in the future, and clear of the mentor's other active
// sessions. The store re-checks the overlap under a per-mentor lock, so two
// racing bookings cannot both land.
func (m *Manager) Create(ctx context.Context, menteeID uuid.UUID, req *api.CreateSessionRequest) (*api.Session, apperrors.Error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if menteeID == req.MentorID {
		return nil, ErrInvalidRequest.Msg("mentor and mentee cannot be the same user")
	}

	now := m.now()
	if !req.ScheduledAt.After(now) {
		return nil, ErrScheduledInPast
	}

	if err := m.assertBookable(ctx, req.MentorID, req.ScheduledAt, req.DurationMinutes, uuid.Nil); err != nil {
		return nil, err
	}

	row := &models.Session{
		SessionID:       uuid.New(),
		MentorID:        req.MentorID,
		MenteeID:        menteeID,
		ScheduledAt:     req.ScheduledAt.UTC(),
		DurationMinutes: req.DurationMinutes,
		Status:          types.SessionStatusPendingConfirmation,
		LessonNotes:     req.LessonNotes,
	}
	row.MeetingRoomRef = meeting.NewRoomRef(row.SessionID)

	if err := m.store.CreateSession(ctx, row); err != nil {
		return nil, err
	}
	log.Ctx(ctx).Info().
		Str("session_id", row.SessionID.String()).
		Str("mentor_id", row.MentorID.String()).
		Time("scheduled_at", row.ScheduledAt).
		Msg("session booked")
	return m.toAPI(ctx, row)
}

// Get returns one session. Only its two participants may read it.
func (m *Manager) Get(ctx context.Context, userID, sessionID uuid.UUID) (*api.Session, apperrors.Error) {
	row, err := m.loadForParticipant(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return m.toAPI(ctx, row)
}

// ListFilter narrows a session listing.
type ListFilter struct {
	Status types.SessionStatus
	Limit  int
	Offset int
}

// List returns a page of the caller's sessions, most recent schedule first.
// HasMore reports whether another page exists; it is derived by fetching one
// row past the requested limit.
func (m *Manager) List(ctx context.Context, userID uuid.UUID, filter ListFilter) (*api.ListSessionsResponse, apperrors.Error) {
	cfg := config.Config().Session
	limit := filter.Limit
	if limit <= 0 {
		limit = cfg.DefaultPageSize
	}
	if limit > cfg.MaxPageSize {
		limit = cfg.MaxPageSize
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, ErrInvalidRequest.Msg("unknown status filter")
	}

	storeFilter := db.SessionFilter{
		ParticipantID: userID,
		Limit:         limit + 1,
		Offset:        filter.Offset,
	}
	if filter.Status != "" {
		storeFilter.Status = &filter.Status
	}
	rows, err := m.store.ListSessions(ctx, storeFilter)
	if err != nil {
		return nil, err
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	out := &api.ListSessionsResponse{
		Sessions: make([]api.Session, 0, len(rows)),
		HasMore:  hasMore,
	}
	for _, row := range rows {
		s, convErr := m.toAPI(ctx, row)
		if convErr != nil {
			return nil, convErr
		}
		out.Sessions = append(out.Sessions, *s)
	}
	return out, nil
}

// Confirm moves a pending session to CONFIRMED. Only the mentor confirms.
// Confirming an already-confirmed session is a no-op.
func (m *Manager) Confirm(ctx context.Context, userID, sessionID uuid.UUID) (*api.Session, apperrors.Error) {
	row, err := m.loadForParticipant(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if row.MentorID != userID {
		return nil, ErrMentorOnly
	}
	if row.Status == types.SessionStatusConfirmed {
		return m.toAPI(ctx, row)
	}
	if !row.Status.CanTransitionTo(types.SessionStatusConfirmed) {
		return nil, ErrInvalidTransition.Msg("cannot confirm from status " + string(row.Status))
	}

	row.Status = types.SessionStatusConfirmed
	if err := m.store.UpdateSession(ctx, row); err != nil {
		return nil, err
	}
	log.Ctx(ctx).Info().Str("session_id", sessionID.String()).Msg("session confirmed")
	return m.toAPI(ctx, row)
}

// Cancel cancels a session on behalf of the calling participant. The
// resulting status records which side cancelled. Cancelling a session that
// is already cancelled is a no-op; cancelling a completed session is an
// error.
func (m *Manager) Cancel(ctx context.Context, userID, sessionID uuid.UUID, req *api.CancelSessionRequest) (*api.Session, apperrors.Error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	row, err := m.loadForParticipant(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if row.Status.IsCancelled() {
		return m.toAPI(ctx, row)
	}
	if row.Status == types.SessionStatusCompleted {
		return nil, ErrAlreadyCompleted
	}

	actor := types.CancelActorMentee
	if row.MentorID == userID {
		actor = types.CancelActorMentor
	}
	target := actor.CancelledStatus()
	if !row.Status.CanTransitionTo(target) {
		return nil, ErrInvalidTransition.Msg("cannot cancel from status " + string(row.Status))
	}

	cancellation, marshalErr := json.Marshal(api.SessionCancel{Actor: actor, Reason: req.Reason})
	if marshalErr != nil {
		return nil, ErrSessionError.Err(marshalErr)
	}
	row.Status = target
	row.Cancellation = cancellation
	if err := m.store.UpdateSession(ctx, row); err != nil {
		return nil, err
	}
	m.closeRoom(row.MeetingRoomRef)
	log.Ctx(ctx).Info().
		Str("session_id", sessionID.String()).
		Str("cancelled_by", string(actor)).
		Msg("session cancelled")
	return m.toAPI(ctx, row)
}

// Reschedule moves a pending or confirmed session to a new start time. The
// new start is validated like a fresh booking, the meeting room reference is
// reissued so tokens for the old room die with it, and the session returns
// to PENDING_CONFIRMATION for the mentor to re-confirm.
func (m *Manager) Reschedule(ctx context.Context, userID, sessionID uuid.UUID, req *api.RescheduleSessionRequest) (*api.Session, apperrors.Error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	row, err := m.loadForParticipant(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	switch row.Status {
	case types.SessionStatusPendingConfirmation, types.SessionStatusConfirmed:
	default:
		return nil, ErrInvalidTransition.Msg("cannot reschedule from status " + string(row.Status))
	}
	if !req.ScheduledAt.After(m.now()) {
		return nil, ErrScheduledInPast
	}
	if err := m.assertBookable(ctx, row.MentorID, req.ScheduledAt, row.DurationMinutes, row.SessionID); err != nil {
		return nil, err
	}

	oldRoom := row.MeetingRoomRef
	row.ScheduledAt = req.ScheduledAt.UTC()
	row.Status = types.SessionStatusPendingConfirmation
	row.MeetingRoomRef = meeting.NewRoomRef(row.SessionID)
	if err := m.store.RescheduleSession(ctx, row); err != nil {
		return nil, err
	}
	m.closeRoom(oldRoom)
	log.Ctx(ctx).Info().
		Str("session_id", sessionID.String()).
		Time("scheduled_at", row.ScheduledAt).
		Msg("session rescheduled")
	return m.toAPI(ctx, row)
}

// Complete finalizes a session with the mentor-supplied outcome. Only the
// mentor completes, only from IN_PROGRESS, and only once.
func (m *Manager) Complete(ctx context.Context, userID, sessionID uuid.UUID, req *api.CompleteSessionRequest) (*api.Session, apperrors.Error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	row, err := m.loadForParticipant(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if row.MentorID != userID {
		return nil, ErrMentorOnly
	}
	if row.Status == types.SessionStatusCompleted {
		return nil, ErrAlreadyCompleted
	}
	if !row.Status.CanTransitionTo(types.SessionStatusCompleted) {
		return nil, ErrInvalidTransition.Msg("cannot complete from status " + string(row.Status))
	}

	completion, marshalErr := json.Marshal(api.SessionCompletion{
		Notes:         req.Notes,
		TopicsCovered: req.TopicsCovered,
		MasteryLevel:  req.MasteryLevel,
	})
	if marshalErr != nil {
		return nil, ErrSessionError.Err(marshalErr)
	}
	row.Status = types.SessionStatusCompleted
	row.Completion = completion
	if err := m.store.UpdateSession(ctx, row); err != nil {
		return nil, err
	}
	m.closeRoom(row.MeetingRoomRef)
	log.Ctx(ctx).Info().Str("session_id", sessionID.String()).Msg("session completed")
	return m.toAPI(ctx, row)
}

// MarkNoShow records that the counterpart never joined. Either participant
// may report the other side absent, but only once the scheduled start has
// passed and only while the session is still pending or confirmed.
func (m *Manager) MarkNoShow(ctx context.Context, userID, sessionID uuid.UUID) (*api.Session, apperrors.Error) {
	row, err := m.loadForParticipant(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if m.now().Before(row.ScheduledAt) {
		return nil, ErrInvalidRequest.Msg("session has not started yet")
	}

	// the absent party is the one who is not reporting
	target := types.SessionStatusNoShowMentor
	if row.MentorID == userID {
		target = types.SessionStatusNoShowMentee
	}
	if !row.Status.CanTransitionTo(target) {
		return nil, ErrInvalidTransition.Msg("cannot record no-show from status " + string(row.Status))
	}

	row.Status = target
	if err := m.store.UpdateSession(ctx, row); err != nil {
		return nil, err
	}
	m.closeRoom(row.MeetingRoomRef)
	log.Ctx(ctx).Info().
		Str("session_id", sessionID.String()).
		Str("status", string(target)).
		Msg("no-show recorded")
	return m.toAPI(ctx, row)
}

// Room returns the meeting room reference for a session, gated by the join
// window: from fifteen minutes before the scheduled start until thirty
// minutes after the scheduled end, and only for confirmed or in-progress
// sessions.
func (m *Manager) Room(ctx context.Context, userID, sessionID uuid.UUID) (*api.MeetingRoomResponse, apperrors.Error) {
	row, err := m.gateJoin(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return &api.MeetingRoomResponse{MeetingURL: row.MeetingRoomRef}, nil
}

// Token issues a short-lived room access token for the calling participant.
// The token expires when the join window does, so it cannot outlive the
// room. Issuing the first token against a confirmed session moves it to
// IN_PROGRESS.
func (m *Manager) Token(ctx context.Context, userID, sessionID uuid.UUID) (*api.MeetingTokenResponse, apperrors.Error) {
	row, err := m.gateJoin(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if row.Status == types.SessionStatusConfirmed {
		row.Status = types.SessionStatusInProgress
		if err := m.store.UpdateSession(ctx, row); err != nil {
			return nil, err
		}
		log.Ctx(ctx).Info().Str("session_id", sessionID.String()).Msg("session in progress")
	}

	role := meeting.RoleMentee
	if row.MentorID == userID {
		role = meeting.RoleMentor
	}
	expiresAt := row.EndsAt().Add(types.LateJoinCutoff)
	token, err := meeting.CreateToken(ctx, row.SessionID, row.MeetingRoomRef, userID, role, expiresAt)
	if err != nil {
		return nil, err
	}
	return &api.MeetingTokenResponse{Token: token, ExpiresAt: expiresAt.UTC()}, nil
}

// Slots computes the bookable slots for a mentor over a date range, in the
// caller's display timezone.
func (m *Manager) Slots(ctx context.Context, mentorID uuid.UUID, from, to time.Time, durationMinutes int, displayTZ string) (*api.ListSlotsResponse, apperrors.Error) {
	if !types.IsValidDuration(durationMinutes) {
		return nil, ErrInvalidRequest.Msg("unsupported lesson duration")
	}
	loc, locErr := time.LoadLocation(displayTZ)
	if locErr != nil {
		return nil, ErrInvalidRequest.Msg("unknown timezone " + displayTZ)
	}
	maxRange := time.Duration(config.Config().Session.MaxSlotRangeDays) * 24 * time.Hour
	if to.Sub(from) > maxRange {
		return nil, ErrSlotRangeTooLarge
	}

	availability, err := m.loadAvailability(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	booked, err := m.bookedIntervals(ctx, mentorID, from, to)
	if err != nil {
		return nil, err
	}

	slots, computeErr := schedule.Compute(schedule.Request{
		Availability: availability,
		From:         from,
		To:           to,
		Booked:       booked,
		Duration:     time.Duration(durationMinutes) * time.Minute,
		DisplayZone:  loc,
		Now:          m.now(),
	})
	if computeErr != nil {
		return nil, ErrSessionError.Err(computeErr)
	}
	return &api.ListSlotsResponse{Slots: slots}, nil
}

// assertBookable verifies that (start, duration) is a slot the calculator
// would offer for this mentor, excluding excludeSession's own interval when
// rescheduling.
func (m *Manager) assertBookable(ctx context.Context, mentorID uuid.UUID, start time.Time, durationMinutes int, excludeSession uuid.UUID) apperrors.Error {
	availability, err := m.loadAvailability(ctx, mentorID)
	if err != nil {
		return err
	}

	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	rows, err := m.store.ListActiveMentorSessions(ctx, mentorID, start.Add(-24*time.Hour), end.Add(24*time.Hour))
	if err != nil {
		return err
	}
	booked := make([]schedule.BookedInterval, 0, len(rows))
	for _, row := range rows {
		if row.SessionID == excludeSession {
			continue
		}
		booked = append(booked, schedule.BookedInterval{Start: row.ScheduledAt, End: row.EndsAt()})
	}

	slots, computeErr := schedule.Compute(schedule.Request{
		Availability: availability,
		From:         start.Add(-24 * time.Hour),
		To:           end.Add(24 * time.Hour),
		Booked:       booked,
		Duration:     time.Duration(durationMinutes) * time.Minute,
		DisplayZone:  time.UTC,
		Now:          m.now(),
	})
	if computeErr != nil {
		return ErrSessionError.Err(computeErr)
	}
	for _, slot := range slots {
		if slot.Start.Equal(start) {
			return nil
		}
	}
	return ErrInvalidRequest.Msg("requested time is not an available slot")
}

func (m *Manager) loadAvailability(ctx context.Context, mentorID uuid.UUID) (api.WeeklyAvailability, apperrors.Error) {
	row, err := m.store.GetAvailability(ctx, mentorID)
	if err != nil {
		if errors.Is(err, dberror.ErrNotFound) {
			return api.WeeklyAvailability{}, ErrUnknownMentor
		}
		return api.WeeklyAvailability{}, err
	}
	availability, convErr := row.ToAPI()
	if convErr != nil {
		return api.WeeklyAvailability{}, ErrSessionError.Err(convErr)
	}
	return availability, nil
}

func (m *Manager) bookedIntervals(ctx context.Context, mentorID uuid.UUID, from, to time.Time) ([]schedule.BookedInterval, apperrors.Error) {
	rows, err := m.store.ListActiveMentorSessions(ctx, mentorID, from, to.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}
	booked := make([]schedule.BookedInterval, 0, len(rows))
	for _, row := range rows {
		booked = append(booked, schedule.BookedInterval{Start: row.ScheduledAt, End: row.EndsAt()})
	}
	return booked, nil
}

// gateJoin loads the session for a participant and applies the join-window
// gate shared with clients.
func (m *Manager) gateJoin(ctx context.Context, userID, sessionID uuid.UUID) (*models.Session, apperrors.Error) {
	row, err := m.loadForParticipant(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	decision := types.EvaluateJoinWindow(row.ScheduledAt, row.DurationMinutes, row.Status, m.now())
	if !decision.Allowed {
		if decision.Reason != "" {
			return nil, ErrJoinWindowClosed.Msg(decision.Reason)
		}
		return nil, ErrJoinWindowClosed.Msg("session is not joinable in status " + string(row.Status))
	}
	return row, nil
}

func (m *Manager) loadForParticipant(ctx context.Context, userID, sessionID uuid.UUID) (*models.Session, apperrors.Error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUser
	}
	row, err := m.store.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, dberror.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if row.MentorID != userID && row.MenteeID != userID {
		// hide existence from non-participants
		return nil, ErrNotFound
	}
	return row, nil
}

func (m *Manager) toAPI(ctx context.Context, row *models.Session) (*api.Session, apperrors.Error) {
	out, err := row.ToAPI()
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("session_id", row.SessionID.String()).Msg("corrupt session row")
		return nil, ErrSessionError.Err(err)
	}
	return out, nil
}
