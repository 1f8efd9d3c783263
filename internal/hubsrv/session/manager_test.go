package session

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorhub/mentorhub/internal/common/apperrors"
	"github.com/mentorhub/mentorhub/internal/common/uuid"
	"github.com/mentorhub/mentorhub/internal/hubsrv/config"
	"github.com/mentorhub/mentorhub/internal/hubsrv/db"
	"github.com/mentorhub/mentorhub/internal/hubsrv/db/dberror"
	"github.com/mentorhub/mentorhub/internal/hubsrv/db/models"
	"github.com/mentorhub/mentorhub/pkg/api"
	"github.com/mentorhub/mentorhub/pkg/types"
)

// memStore is an in-memory db.Store used by the manager tests. It mirrors
// the overlap guard of the real store so booking conflicts surface the same
// sentinel.
type memStore struct {
	sessions     map[uuid.UUID]*models.Session
	availability map[uuid.UUID]*models.MentorAvailability
}

func newMemStore() *memStore {
	return &memStore{
		sessions:     make(map[uuid.UUID]*models.Session),
		availability: make(map[uuid.UUID]*models.MentorAvailability),
	}
}

func (s *memStore) overlaps(mentorID, exclude uuid.UUID, start, end time.Time) bool {
	for _, row := range s.sessions {
		if row.MentorID != mentorID || row.SessionID == exclude || row.Status.IsTerminal() {
			continue
		}
		if start.Before(row.EndsAt()) && row.ScheduledAt.Before(end) {
			return true
		}
	}
	return false
}

func (s *memStore) CreateSession(_ context.Context, session *models.Session) apperrors.Error {
	if s.overlaps(session.MentorID, session.SessionID, session.ScheduledAt, session.EndsAt()) {
		return dberror.ErrSlotConflict
	}
	session.CreatedAt = time.Now().UTC()
	session.UpdatedAt = session.CreatedAt
	cp := *session
	s.sessions[session.SessionID] = &cp
	return nil
}

func (s *memStore) GetSession(_ context.Context, sessionID uuid.UUID) (*models.Session, apperrors.Error) {
	row, ok := s.sessions[sessionID]
	if !ok {
		return nil, dberror.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (s *memStore) ListSessions(_ context.Context, filter db.SessionFilter) ([]*models.Session, apperrors.Error) {
	var rows []*models.Session
	for _, row := range s.sessions {
		if filter.ParticipantID != uuid.Nil && row.MentorID != filter.ParticipantID && row.MenteeID != filter.ParticipantID {
			continue
		}
		if filter.Status != nil && row.Status != *filter.Status {
			continue
		}
		cp := *row
		rows = append(rows, &cp)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ScheduledAt.After(rows[j].ScheduledAt) })
	if filter.Offset > 0 {
		if filter.Offset >= len(rows) {
			return nil, nil
		}
		rows = rows[filter.Offset:]
	}
	if filter.Limit > 0 && len(rows) > filter.Limit {
		rows = rows[:filter.Limit]
	}
	return rows, nil
}

func (s *memStore) UpdateSession(_ context.Context, session *models.Session) apperrors.Error {
	if _, ok := s.sessions[session.SessionID]; !ok {
		return dberror.ErrNotFound
	}
	session.UpdatedAt = time.Now().UTC()
	cp := *session
	s.sessions[session.SessionID] = &cp
	return nil
}

func (s *memStore) RescheduleSession(ctx context.Context, session *models.Session) apperrors.Error {
	if s.overlaps(session.MentorID, session.SessionID, session.ScheduledAt, session.EndsAt()) {
		return dberror.ErrSlotConflict
	}
	return s.UpdateSession(ctx, session)
}

func (s *memStore) ListActiveMentorSessions(_ context.Context, mentorID uuid.UUID, from, to time.Time) ([]*models.Session, apperrors.Error) {
	var rows []*models.Session
	for _, row := range s.sessions {
		if row.MentorID != mentorID || row.Status.IsTerminal() {
			continue
		}
		if row.ScheduledAt.Before(to) && from.Before(row.EndsAt()) {
			cp := *row
			rows = append(rows, &cp)
		}
	}
	return rows, nil
}

func (s *memStore) GetAvailability(_ context.Context, mentorID uuid.UUID) (*models.MentorAvailability, apperrors.Error) {
	row, ok := s.availability[mentorID]
	if !ok {
		return nil, dberror.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (s *memStore) PutAvailability(_ context.Context, availability *models.MentorAvailability) apperrors.Error {
	availability.UpdatedAt = time.Now().UTC()
	cp := *availability
	s.availability[availability.MentorID] = &cp
	return nil
}

func (s *memStore) Ping(context.Context) error { return nil }

func (s *memStore) Close() error { return nil }

type closedRooms struct {
	refs []string
}

func (c *closedRooms) CloseRoom(ref string) { c.refs = append(c.refs, ref) }

type fixture struct {
	t        *testing.T
	mgr      *Manager
	store    *memStore
	rooms    *closedRooms
	mentorID uuid.UUID
	menteeID uuid.UUID
	now      time.Time
}

// newFixture sets up a mentor available every day from 09:00 to 17:00 UTC
// and pins the clock to Monday 2026-03-02 08:00 UTC.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	config.TestInit()

	f := &fixture{
		t:        t,
		store:    newMemStore(),
		rooms:    &closedRooms{},
		mentorID: uuid.New(),
		menteeID: uuid.New(),
		now:      time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
	}
	f.mgr = NewManager(f.store, f.rooms)
	f.mgr.now = func() time.Time { return f.now }

	days := make([]api.DayAvailability, 0, 7)
	for wd := 0; wd < 7; wd++ {
		days = append(days, api.DayAvailability{
			Weekday:   wd,
			Intervals: []api.TimeOfDayInterval{{StartMinute: 9 * 60, EndMinute: 17 * 60}},
		})
	}
	_, err := f.mgr.PutAvailability(context.Background(), f.mentorID, f.mentorID, &api.PutAvailabilityRequest{
		Availability: api.WeeklyAvailability{Timezone: "UTC", Days: days},
	})
	require.NoError(t, err)
	return f
}

func (f *fixture) book(start time.Time, minutes int) *api.Session {
	f.t.Helper()
	session, err := f.mgr.Create(context.Background(), f.menteeID, &api.CreateSessionRequest{
		MentorID:        f.mentorID,
		ScheduledAt:     start,
		DurationMinutes: minutes,
		Timezone:        "UTC",
	})
	require.NoError(f.t, err)
	return session
}

// confirmed books a session at the given start and confirms it as mentor.
func (f *fixture) confirmed(start time.Time, minutes int) *api.Session {
	f.t.Helper()
	session := f.book(start, minutes)
	session, err := f.mgr.Confirm(context.Background(), f.mentorID, session.ID)
	require.NoError(f.t, err)
	return session
}

func TestCreateSession(t *testing.T) {
	f := newFixture(t)
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	session := f.book(start, 60)
	assert.Equal(t, types.SessionStatusPendingConfirmation, session.Status)
	assert.Equal(t, f.mentorID, session.MentorID)
	assert.Equal(t, f.menteeID, session.MenteeID)
	assert.True(t, session.ScheduledAt.Equal(start))
	assert.NotEmpty(t, session.MeetingRoomRef)
}

func TestCreateSessionRejectsUnalignedStart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.mgr.Create(ctx, f.menteeID, &api.CreateSessionRequest{
		MentorID:        f.mentorID,
		ScheduledAt:     time.Date(2026, 3, 2, 10, 7, 0, 0, time.UTC),
		DurationMinutes: 60,
		Timezone:        "UTC",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestCreateSessionRejectsOutsideAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.mgr.Create(ctx, f.menteeID, &api.CreateSessionRequest{
		MentorID:        f.mentorID,
		ScheduledAt:     time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		Timezone:        "UTC",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestCreateSessionRejectsOverlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.book(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), 60)

	// a second booking intersecting [10:00, 11:00) is not offered as a slot
	_, err := f.mgr.Create(ctx, f.menteeID, &api.CreateSessionRequest{
		MentorID:        f.mentorID,
		ScheduledAt:     time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC),
		DurationMinutes: 60,
		Timezone:        "UTC",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestCreateSessionRejectsPastStart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.mgr.Create(ctx, f.menteeID, &api.CreateSessionRequest{
		MentorID:        f.mentorID,
		ScheduledAt:     f.now.Add(-time.Hour),
		DurationMinutes: 60,
		Timezone:        "UTC",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrScheduledInPast)
}

func TestCreateSessionUnknownMentor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.mgr.Create(ctx, f.menteeID, &api.CreateSessionRequest{
		MentorID:        uuid.New(),
		ScheduledAt:     time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		Timezone:        "UTC",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownMentor)
}

func TestCreateSessionRejectsInvalidDuration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.mgr.Create(ctx, f.menteeID, &api.CreateSessionRequest{
		MentorID:        f.mentorID,
		ScheduledAt:     time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 50,
		Timezone:        "UTC",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestConfirmSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.book(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), 60)

	// only the mentor confirms
	_, err := f.mgr.Confirm(ctx, f.menteeID, session.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMentorOnly)

	confirmed, err := f.mgr.Confirm(ctx, f.mentorID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, types.SessionStatusConfirmed, confirmed.Status)

	// confirming again is a no-op
	again, err := f.mgr.Confirm(ctx, f.mentorID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, types.SessionStatusConfirmed, again.Status)
}

func TestCancelSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.confirmed(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), 60)

	cancelled, err := f.mgr.Cancel(ctx, f.menteeID, session.ID, &api.CancelSessionRequest{Reason: "sick"})
	require.NoError(t, err)
	assert.Equal(t, types.SessionStatusCancelledByMentee, cancelled.Status)
	require.NotNil(t, cancelled.Cancellation)
	assert.Equal(t, types.CancelActorMentee, cancelled.Cancellation.Actor)
	assert.Equal(t, "sick", cancelled.Cancellation.Reason)
	assert.Contains(t, f.rooms.refs, session.MeetingRoomRef)

	// cancelling an already-cancelled session is a no-op
	again, err := f.mgr.Cancel(ctx, f.mentorID, session.ID, &api.CancelSessionRequest{})
	require.NoError(t, err)
	assert.Equal(t, types.SessionStatusCancelledByMentee, again.Status)
}

func TestCancelByMentor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.book(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), 60)

	cancelled, err := f.mgr.Cancel(ctx, f.mentorID, session.ID, &api.CancelSessionRequest{})
	require.NoError(t, err)
	assert.Equal(t, types.SessionStatusCancelledByMentor, cancelled.Status)
}

func TestSessionHiddenFromNonParticipants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.book(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), 60)

	_, err := f.mgr.Get(ctx, uuid.New(), session.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMeetingTokenGate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	session := f.confirmed(start, 60)

	// 08:00 is well before the window opens at 09:45
	_, err := f.mgr.Token(ctx, f.menteeID, session.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrJoinWindowClosed)

	// inside the early-join margin the first token moves the session to
	// IN_PROGRESS and expires with the window
	f.now = start.Add(-10 * time.Minute)
	token, err := f.mgr.Token(ctx, f.menteeID, session.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, token.Token)
	assert.True(t, token.ExpiresAt.Equal(start.Add(60*time.Minute).Add(types.LateJoinCutoff)))

	got, err := f.mgr.Get(ctx, f.menteeID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, types.SessionStatusInProgress, got.Status)

	// past the late cutoff the room is gone
	f.now = start.Add(60 * time.Minute).Add(types.LateJoinCutoff).Add(time.Minute)
	_, err = f.mgr.Token(ctx, f.menteeID, session.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrJoinWindowClosed)
}

func TestMeetingRoomRequiresConfirmation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	session := f.book(start, 60)

	f.now = start
	_, err := f.mgr.Room(ctx, f.menteeID, session.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrJoinWindowClosed)

	_, err = f.mgr.Confirm(ctx, f.mentorID, session.ID)
	require.NoError(t, err)
	room, err := f.mgr.Room(ctx, f.menteeID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.MeetingRoomRef, room.MeetingURL)
}

func TestCompleteSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	session := f.confirmed(start, 60)

	// completion requires IN_PROGRESS
	_, err := f.mgr.Complete(ctx, f.mentorID, session.ID, &api.CompleteSessionRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	f.now = start.Add(5 * time.Minute)
	_, err = f.mgr.Token(ctx, f.mentorID, session.ID)
	require.NoError(t, err)

	// the mentee cannot finalize
	_, err = f.mgr.Complete(ctx, f.menteeID, session.ID, &api.CompleteSessionRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMentorOnly)

	level := 65
	completed, err := f.mgr.Complete(ctx, f.mentorID, session.ID, &api.CompleteSessionRequest{
		Notes:         "good progress on conditionals",
		TopicsCovered: []string{"grammar", "conversation"},
		MasteryLevel:  &level,
	})
	require.NoError(t, err)
	assert.Equal(t, types.SessionStatusCompleted, completed.Status)
	require.NotNil(t, completed.Completion)
	assert.Equal(t, []string{"grammar", "conversation"}, completed.Completion.TopicsCovered)
	require.NotNil(t, completed.Completion.MasteryLevel)
	assert.Equal(t, 65, *completed.Completion.MasteryLevel)

	// a second completion is rejected, not silently merged
	_, err = f.mgr.Complete(ctx, f.mentorID, session.ID, &api.CompleteSessionRequest{Notes: "again"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestCompleteRejectsUnknownTopic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	session := f.confirmed(start, 60)
	f.now = start.Add(5 * time.Minute)
	_, err := f.mgr.Token(ctx, f.mentorID, session.ID)
	require.NoError(t, err)

	_, err = f.mgr.Complete(ctx, f.mentorID, session.ID, &api.CompleteSessionRequest{
		TopicsCovered: []string{"astrophysics"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestRescheduleSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.confirmed(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), 60)
	oldRoom := session.MeetingRoomRef

	newStart := time.Date(2026, 3, 3, 14, 0, 0, 0, time.UTC)
	moved, err := f.mgr.Reschedule(ctx, f.menteeID, session.ID, &api.RescheduleSessionRequest{ScheduledAt: newStart})
	require.NoError(t, err)
	assert.True(t, moved.ScheduledAt.Equal(newStart))
	assert.Equal(t, types.SessionStatusPendingConfirmation, moved.Status)
	assert.NotEqual(t, oldRoom, moved.MeetingRoomRef)
	assert.Contains(t, f.rooms.refs, oldRoom)
}

func TestRescheduleRejectsTakenSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.book(time.Date(2026, 3, 3, 14, 0, 0, 0, time.UTC), 60)
	session := f.book(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), 60)

	_, err := f.mgr.Reschedule(ctx, f.menteeID, session.ID, &api.RescheduleSessionRequest{
		ScheduledAt: time.Date(2026, 3, 3, 14, 30, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestMarkNoShow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	session := f.confirmed(start, 60)

	// cannot report before the scheduled start
	_, err := f.mgr.MarkNoShow(ctx, f.menteeID, session.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	// the mentee reports the mentor absent
	f.now = start.Add(10 * time.Minute)
	got, err := f.mgr.MarkNoShow(ctx, f.menteeID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, types.SessionStatusNoShowMentor, got.Status)
}

func TestListSessionsPaging(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for hour := 9; hour < 13; hour++ {
		f.book(time.Date(2026, 3, 2, hour, 0, 0, 0, time.UTC), 30)
	}

	page, err := f.mgr.List(ctx, f.menteeID, ListFilter{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, page.Sessions, 3)
	assert.True(t, page.HasMore)

	page, err = f.mgr.List(ctx, f.menteeID, ListFilter{Limit: 3, Offset: 3})
	require.NoError(t, err)
	assert.Len(t, page.Sessions, 1)
	assert.False(t, page.HasMore)

	// a stranger sees nothing
	page, err = f.mgr.List(ctx, uuid.New(), ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, page.Sessions)
}

func TestListSessionsStatusFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.book(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), 30)
	f.confirmed(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), 30)

	page, err := f.mgr.List(ctx, f.menteeID, ListFilter{Status: types.SessionStatusConfirmed})
	require.NoError(t, err)
	require.Len(t, page.Sessions, 1)
	assert.Equal(t, types.SessionStatusConfirmed, page.Sessions[0].Status)

	// an empty status means no filter, not "status equals empty string"
	page, err = f.mgr.List(ctx, f.menteeID, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, page.Sessions, 2)

	_, err = f.mgr.List(ctx, f.menteeID, ListFilter{Status: "SHRUGGING"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestSlots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.book(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), 60)

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	rsp, err := f.mgr.Slots(ctx, f.mentorID, from, from, 60, "UTC")
	require.NoError(t, err)
	require.NotEmpty(t, rsp.Slots)
	for _, slot := range rsp.Slots {
		// nothing on offer intersects the booked 09:00-10:00 hour
		assert.False(t, slot.Start.Before(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)))
	}
}

func TestSlotsRangeTooLarge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	_, err := f.mgr.Slots(ctx, f.mentorID, from, from.Add(365*24*time.Hour), 60, "UTC")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSlotRangeTooLarge)
}

func TestPutAvailabilityOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.mgr.PutAvailability(ctx, f.menteeID, f.mentorID, &api.PutAvailabilityRequest{
		Availability: api.WeeklyAvailability{Timezone: "UTC"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOwnAvailabilityOnly)
}

func TestPutAvailabilityRejectsOverlappingIntervals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.mgr.PutAvailability(ctx, f.mentorID, f.mentorID, &api.PutAvailabilityRequest{
		Availability: api.WeeklyAvailability{
			Timezone: "UTC",
			Days: []api.DayAvailability{{
				Weekday: 1,
				Intervals: []api.TimeOfDayInterval{
					{StartMinute: 540, EndMinute: 720},
					{StartMinute: 700, EndMinute: 900},
				},
			}},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestGetAvailabilityRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	availability, err := f.mgr.GetAvailability(ctx, f.mentorID)
	require.NoError(t, err)
	assert.Equal(t, "UTC", availability.Timezone)
	assert.Len(t, availability.Days, 7)

	_, err = f.mgr.GetAvailability(ctx, uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownMentor)
}
