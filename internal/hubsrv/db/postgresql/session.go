package postgresql

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mentorhub/mentorhub/internal/common/apperrors"
	"github.com/mentorhub/mentorhub/internal/common/uuid"
	"github.com/mentorhub/mentorhub/internal/hubsrv/db"
	"github.com/mentorhub/mentorhub/internal/hubsrv/db/dberror"
	"github.com/mentorhub/mentorhub/internal/hubsrv/db/models"
)

const sessionColumns = `
	session_id, mentor_id, mentee_id, scheduled_at, duration_minutes,
	status, meeting_room_ref, lesson_notes, completion, cancellation,
	created_at, updated_at`

// activeStatuses are the statuses that hold a time slot.
const activeStatuses = `('PENDING_CONFIRMATION', 'CONFIRMED', 'IN_PROGRESS')`

// CreateSession inserts a new session, guarded against interval overlap with
// the mentor's active sessions. The per-mentor advisory lock serializes
// concurrent bookings for the same mentor so the overlap check and the
// insert are atomic.
func (s *store) CreateSession(ctx context.Context, session *models.Session) (err apperrors.Error) {
	tx, errStd := s.pool.BeginTx(ctx, nil)
	if errStd != nil {
		log.Ctx(ctx).Error().Err(errStd).Msg("failed to begin transaction")
		return dberror.ErrDatabase.Err(errStd)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				log.Ctx(ctx).Error().Err(rollbackErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.lockMentor(ctx, tx, session.MentorID); err != nil {
		return err
	}
	if err = s.assertNoOverlap(ctx, tx, session.MentorID, session.SessionID, session.ScheduledAt, session.EndsAt()); err != nil {
		return err
	}

	query := `
		INSERT INTO sessions (
			session_id, mentor_id, mentee_id, scheduled_at, duration_minutes,
			status, meeting_room_ref, lesson_notes, completion, cancellation
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, errStd = tx.ExecContext(ctx, query,
		session.SessionID,
		session.MentorID,
		session.MenteeID,
		session.ScheduledAt,
		session.DurationMinutes,
		session.Status,
		session.MeetingRoomRef,
		session.LessonNotes,
		nullableJSON(session.Completion),
		nullableJSON(session.Cancellation),
	)
	if errStd != nil {
		if isUniqueViolation(errStd) {
			return dberror.ErrAlreadyExists.Err(errStd)
		}
		log.Ctx(ctx).Error().Err(errStd).Msg("failed to insert session")
		return dberror.ErrDatabase.Err(errStd)
	}

	if errStd := tx.Commit(); errStd != nil {
		log.Ctx(ctx).Error().Err(errStd).Msg("failed to commit transaction")
		return dberror.ErrDatabase.Err(errStd)
	}
	return nil
}

// GetSession fetches a session by ID.
func (s *store) GetSession(ctx context.Context, sessionID uuid.UUID) (*models.Session, apperrors.Error) {
	row := s.pool.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE session_id = $1`, sessionID)
	session, err := scanSession(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, dberror.ErrNotFound.Msg("session not found")
		}
		log.Ctx(ctx).Error().Err(err).Msg("failed to get session")
		return nil, dberror.ErrDatabase.Err(err)
	}
	return session, nil
}

// ListSessions returns sessions matching the filter, newest first.
func (s *store) ListSessions(ctx context.Context, filter db.SessionFilter) ([]*models.Session, apperrors.Error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE 1=1`
	args := []any{}

	if filter.ParticipantID != uuid.Nil {
		args = append(args, filter.ParticipantID)
		query += ` AND (mentor_id = $1 OR mentee_id = $1)`
	}
	if filter.MentorID != uuid.Nil {
		args = append(args, filter.MentorID)
		query += ` AND mentor_id = $` + strconv.Itoa(len(args))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY scheduled_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, errStd := s.pool.QueryContext(ctx, query, args...)
	if errStd != nil {
		log.Ctx(ctx).Error().Err(errStd).Msg("failed to list sessions")
		return nil, dberror.ErrDatabase.Err(errStd)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, dberror.ErrDatabase.Err(err)
		}
		sessions = append(sessions, session)
	}
	if errStd := rows.Err(); errStd != nil {
		return nil, dberror.ErrDatabase.Err(errStd)
	}
	return sessions, nil
}

// UpdateSession persists mutable fields for an existing session.
func (s *store) UpdateSession(ctx context.Context, session *models.Session) apperrors.Error {
	query := `
		UPDATE sessions SET
			status = $2,
			meeting_room_ref = $3,
			lesson_notes = $4,
			completion = $5,
			cancellation = $6,
			updated_at = NOW()
		WHERE session_id = $1
	`
	res, errStd := s.pool.ExecContext(ctx, query,
		session.SessionID,
		session.Status,
		session.MeetingRoomRef,
		session.LessonNotes,
		nullableJSON(session.Completion),
		nullableJSON(session.Cancellation),
	)
	if errStd != nil {
		log.Ctx(ctx).Error().Err(errStd).Msg("failed to update session")
		return dberror.ErrDatabase.Err(errStd)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return dberror.ErrNotFound.Msg("session not found")
	}
	return nil
}

// RescheduleSession moves a session to its new ScheduledAt under the same
// overlap guard as CreateSession, excluding the session itself.
func (s *store) RescheduleSession(ctx context.Context, session *models.Session) (err apperrors.Error) {
	tx, errStd := s.pool.BeginTx(ctx, nil)
	if errStd != nil {
		return dberror.ErrDatabase.Err(errStd)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				log.Ctx(ctx).Error().Err(rollbackErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.lockMentor(ctx, tx, session.MentorID); err != nil {
		return err
	}
	if err = s.assertNoOverlap(ctx, tx, session.MentorID, session.SessionID, session.ScheduledAt, session.EndsAt()); err != nil {
		return err
	}

	query := `
		UPDATE sessions SET
			scheduled_at = $2,
			status = $3,
			meeting_room_ref = $4,
			updated_at = NOW()
		WHERE session_id = $1
	`
	res, errStd := tx.ExecContext(ctx, query,
		session.SessionID,
		session.ScheduledAt,
		session.Status,
		session.MeetingRoomRef,
	)
	if errStd != nil {
		return dberror.ErrDatabase.Err(errStd)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return dberror.ErrNotFound.Msg("session not found")
	}

	if errStd := tx.Commit(); errStd != nil {
		return dberror.ErrDatabase.Err(errStd)
	}
	return nil
}

// ListActiveMentorSessions returns the mentor's active sessions intersecting
// [from, to).
func (s *store) ListActiveMentorSessions(ctx context.Context, mentorID uuid.UUID, from, to time.Time) ([]*models.Session, apperrors.Error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE mentor_id = $1
		  AND status IN ` + activeStatuses + `
		  AND scheduled_at < $3
		  AND scheduled_at + (duration_minutes * INTERVAL '1 minute') > $2
		ORDER BY scheduled_at
	`
	rows, errStd := s.pool.QueryContext(ctx, query, mentorID, from, to)
	if errStd != nil {
		log.Ctx(ctx).Error().Err(errStd).Msg("failed to list mentor sessions")
		return nil, dberror.ErrDatabase.Err(errStd)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, dberror.ErrDatabase.Err(err)
		}
		sessions = append(sessions, session)
	}
	if errStd := rows.Err(); errStd != nil {
		return nil, dberror.ErrDatabase.Err(errStd)
	}
	return sessions, nil
}

// lockMentor takes a transaction-scoped advisory lock serializing bookings
// for one mentor.
func (s *store) lockMentor(ctx context.Context, tx *sql.Tx, mentorID uuid.UUID) apperrors.Error {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, mentorID.String()); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to take mentor advisory lock")
		return dberror.ErrDatabase.Err(err)
	}
	return nil
}

// assertNoOverlap fails with ErrSlotConflict when [start, end) intersects an
// active session for the mentor other than excludeID. Overlap is by interval
// intersection, not point equality.
func (s *store) assertNoOverlap(ctx context.Context, tx *sql.Tx, mentorID, excludeID uuid.UUID, start, end time.Time) apperrors.Error {
	query := `
		SELECT COUNT(*)
		FROM sessions
		WHERE mentor_id = $1
		  AND session_id <> $2
		  AND status IN ` + activeStatuses + `
		  AND scheduled_at < $4
		  AND scheduled_at + (duration_minutes * INTERVAL '1 minute') > $3
	`
	var count int
	if err := tx.QueryRowContext(ctx, query, mentorID, excludeID, start, end).Scan(&count); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to check slot overlap")
		return dberror.ErrDatabase.Err(err)
	}
	if count > 0 {
		return dberror.ErrSlotConflict
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.Session, error) {
	var session models.Session
	var completion, cancellation sql.NullString
	err := row.Scan(
		&session.SessionID,
		&session.MentorID,
		&session.MenteeID,
		&session.ScheduledAt,
		&session.DurationMinutes,
		&session.Status,
		&session.MeetingRoomRef,
		&session.LessonNotes,
		&completion,
		&cancellation,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if completion.Valid {
		session.Completion = []byte(completion.String)
	}
	if cancellation.Valid {
		session.Cancellation = []byte(cancellation.String)
	}
	return &session, nil
}

// nullableJSON maps an empty document to SQL NULL.
func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

