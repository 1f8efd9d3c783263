// Package db defines the storage boundary for the hub server and owns the
// database connection lifecycle.
package db

import (
	"context"
	"database/sql"
	"time"

	retry "github.com/avast/retry-go/v4"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/rs/zerolog/log"

	"github.com/mentorhub/mentorhub/internal/common/apperrors"
	"github.com/mentorhub/mentorhub/internal/common/uuid"
	"github.com/mentorhub/mentorhub/internal/hubsrv/config"
	"github.com/mentorhub/mentorhub/internal/hubsrv/db/models"
	"github.com/mentorhub/mentorhub/pkg/types"
)

// SessionFilter restricts a session listing.
type SessionFilter struct {
	ParticipantID uuid.UUID            // sessions where the user is mentor or mentee; Nil matches all
	MentorID      uuid.UUID            // sessions for a specific mentor; Nil matches all
	Status        *types.SessionStatus // optional status filter
	Limit         int
	Offset        int
}

// Store is the storage boundary consumed by the hubsrv services.
type Store interface {
	// CreateSession inserts a new session. The insert is guarded against
	// interval overlap with the mentor's existing active sessions and fails
	// with dberror.ErrSlotConflict when the requested time is taken.
	CreateSession(ctx context.Context, session *models.Session) apperrors.Error

	// GetSession fetches a session by ID.
	GetSession(ctx context.Context, sessionID uuid.UUID) (*models.Session, apperrors.Error)

	// ListSessions returns sessions matching the filter, newest first.
	ListSessions(ctx context.Context, filter SessionFilter) ([]*models.Session, apperrors.Error)

	// UpdateSession persists status, meeting room reference, completion,
	// and cancellation changes for an existing session.
	UpdateSession(ctx context.Context, session *models.Session) apperrors.Error

	// RescheduleSession moves a session to its new ScheduledAt. Like
	// CreateSession it is overlap-guarded, excluding the session itself.
	RescheduleSession(ctx context.Context, session *models.Session) apperrors.Error

	// ListActiveMentorSessions returns the mentor's sessions in active
	// statuses intersecting [from, to). Used by the slot calculator.
	ListActiveMentorSessions(ctx context.Context, mentorID uuid.UUID, from, to time.Time) ([]*models.Session, apperrors.Error)

	// GetAvailability returns a mentor's weekly availability.
	GetAvailability(ctx context.Context, mentorID uuid.UUID) (*models.MentorAvailability, apperrors.Error)

	// PutAvailability replaces a mentor's weekly availability.
	PutAvailability(ctx context.Context, availability *models.MentorAvailability) apperrors.Error

	// Close releases the underlying connection pool.
	// Ping verifies the backing connection is alive.
	Ping(ctx context.Context) error

	Close() error
}

// Connect opens the Postgres pool described by the configuration and waits
// for it to become reachable. Connection establishment is the one place the
// server retries on its own; request-path operations never do.
func Connect(ctx context.Context) (*sql.DB, error) {
	cfg := config.Config().Database

	pool, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, err
	}
	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	if lifetime, err := cfg.GetConnMaxLifetime(); err == nil {
		pool.SetConnMaxLifetime(lifetime)
	}

	err = retry.Do(
		func() error {
			return pool.PingContext(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			log.Ctx(ctx).Warn().Err(err).Uint("attempt", n+1).Msg("database not reachable, retrying")
		}),
	)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
