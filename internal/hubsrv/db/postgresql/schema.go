package postgresql

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog/log"
)

// schema is applied at startup. Statements are idempotent so repeated
// startups are safe.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		session_id       UUID PRIMARY KEY,
		mentor_id        UUID NOT NULL,
		mentee_id        UUID NOT NULL,
		scheduled_at     TIMESTAMPTZ NOT NULL,
		duration_minutes INTEGER NOT NULL,
		status           TEXT NOT NULL,
		meeting_room_ref TEXT NOT NULL DEFAULT '',
		lesson_notes     TEXT NOT NULL DEFAULT '',
		completion       JSONB,
		cancellation     JSONB,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_mentor_time
		ON sessions (mentor_id, scheduled_at)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_mentee_time
		ON sessions (mentee_id, scheduled_at)`,
	`CREATE TABLE IF NOT EXISTS mentor_availability (
		mentor_id  UUID PRIMARY KEY,
		timezone   TEXT NOT NULL,
		rules      JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// EnsureSchema creates the tables and indexes the server needs.
func EnsureSchema(ctx context.Context, pool *sql.DB) error {
	for _, stmt := range schema {
		if _, err := pool.ExecContext(ctx, stmt); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("failed to apply schema statement")
			return err
		}
	}
	return nil
}
