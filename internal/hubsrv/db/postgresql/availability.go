package postgresql

import (
	"context"
	"database/sql"

	"github.com/jackc/pgtype"
	"github.com/rs/zerolog/log"

	"github.com/mentorhub/mentorhub/internal/common/apperrors"
	"github.com/mentorhub/mentorhub/internal/common/uuid"
	"github.com/mentorhub/mentorhub/internal/hubsrv/db/dberror"
	"github.com/mentorhub/mentorhub/internal/hubsrv/db/models"
)

// GetAvailability returns a mentor's weekly availability.
func (s *store) GetAvailability(ctx context.Context, mentorID uuid.UUID) (*models.MentorAvailability, apperrors.Error) {
	var availability models.MentorAvailability
	var rules pgtype.JSONB

	row := s.pool.QueryRowContext(ctx,
		`SELECT mentor_id, timezone, rules, updated_at FROM mentor_availability WHERE mentor_id = $1`,
		mentorID)
	err := row.Scan(&availability.MentorID, &availability.Timezone, &rules, &availability.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, dberror.ErrNotFound.Msg("mentor availability not found")
		}
		log.Ctx(ctx).Error().Err(err).Msg("failed to get availability")
		return nil, dberror.ErrDatabase.Err(err)
	}
	availability.Rules = rules.Bytes
	return &availability, nil
}

// PutAvailability replaces a mentor's weekly availability.
func (s *store) PutAvailability(ctx context.Context, availability *models.MentorAvailability) apperrors.Error {
	rules := pgtype.JSONB{}
	if err := rules.Set(availability.Rules); err != nil {
		return dberror.ErrDatabase.Err(err)
	}

	query := `
		INSERT INTO mentor_availability (mentor_id, timezone, rules)
		VALUES ($1, $2, $3)
		ON CONFLICT (mentor_id) DO UPDATE SET
			timezone = EXCLUDED.timezone,
			rules = EXCLUDED.rules,
			updated_at = NOW()
	`
	if _, err := s.pool.ExecContext(ctx, query, availability.MentorID, availability.Timezone, rules); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to upsert availability")
		return dberror.ErrDatabase.Err(err)
	}
	return nil
}
