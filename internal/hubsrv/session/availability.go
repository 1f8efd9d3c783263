package session

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/mentorhub/mentorhub/internal/common/apperrors"
	"github.com/mentorhub/mentorhub/internal/common/uuid"
	"github.com/mentorhub/mentorhub/internal/hubsrv/db/models"
	"github.com/mentorhub/mentorhub/internal/schedule"
	"github.com/mentorhub/mentorhub/pkg/api"
)

// availabilitySchema is the structural contract for a stored weekly
// availability document. Semantic rules (interval ordering, overlaps,
// loadable timezone) are checked separately by the schedule package.
const availabilitySchemaSrc = `{
	"type": "object",
	"required": ["timezone", "days"],
	"properties": {
		"timezone": {"type": "string", "minLength": 1},
		"days": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["weekday", "intervals"],
				"properties": {
					"weekday": {"type": "integer", "minimum": 0, "maximum": 6},
					"intervals": {
						"type": "array",
						"items": {
							"type": "object",
							"required": ["startMinute", "endMinute"],
							"properties": {
								"startMinute": {"type": "integer", "minimum": 0, "maximum": 1440},
								"endMinute": {"type": "integer", "minimum": 0, "maximum": 1440}
							}
						}
					}
				}
			}
		}
	}
}`

var availabilitySchema = jsonschema.MustCompileString("availability.json", availabilitySchemaSrc)

// PutAvailability replaces a mentor's recurring weekly availability. Only
// the mentor may change their own document. The document is validated
// structurally against the schema and semantically by the slot calculator's
// rules before it is stored.
func (m *Manager) PutAvailability(ctx context.Context, userID, mentorID uuid.UUID, req *api.PutAvailabilityRequest) (*api.WeeklyAvailability, apperrors.Error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUser
	}
	if userID != mentorID {
		return nil, ErrOwnAvailabilityOnly
	}

	doc, marshalErr := json.Marshal(req.Availability)
	if marshalErr != nil {
		return nil, ErrInvalidRequest.Err(marshalErr)
	}
	var generic any
	decoder := json.NewDecoder(bytes.NewReader(doc))
	decoder.UseNumber()
	if err := decoder.Decode(&generic); err != nil {
		return nil, ErrInvalidRequest.Err(err)
	}
	if err := availabilitySchema.Validate(generic); err != nil {
		return nil, ErrValidationFailed.Msg(err.Error())
	}
	if err := schedule.ValidateWeeklyAvailability(req.Availability); err != nil {
		return nil, ErrValidationFailed.Err(err)
	}

	rules, marshalErr := json.Marshal(req.Availability.Days)
	if marshalErr != nil {
		return nil, ErrSessionError.Err(marshalErr)
	}
	row := &models.MentorAvailability{
		MentorID: mentorID,
		Timezone: req.Availability.Timezone,
		Rules:    rules,
	}
	if err := m.store.PutAvailability(ctx, row); err != nil {
		return nil, err
	}
	log.Ctx(ctx).Info().Str("mentor_id", mentorID.String()).Msg("availability updated")

	availability := req.Availability
	return &availability, nil
}

// GetAvailability returns a mentor's published weekly availability. Any
// authenticated user may read it; mentees need it to drive the booking flow.
func (m *Manager) GetAvailability(ctx context.Context, mentorID uuid.UUID) (*api.WeeklyAvailability, apperrors.Error) {
	availability, err := m.loadAvailability(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	return &availability, nil
}
