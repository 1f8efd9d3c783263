package models

import (
	"encoding/json"
	"time"

	"github.com/mentorhub/mentorhub/internal/common/uuid"
	"github.com/mentorhub/mentorhub/pkg/api"
)

// MentorAvailability is a mentor's recurring weekly availability row.
// The rules document is stored as JSONB in the mentor's timezone; it is
// written only through the mentor settings flow and read-only everywhere
// else.
type MentorAvailability struct {
	MentorID  uuid.UUID       `db:"mentor_id"`
	Timezone  string          `db:"timezone"`
	Rules     json.RawMessage `db:"rules"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// ToAPI decodes the stored rules document.
func (m *MentorAvailability) ToAPI() (api.WeeklyAvailability, error) {
	av := api.WeeklyAvailability{Timezone: m.Timezone}
	if len(m.Rules) > 0 {
		if err := json.Unmarshal(m.Rules, &av.Days); err != nil {
			return api.WeeklyAvailability{}, err
		}
	}
	return av, nil
}
