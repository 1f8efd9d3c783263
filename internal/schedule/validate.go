package schedule

import (
	"net/http"
	"sort"
	"time"

	"github.com/mentorhub/mentorhub/internal/common/apperrors"
	"github.com/mentorhub/mentorhub/pkg/api"
)

const minutesPerDay = 24 * 60

var (
	ErrInvalidAvailability apperrors.Error = apperrors.New("invalid availability").SetStatusCode(http.StatusBadRequest)
)

// ValidateWeeklyAvailability checks the structural invariants of a weekly
// availability document: a resolvable timezone, weekdays in 0..6, interval
// bounds within the day with start < end, and no overlapping intervals
// within a day.
func ValidateWeeklyAvailability(av api.WeeklyAvailability) apperrors.Error {
	if _, err := time.LoadLocation(av.Timezone); err != nil {
		return ErrInvalidAvailability.Msg("unknown timezone: " + av.Timezone)
	}

	seen := make(map[int]bool)
	for _, day := range av.Days {
		if day.Weekday < 0 || day.Weekday > 6 {
			return ErrInvalidAvailability.Msg("weekday out of range")
		}
		if seen[day.Weekday] {
			return ErrInvalidAvailability.Msg("duplicate weekday entry")
		}
		seen[day.Weekday] = true

		intervals := append([]api.TimeOfDayInterval(nil), day.Intervals...)
		sort.Slice(intervals, func(i, j int) bool {
			return intervals[i].StartMinute < intervals[j].StartMinute
		})
		prevEnd := -1
		for _, iv := range intervals {
			if iv.StartMinute < 0 || iv.EndMinute > minutesPerDay {
				return ErrInvalidAvailability.Msg("interval outside the day")
			}
			if iv.StartMinute >= iv.EndMinute {
				return ErrInvalidAvailability.Msg("interval start must precede end")
			}
			if iv.StartMinute < prevEnd {
				return ErrInvalidAvailability.Msg("intervals within a day must not overlap")
			}
			prevEnd = iv.EndMinute
		}
	}
	return nil
}
