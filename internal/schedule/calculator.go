// Package schedule turns a mentor's recurring weekly availability into
// concrete bookable slots. The calculator is pure: it owns no state and
// performs no I/O, so both the server's slot endpoint and tests drive it
// directly.
package schedule

import (
	"sort"
	"time"

	"github.com/mentorhub/mentorhub/pkg/api"
)

// SlotGranularity is the fixed step at which candidate windows are placed
// inside an availability interval.
const SlotGranularity = 15 * time.Minute

// BookedInterval is an already-reserved span of absolute time that candidate
// slots must not intersect.
type BookedInterval struct {
	Start time.Time
	End   time.Time
}

// Request describes one slot computation.
type Request struct {
	Availability api.WeeklyAvailability // mentor's recurring availability, in the mentor's timezone
	From         time.Time              // inclusive lower bound of the date range
	To           time.Time              // inclusive upper bound of the date range
	Booked       []BookedInterval       // existing confirmed/pending sessions for the mentor
	Duration     time.Duration          // requested lesson length
	DisplayZone  *time.Location         // mentee's timezone for the returned boundaries
	Now          time.Time              // windows wholly in the past are discarded
}

// Compute returns the ordered list of bookable slots for the request.
//
// For each calendar day of the range, taken in the mentor's timezone, the
// day's availability intervals are swept with a Duration-sized window at
// SlotGranularity steps. A window is discarded when it does not fit wholly
// inside the interval (a trailing partial slot is never offered), when it
// intersects a booked interval, or when it starts before Now. Interval
// boundaries are resolved through the mentor's location, so intervals that
// span a daylight-saving transition shrink or stretch with the wall clock
// while the windows themselves keep their absolute length.
//
// A mentor interval shorter than the requested duration yields zero slots,
// not an error.
func Compute(req Request) ([]api.BookingSlot, error) {
	if req.Duration <= 0 || req.To.Before(req.From) {
		return nil, nil
	}
	mentorLoc, err := time.LoadLocation(req.Availability.Timezone)
	if err != nil {
		return nil, err
	}
	displayZone := req.DisplayZone
	if displayZone == nil {
		displayZone = time.UTC
	}

	byWeekday := make(map[time.Weekday][]api.TimeOfDayInterval)
	for _, day := range req.Availability.Days {
		wd := time.Weekday(day.Weekday)
		byWeekday[wd] = append(byWeekday[wd], day.Intervals...)
	}

	var slots []api.BookingSlot

	// Walk calendar days in the mentor's timezone. Normalizing to local
	// midnight keeps the weekday mapping stable across DST transitions.
	first := req.From.In(mentorLoc)
	firstDay := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, mentorLoc)
	last := req.To.In(mentorLoc)

	for day := firstDay; !day.After(last); day = day.AddDate(0, 0, 1) {
		intervals := byWeekday[day.Weekday()]
		for _, iv := range intervals {
			intervalStart := time.Date(day.Year(), day.Month(), day.Day(), 0, iv.StartMinute, 0, 0, mentorLoc)
			intervalEnd := time.Date(day.Year(), day.Month(), day.Day(), 0, iv.EndMinute, 0, 0, mentorLoc)
			if !intervalEnd.After(intervalStart) {
				continue
			}

			for start := intervalStart; ; start = start.Add(SlotGranularity) {
				end := start.Add(req.Duration)
				if end.After(intervalEnd) {
					break
				}
				if start.Before(req.Now) {
					continue
				}
				if start.Before(req.From) || start.After(req.To) {
					continue
				}
				if overlapsAny(start, end, req.Booked) {
					continue
				}
				localStart := start.In(displayZone)
				slots = append(slots, api.BookingSlot{
					Date:  localStart.Format("2006-01-02"),
					Start: localStart,
					End:   end.In(displayZone),
				})
			}
		}
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})
	return slots, nil
}

// overlapsAny reports whether [start, end) intersects any booked interval.
// Intersection is by interval overlap, not point equality: a slot ending
// exactly when a booking starts does not conflict.
func overlapsAny(start, end time.Time, booked []BookedInterval) bool {
	for _, b := range booked {
		if start.Before(b.End) && b.Start.Before(end) {
			return true
		}
	}
	return false
}
