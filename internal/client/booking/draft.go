// Package booking holds the client-side booking draft: the reservation a
// mentee builds up across the multi-step booking flow before it is
// submitted. The draft is process-local, owned by a single flow instance,
// and is destroyed on successful reservation or explicit abandonment.
package booking

import (
	"context"
	"errors"
	"time"

	"github.com/mentorhub/mentorhub/internal/common/uuid"
	"github.com/mentorhub/mentorhub/pkg/api"
	"github.com/mentorhub/mentorhub/pkg/types"
)

// The booking flow has three steps: pick a slot, add details, review and
// submit.
const (
	StepSlot    = 1
	StepDetails = 2
	StepReview  = 3
)

var (
	ErrInvalidDuration = errors.New("unsupported lesson duration")
	ErrDraftIncomplete = errors.New("mentor, slot, and duration must all be set")
)

// Submitter is the slice of the session client the draft needs to land the
// reservation.
type Submitter interface {
	Create(ctx context.Context, req *api.CreateSessionRequest) (*api.Session, error)
}

// Draft is the reservation under construction. It is a single-writer state
// container: all mutation goes through its methods, there is no ambient
// shared state, and it is not safe for concurrent use by design — one flow,
// one owner.
type Draft struct {
	client Submitter

	mentorID        uuid.UUID
	mentorSummary   string
	slot            *api.BookingSlot
	durationMinutes int
	notes           string
	timezone        string
	step            int
}

// NewDraft opens a fresh draft at step 1.
func NewDraft(client Submitter) *Draft {
	return &Draft{client: client, step: StepSlot}
}

// SetMentor selects the mentor being booked. Changing the mentor clears any
// selected slot, since slots belong to one mentor's calendar.
func (d *Draft) SetMentor(mentorID uuid.UUID, summary string) {
	if d.mentorID != mentorID {
		d.slot = nil
	}
	d.mentorID = mentorID
	d.mentorSummary = summary
}

// SetDuration picks the lesson length. Any previously selected slot is
// cleared: the set of available slots is duration-dependent, so a slot
// chosen for one duration is meaningless for another.
func (d *Draft) SetDuration(minutes int) error {
	if !types.IsValidDuration(minutes) {
		return ErrInvalidDuration
	}
	if d.durationMinutes != minutes {
		d.slot = nil
	}
	d.durationMinutes = minutes
	return nil
}

// SetSlot selects a concrete slot from the calculator's output.
func (d *Draft) SetSlot(slot api.BookingSlot) {
	s := slot
	d.slot = &s
}

// SetNotes attaches free-text lesson notes.
func (d *Draft) SetNotes(notes string) {
	d.notes = notes
}

// SetTimezone records the mentee's display timezone for the reservation.
func (d *Draft) SetTimezone(tz string) {
	d.timezone = tz
}

// Mentor returns the selected mentor and its display summary.
func (d *Draft) Mentor() (uuid.UUID, string) {
	return d.mentorID, d.mentorSummary
}

// Slot returns the selected slot, or nil when none is chosen.
func (d *Draft) Slot() *api.BookingSlot {
	if d.slot == nil {
		return nil
	}
	s := *d.slot
	return &s
}

// Duration returns the selected lesson length in minutes, zero when unset.
func (d *Draft) Duration() int {
	return d.durationMinutes
}

// Notes returns the free-text lesson notes.
func (d *Draft) Notes() string {
	return d.notes
}

// Step returns the current flow step.
func (d *Draft) Step() int {
	return d.step
}

// CanProceedToStep2 reports whether the details step is reachable: mentor,
// slot, and duration must all be set.
func (d *Draft) CanProceedToStep2() bool {
	return d.mentorID != uuid.Nil && d.slot != nil && d.durationMinutes > 0
}

// CanProceedToStep3 reports whether the review step is reachable. The
// step-2 preconditions must still hold; notes are optional.
func (d *Draft) CanProceedToStep3() bool {
	return d.CanProceedToStep2()
}

// AdvanceStep moves one step forward, refusing to pass a step whose
// preconditions are not met and never exceeding the final step.
func (d *Draft) AdvanceStep() bool {
	switch d.step {
	case StepSlot:
		if !d.CanProceedToStep2() {
			return false
		}
		d.step = StepDetails
	case StepDetails:
		if !d.CanProceedToStep3() {
			return false
		}
		d.step = StepReview
	default:
		return false
	}
	return true
}

// RetreatStep moves one step back, never below the first step.
func (d *Draft) RetreatStep() {
	if d.step > StepSlot {
		d.step--
	}
}

// Reset abandons the draft, returning it to its initial empty state.
func (d *Draft) Reset() {
	d.mentorID = uuid.Nil
	d.mentorSummary = ""
	d.slot = nil
	d.durationMinutes = 0
	d.notes = ""
	d.timezone = ""
	d.step = StepSlot
}

// Submit sends the reservation to the server. The draft is cleared
// unconditionally once the request has been made, success or failure: a
// draft must never outlive its submission and risk being re-submitted.
func (d *Draft) Submit(ctx context.Context) (*api.Session, error) {
	if !d.CanProceedToStep2() {
		return nil, ErrDraftIncomplete
	}

	req := &api.CreateSessionRequest{
		MentorID:        d.mentorID,
		ScheduledAt:     d.slot.Start,
		DurationMinutes: d.durationMinutes,
		Timezone:        d.timezone,
		LessonNotes:     d.notes,
	}
	if req.Timezone == "" {
		req.Timezone = time.UTC.String()
	}

	session, err := d.client.Create(ctx, req)
	d.Reset()
	return session, err
}
