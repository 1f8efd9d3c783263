package call

import (
	"context"
	"errors"
	"sync"

	"github.com/mentorhub/mentorhub/internal/common/uuid"
	"github.com/mentorhub/mentorhub/pkg/api"
)

// ErrFinalizeInFlight is returned when a completion submission is already
// running; the dialog must disable re-submission rather than queue one.
var ErrFinalizeInFlight = errors.New("completion submission already in flight")

// completer is the slice of the session client the finalizer submits
// through.
type completer interface {
	Complete(ctx context.Context, sessionID uuid.UUID, outcome *api.CompleteSessionRequest) (*api.Session, error)
}

// Finalizer ends a session. For the mentor it submits the lesson outcome
// and leaves the call as one action; for the mentee it is a plain leave
// with no payload, leaving finalization to the mentor.
type Finalizer struct {
	client  completer
	machine *Machine

	mu       sync.Mutex
	inFlight bool
}

// NewFinalizer wires a finalizer to the session client and the call it
// will tear down.
func NewFinalizer(client completer, machine *Machine) *Finalizer {
	return &Finalizer{client: client, machine: machine}
}

// InFlight reports whether a submission is currently running.
func (f *Finalizer) InFlight() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight
}

// EndAsMentee leaves the call without outcome data.
func (f *Finalizer) EndAsMentee() {
	f.machine.Leave()
}

// EndAsMentor submits the outcome and, only once the server has accepted
// it, leaves the call. A failed submission keeps the call up so the mentor
// can retry or leave explicitly; the session must not be left half-ended on
// a network hiccup.
func (f *Finalizer) EndAsMentor(ctx context.Context, sessionID uuid.UUID, outcome *api.CompleteSessionRequest) error {
	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return ErrFinalizeInFlight
	}
	f.inFlight = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight = false
		f.mu.Unlock()
	}()

	if outcome == nil {
		outcome = &api.CompleteSessionRequest{}
	}
	if _, err := f.client.Complete(ctx, sessionID, outcome); err != nil {
		return err
	}
	f.machine.Leave()
	return nil
}
