package call

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorhub/mentorhub/internal/common/uuid"
	"github.com/mentorhub/mentorhub/pkg/api"
)

type fakeCompleter struct {
	mu       sync.Mutex
	err      error
	requests []*api.CompleteSessionRequest
	release  chan struct{}
}

func (c *fakeCompleter) Complete(_ context.Context, _ uuid.UUID, outcome *api.CompleteSessionRequest) (*api.Session, error) {
	c.mu.Lock()
	c.requests = append(c.requests, outcome)
	release := c.release
	c.mu.Unlock()
	if release != nil {
		<-release
	}
	if c.err != nil {
		return nil, c.err
	}
	return &api.Session{Status: "COMPLETED"}, nil
}

func TestEndAsMentorSubmitsThenLeaves(t *testing.T) {
	f := newCallFixture(t)
	f.join(t)
	completer := &fakeCompleter{}
	finalizer := NewFinalizer(completer, f.machine)

	mastery := 70
	outcome := &api.CompleteSessionRequest{
		Notes:         "solid progress",
		TopicsCovered: []string{"pointer receivers"},
		MasteryLevel:  &mastery,
	}
	require.NoError(t, finalizer.EndAsMentor(context.Background(), f.session.ID, outcome))

	require.Len(t, completer.requests, 1)
	assert.Equal(t, outcome, completer.requests[0])
	assert.Equal(t, StateLeft, f.machine.State())
	assert.False(t, finalizer.InFlight())
}

func TestEndAsMentorNilOutcomeSubmitsEmptyReport(t *testing.T) {
	f := newCallFixture(t)
	f.join(t)
	completer := &fakeCompleter{}
	finalizer := NewFinalizer(completer, f.machine)

	require.NoError(t, finalizer.EndAsMentor(context.Background(), f.session.ID, nil))
	require.Len(t, completer.requests, 1)
	assert.NotNil(t, completer.requests[0])
}

func TestEndAsMentorFailureKeepsCallUp(t *testing.T) {
	f := newCallFixture(t)
	f.join(t)
	completer := &fakeCompleter{err: errors.New("connection reset")}
	finalizer := NewFinalizer(completer, f.machine)

	err := finalizer.EndAsMentor(context.Background(), f.session.ID, nil)
	require.Error(t, err)
	assert.Equal(t, StateJoined, f.machine.State(), "a failed submission must not end the call")
	assert.False(t, finalizer.InFlight(), "the guard clears so the mentor can retry")

	// retry after the failure goes through
	completer.err = nil
	require.NoError(t, finalizer.EndAsMentor(context.Background(), f.session.ID, nil))
	assert.Equal(t, StateLeft, f.machine.State())
}

func TestEndAsMentorRejectsConcurrentSubmission(t *testing.T) {
	f := newCallFixture(t)
	f.join(t)
	completer := &fakeCompleter{release: make(chan struct{})}
	finalizer := NewFinalizer(completer, f.machine)

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- finalizer.EndAsMentor(context.Background(), f.session.ID, nil)
	}()

	require.Eventually(t, finalizer.InFlight, time.Second, 5*time.Millisecond)

	err := finalizer.EndAsMentor(context.Background(), f.session.ID, nil)
	assert.ErrorIs(t, err, ErrFinalizeInFlight)

	close(completer.release)
	require.NoError(t, <-firstDone)
	require.Len(t, completer.requests, 1, "the second submission never reached the server")
}

func TestEndAsMenteeIsAPlainLeave(t *testing.T) {
	f := newCallFixture(t)
	f.join(t)
	completer := &fakeCompleter{}
	finalizer := NewFinalizer(completer, f.machine)

	finalizer.EndAsMentee()

	assert.Equal(t, StateLeft, f.machine.State())
	assert.Empty(t, completer.requests, "a mentee leave carries no outcome payload")
}
