package call

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorhub/mentorhub/internal/common/httpclient"
	"github.com/mentorhub/mentorhub/internal/common/uuid"
	"github.com/mentorhub/mentorhub/pkg/api"
)

type fakeStream struct {
	audio   bool
	video   bool
	stopped int
}

func (s *fakeStream) AudioGranted() bool { return s.audio }
func (s *fakeStream) VideoGranted() bool { return s.video }
func (s *fakeStream) Stop()              { s.stopped++ }

type fakeMedia struct {
	supported  bool
	acquireErr error
	stream     *fakeStream
	acquired   int
}

func (m *fakeMedia) Supported() bool { return m.supported }

func (m *fakeMedia) Acquire(context.Context) (MediaStream, error) {
	m.acquired++
	if m.acquireErr != nil {
		err := m.acquireErr
		m.acquireErr = nil
		return nil, err
	}
	return m.stream, nil
}

type fakeRooms struct {
	roomErr   error
	tokenErr  error
	roomCalls int
}

func (r *fakeRooms) CreateMeetingRoom(context.Context, uuid.UUID) (*api.MeetingRoomResponse, error) {
	r.roomCalls++
	if r.roomErr != nil {
		return nil, r.roomErr
	}
	return &api.MeetingRoomResponse{MeetingURL: "mentorhub://rooms/test"}, nil
}

func (r *fakeRooms) GetMeetingToken(context.Context, uuid.UUID) (*api.MeetingTokenResponse, error) {
	if r.tokenErr != nil {
		return nil, r.tokenErr
	}
	return &api.MeetingTokenResponse{Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

type fakeTransport struct {
	mu         sync.Mutex
	connectErr error
	events     chan Event
	chats      []string
	tracks     [][3]bool
	closed     bool
}

func (t *fakeTransport) Connect(context.Context, string, string) error {
	if t.connectErr != nil {
		return t.connectErr
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = make(chan Event, 16)
	t.closed = false
	return nil
}

func (t *fakeTransport) Events() <-chan Event { return t.events }

func (t *fakeTransport) SendChat(content string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.chats = append(t.chats, content)
	return nil
}

func (t *fakeTransport) SendTrackState(audio, video, screen bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tracks = append(t.tracks, [3]bool{audio, video, screen})
	return nil
}

func (t *fakeTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.events != nil && !t.closed {
		t.closed = true
		close(t.events)
	}
	return nil
}

func (t *fakeTransport) push(event Event) {
	t.events <- event
}

type callFixture struct {
	machine   *Machine
	media     *fakeMedia
	rooms     *fakeRooms
	transport *fakeTransport
	localID   uuid.UUID
	session   *api.Session
}

func newCallFixture(t *testing.T) *callFixture {
	t.Helper()
	f := &callFixture{
		media:     &fakeMedia{supported: true, stream: &fakeStream{audio: true, video: true}},
		rooms:     &fakeRooms{},
		transport: &fakeTransport{},
		localID:   uuid.New(),
	}
	f.machine = NewMachine(f.rooms, f.media, f.transport, f.localID, "Kim")
	f.session = &api.Session{ID: uuid.New(), MeetingRoomRef: "mentorhub://rooms/existing"}
	t.Cleanup(f.machine.Leave)
	return f
}

func (f *callFixture) join(t *testing.T) {
	t.Helper()
	require.NoError(t, f.machine.StartDeviceCheck(context.Background()))
	require.NoError(t, f.machine.Join(context.Background(), f.session))
	require.Equal(t, StateJoined, f.machine.State())
}

func participantInfo(id uuid.UUID, name string) api.ParticipantInfo {
	return api.ParticipantInfo{UserID: id, DisplayName: name, Role: "mentee", AudioOn: true}
}

func TestLeaveFromIdleIsNoOp(t *testing.T) {
	f := newCallFixture(t)

	f.machine.Leave()
	f.machine.Leave()
	assert.Equal(t, StateIdle, f.machine.State())
}

func TestUnsupportedPlatformShortCircuits(t *testing.T) {
	f := newCallFixture(t)
	f.media.supported = false

	err := f.machine.StartDeviceCheck(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateUnsupported, f.machine.State())
	assert.Zero(t, f.media.acquired, "no permission prompt on an unsupported platform")

	// joining is never attempted from unsupported
	err = f.machine.Join(context.Background(), f.session)
	require.Error(t, err)
	assert.NotEqual(t, StateJoining, f.machine.State())
}

func TestDeviceCheckPartialGrant(t *testing.T) {
	f := newCallFixture(t)
	f.media.stream = &fakeStream{audio: true, video: false}

	require.NoError(t, f.machine.StartDeviceCheck(context.Background()))
	assert.Equal(t, StateDeviceCheck, f.machine.State())

	audio, video, screen := f.machine.TrackState()
	assert.True(t, audio)
	assert.False(t, video)
	assert.False(t, screen)
}

func TestDeviceCheckPromptsOncePerMount(t *testing.T) {
	f := newCallFixture(t)

	require.NoError(t, f.machine.StartDeviceCheck(context.Background()))
	require.NoError(t, f.machine.StartDeviceCheck(context.Background()))
	assert.Equal(t, 1, f.media.acquired)
}

func TestPermissionDeniedIsRecoverable(t *testing.T) {
	f := newCallFixture(t)
	f.media.acquireErr = errors.New("NotAllowedError: Permission denied")

	err := f.machine.StartDeviceCheck(context.Background())
	require.Error(t, err)
	require.Equal(t, StateError, f.machine.State())

	meetingErr := f.machine.Err()
	require.NotNil(t, meetingErr)
	assert.Equal(t, KindPermission, meetingErr.Kind)
	assert.True(t, meetingErr.Recoverable())

	// the user fixes settings and retries into a fresh device check
	require.NoError(t, f.machine.Retry(context.Background()))
	assert.Equal(t, StateDeviceCheck, f.machine.State())
}

func TestJoinReusesExistingRoomRef(t *testing.T) {
	f := newCallFixture(t)
	f.join(t)
	assert.Zero(t, f.rooms.roomCalls, "existing room reference must be reused, not re-created")
}

func TestJoinCreatesRoomWhenMissing(t *testing.T) {
	f := newCallFixture(t)
	f.session.MeetingRoomRef = ""
	f.join(t)
	assert.Equal(t, 1, f.rooms.roomCalls)
}

func TestJoinUnauthorizedTokenNotRecoverable(t *testing.T) {
	f := newCallFixture(t)
	f.rooms.tokenErr = &httpclient.HTTPError{StatusCode: 401, Message: "invalid caller identity"}

	require.NoError(t, f.machine.StartDeviceCheck(context.Background()))
	err := f.machine.Join(context.Background(), f.session)
	require.Error(t, err)
	require.Equal(t, StateError, f.machine.State())

	meetingErr := f.machine.Err()
	require.NotNil(t, meetingErr)
	assert.Equal(t, KindUnauthorized, meetingErr.Kind)
	assert.False(t, meetingErr.Recoverable())

	// a non-recoverable error refuses the in-place retry
	require.Error(t, f.machine.Retry(context.Background()))
	assert.Equal(t, StateError, f.machine.State())

	// devices were released on the error path
	assert.Equal(t, 1, f.media.stream.stopped)
}

func TestRosterAlwaysRecomputedFromSnapshot(t *testing.T) {
	f := newCallFixture(t)
	f.join(t)

	p2 := uuid.New()
	p3 := uuid.New()
	local := participantInfo(f.localID, "Kim")

	f.transport.push(Event{Type: EventRoster, Roster: []api.ParticipantInfo{local}})
	f.transport.push(Event{Type: EventRoster, Roster: []api.ParticipantInfo{local, participantInfo(p2, "Dana")}})
	f.transport.push(Event{Type: EventRoster, Roster: []api.ParticipantInfo{local, participantInfo(p2, "Dana"), participantInfo(p3, "Ana")}})
	// one participant leaves; the snapshot is the whole truth
	f.transport.push(Event{Type: EventRoster, Roster: []api.ParticipantInfo{local, participantInfo(p3, "Ana")}})

	byID := map[uuid.UUID]Participant{}
	require.Eventually(t, func() bool {
		roster := f.machine.Roster()
		byID = map[uuid.UUID]Participant{}
		for _, p := range roster {
			byID[p.UserID] = p
		}
		_, sawAna := byID[p3]
		return len(roster) == 2 && sawAna
	}, time.Second, 5*time.Millisecond, "roster must match the last snapshot exactly")
	require.Contains(t, byID, f.localID)
	require.Contains(t, byID, p3)
	assert.NotContains(t, byID, p2, "stale entries must never accumulate")
	assert.True(t, byID[f.localID].IsLocal)
	assert.False(t, byID[p3].IsLocal)
}

func TestChatAppendOnlyInArrivalOrder(t *testing.T) {
	f := newCallFixture(t)
	f.join(t)
	remote := uuid.New()

	require.NoError(t, f.machine.SendMessage("hello"))
	f.transport.push(Event{Type: EventChat, Chat: &api.ChatSignal{SenderID: remote, SenderName: "Dana", Content: "hi", SentAt: time.Now()}})
	// the hub echoes the local message back; it must not be duplicated
	f.transport.push(Event{Type: EventChat, Chat: &api.ChatSignal{SenderID: f.localID, SenderName: "Kim", Content: "hello", SentAt: time.Now()}})
	f.transport.push(Event{Type: EventChat, Chat: &api.ChatSignal{SenderID: remote, SenderName: "Dana", Content: "ready?", SentAt: time.Now()}})

	require.Eventually(t, func() bool {
		return len(f.machine.Messages()) == 3
	}, time.Second, 5*time.Millisecond)

	messages := f.machine.Messages()
	assert.Equal(t, "hello", messages[0].Content)
	assert.True(t, messages[0].IsLocal)
	assert.Equal(t, "hi", messages[1].Content)
	assert.Equal(t, "ready?", messages[2].Content)
	assert.Equal(t, []string{"hello"}, f.transport.chats)
}

func TestTogglesMutateLocalStateOnly(t *testing.T) {
	f := newCallFixture(t)
	f.join(t)

	require.NoError(t, f.machine.ToggleAudio())
	require.NoError(t, f.machine.ToggleScreenShare())

	audio, video, screen := f.machine.TrackState()
	assert.False(t, audio)
	assert.True(t, video)
	assert.True(t, screen)

	// join announces once, then one announcement per toggle
	assert.Len(t, f.transport.tracks, 3)
	assert.Equal(t, [3]bool{false, true, true}, f.transport.tracks[2])
}

func TestToggleOutsideCallRejected(t *testing.T) {
	f := newCallFixture(t)
	require.Error(t, f.machine.ToggleAudio())
}

func TestRoomClosedIsNotRecoverable(t *testing.T) {
	f := newCallFixture(t)
	f.join(t)

	f.transport.push(Event{Type: EventRoomClosed})

	require.Eventually(t, func() bool {
		return f.machine.State() == StateError
	}, time.Second, 5*time.Millisecond)

	meetingErr := f.machine.Err()
	require.NotNil(t, meetingErr)
	assert.Equal(t, KindRoomExpired, meetingErr.Kind)
	assert.False(t, meetingErr.Recoverable())
	assert.Equal(t, 1, f.media.stream.stopped)
}

func TestDisconnectClassifiedAsNetwork(t *testing.T) {
	f := newCallFixture(t)
	f.join(t)

	f.transport.push(Event{Type: EventDisconnected, Err: errors.New("read tcp: connection reset by peer")})

	require.Eventually(t, func() bool {
		return f.machine.State() == StateError
	}, time.Second, 5*time.Millisecond)

	meetingErr := f.machine.Err()
	require.NotNil(t, meetingErr)
	assert.Equal(t, KindNetwork, meetingErr.Kind)
	assert.True(t, meetingErr.Recoverable())
}

func TestLeaveTearsEverythingDown(t *testing.T) {
	f := newCallFixture(t)
	f.join(t)
	f.transport.push(Event{Type: EventRoster, Roster: []api.ParticipantInfo{participantInfo(f.localID, "Kim")}})
	require.NoError(t, f.machine.SendMessage("bye"))

	f.machine.Leave()

	assert.Equal(t, StateLeft, f.machine.State())
	assert.Empty(t, f.machine.Roster())
	assert.Empty(t, f.machine.Messages())
	assert.Equal(t, 1, f.media.stream.stopped)
	assert.True(t, f.transport.closed)

	// idempotent: a second leave changes nothing
	f.machine.Leave()
	assert.Equal(t, StateLeft, f.machine.State())
	assert.Equal(t, 1, f.media.stream.stopped)
}

// handshakeTransport blocks Connect on a gate so a leave can race the join
// handshake, and keeps connecting even if Close arrived first.
type handshakeTransport struct {
	gate chan struct{}

	mu        sync.Mutex
	connected bool
	closes    int
}

func (t *handshakeTransport) Connect(context.Context, string, string) error {
	<-t.gate
	t.mu.Lock()
	defer t.mu.Unlock()
	t.connected = true
	return nil
}

func (t *handshakeTransport) Events() <-chan Event { return nil }

func (t *handshakeTransport) SendChat(string) error { return nil }

func (t *handshakeTransport) SendTrackState(bool, bool, bool) error { return nil }

func (t *handshakeTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closes++
	t.connected = false
	return nil
}

func TestLeaveDuringHandshakeClosesLateConnection(t *testing.T) {
	media := &fakeMedia{supported: true, stream: &fakeStream{audio: true}}
	transport := &handshakeTransport{gate: make(chan struct{})}
	machine := NewMachine(&fakeRooms{}, media, transport, uuid.New(), "Kim")
	session := &api.Session{ID: uuid.New(), MeetingRoomRef: "mentorhub://rooms/existing"}

	require.NoError(t, machine.StartDeviceCheck(context.Background()))

	joinDone := make(chan error, 1)
	go func() { joinDone <- machine.Join(context.Background(), session) }()
	require.Eventually(t, func() bool {
		return machine.State() == StateJoining
	}, time.Second, 5*time.Millisecond)

	machine.Leave()
	assert.Equal(t, StateLeft, machine.State())
	assert.Equal(t, 1, media.stream.stopped, "devices released by the leave itself")

	// the dial now completes; the machine must tear the connection down
	// instead of leaving it live behind a left machine
	close(transport.gate)
	require.NoError(t, <-joinDone)

	transport.mu.Lock()
	defer transport.mu.Unlock()
	assert.False(t, transport.connected, "no connection may outlive the leave")
	assert.Equal(t, StateLeft, machine.State())
}
