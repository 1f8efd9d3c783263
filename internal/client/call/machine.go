// Package call owns the lifecycle of one live lesson call: the device
// check, the join handshake against the session API and the signaling
// transport, the in-call roster and text channel, and the classified error
// taxonomy for everything that can go wrong on the way. One Machine drives
// one call; it is the single writer of all call state.
package call

import (
	"context"
	"sync"
	"time"

	"github.com/mentorhub/mentorhub/internal/common/uuid"
	"github.com/mentorhub/mentorhub/pkg/api"
)

// State is the call machine's closed state set.
type State string

const (
	StateIdle        State = "idle"
	StateDeviceCheck State = "device_check"
	StateJoining     State = "joining"
	StateJoined      State = "joined"
	StateLeft        State = "left"
	StateError       State = "error"
	// StateUnsupported is the terminal notice when the platform has no
	// real-time capture capability at all; joining is never attempted.
	StateUnsupported State = "unsupported"
)

// Participant is one roster entry. The roster is rebuilt wholesale from the
// transport's snapshot on every roster event, never patched incrementally,
// so it cannot drift from the transport's ground truth.
type Participant struct {
	UserID        uuid.UUID
	DisplayName   string
	Role          string
	AudioOn       bool
	VideoOn       bool
	ScreenShareOn bool
	IsLocal       bool
}

// ChatMessage is one entry in the in-call text channel: an ordered,
// append-only log. Ordering across participants is arrival order.
type ChatMessage struct {
	SenderID   uuid.UUID
	SenderName string
	Content    string
	SentAt     time.Time
	IsLocal    bool
}

// roomService is the slice of the session client the machine needs for the
// join handshake.
type roomService interface {
	CreateMeetingRoom(ctx context.Context, sessionID uuid.UUID) (*api.MeetingRoomResponse, error)
	GetMeetingToken(ctx context.Context, sessionID uuid.UUID) (*api.MeetingTokenResponse, error)
}

// Machine drives one live call.
type Machine struct {
	sessions    roomService
	media       MediaDevices
	transport   Transport
	localID     uuid.UUID
	displayName string

	mu       sync.Mutex
	state    State
	stream   MediaStream
	audioOn  bool
	videoOn  bool
	screenOn bool
	roster   []Participant
	messages []ChatMessage
	lastErr  *MeetingError
	loopDone chan struct{}
}

// NewMachine builds an idle call machine for the given local user.
func NewMachine(sessions roomService, media MediaDevices, transport Transport, localID uuid.UUID, displayName string) *Machine {
	return &Machine{
		sessions:    sessions,
		media:       media,
		transport:   transport,
		localID:     localID,
		displayName: displayName,
		state:       StateIdle,
	}
}

// State returns the current machine state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Err returns the classified error the machine carries in StateError, nil
// otherwise.
func (m *Machine) Err() *MeetingError {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Roster returns a copy of the current roster.
func (m *Machine) Roster() []Participant {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Participant, len(m.roster))
	copy(out, m.roster)
	return out
}

// Messages returns a copy of the in-call text log.
func (m *Machine) Messages() []ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ChatMessage, len(m.messages))
	copy(out, m.messages)
	return out
}

// TrackState returns the local media toggles.
func (m *Machine) TrackState() (audioOn, videoOn, screenShareOn bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.audioOn, m.videoOn, m.screenOn
}

// StartDeviceCheck moves the machine into the device-check state, probing
// capability and prompting for device access exactly once. A platform with
// no capture capability short-circuits to StateUnsupported. A partial grant
// (audio yes, video no) is reflected per-device, not treated as a failure.
func (m *Machine) StartDeviceCheck(ctx context.Context) error {
	m.mu.Lock()
	switch m.state {
	case StateIdle, StateDeviceCheck, StateError:
	default:
		state := m.state
		m.mu.Unlock()
		return &MeetingError{Kind: KindUnknown, Message: "cannot start device check from state " + string(state)}
	}
	if !m.media.Supported() {
		m.state = StateUnsupported
		m.mu.Unlock()
		return &MeetingError{Kind: KindUnknown, Message: "real-time media is not supported on this platform"}
	}
	m.state = StateDeviceCheck
	m.lastErr = nil
	alreadyAcquired := m.stream != nil
	m.mu.Unlock()

	if alreadyAcquired {
		return nil
	}

	stream, err := m.media.Acquire(ctx)
	if err != nil {
		classified := Classify(err)
		m.fail(classified)
		return classified
	}

	m.mu.Lock()
	m.stream = stream
	m.audioOn = stream.AudioGranted()
	m.videoOn = stream.VideoGranted()
	m.mu.Unlock()
	return nil
}

// Join performs the join handshake for the session: resolve the room
// reference (reusing the one on the session when present), fetch a
// short-lived access token, and connect the transport. On the transport's
// acceptance the machine is joined and begins consuming roster and chat
// events in arrival order.
func (m *Machine) Join(ctx context.Context, session *api.Session) error {
	m.mu.Lock()
	switch m.state {
	case StateIdle, StateDeviceCheck:
	default:
		state := m.state
		m.mu.Unlock()
		return &MeetingError{Kind: KindUnknown, Message: "cannot join from state " + string(state)}
	}
	m.state = StateJoining
	m.mu.Unlock()

	if session.MeetingRoomRef == "" {
		if _, err := m.sessions.CreateMeetingRoom(ctx, session.ID); err != nil {
			classified := Classify(err)
			m.fail(classified)
			return classified
		}
	}

	token, err := m.sessions.GetMeetingToken(ctx, session.ID)
	if err != nil {
		classified := Classify(err)
		m.fail(classified)
		return classified
	}

	if err := m.transport.Connect(ctx, token.Token, m.displayName); err != nil {
		classified := Classify(err)
		m.fail(classified)
		return classified
	}

	m.mu.Lock()
	if m.state != StateJoining {
		// Leave raced the handshake and could not see this connection;
		// tear it down here so nothing stays live behind a left machine
		m.mu.Unlock()
		_ = m.transport.Close()
		return nil
	}
	m.state = StateJoined
	m.loopDone = make(chan struct{})
	audioOn, videoOn, screenOn := m.audioOn, m.videoOn, m.screenOn
	m.mu.Unlock()

	_ = m.transport.SendTrackState(audioOn, videoOn, screenOn)
	go m.eventLoop()
	return nil
}

// eventLoop is the single consumer of the transport's event stream. Events
// are applied in delivery order, never reordered or batched.
func (m *Machine) eventLoop() {
	defer close(m.loopDone)
	for event := range m.transport.Events() {
		switch event.Type {
		case EventRoster:
			m.applyRoster(event.Roster)
		case EventChat:
			m.appendRemoteChat(event.Chat)
		case EventRoomClosed:
			m.fail(&MeetingError{Kind: KindRoomExpired, Message: "the meeting room has been closed"})
		case EventDisconnected:
			m.fail(Classify(event.Err))
		}
	}
}

// applyRoster recomputes the roster from the transport snapshot.
func (m *Machine) applyRoster(snapshot []api.ParticipantInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateJoined {
		return
	}
	roster := make([]Participant, 0, len(snapshot))
	for _, info := range snapshot {
		roster = append(roster, Participant{
			UserID:        info.UserID,
			DisplayName:   info.DisplayName,
			Role:          info.Role,
			AudioOn:       info.AudioOn,
			VideoOn:       info.VideoOn,
			ScreenShareOn: info.ScreenShareOn,
			IsLocal:       info.UserID == m.localID,
		})
	}
	m.roster = roster
}

func (m *Machine) appendRemoteChat(chat *api.ChatSignal) {
	if chat == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateJoined {
		return
	}
	// the hub echoes our own messages back; those are already in the log
	if chat.SenderID == m.localID {
		return
	}
	m.messages = append(m.messages, ChatMessage{
		SenderID:   chat.SenderID,
		SenderName: chat.SenderName,
		Content:    chat.Content,
		SentAt:     chat.SentAt,
		IsLocal:    false,
	})
}

// ToggleAudio flips the local microphone track and announces it.
func (m *Machine) ToggleAudio() error {
	return m.toggleTrack(func() { m.audioOn = !m.audioOn })
}

// ToggleVideo flips the local camera track and announces it.
func (m *Machine) ToggleVideo() error {
	return m.toggleTrack(func() { m.videoOn = !m.videoOn })
}

// ToggleScreenShare flips the local screen-share track and announces it.
func (m *Machine) ToggleScreenShare() error {
	return m.toggleTrack(func() { m.screenOn = !m.screenOn })
}

func (m *Machine) toggleTrack(flip func()) error {
	m.mu.Lock()
	if m.state != StateJoined {
		m.mu.Unlock()
		return &MeetingError{Kind: KindUnknown, Message: "not in a call"}
	}
	flip()
	audioOn, videoOn, screenOn := m.audioOn, m.videoOn, m.screenOn
	m.mu.Unlock()

	// the local roster entry catches up on the next snapshot from the hub
	return m.transport.SendTrackState(audioOn, videoOn, screenOn)
}

// SendMessage appends an outgoing chat message locally without waiting for
// the round-trip, then relays it to the room.
func (m *Machine) SendMessage(content string) error {
	if content == "" {
		return nil
	}
	m.mu.Lock()
	if m.state != StateJoined {
		m.mu.Unlock()
		return &MeetingError{Kind: KindUnknown, Message: "not in a call"}
	}
	m.messages = append(m.messages, ChatMessage{
		SenderID:   m.localID,
		SenderName: m.displayName,
		Content:    content,
		SentAt:     time.Now().UTC(),
		IsLocal:    true,
	})
	m.mu.Unlock()

	return m.transport.SendChat(content)
}

// Retry re-enters the device check after a recoverable error. For
// non-recoverable errors the only way out is Leave.
func (m *Machine) Retry(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateError {
		state := m.state
		m.mu.Unlock()
		return &MeetingError{Kind: KindUnknown, Message: "nothing to retry in state " + string(state)}
	}
	if m.lastErr != nil && !m.lastErr.Recoverable() {
		lastErr := m.lastErr
		m.mu.Unlock()
		return lastErr
	}
	m.state = StateIdle
	m.mu.Unlock()
	return m.StartDeviceCheck(ctx)
}

// Leave tears the call down: the transport is closed, acquired devices are
// released, and roster, messages, and toggles are cleared. Safe to call
// from any state and idempotent; from idle it is a no-op.
func (m *Machine) Leave() {
	m.mu.Lock()
	if m.state == StateIdle || m.state == StateLeft {
		m.mu.Unlock()
		return
	}
	m.teardownLocked()
	m.state = StateLeft
	m.lastErr = nil
	loopDone := m.loopDone
	m.mu.Unlock()

	_ = m.transport.Close()
	if loopDone != nil {
		<-loopDone
	}
}

// fail moves the machine to StateError carrying the classified cause.
// Acquired devices are released: error is an exit path like any other.
func (m *Machine) fail(classified *MeetingError) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateLeft || m.state == StateIdle {
		// a deliberate leave already tore everything down
		return
	}
	m.teardownLocked()
	m.state = StateError
	m.lastErr = classified
}

// teardownLocked releases the media stream and clears call state. Callers
// hold the mutex.
func (m *Machine) teardownLocked() {
	if m.stream != nil {
		m.stream.Stop()
		m.stream = nil
	}
	m.roster = nil
	m.messages = nil
	m.audioOn = false
	m.videoOn = false
	m.screenOn = false
}
