package call

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mentorhub/mentorhub/pkg/api"
)

const (
	wsWriteWait      = 10 * time.Second
	wsEventBuffer    = 64
	wsSendBuffer     = 16
	wsHandshakeGrace = 10 * time.Second
)

// WebsocketTransport implements Transport over the hub server's signaling
// endpoint. All socket writes go through a single writer goroutine fed by a
// buffered channel, so concurrent callers never interleave frames.
type WebsocketTransport struct {
	serverURL string

	mu           sync.Mutex
	conn         *websocket.Conn
	events       chan Event
	send         chan api.SignalEnvelope
	done         chan struct{}
	closed       bool
	pendingClose bool
}

// NewWebsocketTransport builds a transport against the hub server's base
// URL (http or https; the scheme is rewritten for the socket dial).
func NewWebsocketTransport(serverURL string) *WebsocketTransport {
	return &WebsocketTransport{serverURL: serverURL}
}

// Connect dials the signaling endpoint with the meeting token.
func (t *WebsocketTransport) Connect(ctx context.Context, token, displayName string) error {
	u, err := url.Parse(t.serverURL)
	if err != nil {
		return err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/meetings/ws"
	q := u.Query()
	q.Set("token", token)
	q.Set("name", displayName)
	u.RawQuery = q.Encode()

	dialCtx, cancel := context.WithTimeout(ctx, wsHandshakeGrace)
	defer cancel()
	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, u.String(), nil)
	if err != nil {
		return err
	}

	t.mu.Lock()
	if t.pendingClose {
		// Close was requested while the dial was in flight; the caller
		// has already moved on, so the fresh socket must not survive
		t.pendingClose = false
		t.mu.Unlock()
		_ = conn.Close()
		return &MeetingError{Kind: KindNetwork, Message: "connection cancelled"}
	}
	t.conn = conn
	t.events = make(chan Event, wsEventBuffer)
	t.send = make(chan api.SignalEnvelope, wsSendBuffer)
	t.done = make(chan struct{})
	t.closed = false
	t.mu.Unlock()

	go t.writeLoop(conn, t.send, t.done)
	go t.readLoop(conn, t.events)
	return nil
}

// Events returns the ordered event stream for the current connection.
func (t *WebsocketTransport) Events() <-chan Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.events
}

// SendChat relays one chat message.
func (t *WebsocketTransport) SendChat(content string) error {
	return t.enqueue(api.SignalEnvelope{
		Type: api.SignalChat,
		Chat: &api.ChatSignal{Content: content},
	})
}

// SendTrackState announces the local media toggle state.
func (t *WebsocketTransport) SendTrackState(audioOn, videoOn, screenShareOn bool) error {
	return t.enqueue(api.SignalEnvelope{
		Type: api.SignalTrackState,
		TrackState: &api.TrackStateSignal{
			AudioOn:       audioOn,
			VideoOn:       videoOn,
			ScreenShareOn: screenShareOn,
		},
	})
}

// Close tears the connection down. Safe to call more than once; called
// before Connect has produced a connection it records the request so an
// in-flight dial is refused instead of leaking a live socket.
func (t *WebsocketTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		t.pendingClose = true
		return nil
	}
	if t.closed {
		return nil
	}
	t.closed = true
	close(t.done)
	return t.conn.Close()
}

func (t *WebsocketTransport) enqueue(env api.SignalEnvelope) error {
	t.mu.Lock()
	send, done := t.send, t.done
	t.mu.Unlock()
	if send == nil {
		return &MeetingError{Kind: KindNetwork, Message: "not connected"}
	}
	select {
	case send <- env:
		return nil
	case <-done:
		return &MeetingError{Kind: KindNetwork, Message: "connection closed"}
	}
}

// The loops hold their connection's own channels so a reconnect replacing
// the transport fields can never cross the wires of an old connection.
func (t *WebsocketTransport) writeLoop(conn *websocket.Conn, send chan api.SignalEnvelope, done chan struct{}) {
	for {
		select {
		case env := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(env); err != nil {
				t.closeIfCurrent(conn)
				return
			}
		case <-done:
			return
		}
	}
}

// readLoop translates server frames into Events. It owns the events
// channel and closes it when the connection ends.
func (t *WebsocketTransport) readLoop(conn *websocket.Conn, events chan Event) {
	defer close(events)

	for {
		var env api.SignalEnvelope
		if err := conn.ReadJSON(&env); err != nil {
			t.mu.Lock()
			deliberate := t.closed || t.conn != conn
			t.mu.Unlock()
			if !deliberate {
				events <- Event{Type: EventDisconnected, Err: Classify(err)}
				t.closeIfCurrent(conn)
			}
			return
		}

		switch env.Type {
		case api.SignalRoster:
			events <- Event{Type: EventRoster, Roster: env.Roster}
		case api.SignalChat:
			events <- Event{Type: EventChat, Chat: env.Chat}
		case api.SignalRoomClosed:
			events <- Event{Type: EventRoomClosed}
			t.closeIfCurrent(conn)
			return
		case api.SignalError:
			if env.Error != nil {
				classified := Classify(errors.New(env.Error.Message))
				classified.Detail = env.Error.Code
				events <- Event{Type: EventDisconnected, Err: classified}
			}
			t.closeIfCurrent(conn)
			return
		}
	}
}

// closeIfCurrent tears the transport down only when conn is still its
// active connection; a stale loop's teardown must not touch a successor.
func (t *WebsocketTransport) closeIfCurrent(conn *websocket.Conn) {
	t.mu.Lock()
	if t.conn != conn || t.closed {
		t.mu.Unlock()
		_ = conn.Close()
		return
	}
	t.closed = true
	close(t.done)
	t.mu.Unlock()
	_ = conn.Close()
}
