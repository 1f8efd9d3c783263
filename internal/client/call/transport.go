package call

import (
	"context"

	"github.com/mentorhub/mentorhub/pkg/api"
)

// EventType tags the events a transport delivers to the call machine.
type EventType int

const (
	// EventRoster carries a full snapshot of the room's participants.
	EventRoster EventType = iota
	// EventChat carries one incoming chat message.
	EventChat
	// EventRoomClosed signals the server tore the room down.
	EventRoomClosed
	// EventDisconnected signals the connection dropped; Err carries the
	// cause when known.
	EventDisconnected
)

// Event is one transport occurrence. Events are delivered in arrival order
// and consumed by a single loop; the machine never sees them reordered.
type Event struct {
	Type   EventType
	Roster []api.ParticipantInfo
	Chat   *api.ChatSignal
	Err    error
}

// Transport is the boundary to the live meeting room. Connect blocks until
// the connection is established or fails; afterwards events flow on the
// Events channel until it is closed by Close or a disconnect.
type Transport interface {
	// Connect joins the room the token admits the caller to.
	Connect(ctx context.Context, token, displayName string) error

	// Events returns the ordered event stream. The channel is closed when
	// the connection ends, after a final EventDisconnected or
	// EventRoomClosed where applicable.
	Events() <-chan Event

	// SendChat relays a chat message to the room.
	SendChat(content string) error

	// SendTrackState announces the local media toggle state.
	SendTrackState(audioOn, videoOn, screenShareOn bool) error

	// Close tears the connection down. Safe to call more than once.
	Close() error
}
