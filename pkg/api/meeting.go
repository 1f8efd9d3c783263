package api

import (
	"time"

	"github.com/google/uuid"
)

// Signal message types exchanged over a meeting room's websocket.
// The server broadcasts roster snapshots and relays chat; clients send
// track-state updates and chat messages.
const (
	SignalRoster     = "roster"      // server -> client, full roster snapshot
	SignalChat       = "chat"        // both directions
	SignalTrackState = "track-state" // client -> server
	SignalRoomClosed = "room-closed" // server -> client, room torn down
	SignalError      = "error"       // server -> client
)

// SignalEnvelope is the framing for all signaling traffic. Exactly one of
// the payload fields is set, according to Type.
type SignalEnvelope struct {
	Type       string             `json:"type"`
	Roster     []ParticipantInfo  `json:"roster,omitempty"`
	Chat       *ChatSignal        `json:"chat,omitempty"`
	TrackState *TrackStateSignal  `json:"trackState,omitempty"`
	Error      *ErrorSignal       `json:"error,omitempty"`
}

// ParticipantInfo describes one connected participant. The roster is always
// transmitted as a full snapshot of the room's current participant map,
// never as an incremental patch.
type ParticipantInfo struct {
	UserID        uuid.UUID `json:"userId"`
	DisplayName   string    `json:"displayName"`
	Role          string    `json:"role"`
	AudioOn       bool      `json:"audioOn"`
	VideoOn       bool      `json:"videoOn"`
	ScreenShareOn bool      `json:"screenShareOn"`
}

// ChatSignal is one in-call text message. Ordering across participants is
// arrival order at the hub; no global clock is imposed.
type ChatSignal struct {
	SenderID   uuid.UUID `json:"senderId"`
	SenderName string    `json:"senderName"`
	Content    string    `json:"content"`
	SentAt     time.Time `json:"sentAt"`
}

// TrackStateSignal announces the sender's local media toggle state.
type TrackStateSignal struct {
	AudioOn       bool `json:"audioOn"`
	VideoOn       bool `json:"videoOn"`
	ScreenShareOn bool `json:"screenShareOn"`
}

// ErrorSignal carries a terminal error to the client before the hub closes
// the connection.
type ErrorSignal struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
