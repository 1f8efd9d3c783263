package meeting

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mentorhub/mentorhub/internal/common/apperrors"
	"github.com/mentorhub/mentorhub/internal/common/uuid"
	"github.com/mentorhub/mentorhub/pkg/api"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBufferSize = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// participant is one live connection in a room. All writes to the socket go
// through send and a single writer goroutine, so concurrent broadcasts never
// interleave frames.
type participant struct {
	userID      uuid.UUID
	displayName string
	role        Role
	audioOn     bool
	videoOn     bool
	screenOn    bool

	conn *websocket.Conn

	sendMu sync.Mutex
	send   chan api.SignalEnvelope
	closed bool
}

func (p *participant) close() {
	p.sendMu.Lock()
	defer p.sendMu.Unlock()
	p.closeLocked()
}

func (p *participant) closeLocked() {
	if p.closed {
		return
	}
	p.closed = true
	close(p.send)
}

func (p *participant) info() api.ParticipantInfo {
	return api.ParticipantInfo{
		UserID:        p.userID,
		DisplayName:   p.displayName,
		Role:          string(p.role),
		AudioOn:       p.audioOn,
		VideoOn:       p.videoOn,
		ScreenShareOn: p.screenOn,
	}
}

// room holds the participant map for one meeting room. The roster sent to
// clients is always recomputed from this map, never patched incrementally.
type room struct {
	ref          string
	sessionID    uuid.UUID
	participants map[uuid.UUID]*participant
}

func (r *room) roster() []api.ParticipantInfo {
	roster := make([]api.ParticipantInfo, 0, len(r.participants))
	for _, p := range r.participants {
		roster = append(roster, p.info())
	}
	return roster
}

// Hub is the in-memory registry of live meeting rooms. A room exists while
// at least one participant is connected; it is created on first join and
// dropped when the last participant leaves or the room is closed.
type Hub struct {
	mu     sync.Mutex
	rooms  map[string]*room
	closed map[string]bool
}

func NewHub() *Hub {
	return &Hub{
		rooms:  make(map[string]*room),
		closed: make(map[string]bool),
	}
}

// Join upgrades the request to a websocket and attaches the caller to the
// room named in the validated token claims. It blocks until the connection
// is torn down.
func (h *Hub) Join(w http.ResponseWriter, r *http.Request, claims *TokenClaims, displayName string) apperrors.Error {
	h.mu.Lock()
	if h.closed[claims.Room] {
		h.mu.Unlock()
		return ErrRoomClosed
	}
	h.mu.Unlock()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return ErrMeetingError.Err(err)
	}

	p := &participant{
		userID:      claims.UserID,
		displayName: displayName,
		role:        claims.Role,
		conn:        conn,
		send:        make(chan api.SignalEnvelope, sendBufferSize),
	}

	h.addParticipant(claims, p)

	go p.writeLoop()
	h.readLoop(r, claims.Room, p)
	return nil
}

func (h *Hub) addParticipant(claims *TokenClaims, p *participant) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rm, ok := h.rooms[claims.Room]
	if !ok {
		rm = &room{
			ref:          claims.Room,
			sessionID:    claims.SessionID,
			participants: make(map[uuid.UUID]*participant),
		}
		h.rooms[claims.Room] = rm
	}

	// a reconnect replaces the previous connection for the same user
	if prev, ok := rm.participants[p.userID]; ok {
		prev.close()
	}
	rm.participants[p.userID] = p
	h.broadcastRosterLocked(rm)
}

// readLoop consumes client frames until the connection drops, then removes
// the participant and re-broadcasts the roster.
func (h *Hub) readLoop(r *http.Request, roomRef string, p *participant) {
	defer h.removeParticipant(roomRef, p)

	p.conn.SetReadLimit(maxMessageSize)
	_ = p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var env api.SignalEnvelope
		if err := p.conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Ctx(r.Context()).Debug().Err(err).Str("room", roomRef).Msg("meeting connection dropped")
			}
			return
		}
		h.dispatch(roomRef, p, env)
	}
}

func (h *Hub) dispatch(roomRef string, p *participant, env api.SignalEnvelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rm, ok := h.rooms[roomRef]
	if !ok {
		return
	}

	switch env.Type {
	case api.SignalTrackState:
		if env.TrackState == nil {
			return
		}
		p.audioOn = env.TrackState.AudioOn
		p.videoOn = env.TrackState.VideoOn
		p.screenOn = env.TrackState.ScreenShareOn
		h.broadcastRosterLocked(rm)
	case api.SignalChat:
		if env.Chat == nil || env.Chat.Content == "" {
			return
		}
		// relayed in arrival order under the room lock; sender identity
		// comes from the authenticated connection, not the payload
		msg := api.SignalEnvelope{
			Type: api.SignalChat,
			Chat: &api.ChatSignal{
				SenderID:   p.userID,
				SenderName: p.displayName,
				Content:    env.Chat.Content,
				SentAt:     time.Now().UTC(),
			},
		}
		for _, other := range rm.participants {
			other.enqueue(msg)
		}
	}
}

func (h *Hub) removeParticipant(roomRef string, p *participant) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p.close()
	rm, ok := h.rooms[roomRef]
	if !ok {
		return
	}
	// only remove if this connection is still the registered one
	if cur, ok := rm.participants[p.userID]; !ok || cur != p {
		return
	}
	delete(rm.participants, p.userID)
	if len(rm.participants) == 0 {
		delete(h.rooms, roomRef)
		return
	}
	h.broadcastRosterLocked(rm)
}

// CloseRoom disconnects everyone and marks the room ref as closed so later
// joins are refused with ErrRoomClosed. Called when a session leaves the
// IN_PROGRESS state.
func (h *Hub) CloseRoom(roomRef string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed[roomRef] = true
	rm, ok := h.rooms[roomRef]
	if !ok {
		return
	}
	for _, p := range rm.participants {
		p.enqueue(api.SignalEnvelope{Type: api.SignalRoomClosed})
		p.close()
	}
	delete(h.rooms, roomRef)
}

// RoomSize reports the current participant count, zero for unknown rooms.
func (h *Hub) RoomSize(roomRef string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	rm, ok := h.rooms[roomRef]
	if !ok {
		return 0
	}
	return len(rm.participants)
}

func (h *Hub) broadcastRosterLocked(rm *room) {
	env := api.SignalEnvelope{
		Type:   api.SignalRoster,
		Roster: rm.roster(),
	}
	for _, p := range rm.participants {
		p.enqueue(env)
	}
}

// enqueue hands a message to the participant's writer goroutine. A slow
// consumer whose buffer is full is disconnected rather than blocking the
// room; once closed, later broadcasts to this participant are dropped until
// its read loop notices the teardown and removes it from the room.
func (p *participant) enqueue(env api.SignalEnvelope) {
	p.sendMu.Lock()
	defer p.sendMu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.send <- env:
	default:
		p.closeLocked()
	}
}

func (p *participant) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = p.conn.Close()
	}()

	for {
		select {
		case env, ok := <-p.send:
			if !ok {
				_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = p.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteJSON(env); err != nil {
				return
			}
		case <-ticker.C:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
