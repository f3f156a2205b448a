package server

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Registry tracks which live websocket connections belong to which room and
// which single connection belongs to each user. It is pure bookkeeping: it
// never initiates state changes, only fans events out on request.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]map[*websocket.Conn]struct{}
	users map[uint]*websocket.Conn
	conns map[*websocket.Conn]connBinding
}

type connBinding struct {
	roomID string
	userID uint
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]map[*websocket.Conn]struct{}),
		users: make(map[uint]*websocket.Conn),
		conns: make(map[*websocket.Conn]connBinding),
	}
}

// Bind adds conn to the room's broadcast set and records it as the sole
// connection for the user. An earlier connection for the same user is
// replaced silently; it is not closed and stays in its room's broadcast set
// until its transport closes.
func (r *Registry) Bind(roomID string, userID uint, conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if previous, ok := r.conns[conn]; ok && previous.roomID != roomID {
		r.dropFromRoom(previous.roomID, conn)
	}
	group := r.rooms[roomID]
	if group == nil {
		group = make(map[*websocket.Conn]struct{})
		r.rooms[roomID] = group
	}
	group[conn] = struct{}{}
	r.users[userID] = conn
	r.conns[conn] = connBinding{roomID: roomID, userID: userID}
}

// Unbind removes conn from its room's broadcast set (pruning the room when it
// empties) and from the user map if it is still that user's current
// connection. Called on transport close and on failed writes.
func (r *Registry) Unbind(conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	binding, ok := r.conns[conn]
	if !ok {
		_ = conn.Close()
		return
	}
	delete(r.conns, conn)
	r.dropFromRoom(binding.roomID, conn)
	if r.users[binding.userID] == conn {
		delete(r.users, binding.userID)
	}
	_ = conn.Close()
}

// Broadcast serializes event once and delivers it to every connection bound
// to the room. Delivery is best effort: a connection whose write fails is
// unbound and the failure is swallowed, the sender gets no acknowledgment.
func (r *Registry) Broadcast(roomID string, event map[string]any) {
	r.mu.Lock()
	group := r.rooms[roomID]
	conns := make([]*websocket.Conn, 0, len(group))
	for conn := range group {
		conns = append(conns, conn)
	}
	r.mu.Unlock()

	if len(conns) == 0 {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to marshal broadcast event")
		return
	}
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			r.Unbind(conn)
		}
	}
}

// RoomSize reports how many connections are bound to a room.
func (r *Registry) RoomSize(roomID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms[roomID])
}

// UserConn returns the user's current connection, if any.
func (r *Registry) UserConn(userID uint) (*websocket.Conn, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.users[userID]
	return conn, ok
}

// dropFromRoom removes conn from a room set. Caller holds r.mu.
func (r *Registry) dropFromRoom(roomID string, conn *websocket.Conn) {
	group, ok := r.rooms[roomID]
	if !ok {
		return
	}
	delete(group, conn)
	if len(group) == 0 {
		delete(r.rooms, roomID)
	}
}
