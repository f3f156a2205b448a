package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// inboundMessage is the only message clients send on the realtime channel.
type inboundMessage struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
	UserID uint   `json:"userId"`
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	connID := uuid.NewString()
	log.Info().Str("conn_id", connID).Str("remote", r.RemoteAddr).Msg("ws connected")
	go s.readWS(connID, conn)
}

func (s *Server) readWS(connID string, conn *websocket.Conn) {
	defer s.registry.Unbind(conn)
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			log.Info().Str("conn_id", connID).Err(err).Msg("ws disconnected")
			return
		}
		var msg inboundMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.sendWSError(conn, "invalid message")
			continue
		}
		switch msg.Type {
		case "join_room":
			s.handleJoinRoomMessage(connID, conn, msg)
		default:
			log.Warn().Str("conn_id", connID).Str("type", msg.Type).Msg("unknown ws message type")
			s.sendWSError(conn, "unknown message type")
		}
	}
}

// handleJoinRoomMessage binds the connection into the room's broadcast set
// and announces the user to everyone already bound there. The room must
// exist; the game does not need to be in any particular state, spectating a
// running game over the channel is allowed.
func (s *Server) handleJoinRoomMessage(connID string, conn *websocket.Conn, msg inboundMessage) {
	if msg.RoomID == "" || msg.UserID == 0 {
		s.sendWSError(conn, "roomId and userId are required")
		return
	}
	if _, err := s.storage.GetRoom(msg.RoomID); err != nil {
		s.sendWSError(conn, ErrRoomNotFound.Error())
		return
	}
	if _, err := s.storage.GetUser(msg.UserID); err != nil {
		s.sendWSError(conn, ErrUserNotFound.Error())
		return
	}
	s.registry.Bind(msg.RoomID, msg.UserID, conn)
	log.Info().Str("conn_id", connID).Str("room_id", msg.RoomID).Uint("user_id", msg.UserID).Msg("ws joined room")
	s.registry.Broadcast(msg.RoomID, userJoinedEvent(msg.UserID))
}

func (s *Server) sendWSError(conn *websocket.Conn, message string) {
	payload, err := json.Marshal(map[string]string{
		"type":    "error",
		"message": message,
	})
	if err != nil {
		return
	}
	_ = conn.WriteMessage(websocket.TextMessage, payload)
}
