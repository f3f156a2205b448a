package server

import (
	"encoding/json"

	"truth-be-told/internal/db"

	"github.com/rs/zerolog/log"
)

const (
	eventUserJoined    = "user_joined"
	eventPlayerJoined  = "player_joined"
	eventPlayerLeft    = "player_left"
	eventGameStarted   = "game_started"
	eventNewSubmission = "new_submission"
	eventRoomClosed    = "room_closed"
)

func userJoinedEvent(userID uint) map[string]any {
	return map[string]any{
		"type":   eventUserJoined,
		"userId": userID,
	}
}

func playerJoinedEvent(player db.RoomPlayerInfo) map[string]any {
	return map[string]any{
		"type":   eventPlayerJoined,
		"player": player,
	}
}

func playerLeftEvent(userID uint) map[string]any {
	return map[string]any{
		"type":   eventPlayerLeft,
		"userId": userID,
	}
}

func gameStartedEvent(currentPlayerID uint) map[string]any {
	return map[string]any{
		"type":            eventGameStarted,
		"currentPlayerId": currentPlayerID,
	}
}

// newSubmissionEvent carries the submission without its actual type; the
// voters must not see the answer.
func newSubmissionEvent(submission *db.Submission) map[string]any {
	return map[string]any{
		"type":       eventNewSubmission,
		"submission": publicSubmission(submission),
	}
}

func roomClosedEvent() map[string]any {
	return map[string]any{
		"type": eventRoomClosed,
	}
}

func publicSubmission(submission *db.Submission) map[string]any {
	return map[string]any{
		"id":       submission.ID,
		"phrase":   submission.Phrase,
		"round":    submission.Round,
		"playerId": submission.PlayerID,
	}
}

// eventPayload is the persisted audit record payload. Submission payloads
// deliberately omit the actual type, the audit trail is readable by clients.
type eventPayload struct {
	UserID          uint   `json:"user_id,omitempty"`
	Round           int    `json:"round,omitempty"`
	SubmissionID    uint   `json:"submission_id,omitempty"`
	Status          string `json:"status,omitempty"`
	CurrentPlayerID uint   `json:"current_player_id,omitempty"`
	MaxRounds       int    `json:"max_rounds,omitempty"`
}

func (s *Server) persistEvent(roomID string, userID *uint, eventType string, payload eventPayload) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Str("event_type", eventType).Msg("failed to marshal event payload")
		return
	}
	if err := s.storage.CreateEvent(roomID, userID, eventType, data); err != nil {
		log.Error().Err(err).Str("room_id", roomID).Str("event_type", eventType).Msg("failed to persist event")
	}
}
