package server

import (
	"errors"
	"sync"

	"truth-be-told/internal/db"

	"github.com/rs/zerolog/log"
)

// The coordinator serializes mutating operations per room so that
// check-then-insert sequences (turn ownership, duplicate votes, duplicate
// submissions) cannot interleave. Storage uniqueness constraints back the
// same invariants up at the row level.
func (s *Server) lockRoom(roomID string) func() {
	s.locksMu.Lock()
	lock, ok := s.roomLocks[roomID]
	if !ok {
		lock = &sync.Mutex{}
		s.roomLocks[roomID] = lock
	}
	s.locksMu.Unlock()
	lock.Lock()
	return lock.Unlock
}

func (s *Server) releaseRoomLock(roomID string) {
	s.locksMu.Lock()
	delete(s.roomLocks, roomID)
	s.locksMu.Unlock()
}

// CreateRoom creates a room in the waiting state and auto-joins the host.
// Nothing is broadcast; no one can be listening yet.
func (s *Server) CreateRoom(id string, maxRounds int, hostID uint) (*db.Room, error) {
	if _, err := s.storage.GetUser(hostID); err != nil {
		return nil, translateStorageError(err, ErrUserNotFound)
	}
	room := &db.Room{
		ID:           id,
		HostID:       hostID,
		Status:       db.RoomStatusWaiting,
		CurrentRound: 1,
		MaxRounds:    maxRounds,
	}
	if err := s.storage.CreateRoom(room); err != nil {
		return nil, translateStorageError(err, ErrDuplicateRoom)
	}
	s.persistEvent(id, &hostID, "room_created", eventPayload{
		UserID:    hostID,
		MaxRounds: maxRounds,
	})
	log.Info().Str("room_id", id).Uint("host_id", hostID).Int("max_rounds", maxRounds).Msg("room created")
	return room, nil
}

// JoinRoom adds a user to a waiting room and broadcasts the new player record.
// Duplicate joins are rejected rather than doubled.
func (s *Server) JoinRoom(roomID string, userID uint) (*db.RoomPlayerInfo, error) {
	unlock := s.lockRoom(roomID)
	defer unlock()

	room, err := s.storage.GetRoom(roomID)
	if err != nil {
		return nil, translateStorageError(err, ErrRoomNotFound)
	}
	user, err := s.storage.GetUser(userID)
	if err != nil {
		return nil, translateStorageError(err, ErrUserNotFound)
	}
	if room.Status != db.RoomStatusWaiting {
		return nil, ErrGameAlreadyStarted
	}
	player, err := s.storage.JoinRoom(roomID, userID)
	if err != nil {
		return nil, translateStorageError(err, ErrAlreadyJoined)
	}
	info := db.RoomPlayerInfo{
		UserID:      userID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Score:       player.Score,
		JoinedAt:    player.JoinedAt,
	}
	s.persistEvent(roomID, &userID, "player_joined", eventPayload{UserID: userID})
	log.Info().Str("room_id", roomID).Uint("user_id", userID).Msg("player joined")
	s.registry.Broadcast(roomID, playerJoinedEvent(info))
	return &info, nil
}

// LeaveRoom removes a non-host player from a waiting room.
func (s *Server) LeaveRoom(roomID string, userID uint) error {
	unlock := s.lockRoom(roomID)
	defer unlock()

	room, err := s.storage.GetRoom(roomID)
	if err != nil {
		return translateStorageError(err, ErrRoomNotFound)
	}
	if room.Status != db.RoomStatusWaiting {
		return ErrGameAlreadyStarted
	}
	if room.HostID == userID {
		return ErrNotHost
	}
	if err := s.storage.LeaveRoom(roomID, userID); err != nil {
		return translateStorageError(err, ErrPlayerNotFound)
	}
	s.persistEvent(roomID, &userID, "player_left", eventPayload{UserID: userID})
	log.Info().Str("room_id", roomID).Uint("user_id", userID).Msg("player left")
	s.registry.Broadcast(roomID, playerLeftEvent(userID))
	return nil
}

// StartGame transitions a waiting room to playing. The first player in join
// order takes the first turn.
func (s *Server) StartGame(roomID string, hostID uint) (*db.Room, error) {
	unlock := s.lockRoom(roomID)
	defer unlock()

	room, err := s.storage.GetRoom(roomID)
	if err != nil {
		return nil, translateStorageError(err, ErrRoomNotFound)
	}
	if room.HostID != hostID {
		return nil, ErrNotHost
	}
	if room.Status != db.RoomStatusWaiting {
		return nil, ErrGameAlreadyStarted
	}
	players, err := s.storage.GetRoomPlayers(roomID)
	if err != nil {
		return nil, err
	}
	if len(players) < s.cfg.MinPlayers {
		return nil, ErrInsufficientPlayers
	}
	first := players[0].UserID
	err = s.storage.UpdateRoom(roomID, map[string]any{
		"status":            db.RoomStatusPlaying,
		"current_player_id": first,
	})
	if err != nil {
		return nil, translateStorageError(err, ErrRoomNotFound)
	}
	room.Status = db.RoomStatusPlaying
	room.CurrentPlayerID = &first
	s.persistEvent(roomID, &hostID, "game_started", eventPayload{
		Status:          room.Status,
		CurrentPlayerID: first,
	})
	log.Info().Str("room_id", roomID).Uint("current_player_id", first).Msg("game started")
	s.registry.Broadcast(roomID, gameStartedEvent(first))
	return room, nil
}

// SubmitPhrase stores the current-turn player's phrase for the round and
// broadcasts it without its actual type. Room status stays "playing"; clients
// treat the new_submission event as the voting-phase trigger.
func (s *Server) SubmitPhrase(roomID string, playerID uint, round int, phrase, actualType string) (*db.Submission, error) {
	unlock := s.lockRoom(roomID)
	defer unlock()

	room, err := s.storage.GetRoom(roomID)
	if err != nil {
		return nil, translateStorageError(err, ErrRoomNotFound)
	}
	if room.CurrentPlayerID == nil || *room.CurrentPlayerID != playerID {
		return nil, ErrNotYourTurn
	}
	if _, err := s.storage.GetSubmission(roomID, round); err == nil {
		return nil, ErrDuplicateSubmission
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, err
	}
	submission := &db.Submission{
		RoomID:     roomID,
		PlayerID:   playerID,
		Round:      round,
		Phrase:     phrase,
		ActualType: actualType,
	}
	if err := s.storage.CreateSubmission(submission); err != nil {
		return nil, translateStorageError(err, ErrDuplicateSubmission)
	}
	s.persistEvent(roomID, &playerID, "phrase_submitted", eventPayload{
		UserID:       playerID,
		Round:        round,
		SubmissionID: submission.ID,
	})
	log.Info().Str("room_id", roomID).Uint("player_id", playerID).Int("round", round).Msg("phrase submitted")
	s.registry.Broadcast(roomID, newSubmissionEvent(submission))
	return submission, nil
}

// CastVote records a voter's guess against a submission, deriving correctness
// at creation time. Individual votes are not broadcast; tallying is left to
// whoever builds on the stored rows.
func (s *Server) CastVote(submissionID, voterID uint, guessedType string) (*db.Vote, error) {
	submission, err := s.storage.GetSubmissionByID(submissionID)
	if err != nil {
		return nil, translateStorageError(err, ErrSubmissionNotFound)
	}

	unlock := s.lockRoom(submission.RoomID)
	defer unlock()

	if _, err := s.storage.GetUser(voterID); err != nil {
		return nil, translateStorageError(err, ErrUserNotFound)
	}
	voted, err := s.storage.HasUserVoted(submissionID, voterID)
	if err != nil {
		return nil, err
	}
	if voted {
		return nil, ErrAlreadyVoted
	}
	vote := &db.Vote{
		SubmissionID: submissionID,
		VoterID:      voterID,
		GuessedType:  guessedType,
		IsCorrect:    guessedType == submission.ActualType,
	}
	if err := s.storage.CreateVote(vote); err != nil {
		return nil, translateStorageError(err, ErrAlreadyVoted)
	}
	s.persistEvent(submission.RoomID, &voterID, "vote_cast", eventPayload{
		UserID:       voterID,
		SubmissionID: submissionID,
	})
	log.Info().Str("room_id", submission.RoomID).Uint("voter_id", voterID).Uint("submission_id", submissionID).Bool("correct", vote.IsCorrect).Msg("vote cast")
	return vote, nil
}

// DeleteRoom removes a room and its memberships. Host only.
func (s *Server) DeleteRoom(roomID string, userID uint) error {
	unlock := s.lockRoom(roomID)
	defer unlock()

	room, err := s.storage.GetRoom(roomID)
	if err != nil {
		return translateStorageError(err, ErrRoomNotFound)
	}
	if room.HostID != userID {
		return ErrNotHost
	}
	if err := s.storage.DeleteRoom(roomID); err != nil {
		return translateStorageError(err, ErrRoomNotFound)
	}
	log.Info().Str("room_id", roomID).Uint("host_id", userID).Msg("room deleted")
	s.registry.Broadcast(roomID, roomClosedEvent())
	s.releaseRoomLock(roomID)
	return nil
}

// translateStorageError maps the storage sentinels onto the domain error the
// current operation surfaces; anything else passes through as internal.
func translateStorageError(err, domain error) error {
	if errors.Is(err, db.ErrNotFound) || errors.Is(err, db.ErrDuplicate) {
		return domain
	}
	return err
}
