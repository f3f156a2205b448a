package server

import (
	"net/http"
	"strconv"
)

type createUserRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

type createRoomRequest struct {
	ID        string `json:"id"`
	MaxRounds int    `json:"max_rounds"`
	HostID    uint   `json:"host_id"`
}

type roomActionRequest struct {
	UserID uint `json:"user_id"`
}

type createSubmissionRequest struct {
	PlayerID   uint   `json:"player_id"`
	Round      int    `json:"round"`
	Phrase     string `json:"phrase"`
	ActualType string `json:"actual_type"`
}

type createVoteRequest struct {
	VoterID     uint   `json:"voter_id"`
	GuessedType string `json:"guessed_type"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "username and display_name are required")
		return
	}
	username, err := validateUsername(req.Username)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	displayName, err := validateDisplayName(req.DisplayName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := s.storage.CreateUser(username, displayName)
	if err != nil {
		writeDomainError(w, translateStorageError(err, ErrUsernameTaken))
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUintPath(w, r, "id")
	if !ok {
		return
	}
	user, err := s.storage.GetUser(id)
	if err != nil {
		writeDomainError(w, translateStorageError(err, ErrUserNotFound))
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleGetUserByUsername(w http.ResponseWriter, r *http.Request) {
	username, err := validateUsername(r.PathValue("username"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := s.storage.GetUserByUsername(username)
	if err != nil {
		writeDomainError(w, translateStorageError(err, ErrUserNotFound))
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "id, max_rounds and host_id are required")
		return
	}
	roomID, err := validateRoomID(req.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.MaxRounds < 1 || req.MaxRounds > s.cfg.MaxRoundsPerRoom {
		writeError(w, http.StatusBadRequest, "max_rounds is out of range")
		return
	}
	if req.HostID == 0 {
		writeError(w, http.StatusBadRequest, "host_id is required")
		return
	}
	room, err := s.CreateRoom(roomID, req.MaxRounds, req.HostID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	players, err := s.storage.GetRoomPlayers(room.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "unexpected error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"room":    room,
		"players": players,
	})
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")
	room, err := s.storage.GetRoom(roomID)
	if err != nil {
		writeDomainError(w, translateStorageError(err, ErrRoomNotFound))
		return
	}
	players, err := s.storage.GetRoomPlayers(roomID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "unexpected error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"room":    room,
		"players": players,
	})
}

func (s *Server) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	var req roomActionRequest
	if err := readJSON(r.Body, &req); err != nil || req.UserID == 0 {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	roomID := r.PathValue("id")
	if err := s.DeleteRoom(roomID, req.UserID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"deleted": roomID,
	})
}

func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	var req roomActionRequest
	if err := readJSON(r.Body, &req); err != nil || req.UserID == 0 {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	player, err := s.JoinRoom(r.PathValue("id"), req.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, player)
}

func (s *Server) handleLeaveRoom(w http.ResponseWriter, r *http.Request) {
	var req roomActionRequest
	if err := readJSON(r.Body, &req); err != nil || req.UserID == 0 {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	roomID := r.PathValue("id")
	if err := s.LeaveRoom(roomID, req.UserID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"room_id": roomID,
		"user_id": req.UserID,
	})
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	var req roomActionRequest
	if err := readJSON(r.Body, &req); err != nil || req.UserID == 0 {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	room, err := s.StartGame(r.PathValue("id"), req.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (s *Server) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	var req createSubmissionRequest
	if err := readJSON(r.Body, &req); err != nil || req.PlayerID == 0 {
		writeError(w, http.StatusBadRequest, "player_id, round, phrase and actual_type are required")
		return
	}
	if req.Round < 1 {
		writeError(w, http.StatusBadRequest, "round must be positive")
		return
	}
	phrase, err := s.validatePhrase(req.Phrase)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	actualType, err := validateActualType(req.ActualType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	submission, err := s.SubmitPhrase(r.PathValue("id"), req.PlayerID, req.Round, phrase, actualType)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, submission)
}

func (s *Server) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	round, err := strconv.Atoi(r.PathValue("round"))
	if err != nil || round < 1 {
		writeError(w, http.StatusBadRequest, "round must be positive")
		return
	}
	submission, err := s.storage.GetSubmission(r.PathValue("id"), round)
	if err != nil {
		writeDomainError(w, translateStorageError(err, ErrSubmissionNotFound))
		return
	}
	// The answer stays hidden on the read path too.
	writeJSON(w, http.StatusOK, map[string]any{
		"submission": publicSubmission(submission),
	})
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")
	if _, err := s.storage.GetRoom(roomID); err != nil {
		writeDomainError(w, translateStorageError(err, ErrRoomNotFound))
		return
	}
	events, err := s.storage.ListEvents(roomID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "unexpected error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"room_id": roomID,
		"events":  events,
	})
}

func (s *Server) handleCreateVote(w http.ResponseWriter, r *http.Request) {
	submissionID, ok := parseUintPath(w, r, "id")
	if !ok {
		return
	}
	var req createVoteRequest
	if err := readJSON(r.Body, &req); err != nil || req.VoterID == 0 {
		writeError(w, http.StatusBadRequest, "voter_id and guessed_type are required")
		return
	}
	guessedType, err := validateGuessedType(req.GuessedType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	vote, err := s.CastVote(submissionID, req.VoterID, guessedType)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, vote)
}

func (s *Server) handleListVotes(w http.ResponseWriter, r *http.Request) {
	submissionID, ok := parseUintPath(w, r, "id")
	if !ok {
		return
	}
	if _, err := s.storage.GetSubmissionByID(submissionID); err != nil {
		writeDomainError(w, translateStorageError(err, ErrSubmissionNotFound))
		return
	}
	votes, err := s.storage.GetVotes(submissionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "unexpected error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"submission_id": submissionID,
		"votes":         votes,
	})
}

func parseUintPath(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	value, err := strconv.ParseUint(r.PathValue(name), 10, 32)
	if err != nil || value == 0 {
		writeError(w, http.StatusBadRequest, name+" must be a positive integer")
		return 0, false
	}
	return uint(value), true
}
