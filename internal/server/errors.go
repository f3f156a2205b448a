package server

import (
	"errors"
	"net/http"
)

// Domain errors surfaced by the coordinator. Each maps to exactly one HTTP
// status in statusForError; handlers never pick statuses ad hoc.
var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrPlayerNotFound     = errors.New("player not in room")

	ErrNotHost = errors.New("only the host can do that")

	ErrDuplicateRoom       = errors.New("room already exists")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrGameAlreadyStarted  = errors.New("game already started")
	ErrAlreadyJoined       = errors.New("already joined")
	ErrInsufficientPlayers = errors.New("not enough players")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrDuplicateSubmission = errors.New("submission already exists for this round")
	ErrAlreadyVoted        = errors.New("already voted")
)

func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrRoomNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrSubmissionNotFound),
		errors.Is(err, ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotHost):
		return http.StatusForbidden
	case errors.Is(err, ErrDuplicateRoom),
		errors.Is(err, ErrUsernameTaken),
		errors.Is(err, ErrGameAlreadyStarted),
		errors.Is(err, ErrAlreadyJoined),
		errors.Is(err, ErrInsufficientPlayers),
		errors.Is(err, ErrNotYourTurn),
		errors.Is(err, ErrDuplicateSubmission),
		errors.Is(err, ErrAlreadyVoted):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		writeError(w, status, "unexpected error")
		return
	}
	writeError(w, status, err.Error())
}
