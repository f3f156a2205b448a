package server

import "truth-be-told/internal/db"

// Storage is the persistence collaborator the coordinator reads and writes
// room state through. db.Store implements it against Postgres; MemStore is
// the in-memory fallback used without a DATABASE_URL and by the tests.
//
// Implementations report db.ErrNotFound and db.ErrDuplicate; the coordinator
// translates those into domain errors.
type Storage interface {
	CreateUser(username, displayName string) (*db.User, error)
	GetUser(id uint) (*db.User, error)
	GetUserByUsername(username string) (*db.User, error)

	CreateRoom(room *db.Room) error
	GetRoom(id string) (*db.Room, error)
	UpdateRoom(id string, updates map[string]any) error
	DeleteRoom(id string) error

	JoinRoom(roomID string, userID uint) (*db.RoomPlayer, error)
	GetRoomPlayers(roomID string) ([]db.RoomPlayerInfo, error)
	LeaveRoom(roomID string, userID uint) error
	UpdatePlayerScore(roomID string, userID uint, delta int) error

	CreateSubmission(submission *db.Submission) error
	GetSubmission(roomID string, round int) (*db.Submission, error)
	GetSubmissionByID(id uint) (*db.Submission, error)

	CreateVote(vote *db.Vote) error
	GetVotes(submissionID uint) ([]db.VoteInfo, error)
	HasUserVoted(submissionID, voterID uint) (bool, error)

	CreateEvent(roomID string, userID *uint, eventType string, payload []byte) error
	ListEvents(roomID string) ([]db.Event, error)
}
