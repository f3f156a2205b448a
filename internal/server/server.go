package server

import (
	"net/http"
	"sync"

	"truth-be-told/internal/config"
)

type Server struct {
	storage   Storage
	registry  *Registry
	cfg       config.Config
	locksMu   sync.Mutex
	roomLocks map[string]*sync.Mutex
}

// New wires the coordinator to its storage collaborator. A nil storage gets
// the in-memory fallback, which is how the tests run.
func New(storage Storage, cfg config.Config) *Server {
	if storage == nil {
		storage = NewMemStore()
	}
	return &Server{
		storage:   storage,
		registry:  NewRegistry(),
		cfg:       cfg,
		roomLocks: make(map[string]*sync.Mutex),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/users", s.handleCreateUser)
	mux.HandleFunc("GET /api/users/{id}", s.handleGetUser)
	mux.HandleFunc("GET /api/users/by-username/{username}", s.handleGetUserByUsername)
	mux.HandleFunc("POST /api/rooms", s.handleCreateRoom)
	mux.HandleFunc("GET /api/rooms/{id}", s.handleGetRoom)
	mux.HandleFunc("DELETE /api/rooms/{id}", s.handleDeleteRoom)
	mux.HandleFunc("POST /api/rooms/{id}/join", s.handleJoinRoom)
	mux.HandleFunc("POST /api/rooms/{id}/leave", s.handleLeaveRoom)
	mux.HandleFunc("POST /api/rooms/{id}/start", s.handleStartGame)
	mux.HandleFunc("POST /api/rooms/{id}/submissions", s.handleCreateSubmission)
	mux.HandleFunc("GET /api/rooms/{id}/submissions/{round}", s.handleGetSubmission)
	mux.HandleFunc("GET /api/rooms/{id}/events", s.handleListEvents)
	mux.HandleFunc("POST /api/submissions/{id}/votes", s.handleCreateVote)
	mux.HandleFunc("GET /api/submissions/{id}/votes", s.handleListVotes)
	mux.HandleFunc("GET /ws", s.handleWebsocket)
	return mux
}
