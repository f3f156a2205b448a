package server

import (
	"encoding/json"
	"sync"
	"time"

	"truth-be-told/internal/db"

	"gorm.io/datatypes"
)

// MemStore is the in-memory storage collaborator. It mirrors the Postgres
// store's semantics, including its uniqueness guarantees, and is rebuilt from
// zero on every process restart.
type MemStore struct {
	mu               sync.Mutex
	nextUserID       uint
	nextPlayerID     uint
	nextSubmissionID uint
	nextVoteID       uint
	nextEventID      uint
	users            map[uint]db.User
	usernames        map[string]uint
	rooms            map[string]db.Room
	players          map[string][]db.RoomPlayer
	submissions      map[uint]db.Submission
	votes            map[uint]db.Vote
	events           map[string][]db.Event
}

func NewMemStore() *MemStore {
	return &MemStore{
		nextUserID:       1,
		nextPlayerID:     1,
		nextSubmissionID: 1,
		nextVoteID:       1,
		nextEventID:      1,
		users:            make(map[uint]db.User),
		usernames:        make(map[string]uint),
		rooms:            make(map[string]db.Room),
		players:          make(map[string][]db.RoomPlayer),
		submissions:      make(map[uint]db.Submission),
		votes:            make(map[uint]db.Vote),
		events:           make(map[string][]db.Event),
	}
}

func (m *MemStore) CreateUser(username, displayName string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.usernames[username]; taken {
		return nil, db.ErrDuplicate
	}
	user := db.User{
		ID:          m.nextUserID,
		Username:    username,
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
	}
	m.nextUserID++
	m.users[user.ID] = user
	m.usernames[username] = user.ID
	return &user, nil
}

func (m *MemStore) GetUser(id uint) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &user, nil
}

func (m *MemStore) GetUserByUsername(username string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.usernames[username]
	if !ok {
		return nil, db.ErrNotFound
	}
	user := m.users[id]
	return &user, nil
}

func (m *MemStore) CreateRoom(room *db.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.rooms[room.ID]; exists {
		return db.ErrDuplicate
	}
	room.CreatedAt = time.Now().UTC()
	m.rooms[room.ID] = *room
	m.players[room.ID] = []db.RoomPlayer{{
		ID:       m.nextPlayerID,
		RoomID:   room.ID,
		UserID:   room.HostID,
		Score:    0,
		JoinedAt: time.Now().UTC(),
	}}
	m.nextPlayerID++
	return nil
}

func (m *MemStore) GetRoom(id string) (*db.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &room, nil
}

func (m *MemStore) UpdateRoom(id string, updates map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[id]
	if !ok {
		return db.ErrNotFound
	}
	for column, value := range updates {
		switch column {
		case "status":
			if status, ok := value.(string); ok {
				room.Status = status
			}
		case "current_player_id":
			switch v := value.(type) {
			case uint:
				id := v
				room.CurrentPlayerID = &id
			case *uint:
				room.CurrentPlayerID = v
			case nil:
				room.CurrentPlayerID = nil
			}
		case "current_round":
			if round, ok := value.(int); ok {
				room.CurrentRound = round
			}
		}
	}
	m.rooms[id] = room
	return nil
}

func (m *MemStore) DeleteRoom(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.rooms, id)
	delete(m.players, id)
	delete(m.events, id)
	for submissionID, submission := range m.submissions {
		if submission.RoomID != id {
			continue
		}
		delete(m.submissions, submissionID)
		for voteID, vote := range m.votes {
			if vote.SubmissionID == submissionID {
				delete(m.votes, voteID)
			}
		}
	}
	return nil
}

func (m *MemStore) JoinRoom(roomID string, userID uint) (*db.RoomPlayer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[roomID]; !ok {
		return nil, db.ErrNotFound
	}
	for _, player := range m.players[roomID] {
		if player.UserID == userID {
			return nil, db.ErrDuplicate
		}
	}
	player := db.RoomPlayer{
		ID:       m.nextPlayerID,
		RoomID:   roomID,
		UserID:   userID,
		Score:    0,
		JoinedAt: time.Now().UTC(),
	}
	m.nextPlayerID++
	m.players[roomID] = append(m.players[roomID], player)
	return &player, nil
}

func (m *MemStore) GetRoomPlayers(roomID string) ([]db.RoomPlayerInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	players := m.players[roomID]
	infos := make([]db.RoomPlayerInfo, 0, len(players))
	for _, player := range players {
		user := m.users[player.UserID]
		infos = append(infos, db.RoomPlayerInfo{
			UserID:      player.UserID,
			Username:    user.Username,
			DisplayName: user.DisplayName,
			Score:       player.Score,
			JoinedAt:    player.JoinedAt,
		})
	}
	return infos, nil
}

func (m *MemStore) LeaveRoom(roomID string, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	players := m.players[roomID]
	for i, player := range players {
		if player.UserID == userID {
			m.players[roomID] = append(players[:i], players[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

func (m *MemStore) UpdatePlayerScore(roomID string, userID uint, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	players := m.players[roomID]
	for i := range players {
		if players[i].UserID == userID {
			players[i].Score += delta
			return nil
		}
	}
	return db.ErrNotFound
}

func (m *MemStore) CreateSubmission(submission *db.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.submissions {
		if existing.RoomID == submission.RoomID && existing.Round == submission.Round {
			return db.ErrDuplicate
		}
	}
	submission.ID = m.nextSubmissionID
	m.nextSubmissionID++
	submission.CreatedAt = time.Now().UTC()
	m.submissions[submission.ID] = *submission
	return nil
}

func (m *MemStore) GetSubmission(roomID string, round int) (*db.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, submission := range m.submissions {
		if submission.RoomID == roomID && submission.Round == round {
			found := submission
			return &found, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *MemStore) GetSubmissionByID(id uint) (*db.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	submission, ok := m.submissions[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &submission, nil
}

func (m *MemStore) CreateVote(vote *db.Vote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.votes {
		if existing.SubmissionID == vote.SubmissionID && existing.VoterID == vote.VoterID {
			return db.ErrDuplicate
		}
	}
	vote.ID = m.nextVoteID
	m.nextVoteID++
	vote.CreatedAt = time.Now().UTC()
	m.votes[vote.ID] = *vote
	return nil
}

func (m *MemStore) GetVotes(submissionID uint) ([]db.VoteInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	infos := make([]db.VoteInfo, 0)
	for id := uint(1); id < m.nextVoteID; id++ {
		vote, ok := m.votes[id]
		if !ok || vote.SubmissionID != submissionID {
			continue
		}
		user := m.users[vote.VoterID]
		infos = append(infos, db.VoteInfo{
			ID:           vote.ID,
			SubmissionID: vote.SubmissionID,
			VoterID:      vote.VoterID,
			Username:     user.Username,
			DisplayName:  user.DisplayName,
			GuessedType:  vote.GuessedType,
			IsCorrect:    vote.IsCorrect,
			CreatedAt:    vote.CreatedAt,
		})
	}
	return infos, nil
}

func (m *MemStore) HasUserVoted(submissionID, voterID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, vote := range m.votes {
		if vote.SubmissionID == submissionID && vote.VoterID == voterID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemStore) CreateEvent(roomID string, userID *uint, eventType string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	event := db.Event{
		ID:        m.nextEventID,
		RoomID:    roomID,
		UserID:    userID,
		Type:      eventType,
		Payload:   datatypes.JSON(json.RawMessage(payload)),
		CreatedAt: time.Now().UTC(),
	}
	m.nextEventID++
	m.events[roomID] = append(m.events[roomID], event)
	return nil
}

func (m *MemStore) ListEvents(roomID string) ([]db.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := m.events[roomID]
	out := make([]db.Event, len(events))
	copy(out, events)
	return out, nil
}
