package db

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Store is the Postgres-backed storage collaborator.
type Store struct {
	conn *gorm.DB
}

func NewStore(conn *gorm.DB) *Store {
	return &Store{conn: conn}
}

func (s *Store) CreateUser(username, displayName string) (*User, error) {
	user := User{
		Username:    username,
		DisplayName: displayName,
	}
	if err := s.conn.Create(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (s *Store) GetUser(id uint) (*User, error) {
	var user User
	if err := s.conn.First(&user, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(username string) (*User, error) {
	var user User
	if err := s.conn.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// CreateRoom inserts the room and auto-joins the host in one transaction.
func (s *Store) CreateRoom(room *Room) error {
	err := s.conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}
		host := RoomPlayer{
			RoomID:   room.ID,
			UserID:   room.HostID,
			Score:    0,
			JoinedAt: time.Now().UTC(),
		}
		return tx.Create(&host).Error
	})
	return translateError(err)
}

func (s *Store) GetRoom(id string) (*Room, error) {
	var room Room
	if err := s.conn.Where("id = ?", id).First(&room).Error; err != nil {
		return nil, translateError(err)
	}
	return &room, nil
}

func (s *Store) UpdateRoom(id string, updates map[string]any) error {
	result := s.conn.Model(&Room{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteRoom(id string) error {
	err := s.conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", id).Delete(&RoomPlayer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", id).Delete(&Event{}).Error; err != nil {
			return err
		}
		if err := tx.Where("submission_id IN (?)",
			tx.Model(&Submission{}).Select("id").Where("room_id = ?", id),
		).Delete(&Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", id).Delete(&Submission{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&Room{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translateError(err)
}

func (s *Store) JoinRoom(roomID string, userID uint) (*RoomPlayer, error) {
	player := RoomPlayer{
		RoomID:   roomID,
		UserID:   userID,
		Score:    0,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.conn.Create(&player).Error; err != nil {
		return nil, translateError(err)
	}
	return &player, nil
}

func (s *Store) GetRoomPlayers(roomID string) ([]RoomPlayerInfo, error) {
	players := make([]RoomPlayerInfo, 0)
	err := s.conn.Table("room_players").
		Select("room_players.user_id, users.username, users.display_name, room_players.score, room_players.joined_at").
		Joins("JOIN users ON users.id = room_players.user_id").
		Where("room_players.room_id = ?", roomID).
		Order("room_players.joined_at asc").
		Scan(&players).Error
	if err != nil {
		return nil, translateError(err)
	}
	return players, nil
}

func (s *Store) LeaveRoom(roomID string, userID uint) error {
	result := s.conn.Where("room_id = ? AND user_id = ?", roomID, userID).Delete(&RoomPlayer{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdatePlayerScore(roomID string, userID uint, delta int) error {
	result := s.conn.Model(&RoomPlayer{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Update("score", gorm.Expr("score + ?", delta))
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CreateSubmission(submission *Submission) error {
	return translateError(s.conn.Create(submission).Error)
}

func (s *Store) GetSubmission(roomID string, round int) (*Submission, error) {
	var submission Submission
	err := s.conn.Where("room_id = ? AND round = ?", roomID, round).First(&submission).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &submission, nil
}

func (s *Store) GetSubmissionByID(id uint) (*Submission, error) {
	var submission Submission
	if err := s.conn.First(&submission, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &submission, nil
}

func (s *Store) CreateVote(vote *Vote) error {
	return translateError(s.conn.Create(vote).Error)
}

func (s *Store) GetVotes(submissionID uint) ([]VoteInfo, error) {
	votes := make([]VoteInfo, 0)
	err := s.conn.Table("votes").
		Select("votes.id, votes.submission_id, votes.voter_id, users.username, users.display_name, votes.guessed_type, votes.is_correct, votes.created_at").
		Joins("JOIN users ON users.id = votes.voter_id").
		Where("votes.submission_id = ?", submissionID).
		Order("votes.created_at asc").
		Scan(&votes).Error
	if err != nil {
		return nil, translateError(err)
	}
	return votes, nil
}

func (s *Store) HasUserVoted(submissionID, voterID uint) (bool, error) {
	var count int64
	err := s.conn.Model(&Vote{}).
		Where("submission_id = ? AND voter_id = ?", submissionID, voterID).
		Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

func (s *Store) CreateEvent(roomID string, userID *uint, eventType string, payload []byte) error {
	event := Event{
		RoomID:  roomID,
		UserID:  userID,
		Type:    eventType,
		Payload: datatypes.JSON(payload),
	}
	return translateError(s.conn.Create(&event).Error)
}

func (s *Store) ListEvents(roomID string) ([]Event, error) {
	events := make([]Event, 0)
	err := s.conn.Where("room_id = ?", roomID).Order("created_at asc").Find(&events).Error
	if err != nil {
		return nil, translateError(err)
	}
	return events, nil
}
