package db

import "time"

type RoomPlayer struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	RoomID    string    `gorm:"size:12;index;not null;uniqueIndex:idx_room_players_room_user" json:"room_id"`
	UserID    uint      `gorm:"index;not null;uniqueIndex:idx_room_players_room_user" json:"user_id"`
	Score     int       `gorm:"not null;default:0" json:"score"`
	JoinedAt  time.Time `gorm:"not null" json:"joined_at"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
	UpdatedAt time.Time `gorm:"not null" json:"-"`
}

// RoomPlayerInfo is a RoomPlayer row joined with the user's display data,
// ordered by join time when listed.
type RoomPlayerInfo struct {
	UserID      uint      `json:"user_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Score       int       `json:"score"`
	JoinedAt    time.Time `json:"joined_at"`
}
