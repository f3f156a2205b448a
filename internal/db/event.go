package db

import (
	"time"

	"gorm.io/datatypes"
)

// Event is an audit record of a room mutation.
type Event struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	RoomID    string         `gorm:"size:12;index;not null" json:"room_id"`
	UserID    *uint          `gorm:"index" json:"user_id"`
	Type      string         `gorm:"size:64;not null" json:"type"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null" json:"payload"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
}
