package db

import "time"

const (
	RoomStatusWaiting  = "waiting"
	RoomStatusPlaying  = "playing"
	RoomStatusFinished = "finished"
)

// Room is keyed by a code chosen by its creator, not a generated id.
type Room struct {
	ID              string    `gorm:"primaryKey;size:12" json:"id"`
	HostID          uint      `gorm:"index;not null" json:"host_id"`
	Status          string    `gorm:"size:16;not null;default:waiting" json:"status"`
	CurrentPlayerID *uint     `gorm:"index" json:"current_player_id"`
	CurrentRound    int       `gorm:"not null;default:1" json:"current_round"`
	MaxRounds       int       `gorm:"not null" json:"max_rounds"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"-"`
	Players         []RoomPlayer `json:"-"`
	Submissions     []Submission `json:"-"`
	Events          []Event      `json:"-"`
}
