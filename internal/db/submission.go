package db

import "time"

const (
	SubmissionTypeTruth       = "truth"
	SubmissionTypeFabrication = "fabrication"
)

type Submission struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RoomID     string    `gorm:"size:12;index;not null;uniqueIndex:idx_submissions_room_round" json:"room_id"`
	PlayerID   uint      `gorm:"index;not null" json:"player_id"`
	Round      int       `gorm:"not null;uniqueIndex:idx_submissions_room_round" json:"round"`
	Phrase     string    `gorm:"size:280;not null" json:"phrase"`
	ActualType string    `gorm:"size:16;not null" json:"actual_type"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"-"`
	Votes      []Vote    `json:"-"`
}
