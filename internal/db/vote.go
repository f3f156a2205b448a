package db

import "time"

type Vote struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubmissionID uint      `gorm:"index;not null;uniqueIndex:idx_votes_submission_voter" json:"submission_id"`
	VoterID      uint      `gorm:"index;not null;uniqueIndex:idx_votes_submission_voter" json:"voter_id"`
	GuessedType  string    `gorm:"size:16;not null" json:"guessed_type"`
	IsCorrect    bool      `gorm:"not null" json:"is_correct"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"-"`
}

// VoteInfo is a Vote row joined with the voter's display data.
type VoteInfo struct {
	ID           uint      `json:"id"`
	SubmissionID uint      `json:"submission_id"`
	VoterID      uint      `json:"voter_id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	GuessedType  string    `json:"guessed_type"`
	IsCorrect    bool      `json:"is_correct"`
	CreatedAt    time.Time `json:"created_at"`
}
