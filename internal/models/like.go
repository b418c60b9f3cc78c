package models

import (
	"time"
)

// Like records that a user endorsed an answer.
// The combination of AnswerID and UserID must be unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AnswerID  uint      `gorm:"not null;index;uniqueIndex:idx_likes_answer_user" json:"answer_id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_likes_answer_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	Answer Answer `gorm:"foreignKey:AnswerID;constraint:OnDelete:CASCADE;" json:"-"`
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
}

// LikeResult is the outcome of toggling a like.
type LikeResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}
