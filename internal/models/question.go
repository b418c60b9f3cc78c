package models

import (
	"time"
)

// Question is a titled post that collects answers.
type Question struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	AuthorID    uint   `gorm:"not null;index" json:"author_id"`
	Author      User   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;" json:"author"`
	// AnswerCount is not persisted; computed at query time
	AnswerCount int       `gorm:"->;-:migration" json:"answer_count"`
	CreatedAt   time.Time `gorm:"index:idx_questions_created_at,sort:desc" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Answer is a reply to a Question.
type Answer struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	QuestionID uint     `gorm:"not null;index" json:"question_id"`
	Question   Question `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE;" json:"-"`
	AuthorID   uint     `gorm:"not null;index" json:"author_id"`
	Author     User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;" json:"author"`
	Content    string   `gorm:"type:text;not null" json:"content"`
	// LikeCount is not persisted; computed at query time
	LikeCount int `gorm:"->;-:migration" json:"like_count"`
	// Liked indicates whether the requesting user liked this answer (computed)
	Liked     bool      `gorm:"-" json:"liked"`
	CreatedAt time.Time `gorm:"index:idx_answers_created_at,sort:desc" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAuthor reports whether userID wrote the question.
func (q *Question) IsAuthor(userID uint) bool {
	return q.AuthorID == userID
}

// IsAuthor reports whether userID wrote the answer.
func (a *Answer) IsAuthor(userID uint) bool {
	return a.AuthorID == userID
}
