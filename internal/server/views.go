package server

import (
	"time"

	"quorum/internal/models"
	"quorum/internal/service"
)

// View documents never expose email addresses of other users.

type questionView struct {
	ID          uint               `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Author      models.UserSummary `json:"author"`
	AnswerCount int                `json:"answer_count"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type answerView struct {
	ID         uint               `json:"id"`
	QuestionID uint               `json:"question_id"`
	Content    string             `json:"content"`
	Author     models.UserSummary `json:"author"`
	LikeCount  int                `json:"like_count"`
	Liked      bool               `json:"liked"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

type pageView struct {
	Number      int   `json:"number"`
	NumPages    int   `json:"num_pages"`
	Total       int64 `json:"total"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

type profileView struct {
	ID        uint       `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Bio       string     `json:"bio"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	JoinedAt  time.Time  `json:"date_joined"`
}

func newQuestionView(q models.Question) questionView {
	return questionView{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		Author:      q.Author.Summary(),
		AnswerCount: q.AnswerCount,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
}

func newQuestionViews(qs []models.Question) []questionView {
	out := make([]questionView, 0, len(qs))
	for _, q := range qs {
		out = append(out, newQuestionView(q))
	}
	return out
}

func newAnswerView(a models.Answer) answerView {
	return answerView{
		ID:         a.ID,
		QuestionID: a.QuestionID,
		Content:    a.Content,
		Author:     a.Author.Summary(),
		LikeCount:  a.LikeCount,
		Liked:      a.Liked,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func newAnswerViews(as []models.Answer) []answerView {
	out := make([]answerView, 0, len(as))
	for _, a := range as {
		out = append(out, newAnswerView(a))
	}
	return out
}

func newPageView(p *service.QuestionPage) pageView {
	return pageView{
		Number:      p.Page,
		NumPages:    p.NumPages,
		Total:       p.Total,
		HasNext:     p.HasNext(),
		HasPrevious: p.HasPrevious(),
	}
}

func newProfileView(u *models.User) profileView {
	v := profileView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		LastLogin: u.LastLogin,
		JoinedAt:  u.CreatedAt,
	}
	if u.Profile != nil {
		v.Bio = u.Profile.Bio
	}
	return v
}
