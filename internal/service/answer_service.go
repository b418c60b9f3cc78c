package service

import (
	"context"

	"quorum/internal/cache"
	"quorum/internal/models"
	"quorum/internal/observability"
	"quorum/internal/repository"
	"quorum/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// Messages shown when someone tries to change an answer they did not write.
const (
	MsgCannotEditAnswer   = "You cannot edit someone else's answer."
	MsgCannotDeleteAnswer = "You cannot delete someone else's answer."
)

// AnswerService manages answers to questions.
type AnswerService struct {
	answers   repository.AnswerRepository
	questions repository.QuestionRepository
}

type CreateAnswerInput struct {
	AuthorID   uint
	QuestionID uint
	Content    string
}

type UpdateAnswerInput struct {
	UserID   uint
	AnswerID uint
	Content  string
}

type DeleteAnswerInput struct {
	UserID   uint
	AnswerID uint
}

func NewAnswerService(answers repository.AnswerRepository, questions repository.QuestionRepository) *AnswerService {
	return &AnswerService{answers: answers, questions: questions}
}

// CreateAnswer appends an answer to an existing question.
func (s *AnswerService) CreateAnswer(ctx context.Context, in CreateAnswerInput) (a *models.Answer, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "AnswerService", "CreateAnswer",
		attribute.Int64("question.id", int64(in.QuestionID)))
	defer func() { observability.EndSpan(span, err) }()

	if _, err := s.questions.GetByID(ctx, in.QuestionID); err != nil {
		return nil, err
	}

	form := validation.AnswerForm{Content: in.Content}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	a = &models.Answer{QuestionID: in.QuestionID, AuthorID: in.AuthorID, Content: form.Content}
	if err := s.answers.Create(ctx, a); err != nil {
		return nil, err
	}
	observability.ContentMutations.WithLabelValues("answer", "create").Inc()
	cache.InvalidateQuestion(ctx, in.QuestionID)
	return a, nil
}

// GetOwnedAnswer loads an answer for editing. A non-author gets a Forbidden
// error together with the answer, so the caller can still redirect to its question.
func (s *AnswerService) GetOwnedAnswer(ctx context.Context, userID, answerID uint) (*models.Answer, error) {
	a, err := s.answers.GetByID(ctx, answerID)
	if err != nil {
		return nil, err
	}
	if !a.IsAuthor(userID) {
		return a, models.NewForbiddenError(MsgCannotEditAnswer)
	}
	return a, nil
}

// UpdateAnswer edits the content. On Forbidden the returned answer is still set.
func (s *AnswerService) UpdateAnswer(ctx context.Context, in UpdateAnswerInput) (a *models.Answer, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "AnswerService", "UpdateAnswer",
		attribute.Int64("answer.id", int64(in.AnswerID)))
	defer func() { observability.EndSpan(span, err) }()

	a, err = s.GetOwnedAnswer(ctx, in.UserID, in.AnswerID)
	if err != nil {
		return a, err
	}

	form := validation.AnswerForm{Content: in.Content}
	if err := form.Validate(); err != nil {
		return a, err
	}

	a.Content = form.Content
	if err := s.answers.Update(ctx, a); err != nil {
		return a, err
	}
	observability.ContentMutations.WithLabelValues("answer", "update").Inc()
	cache.InvalidateQuestion(ctx, a.QuestionID)
	return a, nil
}

// DeleteAnswer removes an answer and its likes and returns the parent question id.
// The id is also returned with a Forbidden error.
func (s *AnswerService) DeleteAnswer(ctx context.Context, in DeleteAnswerInput) (questionID uint, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "AnswerService", "DeleteAnswer",
		attribute.Int64("answer.id", int64(in.AnswerID)))
	defer func() { observability.EndSpan(span, err) }()

	a, err := s.answers.GetByID(ctx, in.AnswerID)
	if err != nil {
		return 0, err
	}
	if !a.IsAuthor(in.UserID) {
		return a.QuestionID, models.NewForbiddenError(MsgCannotDeleteAnswer)
	}
	if err := s.answers.Delete(ctx, a.ID); err != nil {
		return a.QuestionID, err
	}
	observability.ContentMutations.WithLabelValues("answer", "delete").Inc()
	cache.InvalidateQuestion(ctx, a.QuestionID)
	return a.QuestionID, nil
}
