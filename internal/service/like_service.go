package service

import (
	"context"

	"quorum/internal/cache"
	"quorum/internal/models"
	"quorum/internal/observability"
	"quorum/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// LikeService toggles likes on answers.
type LikeService struct {
	likes   repository.LikeRepository
	answers repository.AnswerRepository
}

// ToggleResult is the new like state plus the question the answer belongs to.
type ToggleResult struct {
	models.LikeResult
	QuestionID uint `json:"-"`
}

func NewLikeService(likes repository.LikeRepository, answers repository.AnswerRepository) *LikeService {
	return &LikeService{likes: likes, answers: answers}
}

// Toggle likes the answer if userID has not liked it yet, and unlikes it otherwise.
func (s *LikeService) Toggle(ctx context.Context, userID, answerID uint) (res *ToggleResult, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "LikeService", "Toggle",
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("answer.id", int64(answerID)))
	defer func() { observability.EndSpan(span, err) }()

	answer, err := s.answers.GetByID(ctx, answerID)
	if err != nil {
		return nil, err
	}

	lr, err := s.likes.Toggle(ctx, userID, answerID)
	if err != nil {
		return nil, err
	}

	state := "unliked"
	if lr.Liked {
		state = "liked"
	}
	span.SetAttributes(attribute.String("like.state", state))
	observability.LikeToggles.WithLabelValues(state).Inc()
	cache.Invalidate(ctx, cache.QuestionDetailKey(ctx, answer.QuestionID))

	return &ToggleResult{LikeResult: *lr, QuestionID: answer.QuestionID}, nil
}
