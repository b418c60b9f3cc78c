package repository

import (
	"context"
	"errors"

	"quorum/internal/models"
	"quorum/internal/observability"

	"gorm.io/gorm"
)

const answerColumns = "answers.*, (SELECT COUNT(*) FROM likes WHERE likes.answer_id = answers.id) AS like_count"

// AnswerRepository defines persistence operations for answers.
type AnswerRepository interface {
	ListByQuestion(ctx context.Context, questionID uint) ([]models.Answer, error)
	GetByID(ctx context.Context, id uint) (*models.Answer, error)
	Create(ctx context.Context, answer *models.Answer) error
	Update(ctx context.Context, answer *models.Answer) error
	Delete(ctx context.Context, id uint) error
}

type answerRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewAnswerRepository returns a new AnswerRepository implementation.
func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db, log: observability.NewRepoLogger("answers")}
}

// ListByQuestion returns the answers of a question newest first with author and like count.
func (r *answerRepository) ListByQuestion(ctx context.Context, questionID uint) ([]models.Answer, error) {
	var answers []models.Answer
	if err := r.db.WithContext(ctx).
		Model(&models.Answer{}).
		Select(answerColumns).
		Preload("Author").
		Where("answers.question_id = ?", questionID).
		Order("answers.created_at DESC").
		Order("answers.id DESC").
		Find(&answers).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return answers, nil
}

func (r *answerRepository) GetByID(ctx context.Context, id uint) (*models.Answer, error) {
	var answer models.Answer
	if err := r.db.WithContext(ctx).
		Model(&models.Answer{}).
		Select(answerColumns).
		Preload("Author").
		Where("answers.id = ?", id).
		First(&answer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Answer", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &answer, nil
}

func (r *answerRepository) Create(ctx context.Context, answer *models.Answer) error {
	if err := r.db.WithContext(ctx).Omit("Author", "Question").Create(answer).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]any{"answer_id": answer.ID, "question_id": answer.QuestionID})
	return nil
}

// Update saves the content. Author and question never change.
func (r *answerRepository) Update(ctx context.Context, answer *models.Answer) error {
	res := r.db.WithContext(ctx).Model(&models.Answer{ID: answer.ID}).Update("content", answer.Content)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Answer", answer.ID)
	}
	r.log.LogUpdate(ctx, map[string]any{"answer_id": answer.ID})
	return nil
}

// Delete removes the answer and its likes in one transaction.
func (r *answerRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("answer_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Answer{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Answer", id)
		}
		return nil
	})
	if err != nil {
		return wrap(err)
	}
	r.log.LogDelete(ctx, map[string]any{"answer_id": id})
	return nil
}
