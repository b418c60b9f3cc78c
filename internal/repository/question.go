package repository

import (
	"context"
	"errors"

	"quorum/internal/models"
	"quorum/internal/observability"

	"gorm.io/gorm"
)

const questionColumns = "questions.*, (SELECT COUNT(*) FROM answers WHERE answers.question_id = questions.id) AS answer_count"

// QuestionRepository defines persistence operations for questions.
type QuestionRepository interface {
	List(ctx context.Context, limit, offset int) ([]models.Question, error)
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	Create(ctx context.Context, question *models.Question) error
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id uint) error
}

type questionRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewQuestionRepository returns a new QuestionRepository implementation.
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db, log: observability.NewRepoLogger("questions")}
}

// List returns questions newest first with their author and answer count.
func (r *questionRepository) List(ctx context.Context, limit, offset int) ([]models.Question, error) {
	var questions []models.Question
	if err := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Select(questionColumns).
		Preload("Author").
		Order("questions.created_at DESC").
		Order("questions.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&questions).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return questions, nil
}

func (r *questionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Question{}).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *questionRepository) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	if err := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Select(questionColumns).
		Preload("Author").
		Where("questions.id = ?", id).
		First(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Question", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &question, nil
}

func (r *questionRepository) Create(ctx context.Context, question *models.Question) error {
	if err := r.db.WithContext(ctx).Omit("Author").Create(question).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]any{"question_id": question.ID, "author_id": question.AuthorID})
	return nil
}

// Update saves title and description. The author never changes.
func (r *questionRepository) Update(ctx context.Context, question *models.Question) error {
	res := r.db.WithContext(ctx).Model(&models.Question{ID: question.ID}).Updates(map[string]interface{}{
		"title":       question.Title,
		"description": question.Description,
	})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Question", question.ID)
	}
	r.log.LogUpdate(ctx, map[string]any{"question_id": question.ID})
	return nil
}

// Delete removes the question, its answers and every like on them in one transaction.
func (r *questionRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var answerIDs []uint
		if err := tx.Model(&models.Answer{}).Where("question_id = ?", id).Pluck("id", &answerIDs).Error; err != nil {
			return err
		}
		if len(answerIDs) > 0 {
			if err := tx.Where("answer_id IN ?", answerIDs).Delete(&models.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", answerIDs).Delete(&models.Answer{}).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&models.Question{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Question", id)
		}
		return nil
	})
	if err != nil {
		return wrap(err)
	}
	r.log.LogDelete(ctx, map[string]any{"question_id": id})
	return nil
}
