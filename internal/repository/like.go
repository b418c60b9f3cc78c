package repository

import (
	"context"

	"quorum/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines persistence operations for likes on answers.
type LikeRepository interface {
	Toggle(ctx context.Context, userID, answerID uint) (*models.LikeResult, error)
	LikedAnswerIDs(ctx context.Context, userID uint, answerIDs []uint) ([]uint, error)
	CountForAnswer(ctx context.Context, answerID uint) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository returns a new LikeRepository implementation.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Toggle flips the like of userID on answerID and returns the new state and count.
//
// The delete is conditional: when it removes a row the answer is now unliked.
// Otherwise the like is inserted with ON CONFLICT DO NOTHING, so a concurrent
// toggle that inserted first still leaves the pair liked instead of failing.
func (r *likeRepository) Toggle(ctx context.Context, userID, answerID uint) (*models.LikeResult, error) {
	result := &models.LikeResult{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.Answer{}).Where("id = ?", answerID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return models.NewNotFoundError("Answer", answerID)
		}

		del := tx.Where("answer_id = ? AND user_id = ?", answerID, userID).Delete(&models.Like{})
		if del.Error != nil {
			return del.Error
		}
		if del.RowsAffected == 0 {
			like := &models.Like{AnswerID: answerID, UserID: userID}
			err := tx.Clauses(clause.OnConflict{DoNothing: true}).Omit("Answer", "User").Create(like).Error
			if err != nil && !isUniqueViolation(err) {
				return err
			}
			result.Liked = true
		}

		return tx.Model(&models.Like{}).Where("answer_id = ?", answerID).Count(&result.LikeCount).Error
	})
	if err != nil {
		return nil, wrap(err)
	}
	return result, nil
}

// LikedAnswerIDs returns the subset of answerIDs that userID has liked.
func (r *likeRepository) LikedAnswerIDs(ctx context.Context, userID uint, answerIDs []uint) ([]uint, error) {
	liked := []uint{}
	if userID == 0 || len(answerIDs) == 0 {
		return liked, nil
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND answer_id IN ?", userID, answerIDs).
		Order("answer_id").
		Pluck("answer_id", &liked).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return liked, nil
}

func (r *likeRepository) CountForAnswer(ctx context.Context, answerID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).Where("answer_id = ?", answerID).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
