// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"quorum/internal/models"
	"quorum/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines persistence operations for users and their profiles.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
	UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	EnsureProfile(ctx context.Context, userID uint) (*models.Profile, error)
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	SetPassword(ctx context.Context, id uint, hash string) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, limit, offset int) ([]models.User, error)
}

type userRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db, log: observability.NewRepoLogger("users")}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Profile").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// EmailTaken reports whether another user (not excludeID) already uses email.
func (r *userRepository) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	return r.taken(ctx, "LOWER(email) = LOWER(?)", email, excludeID)
}

// UsernameTaken reports whether another user (not excludeID) already uses username.
func (r *userRepository) UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error) {
	return r.taken(ctx, "username = ?", username, excludeID)
}

func (r *userRepository) taken(ctx context.Context, cond string, value string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.User{}).Where(cond, value)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// Create inserts the user and its profile in one transaction.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Profile").Create(user).Error; err != nil {
			return err
		}
		profile := user.Profile
		if profile == nil {
			profile = &models.Profile{}
		}
		profile.UserID = user.ID
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		user.Profile = profile
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return &models.AppError{Code: models.CodeConflict, Message: "User already exists", Err: err}
		}
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]any{"user_id": user.ID})
	return nil
}

// Update saves username, email and the profile bio. A missing profile is recreated.
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	profile := &models.Profile{UserID: user.ID}
	if user.Profile != nil {
		profile.Bio = user.Profile.Bio
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{ID: user.ID}).Updates(map[string]interface{}{
			"username": user.Username,
			"email":    user.Email,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("User", user.ID)
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"bio", "updated_at"}),
		}).Create(profile).Error; err != nil {
			return err
		}
		var saved models.Profile
		if err := tx.Where("user_id = ?", user.ID).First(&saved).Error; err != nil {
			return err
		}
		*profile = saved
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return &models.AppError{Code: models.CodeConflict, Message: "User already exists", Err: err}
		}
		return wrap(err)
	}
	user.Profile = profile
	r.log.LogUpdate(ctx, map[string]any{"user_id": user.ID})
	return nil
}

// EnsureProfile returns the user's profile, creating an empty one when missing.
func (r *userRepository) EnsureProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Profile{UserID: userID}).Error; err != nil && !isUniqueViolation(err) {
		return nil, models.NewInternalError(err)
	}
	var profile models.Profile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	if err := r.db.WithContext(ctx).Model(&models.User{ID: id}).UpdateColumn("last_login", at).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) SetPassword(ctx context.Context, id uint, hash string) error {
	res := r.db.WithContext(ctx).Model(&models.User{ID: id}).Update("password", hash)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	r.log.LogUpdate(ctx, map[string]any{"user_id": id, "field": "password"})
	return nil
}

// Delete removes the user with everything it owns: likes it gave, its answers,
// its questions (with their answers) and every like on those answers.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var questionIDs []uint
		if err := tx.Model(&models.Question{}).Where("author_id = ?", id).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}

		answers := tx.Model(&models.Answer{}).Where("author_id = ?", id)
		if len(questionIDs) > 0 {
			answers = answers.Or("question_id IN ?", questionIDs)
		}
		var answerIDs []uint
		if err := answers.Pluck("id", &answerIDs).Error; err != nil {
			return err
		}

		likes := tx.Where("user_id = ?", id)
		if len(answerIDs) > 0 {
			likes = likes.Or("answer_id IN ?", answerIDs)
		}
		if err := likes.Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if len(answerIDs) > 0 {
			if err := tx.Where("id IN ?", answerIDs).Delete(&models.Answer{}).Error; err != nil {
				return err
			}
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("id IN ?", questionIDs).Delete(&models.Question{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Profile{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("User", id)
		}
		return nil
	})
	if err != nil {
		return wrap(err)
	}
	r.log.LogDelete(ctx, map[string]any{"user_id": id})
	return nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("id").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
