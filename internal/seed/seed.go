// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"quorum/internal/middleware"
	"quorum/internal/models"

	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers     int
	NumQuestions int
	// MaxAnswers caps the answers generated per question.
	MaxAnswers int
	// LikeRate is the chance that a given user likes a given answer.
	LikeRate float64
	// MaxDays spreads created_at values over the last MaxDays days.
	MaxDays  int
	RandSeed int64
	FastHash bool
	Clean    bool
}

// DefaultOptions returns a small, browsable forum.
func DefaultOptions() Options {
	return Options{
		NumUsers:     20,
		NumQuestions: 45,
		MaxAnswers:   6,
		LikeRate:     0.25,
		MaxDays:      90,
	}
}

// Summary counts what a seeding run inserted.
type Summary struct {
	Users     int
	Questions int
	Answers   int
	Likes     int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d users, %d questions, %d answers, %d likes", s.Users, s.Questions, s.Answers, s.Likes)
}

// Seeder populates the database with generated content.
type Seeder struct {
	db   *gorm.DB
	opts Options
}

// NewSeeder creates a Seeder.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, opts: opts}
}

// Run generates users, questions, answers and likes.
func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	var sum Summary
	middleware.Logger.InfoContext(ctx, "Starting database seeding",
		slog.Int("users", s.opts.NumUsers), slog.Int("questions", s.opts.NumQuestions))

	if s.opts.Clean {
		if err := Clean(ctx, s.db); err != nil {
			return sum, fmt.Errorf("clean: %w", err)
		}
	}
	if s.opts.NumUsers <= 0 {
		return sum, fmt.Errorf("seed needs at least one user")
	}

	f, err := NewFactory(s.db, s.opts)
	if err != nil {
		return sum, err
	}

	users := make([]*models.User, 0, s.opts.NumUsers)
	for i := 0; i < s.opts.NumUsers; i++ {
		u, err := f.CreateUser(ctx)
		if err != nil {
			return sum, err
		}
		users = append(users, u)
	}
	sum.Users = len(users)

	for i := 0; i < s.opts.NumQuestions; i++ {
		q, err := f.CreateQuestion(ctx, users[f.Intn(len(users))])
		if err != nil {
			return sum, err
		}
		sum.Questions++

		answers := f.Intn(s.opts.MaxAnswers + 1)
		for j := 0; j < answers; j++ {
			a, err := f.CreateAnswer(ctx, q, users[f.Intn(len(users))])
			if err != nil {
				return sum, err
			}
			sum.Answers++

			for _, u := range users {
				if !f.Chance(s.opts.LikeRate) {
					continue
				}
				if err := f.CreateLike(ctx, a, u); err != nil {
					return sum, fmt.Errorf("create like: %w", err)
				}
				sum.Likes++
			}
		}
	}

	middleware.Logger.InfoContext(ctx, "Database seeding completed", slog.String("summary", sum.String()))
	return sum, nil
}

// Clean removes all forum content and accounts.
func Clean(ctx context.Context, db *gorm.DB) error {
	middleware.Logger.WarnContext(ctx, "Clearing existing data")
	if db.Dialector.Name() == "postgres" {
		return db.WithContext(ctx).
			Exec(`TRUNCATE TABLE likes, answers, questions, profiles, users RESTART IDENTITY CASCADE`).Error
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&models.Like{}, &models.Answer{}, &models.Question{}, &models.Profile{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// HasUsers reports whether any account exists.
func HasUsers(ctx context.Context, db *gorm.DB) (bool, error) {
	var n int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
