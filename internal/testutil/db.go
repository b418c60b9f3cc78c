// Package testutil provides shared database fixtures for tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"quorum/internal/config"
	"quorum/internal/database"
	"quorum/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// NewDB opens an isolated in-memory SQLite database with the full schema and foreign keys enforced.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=on", name, dbSeq.Add(1))

	db, err := database.Open(sqlite.Open(dsn), &config.Config{Env: "test"})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// CreateUser inserts a user with a profile. The password hash is a fixed placeholder.
func CreateUser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-real-hash",
		Profile:  &models.Profile{},
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

// CreateQuestion inserts a question authored by author.
func CreateQuestion(t testing.TB, db *gorm.DB, author *models.User, title string) *models.Question {
	t.Helper()
	q := &models.Question{Title: title, Description: "details about " + title, AuthorID: author.ID}
	if err := db.Omit("Author").Create(q).Error; err != nil {
		t.Fatalf("create question %q: %v", title, err)
	}
	return q
}

// CreateAnswer inserts an answer to q authored by author.
func CreateAnswer(t testing.TB, db *gorm.DB, q *models.Question, author *models.User, content string) *models.Answer {
	t.Helper()
	a := &models.Answer{QuestionID: q.ID, AuthorID: author.ID, Content: content}
	if err := db.Omit("Author", "Question").Create(a).Error; err != nil {
		t.Fatalf("create answer: %v", err)
	}
	return a
}

// CreateLike records that user liked answer.
func CreateLike(t testing.TB, db *gorm.DB, answer *models.Answer, user *models.User) {
	t.Helper()
	if err := db.Omit("Answer", "User").Create(&models.Like{AnswerID: answer.ID, UserID: user.ID}).Error; err != nil {
		t.Fatalf("create like: %v", err)
	}
}

// Count returns the number of rows of model matching the optional condition.
func Count(t testing.TB, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	tx := db.Model(model)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	if err := tx.Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
