package repository

import (
	"context"
	"testing"
	"time"

	"quorum/internal/models"
	"quorum/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerRepository_ListByQuestion(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAnswerRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	q := testutil.CreateQuestion(t, db, alice, "q")
	other := testutil.CreateQuestion(t, db, alice, "other")

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	older := &models.Answer{QuestionID: q.ID, AuthorID: bob.ID, Content: "older", CreatedAt: base}
	newer := &models.Answer{QuestionID: q.ID, AuthorID: alice.ID, Content: "newer", CreatedAt: base.Add(time.Minute)}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))
	testutil.CreateAnswer(t, db, other, bob, "elsewhere")
	testutil.CreateLike(t, db, older, alice)
	testutil.CreateLike(t, db, older, bob)

	answers, err := repo.ListByQuestion(ctx, q.ID)
	require.NoError(t, err)
	require.Len(t, answers, 2)
	assert.Equal(t, "newer", answers[0].Content)
	assert.Equal(t, 0, answers[0].LikeCount)
	assert.Equal(t, "older", answers[1].Content)
	assert.Equal(t, 2, answers[1].LikeCount)
	assert.Equal(t, "bob", answers[1].Author.Username)
}

func TestAnswerRepository_UpdateAndDelete(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAnswerRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	q := testutil.CreateQuestion(t, db, alice, "q")
	a := testutil.CreateAnswer(t, db, q, alice, "first draft")
	testutil.CreateLike(t, db, a, alice)

	a.Content = "second draft"
	require.NoError(t, repo.Update(ctx, a))
	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "second draft", got.Content)
	assert.Equal(t, q.ID, got.QuestionID)
	assert.Equal(t, 1, got.LikeCount)

	require.NoError(t, repo.Delete(ctx, a.ID))
	assert.Equal(t, int64(0), testutil.Count(t, db, &models.Like{}, ""))
	_, err = repo.GetByID(ctx, a.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	assert.True(t, models.IsCode(repo.Delete(ctx, a.ID), models.CodeNotFound))
	assert.True(t, models.IsCode(repo.Update(ctx, a), models.CodeNotFound))
}
