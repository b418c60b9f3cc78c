package repository

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"quorum/internal/models"
	"quorum/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionRepository_Count(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewQuestionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "questions"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepository_ListNewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewQuestionRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		q := &models.Question{Title: fmt.Sprintf("q%02d", i), AuthorID: alice.ID, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, repo.Create(ctx, q))
	}

	page1, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, page1, 10)
	assert.Equal(t, "q11", page1[0].Title)
	assert.Equal(t, "q02", page1[9].Title)
	assert.Equal(t, "alice", page1[0].Author.Username)

	page2, err := repo.List(ctx, 10, 10)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Equal(t, "q00", page2[1].Title)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
}

func TestQuestionRepository_GetByID_AnswerCount(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewQuestionRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	q := testutil.CreateQuestion(t, db, alice, "why")
	testutil.CreateAnswer(t, db, q, alice, "because")
	testutil.CreateAnswer(t, db, q, alice, "also because")

	got, err := repo.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.AnswerCount)
	assert.Equal(t, "alice", got.Author.Username)

	_, err = repo.GetByID(ctx, q.ID+100)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestQuestionRepository_Update(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewQuestionRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	q := testutil.CreateQuestion(t, db, alice, "old")

	q.Title = "new"
	q.Description = "more"
	require.NoError(t, repo.Update(ctx, q))

	got, err := repo.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, alice.ID, got.AuthorID)

	err = repo.Update(ctx, &models.Question{ID: 999, Title: "x"})
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestQuestionRepository_Delete_CascadesAnswersAndLikes(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewQuestionRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	q := testutil.CreateQuestion(t, db, alice, "doomed")
	other := testutil.CreateQuestion(t, db, alice, "kept")

	const n = 3
	for i := 0; i < n; i++ {
		a := testutil.CreateAnswer(t, db, q, bob, fmt.Sprintf("answer %d", i))
		testutil.CreateLike(t, db, a, alice)
		testutil.CreateLike(t, db, a, bob)
	}
	keptAnswer := testutil.CreateAnswer(t, db, other, bob, "survives")
	testutil.CreateLike(t, db, keptAnswer, alice)

	require.NoError(t, repo.Delete(ctx, q.ID))

	assert.Equal(t, int64(0), testutil.Count(t, db, &models.Question{}, "id = ?", q.ID))
	assert.Equal(t, int64(0), testutil.Count(t, db, &models.Answer{}, "question_id = ?", q.ID))
	assert.Equal(t, int64(1), testutil.Count(t, db, &models.Answer{}, ""))
	assert.Equal(t, int64(1), testutil.Count(t, db, &models.Like{}, ""))

	err := repo.Delete(ctx, q.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}
