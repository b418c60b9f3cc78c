package service

import (
	"context"
	"errors"
	"testing"

	"quorum/internal/models"
	"quorum/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeService_Toggle(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db, "alice")
	bob := testutil.CreateUser(t, f.db, "bob")
	q := testutil.CreateQuestion(t, f.db, alice, "q")
	a := testutil.CreateAnswer(t, f.db, q, alice, "a")

	first, err := f.likes.Toggle(ctx, alice.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, first.Liked)
	assert.Equal(t, int64(1), first.LikeCount)
	assert.Equal(t, q.ID, first.QuestionID)

	second, err := f.likes.Toggle(ctx, bob.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.LikeCount)

	back, err := f.likes.Toggle(ctx, bob.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, back.Liked)
	assert.Equal(t, int64(1), back.LikeCount)

	_, err = f.likes.Toggle(ctx, alice.ID, a.ID+100)
	assertCode(t, err, models.CodeNotFound)
}

func TestLikeService_DoubleToggleRestoresState(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db, "alice")
	bob := testutil.CreateUser(t, f.db, "bob")
	carol := testutil.CreateUser(t, f.db, "carol")
	q := testutil.CreateQuestion(t, f.db, alice, "q")
	a := testutil.CreateAnswer(t, f.db, q, alice, "a")
	testutil.CreateLike(t, f.db, a, bob)

	for _, u := range []*models.User{alice, bob, carol} {
		before, err := f.likes.likes.CountForAnswer(ctx, a.ID)
		require.NoError(t, err)

		once, err := f.likes.Toggle(ctx, u.ID, a.ID)
		require.NoError(t, err)
		twice, err := f.likes.Toggle(ctx, u.ID, a.ID)
		require.NoError(t, err)

		assert.Equal(t, !once.Liked, twice.Liked, u.Username)
		assert.Equal(t, before, twice.LikeCount, u.Username)
	}

	after, err := f.likes.likes.CountForAnswer(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), after)
}

// likeRepoStub is a stub for repository.LikeRepository.
type likeRepoStub struct {
	toggleFn func(context.Context, uint, uint) (*models.LikeResult, error)
}

func (s *likeRepoStub) Toggle(ctx context.Context, userID, answerID uint) (*models.LikeResult, error) {
	return s.toggleFn(ctx, userID, answerID)
}
func (s *likeRepoStub) LikedAnswerIDs(context.Context, uint, []uint) ([]uint, error) {
	return nil, nil
}
func (s *likeRepoStub) CountForAnswer(context.Context, uint) (int64, error) {
	return 0, nil
}

// answerRepoStub is a stub for repository.AnswerRepository.
type answerRepoStub struct {
	getByIDFn func(context.Context, uint) (*models.Answer, error)
}

func (s *answerRepoStub) ListByQuestion(context.Context, uint) ([]models.Answer, error) {
	return nil, nil
}
func (s *answerRepoStub) GetByID(ctx context.Context, id uint) (*models.Answer, error) {
	return s.getByIDFn(ctx, id)
}
func (s *answerRepoStub) Create(context.Context, *models.Answer) error { return nil }
func (s *answerRepoStub) Update(context.Context, *models.Answer) error { return nil }
func (s *answerRepoStub) Delete(context.Context, uint) error           { return nil }

func TestLikeService_Toggle_RepositoryErrorPropagates(t *testing.T) {
	boom := models.NewInternalError(errors.New("db down"))
	svc := NewLikeService(
		&likeRepoStub{toggleFn: func(context.Context, uint, uint) (*models.LikeResult, error) { return nil, boom }},
		&answerRepoStub{getByIDFn: func(_ context.Context, id uint) (*models.Answer, error) {
			return &models.Answer{ID: id, QuestionID: 3}, nil
		}},
	)

	_, err := svc.Toggle(context.Background(), 1, 2)
	assert.ErrorIs(t, err, boom)
}
