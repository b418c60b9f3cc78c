package service

import (
	"errors"
	"testing"

	"quorum/internal/cache"
	"quorum/internal/featureflags"
	"quorum/internal/models"
	"quorum/internal/repository"
	"quorum/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	accounts  *AccountService
	questions *QuestionService
	answers   *AnswerService
	likes     *LikeService
}

func newFixture(t *testing.T, flags string) *fixture {
	t.Helper()
	db := testutil.NewDB(t)

	users := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	return &fixture{
		db:        db,
		accounts:  NewAccountService(users).WithBcryptCost(bcrypt.MinCost),
		questions: NewQuestionService(questionRepo, answerRepo, likeRepo, featureflags.NewManager(flags)),
		answers:   NewAnswerService(answerRepo, questionRepo),
		likes:     NewLikeService(likeRepo, answerRepo),
	}
}

func useMiniRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })
	return mr
}

func assertCode(t *testing.T, err error, code string) *models.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

// assertValidationError asserts that err is a field validation error on field.
func assertValidationError(t *testing.T, err error, field string) {
	t.Helper()
	appErr := assertCode(t, err, models.CodeValidation)
	if field != "" {
		assert.Contains(t, appErr.Fields, field)
	}
}
