package service

import (
	"context"
	"testing"

	"quorum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAnswerRepository is a mock of the AnswerRepository interface
type MockAnswerRepository struct {
	mock.Mock
}

func (m *MockAnswerRepository) ListByQuestion(ctx context.Context, questionID uint) ([]models.Answer, error) {
	args := m.Called(ctx, questionID)
	return args.Get(0).([]models.Answer), args.Error(1)
}

func (m *MockAnswerRepository) GetByID(ctx context.Context, id uint) (*models.Answer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Answer), args.Error(1)
}

func (m *MockAnswerRepository) Create(ctx context.Context, answer *models.Answer) error {
	args := m.Called(ctx, answer)
	return args.Error(0)
}

func (m *MockAnswerRepository) Update(ctx context.Context, answer *models.Answer) error {
	args := m.Called(ctx, answer)
	return args.Error(0)
}

func (m *MockAnswerRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockQuestionRepository is a mock of the QuestionRepository interface
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) List(ctx context.Context, limit, offset int) ([]models.Question, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.Question), args.Error(1)
}

func (m *MockQuestionRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) Create(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) Update(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestAnswerService_CreateAnswer_Mocked(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		setupMock func(*MockAnswerRepository, *MockQuestionRepository)
		wantCode  string
	}{
		{
			name:    "Missing question",
			content: "hello",
			setupMock: func(_ *MockAnswerRepository, qr *MockQuestionRepository) {
				qr.On("GetByID", mock.Anything, uint(7)).Return(nil, models.NewNotFoundError("Question", uint(7)))
			},
			wantCode: models.CodeNotFound,
		},
		{
			name:    "Blank content",
			content: "   ",
			setupMock: func(_ *MockAnswerRepository, qr *MockQuestionRepository) {
				qr.On("GetByID", mock.Anything, uint(7)).Return(&models.Question{ID: 7}, nil)
			},
			wantCode: models.CodeValidation,
		},
		{
			name:    "Success",
			content: "  trimmed  ",
			setupMock: func(ar *MockAnswerRepository, qr *MockQuestionRepository) {
				qr.On("GetByID", mock.Anything, uint(7)).Return(&models.Question{ID: 7}, nil)
				ar.On("Create", mock.Anything, mock.MatchedBy(func(a *models.Answer) bool {
					return a.QuestionID == 7 && a.AuthorID == 3 && a.Content == "trimmed"
				})).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answers := new(MockAnswerRepository)
			questions := new(MockQuestionRepository)
			tt.setupMock(answers, questions)
			svc := NewAnswerService(answers, questions)

			a, err := svc.CreateAnswer(context.Background(), CreateAnswerInput{AuthorID: 3, QuestionID: 7, Content: tt.content})
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, models.IsCode(err, tt.wantCode))
				answers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "trimmed", a.Content)
			}
			answers.AssertExpectations(t)
			questions.AssertExpectations(t)
		})
	}
}

func TestAnswerService_NonAuthorNeverWrites(t *testing.T) {
	answers := new(MockAnswerRepository)
	questions := new(MockQuestionRepository)
	answers.On("GetByID", mock.Anything, uint(5)).Return(&models.Answer{ID: 5, QuestionID: 9, AuthorID: 1, Content: "mine"}, nil)
	svc := NewAnswerService(answers, questions)
	ctx := context.Background()

	// Ownership fails before the blank content is looked at.
	a, err := svc.UpdateAnswer(ctx, UpdateAnswerInput{UserID: 2, AnswerID: 5, Content: ""})
	require.True(t, models.IsCode(err, models.CodeForbidden))
	assert.Equal(t, uint(9), a.QuestionID)
	assert.Equal(t, "mine", a.Content)

	qid, err := svc.DeleteAnswer(ctx, DeleteAnswerInput{UserID: 2, AnswerID: 5})
	require.True(t, models.IsCode(err, models.CodeForbidden))
	assert.Equal(t, uint(9), qid)

	answers.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	answers.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
