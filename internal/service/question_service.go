package service

import (
	"context"

	"quorum/internal/cache"
	"quorum/internal/featureflags"
	"quorum/internal/models"
	"quorum/internal/observability"
	"quorum/internal/repository"
	"quorum/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

const (
	// PageSize is the number of questions per list page.
	PageSize = 10
	// LatestCount is the number of questions on the home page.
	LatestCount = 10
)

// QuestionService manages questions and assembles the read models built on them.
type QuestionService struct {
	questions repository.QuestionRepository
	answers   repository.AnswerRepository
	likes     repository.LikeRepository
	flags     *featureflags.Manager
}

// QuestionPage is one page of the question list.
type QuestionPage struct {
	Questions []models.Question `json:"questions"`
	Page      int               `json:"page"`
	NumPages  int               `json:"num_pages"`
	Total     int64             `json:"total"`
}

// HasNext reports whether a later page exists.
func (p *QuestionPage) HasNext() bool { return p.Page < p.NumPages }

// HasPrevious reports whether an earlier page exists.
func (p *QuestionPage) HasPrevious() bool { return p.Page > 1 }

// QuestionDetail is a question with its answers, newest first.
// UserLikes holds the ids of the answers the viewer liked.
type QuestionDetail struct {
	Question  models.Question `json:"question"`
	Answers   []models.Answer `json:"answers"`
	UserLikes []uint          `json:"user_likes"`
}

type CreateQuestionInput struct {
	AuthorID    uint
	Title       string
	Description string
}

type UpdateQuestionInput struct {
	UserID      uint
	QuestionID  uint
	Title       string
	Description string
}

type DeleteQuestionInput struct {
	UserID     uint
	QuestionID uint
}

func NewQuestionService(
	questions repository.QuestionRepository,
	answers repository.AnswerRepository,
	likes repository.LikeRepository,
	flags *featureflags.Manager,
) *QuestionService {
	return &QuestionService{
		questions: questions,
		answers:   answers,
		likes:     likes,
		flags:     flags,
	}
}

// ListQuestions returns one page of questions, newest first.
// Pages past the end are NotFound, except page 1 of an empty forum.
func (s *QuestionService) ListQuestions(ctx context.Context, page int) (*QuestionPage, error) {
	if page < 1 {
		return nil, models.NewNotFoundError("Page", page)
	}

	out := &QuestionPage{}
	fetch := func() error {
		total, err := s.questions.Count(ctx)
		if err != nil {
			return err
		}
		numPages := int((total + PageSize - 1) / PageSize)
		if numPages == 0 {
			numPages = 1
		}
		if page > numPages {
			return models.NewNotFoundError("Page", page)
		}
		questions, err := s.questions.List(ctx, PageSize, (page-1)*PageSize)
		if err != nil {
			return err
		}
		*out = QuestionPage{Questions: questions, Page: page, NumPages: numPages, Total: total}
		return nil
	}

	var err error
	if s.flags.Enabled(featureflags.QuestionListCache, 0) {
		err = cache.Aside(ctx, "question_list", cache.QuestionListKey(ctx, page), out, cache.ListTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LatestQuestions returns the n most recent questions.
func (s *QuestionService) LatestQuestions(ctx context.Context, n int) ([]models.Question, error) {
	if n <= 0 {
		n = LatestCount
	}
	return s.questions.List(ctx, n, 0)
}

// GetQuestionDetail loads a question with its answers and marks the ones viewerID liked.
// viewerID 0 means an anonymous viewer.
func (s *QuestionService) GetQuestionDetail(ctx context.Context, id, viewerID uint) (detail *QuestionDetail, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "QuestionService", "GetQuestionDetail",
		attribute.Int64("question.id", int64(id)))
	defer func() { observability.EndSpan(span, err) }()

	detail = &QuestionDetail{}
	fetch := func() error {
		q, err := s.questions.GetByID(ctx, id)
		if err != nil {
			return err
		}
		answers, err := s.answers.ListByQuestion(ctx, id)
		if err != nil {
			return err
		}
		detail.Question = *q
		detail.Answers = answers
		return nil
	}

	if s.flags.Enabled(featureflags.QuestionDetailCache, viewerID) {
		err = cache.Aside(ctx, "question_detail", cache.QuestionDetailKey(ctx, id), detail, cache.DetailTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, err
	}

	detail.UserLikes = []uint{}
	if viewerID != 0 && len(detail.Answers) > 0 {
		ids := make([]uint, len(detail.Answers))
		for i, a := range detail.Answers {
			ids[i] = a.ID
		}
		liked, err := s.likes.LikedAnswerIDs(ctx, viewerID, ids)
		if err != nil {
			return nil, err
		}
		detail.UserLikes = liked
	}

	likedSet := make(map[uint]bool, len(detail.UserLikes))
	for _, id := range detail.UserLikes {
		likedSet[id] = true
	}
	for i := range detail.Answers {
		detail.Answers[i].Liked = likedSet[detail.Answers[i].ID]
	}
	return detail, nil
}

// GetQuestion loads a question without its answers.
func (s *QuestionService) GetQuestion(ctx context.Context, id uint) (*models.Question, error) {
	return s.questions.GetByID(ctx, id)
}

// GetOwnedQuestion loads a question the user is about to edit or delete.
// A non-author gets a Forbidden error.
func (s *QuestionService) GetOwnedQuestion(ctx context.Context, userID, questionID uint) (*models.Question, error) {
	q, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if !q.IsAuthor(userID) {
		return nil, models.NewForbiddenError("You can only modify your own questions")
	}
	return q, nil
}

func (s *QuestionService) CreateQuestion(ctx context.Context, in CreateQuestionInput) (q *models.Question, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "QuestionService", "CreateQuestion",
		attribute.Int64("user.id", int64(in.AuthorID)))
	defer func() { observability.EndSpan(span, err) }()

	form := validation.QuestionForm{Title: in.Title, Description: in.Description}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	q = &models.Question{Title: form.Title, Description: form.Description, AuthorID: in.AuthorID}
	if err := s.questions.Create(ctx, q); err != nil {
		return nil, err
	}
	observability.ContentMutations.WithLabelValues("question", "create").Inc()
	cache.InvalidateQuestionLists(ctx)
	return q, nil
}

// UpdateQuestion edits title and description. Ownership is checked before the new values.
func (s *QuestionService) UpdateQuestion(ctx context.Context, in UpdateQuestionInput) (q *models.Question, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "QuestionService", "UpdateQuestion",
		attribute.Int64("question.id", int64(in.QuestionID)))
	defer func() { observability.EndSpan(span, err) }()

	q, err = s.GetOwnedQuestion(ctx, in.UserID, in.QuestionID)
	if err != nil {
		return nil, err
	}

	form := validation.QuestionForm{Title: in.Title, Description: in.Description}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	q.Title = form.Title
	q.Description = form.Description
	if err := s.questions.Update(ctx, q); err != nil {
		return nil, err
	}
	observability.ContentMutations.WithLabelValues("question", "update").Inc()
	cache.InvalidateQuestion(ctx, q.ID)
	return q, nil
}

// DeleteQuestion removes a question with its answers and their likes.
func (s *QuestionService) DeleteQuestion(ctx context.Context, in DeleteQuestionInput) (err error) {
	ctx, span := observability.StartServiceSpan(ctx, "QuestionService", "DeleteQuestion",
		attribute.Int64("question.id", int64(in.QuestionID)))
	defer func() { observability.EndSpan(span, err) }()

	if _, err := s.GetOwnedQuestion(ctx, in.UserID, in.QuestionID); err != nil {
		return err
	}
	if err := s.questions.Delete(ctx, in.QuestionID); err != nil {
		return err
	}
	observability.ContentMutations.WithLabelValues("question", "delete").Inc()
	cache.InvalidateQuestion(ctx, in.QuestionID)
	return nil
}
