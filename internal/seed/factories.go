package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quorum/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassword is the password of every generated account.
const DefaultPassword = "quorum-demo-password"

// Factory builds forum entities with fake content and persists them.
// It is a thin helper used by the seeder and by tests.
type Factory struct {
	db    *gorm.DB
	faker *gofakeit.Faker
	opts  Options
	hash  string
	seq   int
}

// NewFactory creates a Factory bound to db. A zero opts.RandSeed seeds from the clock.
func NewFactory(db *gorm.DB, opts Options) (*Factory, error) {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	cost := bcrypt.DefaultCost
	if opts.FastHash {
		cost = bcrypt.MinCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash default password: %w", err)
	}

	return &Factory{db: db, faker: gofakeit.New(seed), opts: opts, hash: string(hash)}, nil
}

// pastTime returns a moment within the last MaxDays days.
func (f *Factory) pastTime() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.faker.Number(0, maxDays*24*60)) * time.Minute
	return time.Now().Add(-back).UTC()
}

// after returns a moment between t and now.
func (f *Factory) after(t time.Time) time.Time {
	span := int(time.Since(t) / time.Minute)
	if span <= 0 {
		return t
	}
	return t.Add(time.Duration(f.faker.Number(1, span)) * time.Minute)
}

// CreateUser persists a user with a profile. Overrides run before saving.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	f.seq++
	base := strings.ToLower(f.faker.Username())
	username := fmt.Sprintf("%s%d", base, f.seq)
	joined := f.pastTime()

	user := &models.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  f.hash,
		CreatedAt: joined,
		UpdatedAt: joined,
		Profile:   &models.Profile{Bio: f.faker.Sentence(12), CreatedAt: joined, UpdatedAt: joined},
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user %s: %w", user.Username, err)
	}
	return user, nil
}

// CreateQuestion persists a question by author.
func (f *Factory) CreateQuestion(ctx context.Context, author *models.User, overrides ...func(*models.Question)) (*models.Question, error) {
	title := strings.TrimSpace(f.faker.Question())
	if len(title) > 255 {
		title = title[:255]
	}
	asked := f.after(author.CreatedAt)

	q := &models.Question{
		Title:       title,
		Description: f.faker.Paragraph(1, 3, 12, "\n"),
		AuthorID:    author.ID,
		CreatedAt:   asked,
		UpdatedAt:   asked,
	}
	for _, override := range overrides {
		override(q)
	}

	if err := f.db.WithContext(ctx).Omit("Author").Create(q).Error; err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return q, nil
}

// CreateAnswer persists an answer by author to q.
func (f *Factory) CreateAnswer(ctx context.Context, q *models.Question, author *models.User, overrides ...func(*models.Answer)) (*models.Answer, error) {
	answered := f.after(q.CreatedAt)

	a := &models.Answer{
		QuestionID: q.ID,
		AuthorID:   author.ID,
		Content:    f.faker.Paragraph(1, 2, 10, "\n"),
		CreatedAt:  answered,
		UpdatedAt:  answered,
	}
	for _, override := range overrides {
		override(a)
	}

	if err := f.db.WithContext(ctx).Omit("Author", "Question").Create(a).Error; err != nil {
		return nil, fmt.Errorf("create answer: %w", err)
	}
	return a, nil
}

// CreateLike records that user liked a. Liking twice is a no-op.
func (f *Factory) CreateLike(ctx context.Context, a *models.Answer, user *models.User) error {
	like := &models.Like{AnswerID: a.ID, UserID: user.ID, CreatedAt: f.after(a.CreatedAt)}
	return f.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit("Answer", "User").
		Create(like).Error
}

// Chance reports true with probability p.
func (f *Factory) Chance(p float64) bool {
	return f.faker.Float64Range(0, 1) < p
}

// Intn returns a number in [0, n).
func (f *Factory) Intn(n int) int {
	if n <= 1 {
		return 0
	}
	return f.faker.Number(0, n-1)
}
