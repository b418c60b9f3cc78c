package seed

import (
	"context"
	"embed"
	"fmt"
	"io"

	"quorum/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed fixtures/*.yaml
var fixtureFS embed.FS

// Fixtures is a hand-written forum described in YAML.
type Fixtures struct {
	Users     []FixtureUser     `yaml:"users"`
	Questions []FixtureQuestion `yaml:"questions"`
}

type FixtureUser struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Bio      string `yaml:"bio"`
}

type FixtureQuestion struct {
	Author      string          `yaml:"author"`
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	Answers     []FixtureAnswer `yaml:"answers"`
}

type FixtureAnswer struct {
	Author  string   `yaml:"author"`
	Content string   `yaml:"content"`
	LikedBy []string `yaml:"liked_by"`
}

// LoadFixtures decodes fixtures and checks that every reference names a declared user.
func LoadFixtures(r io.Reader) (*Fixtures, error) {
	var fx Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	if err := fx.validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

// DemoFixtures returns the fixtures bundled with the binary.
func DemoFixtures() (*Fixtures, error) {
	f, err := fixtureFS.Open("fixtures/demo.yaml")
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return LoadFixtures(f)
}

func (fx *Fixtures) validate() error {
	known := make(map[string]bool, len(fx.Users))
	for _, u := range fx.Users {
		if u.Username == "" {
			return fmt.Errorf("fixture user without username")
		}
		if known[u.Username] {
			return fmt.Errorf("duplicate fixture user %q", u.Username)
		}
		known[u.Username] = true
	}

	check := func(where, name string) error {
		if !known[name] {
			return fmt.Errorf("%s refers to unknown user %q", where, name)
		}
		return nil
	}
	for _, q := range fx.Questions {
		if q.Title == "" {
			return fmt.Errorf("fixture question without title")
		}
		if err := check(fmt.Sprintf("question %q", q.Title), q.Author); err != nil {
			return err
		}
		for _, a := range q.Answers {
			where := fmt.Sprintf("answer on %q", q.Title)
			if err := check(where, a.Author); err != nil {
				return err
			}
			for _, liker := range a.LikedBy {
				if err := check(where, liker); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// ApplyFixtures inserts fx in one transaction. Questions are created in
// file order, so the last question in the file is the newest.
func ApplyFixtures(ctx context.Context, db *gorm.DB, fx *Fixtures, fastHash bool) (Summary, error) {
	var sum Summary
	cost := bcrypt.DefaultCost
	if fastHash {
		cost = bcrypt.MinCost
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := make(map[string]*models.User, len(fx.Users))
		for _, fu := range fx.Users {
			password := fu.Password
			if password == "" {
				password = DefaultPassword
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
			if err != nil {
				return fmt.Errorf("hash password for %s: %w", fu.Username, err)
			}
			email := fu.Email
			if email == "" {
				email = fu.Username + "@example.com"
			}

			u := &models.User{
				Username: fu.Username,
				Email:    email,
				Password: string(hash),
				Profile:  &models.Profile{Bio: fu.Bio},
			}
			if err := tx.Create(u).Error; err != nil {
				return fmt.Errorf("create user %s: %w", fu.Username, err)
			}
			users[fu.Username] = u
			sum.Users++
		}

		for _, fq := range fx.Questions {
			q := &models.Question{Title: fq.Title, Description: fq.Description, AuthorID: users[fq.Author].ID}
			if err := tx.Omit("Author").Create(q).Error; err != nil {
				return fmt.Errorf("create question %q: %w", fq.Title, err)
			}
			sum.Questions++

			for _, fa := range fq.Answers {
				a := &models.Answer{QuestionID: q.ID, AuthorID: users[fa.Author].ID, Content: fa.Content}
				if err := tx.Omit("Author", "Question").Create(a).Error; err != nil {
					return fmt.Errorf("create answer on %q: %w", fq.Title, err)
				}
				sum.Answers++

				for _, liker := range fa.LikedBy {
					like := &models.Like{AnswerID: a.ID, UserID: users[liker].ID}
					res := tx.Clauses(clause.OnConflict{DoNothing: true}).Omit("Answer", "User").Create(like)
					if res.Error != nil {
						return fmt.Errorf("create like: %w", res.Error)
					}
					sum.Likes += int(res.RowsAffected)
				}
			}
		}
		return nil
	})
	return sum, err
}
