package validation

import "strings"

// RegisterForm is the sign-up form.
type RegisterForm struct {
	Username  string `form:"username" json:"username" validate:"required,max=150,username"`
	Email     string `form:"email" json:"email" validate:"required,max=254,email"`
	Password1 string `form:"password1" json:"password1" validate:"required"`
	Password2 string `form:"password2" json:"password2" validate:"required,eqfield=Password1"`
}

// Clean trims identity fields. Passwords are kept verbatim.
func (f *RegisterForm) Clean() {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
}

// Validate checks the form and the password rules.
func (f *RegisterForm) Validate() error {
	f.Clean()
	err := Struct(f)
	if f.Password1 != "" && f.Password1 == f.Password2 {
		if msgs := PasswordProblems(f.Password1, f.Username, f.Email); len(msgs) > 0 {
			err = merge(err, map[string][]string{"password2": msgs})
		}
	}
	return err
}

// LoginForm is the sign-in form.
type LoginForm struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
	Next     string `form:"next" json:"next"`
}

// Validate checks that both credentials are present.
func (f *LoginForm) Validate() error {
	f.Username = strings.TrimSpace(f.Username)
	return Struct(f)
}

// ProfileForm updates the account and its profile together.
type ProfileForm struct {
	Username string `form:"username" json:"username" validate:"required,max=150,username"`
	Email    string `form:"email" json:"email" validate:"required,max=254,email"`
	Bio      string `form:"bio" json:"bio" validate:"max=5000"`
}

// Validate trims and checks the form.
func (f *ProfileForm) Validate() error {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
	f.Bio = strings.TrimSpace(f.Bio)
	return Struct(f)
}

// QuestionForm creates or edits a question.
type QuestionForm struct {
	Title       string `form:"title" json:"title" validate:"notblank,max=255"`
	Description string `form:"description" json:"description"`
}

// Validate trims and checks the form.
func (f *QuestionForm) Validate() error {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	return Struct(f)
}

// AnswerForm creates or edits an answer.
type AnswerForm struct {
	Content string `form:"content" json:"content" validate:"notblank"`
}

// Validate trims and checks the form.
func (f *AnswerForm) Validate() error {
	f.Content = strings.TrimSpace(f.Content)
	return Struct(f)
}
