package validation

import (
	"strings"
	"testing"

	"quorum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldsOf(t *testing.T, err error) map[string][]string {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
	return appErr.Fields
}

func TestQuestionForm(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		title   string
		wantErr bool
	}{
		{"Empty", "", true},
		{"Whitespace Only", "   ", true},
		{"Tabs And Newlines", "\t\n", true},
		{"Single Char", "x", false},
		{"Too Long", strings.Repeat("a", 256), true},
		{"Max Length", strings.Repeat("a", 255), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := QuestionForm{Title: tt.title}
			err := f.Validate()
			if tt.wantErr {
				assert.Contains(t, fieldsOf(t, err), "title")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuestionForm_BlankMessage(t *testing.T) {
	f := QuestionForm{Title: "  "}
	assert.Equal(t, []string{"Title cannot be empty."}, fieldsOf(t, f.Validate())["title"])
}

func TestQuestionForm_Trims(t *testing.T) {
	f := QuestionForm{Title: "  How do maps grow?  ", Description: " body \n"}
	require.NoError(t, f.Validate())
	assert.Equal(t, "How do maps grow?", f.Title)
	assert.Equal(t, "body", f.Description)
}

func TestAnswerForm(t *testing.T) {
	f := AnswerForm{Content: " \n "}
	assert.Equal(t, []string{"Answer cannot be empty."}, fieldsOf(t, f.Validate())["content"])

	f = AnswerForm{Content: "use a slice"}
	assert.NoError(t, f.Validate())
}

func TestRegisterForm(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		form      RegisterForm
		wantField string
	}{
		{"Valid", RegisterForm{"alice", "alice@example.com", "correct-horse-42", "correct-horse-42"}, ""},
		{"Missing Username", RegisterForm{"", "alice@example.com", "correct-horse-42", "correct-horse-42"}, "username"},
		{"Bad Username Chars", RegisterForm{"alice bob", "alice@example.com", "correct-horse-42", "correct-horse-42"}, "username"},
		{"Username Allows Symbols", RegisterForm{"a.l+i-c_e@x", "alice@example.com", "correct-horse-42", "correct-horse-42"}, ""},
		{"Username Too Long", RegisterForm{strings.Repeat("u", 151), "alice@example.com", "correct-horse-42", "correct-horse-42"}, "username"},
		{"Bad Email", RegisterForm{"alice", "not-an-email", "correct-horse-42", "correct-horse-42"}, "email"},
		{"Mismatch", RegisterForm{"alice", "alice@example.com", "correct-horse-42", "correct-horse-43"}, "password2"},
		{"Too Short", RegisterForm{"alice", "alice@example.com", "Ab1!", "Ab1!"}, "password2"},
		{"Numeric", RegisterForm{"alice", "alice@example.com", "9381726450", "9381726450"}, "password2"},
		{"Common", RegisterForm{"alice", "alice@example.com", "password123", "password123"}, "password2"},
		{"Similar To Username", RegisterForm{"marguerite", "m@example.com", "marguerite99", "marguerite99"}, "password2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.form
			err := f.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			assert.Contains(t, fieldsOf(t, err), tt.wantField)
		})
	}
}

func TestRegisterForm_MismatchMessage(t *testing.T) {
	f := RegisterForm{"alice", "alice@example.com", "correct-horse-42", "nope"}
	assert.Equal(t, []string{"The two password fields didn't match."}, fieldsOf(t, f.Validate())["password2"])
}

func TestRegisterForm_CollectsAllFieldErrors(t *testing.T) {
	f := RegisterForm{"bad name", "nope", "12345678", "12345678"}
	fields := fieldsOf(t, f.Validate())
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password2")
}

func TestPasswordProblems(t *testing.T) {
	assert.Empty(t, PasswordProblems("correct-horse-42", "alice", "alice@example.com"))
	assert.Len(t, PasswordProblems("1234567", "", ""), 2)
	assert.Equal(t, []string{"The password is too similar to the email address."},
		PasswordProblems("zanzibar-travels", "bob", "zanzibar@example.com"))
}

func TestLoginForm(t *testing.T) {
	f := LoginForm{Username: "  alice ", Password: ""}
	fields := fieldsOf(t, f.Validate())
	assert.Contains(t, fields, "password")
	assert.Equal(t, "alice", f.Username)
}

func TestProfileForm(t *testing.T) {
	f := ProfileForm{Username: "alice", Email: "alice@example.com", Bio: "  hi  "}
	require.NoError(t, f.Validate())
	assert.Equal(t, "hi", f.Bio)

	f = ProfileForm{Username: "alice", Email: "bad"}
	assert.Contains(t, fieldsOf(t, f.Validate()), "email")
}
