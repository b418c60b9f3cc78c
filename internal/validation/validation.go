// Package validation checks and normalizes submitted forms.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"quorum/internal/models"

	"github.com/go-playground/validator/v10"
)

// validate is shared by every form in this package.
var validate *validator.Validate

var usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(formFieldName)

	_ = validate.RegisterValidation("notblank", validateNotBlank)
	_ = validate.RegisterValidation("username", validateUsernameChars)
}

// formFieldName reports errors under the submitted form key.
func formFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateUsernameChars(fl validator.FieldLevel) bool {
	return usernameRegex.MatchString(fl.Field().String())
}

// blankMessages overrides the generic notblank message per form field.
var blankMessages = map[string]string{
	"title":   "Title cannot be empty.",
	"content": "Answer cannot be empty.",
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "notblank":
		if msg, ok := blankMessages[fe.Field()]; ok {
			return msg
		}
		return "This field cannot be blank."
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "eqfield":
		return "The two password fields didn't match."
	default:
		return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
	}
}

// Struct validates v and returns a field-keyed *models.AppError, or nil.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return models.NewValidationError(err.Error())
	}

	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = append(fields[fe.Field()], messageFor(fe))
	}
	return models.NewFieldErrors(fields)
}

// merge folds extra field messages into err, creating it when nil.
func merge(err error, extra map[string][]string) error {
	if len(extra) == 0 {
		return err
	}
	var appErr *models.AppError
	if err == nil || !errors.As(err, &appErr) {
		return models.NewFieldErrors(extra)
	}
	for field, msgs := range extra {
		for _, m := range msgs {
			appErr.AddField(field, m)
		}
	}
	return appErr
}
