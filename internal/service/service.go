// Package service holds the forum's business rules on top of the repositories.
package service

import (
	"errors"

	"quorum/internal/models"
)

// fieldErrors returns the field map of a validation AppError, or a fresh one.
func fieldErrors(err error) *models.AppError {
	var appErr *models.AppError
	if errors.As(err, &appErr) && appErr.Code == models.CodeValidation {
		return appErr
	}
	return models.NewFieldErrors(map[string][]string{})
}

// outcome labels a metric with the result of an operation.
func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
