// Package service contains the business rules of the sightings API.
//
//	Handler (HTTP) → Service (rules, transactions) → Repository (SQL)
//
// Services accept plain Go values, never *http.Request, and return
// apperror values that the handler layer maps to status codes.
//
// Every public method runs inside exactly one repository.Store.WithTx
// call. All reads and writes of one request therefore commit or roll back
// together, and a multi-step write such as a sighting PATCH is never
// half-applied.
package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/sakif/sightings/internal/apperror"
)

// logFailure logs err at Error level unless it is an expected application
// error (not found, validation, and so on), which the caller already turns
// into a 4xx response.
func logFailure(logger *slog.Logger, op string, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return
	}
	logger.Error(op+" failed", slog.String("error", err.Error()))
}

// missingReference turns a NotFound on a referenced row into a validation
// error on the request field that pointed at it.
func missingReference(err error, field, resource string, id int64) error {
	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.ValidationFailed(field, fmt.Sprintf("%s not found with id %d", resource, id))
	}
	return err
}

// checkLength rejects values over max characters (not bytes).
func checkLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return apperror.ValidationFailed(field, fmt.Sprintf("%s must be %d characters or fewer", field, max))
	}
	return nil
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperror.ValidationFailed(field, field+" is required")
	}
	return nil
}
