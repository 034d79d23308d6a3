package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("sighting", 42),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("email", "Invalid email address"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Conflict wraps ErrConflict",
			err:       Conflict("user", "email", "a@b.co"),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "Unauthorized wraps ErrUnauthorized",
			err:       Unauthorized("No user logged in"),
			target:    ErrUnauthorized,
			wantMatch: true,
		},
		{
			name:      "wrapped NotFound still matches",
			err:       fmt.Errorf("loading sighting: %w", NotFound("sighting", 1)),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("sighting", 42),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "Unauthorized does NOT match ErrNotFound",
			err:       Unauthorized("nope"),
			target:    ErrNotFound,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMatch, errors.Is(tt.err, tt.target))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound formats integer ids",
			err:         NotFound("sighting", int64(7)),
			wantMessage: "sighting not found with id 7",
		},
		{
			name:        "NotFound formats string ids",
			err:         NotFound("session", "cv37rs3pp9olc6atsptg"),
			wantMessage: "session not found with id cv37rs3pp9olc6atsptg",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("sighting_date", "Invalid date format. Please use 'YYYY-MM-DD'."),
			wantMessage: "Invalid date format. Please use 'YYYY-MM-DD'.",
		},
		{
			name:        "Conflict names the field and value",
			err:         Conflict("user", "email", "a@b.co"),
			wantMessage: "user with email a@b.co already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.err.Error())
		})
	}
}

func TestUnwrap(t *testing.T) {
	err := NotFound("location", 3)
	assert.Equal(t, ErrNotFound, err.Unwrap())
}

func TestFieldIsSet(t *testing.T) {
	assert.Equal(t, "email", ValidationFailed("email", "invalid").Field)
	assert.Equal(t, "email", Conflict("user", "email", "x@y.z").Field)
}
