// Package model defines the entities stored by the sightings API.
//
// Structs here carry storage fields only. JSON documents are built by the
// view package, so nothing in this package has json tags and the password
// hash can never leak through an accidental json.Marshal.
package model

import (
	"regexp"
	"time"

	"github.com/sakif/sightings/internal/apperror"
)

// MaxEmailLength matches the users.email column width.
const MaxEmailLength = 254

// emailPattern is the only accepted email shape. It is intentionally loose
// (no TLD list, no quoting rules) and must not be "improved" without a
// data migration: rows already stored were accepted by exactly this rule.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

// User is a registered account.
//
// LastLogin is maintained by the database: it is set on insert and refreshed
// by a trigger on every UPDATE of the row, whatever column changed.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	LastLogin    time.Time
}

// ValidEmail reports whether email matches the accepted pattern.
func ValidEmail(email string) bool {
	return len(email) <= MaxEmailLength && emailPattern.MatchString(email)
}

// ValidateEmail returns a validation error for emails that do not match.
// Emails are rejected, never corrected.
func ValidateEmail(email string) error {
	if !ValidEmail(email) {
		return apperror.ValidationFailed("email", "Invalid email address")
	}
	return nil
}

// NewUser builds a User after validating the email. passwordHash must be
// the output of a password hasher, never a plaintext password.
func NewUser(email, passwordHash string) (*User, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}
	return &User{Email: email, PasswordHash: passwordHash}, nil
}
