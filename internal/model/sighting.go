package model

import (
	"time"

	"github.com/sakif/sightings/internal/apperror"
)

const MaxSightingDescriptionLength = 1500

// Layouts for the calendar date and time-of-day of a sighting.
//
// Input times are HH:MM (24-hour). Stored and serialized times always carry
// seconds, so "21:30" comes back as "21:30:00".
const (
	DateLayout      = "2006-01-02"
	TimeInputLayout = "15:04"
	TimeLayout      = "15:04:05"
)

// Sighting is one observation: who saw it, where, and when.
//
// Date holds a calendar date at midnight UTC. Time holds a time of day on
// the zero date (0000-01-01) in UTC; only its clock fields are meaningful.
type Sighting struct {
	ID          int64
	UserID      int64
	LocationID  int64
	Date        time.Time
	Time        time.Time
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ParseSightingDate parses a YYYY-MM-DD calendar date. Impossible dates such
// as 2024-02-30 are rejected.
func ParseSightingDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, apperror.ValidationFailed("sighting_date", "Invalid date format. Please use 'YYYY-MM-DD'.")
	}
	return d, nil
}

// ParseSightingTime parses an HH:MM 24-hour time of day.
func ParseSightingTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeInputLayout, s)
	if err != nil {
		return time.Time{}, apperror.ValidationFailed("sighting_time", "Invalid time format. Please use 'HH:MM'.")
	}
	return t, nil
}
