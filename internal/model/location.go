package model

import "time"

// Column limits for locations.
const (
	MaxLocationNameLength        = 254
	LocationStateLength          = 2
	MaxLocationDescriptionLength = 500
)

// Location is a named place that sightings point at. Several sightings can
// share one Location row; editing it changes all of them.
type Location struct {
	ID          int64
	Name        string
	State       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
