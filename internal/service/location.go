package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/sakif/sightings/internal/apperror"
	"github.com/sakif/sightings/internal/model"
	"github.com/sakif/sightings/internal/repository"
)

// LocationInput is the payload for creating a location.
type LocationInput struct {
	Name        string
	State       string
	Description string
}

// LocationPatch holds the location fields a sighting PATCH may change.
// Nil fields are left untouched.
type LocationPatch struct {
	Name        *string
	State       *string
	Description *string
}

type LocationService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewLocationService(store repository.Store, logger *slog.Logger) *LocationService {
	return &LocationService{store: store, logger: logger}
}

func (s *LocationService) List(ctx context.Context) ([]model.Location, error) {
	var locations []model.Location
	err := s.store.WithTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		var err error
		locations, err = r.Locations.List(ctx)
		return err
	})
	if err != nil {
		logFailure(s.logger, "list locations", err)
		return nil, fmt.Errorf("service/location: listing locations: %w", err)
	}
	return locations, nil
}

func (s *LocationService) Create(ctx context.Context, in LocationInput) (*model.Location, error) {
	location := &model.Location{
		Name:        strings.TrimSpace(in.Name),
		State:       strings.ToUpper(strings.TrimSpace(in.State)),
		Description: in.Description,
	}
	if err := validateLocation(location); err != nil {
		return nil, err
	}

	err := s.store.WithTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		return r.Locations.Create(ctx, location)
	})
	if err != nil {
		logFailure(s.logger, "create location", err)
		return nil, fmt.Errorf("service/location: creating location: %w", err)
	}

	s.logger.Info("location created",
		slog.Int64("locationID", location.ID),
		slog.String("state", location.State),
	)
	return location, nil
}

// empty reports whether p changes nothing. A nil patch is empty.
func (p *LocationPatch) empty() bool {
	return p == nil || (p.Name == nil && p.State == nil && p.Description == nil)
}

// apply copies the non-nil fields of p onto l.
func (p *LocationPatch) apply(l *model.Location) {
	if p.Name != nil {
		l.Name = strings.TrimSpace(*p.Name)
	}
	if p.State != nil {
		l.State = strings.ToUpper(strings.TrimSpace(*p.State))
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
}

// validateLocation enforces the column rules: a name, a two-letter state
// code, and bounded lengths.
func validateLocation(l *model.Location) error {
	if err := required("name", l.Name); err != nil {
		return err
	}
	if err := checkLength("name", l.Name, model.MaxLocationNameLength); err != nil {
		return err
	}
	if utf8.RuneCountInString(l.State) != model.LocationStateLength || !isLetters(l.State) {
		return apperror.ValidationFailed("state", "state must be a 2-letter code")
	}
	return checkLength("description", l.Description, model.MaxLocationDescriptionLength)
}

func isLetters(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
