package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/sightings/internal/model"
	"github.com/sakif/sightings/internal/repository"
)

// SightingInput is the payload for creating a sighting. Date is YYYY-MM-DD
// and Time is HH:MM (24-hour).
type SightingInput struct {
	UserID      int64
	LocationID  int64
	Date        string
	Time        string
	Description string
}

// SightingPatch is a partial update. Empty strings mean "leave as is".
// Location, when set, edits the sighting's existing location row in place,
// so every sighting sharing that location sees the change.
type SightingPatch struct {
	Location    *LocationPatch
	Date        string
	Time        string
	Description string
}

type SightingService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewSightingService(store repository.Store, logger *slog.Logger) *SightingService {
	return &SightingService{store: store, logger: logger}
}

// List returns every sighting with its location, author, and comments.
func (s *SightingService) List(ctx context.Context) ([]model.SightingGraph, error) {
	var graphs []model.SightingGraph
	err := s.store.WithTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		sightings, err := r.Sightings.List(ctx)
		if err != nil {
			return err
		}
		graphs, err = newGraphLoader(r).sightings(ctx, sightings)
		return err
	})
	if err != nil {
		logFailure(s.logger, "list sightings", err)
		return nil, fmt.Errorf("service/sighting: listing sightings: %w", err)
	}
	return graphs, nil
}

// ListByUser returns the sightings reported by userID. A user with no
// sightings, or no such user, yields an empty list.
func (s *SightingService) ListByUser(ctx context.Context, userID int64) ([]model.SightingGraph, error) {
	var graphs []model.SightingGraph
	err := s.store.WithTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		sightings, err := r.Sightings.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		graphs, err = newGraphLoader(r).sightings(ctx, sightings)
		return err
	})
	if err != nil {
		logFailure(s.logger, "list user sightings", err)
		return nil, fmt.Errorf("service/sighting: listing sightings of user %d: %w", userID, err)
	}
	return graphs, nil
}

func (s *SightingService) Get(ctx context.Context, id int64) (*model.SightingGraph, error) {
	var graph model.SightingGraph
	err := s.store.WithTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		sighting, err := r.Sightings.GetByID(ctx, id)
		if err != nil {
			return err
		}
		graph, err = newGraphLoader(r).sighting(ctx, sighting)
		return err
	})
	if err != nil {
		logFailure(s.logger, "get sighting", err)
		return nil, fmt.Errorf("service/sighting: getting sighting %d: %w", id, err)
	}
	return &graph, nil
}

// Create validates and stores a new sighting. The referenced user and
// location must exist; otherwise the matching field fails validation.
func (s *SightingService) Create(ctx context.Context, in SightingInput) (*model.SightingGraph, error) {
	date, err := model.ParseSightingDate(in.Date)
	if err != nil {
		return nil, err
	}
	tod, err := model.ParseSightingTime(in.Time)
	if err != nil {
		return nil, err
	}
	if err := checkLength("description", in.Description, model.MaxSightingDescriptionLength); err != nil {
		return nil, err
	}

	sighting := &model.Sighting{
		UserID:      in.UserID,
		LocationID:  in.LocationID,
		Date:        date,
		Time:        tod,
		Description: in.Description,
	}

	var graph model.SightingGraph
	err = s.store.WithTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		if _, err := r.Users.GetByID(ctx, in.UserID); err != nil {
			return missingReference(err, "user_id", "user", in.UserID)
		}
		if _, err := r.Locations.GetByID(ctx, in.LocationID); err != nil {
			return missingReference(err, "location_id", "location", in.LocationID)
		}
		if err := r.Sightings.Create(ctx, sighting); err != nil {
			return err
		}

		var err error
		graph, err = newGraphLoader(r).sighting(ctx, sighting)
		return err
	})
	if err != nil {
		logFailure(s.logger, "create sighting", err)
		return nil, fmt.Errorf("service/sighting: creating sighting: %w", err)
	}

	s.logger.Info("sighting created",
		slog.Int64("sightingID", sighting.ID),
		slog.Int64("userID", sighting.UserID),
		slog.Int64("locationID", sighting.LocationID),
	)
	return &graph, nil
}

// Update applies a partial update in one transaction. The sighting row is
// written only when one of its fields changes. A failure anywhere,
// including a bad time after the location was already edited, leaves the
// database unchanged.
func (s *SightingService) Update(ctx context.Context, id int64, patch SightingPatch) (*model.SightingGraph, error) {
	var graph model.SightingGraph
	err := s.store.WithTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		sighting, err := r.Sightings.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if !patch.Location.empty() {
			location, err := r.Locations.GetByID(ctx, sighting.LocationID)
			if err != nil {
				return err
			}
			patch.Location.apply(location)
			if err := validateLocation(location); err != nil {
				return err
			}
			if err := r.Locations.Update(ctx, location); err != nil {
				return err
			}
		}

		changed := false
		if patch.Date != "" {
			date, err := model.ParseSightingDate(patch.Date)
			if err != nil {
				return err
			}
			changed = changed || !date.Equal(sighting.Date)
			sighting.Date = date
		}
		if patch.Time != "" {
			tm, err := model.ParseSightingTime(patch.Time)
			if err != nil {
				return err
			}
			changed = changed || !tm.Equal(sighting.Time)
			sighting.Time = tm
		}
		if patch.Description != "" {
			if err := checkLength("description", patch.Description, model.MaxSightingDescriptionLength); err != nil {
				return err
			}
			changed = changed || patch.Description != sighting.Description
			sighting.Description = patch.Description
		}

		// updated_at only moves when a column of the sighting changed.
		if changed {
			if err := r.Sightings.Update(ctx, sighting); err != nil {
				return err
			}
		}

		graph, err = newGraphLoader(r).sighting(ctx, sighting)
		return err
	})
	if err != nil {
		logFailure(s.logger, "update sighting", err)
		return nil, fmt.Errorf("service/sighting: updating sighting %d: %w", id, err)
	}

	s.logger.Info("sighting updated", slog.Int64("sightingID", id))
	return &graph, nil
}

// Delete removes a sighting and, by cascade, its comments.
func (s *SightingService) Delete(ctx context.Context, id int64) error {
	err := s.store.WithTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		return r.Sightings.Delete(ctx, id)
	})
	if err != nil {
		logFailure(s.logger, "delete sighting", err)
		return fmt.Errorf("service/sighting: deleting sighting %d: %w", id, err)
	}

	s.logger.Info("sighting deleted", slog.Int64("sightingID", id))
	return nil
}
