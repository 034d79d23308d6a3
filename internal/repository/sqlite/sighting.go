package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/sightings/internal/apperror"
	"github.com/sakif/sightings/internal/model"
	"github.com/sakif/sightings/internal/repository"
)

var _ repository.SightingRepository = (*SightingRepo)(nil)

// SightingRepo stores sightings.
//
// sighting_date and sighting_time are TEXT columns holding
// model.DateLayout and model.TimeLayout strings, so they sort and compare
// correctly in SQL and never pick up a timezone.
type SightingRepo struct {
	q dbtx
}

const sightingColumns = `id, user_id, location_id, sighting_date, sighting_time, description, created_at, updated_at`

func (r *SightingRepo) Create(ctx context.Context, sighting *model.Sighting) error {
	now := time.Now().UTC()
	sighting.CreatedAt = now
	sighting.UpdatedAt = now

	res, err := r.q.ExecContext(ctx,
		`INSERT INTO sightings
		   (user_id, location_id, sighting_date, sighting_time, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sighting.UserID,
		sighting.LocationID,
		sighting.Date.Format(model.DateLayout),
		sighting.Time.Format(model.TimeLayout),
		sighting.Description,
		sighting.CreatedAt,
		sighting.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting sighting: %w", err)
	}

	sighting.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading sighting id: %w", err)
	}
	return nil
}

func (r *SightingRepo) GetByID(ctx context.Context, id int64) (*model.Sighting, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+sightingColumns+` FROM sightings WHERE id = ?`, id)

	s, err := scanSighting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("sighting", id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting sighting %d: %w", id, err)
	}
	return s, nil
}

func (r *SightingRepo) List(ctx context.Context) ([]model.Sighting, error) {
	return r.list(ctx, `SELECT `+sightingColumns+` FROM sightings ORDER BY id`)
}

// ListByUser returns an empty slice, not an error, for users with no
// sightings or users that do not exist.
func (r *SightingRepo) ListByUser(ctx context.Context, userID int64) ([]model.Sighting, error) {
	return r.list(ctx,
		`SELECT `+sightingColumns+` FROM sightings WHERE user_id = ? ORDER BY id`, userID)
}

func (r *SightingRepo) list(ctx context.Context, query string, args ...any) ([]model.Sighting, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing sightings: %w", err)
	}
	defer rows.Close()

	sightings := []model.Sighting{}
	for rows.Next() {
		s, err := scanSighting(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning sighting row: %w", err)
		}
		sightings = append(sightings, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating sightings: %w", err)
	}
	return sightings, nil
}

// Update writes date, time and description and refreshes UpdatedAt.
// The user and location references are immutable.
func (r *SightingRepo) Update(ctx context.Context, sighting *model.Sighting) error {
	sighting.UpdatedAt = time.Now().UTC()

	res, err := r.q.ExecContext(ctx,
		`UPDATE sightings
		 SET sighting_date = ?, sighting_time = ?, description = ?, updated_at = ?
		 WHERE id = ?`,
		sighting.Date.Format(model.DateLayout),
		sighting.Time.Format(model.TimeLayout),
		sighting.Description,
		sighting.UpdatedAt,
		sighting.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating sighting %d: %w", sighting.ID, err)
	}
	return requireOneRow(res, "sighting", sighting.ID)
}

// Delete removes the sighting; its comments go with it (ON DELETE CASCADE).
func (r *SightingRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM sightings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting sighting %d: %w", id, err)
	}
	return requireOneRow(res, "sighting", id)
}

func scanSighting(s scanner) (*model.Sighting, error) {
	var sg model.Sighting
	var date, tod string
	if err := s.Scan(
		&sg.ID, &sg.UserID, &sg.LocationID, &date, &tod,
		&sg.Description, &sg.CreatedAt, &sg.UpdatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if sg.Date, err = time.Parse(model.DateLayout, date); err != nil {
		return nil, fmt.Errorf("parsing stored sighting_date %q: %w", date, err)
	}
	if sg.Time, err = time.Parse(model.TimeLayout, tod); err != nil {
		return nil, fmt.Errorf("parsing stored sighting_time %q: %w", tod, err)
	}
	return &sg, nil
}
