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

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo stores locations.
type LocationRepo struct {
	q dbtx
}

const locationColumns = `id, name, state, description, created_at, updated_at`

func (r *LocationRepo) Create(ctx context.Context, location *model.Location) error {
	now := time.Now().UTC()
	location.CreatedAt = now
	location.UpdatedAt = now

	res, err := r.q.ExecContext(ctx,
		`INSERT INTO locations (name, state, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		location.Name,
		location.State,
		location.Description,
		location.CreatedAt,
		location.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting location: %w", err)
	}

	location.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading location id: %w", err)
	}
	return nil
}

func (r *LocationRepo) GetByID(ctx context.Context, id int64) (*model.Location, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+locationColumns+` FROM locations WHERE id = ?`, id)

	l, err := scanLocation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("location", id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting location %d: %w", id, err)
	}
	return l, nil
}

func (r *LocationRepo) List(ctx context.Context) ([]model.Location, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+locationColumns+` FROM locations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing locations: %w", err)
	}
	defer rows.Close()

	locations := []model.Location{}
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning location row: %w", err)
		}
		locations = append(locations, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating locations: %w", err)
	}
	return locations, nil
}

// Update writes every mutable column and refreshes UpdatedAt.
func (r *LocationRepo) Update(ctx context.Context, location *model.Location) error {
	location.UpdatedAt = time.Now().UTC()

	res, err := r.q.ExecContext(ctx,
		`UPDATE locations
		 SET name = ?, state = ?, description = ?, updated_at = ?
		 WHERE id = ?`,
		location.Name,
		location.State,
		location.Description,
		location.UpdatedAt,
		location.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating location %d: %w", location.ID, err)
	}
	return requireOneRow(res, "location", location.ID)
}

func scanLocation(s scanner) (*model.Location, error) {
	var l model.Location
	if err := s.Scan(&l.ID, &l.Name, &l.State, &l.Description, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

// requireOneRow turns a zero-row UPDATE/DELETE into apperror.ErrNotFound.
func requireOneRow(res sql.Result, resource string, id any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound(resource, id)
	}
	return nil
}
