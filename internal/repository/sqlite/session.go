package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sakif/sightings/internal/apperror"
	"github.com/sakif/sightings/internal/model"
	"github.com/sakif/sightings/internal/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo stores server-side login sessions.
type SessionRepo struct {
	q dbtx
}

// Create inserts session as given. The caller picks the ID and expiry.
func (r *SessionRepo) Create(ctx context.Context, session *model.Session) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		session.ID,
		session.UserID,
		session.CreatedAt,
		session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting session: %w", err)
	}
	return nil
}

func (r *SessionRepo) Get(ctx context.Context, id string) (*model.Session, error) {
	var s model.Session
	err := r.q.QueryRowContext(ctx,
		`SELECT id, user_id, created_at, expires_at FROM sessions WHERE id = ?`, id,
	).Scan(&s.ID, &s.UserID, &s.CreatedAt, &s.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("session", id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting session: %w", err)
	}
	return &s, nil
}

// Delete is idempotent: removing a missing session is not an error.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("sqlite: deleting session: %w", err)
	}
	return nil
}
