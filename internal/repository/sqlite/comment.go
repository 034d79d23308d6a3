package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/sakif/sightings/internal/model"
	"github.com/sakif/sightings/internal/repository"
)

var _ repository.CommentRepository = (*CommentRepo)(nil)

// CommentRepo stores comments.
type CommentRepo struct {
	q dbtx
}

func (r *CommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	res, err := r.q.ExecContext(ctx,
		`INSERT INTO comments (user_id, sighting_id, comment_text, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		comment.UserID,
		comment.SightingID,
		comment.CommentText,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting comment: %w", err)
	}

	comment.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading comment id: %w", err)
	}
	return nil
}

// ListBySighting returns the sighting's comments, oldest first.
func (r *CommentRepo) ListBySighting(ctx context.Context, sightingID int64) ([]model.Comment, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, user_id, sighting_id, comment_text, created_at, updated_at
		 FROM comments
		 WHERE sighting_id = ?
		 ORDER BY id`,
		sightingID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments for sighting %d: %w", sightingID, err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.SightingID, &c.CommentText,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comments: %w", err)
	}
	return comments, nil
}
