package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/sightings/internal/model"
	"github.com/sakif/sightings/internal/repository"
)

// CommentInput is the payload for creating a comment.
type CommentInput struct {
	UserID      int64
	SightingID  int64
	CommentText string
}

type CommentService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewCommentService(store repository.Store, logger *slog.Logger) *CommentService {
	return &CommentService{store: store, logger: logger}
}

// Create attaches a comment to a sighting. An unknown user or sighting is
// a validation error on the matching request field.
func (s *CommentService) Create(ctx context.Context, in CommentInput) (*model.CommentGraph, error) {
	if err := required("comment_text", in.CommentText); err != nil {
		return nil, err
	}
	if err := checkLength("comment_text", in.CommentText, model.MaxCommentTextLength); err != nil {
		return nil, err
	}

	var graph model.CommentGraph
	err := s.store.WithTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		if _, err := r.Users.GetByID(ctx, in.UserID); err != nil {
			return missingReference(err, "user_id", "user", in.UserID)
		}
		if _, err := r.Sightings.GetByID(ctx, in.SightingID); err != nil {
			return missingReference(err, "sighting_id", "sighting", in.SightingID)
		}

		comment := &model.Comment{
			UserID:      in.UserID,
			SightingID:  in.SightingID,
			CommentText: in.CommentText,
		}
		if err := r.Comments.Create(ctx, comment); err != nil {
			return err
		}

		var err error
		graph, err = newGraphLoader(r).comment(ctx, comment)
		return err
	})
	if err != nil {
		logFailure(s.logger, "create comment", err)
		return nil, fmt.Errorf("service/comment: creating comment: %w", err)
	}

	s.logger.Info("comment created",
		slog.Int64("commentID", graph.Comment.ID),
		slog.Int64("sightingID", in.SightingID),
	)
	return &graph, nil
}
