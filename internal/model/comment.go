package model

import "time"

const MaxCommentTextLength = 1000

// Comment is free text attached to one sighting by one user.
type Comment struct {
	ID          int64
	UserID      int64
	SightingID  int64
	CommentText string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
