package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/sightings/internal/apperror"
	"github.com/sakif/sightings/internal/model"
)

func TestCommentCreate(t *testing.T) {
	env := newTestEnv(t)
	u := env.mustUser(t, "a@example.com")
	l := env.mustLocation(t, "Flatwoods")
	s := env.mustSighting(t, u.ID, l.ID)

	c, err := env.comments.Create(context.Background(), CommentInput{UserID: u.ID, SightingID: s.Sighting.ID, CommentText: "saw it too"})
	require.NoError(t, err)
	assert.NotZero(t, c.Comment.ID)
	require.NotNil(t, c.User)
	assert.Equal(t, u.Email, c.User.Email)

	got, err := env.sightings.Get(context.Background(), s.Sighting.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "saw it too", got.Comments[0].Comment.CommentText)
}

func TestCommentCreate_Rejections(t *testing.T) {
	env := newTestEnv(t)
	u := env.mustUser(t, "a@example.com")
	l := env.mustLocation(t, "Flatwoods")
	s := env.mustSighting(t, u.ID, l.ID)

	cases := map[string]CommentInput{
		"unknown user":     {UserID: 999, SightingID: s.Sighting.ID, CommentText: "x"},
		"unknown sighting": {UserID: u.ID, SightingID: 999, CommentText: "x"},
		"empty text":       {UserID: u.ID, SightingID: s.Sighting.ID},
		"text too long":    {UserID: u.ID, SightingID: s.Sighting.ID, CommentText: strings.Repeat("c", model.MaxCommentTextLength+1)},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := env.comments.Create(context.Background(), in)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}
}
