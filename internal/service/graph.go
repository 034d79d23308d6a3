package service

import (
	"context"
	"errors"

	"github.com/sakif/sightings/internal/apperror"
	"github.com/sakif/sightings/internal/model"
	"github.com/sakif/sightings/internal/repository"
)

// graphLoader loads the rows a sighting document embeds: its location, its
// author, and its comments with their authors.
//
// Users and locations are memoized for the life of one loader, which is one
// request. Every document in a response therefore sees the same version of
// a shared row, and a list of N sightings costs one query per distinct
// user/location rather than one per reference.
//
// A reference that no longer resolves loads as nil, never as an error.
type graphLoader struct {
	repos     repository.Repositories
	users     map[int64]*model.User
	locations map[int64]*model.Location
}

func newGraphLoader(repos repository.Repositories) *graphLoader {
	return &graphLoader{
		repos:     repos,
		users:     make(map[int64]*model.User),
		locations: make(map[int64]*model.Location),
	}
}

func (g *graphLoader) sighting(ctx context.Context, s *model.Sighting) (model.SightingGraph, error) {
	graph := model.SightingGraph{Sighting: *s}

	var err error
	if graph.Location, err = g.location(ctx, s.LocationID); err != nil {
		return model.SightingGraph{}, err
	}
	if graph.User, err = g.user(ctx, s.UserID); err != nil {
		return model.SightingGraph{}, err
	}

	comments, err := g.repos.Comments.ListBySighting(ctx, s.ID)
	if err != nil {
		return model.SightingGraph{}, err
	}
	graph.Comments = make([]model.CommentGraph, 0, len(comments))
	for _, c := range comments {
		author, err := g.user(ctx, c.UserID)
		if err != nil {
			return model.SightingGraph{}, err
		}
		graph.Comments = append(graph.Comments, model.CommentGraph{Comment: c, User: author})
	}

	return graph, nil
}

func (g *graphLoader) sightings(ctx context.Context, sightings []model.Sighting) ([]model.SightingGraph, error) {
	graphs := make([]model.SightingGraph, 0, len(sightings))
	for i := range sightings {
		graph, err := g.sighting(ctx, &sightings[i])
		if err != nil {
			return nil, err
		}
		graphs = append(graphs, graph)
	}
	return graphs, nil
}

func (g *graphLoader) comment(ctx context.Context, c *model.Comment) (model.CommentGraph, error) {
	author, err := g.user(ctx, c.UserID)
	if err != nil {
		return model.CommentGraph{}, err
	}
	return model.CommentGraph{Comment: *c, User: author}, nil
}

func (g *graphLoader) user(ctx context.Context, id int64) (*model.User, error) {
	if u, ok := g.users[id]; ok {
		return u, nil
	}
	u, err := g.repos.Users.GetByID(ctx, id)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}
	g.users[id] = u
	return u, nil
}

func (g *graphLoader) location(ctx context.Context, id int64) (*model.Location, error) {
	if l, ok := g.locations[id]; ok {
		return l, nil
	}
	l, err := g.repos.Locations.GetByID(ctx, id)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}
	g.locations[id] = l
	return l, nil
}
