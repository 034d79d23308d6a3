// Package view turns loaded entity graphs into JSON response documents.
//
// Everything here is a pure function of its arguments: no queries, no
// caching. Callers load the related rows first (see service.graphLoader)
// and get back plain structs ready for json.Encoder.
package view

import (
	"time"

	"github.com/sakif/sightings/internal/model"
)

// TimestampLayout is used for every created_at/updated_at field.
const TimestampLayout = time.RFC3339Nano

type UserDoc struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type LocationDoc struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	State       string `json:"state"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type CommentDoc struct {
	ID          int64    `json:"id"`
	UserID      int64    `json:"user_id"`
	SightingID  int64    `json:"sighting_id"`
	CommentText string   `json:"comment_text"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
	User        *UserDoc `json:"user"`
}

type SightingDoc struct {
	ID           int64        `json:"id"`
	UserID       int64        `json:"user_id"`
	LocationID   int64        `json:"location_id"`
	Location     *LocationDoc `json:"location"`
	SightingDate string       `json:"sighting_date"`
	SightingTime string       `json:"sighting_time"`
	Description  string       `json:"description"`
	CreatedAt    string       `json:"created_at"`
	UpdatedAt    string       `json:"updated_at"`
	Comments     []CommentDoc `json:"comments"`
	User         *UserDoc     `json:"user"`
}

// MessageDoc is the body of responses that carry no entity.
type MessageDoc struct {
	Message string `json:"message"`
}

// User never includes the password hash.
func User(u *model.User) UserDoc {
	return UserDoc{ID: u.ID, Email: u.Email}
}

func Users(users []model.User) []UserDoc {
	docs := make([]UserDoc, 0, len(users))
	for i := range users {
		docs = append(docs, User(&users[i]))
	}
	return docs
}

func Location(l *model.Location) LocationDoc {
	return LocationDoc{
		ID:          l.ID,
		Name:        l.Name,
		State:       l.State,
		Description: l.Description,
		CreatedAt:   timestamp(l.CreatedAt),
		UpdatedAt:   timestamp(l.UpdatedAt),
	}
}

func Locations(locations []model.Location) []LocationDoc {
	docs := make([]LocationDoc, 0, len(locations))
	for i := range locations {
		docs = append(docs, Location(&locations[i]))
	}
	return docs
}

func Comment(g model.CommentGraph) CommentDoc {
	c := g.Comment
	return CommentDoc{
		ID:          c.ID,
		UserID:      c.UserID,
		SightingID:  c.SightingID,
		CommentText: c.CommentText,
		CreatedAt:   timestamp(c.CreatedAt),
		UpdatedAt:   timestamp(c.UpdatedAt),
		User:        optionalUser(g.User),
	}
}

// Sighting always emits comments as an array, never null.
func Sighting(g model.SightingGraph) SightingDoc {
	s := g.Sighting

	comments := make([]CommentDoc, 0, len(g.Comments))
	for _, c := range g.Comments {
		comments = append(comments, Comment(c))
	}

	var location *LocationDoc
	if g.Location != nil {
		doc := Location(g.Location)
		location = &doc
	}

	return SightingDoc{
		ID:           s.ID,
		UserID:       s.UserID,
		LocationID:   s.LocationID,
		Location:     location,
		SightingDate: s.Date.Format(model.DateLayout),
		SightingTime: s.Time.Format(model.TimeLayout),
		Description:  s.Description,
		CreatedAt:    timestamp(s.CreatedAt),
		UpdatedAt:    timestamp(s.UpdatedAt),
		Comments:     comments,
		User:         optionalUser(g.User),
	}
}

func Sightings(graphs []model.SightingGraph) []SightingDoc {
	docs := make([]SightingDoc, 0, len(graphs))
	for _, g := range graphs {
		docs = append(docs, Sighting(g))
	}
	return docs
}

func optionalUser(u *model.User) *UserDoc {
	if u == nil {
		return nil
	}
	doc := User(u)
	return &doc
}

func timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
