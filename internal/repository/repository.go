// Package repository declares the storage contracts the services depend on.
//
// Services never see *sql.DB or *sql.Tx. They ask a Store to run a function
// inside one transaction and receive a Repositories bundle bound to it, so
// every read and write of a request commits or rolls back together.
package repository

import (
	"context"

	"github.com/sakif/sightings/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

type LocationRepository interface {
	Create(ctx context.Context, location *model.Location) error
	GetByID(ctx context.Context, id int64) (*model.Location, error)
	List(ctx context.Context) ([]model.Location, error)
	Update(ctx context.Context, location *model.Location) error
}

type SightingRepository interface {
	Create(ctx context.Context, sighting *model.Sighting) error
	GetByID(ctx context.Context, id int64) (*model.Sighting, error)
	List(ctx context.Context) ([]model.Sighting, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Sighting, error)
	Update(ctx context.Context, sighting *model.Sighting) error
	Delete(ctx context.Context, id int64) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	ListBySighting(ctx context.Context, sightingID int64) ([]model.Comment, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	Get(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
}

// Repositories is the set of repositories bound to one transaction.
type Repositories struct {
	Users     UserRepository
	Locations LocationRepository
	Sightings SightingRepository
	Comments  CommentRepository
	Sessions  SessionRepository
}

// Store runs fn inside a transaction. The transaction commits if fn returns
// nil and rolls back otherwise (including on panic, which is re-raised).
type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error
}
