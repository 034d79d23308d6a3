package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/sightings/internal/model"
	"github.com/sakif/sightings/internal/repository"
)

// UserService serves read-only user queries. Creating users is
// AuthService.Register because it needs the password hasher.
type UserService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewUserService(store repository.Store, logger *slog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

// List returns every user ordered by id.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := s.store.WithTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		var err error
		users, err = r.Users.List(ctx)
		return err
	})
	if err != nil {
		logFailure(s.logger, "list users", err)
		return nil, fmt.Errorf("service/user: listing users: %w", err)
	}
	return users, nil
}
