package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/sightings/internal/apperror"
	"github.com/sakif/sightings/internal/auth"
	"github.com/sakif/sightings/internal/model"
	"github.com/sakif/sightings/internal/repository"
)

// Client-facing messages. Login never says which half of the credentials
// was wrong.
const (
	msgBadCredentials = "Invalid username or password"
	msgNoSession      = "No user logged in"
)

// AuthService handles registration, login, logout, and session checks.
//
//	AuthHandler (HTTP) → AuthService → Store (users, sessions)
//	                   ↘ PasswordService (bcrypt), TokenService (cookie JWT)
//
// A login session has two halves: a sessions row, and a signed cookie
// carrying its id. Both must be valid for CurrentUser to succeed, so
// deleting the row on logout revokes a cookie even if a client replays it.
type AuthService struct {
	store      repository.Store
	passwords  *auth.PasswordService
	tokens     *auth.TokenService
	sessionTTL time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

func NewAuthService(
	store repository.Store,
	passwords *auth.PasswordService,
	tokens *auth.TokenService,
	sessionTTL time.Duration,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:      store,
		passwords:  passwords,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// LoginResult is what the handler needs to answer a successful login: the
// user for the body and the token + expiry for the cookie.
type LoginResult struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
}

// Register creates a user with a bcrypt-hashed password.
//
// The email is validated before hashing so a bad request never pays the
// bcrypt cost. A duplicate email returns apperror.ErrConflict.
func (s *AuthService) Register(ctx context.Context, email, password string) (*model.User, error) {
	if err := model.ValidateEmail(email); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	hash, err := s.passwords.Hash(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, apperror.ValidationFailed("password", "password must be 72 bytes or fewer")
	}
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	user, err := model.NewUser(email, hash)
	if err != nil {
		return nil, err
	}

	err = s.store.WithTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		return r.Users.Create(ctx, user)
	})
	if err != nil {
		logFailure(s.logger, "register user", err)
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered", slog.Int64("userID", user.ID))
	return user, nil
}

// Login checks the credentials and opens a new session.
//
// An unknown email and a wrong password produce the same
// apperror.ErrUnauthorized so the response does not reveal which accounts
// exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var result *LoginResult

	err := s.store.WithTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		user, err := r.Users.GetByEmail(ctx, email)
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.Unauthorized(msgBadCredentials)
		}
		if err != nil {
			return err
		}

		if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
			if errors.Is(err, auth.ErrPasswordMismatch) {
				return apperror.Unauthorized(msgBadCredentials)
			}
			return err
		}

		now := s.now().UTC()
		session := &model.Session{
			ID:        xid.New().String(),
			UserID:    user.ID,
			CreatedAt: now,
			ExpiresAt: now.Add(s.sessionTTL),
		}
		if err := r.Sessions.Create(ctx, session); err != nil {
			return err
		}

		token, err := s.tokens.Generate(user.ID, session.ID, session.ExpiresAt)
		if err != nil {
			return err
		}

		result = &LoginResult{User: user, Token: token, ExpiresAt: session.ExpiresAt}
		return nil
	})
	if err != nil {
		logFailure(s.logger, "login", err)
		return nil, fmt.Errorf("service/auth: login: %w", err)
	}

	s.logger.Info("user logged in", slog.Int64("userID", result.User.ID))
	return result, nil
}

// CurrentUser resolves the identity from the session cookie to a user.
//
// The session row must exist, belong to the same user, and be unexpired,
// and the user must still exist. An expired row is deleted on the way out.
func (s *AuthService) CurrentUser(ctx context.Context, id auth.Identity) (*model.User, error) {
	var user *model.User
	expired := false

	err := s.store.WithTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		session, err := r.Sessions.Get(ctx, id.SessionID)
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.Unauthorized(msgNoSession)
		}
		if err != nil {
			return err
		}
		if session.UserID != id.UserID {
			return apperror.Unauthorized(msgNoSession)
		}
		if session.Expired(s.now()) {
			// Returning nil commits the purge; the caller still gets 401.
			expired = true
			return r.Sessions.Delete(ctx, session.ID)
		}

		user, err = r.Users.GetByID(ctx, session.UserID)
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.Unauthorized(msgNoSession)
		}
		return err
	})
	if err != nil {
		logFailure(s.logger, "check session", err)
		return nil, fmt.Errorf("service/auth: current user: %w", err)
	}
	if expired {
		return nil, apperror.Unauthorized(msgNoSession)
	}
	return user, nil
}

// Logout deletes the session row. Deleting an already-gone session is not
// an error.
func (s *AuthService) Logout(ctx context.Context, id auth.Identity) error {
	err := s.store.WithTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		return r.Sessions.Delete(ctx, id.SessionID)
	})
	if err != nil {
		logFailure(s.logger, "logout", err)
		return fmt.Errorf("service/auth: logout: %w", err)
	}

	s.logger.Info("user logged out", slog.Int64("userID", id.UserID))
	return nil
}
