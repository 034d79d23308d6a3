package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/sightings/internal/auth"
	"github.com/sakif/sightings/internal/model"
	"github.com/sakif/sightings/internal/repository"
	"github.com/sakif/sightings/internal/repository/sqlite"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// failingStore is a repository.Store whose transactions never start. It
// stands in for a broken database connection.
type failingStore struct {
	err   error
	calls int
}

func (f *failingStore) WithTx(ctx context.Context, fn func(ctx context.Context, r repository.Repositories) error) error {
	f.calls++
	return f.err
}

var errDBDown = errors.New("sqlite: database is locked")

type testEnv struct {
	db        *sqlite.DB
	auth      *AuthService
	users     *UserService
	locations *LocationService
	sightings *SightingService
	comments  *CommentService
	tokens    *auth.TokenService
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestEnv wires every service to a fresh in-memory database.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvAt(t, ":memory:")
}

// newFileTestEnv is newTestEnv on a WAL file database, for tests that need
// more than one connection.
func newFileTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvAt(t, filepath.Join(t.TempDir(), "sightings.db"))
}

func newTestEnvAt(t *testing.T, dsn string) *testEnv {
	t.Helper()

	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	require.NoError(t, err)
	passwords := auth.NewPasswordServiceForTest(bcrypt.MinCost)
	logger := discardLogger()

	return &testEnv{
		db:        db,
		auth:      NewAuthService(db, passwords, tokens, time.Hour, logger),
		users:     NewUserService(db, logger),
		locations: NewLocationService(db, logger),
		sightings: NewSightingService(db, logger),
		comments:  NewCommentService(db, logger),
		tokens:    tokens,
	}
}

func (e *testEnv) mustUser(t *testing.T, email string) *model.User {
	t.Helper()
	u, err := e.auth.Register(context.Background(), email, "abc123")
	require.NoError(t, err)
	return u
}

func (e *testEnv) mustLocation(t *testing.T, name string) *model.Location {
	t.Helper()
	l, err := e.locations.Create(context.Background(), LocationInput{Name: name, State: "WV", Description: "woods"})
	require.NoError(t, err)
	return l
}

func (e *testEnv) mustSighting(t *testing.T, userID, locationID int64) *model.SightingGraph {
	t.Helper()
	g, err := e.sightings.Create(context.Background(), SightingInput{
		UserID:      userID,
		LocationID:  locationID,
		Date:        "2024-02-14",
		Time:        "21:30",
		Description: "tall and hairy",
	})
	require.NoError(t, err)
	return g
}

// =========================================================================
// SHARED BEHAVIOUR
// =========================================================================

func TestLogFailure_SkipsAppErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	svc := NewUserService(&failingStore{err: errDBDown}, logger)
	_, err := svc.List(context.Background())
	require.ErrorIs(t, err, errDBDown)
	require.Contains(t, buf.String(), "list users failed")

	buf.Reset()
	_, err = NewSightingService(newTestEnv(t).db, logger).Get(context.Background(), 404)
	require.Error(t, err)
	require.Empty(t, buf.String())
}
