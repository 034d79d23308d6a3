// Command seed fills a database with fake users, locations, sightings and
// comments for local development.
//
// Every record goes through the service layer, so seeded data obeys the
// same validation as data created through the API. All users share the
// password "abc123". With -reset the database file is removed first.
//
//	go run ./cmd/seed -reset -users 10 -locations 8 -sightings 40 -comments 80
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/sakif/sightings/internal/apperror"
	"github.com/sakif/sightings/internal/auth"
	"github.com/sakif/sightings/internal/config"
	"github.com/sakif/sightings/internal/model"
	"github.com/sakif/sightings/internal/repository/sqlite"
	"github.com/sakif/sightings/internal/service"
)

const seedPassword = "abc123"

// maxEmailAttempts bounds retries on duplicate fake emails.
const maxEmailAttempts = 20

func main() {
	var (
		dbPath    = flag.String("db", "", "database path (default: DATABASE_URI)")
		reset     = flag.Bool("reset", false, "remove the database file before seeding")
		users     = flag.Int("users", 10, "number of users")
		locations = flag.Int("locations", 8, "number of locations")
		sightings = flag.Int("sightings", 40, "number of sightings")
		comments  = flag.Int("comments", 80, "number of comments")
		seed      = flag.Uint64("seed", 0, "random seed (0 = random)")
	)
	flag.Parse()

	cfg, err := config.Load(".env")
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := cfg.Logger(os.Stdout)

	path := cfg.DatabaseURI
	if *dbPath != "" {
		path = *dbPath
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			logger.Error("failed to create database directory", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if *reset {
			if err := removeDatabase(path); err != nil {
				logger.Error("failed to reset database", slog.String("error", err.Error()))
				os.Exit(1)
			}
			logger.Info("database reset", slog.String("database", path))
		}
	}

	db, err := sqlite.New(path)
	if err != nil {
		logger.Error("failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	sd := &seeder{
		fake:      gofakeit.New(*seed),
		auth:      service.NewAuthService(db, auth.NewPasswordService(), nil, cfg.SessionTTL, logger),
		locations: service.NewLocationService(db, logger),
		sightings: service.NewSightingService(db, logger),
		comments:  service.NewCommentService(db, logger),
	}

	n := counts{users: *users, locations: *locations, sightings: *sightings, comments: *comments}
	if err := sd.run(context.Background(), n); err != nil {
		logger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("seeding complete",
		slog.String("database", path),
		slog.Int("users", n.users),
		slog.Int("locations", n.locations),
		slog.Int("sightings", n.sightings),
		slog.Int("comments", n.comments),
	)
}

// removeDatabase deletes the database file and its WAL companions.
func removeDatabase(path string) error {
	for _, name := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

type counts struct {
	users, locations, sightings, comments int
}

type seeder struct {
	fake      *gofakeit.Faker
	auth      *service.AuthService
	locations *service.LocationService
	sightings *service.SightingService
	comments  *service.CommentService
}

func (s *seeder) run(ctx context.Context, n counts) error {
	if n.users < 1 || n.locations < 1 {
		return errors.New("need at least one user and one location")
	}

	userIDs := make([]int64, 0, n.users)
	for range n.users {
		id, err := s.user(ctx)
		if err != nil {
			return err
		}
		userIDs = append(userIDs, id)
	}

	locationIDs := make([]int64, 0, n.locations)
	for range n.locations {
		l, err := s.locations.Create(ctx, service.LocationInput{
			Name:        s.fake.City() + " " + s.fake.RandomString(placeKinds),
			State:       s.fake.StateAbr(),
			Description: s.fake.Sentence(12),
		})
		if err != nil {
			return fmt.Errorf("creating location: %w", err)
		}
		locationIDs = append(locationIDs, l.ID)
	}

	start := time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)
	sightingIDs := make([]int64, 0, n.sightings)
	for range n.sightings {
		when := s.fake.DateRange(start, time.Now())
		g, err := s.sightings.Create(ctx, service.SightingInput{
			UserID:      pick(s.fake, userIDs),
			LocationID:  pick(s.fake, locationIDs),
			Date:        when.Format(model.DateLayout),
			Time:        when.Format("15:04"),
			Description: s.fake.Paragraph(1, 3, 12, " "),
		})
		if err != nil {
			return fmt.Errorf("creating sighting: %w", err)
		}
		sightingIDs = append(sightingIDs, g.Sighting.ID)
	}

	if len(sightingIDs) == 0 {
		return nil
	}
	for range n.comments {
		_, err := s.comments.Create(ctx, service.CommentInput{
			UserID:      pick(s.fake, userIDs),
			SightingID:  pick(s.fake, sightingIDs),
			CommentText: s.fake.Sentence(10),
		})
		if err != nil {
			return fmt.Errorf("creating comment: %w", err)
		}
	}
	return nil
}

// user registers one fake user, retrying when the generated email is
// taken or does not pass the email rule.
func (s *seeder) user(ctx context.Context) (int64, error) {
	for range maxEmailAttempts {
		email := strings.ToLower(s.fake.Email())
		if !model.ValidEmail(email) {
			continue
		}
		u, err := s.auth.Register(ctx, email, seedPassword)
		if errors.Is(err, apperror.ErrConflict) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("creating user: %w", err)
		}
		return u.ID, nil
	}
	return 0, errors.New("creating user: no unused email after retries")
}

func pick[T any](fake *gofakeit.Faker, items []T) T {
	return items[fake.IntRange(0, len(items)-1)]
}

var placeKinds = []string{"Woods", "Lake", "Ridge", "Hollow", "Creek", "Trailhead"}
