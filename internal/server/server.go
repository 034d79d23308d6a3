// Package server is the composition root: it opens the database, builds
// services and handlers, and mounts them on a chi router.
//
//	config → sqlite.DB → services → handlers → routes
//
// Keeping the wiring here (not in main) lets tests build the complete
// application around an in-memory database.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/sightings/internal/auth"
	"github.com/sakif/sightings/internal/config"
	"github.com/sakif/sightings/internal/handler"
	"github.com/sakif/sightings/internal/middleware"
	sqliteRepo "github.com/sakif/sightings/internal/repository/sqlite"
	"github.com/sakif/sightings/internal/service"
)

// shutdownTimeout is how long in-flight requests get after SIGINT/SIGTERM.
const shutdownTimeout = 30 * time.Second

// Server owns the router and the database connection. The database is
// closed when Serve returns.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database, runs migrations, and wires every route.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DatabaseURI)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database. Serve calls it; tests that only use
// Handler call it directly.
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes configures middleware and routes.
//
//	POST   /login                      → log in, set session cookie
//	GET    /check-session              → current user
//	DELETE /logout                     → end session
//	GET    /users                      → list users
//	POST   /users                      → register
//	GET    /users/{user_id}/sightings  → sightings of one user
//	GET    /sightings                  → list sightings
//	POST   /sightings                  → create sighting
//	GET    /sightings/{id}             → one sighting
//	PATCH  /sightings/{id}             → partial update
//	DELETE /sightings/{id}             → delete sighting
//	POST   /comments                   → comment on a sighting
//	GET    /locations                  → list locations
//	POST   /locations                  → create location
//	GET    /healthz                    → database ping
//
// Middleware order: request ID first so the logger can print it, CORS
// before anything that can reject a preflight, and LoadSession last so
// handlers see the caller's identity.
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.SecretKey)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(cors.Handler(s.corsOptions()))
	s.router.Use(auth.LoadSession(tokens))

	authService := service.NewAuthService(s.db, auth.NewPasswordService(), tokens, s.config.SessionTTL, s.logger)
	userService := service.NewUserService(s.db, s.logger)
	locationService := service.NewLocationService(s.db, s.logger)
	sightingService := service.NewSightingService(s.db, s.logger)
	commentService := service.NewCommentService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, auth.Cookies{Secure: s.config.CookieSecure}, s.logger)
	userHandler := handler.NewUserHandler(authService, userService, sightingService, s.logger)
	sightingHandler := handler.NewSightingHandler(sightingService, s.logger)
	commentHandler := handler.NewCommentHandler(commentService, s.logger)
	locationHandler := handler.NewLocationHandler(locationService, s.logger)
	healthHandler := handler.NewHealthHandler(s.db, s.logger)

	s.router.Post("/login", authHandler.HandleLogin)
	s.router.Get("/check-session", authHandler.HandleCheckSession)
	s.router.Delete("/logout", authHandler.HandleLogout)

	s.router.Route("/users", func(r chi.Router) {
		r.Get("/", userHandler.HandleList)
		r.Post("/", userHandler.HandleCreate)
		r.Get("/{user_id}/sightings", userHandler.HandleListSightings)
	})

	s.router.Route("/sightings", func(r chi.Router) {
		r.Get("/", sightingHandler.HandleList)
		r.Post("/", sightingHandler.HandleCreate)
		r.Get("/{id}", sightingHandler.HandleGet)
		r.Patch("/{id}", sightingHandler.HandlePatch)
		r.Delete("/{id}", sightingHandler.HandleDelete)
	})

	s.router.Post("/comments", commentHandler.HandleCreate)

	s.router.Get("/locations", locationHandler.HandleList)
	s.router.Post("/locations", locationHandler.HandleCreate)

	s.router.Get("/healthz", healthHandler.HandleHealth)

	return nil
}

// corsOptions allows the configured origins with credentials, so a browser
// front end on another origin can send the session cookie.
//
// Browsers reject "Access-Control-Allow-Origin: *" on credentialed
// requests, so a "*" entry is served by echoing the request's origin.
func (s *Server) corsOptions() cors.Options {
	opts := cors.Options{
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	for _, origin := range s.config.CORSAllowedOrigins {
		if origin == "*" {
			opts.AllowOriginFunc = func(r *http.Request, origin string) bool { return true }
			return opts
		}
	}
	opts.AllowedOrigins = s.config.CORSAllowedOrigins
	return opts
}

// Start listens on the configured port and serves until SIGINT or SIGTERM.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.config.Port))
	if err != nil {
		s.db.Close()
		return fmt.Errorf("listening on port %d: %w", s.config.Port, err)
	}
	return s.Serve(ctx, ln)
}

// Serve handles requests on ln until ctx is done, then shuts down
// gracefully: stop accepting, drain in-flight requests for up to 30s, and
// close the database.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.db.Close()

	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.String("addr", ln.Addr().String()),
			slog.String("database", s.config.DatabaseURI),
		)
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case <-ctx.Done():
		s.logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
