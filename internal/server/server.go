// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the composition root: every dependency is built and wired
// here, in one place:
//
//	config → sqldb.DB → repositories → services → handlers → chi routes
//
// Keeping it out of main.go means tests can build the whole server (over an
// in-memory database) and drive it through Handler() without a socket.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/IsmaelKabore/SkillHub/internal/auth"
	"github.com/IsmaelKabore/SkillHub/internal/config"
	"github.com/IsmaelKabore/SkillHub/internal/handler"
	"github.com/IsmaelKabore/SkillHub/internal/middleware"
	"github.com/IsmaelKabore/SkillHub/internal/repository/sqldb"
	"github.com/IsmaelKabore/SkillHub/internal/service"
)

// shutdownTimeout is how long in-flight requests get to finish on SIGINT/SIGTERM.
const shutdownTimeout = 30 * time.Second

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the database pool. Start closes it after the HTTP server
// has drained; callers that never Start (tests) call Close.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqldb.DB
}

// New opens the database and wires every route.
//
// Each layer only receives what it needs:
//   - services get repository interfaces, not the concrete sqldb types
//   - handlers get service interfaces, not repositories
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := openDatabase(ctx, cfg)
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

// openDatabase picks the dialect from DB_DRIVER. For a sqlite file the
// parent directory is created first (like `mkdir -p`).
func openDatabase(ctx context.Context, cfg *config.Config) (*sqldb.DB, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		return sqldb.Open(ctx, sqldb.Postgres, cfg.DatabaseURL)
	case config.DriverSQLite:
		if cfg.DBPath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
		return sqldb.Open(ctx, sqldb.SQLite, cfg.DBPath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET    /               → liveness text            (public)
//	GET    /healthz        → database ping            (public)
//	POST   /register       → create account           (public)
//	POST   /login          → issue bearer token       (public)
//	GET    /users          → list users               (bearer token)
//	GET    /skills         → list caller's skills     (bearer token)
//	POST   /skills         → add skill                (bearer token)
//	PUT    /skills/{id}    → update own skill         (bearer token)
//	DELETE /skills/{id}    → delete own skill         (bearer token)
//
// MIDDLEWARE ORDER MATTERS:
//  1. RequestID: assigns the id the logger and error logs print
//  2. RealIP: client IP from X-Forwarded-For / X-Real-IP
//  3. Logger: one line per request
//  4. Recoverer: a panic becomes a 500 instead of killing the process
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService(s.config.BcryptCost)

	authService := service.NewAuthService(s.db.Users(), passwords, tokens, s.logger)
	skillService := service.NewSkillService(s.db.Skills(), s.logger)

	homeHandler := handler.NewHomeHandler(s.db, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.logger)
	userHandler := handler.NewUserHandler(authService, s.logger)
	skillHandler := handler.NewSkillHandler(skillService, s.logger)

	// === Global Middleware ===
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	s.router.NotFound(homeHandler.HandleNotFound)
	s.router.MethodNotAllowed(homeHandler.HandleMethodNotAllowed)

	// === Public Routes ===
	s.router.Get("/", homeHandler.HandleHome)
	s.router.Get("/healthz", homeHandler.HandleHealth)
	s.router.Post("/register", authHandler.HandleRegister)
	s.router.Post("/login", authHandler.HandleLogin)

	// === Protected Routes ===
	// Group shares the middleware stack with the parent but adds RequireAuth
	// only for the routes declared inside it.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens, s.logger))

		r.Get("/users", userHandler.HandleList)

		r.Route("/skills", func(r chi.Router) {
			r.Get("/", skillHandler.HandleList)
			r.Post("/", skillHandler.HandleCreate)
			r.Put("/{id}", skillHandler.HandleUpdate)
			r.Delete("/{id}", skillHandler.HandleDelete)
		})
	})

	return nil
}

// Handler exposes the router, fully wired, for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database pool.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
//  1. Stop accepting new connections
//  2. Wait up to 30s for in-flight requests
//  3. Close the database pool (flushes the sqlite WAL, releases the file)
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:              s.config.Addr(),
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("dbDriver", s.config.DBDriver),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
