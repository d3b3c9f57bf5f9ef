// Package server sets up the HTTP server, router, and route definitions.
//
// This is the composition root: the whole dependency chain is wired here
// (sqlite.DB → AccountService → AccountHandler) and nowhere else. main.go
// only reads config and calls New/Start.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/account-service/internal/auth"
	"github.com/sakif/account-service/internal/handler"
	"github.com/sakif/account-service/internal/middleware"
	sqliteRepo "github.com/sakif/account-service/internal/repository/sqlite"
	"github.com/sakif/account-service/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port           int
	DBPath         string
	AllowedOrigins []string // CORS; the original front-end is served from anywhere, default "*"
	BcryptCost     int      // 0 selects the production default
}

// Server owns the router and the database handle. The handle is created in
// New and closed during graceful shutdown — there is no package-level
// database state.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server: opens (and, on first start, initializes) the
// database, wires the service and handler layers, and registers all routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	s.setupRoutes()

	return s, nil
}

// setupRoutes configures middleware and route handlers.
//
// ROUTES:
//
//	POST /check-duplicate → username availability
//	POST /signup          → registration
//	POST /login           → credential check
//	GET  /health          → liveness probe
//
// Middleware order: request id first (so the logger can see it), then real
// IP, panic recovery, logging, CORS.
func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	origins := s.config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Dependency chain: s.db implements repository.AccountRepository; the
	// service gets the interface, the handler gets the service. The handler
	// never touches SQL and the service never touches HTTP.
	passwords := auth.NewPasswordService(s.config.BcryptCost)
	accountService := service.NewAccountService(s.db, passwords, s.logger)
	accountHandler := handler.NewAccountHandler(accountService, s.logger)

	s.router.Post("/check-duplicate", accountHandler.HandleCheckDuplicate)
	s.router.Post("/signup", accountHandler.HandleSignup)
	s.router.Post("/login", accountHandler.HandleLogin)
	s.router.Get("/health", accountHandler.HandleHealth)
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, let in-flight requests finish
// (30s budget), and close the database so the WAL is flushed and the file
// lock released.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
