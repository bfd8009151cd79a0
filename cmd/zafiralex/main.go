// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/sergio129/zafiralex-sub000/internal/auth"
	"github.com/sergio129/zafiralex-sub000/internal/config"
	"github.com/sergio129/zafiralex-sub000/internal/handler/api"
	"github.com/sergio129/zafiralex-sub000/internal/logging"
	"github.com/sergio129/zafiralex-sub000/internal/middleware"
	"github.com/sergio129/zafiralex-sub000/internal/model"
	"github.com/sergio129/zafiralex-sub000/internal/rbac"
	"github.com/sergio129/zafiralex-sub000/internal/scheduler"
	"github.com/sergio129/zafiralex-sub000/internal/service"
	"github.com/sergio129/zafiralex-sub000/internal/store"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Zafiralex - law firm website and admin backend\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ZLEX_JWT_SECRET        Token signing secret (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ZLEX_DB_PATH           SQLite database path (default: ./data/zafiralex.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ZLEX_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ZLEX_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ZLEX_UPLOADS_DIR       Public uploads directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ZLEX_DOCUMENTS_DIR     Private document storage (default: ./documents)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ZLEX_ADMIN_EMAIL       Bootstrap admin email (default: admin@zafiralex.example)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ZLEX_ADMIN_PASSWORD    Bootstrap admin password (seeding skipped when empty)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("zafiralex %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure storage directories exist
	for _, dir := range []string{filepath.Dir(cfg.DBPath), cfg.UploadsDir, cfg.DocumentsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	// Initialize database
	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	// Run migrations
	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the audit event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	eventLogHandler := logging.NewEventLogHandler(textHandler, db)
	logger = slog.New(eventLogHandler)
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	// Seed bootstrap admin account
	if cfg.DoSeed {
		err := store.Seed(context.Background(), db, store.SeedParams{
			AdminEmail:    cfg.AdminEmail,
			AdminPassword: cfg.AdminPassword,
			AdminName:     cfg.AdminName,
		})
		if err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	// Start the maintenance scheduler
	sched := scheduler.New(db, logger, cfg.EventRetentionDays)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// Token manager for the auth cookie
	tokens := auth.NewTokenManager(cfg.JWTSecret)

	// Login protection: IP rate limit plus account lockout with backoff
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	slog.Info("login protection initialized",
		"ip_rate_limit", "0.5 req/s",
		"max_failed_attempts", 5,
		"lockout_duration", "15m",
	)

	// Public rate limiter for the unauthenticated endpoints
	publicRateLimiter := middleware.NewGlobalRateLimiter(10.0, 20)
	slog.Info("public rate limiter initialized", "rate", "10 req/s", "burst", 20)

	documents := service.NewDocumentService(db, cfg.DocumentsDir)

	apiHandler := api.NewHandler(api.Config{
		DB:            db,
		Tokens:        tokens,
		Documents:     documents,
		Protection:    loginProtection,
		ImagesDir:     cfg.UploadsDir,
		SecureCookies: !cfg.IsDevelopment(),
	})

	// Create router
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(chimw.Timeout(30 * time.Second))

	securityConfig := middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())
	r.Use(middleware.SecurityHeaders(securityConfig))

	r.Get("/health", apiHandler.Health)

	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Group(func(r chi.Router) {
			r.Use(publicRateLimiter.Middleware())
			r.Get("/news", apiHandler.ListPublishedNews)
			r.Get("/news/{slug}", apiHandler.GetPublishedNewsBySlug)
			r.Get("/testimonials", apiHandler.ListApprovedTestimonials)
			r.Post("/contact", apiHandler.SubmitContact)
		})

		// Auth endpoints
		r.Group(func(r chi.Router) {
			r.Use(publicRateLimiter.Middleware())
			r.With(loginProtection.Middleware()).Post("/auth/login", apiHandler.Login)
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(tokens, db))
			r.Post("/auth/logout", apiHandler.Logout)
			r.Get("/auth/me", apiHandler.Me)
		})

		// Admin endpoints, guarded per module and action
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Authenticate(tokens, db))

			r.With(middleware.RequirePermission(rbac.ModuleDashboard, rbac.ActionView)).
				Get("/stats", apiHandler.GetStats)
			r.With(middleware.RequireAdmin()).
				Get("/events", apiHandler.ListEvents)

			r.Route("/news", func(r chi.Router) {
				r.With(middleware.RequirePermission(rbac.ModuleNews, rbac.ActionView)).Get("/", apiHandler.ListNews)
				r.With(middleware.RequirePermission(rbac.ModuleNews, rbac.ActionView)).Get("/{id}", apiHandler.GetNews)
				r.With(middleware.RequirePermission(rbac.ModuleNews, rbac.ActionCreate)).Post("/", apiHandler.CreateNews)
				r.With(middleware.RequirePermission(rbac.ModuleNews, rbac.ActionEdit)).Put("/{id}", apiHandler.UpdateNews)
				r.With(middleware.RequirePermission(rbac.ModuleNews, rbac.ActionEdit)).Post("/{id}/publish", apiHandler.PublishNews)
				r.With(middleware.RequirePermission(rbac.ModuleNews, rbac.ActionEdit)).Post("/{id}/image", apiHandler.UploadNewsImage)
				r.With(middleware.RequirePermission(rbac.ModuleNews, rbac.ActionDelete)).Delete("/{id}", apiHandler.DeleteNews)
			})

			r.Route("/testimonials", func(r chi.Router) {
				r.With(middleware.RequirePermission(rbac.ModuleTestimonials, rbac.ActionView)).Get("/", apiHandler.ListTestimonials)
				r.With(middleware.RequirePermission(rbac.ModuleTestimonials, rbac.ActionView)).Get("/{id}", apiHandler.GetTestimonial)
				r.With(middleware.RequirePermission(rbac.ModuleTestimonials, rbac.ActionCreate)).Post("/", apiHandler.CreateTestimonial)
				r.With(middleware.RequirePermission(rbac.ModuleTestimonials, rbac.ActionEdit)).Put("/{id}", apiHandler.UpdateTestimonial)
				r.With(middleware.RequirePermission(rbac.ModuleTestimonials, rbac.ActionEdit)).
					Post("/{id}/approve", apiHandler.SetTestimonialStatus(model.TestimonialStatusApproved))
				r.With(middleware.RequirePermission(rbac.ModuleTestimonials, rbac.ActionEdit)).
					Post("/{id}/reject", apiHandler.SetTestimonialStatus(model.TestimonialStatusRejected))
				r.With(middleware.RequirePermission(rbac.ModuleTestimonials, rbac.ActionDelete)).Delete("/{id}", apiHandler.DeleteTestimonial)
			})

			r.Route("/messages", func(r chi.Router) {
				r.With(middleware.RequirePermission(rbac.ModuleMessages, rbac.ActionView)).Get("/", apiHandler.ListMessages)
				r.With(middleware.RequirePermission(rbac.ModuleMessages, rbac.ActionView)).Get("/{id}", apiHandler.GetMessage)
				r.With(middleware.RequirePermission(rbac.ModuleMessages, rbac.ActionEdit)).Put("/{id}/status", apiHandler.UpdateMessageStatus)
				r.With(middleware.RequirePermission(rbac.ModuleMessages, rbac.ActionDelete)).Delete("/{id}", apiHandler.DeleteMessage)
			})

			r.Route("/users", func(r chi.Router) {
				r.With(middleware.RequirePermission(rbac.ModuleUsers, rbac.ActionView)).Get("/", apiHandler.ListUsers)
				r.With(middleware.RequirePermission(rbac.ModuleUsers, rbac.ActionView)).Get("/{id}", apiHandler.GetUser)
				r.With(middleware.RequirePermission(rbac.ModuleUsers, rbac.ActionCreate)).Post("/", apiHandler.CreateUser)
				r.With(middleware.RequirePermission(rbac.ModuleUsers, rbac.ActionEdit)).Put("/{id}", apiHandler.UpdateUser)
				r.With(middleware.RequirePermission(rbac.ModuleUsers, rbac.ActionEdit)).Put("/{id}/password", apiHandler.ChangeUserPassword)
				r.With(middleware.RequirePermission(rbac.ModuleUsers, rbac.ActionDelete)).Delete("/{id}", apiHandler.DeleteUser)
			})

			r.Route("/documents", func(r chi.Router) {
				r.With(middleware.RequirePermission(rbac.ModuleDocuments, rbac.ActionView)).Get("/", apiHandler.ListDocuments)
				r.With(middleware.RequirePermission(rbac.ModuleDocuments, rbac.ActionView)).Get("/{id}", apiHandler.GetDocument)
				r.With(middleware.RequirePermission(rbac.ModuleDocuments, rbac.ActionView)).Get("/{id}/download", apiHandler.DownloadDocument)
				r.With(middleware.RequirePermission(rbac.ModuleDocuments, rbac.ActionCreate)).Post("/", apiHandler.UploadDocument)
				r.With(middleware.RequirePermission(rbac.ModuleDocuments, rbac.ActionDelete)).Delete("/{id}", apiHandler.DeleteDocument)
			})
		})
	})
	slog.Info("REST API v1 mounted at /api/v1")

	// Serve uploaded news images from the public uploads directory
	uploadsHandler := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir)))
	r.Handle("/uploads/*", uploadsHandler)

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for large uploads and slow connections
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB max header size
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
