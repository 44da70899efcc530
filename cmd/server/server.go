// cmd/server/server.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/mentorhours/internal/api"
	availabilityapi "github.com/codr1/mentorhours/internal/api/availability"
	"github.com/codr1/mentorhours/internal/config"
	"github.com/codr1/mentorhours/internal/db"
	"github.com/codr1/mentorhours/internal/digest"
	"github.com/codr1/mentorhours/internal/email"
	"github.com/codr1/mentorhours/internal/loader"
	"github.com/codr1/mentorhours/internal/ratelimit"
	"github.com/codr1/mentorhours/internal/scheduler"
	"github.com/codr1/mentorhours/internal/source"
)

const (
	viewerIdleTTL    = 30 * time.Minute
	digestJobTimeout = 15 * time.Minute
)

type app struct {
	server   *http.Server
	database *db.DB
	registry *loader.Registry
	limiter  *ratelimit.Limiter
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	database, err := db.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := source.NewStore(database)
	var (
		src    source.Source = store
		writer availabilityapi.DocumentWriter
	)
	switch cfg.Source.Kind {
	case config.SourceHTTP:
		httpSource, err := source.NewHTTPSource(cfg.Source.BaseURL, cfg.Source.Timeout(), nil)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("configure http source: %w", err)
		}
		src = httpSource
	default:
		writer = store
	}

	registry := loader.NewRegistry(src, viewerIdleTTL, nil)
	availabilityapi.InitHandlers(src, registry, writer)

	limiter := ratelimit.New(ratelimit.DefaultConfig())
	availabilityapi.InitWriteLimiter(limiter, cfg.App.TrustProxy)

	a := &app{
		server:   newServer(cfg),
		database: database,
		registry: registry,
		limiter:  limiter,
	}

	if err := startScheduler(ctx, cfg, store, src); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Close releases everything newApp opened. It is safe to call more than once.
func (a *app) Close() {
	if err := scheduler.Stop(); err != nil && !errors.Is(err, scheduler.ErrNotInitialized) {
		log.Error().Err(err).Msg("Failed to stop scheduler")
	}
	a.registry.Close()
	a.limiter.Close()
	if err := a.database.Close(); err != nil {
		log.Debug().Err(err).Msg("Database close")
	}
}

func startScheduler(ctx context.Context, cfg *config.Config, mentors digest.MentorLister, src source.Source) error {
	if !cfg.Digest.Enabled {
		log.Info().Msg("Availability digest disabled")
		return nil
	}

	mailer, err := email.NewSESClient(ctx, cfg.AWS.AccessKeyID, cfg.AWS.SecretAccessKey, cfg.AWS.Region, cfg.Digest.Sender)
	if err != nil {
		return fmt.Errorf("configure ses: %w", err)
	}
	job, err := digest.NewJob(mentors, src, mailer, digest.Options{
		Sender:  cfg.Digest.Sender,
		Subject: cfg.Digest.Subject,
		BaseURL: cfg.App.BaseURL,
	})
	if err != nil {
		return err
	}

	if err := scheduler.Init(); err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	_, err = scheduler.AddJob(digest.JobName, cfg.Digest.Cron, digestJobTimeout, func(ctx context.Context) error {
		_, err := job.Run(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("register digest job: %w", err)
	}
	return scheduler.Start()
}

func newServer(cfg *config.Config) *http.Server {
	router := http.NewServeMux()

	if cfg.App.SecretKey == "" {
		log.Warn().Msg("APP_SECRET_KEY not set, mentor session cookies will be rejected")
	}

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithMentorSession(cfg.App.SecretKey, cfg.App.TrustProxy),
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
		api.WithContentType,
	)

	// Register routes
	registerRoutes(router)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Availability routes
	mux.HandleFunc("GET /availability", availabilityapi.HandleMyAvailability)
	mux.HandleFunc("GET /mentors/{mentor_id}/availability", availabilityapi.HandleMentorAvailability)
	mux.HandleFunc("GET /api/v1/mentors/{mentor_id}/availability", availabilityapi.HandleMentorAvailabilityJSON)
	mux.HandleFunc("PUT /api/v1/availability", availabilityapi.HandleMyAvailabilityUpdate)

	// Static file handling with logging and environment awareness
	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		// Default to the build directory if not specified
		staticDir = "build/bin/static"
	}
	fs := http.FileServer(http.Dir(staticDir))

	mux.Handle("GET /static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debug().
			Str("path", r.URL.Path).
			Str("static_dir", staticDir).
			Msg("Static file request")
		http.StripPrefix("/static/", fs).ServeHTTP(w, r)
	}))
}
