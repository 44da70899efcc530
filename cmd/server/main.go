// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/codr1/mentorhours/internal/config"
)

const defaultConfigPath = "config/app.yaml"

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	log.Warn().Str("path", path).Msg("No config file found, using environment")
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	cfg = &config.Config{}
	cfg.App.Name = getEnv("APP_NAME", "mentorhours")
	cfg.App.Environment = getEnv("ENVIRONMENT", "development")
	cfg.App.Port = getEnvAsInt("PORT", 8080)
	cfg.App.BaseURL = getEnv("BASE_URL", "")
	cfg.App.TrustProxy = getEnv("TRUST_PROXY", "") == "true"
	cfg.App.SecretKey = os.Getenv("APP_SECRET_KEY")
	cfg.Database.Driver = "sqlite"
	cfg.Database.Filename = getEnv("DATABASE_FILENAME", "build/db/mentorhours.db")
	cfg.Source.Kind = getEnv("SOURCE_KIND", config.SourceSQLite)
	cfg.Source.BaseURL = getEnv("SOURCE_BASE_URL", "")
	cfg.Source.TimeoutSeconds = getEnvAsInt("SOURCE_TIMEOUT_SECONDS", 0)
	cfg.Digest.Enabled = getEnv("DIGEST_ENABLED", "") == "true"
	cfg.Digest.Cron = getEnv("DIGEST_CRON", "0 7 * * 1")
	cfg.Digest.Sender = getEnv("DIGEST_SENDER", "")
	cfg.Digest.Subject = getEnv("DIGEST_SUBJECT", "Your weekly availability")
	cfg.AWS.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	cfg.AWS.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	cfg.AWS.Region = os.Getenv("AWS_REGION")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func setupLogger(environment string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func main() {
	configPath := flag.String("config", getEnv("CONFIG_PATH", defaultConfigPath), "path to config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.App.Environment)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}
	defer app.Close()

	shutdownTimeout := time.Duration(getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 30)) * time.Second

	g, ctx := errgroup.WithContext(ctx)

	// Run server
	g.Go(func() error {
		log.Info().Int("port", cfg.App.Port).Str("source", cfg.Source.Kind).Msg("Starting server")
		if err := app.server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Wait for interrupt signal
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := app.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		app.Close()
		os.Exit(1)
	}
}
