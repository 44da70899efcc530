// cmd/dbtools/seed/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/mentorhours/internal/config"
	"github.com/codr1/mentorhours/internal/db"
	"github.com/codr1/mentorhours/internal/session"
	"github.com/codr1/mentorhours/internal/source"
)

func main() {
	var (
		configPath = flag.String("config", "config/app.yaml", "Path to config file")
		mentorID   = flag.String("mentor", "", "Mentor id")
		name       = flag.String("name", "", "Mentor display name")
		mail       = flag.String("email", "", "Mentor e-mail address for the weekly digest")
		file       = flag.String("file", "", "Path to availability payload JSON")
		sessionTTL = flag.Duration("session-ttl", 0, "Print a signed mentor_session cookie valid for this long")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *mentorID == "" || *file == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("Failed to load configuration")
	}

	payload, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("Failed to read payload")
	}

	database, err := db.NewFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ctx = log.Logger.WithContext(ctx)

	store := source.NewStore(database)
	profile := source.MentorProfile{ID: *mentorID, Name: *name, Email: *mail}
	if err := store.PutMentorDocument(ctx, profile, payload); err != nil {
		log.Fatal().Err(err).Str("mentor_id", *mentorID).Msg("Failed to seed availability")
	}

	if *sessionTTL > 0 {
		value, err := session.SignMentorCookie(cfg.App.SecretKey, *mentorID, time.Now().Add(*sessionTTL))
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to sign mentor session")
		}
		fmt.Println(value)
	}
}
