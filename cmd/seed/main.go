// Command seed fills a development database with the sample shop catalog
// and, optionally, a demo pandit account.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/iliyamo/pandit-seva/internal/config"
	"github.com/iliyamo/pandit-seva/internal/database"
	"github.com/iliyamo/pandit-seva/internal/logger"
	"github.com/iliyamo/pandit-seva/internal/repository"
	"github.com/iliyamo/pandit-seva/internal/seed"
	"github.com/iliyamo/pandit-seva/internal/service"
	"github.com/iliyamo/pandit-seva/internal/validator"
)

func main() {
	samplePandit := flag.Bool("sample-pandit", false, "also create the demo pandit account")
	email := flag.String("pandit-email", "pandit.demo@example.com", "demo pandit email")
	password := flag.String("pandit-password", os.Getenv("SEED_PANDIT_PASSWORD"), "demo pandit password")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: logger.FormatText, Service: "seed"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("database unavailable", "error", err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db, log.Logger); err != nil {
		log.Fatal("migrations failed", "error", err)
	}

	n, err := seed.Catalog(ctx, repository.NewShopRepo(db, cfg.RequestTimeout))
	if err != nil {
		log.Fatal("seeding shop failed", "error", err)
	}
	if n == 0 {
		log.Info("shop items already present")
	} else {
		log.Info("shop items added", "count", n)
	}

	if !*samplePandit {
		return
	}
	if *password == "" {
		log.Fatal("-pandit-password or SEED_PANDIT_PASSWORD is required with -sample-pandit")
	}
	v, err := validator.New()
	if err != nil {
		log.Fatal("validator setup failed", "error", err)
	}
	profiles := repository.NewProfileRepo(db, cfg.RequestTimeout)
	auth := service.NewAuthService(service.AuthConfig{
		JWTSecret:      cfg.JWTSecret,
		AccessTTLMin:   cfg.AccessTTLMin,
		RefreshTTLDays: cfg.RefreshTTLDays,
		BcryptCost:     cfg.BcryptCost,
	}, profiles, repository.NewTokenRepo(db, cfg.RequestTimeout), v, log)

	p, err := seed.SamplePandit(ctx, auth, service.NewProfileService(profiles, v, log), *email, *password)
	if err != nil {
		log.Fatal("creating sample pandit failed", "error", err)
	}
	log.Info("sample pandit created", "id", p.ID, "email", p.Email)
}
