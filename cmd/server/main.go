package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/pandit-seva/internal/config"
	"github.com/iliyamo/pandit-seva/internal/database"
	"github.com/iliyamo/pandit-seva/internal/feed"
	"github.com/iliyamo/pandit-seva/internal/handler"
	"github.com/iliyamo/pandit-seva/internal/logger"
	"github.com/iliyamo/pandit-seva/internal/middleware"
	"github.com/iliyamo/pandit-seva/internal/queue"
	"github.com/iliyamo/pandit-seva/internal/repository"
	"github.com/iliyamo/pandit-seva/internal/router"
	"github.com/iliyamo/pandit-seva/internal/service"
	"github.com/iliyamo/pandit-seva/internal/validator"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "pandit-seva"})
	slog.SetDefault(log.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("database unavailable", "error", err)
	}
	defer db.Close()
	if cfg.MigrateOnStart {
		if err := database.Migrate(ctx, db, log.Logger); err != nil {
			log.Fatal("migrations failed", "error", err)
		}
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unreachable; cache and rate limit disabled")
	} else {
		defer rdb.Close()
	}

	var changes feed.Feed
	if cfg.FeedBackend == "redis" && rdb != nil {
		changes = feed.NewRedis(rdb, "", log.Logger)
	} else {
		mem := feed.NewMemory()
		defer mem.Close()
		changes = mem
		log.Info("using in-process cart feed")
	}

	v, err := validator.New()
	if err != nil {
		log.Fatal("validator setup failed", "error", err)
	}

	profiles := repository.NewProfileRepo(db, cfg.RequestTimeout)
	tokens := repository.NewTokenRepo(db, cfg.RequestTimeout)
	bookings := repository.NewBookingRepo(db, cfg.RequestTimeout)
	shop := repository.NewShopRepo(db, cfg.RequestTimeout)
	carts := repository.NewCartRepo(db, cfg.RequestTimeout)

	auth := service.NewAuthService(service.AuthConfig{
		JWTSecret:      cfg.JWTSecret,
		AccessTTLMin:   cfg.AccessTTLMin,
		RefreshTTLDays: cfg.RefreshTTLDays,
		BcryptCost:     cfg.BcryptCost,
	}, profiles, tokens, v, log)
	publisher := queue.NewPublisher(cfg.AMQPURL, log.Logger)
	bookingSvc := service.NewBookingService(bookings, profiles, publisher, v, cfg.Location, log)
	cartSvc := service.NewCartService(carts, changes, log)

	consumer := queue.NewConsumer(cfg.AMQPURL, cfg.BookingLogDir, log.Logger)
	go func() {
		if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("booking consumer stopped", "error", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = v
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.Session(auth, log.Logger))
	e.Use(middleware.RequestLogger(log.Logger))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log.Logger))

	router.RegisterRoutes(e)
	router.RegisterAuth(e,
		handler.NewAuthHandler(auth),
		handler.NewProfileHandler(auth, service.NewProfileService(profiles, v, log)),
	)
	router.RegisterPublic(e,
		handler.NewPublicHandler(service.NewDirectoryService(profiles), service.NewCatalogService(shop)),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb, log.Logger),
	)
	bookingHandler := handler.NewBookingHandler(bookingSvc)
	router.RegisterRequester(e, bookingHandler, handler.NewCartHandler(cartSvc))
	router.RegisterProvider(e, bookingHandler)

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
