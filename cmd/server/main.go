package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/engivora/backend/internal/config"
	"github.com/engivora/backend/internal/es"
	"github.com/engivora/backend/internal/events"
	"github.com/engivora/backend/internal/handlers"
	"github.com/engivora/backend/internal/logging"
	mwauth "github.com/engivora/backend/internal/middleware/auth"
	loggingmw "github.com/engivora/backend/internal/middleware/logging"
	"github.com/engivora/backend/internal/middleware/ratelimit"
	"github.com/engivora/backend/internal/repo"
	"github.com/engivora/backend/internal/service"
	"github.com/engivora/backend/internal/token"
	httpserver "github.com/engivora/backend/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		if db == nil {
			log.Fatalf("database init error: %v", err)
		}
		// a down database is survivable: login degrades to the seeded
		// fallback store until the primary comes back
		logger.Warn("database unreachable, starting degraded", "error", err)
	}

	issuer, err := token.NewIssuer(configuration.JWT_SECRET, configuration.JWT_TTL)
	if err != nil {
		log.Fatalf("invalid JWT_TTL: %v", err)
	}

	memRepo := repo.NewMemoryRepository()
	if err := service.SeedFallback(memRepo, configuration.ADMIN_EMAIL, configuration.ADMIN_PASSWORD); err != nil {
		log.Fatalf("cannot seed fallback store: %v", err)
	}
	credRepo := repo.NewFallbackRepository(repo.NewGormRepository(db), memRepo)

	authSvc := &service.AuthService{Repo: credRepo, Issuer: issuer}

	prod := events.NewProducer([]string{configuration.KAFKA_ADDRESS})

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Printf("elasticsearch unavailable, search disabled: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:                  db,
		Guard:               mwauth.NewGuard(issuer, httpserver.PublicPaths),
		LoginLimiter:        ratelimit.NewTokenBucket(0, 30),
		AuthHandler:         &handlers.AuthHandler{Svc: authSvc, Producer: prod},
		JobHandler:          &handlers.JobHandler{DB: db, Producer: prod},
		BlogHandler:         &handlers.BlogHandler{DB: db, Producer: prod},
		ExamHandler:         &handlers.ExamHandler{DB: db, Producer: prod},
		DiscountHandler:     &handlers.DiscountHandler{DB: db, Producer: prod},
		EventHandler:        &handlers.EventHandler{DB: db, Producer: prod},
		NotificationHandler: &handlers.NotificationHandler{DB: db, Producer: prod},
		SearchHandler:       &handlers.SearchHandler{ES: esClient, Indexes: []string{"jobs", "blogs"}},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
