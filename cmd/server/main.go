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

	"github.com/lobami/campaign-analytics/internal/config"
	"github.com/lobami/campaign-analytics/internal/es"
	"github.com/lobami/campaign-analytics/internal/handlers"
	"github.com/lobami/campaign-analytics/internal/logging"
	loggingmw "github.com/lobami/campaign-analytics/internal/middleware/logging"
	"github.com/lobami/campaign-analytics/internal/mykafka"
	"github.com/lobami/campaign-analytics/internal/repo"
	"github.com/lobami/campaign-analytics/internal/service"
	"github.com/lobami/campaign-analytics/internal/tokens"
	httpserver "github.com/lobami/campaign-analytics/internal/transport/http"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting campaign analytics api", "port", cfg.HTTPPort, "allowed_origins", cfg.FrontendOrigins)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("database error: %v", err)
	}

	producer := mykafka.NewProducer([]string{cfg.KafkaAddress})
	defer producer.Close()

	esClient, err := es.NewClient(cfg)
	if err != nil {
		// The API is usable without search; only /campaigns/search degrades.
		logger.Warn("elasticsearch unavailable, search disabled", "error", err)
		esClient = nil
	}

	issuer := tokens.NewService([]byte(cfg.JWTSecret), cfg.AccessTTL, cfg.RefreshTTL)
	users := repo.NewUserRepo(db)
	tokenRepo := repo.NewTokenRepo(db)
	campaigns := repo.NewCampaignRepo(db)

	authSvc := service.NewAuthService(users, tokenRepo, issuer)
	campaignSvc := service.NewCampaignService(campaigns)

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.FrontendOrigins,
		AllowCredentials: true,
	}))
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:          db,
		AuthSvc:     authSvc,
		AuthHandler: &handlers.AuthHandler{Svc: authSvc, Producer: producer},
		CampaignHandler: &handlers.CampaignHandler{
			Svc:      campaignSvc,
			Producer: producer,
			ES:       esClient,
			ESIndex:  cfg.ESIndex,
		},
		SearchHandler: handlers.NewSearchHandler(esClient, cfg.ESIndex),
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
