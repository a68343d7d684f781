package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/nkropachev/eshop/internal/config"
	"github.com/nkropachev/eshop/internal/es"
	"github.com/nkropachev/eshop/internal/httpserver"
	"github.com/nkropachev/eshop/internal/logging"
	"github.com/nkropachev/eshop/internal/middleware"
	"github.com/nkropachev/eshop/internal/models"
	"github.com/nkropachev/eshop/internal/mykafka"
	"github.com/nkropachev/eshop/internal/repo"
	"github.com/nkropachev/eshop/internal/service"
	"github.com/nkropachev/eshop/internal/uploads"
	"github.com/nkropachev/eshop/pkg/db"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	if err := database.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("database migration: %v", err)
	}

	var producer mykafka.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		producer = mykafka.NewProducer(cfg.KafkaBrokers)
	} else {
		logger.Warn("KAFKA_BROKERS not set, domain events disabled")
	}

	var esClient *elasticsearch.Client
	var productIndexer service.ProductIndexer
	if cfg.ESURL != "" {
		esClient, err = es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init: %v", err)
		}
		productIndexer = es.NewIndexer(esClient, cfg.ESIndex)
	} else {
		logger.Warn("ES_URL not set, product search disabled")
	}

	storage, err := uploads.NewStorage(cfg.UploadDir)
	if err != nil {
		log.Fatalf("upload storage init: %v", err)
	}

	r := repo.New(database)
	catalogSvc := service.NewCatalogService(r, productIndexer)

	deps := httpserver.Deps{
		OrderHandler: &httpserver.OrderHTTP{
			Svc:      service.NewOrderService(r),
			Producer: producer,
		},
		ProductHandler: &httpserver.ProductHTTP{
			Svc:      catalogSvc,
			Producer: producer,
			Storage:  storage,
			BaseURL:  cfg.BaseURL,
			ES:       esClient,
			ESIndex:  cfg.ESIndex,
		},
		CategoryHandler: &httpserver.CategoryHTTP{Svc: catalogSvc},
		UserHandler: &httpserver.UserHTTP{
			Svc:      service.NewUserService(r, cfg.JWTSecret),
			Producer: producer,
		},
		Auth:      middleware.NewAuthMiddleware(cfg.JWTSecret),
		UploadDir: cfg.UploadDir,
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "service", cfg.ServiceName, "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
