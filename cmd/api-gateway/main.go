package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-timetable-api/api/swagger"
	"github.com/noah-isme/sma-timetable-api/internal/handler"
	internalmiddleware "github.com/noah-isme/sma-timetable-api/internal/middleware"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/repository"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	"github.com/noah-isme/sma-timetable-api/pkg/cache"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
	"github.com/noah-isme/sma-timetable-api/pkg/jobs"
	"github.com/noah-isme/sma-timetable-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-timetable-api/pkg/middleware/requestid"
)

// @title Timetable API
// @version 0.1.0
// @description Weekly timetable builder backed by the lecture catalog.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()
	validate := validator.New()

	var catalogCache *service.CacheService
	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
	} else if redisClient != nil {
		cacheRepo := repository.NewCacheRepository(redisClient)
		defer cacheRepo.Close() //nolint:errcheck
		catalogCache = service.NewCacheService(cacheRepo, metrics, cfg.Catalog.RedisTTL, logr)
	}

	catalogRepo, closeCatalog, err := repository.OpenCatalogBackend(cfg.Catalog, cfg.Database, metrics, logr)
	if err != nil {
		logr.Fatal("failed to open catalog backend", zap.String("backend", cfg.Catalog.Backend), zap.Error(err))
	}
	defer closeCatalog() //nolint:errcheck

	catalog := service.NewCatalogService(catalogRepo, catalogCache, metrics, logr)

	warmQueue := jobs.NewQueue("catalog-warm", func(ctx context.Context, _ jobs.Job) error {
		return catalog.Warm(ctx)
	}, jobs.QueueConfig{
		Workers:    1,
		MaxRetries: cfg.Catalog.WarmRetries,
		RetryDelay: 2 * time.Second,
		Logger:     logr,
		OnGiveUp: func(job jobs.Job, err error) {
			logr.Error("catalog warm-up abandoned; it will load on first use", zap.String("job_id", job.ID), zap.Error(err))
		},
	})
	warmQueue.Start(ctx)
	defer warmQueue.Stop()
	if cfg.Catalog.WarmOnStart {
		if err := warmQueue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: "catalog.warm"}); err != nil {
			logr.Warn("failed to enqueue catalog warm-up", zap.Error(err))
		}
	}

	layout := models.GridLayout{
		Days:             cfg.Timetable.Days,
		Periods:          cfg.Timetable.Periods,
		CellWidth:        cfg.Timetable.CellWidth,
		CellHeight:       cfg.Timetable.CellHeight,
		DayHeaderWidth:   cfg.Timetable.DayHeaderWidth,
		TimeHeaderHeight: cfg.Timetable.TimeHeaderHeight,
	}
	sessions := service.NewSessionService(catalog, layout, validate, logr, metrics, service.SessionConfig{
		TokenSecret:       cfg.JWT.Secret,
		TokenIssuer:       cfg.JWT.Issuer,
		TokenExpiry:       cfg.JWT.Expiration,
		IdleTTL:           cfg.Session.TTL,
		PageSize:          cfg.Search.PageSize,
		StrictDescriptors: cfg.Timetable.StrictDescriptors,
	})
	exporter := service.NewExportService(layout, logr, nil, nil)

	janitor := cron.New()
	if _, err := sessions.ScheduleJanitor(janitor, cfg.Session.JanitorInterval); err != nil {
		logr.Fatal("failed to schedule session janitor", zap.Error(err))
	}
	janitor.Start()
	defer janitor.Stop()

	metricsHandler := handler.NewMetricsHandler(metrics, catalog)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(internalmiddleware.Metrics(metrics))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Sessions: handler.NewSessionHandler(sessions),
		Tables:   handler.NewTableHandler(sessions, exporter),
		Gestures: handler.NewGestureHandler(sessions),
		Search:   handler.NewSearchHandler(sessions),
		Catalog:  handler.NewCatalogHandler(catalog),
		Metrics:  metricsHandler,
	}, internalmiddleware.Session(sessions))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "catalog_backend", cfg.Catalog.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
