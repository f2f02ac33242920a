package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/fund-dynamics-api/api/swagger"
	"github.com/noah-isme/fund-dynamics-api/internal/handler"
	internalmiddleware "github.com/noah-isme/fund-dynamics-api/internal/middleware"
	"github.com/noah-isme/fund-dynamics-api/internal/repository"
	"github.com/noah-isme/fund-dynamics-api/internal/service"
	"github.com/noah-isme/fund-dynamics-api/pkg/cache"
	"github.com/noah-isme/fund-dynamics-api/pkg/config"
	"github.com/noah-isme/fund-dynamics-api/pkg/database"
	appErrors "github.com/noah-isme/fund-dynamics-api/pkg/errors"
	"github.com/noah-isme/fund-dynamics-api/pkg/export"
	"github.com/noah-isme/fund-dynamics-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/fund-dynamics-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/fund-dynamics-api/pkg/middleware/requestid"
	"github.com/noah-isme/fund-dynamics-api/pkg/storage"
)

// @title Fund Dynamics API
// @version 1.0.0
// @description Compares two well inventory snapshots and reports wells that entered, exited or changed operating mode.
// @BasePath /api/v1
// @schemes http

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

	appErrors.SetChecklist(checklist(cfg))
	metricsSvc := service.NewMetricsService()

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("result cache disabled", zap.Error(err))
			redisClient = nil
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	usageStore, db, err := openUsageStore(ctx, cfg)
	if err != nil {
		logr.Fatal("failed to open usage log", zap.Error(err))
	}
	if db != nil {
		defer db.Close() //nolint:errcheck
	}
	usageSvc := service.NewUsageService(usageStore, cfg.Usage.DefaultLimit, metricsSvc, logr)
	usageSvc.Start(ctx)
	defer usageSvc.Stop()

	referenceSvc := service.NewReferenceService(repository.NewReferenceRepository(cfg.References), cfg.References.ReloadPolicy, cacheRepo, metricsSvc, logr)
	if _, err := referenceSvc.Reload(ctx); err != nil {
		logr.Warn("reference tables not loaded at startup", zap.Error(err))
	}

	store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare report storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
	exportSvc := service.NewExportService(store, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Reports.SignedURLTTL,
	}, logr, export.NewXLSXExporter(), export.NewCSVExporter(';'), export.NewPDFExporter(cfg.Reports.PDFFontPath))
	exportSvc.StartCleanup(ctx, cfg.Reports.CleanupInterval)

	comparisonSvc := service.NewComparisonService(
		service.NewSnapshotReader(cfg.Snapshot),
		referenceSvc,
		exportSvc,
		cacheRepo,
		usageSvc,
		metricsSvc,
		service.ComparisonConfig{
			Filter:   service.NewSnapshotFilter(cfg.Snapshot.ActiveStates, cfg.Snapshot.Category),
			CacheTTL: cfg.Cache.TTL,
		},
		logr,
	)

	metricsHandler := handler.NewMetricsHandler(metricsSvc, referenceSvc)
	comparisonHandler := handler.NewComparisonHandler(comparisonSvc)
	exportHandler := handler.NewExportHandler(exportSvc, usageSvc, metricsSvc, logr)
	usageHandler := handler.NewUsageHandler(usageSvc)
	referenceHandler := handler.NewReferenceHandler(referenceSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	api.POST("/comparisons", internalmiddleware.BodyLimit(cfg.Snapshot.MaxUploadBytes), comparisonHandler.Create)
	api.GET("/export/:token", exportHandler.Download)
	api.GET("/usage", usageHandler.List)
	api.GET("/references", referenceHandler.Status)
	api.POST("/references/reload", referenceHandler.Reload)
	api.GET("/metrics/summary", metricsHandler.Summary)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "referencePolicy", cfg.References.ReloadPolicy)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
}

func openUsageStore(ctx context.Context, cfg *config.Config) (service.UsageStore, *sqlx.DB, error) {
	if cfg.Usage.Driver != config.UsageDriverPostgres {
		return repository.NewUsageFileRepository(cfg.Usage.Path), nil, nil
	}
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	repo := repository.NewUsageRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return repo, db, nil
}

func checklist(cfg *config.Config) []string {
	return []string{
		fmt.Sprintf("оба файла содержат лист «%s»", cfg.Snapshot.Sheet),
		fmt.Sprintf("шапка таблицы начинается после %d служебных строк", cfg.Snapshot.SkipRows),
		"в файлах есть колонки: Скважина, Состояние, Категория, Способ эксплуатации, Причина простоя",
		fmt.Sprintf("справочники доступны: %s", strings.Join([]string{cfg.References.OrgPath, cfg.References.DevicePath, cfg.References.CommissioningPath}, ", ")),
	}
}
