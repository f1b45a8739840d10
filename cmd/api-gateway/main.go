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
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/learnhub-api/api/swagger"
	"github.com/noah-isme/learnhub-api/internal/handler"
	"github.com/noah-isme/learnhub-api/internal/middleware"
	"github.com/noah-isme/learnhub-api/internal/repository"
	"github.com/noah-isme/learnhub-api/internal/service"
	"github.com/noah-isme/learnhub-api/pkg/cache"
	"github.com/noah-isme/learnhub-api/pkg/config"
	"github.com/noah-isme/learnhub-api/pkg/database"
	"github.com/noah-isme/learnhub-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/learnhub-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/learnhub-api/pkg/middleware/requestid"
	"github.com/noah-isme/learnhub-api/pkg/storage"
)

// @title LearnHub API
// @version 1.0.0
// @description Course catalog, video lessons and learner engagement.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// multipart parts above this size spill to temporary files.
const maxMultipartMemory = 32 << 20

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	if cfg.Database.AutoMigrate {
		migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = database.Migrate(migrateCtx, db)
		cancel()
		if err != nil {
			logr.Fatal("failed to apply schema", zap.Error(err))
		}
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, continuing without cache", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	metrics := service.NewMetricsService()
	router, err := buildRouter(cfg, logr, db, redisClient, metrics)
	if err != nil {
		logr.Fatal("failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("shutdown error", zap.Error(err))
	}
}

func buildRouter(cfg *config.Config, logr *zap.Logger, db *sqlx.DB, redisClient *redis.Client, metrics *service.MetricsService) (*gin.Engine, error) {
	validate := validator.New()
	links := service.NewLinks(cfg.APIPrefix)

	store, err := storage.NewLocalStorage(cfg.Media.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("media storage: %w", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Media.SignedURLSecret, cfg.Media.SignedURLTTL)
	thumbnailer := storage.NewThumbnailer(cfg.Media.ThumbnailMaxWidth, cfg.Media.ThumbnailMaxPixels)

	var cacheSvc *service.CacheService
	if redisClient != nil {
		cacheSvc = service.NewCacheService(repository.NewCacheRepository(redisClient, cfg.Redis.KeyPrefix), metrics, cfg.Catalog.CacheTTL, logr, true)
	}

	users := repository.NewUserRepository(db)
	topics := repository.NewTopicRepository(db)
	courses := repository.NewCourseRepository(db)
	videos := repository.NewVideoRepository(db)
	engagement := repository.NewEngagementRepository(db)
	ratings := repository.NewRatingRepository(db)

	media := service.NewMediaService(store, signer, thumbnailer, metrics, links, logr, service.MediaServiceConfig{
		MaxVideoSize: cfg.Media.MaxVideoSizeBytes,
		MaxImageSize: cfg.Media.MaxImageSizeBytes,
		AllowedMIMEs: cfg.Media.AllowedVideoMIMEs,
	})
	authSvc := service.NewAuthService(users, media, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	catalogSvc := service.NewCatalogService(courses, topics, videos, media, cacheSvc, metrics, users, links, validate, logr, service.CatalogServiceConfig{
		CacheTTL: cfg.Catalog.CacheTTL,
	})
	videoSvc := service.NewVideoService(videos, courses, engagement, media, metrics, users, links, validate, logr)
	engagementSvc := service.NewEngagementService(engagement, videos, metrics, validate, logr)
	ratingSvc := service.NewRatingService(ratings, courses, validate, logr)
	dashboardSvc := service.NewDashboardService(courses, engagement, catalogSvc, logr, service.DashboardServiceConfig{
		RecentCoursesLimit: cfg.Dashboard.RecentCoursesLimit,
	})
	exportSvc := service.NewExportService(courses, logr, nil)

	r := gin.New()
	r.MaxMultipartMemory = maxMultipartMemory
	r.Use(middleware.Recovery(logr))
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	checks := map[string]handler.ReadinessCheck{
		"database": db.PingContext,
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	handler.RegisterOperational(r, handler.NewMetricsHandler(metrics, checks))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Auth:       handler.NewAuthHandler(authSvc),
		Catalog:    handler.NewCatalogHandler(catalogSvc),
		Ratings:    handler.NewRatingHandler(ratingSvc),
		Videos:     handler.NewVideoHandler(videoSvc),
		Engagement: handler.NewEngagementHandler(engagementSvc, links),
		Dashboard:  handler.NewDashboardHandler(dashboardSvc, exportSvc),
	}, authSvc)

	return r, nil
}
