// @title LMS API
// @version 1.0.0
// @description CRUD service for universities, students, courses and admins.
// @BasePath /
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
	"go.uber.org/zap"

	_ "github.com/noah-isme/lms-api/api/swagger"
	"github.com/noah-isme/lms-api/internal/handler"
	"github.com/noah-isme/lms-api/internal/repository"
	"github.com/noah-isme/lms-api/internal/router"
	"github.com/noah-isme/lms-api/internal/service"
	"github.com/noah-isme/lms-api/pkg/cache"
	"github.com/noah-isme/lms-api/pkg/config"
	"github.com/noah-isme/lms-api/pkg/database"
	"github.com/noah-isme/lms-api/pkg/logger"
)

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

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		migrator, err := database.NewMigrator(db, logr)
		if err != nil {
			return err
		}
		if err := migrator.Up(ctx); err != nil {
			return err
		}
	}

	checks := map[string]handler.ReadinessCheck{"postgres": db.PingContext}
	metrics := service.NewMetricsService()

	var cacheRepo *repository.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()
		cacheRepo = repository.NewCacheRepository(client)
		checks["redis"] = cacheRepo.Ping
	}
	cacheSvc := newCacheService(cacheRepo, metrics, cfg, logr)

	handlers := buildHandlers(db, cacheSvc, metrics, logr)
	handlers.Ops = handler.NewMetricsHandler(metrics, checks, logr)
	engine := router.New(cfg, handlers, metrics, logr)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		logr.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newCacheService(repo *repository.CacheRepository, metrics *service.MetricsService, cfg *config.Config, logr *zap.Logger) *service.CacheService {
	if repo == nil {
		return nil
	}
	return service.NewCacheService(repo, metrics, cfg.Cache.TTL, logr.Named("cache"), cfg.Cache.Enabled)
}

func buildHandlers(db *sqlx.DB, cacheSvc *service.CacheService, metrics *service.MetricsService, logr *zap.Logger) router.Handlers {
	validate := validator.New()
	exports := service.NewExportService(nil, nil)

	universityRepo := repository.NewUniversityRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	tx := repository.NewTransactor(db)

	universities := service.NewUniversityService(universityRepo, studentRepo, tx, validate, cacheSvc, metrics, logr.Named("universities"))
	students := service.NewStudentService(studentRepo, universityRepo, validate, cacheSvc, logr.Named("students"))
	courses := service.NewCourseService(courseRepo, universityRepo, validate, cacheSvc, logr.Named("courses"))
	admins := service.NewAdminService(adminRepo, validate, cacheSvc, logr.Named("admins"))

	return router.Handlers{
		Universities: handler.NewUniversityHandler(universities, exports),
		Students:     handler.NewStudentHandler(students, exports),
		Courses:      handler.NewCourseHandler(courses, exports),
		Admins:       handler.NewAdminHandler(admins, exports),
	}
}
