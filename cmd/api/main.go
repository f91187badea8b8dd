package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/coursedesk/enrollment-api/docs"
	"github.com/coursedesk/enrollment-api/internal/auth"
	"github.com/coursedesk/enrollment-api/internal/config"
	"github.com/coursedesk/enrollment-api/internal/database"
	"github.com/coursedesk/enrollment-api/internal/http/handler"
	"github.com/coursedesk/enrollment-api/internal/http/middleware"
	"github.com/coursedesk/enrollment-api/internal/http/router"
	"github.com/coursedesk/enrollment-api/internal/http/web"
	"github.com/coursedesk/enrollment-api/internal/jobs"
	"github.com/coursedesk/enrollment-api/internal/logger"
	"github.com/coursedesk/enrollment-api/internal/report"
	"github.com/coursedesk/enrollment-api/internal/repository"
	"github.com/coursedesk/enrollment-api/internal/service"
	"github.com/coursedesk/enrollment-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// @title Enrollment API
// @version 1.0
// @description Students, courses, enrollments and mark reports

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description HS256 JWT bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description Admin API key

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Plain config first so the logger exists before secrets are resolved
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	if host := os.Getenv("SWAGGER_HOST"); host != "" {
		docs.SwaggerInfo.Host = host
	}

	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := prepareDatabase(ctx, cfg, db, log); err != nil {
		return err
	}

	// Chart storage is optional; without it the report page inlines charts
	var chartStore storage.Storage
	if s, err := storage.NewStorage(&cfg.Storage, log); err != nil {
		log.Warn("Chart storage unavailable, continuing without it", zap.Error(err))
	} else {
		chartStore = s
		log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))
	}

	// Repositories
	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	markRepo := repository.NewMarkRepository(db)

	// Services
	studentService := service.NewStudentService(studentRepo, courseRepo, log)
	courseService := service.NewCourseService(courseRepo, log)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, studentRepo, courseRepo, log)
	markService := service.NewMarkService(markRepo, log)

	var markSource report.MarkSource = markService
	if cfg.Reports.Source == "csv" {
		markSource = report.NewFileSource(cfg.Reports.CSVPath)
	}
	log.Info("Mark reports source",
		zap.String("source", cfg.Reports.Source),
		zap.String("csv_path", cfg.Reports.CSVPath),
	)
	reportService := service.NewReportService(markSource, chartStore, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(&cfg.Auth, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Handlers
	courseHandler := handler.NewCourseHandler(courseService, enrollmentService, log)
	studentHandler := handler.NewStudentHandler(studentService, log)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService, log)
	reportHandler := handler.NewReportHandler(reportService, markService, cfg.Server.MaxUploadBytes(), log)
	webHandler, err := web.NewHandler(studentService, courseService, enrollmentService, reportService, log)
	if err != nil {
		return fmt.Errorf("failed to initialize pages: %w", err)
	}

	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		courseHandler,
		studentHandler,
		enrollmentHandler,
		reportHandler,
		webHandler,
	)
	rt.AddReadinessCheck("marks", marksCheck(cfg.Reports.Source, markService, markSource))

	scheduler, err := startScheduler(ctx, cfg, markService, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		releaseResources(scheduler, db, log)
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
		defer cancel()

		err := srv.Shutdown(ctx)
		releaseResources(scheduler, db, log)
		if err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}

// releaseResources waits for running jobs and closes the database pool.
// scheduler may be nil.
func releaseResources(scheduler *jobs.Scheduler, db *gorm.DB, log *zap.Logger) {
	if scheduler != nil {
		<-scheduler.Stop().Done()
		log.Info("Scheduler stopped")
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Warn("Error closing database", zap.Error(err))
		}
	}
}

// marksCheck probes the configured mark source. A CSV source must parse;
// the marks table only needs to answer a row count.
func marksCheck(source string, markService *service.MarkService, markSource report.MarkSource) router.ReadinessCheck {
	if source == "csv" {
		return func(ctx context.Context) error {
			_, err := markSource.Marks(ctx)
			return err
		}
	}
	return func(ctx context.Context) error {
		_, err := markService.Count(ctx)
		return err
	}
}

// prepareDatabase applies AutoMigrate and seeds the course catalogue when configured
func prepareDatabase(ctx context.Context, cfg *config.Config, db *gorm.DB, log *zap.Logger) error {
	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		log.Info("Database schema migrated")
	}

	if cfg.Database.SeedCourses {
		n, err := database.SeedCourses(ctx, db)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info("Seeded default courses", zap.Int("count", n))
		}
	}
	return nil
}

// startScheduler registers the mark import job. It returns a nil scheduler when jobs are disabled.
func startScheduler(ctx context.Context, cfg *config.Config, markService *service.MarkService, log *zap.Logger) (*jobs.Scheduler, error) {
	if !cfg.Jobs.Enabled {
		log.Info("Background jobs disabled")
		return nil, nil
	}

	job := jobs.NewMarkImportJob(markService, cfg.Reports.CSVPath, cfg.Jobs.TimeoutDuration(), log.Named(jobs.MarkImportJobName))
	if cfg.Jobs.MarkImportOnBoot {
		if _, err := job.RunContext(ctx); err != nil {
			log.Warn("Startup mark import failed", zap.Error(err))
		}
	}

	scheduler := jobs.NewScheduler(log)
	if err := scheduler.AddJob(jobs.MarkImportJobName, cfg.Jobs.MarkImportCron, job.Run); err != nil {
		return nil, fmt.Errorf("failed to register mark import job: %w", err)
	}
	scheduler.Start()

	log.Info("Scheduler started",
		zap.String("cron_expr", cfg.Jobs.MarkImportCron),
		zap.Duration("timeout", cfg.Jobs.TimeoutDuration()),
	)
	return scheduler, nil
}
