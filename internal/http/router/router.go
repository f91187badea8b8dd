package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coursedesk/enrollment-api/internal/auth"
	"github.com/coursedesk/enrollment-api/internal/config"
	"github.com/coursedesk/enrollment-api/internal/database"
	"github.com/coursedesk/enrollment-api/internal/http/handler"
	"github.com/coursedesk/enrollment-api/internal/http/middleware"
	"github.com/coursedesk/enrollment-api/internal/http/web"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/coursedesk/enrollment-api/docs" // swagger docs
)

const readinessTimeout = 5 * time.Second

// ReadinessCheck reports whether one dependency is usable
type ReadinessCheck func(ctx context.Context) error

type Router struct {
	cfg               *config.Config
	logger            *zap.Logger
	db                *gorm.DB
	authMiddleware    *auth.Middleware
	rateLimiter       *middleware.RateLimiter
	courseHandler     *handler.CourseHandler
	studentHandler    *handler.StudentHandler
	enrollmentHandler *handler.EnrollmentHandler
	reportHandler     *handler.ReportHandler
	webHandler        *web.Handler
	readiness         map[string]ReadinessCheck
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	courseHandler *handler.CourseHandler,
	studentHandler *handler.StudentHandler,
	enrollmentHandler *handler.EnrollmentHandler,
	reportHandler *handler.ReportHandler,
	webHandler *web.Handler,
) *Router {
	rt := &Router{
		cfg:               cfg,
		logger:            logger,
		db:                db,
		authMiddleware:    authMiddleware,
		rateLimiter:       rateLimiter,
		courseHandler:     courseHandler,
		studentHandler:    studentHandler,
		enrollmentHandler: enrollmentHandler,
		reportHandler:     reportHandler,
		webHandler:        webHandler,
		readiness:         make(map[string]ReadinessCheck),
	}
	rt.readiness["database"] = func(context.Context) error { return database.HealthCheck(db) }
	return rt
}

// AddReadinessCheck registers an extra dependency for /health/ready
func (rt *Router) AddReadinessCheck(name string, check ReadinessCheck) {
	rt.readiness[name] = check
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.Limit)

	// Liveness
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Get("/health/db", rt.databaseHealth)
	r.Get("/health/ready", rt.ready)

	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	r.Route("/api", func(r chi.Router) {
		// Reads are public; writes need an API key or bearer token when auth is enabled
		r.Use(rt.authMiddleware.RequireForWrites)

		r.Route("/course", func(r chi.Router) {
			r.Get("/", rt.courseHandler.List)
			r.Post("/", rt.courseHandler.Create)
			r.Get("/{id}", rt.courseHandler.GetByID)
			r.Put("/{id}", rt.courseHandler.Update)
			r.Delete("/{id}", rt.courseHandler.Delete)
			r.Get("/{id}/student", rt.courseHandler.ListStudents)
		})

		r.Route("/student", func(r chi.Router) {
			r.Get("/", rt.studentHandler.List)
			r.Post("/", rt.studentHandler.Create)
			r.Get("/{id}", rt.studentHandler.GetByID)
			r.Put("/{id}", rt.studentHandler.Update)
			r.Delete("/{id}", rt.studentHandler.Delete)

			r.Get("/{id}/course", rt.enrollmentHandler.List)
			r.Post("/{id}/course", rt.enrollmentHandler.Create)
			r.Delete("/{id}/course/{course_id}", rt.enrollmentHandler.Delete)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/student/{id}", rt.reportHandler.StudentReport)
			r.Get("/course/{id}", rt.reportHandler.CourseReport)
			r.Get("/course/{id}/chart.svg", rt.reportHandler.CourseChart)
		})

		r.Post("/marks/import", rt.reportHandler.ImportMarks)
	})

	// Server-rendered pages
	rt.webHandler.Routes(r)

	return r
}

func (rt *Router) databaseHealth(w http.ResponseWriter, r *http.Request) {
	stats, err := database.HealthCheckWithStats(rt.db)
	if err != nil {
		rt.logger.Error("Database health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "unhealthy",
			"error":   err.Error(),
			"service": "database",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "database",
		"stats": map[string]interface{}{
			"max_open_connections": stats.MaxOpenConnections,
			"open_connections":     stats.OpenConnections,
			"in_use":               stats.InUse,
			"idle":                 stats.Idle,
			"wait_count":           stats.WaitCount,
			"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
		},
	})
}

// ready runs every registered readiness check
func (rt *Router) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	checks := make(map[string]interface{}, len(rt.readiness))
	healthy := true
	for name, check := range rt.readiness {
		if err := check(ctx); err != nil {
			rt.logger.Error("Readiness check failed", zap.String("check", name), zap.Error(err))
			checks[name] = map[string]string{"status": "unhealthy", "error": err.Error()}
			healthy = false
			continue
		}
		checks[name] = map[string]string{"status": "healthy"}
	}

	status, code := "healthy", http.StatusOK
	if !healthy {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]interface{}{
		"status": status,
		"checks": checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
