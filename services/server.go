package services

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"

	"github.com/johnnycuong/mps-recruitment/models"
	"github.com/johnnycuong/mps-recruitment/repository"
)

// Server holds all server dependencies
type Server struct {
	config      *Config
	store       repository.Store
	rawDB       *gorm.DB
	reportCache *RedisReportCache
	rateLimiter *IPRateLimiter

	workflow  *WorkflowService
	activity  *ActivityService
	metrics   *MetricsService
	authSvc   *AuthService
	endpoints []routeRegistrar
	auth      *AuthEndpoints
}

type routeRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// NewServer creates a new server instance
func NewServer(config *Config) *Server {
	return &Server{
		config:      config,
		rateLimiter: NewIPRateLimiter(config.RateLimit.RPS, config.RateLimit.Burst),
	}
}

// SetDatabase sets the entity store and the raw connection used for health checks.
func (s *Server) SetDatabase(store repository.Store, rawDB *gorm.DB) {
	s.store = store
	s.rawDB = rawDB
}

// InitializeServices initializes all server services
func (s *Server) InitializeServices() error {
	if s.store == nil {
		slog.Warn("Database not configured, API routes are disabled")
		return nil
	}

	if s.config.Redis.URL != "" {
		cache, err := NewRedisReportCache(s.config.Redis.URL, s.config.Redis.CacheTTL)
		if err != nil {
			slog.Error("Failed to configure report cache", "error", err)
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := cache.Ping(ctx); err != nil {
				slog.Warn("Report cache unreachable, continuing without it", "error", err)
				cache.Close()
			} else {
				s.reportCache = cache
				slog.Info("Report cache initialized")
			}
		}
	}

	recorder := NewActivityRecorder(time.Now)
	s.workflow = NewWorkflowService(s.store, recorder)
	s.activity = NewActivityService(s.store, recorder, s.config.Activity.RecentLimit)
	if s.reportCache != nil {
		s.metrics = NewMetricsService(s.store, s.reportCache, time.Now)
	} else {
		s.metrics = NewMetricsService(s.store, nil, time.Now)
	}

	s.endpoints = []routeRegistrar{
		NewCandidateEndpoints(s.store, s.workflow),
		NewClientEndpoints(s.store, s.workflow),
		NewPartnerEndpoints(s.store, s.workflow),
		NewJobEndpoints(s.store, s.workflow),
		NewApplicationEndpoints(s.store, s.workflow),
		NewInterviewEndpoints(s.store, s.workflow),
		NewActivityEndpoints(s.activity),
		NewAnalyticsEndpoints(s.metrics),
	}

	if s.config.JWT.Secret != "" {
		s.authSvc = NewAuthService(s.store, s.config.JWT.Secret, s.config.JWT.Expiry)
		s.auth = NewAuthEndpoints(s.authSvc)
		slog.Info("Authentication service initialized")
	} else {
		slog.Warn("JWT secret not configured, API routes are disabled")
	}
	return nil
}

// Close releases connections held by the server's services.
func (s *Server) Close() {
	if s.reportCache != nil {
		if err := s.reportCache.Close(); err != nil {
			slog.Error("Failed to close report cache", "error", err)
		}
	}
}

// SetupRoutes configures all HTTP routes
func (s *Server) SetupRoutes() *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(CORSMiddleware(s.config.CORS.AllowedOrigins))
	r.Use(s.rateLimiter.Middleware)

	r.Get("/health", s.healthHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", s.apiV1Handler)

		if s.auth == nil {
			return
		}
		s.auth.RegisterRoutes(r)

		// Everything else requires a staff token.
		r.Group(func(r chi.Router) {
			r.Use(s.authSvc.Middleware)
			r.Use(requireStaff)
			for _, e := range s.endpoints {
				e.RegisterRoutes(r)
			}
		})
	})

	return r
}

func requireStaff(next http.Handler) http.Handler {
	return RequireRole(models.RoleAdmin, models.RoleManager, models.RoleRecruiter)(next)
}

// Start starts the HTTP server
func (s *Server) Start() {
	port := s.config.Server.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           s.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		slog.Info("Starting server", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	s.Close()

	slog.Info("Server exited")
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbStatus := "not configured"
	cacheStatus := "not configured"

	if s.rawDB != nil {
		if sqlDB, err := s.rawDB.DB(); err == nil {
			if err := sqlDB.PingContext(r.Context()); err != nil {
				dbStatus = "down"
				status = "degraded"
			} else {
				dbStatus = "up"
			}
		} else {
			dbStatus = "down"
			status = "degraded"
		}
	}
	if s.reportCache != nil {
		if err := s.reportCache.Ping(r.Context()); err != nil {
			cacheStatus = "down"
		} else {
			cacheStatus = "up"
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":   status,
		"database": dbStatus,
		"cache":    cacheStatus,
	})

	slog.Info("Health check", "status", status, "database", dbStatus, "cache", cacheStatus)
}

func (s *Server) apiV1Handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "API v1", "version": "1.0.0"})
}
