package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Elandig/tabscribe/internal/api/middleware"
	v1routes "github.com/Elandig/tabscribe/internal/api/v1/routes"
	"github.com/Elandig/tabscribe/internal/api/v1/services"
	"github.com/Elandig/tabscribe/internal/app"
	"github.com/Elandig/tabscribe/internal/app/jobs"
	appconfig "github.com/Elandig/tabscribe/internal/config"
)

// Version is reported by the index endpoint
var Version = "dev"

// Config represents API server configuration
type Config struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	Environment  string
}

// ConfigFrom builds the server configuration from the application settings
func ConfigFrom(application *app.Application) Config {
	s := application.Settings.Server
	return Config{
		Host:         s.Host,
		Port:         s.Port,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  2 * time.Minute,
		Environment:  s.Environment,
	}
}

// Server represents the API server
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *zap.Logger
	errc       chan error
}

// NewServer creates a new API server over the application components
func NewServer(config Config, application *app.Application) *Server {
	if config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
	}

	logger := application.Logger.Named("http")

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogging(logger))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "healthy",
			"timestamp":    time.Now().Unix(),
			"active_polls": len(application.Manager.ActivePolls()),
		})
	})
	router.GET("/metrics", gin.WrapH(application.Metrics.Handler()))

	var loader jobs.SettingsLoader = appconfig.EnvOverlay{Store: application.SettingsStore}
	if application.SettingsLoader != nil {
		loader = application.SettingsLoader
	}
	serviceContainer := &v1routes.ServiceContainer{
		RecordingService:     services.NewRecordingService(application.Store, application.Media, application.Importer, logger),
		TranscriptionService: services.NewTranscriptionService(application.Manager, application.Store, loader),
	}
	if application.SettingsStore != nil {
		serviceContainer.SettingsService = services.NewSettingsService(application.SettingsStore)
	}

	api := router.Group("/api")
	{
		v1 := api.Group("/v1")
		v1routes.RegisterRoutes(v1, serviceContainer)
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "tabscribe API",
			"version": Version,
			"endpoints": gin.H{
				"health":         "/health",
				"metrics":        "/metrics",
				"recordings":     "/api/v1/recordings",
				"transcriptions": "/api/v1/transcriptions",
				"events":         "/api/v1/events",
				"settings":       "/api/v1/settings",
			},
		})
	})

	httpServer := &http.Server{
		Addr:         net.JoinHostPort(config.Host, config.Port),
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return &Server{
		config:     config,
		router:     router,
		httpServer: httpServer,
		logger:     logger,
		errc:       make(chan error, 1),
	}
}

// Start listens and serves in the background. Listen errors are returned
// directly; later serve failures are reported on Errors.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}

	s.logger.Info("API server started",
		zap.String("address", ln.Addr().String()),
		zap.String("environment", s.config.Environment),
	)

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server failed", zap.Error(err))
			s.errc <- err
		}
		close(s.errc)
	}()
	return nil
}

// Errors yields a serve failure, then closes when the server stops
func (s *Server) Errors() <-chan error {
	return s.errc
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	s.logger.Info("API server shutdown complete")
	return nil
}

// Router returns the Gin router (useful for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
