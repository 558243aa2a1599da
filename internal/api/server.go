package api

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/punchlinehq/punchline/internal/api/handlers"
	"github.com/punchlinehq/punchline/internal/api/middleware"
	"github.com/punchlinehq/punchline/internal/logging"
	"github.com/punchlinehq/punchline/internal/web"
	"github.com/punchlinehq/punchline/pkg/config"
)

// Deps carries the service dependencies the routes need. Everything is
// constructed by the caller so the server owns no storage handles itself.
type Deps struct {
	Catalog  handlers.JokeCatalog
	Ask      handlers.Asker
	Feedback handlers.FeedbackSink
	Stats    handlers.StatsSource
}

// Server orchestrates HTTP routing for the joke service.
type Server struct {
	config        config.App
	logger        logging.Logger
	router        *gin.Engine
	shutdownHooks []func()
}

// NewServer wires the routes over the injected dependencies.
func NewServer(cfg config.App, logger logging.Logger, deps Deps) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	server := &Server{
		config: cfg,
		logger: logger,
	}
	server.setupRouter(deps)
	return server
}

// setupRouter configures the Gin router with middleware and routes.
func (s *Server) setupRouter(deps Deps) {
	router := gin.New()

	zapLogger := logging.Unwrap(s.logger)

	// Global middleware (order matters!)
	// 1. Recovery - must be first to catch panics from other middleware
	router.Use(ginzap.RecoveryWithZap(zapLogger, true))

	// 2. Request ID - inject unique ID for tracing
	router.Use(middleware.RequestID())

	// 3. Logging - log all requests with structured fields
	router.Use(ginzap.Ginzap(zapLogger, time.RFC3339, true))

	// 4. CORS - handle cross-origin requests
	router.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Embedded pages
	router.GET("/", servePage(web.IndexHTML))
	router.GET("/admin/dashboard", servePage(web.DashboardHTML))

	// Health endpoint (no /api/v1 prefix)
	router.GET("/health", handlers.NewHealthHandler(s.logger).Health)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		jokesHandler := handlers.NewJokesHandler(s.logger, deps.Catalog)
		v1.GET("/joke", jokesHandler.RandomJoke)
		v1.GET("/jokes", jokesHandler.ListJokes)

		v1.POST("/ask", handlers.NewAskHandler(s.logger, deps.Ask).Ask)
		v1.POST("/feedback", handlers.NewFeedbackHandler(s.logger, deps.Feedback).Feedback)

		analyticsHandler := handlers.NewAnalyticsHandler(s.logger, deps.Stats)
		analytics := v1.Group("/analytics")
		{
			analytics.GET("/stats", analyticsHandler.Stats)
			analytics.GET("/failed-queries", analyticsHandler.FailedQueries)
			analytics.GET("/low-satisfaction", analyticsHandler.LowSatisfaction)
		}
	}

	s.router = router
}

func servePage(page []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	}
}

// Router exposes the configured handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// OnShutdown registers fn to run after the HTTP server has drained.
// Hooks run in registration order.
func (s *Server) OnShutdown(fn func()) {
	s.shutdownHooks = append(s.shutdownHooks, fn)
}

// Serve starts the HTTP server and blocks until SIGINT or SIGTERM, then
// drains in-flight requests for up to 30 seconds.
func (s *Server) Serve() error {
	addr := ":" + s.config.APIPort
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		s.logger.Info("starting API server",
			zap.String("address", addr),
			zap.String("environment", s.config.Environment),
			zap.String("log_level", s.config.LogLevel),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-quit
	s.logger.Info("shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	for _, hook := range s.shutdownHooks {
		hook()
	}

	// Flush logger before exit
	if err := s.logger.Sync(); err != nil {
		// Ignore sync errors on stdout/stderr
		if err.Error() != "sync /dev/stdout: invalid argument" &&
			err.Error() != "sync /dev/stderr: invalid argument" {
			return err
		}
	}

	s.logger.Info("server stopped")
	return nil
}
