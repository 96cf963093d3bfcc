package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	accountHTTP "github.com/allisson/petadopt/internal/account/http"
	authHTTP "github.com/allisson/petadopt/internal/auth/http"
	"github.com/allisson/petadopt/internal/auth/policy"
	authService "github.com/allisson/petadopt/internal/auth/service"
	authUseCase "github.com/allisson/petadopt/internal/auth/usecase"
	blogHTTP "github.com/allisson/petadopt/internal/blog/http"
	"github.com/allisson/petadopt/internal/config"
	"github.com/allisson/petadopt/internal/metrics"
	petHTTP "github.com/allisson/petadopt/internal/pet/http"
)

// Server represents the API HTTP server.
type Server struct {
	db     *sql.DB
	router *gin.Engine
	server *http.Server
	logger *slog.Logger
}

// NewServer creates a new HTTP server. The router is wired separately through
// SetupRouter before Start is called.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// RouterDeps carries the handlers and auth components the router needs.
type RouterDeps struct {
	Matcher         *policy.Matcher
	TokenService    authService.TokenService
	IdentityUseCase authUseCase.IdentityUseCase
	AuthHandler     *authHTTP.AuthHandler
	AccountHandler  *accountHTTP.AccountHandler
	PetHandler      *petHTTP.PetHandler
	BlogHandler     *blogHTTP.BlogHandler
}

// SetupRouter builds the gin engine: global middleware, the authentication
// filter and all route groups.
func (s *Server) SetupRouter(
	cfg *config.Config,
	deps RouterDeps,
	metricsProvider *metrics.Provider,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	// Every request passes through the filter. Public routes are identified by
	// the route policy table; everything else requires a valid bearer token.
	router.Use(authHTTP.AuthenticationFilter(
		deps.Matcher, deps.TokenService, deps.IdentityUseCase, s.logger,
	))

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	router.Static("/uploads", cfg.UploadsDir)

	authGroup := router.Group("/api/auth")
	if cfg.RateLimitAuthEnabled {
		authGroup.Use(authHTTP.RateLimitMiddleware(
			cfg.RateLimitAuthRequestsPerSec, cfg.RateLimitAuthBurst, s.logger,
		))
	}
	authGroup.POST("/register", deps.AuthHandler.RegisterHandler)
	authGroup.POST("/login", deps.AuthHandler.LoginHandler)
	authGroup.POST("/forgot-password", deps.AuthHandler.ForgotPasswordHandler)

	userGroup := router.Group("/api/users")
	userGroup.Use(authHTTP.RequireAdmin(s.logger))
	userGroup.GET("", deps.AccountHandler.ListHandler)
	userGroup.GET("/:id", deps.AccountHandler.GetHandler)
	userGroup.PUT("/:id/approve", deps.AccountHandler.ApproveHandler)
	userGroup.PUT("/:id/status", deps.AccountHandler.SetStatusHandler)

	petGroup := router.Group("/api/pets")
	petGroup.GET("", deps.PetHandler.ListHandler)
	petGroup.GET("/:id", deps.PetHandler.GetHandler)
	petGroup.POST("", deps.PetHandler.CreateHandler)
	petGroup.PUT("/:id", deps.PetHandler.UpdateHandler)
	petGroup.DELETE("/:id", deps.PetHandler.DeleteHandler)
	petGroup.POST("/:id/image", deps.PetHandler.UploadImageHandler)

	blogGroup := router.Group("/api/blogs")
	blogGroup.POST("/create", deps.BlogHandler.CreateHandler)
	blogGroup.GET("/all", deps.BlogHandler.ListHandler)
	blogGroup.GET("/user/:id", deps.BlogHandler.ListByAuthorHandler)
	blogGroup.GET("/image/:id", deps.BlogHandler.GetImageHandler)
	blogGroup.POST("/:id/image", deps.BlogHandler.UploadImageHandler)

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{"database": "ok"}
	status := "ready"
	code := http.StatusOK

	if s.db == nil {
		components["database"] = "error"
		status = "not_ready"
		code = http.StatusServiceUnavailable
	} else if err := s.db.PingContext(c.Request.Context()); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		components["database"] = "error"
		status = "not_ready"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{"status": status, "components": components})
}
