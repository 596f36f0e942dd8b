package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/swiftbus/booking-backend/internal/config"
	"github.com/swiftbus/booking-backend/internal/database"
	"github.com/swiftbus/booking-backend/internal/handlers"
	"github.com/swiftbus/booking-backend/internal/middleware"
	"github.com/swiftbus/booking-backend/internal/services"
	"github.com/swiftbus/booking-backend/internal/utils"
	"github.com/swiftbus/booking-backend/pkg/jwt"
	"github.com/swiftbus/booking-backend/pkg/validator"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting SwiftBus Booking Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	phoneValidator := validator.NewPhoneValidator()

	// Repositories. The booking repository works on the raw sqlx handle
	// because create and cancel own their transactions.
	userRepository := database.NewUserRepository(db)
	busRepository := database.NewBusRepository(db)
	routeRepository := database.NewRouteRepository(db)
	agentRepository := database.NewAgentRepository(db)
	bookingRepository := database.NewBookingRepository(db.DB, routeRepository, agentRepository, cfg.Booking.NumberAttempts)

	bookingService := services.NewBookingService(
		routeRepository,
		agentRepository,
		bookingRepository,
		cfg.Booking,
		logger,
	)

	logger.Info("Services initialized")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(jwtService, phoneValidator, userRepository, cfg, logger)
	busHandler := handlers.NewBusHandler(busRepository, logger)
	routeHandler := handlers.NewRouteHandler(routeRepository, logger)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	agentHandler := handlers.NewAgentHandler(agentRepository, userRepository, bookingService, cfg, logger)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestID())
	if cfg.Security.EnableRequestLog {
		router.Use(requestLogger(logger))
	}

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Authentication routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)

			authProtected := auth.Group("")
			authProtected.Use(middleware.AuthMiddleware(jwtService))
			{
				authProtected.GET("/me", authHandler.Me)
			}
		}

		// Bus routes: reads are public, fleet management is admin-only
		buses := v1.Group("/buses")
		{
			buses.GET("", busHandler.List)
			buses.GET("/:id", busHandler.Get)

			busAdmin := buses.Group("")
			busAdmin.Use(middleware.AuthMiddleware(jwtService), middleware.RequireRole("admin"))
			{
				busAdmin.POST("", busHandler.Create)
				busAdmin.PATCH("/:id", busHandler.Update)
				busAdmin.DELETE("/:id", busHandler.Delete)
			}
		}

		// Route routes: search and reads are public, scheduling is admin-only
		routes := v1.Group("/routes")
		{
			routes.GET("/search", routeHandler.Search)
			routes.GET("", routeHandler.List)
			routes.GET("/:id", routeHandler.Get)

			routeAdmin := routes.Group("")
			routeAdmin.Use(middleware.AuthMiddleware(jwtService), middleware.RequireRole("admin"))
			{
				routeAdmin.POST("", routeHandler.Create)
				routeAdmin.PATCH("/:id", routeHandler.Update)
				routeAdmin.DELETE("/:id", routeHandler.Delete)
			}
		}

		// Booking routes (all protected)
		bookings := v1.Group("/bookings")
		bookings.Use(middleware.AuthMiddleware(jwtService))
		{
			bookings.POST("", bookingHandler.Create)
			bookings.GET("/my", bookingHandler.My)
			bookings.GET("/:id", bookingHandler.Get)
			bookings.PATCH("/:id/cancel", bookingHandler.Cancel)
		}

		// Agent routes
		agents := v1.Group("/agents")
		agents.Use(middleware.AuthMiddleware(jwtService))
		{
			agents.POST("", agentHandler.CreateProfile)
			agents.GET("/dashboard", middleware.RequireRole("agent", "admin"), agentHandler.Dashboard)

			agentAdmin := agents.Group("")
			agentAdmin.Use(middleware.RequireRole("admin"))
			{
				agentAdmin.GET("", agentHandler.List)
				agentAdmin.PATCH("/:id/approve", agentHandler.Approve)
				agentAdmin.PATCH("/:id/commission", agentHandler.UpdateCommission)
			}
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestID tags every request with an id for log correlation, honouring
// an X-Request-ID supplied by an upstream proxy
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         utils.GetRealIP(c),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if requestID, exists := c.Get("request_id"); exists {
			fields["request_id"] = requestID
		}
		if userCtx, exists := middleware.GetUserContext(c); exists {
			fields["user_id"] = userCtx.UserID
			fields["role"] = userCtx.Role
		}

		entry := logger.WithFields(fields)

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "healthy"
		if err := db.Ping(); err != nil {
			dbStatus = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": dbStatus,
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  dbStatus,
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
