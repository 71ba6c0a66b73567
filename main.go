package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/freshfold/laundry-api/config"
	"github.com/freshfold/laundry-api/controllers"
	"github.com/freshfold/laundry-api/middleware"
	"github.com/freshfold/laundry-api/models"
	"github.com/freshfold/laundry-api/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthMessage = "FreshFold Laundry API is running"

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.Must(zap.NewProduction()).Fatal("failed to load configuration", zap.Error(err))
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		zap.Must(zap.NewProduction()).Fatal("failed to build logger", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	logger.Info("starting laundry API server", zap.String("env", cfg.GoEnv))

	if err := config.ConnectDatabase(cfg); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	db := config.GetDB()
	if err := db.AutoMigrate(&models.User{}, &models.LaundryService{}, &models.LaundryOrder{}); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}
	logger.Info("database migration completed")

	if cfg.SeedCatalog {
		seeded, err := services.NewCatalogService(db, logger).SeedCatalog(context.Background())
		if err != nil {
			logger.Fatal("failed to seed service catalog", zap.Error(err))
		}
		logger.Info("service catalog seeded", zap.Int("services", seeded))
	}

	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service(context.Background(), cfg, logger)
		if err != nil {
			logger.Fatal("failed to initialize S3", zap.Error(err))
		}
		services.InitImageService(s3Service)
	} else {
		logger.Warn("AWS_S3_BUCKET not set, garment photo uploads are disabled")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := newRouter(cfg, logger, middleware.EnsureValidToken(cfg, logger))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server is listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}

// newRouter wires every route. auth guards everything except the health endpoints.
func newRouter(cfg *config.Config, logger *zap.Logger, auth gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(cors.New(corsConfig(cfg)))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)
	}

	protected := v1.Group("")
	protected.Use(auth)
	{
		protected.GET("/services", controllers.ListServices)
		protected.POST("/services", controllers.CreateService)
		protected.GET("/services/:id", controllers.GetService)

		protected.GET("/dashboard", controllers.GetDashboard)

		protected.GET("/orders", controllers.ListOrders)
		protected.POST("/orders", controllers.CreateOrder)
		protected.GET("/orders/:id", controllers.GetOrder)
		protected.PUT("/orders/:id/status", controllers.UpdateOrderStatus)
		protected.POST("/orders/:id/photo", controllers.UploadOrderPhoto)

		protected.POST("/users", controllers.CreateUser)
		protected.GET("/users/me", controllers.GetMyProfile)
		protected.PUT("/users/me", controllers.UpdateMyProfile)
	}

	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	if len(cfg.CORSAllowedOrigins) == 0 || slices.Contains(cfg.CORSAllowedOrigins, "*") {
		corsCfg.AllowAllOrigins = true
		return corsCfg
	}
	corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	return corsCfg
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   healthMessage,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()
	if db == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Database is not configured",
			},
		})
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	tables, err := db.WithContext(c.Request.Context()).Migrator().GetTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
