package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/mfirdaus-dev/petrostaff-api/api/swagger"
	"github.com/mfirdaus-dev/petrostaff-api/internal/handler"
	"github.com/mfirdaus-dev/petrostaff-api/internal/middleware"
	"github.com/mfirdaus-dev/petrostaff-api/internal/models"
	"github.com/mfirdaus-dev/petrostaff-api/internal/repository"
	"github.com/mfirdaus-dev/petrostaff-api/internal/service"
	"github.com/mfirdaus-dev/petrostaff-api/pkg/cache"
	"github.com/mfirdaus-dev/petrostaff-api/pkg/config"
	"github.com/mfirdaus-dev/petrostaff-api/pkg/database"
	"github.com/mfirdaus-dev/petrostaff-api/pkg/logger"
	corsmiddleware "github.com/mfirdaus-dev/petrostaff-api/pkg/middleware/cors"
	reqidmiddleware "github.com/mfirdaus-dev/petrostaff-api/pkg/middleware/requestid"
)

// @title PetroStaff API
// @version 1.0.0
// @description Staff scheduling service for fuel station operations
// @BasePath /api/v1
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, schedule caching disabled", zap.Error(err))
		redisClient = nil
	}

	metricsSvc := service.NewMetricsService()

	employeeRepo := repository.NewEmployeeRepository(db)
	leaveRepo := repository.NewLeaveRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Schedule.CacheTTL, logr, cfg.Schedule.CacheEnabled && redisClient != nil)

	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	employeeSvc := service.NewEmployeeService(employeeRepo, nil, logr)
	scheduleSvc := service.NewScheduleService(
		employeeRepo, leaveRepo, scheduleRepo,
		cacheSvc, metricsSvc,
		service.CatalogFromConfig(cfg.Shifts),
		cfg.Schedule.MaxRangeDays,
		nil, logr,
	)
	leaveSvc := service.NewLeaveService(leaveRepo, employeeRepo, scheduleSvc, nil, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	employeeHandler := handler.NewEmployeeHandler(employeeSvc)
	leaveHandler := handler.NewLeaveHandler(leaveSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
			auth.PUT("/password", middleware.JWT(authSvc), authHandler.ChangePassword)
		}

		employees := api.Group("/employees", middleware.JWT(authSvc))
		{
			employees.GET("", employeeHandler.List)
			employees.GET("/:id", employeeHandler.Get)
			employees.POST("", middleware.RequireRoles(models.RoleAdmin), employeeHandler.Create)
			employees.PUT("/:id", middleware.RequireRoles(models.RoleAdmin), employeeHandler.Update)
			employees.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), employeeHandler.Delete)
		}

		leaves := api.Group("/leave-requests", middleware.JWT(authSvc))
		{
			leaves.GET("", leaveHandler.List)
			leaves.GET("/:id", leaveHandler.Get)
			leaves.POST("", leaveHandler.Submit)
			leaves.POST("/:id/approve", middleware.RequireRoles(models.RoleAdmin), leaveHandler.Approve)
			leaves.POST("/:id/reject", middleware.RequireRoles(models.RoleAdmin), leaveHandler.Reject)
		}

		schedule := api.Group("/schedule", middleware.JWT(authSvc))
		{
			schedule.GET("", scheduleHandler.Current)
			schedule.POST("/build", middleware.RequireRoles(models.RoleAdmin), scheduleHandler.Build)
			schedule.GET("/shortages", scheduleHandler.Shortages)
			schedule.GET("/shortages/export/csv", scheduleHandler.ExportShortageCSV)
			schedule.GET("/shortages/export/pdf", scheduleHandler.ExportShortagePDF)
			schedule.GET("/export/csv", scheduleHandler.ExportCSV)
			schedule.GET("/export/pdf", scheduleHandler.ExportPDF)
		}

		api.GET("/metrics/summary", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin), metricsHandler.Snapshot)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
