package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/luct-portal/reporting-api/api/swagger"
	"github.com/luct-portal/reporting-api/internal/handler"
	"github.com/luct-portal/reporting-api/internal/middleware"
	"github.com/luct-portal/reporting-api/internal/models"
	"github.com/luct-portal/reporting-api/internal/repository"
	"github.com/luct-portal/reporting-api/internal/service"
	"github.com/luct-portal/reporting-api/pkg/cache"
	"github.com/luct-portal/reporting-api/pkg/config"
	"github.com/luct-portal/reporting-api/pkg/database"
	"github.com/luct-portal/reporting-api/pkg/logger"
	corsmiddleware "github.com/luct-portal/reporting-api/pkg/middleware/cors"
	reqidmiddleware "github.com/luct-portal/reporting-api/pkg/middleware/requestid"
	"github.com/luct-portal/reporting-api/pkg/storage"
)

// @title LUCT Reporting API
// @version 1.0.0
// @description Academic reporting portal API
// @BasePath /api
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Aggregates.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, aggregates will recompute", zap.Error(err))
		} else {
			defer redisClient.Close()
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Aggregates.CacheTTL, logr, cfg.Aggregates.CacheEnabled)

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	classRepo := repository.NewClassRepository(db)
	lectureRepo := repository.NewLectureReportRepository(db)
	studentRepo := repository.NewStudentReportRepository(db)
	principalRepo := repository.NewPrincipalReportRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	monitoringRepo := repository.NewMonitoringRepository(db)

	// Services.
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "luct-reporting-api",
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, validate, logr)
	classSvc := service.NewClassService(classRepo, userRepo, userRepo, validate, logr)
	lectureSvc := service.NewLectureReportService(lectureRepo, validate, logr)
	studentSvc := service.NewStudentReportService(studentRepo, userRepo, courseRepo, validate, logr)
	principalSvc := service.NewPrincipalReportService(principalRepo, validate, logr)
	ratingSvc := service.NewRatingService(ratingRepo, classRepo, validate, logr)
	monitoringSvc := service.NewMonitoringService(monitoringRepo, validate, logr)
	analyticsSvc := service.NewAnalyticsService(lectureRepo, studentRepo, principalRepo,
		ratingRepo, monitoringRepo, userRepo, courseRepo, classRepo, cacheSvc, logr)
	workflowSvc := service.NewWorkflowService(lectureSvc, studentSvc, principalSvc,
		ratingSvc, analyticsSvc, metricsSvc, userRepo, logr)

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Fatal("failed to prepare export storage", zap.Error(err))
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc = service.NewExportService(service.ExportSources{
			Courses:        courseRepo,
			Users:          userRepo,
			Classes:        classRepo,
			LectureReports: lectureRepo,
			StudentReports: studentRepo,
		}, store, signer, service.ExportConfig{
			APIPrefix:  cfg.APIPrefix,
			Workers:    cfg.Exports.WorkerConcurrency,
			MaxRetries: cfg.Exports.WorkerRetries,
		}, logr)
		exportSvc.Start(context.Background())
		defer exportSvc.Stop()
	}

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc, userSvc)
	reportHandler := handler.NewReportHandler(workflowSvc)
	ratingHandler := handler.NewRatingHandler(workflowSvc, ratingSvc)
	monitoringHandler := handler.NewMonitoringHandler(monitoringSvc)
	analyticsHandler := handler.NewAnalyticsHandler(workflowSvc, analyticsSvc, metricsSvc)
	classHandler := handler.NewClassHandler(classSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	userHandler := handler.NewUserHandler(userSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

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

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/register", authHandler.Register)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))
	{
		reports := authed.Group("/reports")
		{
			reports.POST("/lecture", middleware.RequireRoles(models.RoleLecturer), reportHandler.SubmitLectureReport)
			reports.POST("/student", middleware.RequireRoles(models.RoleStudent), reportHandler.SubmitStudentReport)
			reports.POST("/principal", middleware.RequireRoles(models.RolePrincipalLecturer), reportHandler.CreatePrincipalReport)
			reports.POST("/lecture/:id/review", middleware.RequireRoles(models.RolePrincipalLecturer), reportHandler.ReviewLectureReport)
			reports.POST("/lecture/:id/address", middleware.RequireRoles(models.RoleProgramLeader), reportHandler.AddressLectureReport)
			reports.POST("/lecture/:id/feedback", middleware.RequireRoles(models.RolePrincipalLecturer), reportHandler.AttachFeedback)
			reports.POST("/student/:id/respond", middleware.RequireRoles(models.RolePrincipalLecturer), reportHandler.RespondToStudentReport)
			reports.GET("/:family", reportHandler.ListReports)
			reports.GET("/:family/:id", reportHandler.GetReport)
		}

		ratings := authed.Group("/ratings")
		{
			ratings.POST("", middleware.RequireRoles(models.RoleStudent), ratingHandler.Submit)
			ratings.POST("/class", middleware.RequireRoles(models.RoleLecturer), ratingHandler.RateClass)
			ratings.GET("/:scope/:id", ratingHandler.List)
		}

		monitoring := authed.Group("/monitoring")
		{
			monitoring.POST("", middleware.RequireRoles(models.RoleLecturer, models.RolePrincipalLecturer), monitoringHandler.Record)
			monitoring.PUT("/:id", middleware.RequireRoles(models.RoleLecturer, models.RolePrincipalLecturer), monitoringHandler.Update)
			monitoring.GET("/student/:id", monitoringHandler.ByStudent)
			monitoring.GET("/course/:id", monitoringHandler.ByCourse)
		}

		analytics := authed.Group("/analytics")
		{
			analytics.GET("/ratings/:scope/:id", analyticsHandler.AverageRating)
			analytics.GET("/pending", analyticsHandler.PendingCounts)
			analytics.GET("/pending/:family", analyticsHandler.PendingCount)
			analytics.GET("/attendance/:id", analyticsHandler.AttendanceStats)
			analytics.GET("/dashboard", analyticsHandler.Dashboard)
			analytics.GET("/system", analyticsHandler.System)
		}

		authed.POST("/classes", classHandler.Create)
		authed.GET("/classes", classHandler.List)
		authed.GET("/classes/:id", classHandler.Get)
		authed.PUT("/classes/:id/lecturer", classHandler.AssignLecturer)
		authed.GET("/classes/:id/rating", middleware.RequireRoles(models.RoleLecturer), ratingHandler.ClassRating)
		authed.DELETE("/classes/:id", classHandler.Delete)

		authed.POST("/courses", courseHandler.Create)
		authed.GET("/courses", courseHandler.List)
		authed.GET("/courses/:id", courseHandler.Get)

		authed.GET("/users", userHandler.List)
		authed.GET("/users/:id", userHandler.Get)

		if exportSvc != nil {
			exportHandler := handler.NewExportHandler(exportSvc)
			exports := authed.Group("/exports")
			{
				exports.POST("", exportHandler.Enqueue)
				exports.GET("/:id", exportHandler.Status)
				exports.GET("/download/:token", exportHandler.Download)
			}
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
