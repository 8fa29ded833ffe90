package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/longlong7211/intern-manager-sub000/api/swagger"
	"github.com/longlong7211/intern-manager-sub000/internal/handler"
	"github.com/longlong7211/intern-manager-sub000/internal/middleware"
	"github.com/longlong7211/intern-manager-sub000/internal/models"
	"github.com/longlong7211/intern-manager-sub000/internal/repository"
	"github.com/longlong7211/intern-manager-sub000/internal/service"
	"github.com/longlong7211/intern-manager-sub000/pkg/cache"
	"github.com/longlong7211/intern-manager-sub000/pkg/config"
	"github.com/longlong7211/intern-manager-sub000/pkg/database"
	"github.com/longlong7211/intern-manager-sub000/pkg/logger"
	corsmiddleware "github.com/longlong7211/intern-manager-sub000/pkg/middleware/cors"
	reqidmiddleware "github.com/longlong7211/intern-manager-sub000/pkg/middleware/requestid"
)

// @title Internship Approval Workflow API
// @version 1.0.0
// @description Multi-stage internship application approval, hour ledger, and termination workflow
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	internshipRepo := repository.NewInternshipRepository(db)
	hourRepo := repository.NewHourEntryRepository(db)
	terminationRepo := repository.NewTerminationRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	// Services.
	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, cfg.JWT, logr)
	notificationSvc := service.NewNotificationService(notificationRepo, userRepo, cacheRepo, cfg.Workflow.UnreadCacheTTL, logr)
	applicationSvc := service.NewApplicationService(appRepo, internshipRepo, userRepo, notificationSvc, cacheRepo, metricsSvc, cfg.Workflow, logr)
	hourSvc := service.NewHourService(hourRepo, internshipRepo, appRepo, userRepo, userRepo, notificationSvc, metricsSvc, cfg.Workflow, logr)
	terminationSvc := service.NewTerminationService(terminationRepo, internshipRepo, userRepo, notificationSvc, metricsSvc, logr)

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	applicationHandler := handler.NewApplicationHandler(applicationSvc)
	internshipHandler := handler.NewInternshipHandler(hourSvc)
	terminationHandler := handler.NewTerminationHandler(terminationSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
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

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.POST("/change-password", middleware.JWT(authSvc), authHandler.ChangePassword)
	}

	applications := api.Group("/applications", middleware.JWT(authSvc))
	{
		applications.POST("", middleware.RequireRoles(models.RoleStudent), applicationHandler.Register)
		applications.POST("/on-behalf",
			middleware.RequireRoles(models.RoleL1Reviewer, models.RoleAdmin),
			applicationHandler.RegisterForStudent)
		applications.GET("/pending",
			middleware.RequireRoles(models.RoleL1Reviewer, models.RoleL2Reviewer, models.RoleSupervisor, models.RoleAdmin),
			applicationHandler.ListPending)
		applications.GET("/:id", applicationHandler.Get)
		applications.POST("/:id/submit", middleware.RequireRoles(models.RoleStudent), applicationHandler.Submit)
		applications.POST("/:id/review/l1",
			middleware.RequireRoles(models.RoleL1Reviewer, models.RoleAdmin),
			applicationHandler.ReviewL1)
		applications.POST("/:id/review/l2",
			middleware.RequireRoles(models.RoleL2Reviewer, models.RoleAdmin),
			applicationHandler.ReviewL2)
		applications.POST("/:id/approve",
			middleware.RequireRoles(models.RoleSupervisor, models.RoleAdmin),
			applicationHandler.FinalApprove)
		applications.POST("/:id/start",
			middleware.RequireRoles(models.RoleL2Reviewer, models.RoleSupervisor, models.RoleAdmin),
			applicationHandler.StartInternship)
	}

	internships := api.Group("/internships", middleware.JWT(authSvc))
	{
		internships.POST("/:id/hours",
			middleware.RequireRoles(models.RoleL1Reviewer, models.RoleL2Reviewer, models.RoleAdmin),
			internshipHandler.AddHours)
		internships.GET("/:id/hours", internshipHandler.GetHours)
		internships.GET("/:id/hours/statement",
			middleware.Audit(userRepo, models.AuditActionStatementExport, "internship"),
			internshipHandler.ExportStatement)
		internships.POST("/:id/termination",
			middleware.RequireRoles(models.RoleStudent),
			terminationHandler.Request)
	}

	terminations := api.Group("/terminations", middleware.JWT(authSvc))
	{
		terminations.GET("/pending",
			middleware.RequireRoles(models.RoleL2Reviewer, models.RoleSupervisor, models.RoleAdmin),
			terminationHandler.ListPending)
		terminations.POST("/:id/process",
			middleware.RequireRoles(models.RoleL2Reviewer, models.RoleAdmin),
			terminationHandler.Process)
	}

	notifications := api.Group("/notifications", middleware.JWT(authSvc))
	{
		notifications.GET("", notificationHandler.List)
		notifications.GET("/unread-count", notificationHandler.UnreadCount)
		notifications.POST("/:id/read", notificationHandler.MarkRead)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
