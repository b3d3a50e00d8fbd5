package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/jmlhub/jml-api/api/swagger"
	"github.com/jmlhub/jml-api/internal/handler"
	"github.com/jmlhub/jml-api/internal/middleware"
	"github.com/jmlhub/jml-api/internal/repository"
	"github.com/jmlhub/jml-api/internal/service"
	"github.com/jmlhub/jml-api/pkg/cache"
	"github.com/jmlhub/jml-api/pkg/config"
	"github.com/jmlhub/jml-api/pkg/database"
	"github.com/jmlhub/jml-api/pkg/logger"
	corsmiddleware "github.com/jmlhub/jml-api/pkg/middleware/cors"
	reqidmiddleware "github.com/jmlhub/jml-api/pkg/middleware/requestid"
)

// @title JML Automation Hub API
// @version 1.0.0
// @description REST API for Joiner/Mover/Leaver employee lifecycle workflows
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var metricsService *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsService = service.NewMetricsService()
	}

	var cacheService *service.CacheService
	if cfg.Dashboard.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close() //nolint:errcheck
		cacheService = service.NewCacheService(cacheRepo, metricsService, cfg.Dashboard.CacheTTL, logr, true)
	} else {
		cacheService = service.NewCacheService(nil, metricsService, cfg.Dashboard.CacheTTL, logr, false)
	}

	validate := service.NewValidator()

	userRepo := repository.NewUserRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	workflowRepo := repository.NewWorkflowRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	auditService := service.NewAuditService(auditRepo, logr)
	dashboardService := service.NewDashboardService(statsRepo, cacheService, cfg.Reports.ExportEnabled, logr)
	userService := service.NewUserService(userRepo, auditService, validate, logr)
	departmentService := service.NewDepartmentService(departmentRepo, auditService, validate, logr)
	employeeService := service.NewEmployeeService(employeeRepo, auditService, dashboardService, validate, logr)
	templateService := service.NewTemplateService(templateRepo, auditService, validate, logr)
	workflowService := service.NewWorkflowService(workflowRepo, templateRepo, employeeRepo, auditService, dashboardService, validate, logr)
	taskService := service.NewTaskService(taskRepo, auditService, dashboardService, validate, logr)
	notificationService := service.NewNotificationService(notificationRepo, validate, logr)
	seedService := service.NewSeedService(userRepo, departmentRepo, employeeRepo, templateRepo, workflowRepo, taskRepo, notificationRepo, auditService, dashboardService, logr)

	userHandler := handler.NewUserHandler(userService)
	departmentHandler := handler.NewDepartmentHandler(departmentService)
	employeeHandler := handler.NewEmployeeHandler(employeeService)
	templateHandler := handler.NewTemplateHandler(templateService)
	workflowHandler := handler.NewWorkflowHandler(workflowService)
	taskHandler := handler.NewTaskHandler(taskService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	auditHandler := handler.NewAuditHandler(auditService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	seedHandler := handler.NewSeedHandler(seedService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Identity(cfg.JWT.Secret))
	if metricsService != nil {
		r.Use(middleware.Metrics(metricsService))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if metricsService != nil {
		r.GET("/metrics", gin.WrapH(metricsService.Handler()))
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/users", userHandler.List)
		api.POST("/users", userHandler.Create)
		api.GET("/users/:id", userHandler.Get)
		api.PATCH("/users/:id", userHandler.Update)
		api.DELETE("/users/:id", userHandler.Delete)

		api.GET("/departments", departmentHandler.List)
		api.POST("/departments", departmentHandler.Create)
		api.GET("/departments/:id", departmentHandler.Get)
		api.PATCH("/departments/:id", departmentHandler.Update)
		api.DELETE("/departments/:id", departmentHandler.Delete)

		api.GET("/employees", employeeHandler.List)
		api.POST("/employees", employeeHandler.Create)
		api.GET("/employees/search", employeeHandler.Search)
		api.GET("/employees/:id", employeeHandler.Get)
		api.PATCH("/employees/:id", employeeHandler.Update)
		api.DELETE("/employees/:id", employeeHandler.Delete)

		api.GET("/templates", templateHandler.List)
		api.POST("/templates", templateHandler.Create)
		api.GET("/templates/:id", templateHandler.Get)
		api.PATCH("/templates/:id", templateHandler.Update)
		api.DELETE("/templates/:id", templateHandler.Delete)
		api.GET("/templates/:id/steps", templateHandler.ListSteps)
		api.POST("/templates/:id/steps", templateHandler.AddStep)

		api.GET("/workflows", workflowHandler.List)
		api.POST("/workflows", workflowHandler.Create)
		api.GET("/workflows/:id", workflowHandler.Get)
		api.PATCH("/workflows/:id", workflowHandler.Update)
		api.DELETE("/workflows/:id", workflowHandler.Delete)
		api.GET("/workflows/:id/steps", workflowHandler.ListSteps)
		api.PATCH("/workflow-steps/:id", workflowHandler.UpdateStep)

		api.GET("/tasks", taskHandler.List)
		api.POST("/tasks", taskHandler.Create)
		api.GET("/tasks/pending", taskHandler.ListPending)
		api.GET("/tasks/:id", taskHandler.Get)
		api.PATCH("/tasks/:id", taskHandler.Update)
		api.DELETE("/tasks/:id", taskHandler.Delete)

		api.GET("/notifications", notificationHandler.List)
		api.POST("/notifications", notificationHandler.Create)
		api.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
		api.POST("/notifications/mark-all-read", notificationHandler.MarkAllRead)

		api.GET("/audit-logs", auditHandler.List)

		api.GET("/dashboard/stats", dashboardHandler.Stats)
		api.GET("/reports/workflows", dashboardHandler.WorkflowReport)
		api.GET("/reports/workflows/export", dashboardHandler.ExportWorkflowReport)

		if cfg.Seed.Enabled {
			api.POST("/seed", seedHandler.Run)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
