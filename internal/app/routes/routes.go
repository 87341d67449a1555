package routes

import (
	"time"

	_ "github.com/felipefantin/check-list-EPI/docs"
	"github.com/felipefantin/check-list-EPI/internal/app/controllers"
	"github.com/felipefantin/check-list-EPI/internal/app/middleware"
	"github.com/felipefantin/check-list-EPI/internal/domain/access"
	"github.com/felipefantin/check-list-EPI/internal/domain/services"
	"github.com/felipefantin/check-list-EPI/internal/domain/services/container"
	"github.com/felipefantin/check-list-EPI/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRouter initializes and returns the configured router
func SetupRouter(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *gin.Engine {
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	serviceContainer := container.NewServiceContainer(db, cfg, redisClient)
	middleware.InitAuthMiddleware(cfg, db, serviceContainer.GetService("redis").(services.InterfaceRedisService))

	// Swagger documentation route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	registerRoutes(r, serviceContainer)
	return r
}

// registerRoutes configures all API routes
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	api := r.Group("/api")
	registerPublicRoutes(api, container)
	registerAuthenticatedRoutes(api, container)
}

// registerPublicRoutes registers the routes that need no token
func registerPublicRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 10 requests per second per IP, bursts of 20
	api.Use(middleware.IPRateLimiter(10, 20))

	// Health check routes
	api.GET("/ping", func(c *gin.Context) { controllers.NewHealthCheckController().Ping(c) })
	api.GET("/health", func(c *gin.Context) { controllers.NewHealthCheckController().Ping(c) })

	// Authentication routes. Login gets a tighter limit against brute force.
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.PathRateLimiter(5, 10))
	authGroup.POST("/login", controllers.HandleAuthFunc(container, "login"))
	authGroup.POST("/login-employee", controllers.HandleAuthFunc(container, "loginEmployee"))
	authGroup.POST("/forgot-password", controllers.HandleAuthFunc(container, "forgotPassword"))
	authGroup.POST("/reset-password", controllers.HandleAuthFunc(container, "resetPassword"))
}

// registerAuthenticatedRoutes registers the routes behind the JWT middleware
func registerAuthenticatedRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	auth := api.Group("/")
	auth.Use(middleware.Authentication())

	// 30 requests per second per IP, bursts of 50
	auth.Use(middleware.IPRateLimiter(30, 50))

	// Session routes
	auth.POST("/auth/refresh", controllers.HandleAuthFunc(container, "refreshToken"))
	auth.POST("/auth/logout", controllers.HandleAuthFunc(container, "logout"))
	auth.GET("/auth/me", controllers.HandleAuthFunc(container, "me"))
	auth.PUT("/auth/change-password", controllers.HandleAuthFunc(container, "changePassword"))

	// User routes
	userGroup := auth.Group("/users")
	userGroup.GET("", controllers.HandleUserFunc(container, "getUsers"))
	userGroup.GET("/departments", controllers.HandleUserFunc(container, "getDepartments"))
	userGroup.GET("/supervisors", controllers.HandleUserFunc(container, "getSupervisors"))
	userGroup.GET("/team/:id", controllers.HandleUserFunc(container, "getTeam"))
	userGroup.GET("/:id", controllers.HandleUserFunc(container, "getUser"))
	userGroup.POST("", middleware.RequireSafetyTechnician(), controllers.HandleUserFunc(container, "createUser"))
	userGroup.PUT("/:id", middleware.RequireSafetyTechnician(), controllers.HandleUserFunc(container, "updateUser"))
	userGroup.DELETE("/:id", middleware.RequireSafetyTechnician(), controllers.HandleUserFunc(container, "deactivateUser"))

	// EPI type routes
	epiGroup := auth.Group("/epi-types")
	epiGroup.GET("", controllers.HandleEpiTypeFunc(container, "getEpiTypes"))
	epiGroup.GET("/categories", middleware.Cache(middleware.CacheConfig{Expiration: 5 * time.Minute}), controllers.HandleEpiTypeFunc(container, "getCategories"))
	epiGroup.GET("/expiring-soon", controllers.HandleEpiTypeFunc(container, "getExpiringSoon"))
	epiGroup.GET("/expired", controllers.HandleEpiTypeFunc(container, "getExpired"))
	epiGroup.GET("/:id", controllers.HandleEpiTypeFunc(container, "getEpiType"))
	epiGroup.POST("", middleware.RequirePermission(access.PermManageEpiTypes), controllers.HandleEpiTypeFunc(container, "createEpiType"))
	epiGroup.PUT("/:id", middleware.RequirePermission(access.PermManageEpiTypes), controllers.HandleEpiTypeFunc(container, "updateEpiType"))
	epiGroup.DELETE("/:id", middleware.RequirePermission(access.PermManageEpiTypes), controllers.HandleEpiTypeFunc(container, "deactivateEpiType"))

	// Checklist routes
	checklistGroup := auth.Group("/checklists")
	checklistGroup.GET("", controllers.HandleChecklistFunc(container, "getChecklists"))
	checklistGroup.GET("/available", controllers.HandleChecklistFunc(container, "getAvailable"))
	checklistGroup.GET("/types", middleware.Cache(middleware.CacheConfig{Expiration: 5 * time.Minute}), controllers.HandleChecklistFunc(container, "getTypes"))
	checklistGroup.GET("/:id", controllers.HandleChecklistFunc(container, "getChecklist"))
	checklistGroup.POST("", middleware.RequirePermission(access.PermManageChecklists), controllers.HandleChecklistFunc(container, "createChecklist"))
	checklistGroup.PUT("/:id", middleware.RequirePermission(access.PermManageChecklists), controllers.HandleChecklistFunc(container, "updateChecklist"))
	checklistGroup.DELETE("/:id", middleware.RequirePermission(access.PermManageChecklists), controllers.HandleChecklistFunc(container, "deactivateChecklist"))
	checklistGroup.POST("/:id/approve", middleware.RequireSafetyTechnician(), controllers.HandleChecklistFunc(container, "approveChecklist"))

	// Execution routes
	executionGroup := auth.Group("/executions")
	executionGroup.GET("", controllers.HandleExecutionFunc(container, "getExecutions"))
	executionGroup.GET("/:id", controllers.HandleExecutionFunc(container, "getExecution"))
	executionGroup.POST("", middleware.RequirePermission(access.PermCreateChecklistExecution), controllers.HandleExecutionFunc(container, "createExecution"))
	executionGroup.PUT("/:id", controllers.HandleExecutionFunc(container, "updateExecution"))
	executionGroup.POST("/:id/complete", controllers.HandleExecutionFunc(container, "completeExecution"))
	executionGroup.POST("/:id/approve", middleware.RequirePermission(access.PermApproveChecklists), controllers.HandleExecutionFunc(container, "approveExecution"))
	executionGroup.POST("/:id/reject", middleware.RequirePermission(access.PermApproveChecklists), controllers.HandleExecutionFunc(container, "rejectExecution"))
	executionGroup.POST("/:id/cancel", controllers.HandleExecutionFunc(container, "cancelExecution"))

	// Anomaly routes
	anomalyGroup := auth.Group("/anomalies")
	anomalyGroup.GET("", controllers.HandleAnomalyFunc(container, "getAnomalies"))
	anomalyGroup.GET("/:id", controllers.HandleAnomalyFunc(container, "getAnomaly"))
	anomalyGroup.POST("", controllers.HandleAnomalyFunc(container, "createAnomaly"))
	anomalyGroup.PUT("/:id", controllers.HandleAnomalyFunc(container, "updateAnomaly"))
	anomalyGroup.POST("/:id/actions", controllers.HandleAnomalyFunc(container, "addAction"))
	anomalyGroup.POST("/:id/resolve", controllers.HandleAnomalyFunc(container, "resolveAnomaly"))
	anomalyGroup.POST("/:id/close", middleware.RequireSafetyTechnician(), controllers.HandleAnomalyFunc(container, "closeAnomaly"))

	// Report routes, cached briefly since they aggregate over whole tables.
	// The dashboard is open to every authenticated user; the detailed reports
	// need the supervisor tier.
	reportGroup := auth.Group("/reports")
	reportGroup.GET("/dashboard", middleware.Cache(middleware.CacheConfig{Expiration: 30 * time.Second}), controllers.HandleReportFunc(container, "getDashboard"))
	reportGroup.GET("/compliance", middleware.RequireSupervisor(), middleware.Cache(middleware.CacheConfig{Expiration: 1 * time.Minute}), controllers.HandleReportFunc(container, "getComplianceReport"))
	reportGroup.GET("/anomalies", middleware.RequireSupervisor(), middleware.Cache(middleware.CacheConfig{Expiration: 1 * time.Minute}), controllers.HandleReportFunc(container, "getAnomalyReport"))
	reportGroup.GET("/executions", middleware.RequireSupervisor(), middleware.Cache(middleware.CacheConfig{Expiration: 1 * time.Minute}), controllers.HandleReportFunc(container, "getExecutionReport"))
	reportGroup.GET("/epi-status", middleware.RequireSupervisor(), middleware.Cache(middleware.CacheConfig{Expiration: 1 * time.Minute}), controllers.HandleReportFunc(container, "getEpiStatusReport"))
}
