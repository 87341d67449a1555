package container

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/felipefantin/check-list-EPI/internal/domain/services"
	"github.com/felipefantin/check-list-EPI/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// ServiceContainer wires all services for dependency injection
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config
	redis  *redis.Client

	// Base services
	jwtService   services.InterfaceJWTService
	redisService services.InterfaceRedisService

	// Domain services
	userService      services.InterfaceUserService
	epiTypeService   services.InterfaceEpiTypeService
	checklistService services.InterfaceChecklistService
	executionService services.InterfaceExecutionService
	anomalyService   services.InterfaceAnomalyService
	reportService    services.InterfaceReportService

	mu sync.RWMutex
}

// NewServiceContainer creates a new service container
func NewServiceContainer(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *ServiceContainer {
	if db == nil {
		panic("database connection is nil")
	}
	if cfg == nil {
		panic("config is nil")
	}

	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Redis connection test failed: %v, token revocation will be unavailable", err)
		}
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
		redis:  redisClient,
	}
	container.initializeServices()
	return container
}

// initializeServices initializes all services
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.jwtService = services.NewJWTService(c.config, c.db)
	c.redisService = services.NewRedisService(c.config)

	c.userService = services.NewUserService(c.db, c.config)
	c.epiTypeService = services.NewEpiTypeService(c.db, c.config)
	c.checklistService = services.NewChecklistService(c.db, c.config)
	c.executionService = services.NewExecutionService(c.db, c.config)
	c.anomalyService = services.NewAnomalyService(c.db, c.config)
	c.reportService = services.NewReportService(c.db, c.config)
}

// GetService returns a service by name
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "redis":
		return c.redisService
	case "user":
		return c.userService
	case "epi_type":
		return c.epiTypeService
	case "checklist":
		return c.checklistService
	case "execution":
		return c.executionService
	case "anomaly":
		return c.anomalyService
	case "report":
		return c.reportService
	default:
		return nil
	}
}

// GetDB returns the database connection
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}
