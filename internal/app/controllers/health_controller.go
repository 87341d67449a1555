package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/felipefantin/check-list-EPI/internal/error/response"
)

// HealthCheckController answers liveness probes
type HealthCheckController struct{}

// NewHealthCheckController creates a health check controller
func NewHealthCheckController() *HealthCheckController {
	return &HealthCheckController{}
}

// Ping is the health check endpoint
func (h *HealthCheckController) Ping(c *gin.Context) {
	response.Success(c, gin.H{
		"status":  "healthy",
		"message": "pong",
	})
}
