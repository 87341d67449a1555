package middleware

import (
	"net/http"
	"strings"

	"github.com/felipefantin/check-list-EPI/internal/domain/access"
	"github.com/felipefantin/check-list-EPI/internal/domain/models"
	"github.com/felipefantin/check-list-EPI/internal/domain/services"
	"github.com/felipefantin/check-list-EPI/internal/error/code"
	"github.com/felipefantin/check-list-EPI/internal/error/response"
	"github.com/felipefantin/check-list-EPI/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const currentUserKey = "currentUser"

var (
	jwtService   services.InterfaceJWTService
	redisService services.InterfaceRedisService
	authDB       *gorm.DB
)

// InitAuthMiddleware initializes the authentication middleware
func InitAuthMiddleware(cfg *config.Config, db *gorm.DB, redis services.InterfaceRedisService) {
	jwtService = services.NewJWTService(cfg, db)
	redisService = redis
	authDB = db
}

// extractToken strips the Bearer prefix from the Authorization header
func extractToken(authHeader string) string {
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// CurrentUser returns the authenticated user stored by Authentication
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// CurrentToken returns the raw JWT stored by Authentication
func CurrentToken(c *gin.Context) string {
	return c.GetString("token")
}

// Authentication validates the JWT, rejects revoked tokens and deactivated
// accounts, and loads the full user record into the context
func Authentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    code.ErrTokenInvalid,
				"message": "Authorization header is required",
				"data":    nil,
			})
			c.Abort()
			return
		}

		tokenString := extractToken(authHeader)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    code.ErrTokenInvalid,
				"message": "Authorization header format must be Bearer {token}",
				"data":    nil,
			})
			c.Abort()
			return
		}

		if redisService != nil {
			if revoked, err := redisService.IsTokenBlacklisted(tokenString); err == nil && revoked {
				c.JSON(http.StatusUnauthorized, gin.H{
					"code":    code.ErrTokenInvalid,
					"message": "Token has been revoked",
					"data":    nil,
				})
				c.Abort()
				return
			}
		}

		claims, err := jwtService.ExtractClaims(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    code.ErrTokenInvalid,
				"message": "Invalid or expired token",
				"data":    nil,
			})
			c.Abort()
			return
		}

		var user models.User
		if err := authDB.First(&user, claims.UserID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    code.ErrTokenInvalid,
				"message": "Invalid or expired token",
				"data":    nil,
			})
			c.Abort()
			return
		}

		if !user.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    code.ErrUserInactive,
				"message": code.GetMessage(code.ErrUserInactive),
				"data":    nil,
			})
			c.Abort()
			return
		}

		c.Set(currentUserKey, &user)
		c.Set("userID", user.ID)
		c.Set("role", user.Role)
		c.Set("token", tokenString)
		c.Next()
	}
}

// requireRoles aborts unless the authenticated user holds one of the roles
func requireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		response.Forbidden(c)
		c.Abort()
	}
}

// RequireAdmin allows only administrators
func RequireAdmin() gin.HandlerFunc {
	return requireRoles(models.RoleAdmin)
}

// RequireSafetyTechnician allows safety technicians and administrators
func RequireSafetyTechnician() gin.HandlerFunc {
	return requireRoles(models.RoleSafetyTechnician, models.RoleAdmin)
}

// RequireSupervisor allows supervisors, safety technicians and administrators
func RequireSupervisor() gin.HandlerFunc {
	return requireRoles(models.RoleSupervisor, models.RoleSafetyTechnician, models.RoleAdmin)
}

// RequirePermission allows only roles granted the given capability
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		if !access.HasPermission(user.Role, permission) {
			response.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
