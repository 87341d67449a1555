package controllers

import (
	"net/http"
	"time"

	"github.com/felipefantin/check-list-EPI/internal/app/middleware"
	"github.com/felipefantin/check-list-EPI/internal/domain/services"
	"github.com/felipefantin/check-list-EPI/internal/domain/services/container"
	"github.com/felipefantin/check-list-EPI/internal/error/code"
	"github.com/felipefantin/check-list-EPI/internal/error/response"
	"github.com/felipefantin/check-list-EPI/pkg/logger"
	"github.com/felipefantin/check-list-EPI/utils"

	"errors"

	"github.com/gin-gonic/gin"
)

// InterfaceAuthController defines the authentication controller interface
type InterfaceAuthController interface {
	Login()
	LoginEmployee()
	RefreshToken()
	Logout()
	Me()
	ChangePassword()
	ForgotPassword()
	ResetPassword()
}

// AuthController handles authentication requests
type AuthController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAuthController creates a new authentication controller
func NewAuthController(ctx *gin.Context, container *container.ServiceContainer) *AuthController {
	return &AuthController{
		Ctx:       ctx,
		Container: container,
	}
}

// LoginRequest is the credential payload for email login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"tecnico@empresa.com"`
	Password string `json:"password" binding:"required" example:"Secret@123"`
}

// EmployeeLoginRequest is the credential payload for employee-ID login
type EmployeeLoginRequest struct {
	EmployeeID string `json:"employee_id" binding:"required" example:"EMP-0042"`
	Password   string `json:"password" binding:"required" example:"Secret@123"`
}

// ChangePasswordRequest carries the current and new password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// ForgotPasswordRequest carries the account email
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest carries a reset token and the new password
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

func (c *AuthController) login(identifier, password string) {
	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)

	result, err := jwtService.Login(identifier, password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			response.Fail(c.Ctx, code.ErrUserPasswordIncorrect, nil)
		case errors.Is(err, services.ErrAccountInactive):
			response.Fail(c.Ctx, code.ErrUserInactive, nil)
		default:
			logger.Error("login failed: %v", err)
			response.ServerError(c.Ctx)
		}
		return
	}

	response.Success(c.Ctx, gin.H{
		"token": result.Token,
		"user":  result.User,
	})
}

// Login authenticates a user by email
// @Summary      Login with email
// @Description  Authenticates with email and password and returns a JWT
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/login [post]
func (c *AuthController) Login() {
	var req LoginRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}
	c.login(req.Email, req.Password)
}

// LoginEmployee authenticates a user by employee ID
// @Summary      Login with employee ID
// @Description  Authenticates with employee ID and password and returns a JWT
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body EmployeeLoginRequest true "Credentials"
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/login-employee [post]
func (c *AuthController) LoginEmployee() {
	var req EmployeeLoginRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}
	c.login(req.EmployeeID, req.Password)
}

// RefreshToken issues a fresh token for the authenticated user
// @Summary      Refresh token
// @Description  Issues a new JWT for the current session
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/refresh [post]
// @Security     BearerAuth
func (c *AuthController) RefreshToken() {
	user := middleware.CurrentUser(c.Ctx)
	if user == nil {
		response.Unauthorized(c.Ctx)
		return
	}

	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)
	token, err := jwtService.GenerateToken(user.ID, user.Role)
	if err != nil {
		logger.Error("token refresh failed for user %d: %v", user.ID, err)
		response.ServerError(c.Ctx)
		return
	}

	response.Success(c.Ctx, gin.H{"token": token})
}

// Logout invalidates the current token
// @Summary      Logout
// @Description  Blacklists the current token until it expires
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/logout [post]
// @Security     BearerAuth
func (c *AuthController) Logout() {
	token := middleware.CurrentToken(c.Ctx)
	if token == "" {
		response.Unauthorized(c.Ctx)
		return
	}

	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)
	redisService := c.Container.GetService("redis").(services.InterfaceRedisService)

	ttl := time.Duration(0)
	if claims, err := jwtService.ExtractClaims(token); err == nil && claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}

	if err := redisService.BlacklistToken(token, ttl); err != nil {
		logger.Error("token blacklist failed: %v", err)
		response.ServerError(c.Ctx)
		return
	}

	response.Success(c.Ctx, nil)
}

// Me returns the authenticated user's profile
// @Summary      Current user
// @Description  Returns the profile of the authenticated user
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (c *AuthController) Me() {
	user := middleware.CurrentUser(c.Ctx)
	if user == nil {
		response.Unauthorized(c.Ctx)
		return
	}
	response.Success(c.Ctx, user)
}

// ChangePassword updates the authenticated user's password
// @Summary      Change password
// @Description  Verifies the current password and sets a new one
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body ChangePasswordRequest true "Password change"
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/change-password [put]
// @Security     BearerAuth
func (c *AuthController) ChangePassword() {
	user := middleware.CurrentUser(c.Ctx)
	if user == nil {
		response.Unauthorized(c.Ctx)
		return
	}

	var req ChangePasswordRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	if err := userService.ChangePassword(user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			response.Fail(c.Ctx, code.ErrUserPasswordIncorrect, nil)
			return
		}
		if errors.Is(err, services.ErrValidationFailed) {
			response.ParamError(c.Ctx, err.Error())
			return
		}
		logger.Error("password change failed for user %d: %v", user.ID, err)
		response.ServerError(c.Ctx)
		return
	}

	response.Success(c.Ctx, nil)
}

// ForgotPassword issues a password reset token. The response is identical
// whether or not the email exists.
// @Summary      Forgot password
// @Description  Issues a password reset token for the given email
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body ForgotPasswordRequest true "Account email"
// @Success      200  {object}  response.Response
// @Router       /auth/forgot-password [post]
func (c *AuthController) ForgotPassword() {
	var req ForgotPasswordRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	redisService := c.Container.GetService("redis").(services.InterfaceRedisService)

	if user, err := userService.GetUserByEmail(req.Email); err == nil && user.IsActive {
		token := utils.RandomHex(32)
		if err := redisService.StoreResetToken(token, user.ID, time.Hour); err != nil {
			logger.Error("reset token store failed for user %d: %v", user.ID, err)
			response.ServerError(c.Ctx)
			return
		}
		// Token delivery happens out of band. Logged for operators until a
		// mail integration lands.
		logger.Info("password reset token issued for user %d", user.ID)
	}

	response.Success(c.Ctx, gin.H{
		"message": "if the email exists, reset instructions have been sent",
	})
}

// ResetPassword consumes a reset token and sets a new password
// @Summary      Reset password
// @Description  Sets a new password using a previously issued reset token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body ResetPasswordRequest true "Reset payload"
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/reset-password [post]
func (c *AuthController) ResetPassword() {
	var req ResetPasswordRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	redisService := c.Container.GetService("redis").(services.InterfaceRedisService)
	userID, err := redisService.ConsumeResetToken(req.Token)
	if err != nil {
		if errors.Is(err, services.ErrResetTokenInvalid) {
			response.Fail(c.Ctx, code.ErrTokenInvalid, nil)
			return
		}
		logger.Error("reset token lookup failed: %v", err)
		response.ServerError(c.Ctx)
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	if err := userService.SetPassword(userID, req.NewPassword); err != nil {
		logger.Error("password reset failed for user %d: %v", userID, err)
		response.ServerError(c.Ctx)
		return
	}

	response.Success(c.Ctx, nil)
}

// HandleAuthFunc returns a gin handler dispatching to the auth controller
func HandleAuthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAuthController(ctx, container)

		switch method {
		case "login":
			controller.Login()
		case "loginEmployee":
			controller.LoginEmployee()
		case "refreshToken":
			controller.RefreshToken()
		case "logout":
			controller.Logout()
		case "me":
			controller.Me()
		case "changePassword":
			controller.ChangePassword()
		case "forgotPassword":
			controller.ForgotPassword()
		case "resetPassword":
			controller.ResetPassword()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    code.ErrBind,
				"message": "invalid method",
				"data":    nil,
			})
		}
	}
}
