package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/felipefantin/check-list-EPI/internal/app/middleware"
	"github.com/felipefantin/check-list-EPI/internal/domain/access"
	"github.com/felipefantin/check-list-EPI/internal/domain/models"
	"github.com/felipefantin/check-list-EPI/internal/domain/services"
	"github.com/felipefantin/check-list-EPI/internal/domain/services/container"
	"github.com/felipefantin/check-list-EPI/internal/error/code"
	"github.com/felipefantin/check-list-EPI/internal/error/response"
	"github.com/felipefantin/check-list-EPI/pkg/logger"

	"github.com/gin-gonic/gin"
)

// InterfaceUserController defines the user controller interface
type InterfaceUserController interface {
	GetUsers()
	GetUser()
	CreateUser()
	UpdateUser()
	DeactivateUser()
	GetDepartments()
	GetSupervisors()
	GetTeam()
}

// UserController handles user management requests
type UserController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewUserController creates a new user controller
func NewUserController(ctx *gin.Context, container *container.ServiceContainer) *UserController {
	return &UserController{
		Ctx:       ctx,
		Container: container,
	}
}

func (c *UserController) userService() services.InterfaceUserService {
	return c.Container.GetService("user").(services.InterfaceUserService)
}

func pathID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		response.ParamError(ctx, "invalid id parameter")
		return 0, false
	}
	return uint(id), true
}

// GetUsers lists users
// @Summary      List users
// @Description  Lists users with pagination and filters. Non-admins only see their own department.
// @Tags         Users
// @Produce      json
// @Param        page query int false "Page number, defaults to 1"
// @Param        limit query int false "Page size, defaults to 10"
// @Param        role query string false "Filter by role"
// @Param        department query string false "Filter by department"
// @Param        is_active query bool false "Filter by active state"
// @Param        search query string false "Search by name, email or employee ID"
// @Success      200  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /users [get]
// @Security     BearerAuth
func (c *UserController) GetUsers() {
	actor := middleware.CurrentUser(c.Ctx)

	var query services.UserListQuery
	if err := c.Ctx.ShouldBindQuery(&query); err != nil {
		response.ParamError(c.Ctx, "invalid query parameters: "+err.Error())
		return
	}

	users, pagination, err := c.userService().ListUsers(actor, query)
	if err != nil {
		logger.Error("user list failed: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"users":      users,
		"pagination": pagination,
	})
}

// GetUser returns a single user
// @Summary      Get user
// @Description  Returns a user by ID. Supervisors may access their team, employees only themselves.
// @Tags         Users
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /users/{id} [get]
// @Security     BearerAuth
func (c *UserController) GetUser() {
	actor := middleware.CurrentUser(c.Ctx)
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}

	user, err := c.userService().GetUserByID(id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			response.Fail(c.Ctx, code.ErrUserNotFound, nil)
			return
		}
		logger.Error("user lookup failed: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	supervisedIDs, err := c.userService().GetSupervisedIDs(actor.ID)
	if err != nil {
		logger.Error("supervised lookup failed: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}
	if !access.CanAccessUserData(actor, id, supervisedIDs) {
		response.Forbidden(c.Ctx)
		return
	}

	response.Success(c.Ctx, user)
}

// CreateUser creates a new user
// @Summary      Create user
// @Description  Creates a user. Restricted to safety technicians and admins; only admins may create admin accounts.
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        request body services.CreateUserRequest true "User payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /users [post]
// @Security     BearerAuth
func (c *UserController) CreateUser() {
	actor := middleware.CurrentUser(c.Ctx)

	var req services.CreateUserRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	user, err := c.userService().CreateUser(actor, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserAlreadyExists):
			response.Fail(c.Ctx, code.ErrUserAlreadyExist, nil)
		case errors.Is(err, services.ErrAccessDenied):
			response.Forbidden(c.Ctx)
		case errors.Is(err, services.ErrValidationFailed):
			response.Fail(c.Ctx, code.ErrValidation, nil)
		default:
			logger.Error("user creation failed: %v", err)
			response.Fail(c.Ctx, code.ErrDatabase, nil)
		}
		return
	}

	response.Success(c.Ctx, user)
}

// UpdateUser updates an existing user
// @Summary      Update user
// @Description  Updates a user. Role changes to or from admin require an admin actor.
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        id path int true "User ID"
// @Param        request body services.UpdateUserRequest true "User payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /users/{id} [put]
// @Security     BearerAuth
func (c *UserController) UpdateUser() {
	actor := middleware.CurrentUser(c.Ctx)
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}

	var req services.UpdateUserRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	user, err := c.userService().UpdateUser(actor, id, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			response.Fail(c.Ctx, code.ErrUserNotFound, nil)
		case errors.Is(err, services.ErrUserAlreadyExists):
			response.Fail(c.Ctx, code.ErrUserAlreadyExist, nil)
		case errors.Is(err, services.ErrAccessDenied):
			response.Forbidden(c.Ctx)
		case errors.Is(err, services.ErrValidationFailed):
			response.Fail(c.Ctx, code.ErrValidation, nil)
		default:
			logger.Error("user update failed: %v", err)
			response.Fail(c.Ctx, code.ErrDatabase, nil)
		}
		return
	}

	response.Success(c.Ctx, user)
}

// DeactivateUser soft-deletes a user
// @Summary      Deactivate user
// @Description  Deactivates a user account. Users cannot deactivate themselves.
// @Tags         Users
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /users/{id} [delete]
// @Security     BearerAuth
func (c *UserController) DeactivateUser() {
	actor := middleware.CurrentUser(c.Ctx)
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}

	if err := c.userService().DeactivateUser(actor, id); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			response.Fail(c.Ctx, code.ErrUserNotFound, nil)
		case errors.Is(err, services.ErrSelfDeactivation):
			response.Fail(c.Ctx, code.ErrUserSelfDeactivation, nil)
		case errors.Is(err, services.ErrAccessDenied):
			response.Forbidden(c.Ctx)
		default:
			logger.Error("user deactivation failed: %v", err)
			response.Fail(c.Ctx, code.ErrDatabase, nil)
		}
		return
	}

	response.Success(c.Ctx, nil)
}

// GetDepartments lists distinct departments
// @Summary      List departments
// @Tags         Users
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /users/departments [get]
// @Security     BearerAuth
func (c *UserController) GetDepartments() {
	departments, err := c.userService().ListDepartments()
	if err != nil {
		logger.Error("department list failed: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Ctx, departments)
}

// GetSupervisors lists users that can supervise others
// @Summary      List supervisors
// @Tags         Users
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /users/supervisors [get]
// @Security     BearerAuth
func (c *UserController) GetSupervisors() {
	supervisors, err := c.userService().ListSupervisors()
	if err != nil {
		logger.Error("supervisor list failed: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Ctx, supervisors)
}

// GetTeam lists the active members supervised by a user
// @Summary      Get supervised team
// @Tags         Users
// @Produce      json
// @Param        id path int true "Supervisor ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /users/team/{id} [get]
// @Security     BearerAuth
func (c *UserController) GetTeam() {
	actor := middleware.CurrentUser(c.Ctx)
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}

	// A supervisor may only inspect their own team.
	if actor.Role == models.RoleSupervisor && actor.ID != id {
		response.Forbidden(c.Ctx)
		return
	}
	if actor.Role != models.RoleSupervisor && !access.HasPermission(actor.Role, access.PermReadAllChecklists) {
		response.Forbidden(c.Ctx)
		return
	}

	team, err := c.userService().GetTeam(id)
	if err != nil {
		logger.Error("team list failed: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Ctx, team)
}

// HandleUserFunc returns a gin handler dispatching to the user controller
func HandleUserFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewUserController(ctx, container)

		switch method {
		case "getUsers":
			controller.GetUsers()
		case "getUser":
			controller.GetUser()
		case "createUser":
			controller.CreateUser()
		case "updateUser":
			controller.UpdateUser()
		case "deactivateUser":
			controller.DeactivateUser()
		case "getDepartments":
			controller.GetDepartments()
		case "getSupervisors":
			controller.GetSupervisors()
		case "getTeam":
			controller.GetTeam()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    code.ErrBind,
				"message": "invalid method",
				"data":    nil,
			})
		}
	}
}
