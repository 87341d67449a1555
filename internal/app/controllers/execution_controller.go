package controllers

import (
	"errors"
	"net/http"

	"github.com/felipefantin/check-list-EPI/internal/app/middleware"
	"github.com/felipefantin/check-list-EPI/internal/domain/access"
	"github.com/felipefantin/check-list-EPI/internal/domain/services"
	"github.com/felipefantin/check-list-EPI/internal/domain/services/container"
	"github.com/felipefantin/check-list-EPI/internal/error/code"
	"github.com/felipefantin/check-list-EPI/internal/error/response"
	"github.com/felipefantin/check-list-EPI/pkg/logger"

	"github.com/gin-gonic/gin"
)

// InterfaceExecutionController defines the execution controller interface
type InterfaceExecutionController interface {
	GetExecutions()
	GetExecution()
	CreateExecution()
	UpdateExecution()
	CompleteExecution()
	ApproveExecution()
	RejectExecution()
	CancelExecution()
}

// ExecutionController handles checklist execution requests
type ExecutionController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewExecutionController creates a new execution controller
func NewExecutionController(ctx *gin.Context, container *container.ServiceContainer) *ExecutionController {
	return &ExecutionController{
		Ctx:       ctx,
		Container: container,
	}
}

func (c *ExecutionController) executionService() services.InterfaceExecutionService {
	return c.Container.GetService("execution").(services.InterfaceExecutionService)
}

// DecisionRequest carries the optional notes attached to an approval decision
type DecisionRequest struct {
	Notes string `json:"notes"`
}

// GetExecutions lists checklist executions visible to the actor
// @Summary      List executions
// @Description  Lists executions with pagination and filters. Employees see their own, supervisors their team, admins and safety technicians everything.
// @Tags         Executions
// @Produce      json
// @Param        page query int false "Page number, defaults to 1"
// @Param        limit query int false "Page size, defaults to 10"
// @Param        status query string false "Filter by status"
// @Param        checklist_id query int false "Filter by checklist"
// @Param        employee_id query int false "Filter by employee (admin and safety technician only)"
// @Param        start_date query string false "Start date (YYYY-MM-DD)"
// @Param        end_date query string false "End date (YYYY-MM-DD)"
// @Success      200  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /executions [get]
// @Security     BearerAuth
func (c *ExecutionController) GetExecutions() {
	actor := middleware.CurrentUser(c.Ctx)

	var query services.ExecutionListQuery
	if err := c.Ctx.ShouldBindQuery(&query); err != nil {
		response.ParamError(c.Ctx, "invalid query parameters: "+err.Error())
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	supervisedIDs, err := userService.GetSupervisedIDs(actor.ID)
	if err != nil {
		logger.Error("supervised lookup failed: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	executions, pagination, err := c.executionService().ListExecutions(actor, supervisedIDs, query)
	if err != nil {
		logger.Error("execution list failed: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"executions": executions,
		"pagination": pagination,
	})
}

// GetExecution returns a single execution
// @Summary      Get execution
// @Tags         Executions
// @Produce      json
// @Param        id path int true "Execution ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /executions/{id} [get]
// @Security     BearerAuth
func (c *ExecutionController) GetExecution() {
	actor := middleware.CurrentUser(c.Ctx)
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}

	execution, err := c.executionService().GetExecutionByID(id)
	if err != nil {
		if errors.Is(err, services.ErrExecutionNotFound) {
			response.Fail(c.Ctx, code.ErrExecutionNotFound, nil)
			return
		}
		logger.Error("execution lookup failed: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	supervisedIDs, err := userService.GetSupervisedIDs(actor.ID)
	if err != nil {
		logger.Error("supervised lookup failed: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}
	if !access.CanAccessUserData(actor, execution.EmployeeID, supervisedIDs) {
		response.Forbidden(c.Ctx)
		return
	}

	response.Success(c.Ctx, execution)
}

// CreateExecution starts a checklist execution
// @Summary      Start execution
// @Description  Starts an execution against a currently effective checklist. Item results default to pending.
// @Tags         Executions
// @Accept       json
// @Produce      json
// @Param        request body services.CreateExecutionRequest true "Execution payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /executions [post]
// @Security     BearerAuth
func (c *ExecutionController) CreateExecution() {
	actor := middleware.CurrentUser(c.Ctx)

	var req services.CreateExecutionRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	execution, err := c.executionService().CreateExecution(actor, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrChecklistNotFound):
			response.Fail(c.Ctx, code.ErrChecklistNotFound, nil)
		case errors.Is(err, services.ErrChecklistNotEffective):
			response.Fail(c.Ctx, code.ErrChecklistNotEffective, nil)
		case errors.Is(err, services.ErrValidationFailed):
			response.Fail(c.Ctx, code.ErrValidation, nil)
		default:
			logger.Error("execution creation failed: %v", err)
			response.Fail(c.Ctx, code.ErrDatabase, nil)
		}
		return
	}

	response.Success(c.Ctx, execution)
}

// UpdateExecution replaces the item results of an in-progress execution
// @Summary      Update execution
// @Description  Replaces the results of an in-progress execution. Only the owner, admins and safety technicians may update.
// @Tags         Executions
// @Accept       json
// @Produce      json
// @Param        id path int true "Execution ID"
// @Param        request body services.UpdateExecutionRequest true "Execution payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /executions/{id} [put]
// @Security     BearerAuth
func (c *ExecutionController) UpdateExecution() {
	actor := middleware.CurrentUser(c.Ctx)
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}

	var req services.UpdateExecutionRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	execution, err := c.executionService().UpdateExecution(actor, id, req)
	if err != nil {
		c.failExecution(err, "execution update failed")
		return
	}

	response.Success(c.Ctx, execution)
}

// CompleteExecution finalizes an execution with a digital signature
// @Summary      Complete execution
// @Description  Completes an execution. All items must be evaluated and a signature hash provided; the request IP and user agent are recorded with it.
// @Tags         Executions
// @Accept       json
// @Produce      json
// @Param        id path int true "Execution ID"
// @Param        request body services.CompleteExecutionRequest true "Signature payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /executions/{id}/complete [post]
// @Security     BearerAuth
func (c *ExecutionController) CompleteExecution() {
	actor := middleware.CurrentUser(c.Ctx)
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}

	var req services.CompleteExecutionRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	execution, err := c.executionService().CompleteExecution(
		actor, id, req.SignatureHash,
		c.Ctx.ClientIP(), c.Ctx.Request.UserAgent(),
	)
	if err != nil {
		c.failExecution(err, "execution completion failed")
		return
	}

	response.Success(c.Ctx, execution)
}

// ApproveExecution approves a completed execution
// @Summary      Approve execution
// @Description  Approves a completed execution. Supervisors may only decide on executions of their own team.
// @Tags         Executions
// @Accept       json
// @Produce      json
// @Param        id path int true "Execution ID"
// @Param        request body DecisionRequest false "Decision notes"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /executions/{id}/approve [post]
// @Security     BearerAuth
func (c *ExecutionController) ApproveExecution() {
	c.decide(true)
}

// RejectExecution rejects a completed execution
// @Summary      Reject execution
// @Description  Rejects a completed execution, under the same team rule as approval.
// @Tags         Executions
// @Accept       json
// @Produce      json
// @Param        id path int true "Execution ID"
// @Param        request body DecisionRequest false "Decision notes"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /executions/{id}/reject [post]
// @Security     BearerAuth
func (c *ExecutionController) RejectExecution() {
	c.decide(false)
}

func (c *ExecutionController) decide(approve bool) {
	actor := middleware.CurrentUser(c.Ctx)
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}

	var req DecisionRequest
	_ = c.Ctx.ShouldBindJSON(&req)

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	supervisedIDs, err := userService.GetSupervisedIDs(actor.ID)
	if err != nil {
		logger.Error("supervised lookup failed: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	var execution interface{}
	if approve {
		execution, err = c.executionService().ApproveExecution(actor, supervisedIDs, id, req.Notes)
	} else {
		execution, err = c.executionService().RejectExecution(actor, supervisedIDs, id, req.Notes)
	}
	if err != nil {
		c.failExecution(err, "execution decision failed")
		return
	}

	response.Success(c.Ctx, execution)
}

// CancelExecution cancels an in-progress execution
// @Summary      Cancel execution
// @Tags         Executions
// @Produce      json
// @Param        id path int true "Execution ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /executions/{id}/cancel [post]
// @Security     BearerAuth
func (c *ExecutionController) CancelExecution() {
	actor := middleware.CurrentUser(c.Ctx)
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}

	execution, err := c.executionService().CancelExecution(actor, id)
	if err != nil {
		c.failExecution(err, "execution cancellation failed")
		return
	}

	response.Success(c.Ctx, execution)
}

func (c *ExecutionController) failExecution(err error, logPrefix string) {
	switch {
	case errors.Is(err, services.ErrExecutionNotFound):
		response.Fail(c.Ctx, code.ErrExecutionNotFound, nil)
	case errors.Is(err, services.ErrExecutionCompleted):
		response.Fail(c.Ctx, code.ErrExecutionAlreadyCompleted, nil)
	case errors.Is(err, services.ErrPendingItems):
		response.Fail(c.Ctx, code.ErrExecutionPendingItems, nil)
	case errors.Is(err, services.ErrSignatureRequired):
		response.Fail(c.Ctx, code.ErrExecutionSignatureRequired, nil)
	case errors.Is(err, services.ErrInvalidTransition):
		response.Fail(c.Ctx, code.ErrExecutionInvalidTransition, nil)
	case errors.Is(err, services.ErrAccessDenied):
		response.Forbidden(c.Ctx)
	case errors.Is(err, services.ErrValidationFailed):
		response.Fail(c.Ctx, code.ErrValidation, nil)
	default:
		logger.Error("%s: %v", logPrefix, err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
	}
}

// HandleExecutionFunc returns a gin handler dispatching to the execution controller
func HandleExecutionFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewExecutionController(ctx, container)

		switch method {
		case "getExecutions":
			controller.GetExecutions()
		case "getExecution":
			controller.GetExecution()
		case "createExecution":
			controller.CreateExecution()
		case "updateExecution":
			controller.UpdateExecution()
		case "completeExecution":
			controller.CompleteExecution()
		case "approveExecution":
			controller.ApproveExecution()
		case "rejectExecution":
			controller.RejectExecution()
		case "cancelExecution":
			controller.CancelExecution()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    code.ErrBind,
				"message": "invalid method",
				"data":    nil,
			})
		}
	}
}
