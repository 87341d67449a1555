package controllers

import (
	"errors"
	"net/http"

	"github.com/felipefantin/check-list-EPI/internal/app/middleware"
	"github.com/felipefantin/check-list-EPI/internal/domain/services"
	"github.com/felipefantin/check-list-EPI/internal/domain/services/container"
	"github.com/felipefantin/check-list-EPI/internal/error/code"
	"github.com/felipefantin/check-list-EPI/internal/error/response"
	"github.com/felipefantin/check-list-EPI/pkg/logger"

	"github.com/gin-gonic/gin"
)

// InterfaceChecklistController defines the checklist controller interface
type InterfaceChecklistController interface {
	GetChecklists()
	GetChecklist()
	GetAvailable()
	GetTypes()
	CreateChecklist()
	UpdateChecklist()
	DeactivateChecklist()
	ApproveChecklist()
}

// ChecklistController handles checklist template requests
type ChecklistController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewChecklistController creates a new checklist controller
func NewChecklistController(ctx *gin.Context, container *container.ServiceContainer) *ChecklistController {
	return &ChecklistController{
		Ctx:       ctx,
		Container: container,
	}
}

func (c *ChecklistController) checklistService() services.InterfaceChecklistService {
	return c.Container.GetService("checklist").(services.InterfaceChecklistService)
}

// GetChecklists lists checklist templates
// @Summary      List checklists
// @Description  Lists checklists with pagination and filters. Actors without the read-all capability only see their department plus global checklists.
// @Tags         Checklists
// @Produce      json
// @Param        page query int false "Page number, defaults to 1"
// @Param        limit query int false "Page size, defaults to 10"
// @Param        type query string false "Filter by frequency type"
// @Param        department query string false "Filter by department"
// @Param        is_active query bool false "Filter by active state"
// @Param        search query string false "Search by name or description"
// @Success      200  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /checklists [get]
// @Security     BearerAuth
func (c *ChecklistController) GetChecklists() {
	actor := middleware.CurrentUser(c.Ctx)

	var query services.ChecklistListQuery
	if err := c.Ctx.ShouldBindQuery(&query); err != nil {
		response.ParamError(c.Ctx, "invalid query parameters: "+err.Error())
		return
	}

	checklists, pagination, err := c.checklistService().ListChecklists(actor, query)
	if err != nil {
		logger.Error("checklist list failed: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"checklists": checklists,
		"pagination": pagination,
	})
}

// GetChecklist returns a single checklist
// @Summary      Get checklist
// @Description  Returns a checklist by ID if the actor may see it
// @Tags         Checklists
// @Produce      json
// @Param        id path int true "Checklist ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /checklists/{id} [get]
// @Security     BearerAuth
func (c *ChecklistController) GetChecklist() {
	actor := middleware.CurrentUser(c.Ctx)
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}

	checklist, err := c.checklistService().GetChecklistForUser(actor, id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrChecklistNotFound):
			response.Fail(c.Ctx, code.ErrChecklistNotFound, nil)
		case errors.Is(err, services.ErrAccessDenied):
			response.Forbidden(c.Ctx)
		default:
			logger.Error("checklist lookup failed: %v", err)
			response.Fail(c.Ctx, code.ErrDatabase, nil)
		}
		return
	}

	response.Success(c.Ctx, checklist)
}

// GetAvailable lists the effective checklists that apply to the actor
// @Summary      List available checklists
// @Description  Lists active, effective checklists matching the actor's department and job role
// @Tags         Checklists
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /checklists/available [get]
// @Security     BearerAuth
func (c *ChecklistController) GetAvailable() {
	actor := middleware.CurrentUser(c.Ctx)

	checklists, err := c.checklistService().ListAvailableForUser(actor)
	if err != nil {
		logger.Error("available checklist list failed: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Ctx, checklists)
}

// GetTypes lists the supported checklist frequency types
// @Summary      List checklist types
// @Tags         Checklists
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /checklists/types [get]
// @Security     BearerAuth
func (c *ChecklistController) GetTypes() {
	response.Success(c.Ctx, c.checklistService().ListTypes())
}

// CreateChecklist creates a checklist template at version 1
// @Summary      Create checklist
// @Description  Creates a checklist. Item criteria default to the EPI type's inspection criteria.
// @Tags         Checklists
// @Accept       json
// @Produce      json
// @Param        request body services.ChecklistRequest true "Checklist payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /checklists [post]
// @Security     BearerAuth
func (c *ChecklistController) CreateChecklist() {
	actor := middleware.CurrentUser(c.Ctx)

	var req services.ChecklistRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	checklist, err := c.checklistService().CreateChecklist(actor, req)
	if err != nil {
		c.failChecklist(err, "checklist creation failed")
		return
	}

	response.Success(c.Ctx, checklist)
}

// UpdateChecklist updates a checklist, bumping the version when items change
// @Summary      Update checklist
// @Description  Updates a checklist. The version increments only when the item set changes.
// @Tags         Checklists
// @Accept       json
// @Produce      json
// @Param        id path int true "Checklist ID"
// @Param        request body services.ChecklistRequest true "Checklist payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /checklists/{id} [put]
// @Security     BearerAuth
func (c *ChecklistController) UpdateChecklist() {
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}

	var req services.ChecklistRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	checklist, err := c.checklistService().UpdateChecklist(id, req)
	if err != nil {
		c.failChecklist(err, "checklist update failed")
		return
	}

	response.Success(c.Ctx, checklist)
}

func (c *ChecklistController) failChecklist(err error, logPrefix string) {
	switch {
	case errors.Is(err, services.ErrChecklistNotFound):
		response.Fail(c.Ctx, code.ErrChecklistNotFound, nil)
	case errors.Is(err, services.ErrChecklistAlreadyExists):
		response.Fail(c.Ctx, code.ErrChecklistAlreadyExist, nil)
	case errors.Is(err, services.ErrInvalidPeriod):
		response.Fail(c.Ctx, code.ErrChecklistInvalidPeriod, nil)
	case errors.Is(err, services.ErrEpiTypeNotFound):
		response.Fail(c.Ctx, code.ErrEpiTypeNotFound, nil)
	case errors.Is(err, services.ErrValidationFailed):
		response.Fail(c.Ctx, code.ErrValidation, nil)
	default:
		logger.Error("%s: %v", logPrefix, err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
	}
}

// DeactivateChecklist soft-deletes a checklist template
// @Summary      Deactivate checklist
// @Tags         Checklists
// @Produce      json
// @Param        id path int true "Checklist ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /checklists/{id} [delete]
// @Security     BearerAuth
func (c *ChecklistController) DeactivateChecklist() {
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}

	if err := c.checklistService().DeactivateChecklist(id); err != nil {
		if errors.Is(err, services.ErrChecklistNotFound) {
			response.Fail(c.Ctx, code.ErrChecklistNotFound, nil)
			return
		}
		logger.Error("checklist deactivation failed: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Ctx, nil)
}

// ApproveChecklist stamps the approval fields on a checklist
// @Summary      Approve checklist
// @Tags         Checklists
// @Produce      json
// @Param        id path int true "Checklist ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /checklists/{id}/approve [post]
// @Security     BearerAuth
func (c *ChecklistController) ApproveChecklist() {
	actor := middleware.CurrentUser(c.Ctx)
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}

	checklist, err := c.checklistService().ApproveChecklist(actor, id)
	if err != nil {
		if errors.Is(err, services.ErrChecklistNotFound) {
			response.Fail(c.Ctx, code.ErrChecklistNotFound, nil)
			return
		}
		logger.Error("checklist approval failed: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Ctx, checklist)
}

// HandleChecklistFunc returns a gin handler dispatching to the checklist controller
func HandleChecklistFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewChecklistController(ctx, container)

		switch method {
		case "getChecklists":
			controller.GetChecklists()
		case "getChecklist":
			controller.GetChecklist()
		case "getAvailable":
			controller.GetAvailable()
		case "getTypes":
			controller.GetTypes()
		case "createChecklist":
			controller.CreateChecklist()
		case "updateChecklist":
			controller.UpdateChecklist()
		case "deactivateChecklist":
			controller.DeactivateChecklist()
		case "approveChecklist":
			controller.ApproveChecklist()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    code.ErrBind,
				"message": "invalid method",
				"data":    nil,
			})
		}
	}
}
