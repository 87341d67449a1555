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

// InterfaceEpiTypeController defines the EPI type controller interface
type InterfaceEpiTypeController interface {
	GetEpiTypes()
	GetEpiType()
	CreateEpiType()
	UpdateEpiType()
	DeactivateEpiType()
	GetCategories()
	GetExpiringSoon()
	GetExpired()
}

// EpiTypeController handles EPI catalog requests
type EpiTypeController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewEpiTypeController creates a new EPI type controller
func NewEpiTypeController(ctx *gin.Context, container *container.ServiceContainer) *EpiTypeController {
	return &EpiTypeController{
		Ctx:       ctx,
		Container: container,
	}
}

func (c *EpiTypeController) epiTypeService() services.InterfaceEpiTypeService {
	return c.Container.GetService("epi_type").(services.InterfaceEpiTypeService)
}

// GetEpiTypes lists EPI types
// @Summary      List EPI types
// @Description  Lists catalog entries with pagination and filters
// @Tags         EpiTypes
// @Produce      json
// @Param        page query int false "Page number, defaults to 1"
// @Param        limit query int false "Page size, defaults to 10"
// @Param        category query string false "Filter by category"
// @Param        is_active query bool false "Filter by active state"
// @Param        search query string false "Search by name, manufacturer or CA number"
// @Param        expiring_soon query bool false "Only entries whose CA expires within 30 days"
// @Success      200  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /epi-types [get]
// @Security     BearerAuth
func (c *EpiTypeController) GetEpiTypes() {
	var query services.EpiTypeListQuery
	if err := c.Ctx.ShouldBindQuery(&query); err != nil {
		response.ParamError(c.Ctx, "invalid query parameters: "+err.Error())
		return
	}

	epiTypes, pagination, err := c.epiTypeService().ListEpiTypes(query)
	if err != nil {
		logger.Error("epi type list failed: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"epi_types":  epiTypes,
		"pagination": pagination,
	})
}

// GetEpiType returns a single EPI type
// @Summary      Get EPI type
// @Tags         EpiTypes
// @Produce      json
// @Param        id path int true "EPI type ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /epi-types/{id} [get]
// @Security     BearerAuth
func (c *EpiTypeController) GetEpiType() {
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}

	epiType, err := c.epiTypeService().GetEpiTypeByID(id)
	if err != nil {
		if errors.Is(err, services.ErrEpiTypeNotFound) {
			response.Fail(c.Ctx, code.ErrEpiTypeNotFound, nil)
			return
		}
		logger.Error("epi type lookup failed: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Ctx, epiType)
}

// CreateEpiType creates a catalog entry
// @Summary      Create EPI type
// @Description  Creates a catalog entry. The CA expiry date cannot be in the past.
// @Tags         EpiTypes
// @Accept       json
// @Produce      json
// @Param        request body services.EpiTypeRequest true "EPI type payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /epi-types [post]
// @Security     BearerAuth
func (c *EpiTypeController) CreateEpiType() {
	actor := middleware.CurrentUser(c.Ctx)

	var req services.EpiTypeRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	epiType, err := c.epiTypeService().CreateEpiType(actor, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEpiTypeAlreadyExists):
			response.Fail(c.Ctx, code.ErrEpiTypeAlreadyExist, nil)
		case errors.Is(err, services.ErrCAExpiryInPast):
			response.Fail(c.Ctx, code.ErrEpiTypeCAExpired, nil)
		case errors.Is(err, services.ErrValidationFailed):
			response.Fail(c.Ctx, code.ErrValidation, nil)
		default:
			logger.Error("epi type creation failed: %v", err)
			response.Fail(c.Ctx, code.ErrDatabase, nil)
		}
		return
	}

	response.Success(c.Ctx, epiType)
}

// UpdateEpiType updates a catalog entry
// @Summary      Update EPI type
// @Tags         EpiTypes
// @Accept       json
// @Produce      json
// @Param        id path int true "EPI type ID"
// @Param        request body services.EpiTypeRequest true "EPI type payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /epi-types/{id} [put]
// @Security     BearerAuth
func (c *EpiTypeController) UpdateEpiType() {
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}

	var req services.EpiTypeRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	epiType, err := c.epiTypeService().UpdateEpiType(id, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEpiTypeNotFound):
			response.Fail(c.Ctx, code.ErrEpiTypeNotFound, nil)
		case errors.Is(err, services.ErrEpiTypeAlreadyExists):
			response.Fail(c.Ctx, code.ErrEpiTypeAlreadyExist, nil)
		case errors.Is(err, services.ErrCAExpiryInPast):
			response.Fail(c.Ctx, code.ErrEpiTypeCAExpired, nil)
		case errors.Is(err, services.ErrValidationFailed):
			response.Fail(c.Ctx, code.ErrValidation, nil)
		default:
			logger.Error("epi type update failed: %v", err)
			response.Fail(c.Ctx, code.ErrDatabase, nil)
		}
		return
	}

	response.Success(c.Ctx, epiType)
}

// DeactivateEpiType soft-deletes a catalog entry
// @Summary      Deactivate EPI type
// @Tags         EpiTypes
// @Produce      json
// @Param        id path int true "EPI type ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /epi-types/{id} [delete]
// @Security     BearerAuth
func (c *EpiTypeController) DeactivateEpiType() {
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}

	if err := c.epiTypeService().DeactivateEpiType(id); err != nil {
		if errors.Is(err, services.ErrEpiTypeNotFound) {
			response.Fail(c.Ctx, code.ErrEpiTypeNotFound, nil)
			return
		}
		logger.Error("epi type deactivation failed: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Ctx, nil)
}

// GetCategories lists the known EPI categories with display labels
// @Summary      List EPI categories
// @Tags         EpiTypes
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /epi-types/categories [get]
// @Security     BearerAuth
func (c *EpiTypeController) GetCategories() {
	response.Success(c.Ctx, c.epiTypeService().ListCategories())
}

// GetExpiringSoon lists active entries whose CA expires within 30 days
// @Summary      List EPI types expiring soon
// @Tags         EpiTypes
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /epi-types/expiring-soon [get]
// @Security     BearerAuth
func (c *EpiTypeController) GetExpiringSoon() {
	epiTypes, err := c.epiTypeService().ListExpiringSoon()
	if err != nil {
		logger.Error("expiring epi type list failed: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Ctx, epiTypes)
}

// GetExpired lists active entries whose CA has already expired
// @Summary      List expired EPI types
// @Tags         EpiTypes
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /epi-types/expired [get]
// @Security     BearerAuth
func (c *EpiTypeController) GetExpired() {
	epiTypes, err := c.epiTypeService().ListExpired()
	if err != nil {
		logger.Error("expired epi type list failed: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Ctx, epiTypes)
}

// HandleEpiTypeFunc returns a gin handler dispatching to the EPI type controller
func HandleEpiTypeFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewEpiTypeController(ctx, container)

		switch method {
		case "getEpiTypes":
			controller.GetEpiTypes()
		case "getEpiType":
			controller.GetEpiType()
		case "createEpiType":
			controller.CreateEpiType()
		case "updateEpiType":
			controller.UpdateEpiType()
		case "deactivateEpiType":
			controller.DeactivateEpiType()
		case "getCategories":
			controller.GetCategories()
		case "getExpiringSoon":
			controller.GetExpiringSoon()
		case "getExpired":
			controller.GetExpired()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    code.ErrBind,
				"message": "invalid method",
				"data":    nil,
			})
		}
	}
}
