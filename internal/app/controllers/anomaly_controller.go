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

// InterfaceAnomalyController defines the anomaly controller interface
type InterfaceAnomalyController interface {
	GetAnomalies()
	GetAnomaly()
	CreateAnomaly()
	UpdateAnomaly()
	AddAction()
	ResolveAnomaly()
	CloseAnomaly()
}

// AnomalyController handles anomaly lifecycle requests
type AnomalyController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAnomalyController creates a new anomaly controller
func NewAnomalyController(ctx *gin.Context, container *container.ServiceContainer) *AnomalyController {
	return &AnomalyController{
		Ctx:       ctx,
		Container: container,
	}
}

func (c *AnomalyController) anomalyService() services.InterfaceAnomalyService {
	return c.Container.GetService("anomaly").(services.InterfaceAnomalyService)
}

// GetAnomalies lists anomalies visible to the actor
// @Summary      List anomalies
// @Description  Lists anomalies with pagination and filters. Employees see the ones they reported, supervisors add their team's, admins and safety technicians see everything.
// @Tags         Anomalies
// @Produce      json
// @Param        page query int false "Page number, defaults to 1"
// @Param        limit query int false "Page size, defaults to 10"
// @Param        status query string false "Filter by status"
// @Param        severity query string false "Filter by severity"
// @Param        category query string false "Filter by category"
// @Param        epi_type_id query int false "Filter by EPI type"
// @Param        start_date query string false "Start date (YYYY-MM-DD)"
// @Param        end_date query string false "End date (YYYY-MM-DD)"
// @Success      200  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /anomalies [get]
// @Security     BearerAuth
func (c *AnomalyController) GetAnomalies() {
	actor := middleware.CurrentUser(c.Ctx)

	var query services.AnomalyListQuery
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

	anomalies, pagination, err := c.anomalyService().ListAnomalies(actor, supervisedIDs, query)
	if err != nil {
		logger.Error("anomaly list failed: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"anomalies":  anomalies,
		"pagination": pagination,
	})
}

// GetAnomaly returns a single anomaly
// @Summary      Get anomaly
// @Tags         Anomalies
// @Produce      json
// @Param        id path int true "Anomaly ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /anomalies/{id} [get]
// @Security     BearerAuth
func (c *AnomalyController) GetAnomaly() {
	actor := middleware.CurrentUser(c.Ctx)
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}

	anomaly, err := c.anomalyService().GetAnomalyByID(id)
	if err != nil {
		if errors.Is(err, services.ErrAnomalyNotFound) {
			response.Fail(c.Ctx, code.ErrAnomalyNotFound, nil)
			return
		}
		logger.Error("anomaly lookup failed: %v", err)
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
	if !access.CanAccessUserData(actor, anomaly.ReportedByID, supervisedIDs) {
		response.Forbidden(c.Ctx)
		return
	}

	response.Success(c.Ctx, anomaly)
}

// CreateAnomaly registers an anomaly found during an execution
// @Summary      Create anomaly
// @Description  Registers an anomaly. Critical severity escalates priority to urgent and safety impact to high.
// @Tags         Anomalies
// @Accept       json
// @Produce      json
// @Param        request body services.CreateAnomalyRequest true "Anomaly payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /anomalies [post]
// @Security     BearerAuth
func (c *AnomalyController) CreateAnomaly() {
	actor := middleware.CurrentUser(c.Ctx)

	var req services.CreateAnomalyRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	anomaly, err := c.anomalyService().CreateAnomaly(actor, req)
	if err != nil {
		c.failAnomaly(err, "anomaly creation failed")
		return
	}

	response.Success(c.Ctx, anomaly)
}

// UpdateAnomaly updates an anomaly
// @Summary      Update anomaly
// @Description  Updates an anomaly. Only the reporter, admins and safety technicians may update.
// @Tags         Anomalies
// @Accept       json
// @Produce      json
// @Param        id path int true "Anomaly ID"
// @Param        request body services.UpdateAnomalyRequest true "Anomaly payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /anomalies/{id} [put]
// @Security     BearerAuth
func (c *AnomalyController) UpdateAnomaly() {
	actor := middleware.CurrentUser(c.Ctx)
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}

	var req services.UpdateAnomalyRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	anomaly, err := c.anomalyService().UpdateAnomaly(actor, id, req)
	if err != nil {
		c.failAnomaly(err, "anomaly update failed")
		return
	}

	response.Success(c.Ctx, anomaly)
}

// AddAction records a corrective action on an anomaly
// @Summary      Add corrective action
// @Description  Appends a corrective action. An open anomaly moves to in progress.
// @Tags         Anomalies
// @Accept       json
// @Produce      json
// @Param        id path int true "Anomaly ID"
// @Param        request body services.AddActionRequest true "Action payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /anomalies/{id}/actions [post]
// @Security     BearerAuth
func (c *AnomalyController) AddAction() {
	actor := middleware.CurrentUser(c.Ctx)
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}

	var req services.AddActionRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	anomaly, err := c.anomalyService().AddAction(actor, id, req)
	if err != nil {
		c.failAnomaly(err, "anomaly action failed")
		return
	}

	response.Success(c.Ctx, anomaly)
}

// ResolveAnomaly resolves an anomaly
// @Summary      Resolve anomaly
// @Description  Resolves an anomaly. A resolution method and notes are required.
// @Tags         Anomalies
// @Accept       json
// @Produce      json
// @Param        id path int true "Anomaly ID"
// @Param        request body services.ResolveAnomalyRequest true "Resolution payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /anomalies/{id}/resolve [post]
// @Security     BearerAuth
func (c *AnomalyController) ResolveAnomaly() {
	actor := middleware.CurrentUser(c.Ctx)
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}

	var req services.ResolveAnomalyRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	anomaly, err := c.anomalyService().ResolveAnomaly(actor, id, req)
	if err != nil {
		c.failAnomaly(err, "anomaly resolution failed")
		return
	}

	response.Success(c.Ctx, anomaly)
}

// CloseAnomaly closes an anomaly
// @Summary      Close anomaly
// @Tags         Anomalies
// @Produce      json
// @Param        id path int true "Anomaly ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /anomalies/{id}/close [post]
// @Security     BearerAuth
func (c *AnomalyController) CloseAnomaly() {
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}

	anomaly, err := c.anomalyService().CloseAnomaly(id)
	if err != nil {
		c.failAnomaly(err, "anomaly close failed")
		return
	}

	response.Success(c.Ctx, anomaly)
}

func (c *AnomalyController) failAnomaly(err error, logPrefix string) {
	switch {
	case errors.Is(err, services.ErrAnomalyNotFound):
		response.Fail(c.Ctx, code.ErrAnomalyNotFound, nil)
	case errors.Is(err, services.ErrAnomalyAlreadyResolved):
		response.Fail(c.Ctx, code.ErrAnomalyAlreadyResolved, nil)
	case errors.Is(err, services.ErrResolutionInvalid):
		response.Fail(c.Ctx, code.ErrAnomalyResolutionInvalid, nil)
	case errors.Is(err, services.ErrExecutionNotFound):
		response.Fail(c.Ctx, code.ErrExecutionNotFound, nil)
	case errors.Is(err, services.ErrEpiTypeNotFound):
		response.Fail(c.Ctx, code.ErrEpiTypeNotFound, nil)
	case errors.Is(err, services.ErrAccessDenied):
		response.Forbidden(c.Ctx)
	case errors.Is(err, services.ErrValidationFailed):
		response.Fail(c.Ctx, code.ErrValidation, nil)
	default:
		logger.Error("%s: %v", logPrefix, err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
	}
}

// HandleAnomalyFunc returns a gin handler dispatching to the anomaly controller
func HandleAnomalyFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAnomalyController(ctx, container)

		switch method {
		case "getAnomalies":
			controller.GetAnomalies()
		case "getAnomaly":
			controller.GetAnomaly()
		case "createAnomaly":
			controller.CreateAnomaly()
		case "updateAnomaly":
			controller.UpdateAnomaly()
		case "addAction":
			controller.AddAction()
		case "resolveAnomaly":
			controller.ResolveAnomaly()
		case "closeAnomaly":
			controller.CloseAnomaly()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    code.ErrBind,
				"message": "invalid method",
				"data":    nil,
			})
		}
	}
}
