package controllers

import (
	"net/http"

	"github.com/felipefantin/check-list-EPI/internal/app/middleware"
	"github.com/felipefantin/check-list-EPI/internal/domain/services"
	"github.com/felipefantin/check-list-EPI/internal/domain/services/container"
	"github.com/felipefantin/check-list-EPI/internal/error/code"
	"github.com/felipefantin/check-list-EPI/internal/error/response"
	"github.com/felipefantin/check-list-EPI/pkg/logger"

	"github.com/gin-gonic/gin"
)

// InterfaceReportController defines the report controller interface
type InterfaceReportController interface {
	GetDashboard()
	GetComplianceReport()
	GetAnomalyReport()
	GetExecutionReport()
	GetEpiStatusReport()
}

// ReportController handles aggregate report requests
type ReportController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewReportController creates a new report controller
func NewReportController(ctx *gin.Context, container *container.ServiceContainer) *ReportController {
	return &ReportController{
		Ctx:       ctx,
		Container: container,
	}
}

func (c *ReportController) reportService() services.InterfaceReportService {
	return c.Container.GetService("report").(services.InterfaceReportService)
}

// GetDashboard returns the headline numbers and recent activity
// @Summary      Dashboard
// @Description  Returns totals, the 30-day compliance rate and the latest completed executions
// @Tags         Reports
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /reports/dashboard [get]
// @Security     BearerAuth
func (c *ReportController) GetDashboard() {
	report, err := c.reportService().GetDashboard()
	if err != nil {
		logger.Error("dashboard report failed: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Ctx, report)
}

// GetComplianceReport aggregates item results over completed executions
// @Summary      Compliance report
// @Description  Aggregates conform, non-conform and not-applicable item results over completed executions in the period
// @Tags         Reports
// @Produce      json
// @Param        start_date query string false "Start date (YYYY-MM-DD)"
// @Param        end_date query string false "End date (YYYY-MM-DD)"
// @Param        department query string false "Filter by department"
// @Success      200  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /reports/compliance [get]
// @Security     BearerAuth
func (c *ReportController) GetComplianceReport() {
	actor := middleware.CurrentUser(c.Ctx)

	var query services.ComplianceReportQuery
	if err := c.Ctx.ShouldBindQuery(&query); err != nil {
		response.ParamError(c.Ctx, "invalid query parameters: "+err.Error())
		return
	}

	report, err := c.reportService().GetComplianceReport(actor, query)
	if err != nil {
		logger.Error("compliance report failed: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Ctx, report)
}

// GetAnomalyReport aggregates anomalies by status, severity and category
// @Summary      Anomaly report
// @Tags         Reports
// @Produce      json
// @Param        start_date query string false "Start date (YYYY-MM-DD)"
// @Param        end_date query string false "End date (YYYY-MM-DD)"
// @Param        status query string false "Filter by status"
// @Param        severity query string false "Filter by severity"
// @Param        category query string false "Filter by category"
// @Success      200  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /reports/anomalies [get]
// @Security     BearerAuth
func (c *ReportController) GetAnomalyReport() {
	var query services.AnomalyReportQuery
	if err := c.Ctx.ShouldBindQuery(&query); err != nil {
		response.ParamError(c.Ctx, "invalid query parameters: "+err.Error())
		return
	}

	report, err := c.reportService().GetAnomalyReport(query)
	if err != nil {
		logger.Error("anomaly report failed: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Ctx, report)
}

// GetExecutionReport aggregates executions by status
// @Summary      Execution report
// @Tags         Reports
// @Produce      json
// @Param        start_date query string false "Start date (YYYY-MM-DD)"
// @Param        end_date query string false "End date (YYYY-MM-DD)"
// @Param        status query string false "Filter by status"
// @Param        checklist_id query int false "Filter by checklist"
// @Param        employee_id query int false "Filter by employee"
// @Success      200  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /reports/executions [get]
// @Security     BearerAuth
func (c *ReportController) GetExecutionReport() {
	var query services.ExecutionReportQuery
	if err := c.Ctx.ShouldBindQuery(&query); err != nil {
		response.ParamError(c.Ctx, "invalid query parameters: "+err.Error())
		return
	}

	report, err := c.reportService().GetExecutionReport(query)
	if err != nil {
		logger.Error("execution report failed: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Ctx, report)
}

// GetEpiStatusReport summarizes the CA state of the active EPI catalog
// @Summary      EPI status report
// @Tags         Reports
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /reports/epi-status [get]
// @Security     BearerAuth
func (c *ReportController) GetEpiStatusReport() {
	report, err := c.reportService().GetEpiStatusReport()
	if err != nil {
		logger.Error("epi status report failed: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Ctx, report)
}

// HandleReportFunc returns a gin handler dispatching to the report controller
func HandleReportFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewReportController(ctx, container)

		switch method {
		case "getDashboard":
			controller.GetDashboard()
		case "getComplianceReport":
			controller.GetComplianceReport()
		case "getAnomalyReport":
			controller.GetAnomalyReport()
		case "getExecutionReport":
			controller.GetExecutionReport()
		case "getEpiStatusReport":
			controller.GetEpiStatusReport()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    code.ErrBind,
				"message": "invalid method",
				"data":    nil,
			})
		}
	}
}
