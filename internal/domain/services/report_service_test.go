package services

import (
	"testing"
	"time"

	"github.com/felipefantin/check-list-EPI/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedCompletedExecution inserts a completed execution with the given item statuses
func seedCompletedExecution(t *testing.T, db *gorm.DB, checklistID, employeeID uint, statuses ...string) *models.ChecklistExecution {
	t.Helper()

	results := make(models.ItemResults, 0, len(statuses))
	for i, s := range statuses {
		results = append(results, models.ItemResult{ItemOrder: i, Status: s, CheckedAt: time.Now()})
	}

	now := time.Now()
	execution := models.ChecklistExecution{
		ChecklistID:      checklistID,
		ChecklistVersion: 1,
		EmployeeID:       employeeID,
		Status:           models.ExecutionCompleted,
		StartedAt:        now.Add(-time.Hour),
		CompletedAt:      &now,
		Results:          results,
	}
	require.NoError(t, db.Create(&execution).Error)
	return &execution
}

func TestGetDashboard(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db, testConfig())
	tech := seedUser(t, db, models.RoleSafetyTechnician, "seguranca")
	employee := seedUser(t, db, models.RoleEmployee, "producao")
	epiType := seedEpiType(t, db, tech.ID)
	checklist := seedChecklist(t, db, epiType.ID, tech.ID, "")

	seedCompletedExecution(t, db, checklist.ID, employee.ID, models.ItemOK, models.ItemOK, models.ItemNotConform)
	seedExecution(t, db, checklist.ID, employee.ID)

	execution := seedExecution(t, db, checklist.ID, employee.ID)
	anomalySvc := NewAnomalyService(db, testConfig())
	_, err := anomalySvc.CreateAnomaly(employee, anomalyRequest(execution.ID, epiType.ID, models.SeverityMedium))
	require.NoError(t, err)

	report, err := svc.GetDashboard()
	require.NoError(t, err)
	assert.Equal(t, int64(2), report.Stats.TotalUsers)
	assert.Equal(t, int64(1), report.Stats.TotalEpiTypes)
	assert.Equal(t, int64(3), report.Stats.TotalExecutions)
	assert.Equal(t, int64(1), report.Stats.OpenAnomalies)
	assert.Equal(t, int64(2), report.Stats.PendingExecutions)

	// 2 conform out of 3 items over the last 30 days
	assert.Equal(t, 67, report.Stats.ComplianceRate)
	assert.Len(t, report.RecentActivities, 3)
}

func TestGetComplianceReport(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db, testConfig())
	tech := seedUser(t, db, models.RoleSafetyTechnician, "seguranca")
	employee := seedUser(t, db, models.RoleEmployee, "producao")
	epiType := seedEpiType(t, db, tech.ID)
	checklist := seedChecklist(t, db, epiType.ID, tech.ID, "")

	seedCompletedExecution(t, db, checklist.ID, employee.ID,
		models.ItemOK, models.ItemNotConform, models.ItemNotApplicable, models.ItemOK)

	// in-progress executions are left out
	seedExecution(t, db, checklist.ID, employee.ID)

	report, err := svc.GetComplianceReport(tech, ComplianceReportQuery{})
	require.NoError(t, err)
	assert.Len(t, report.Executions, 1)
	assert.Equal(t, 4, report.Statistics.TotalItems)
	assert.Equal(t, 2, report.Statistics.ConformItems)
	assert.Equal(t, 1, report.Statistics.NonConformItems)
	assert.Equal(t, 1, report.Statistics.NotApplicableItems)
	assert.Equal(t, 50, report.Statistics.ComplianceRate)
}

func TestGetComplianceReportDepartmentScoping(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db, testConfig())
	tech := seedUser(t, db, models.RoleSafetyTechnician, "seguranca")
	producao := seedUser(t, db, models.RoleEmployee, "producao")
	manutencao := seedUser(t, db, models.RoleEmployee, "manutencao")
	epiType := seedEpiType(t, db, tech.ID)
	checklist := seedChecklist(t, db, epiType.ID, tech.ID, "")

	seedCompletedExecution(t, db, checklist.ID, producao.ID, models.ItemOK)
	seedCompletedExecution(t, db, checklist.ID, manutencao.ID, models.ItemNotConform)

	report, err := svc.GetComplianceReport(tech, ComplianceReportQuery{Department: "producao"})
	require.NoError(t, err)
	require.Len(t, report.Executions, 1)
	assert.Equal(t, producao.ID, report.Executions[0].EmployeeID)
	assert.Equal(t, 100, report.Statistics.ComplianceRate)
}

func TestGetAnomalyReport(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db, testConfig())
	anomalySvc := NewAnomalyService(db, testConfig())
	tech := seedUser(t, db, models.RoleSafetyTechnician, "seguranca")
	employee := seedUser(t, db, models.RoleEmployee, "producao")
	epiType := seedEpiType(t, db, tech.ID)
	checklist := seedChecklist(t, db, epiType.ID, tech.ID, "")
	execution := seedExecution(t, db, checklist.ID, employee.ID)

	_, err := anomalySvc.CreateAnomaly(employee, anomalyRequest(execution.ID, epiType.ID, models.SeverityMedium))
	require.NoError(t, err)

	critical, err := anomalySvc.CreateAnomaly(employee, anomalyRequest(execution.ID, epiType.ID, models.SeverityCritical))
	require.NoError(t, err)
	_, err = anomalySvc.ResolveAnomaly(tech, critical.ID, ResolveAnomalyRequest{
		ResolutionMethod: models.ResolutionReplacement,
		Notes:            "substituido",
	})
	require.NoError(t, err)

	report, err := svc.GetAnomalyReport(AnomalyReportQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Statistics.Total)
	assert.Equal(t, 1, report.Statistics.Open)
	assert.Equal(t, 1, report.Statistics.Resolved)
	assert.Equal(t, 1, report.Statistics.BySeverity[models.SeverityMedium])
	assert.Equal(t, 1, report.Statistics.BySeverity[models.SeverityCritical])
	assert.Equal(t, 2, report.Statistics.ByCategory[models.AnomalyDamage])

	filtered, err := svc.GetAnomalyReport(AnomalyReportQuery{Status: models.AnomalyResolved})
	require.NoError(t, err)
	assert.Equal(t, 1, filtered.Statistics.Total)
}

func TestGetExecutionReport(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db, testConfig())
	tech := seedUser(t, db, models.RoleSafetyTechnician, "seguranca")
	employee := seedUser(t, db, models.RoleEmployee, "producao")
	epiType := seedEpiType(t, db, tech.ID)
	checklist := seedChecklist(t, db, epiType.ID, tech.ID, "")

	seedCompletedExecution(t, db, checklist.ID, employee.ID, models.ItemOK)
	seedExecution(t, db, checklist.ID, employee.ID)

	cancelled := seedExecution(t, db, checklist.ID, employee.ID)
	require.NoError(t, db.Model(cancelled).Update("status", models.ExecutionCancelled).Error)

	report, err := svc.GetExecutionReport(ExecutionReportQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Statistics.Total)
	assert.Equal(t, 1, report.Statistics.Completed)
	assert.Equal(t, 1, report.Statistics.InProgress)
	assert.Equal(t, 1, report.Statistics.Cancelled)

	byStatus, err := svc.GetExecutionReport(ExecutionReportQuery{Status: models.ExecutionCompleted})
	require.NoError(t, err)
	assert.Equal(t, 1, byStatus.Statistics.Total)
}

func TestGetEpiStatusReport(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db, testConfig())
	tech := seedUser(t, db, models.RoleSafetyTechnician, "seguranca")

	seedEpiType(t, db, tech.ID)

	expiring := seedEpiType(t, db, tech.ID)
	require.NoError(t, db.Model(expiring).Update("ca_expiry_date", time.Now().AddDate(0, 0, 10)).Error)

	expired := seedEpiType(t, db, tech.ID)
	require.NoError(t, db.Model(expired).Update("ca_expiry_date", time.Now().AddDate(0, 0, -10)).Error)

	inactive := seedEpiType(t, db, tech.ID)
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	report, err := svc.GetEpiStatusReport()
	require.NoError(t, err)
	assert.Equal(t, 3, report.Statistics.Total)
	assert.Equal(t, 3, report.Statistics.Active)
	assert.Equal(t, 1, report.Statistics.Expired)
	assert.Equal(t, 1, report.Statistics.ExpiringSoon)
	assert.Equal(t, 3, report.Statistics.ByCategory[models.CategoryHead])
}
