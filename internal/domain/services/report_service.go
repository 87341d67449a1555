package services

import (
	"fmt"
	"math"
	"time"

	"github.com/felipefantin/check-list-EPI/internal/domain/models"
	"github.com/felipefantin/check-list-EPI/internal/infrastructure/config"

	"gorm.io/gorm"
)

// DashboardStats are the headline numbers shown on the dashboard
type DashboardStats struct {
	TotalUsers        int64 `json:"total_users"`
	TotalEpiTypes     int64 `json:"total_epi_types"`
	TotalExecutions   int64 `json:"total_executions"`
	OpenAnomalies     int64 `json:"open_anomalies"`
	ComplianceRate    int   `json:"compliance_rate"`
	PendingExecutions int64 `json:"pending_executions"`
	ExpiringEpiTypes  int64 `json:"expiring_epi_types"`
}

// Activity is a recent-activity feed entry
type Activity struct {
	ID          uint      `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

// DashboardReport is the dashboard payload
type DashboardReport struct {
	Stats            DashboardStats `json:"stats"`
	RecentActivities []Activity     `json:"recent_activities"`
}

// ReportPeriod carries the optional date range filters shared by reports
type ReportPeriod struct {
	StartDate *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"end_date" time_format:"2006-01-02"`
}

// ComplianceStatistics aggregates item results over completed executions
type ComplianceStatistics struct {
	TotalItems         int `json:"total_items"`
	ConformItems       int `json:"conform_items"`
	NonConformItems    int `json:"non_conform_items"`
	NotApplicableItems int `json:"not_applicable_items"`
	ComplianceRate     int `json:"compliance_rate"`
}

// ComplianceReport pairs the executions with their aggregate statistics
type ComplianceReport struct {
	Executions []models.ChecklistExecution `json:"executions"`
	Statistics ComplianceStatistics        `json:"statistics"`
}

// AnomalyStatistics aggregates anomalies by status, severity and category
type AnomalyStatistics struct {
	Total      int            `json:"total"`
	Open       int            `json:"open"`
	InProgress int            `json:"in_progress"`
	Resolved   int            `json:"resolved"`
	Closed     int            `json:"closed"`
	BySeverity map[string]int `json:"by_severity"`
	ByCategory map[string]int `json:"by_category"`
}

// AnomalyReport pairs the anomalies with their aggregate statistics
type AnomalyReport struct {
	Anomalies  []models.Anomaly  `json:"anomalies"`
	Statistics AnomalyStatistics `json:"statistics"`
}

// ExecutionStatistics aggregates executions by status
type ExecutionStatistics struct {
	Total           int `json:"total"`
	Completed       int `json:"completed"`
	InProgress      int `json:"in_progress"`
	Cancelled       int `json:"cancelled"`
	PendingApproval int `json:"pending_approval"`
	Approved        int `json:"approved"`
	Rejected        int `json:"rejected"`
}

// ExecutionReport pairs the executions with their aggregate statistics
type ExecutionReport struct {
	Executions []models.ChecklistExecution `json:"executions"`
	Statistics ExecutionStatistics         `json:"statistics"`
}

// EpiStatusStatistics aggregates the EPI catalog by CA state and category
type EpiStatusStatistics struct {
	Total        int            `json:"total"`
	Active       int            `json:"active"`
	Expired      int            `json:"expired"`
	ExpiringSoon int            `json:"expiring_soon"`
	ByCategory   map[string]int `json:"by_category"`
}

// EpiStatusReport pairs the EPI types with their aggregate statistics
type EpiStatusReport struct {
	EpiTypes   []models.EpiType    `json:"epi_types"`
	Statistics EpiStatusStatistics `json:"statistics"`
}

// AnomalyReportQuery carries the anomaly report filters
type AnomalyReportQuery struct {
	ReportPeriod
	Status   string `form:"status"`
	Severity string `form:"severity"`
	Category string `form:"category"`
}

// ExecutionReportQuery carries the execution report filters
type ExecutionReportQuery struct {
	ReportPeriod
	Status      string `form:"status"`
	ChecklistID uint   `form:"checklist_id"`
	EmployeeID  uint   `form:"employee_id"`
}

// ComplianceReportQuery carries the compliance report filters
type ComplianceReportQuery struct {
	ReportPeriod
	Department string `form:"department"`
}

// InterfaceReportService defines the report service interface
type InterfaceReportService interface {
	GetDashboard() (*DashboardReport, error)
	GetComplianceReport(actor *models.User, query ComplianceReportQuery) (*ComplianceReport, error)
	GetAnomalyReport(query AnomalyReportQuery) (*AnomalyReport, error)
	GetExecutionReport(query ExecutionReportQuery) (*ExecutionReport, error)
	GetEpiStatusReport() (*EpiStatusReport, error)
}

// ReportService builds aggregate reports over the other domain entities
type ReportService struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// NewReportService creates a new report service
func NewReportService(db *gorm.DB, cfg *config.Config) InterfaceReportService {
	return &ReportService{
		DB:  db,
		Cfg: cfg,
	}
}

// GetDashboard builds the dashboard stats and the recent-activity feed
func (s *ReportService) GetDashboard() (*DashboardReport, error) {
	var stats DashboardStats

	if err := s.DB.Model(&models.User{}).Where("is_active = ?", true).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.EpiType{}).Where("is_active = ?", true).Count(&stats.TotalEpiTypes).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := s.DB.Model(&models.ChecklistExecution{}).Where("started_at >= ?", today).Count(&stats.TotalExecutions).Error; err != nil {
		return nil, err
	}

	if err := s.DB.Model(&models.Anomaly{}).
		Where("status IN ?", []string{models.AnomalyOpen, models.AnomalyInProgress}).
		Count(&stats.OpenAnomalies).Error; err != nil {
		return nil, err
	}

	thirtyDaysAgo := now.AddDate(0, 0, -30)
	var recentExecutions []models.ChecklistExecution
	if err := s.DB.Where("started_at >= ? AND status = ?", thirtyDaysAgo, models.ExecutionCompleted).
		Find(&recentExecutions).Error; err != nil {
		return nil, err
	}

	var totalItems, conformItems int
	for _, execution := range recentExecutions {
		for _, result := range execution.Results {
			totalItems++
			if result.Status == models.ItemOK {
				conformItems++
			}
		}
	}
	if totalItems > 0 {
		stats.ComplianceRate = int(math.Round(float64(conformItems) / float64(totalItems) * 100))
	}

	if err := s.DB.Model(&models.ChecklistExecution{}).
		Where("status = ?", models.ExecutionInProgress).
		Count(&stats.PendingExecutions).Error; err != nil {
		return nil, err
	}

	if err := s.DB.Model(&models.EpiType{}).
		Where("ca_expiry_date BETWEEN ? AND ? AND is_active = ?", now, now.AddDate(0, 0, 30), true).
		Count(&stats.ExpiringEpiTypes).Error; err != nil {
		return nil, err
	}

	var recent []models.ChecklistExecution
	if err := s.DB.Where("started_at >= ?", thirtyDaysAgo).
		Preload("Employee").
		Preload("Checklist").
		Order("started_at DESC").
		Limit(10).
		Find(&recent).Error; err != nil {
		return nil, err
	}

	activities := make([]Activity, 0, len(recent))
	for _, execution := range recent {
		employeeName := "user"
		if execution.Employee != nil {
			employeeName = execution.Employee.Name
		}
		checklistName := "checklist"
		if execution.Checklist != nil {
			checklistName = execution.Checklist.Name
		}
		activities = append(activities, Activity{
			ID:          execution.ID,
			Type:        "execution",
			Description: fmt.Sprintf("%s executed %s", employeeName, checklistName),
			Date:        execution.StartedAt,
		})
	}

	return &DashboardReport{Stats: stats, RecentActivities: activities}, nil
}

func applyPeriod(db *gorm.DB, column string, period ReportPeriod) *gorm.DB {
	if period.StartDate != nil {
		db = db.Where(column+" >= ?", *period.StartDate)
	}
	if period.EndDate != nil {
		db = db.Where(column+" <= ?", *period.EndDate)
	}
	return db
}

// GetComplianceReport aggregates item results over completed executions.
// Non-admins asking for a department are restricted to that department's
// employees.
func (s *ReportService) GetComplianceReport(actor *models.User, query ComplianceReportQuery) (*ComplianceReport, error) {
	db := s.DB.Where("status = ?", models.ExecutionCompleted)
	db = applyPeriod(db, "started_at", query.ReportPeriod)

	if query.Department != "" && actor.Role != models.RoleAdmin {
		var ids []uint
		if err := s.DB.Model(&models.User{}).Where("department = ?", query.Department).Pluck("id", &ids).Error; err != nil {
			return nil, err
		}
		db = db.Where("employee_id IN ?", ids)
	}

	var executions []models.ChecklistExecution
	if err := db.Preload("Employee").
		Preload("Checklist").
		Order("started_at DESC").
		Find(&executions).Error; err != nil {
		return nil, err
	}

	var stats ComplianceStatistics
	for _, execution := range executions {
		for _, result := range execution.Results {
			stats.TotalItems++
			switch result.Status {
			case models.ItemOK:
				stats.ConformItems++
			case models.ItemNotConform:
				stats.NonConformItems++
			case models.ItemNotApplicable:
				stats.NotApplicableItems++
			}
		}
	}
	if stats.TotalItems > 0 {
		stats.ComplianceRate = int(math.Round(float64(stats.ConformItems) / float64(stats.TotalItems) * 100))
	}

	return &ComplianceReport{Executions: executions, Statistics: stats}, nil
}

// GetAnomalyReport aggregates anomalies by status, severity and category
func (s *ReportService) GetAnomalyReport(query AnomalyReportQuery) (*AnomalyReport, error) {
	db := s.DB.Model(&models.Anomaly{})
	db = applyPeriod(db, "created_at", query.ReportPeriod)

	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.Severity != "" {
		db = db.Where("severity = ?", query.Severity)
	}
	if query.Category != "" {
		db = db.Where("category = ?", query.Category)
	}

	var anomalies []models.Anomaly
	if err := db.Preload("ReportedBy").
		Preload("EpiType").
		Preload("AssignedTo").
		Order("created_at DESC").
		Find(&anomalies).Error; err != nil {
		return nil, err
	}

	stats := AnomalyStatistics{
		Total:      len(anomalies),
		BySeverity: map[string]int{},
		ByCategory: map[string]int{},
	}
	for _, anomaly := range anomalies {
		switch anomaly.Status {
		case models.AnomalyOpen:
			stats.Open++
		case models.AnomalyInProgress:
			stats.InProgress++
		case models.AnomalyResolved:
			stats.Resolved++
		case models.AnomalyClosed:
			stats.Closed++
		}
		stats.BySeverity[anomaly.Severity]++
		stats.ByCategory[anomaly.Category]++
	}

	return &AnomalyReport{Anomalies: anomalies, Statistics: stats}, nil
}

// GetExecutionReport aggregates executions by status
func (s *ReportService) GetExecutionReport(query ExecutionReportQuery) (*ExecutionReport, error) {
	db := s.DB.Model(&models.ChecklistExecution{})
	db = applyPeriod(db, "started_at", query.ReportPeriod)

	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.ChecklistID != 0 {
		db = db.Where("checklist_id = ?", query.ChecklistID)
	}
	if query.EmployeeID != 0 {
		db = db.Where("employee_id = ?", query.EmployeeID)
	}

	var executions []models.ChecklistExecution
	if err := db.Preload("Employee").
		Preload("Checklist").
		Preload("Supervisor").
		Order("started_at DESC").
		Find(&executions).Error; err != nil {
		return nil, err
	}

	var stats ExecutionStatistics
	stats.Total = len(executions)
	for _, execution := range executions {
		switch execution.Status {
		case models.ExecutionCompleted:
			stats.Completed++
		case models.ExecutionInProgress:
			stats.InProgress++
		case models.ExecutionCancelled:
			stats.Cancelled++
		case models.ExecutionPendingApproval:
			stats.PendingApproval++
		case models.ExecutionApproved:
			stats.Approved++
		case models.ExecutionRejected:
			stats.Rejected++
		}
	}

	return &ExecutionReport{Executions: executions, Statistics: stats}, nil
}

// GetEpiStatusReport aggregates the active EPI catalog by CA state
func (s *ReportService) GetEpiStatusReport() (*EpiStatusReport, error) {
	var epiTypes []models.EpiType
	if err := s.DB.Where("is_active = ?", true).
		Preload("CreatedBy").
		Order("name").
		Find(&epiTypes).Error; err != nil {
		return nil, err
	}

	stats := EpiStatusStatistics{
		Total:      len(epiTypes),
		ByCategory: map[string]int{},
	}
	for i := range epiTypes {
		epi := &epiTypes[i]
		if epi.IsActive {
			stats.Active++
		}
		if epi.IsCAExpired() {
			stats.Expired++
		}
		if epi.IsCAExpiringSoon() {
			stats.ExpiringSoon++
		}
		stats.ByCategory[epi.Category]++
	}

	return &EpiStatusReport{EpiTypes: epiTypes, Statistics: stats}, nil
}
