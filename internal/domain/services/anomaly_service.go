package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/felipefantin/check-list-EPI/internal/domain/access"
	"github.com/felipefantin/check-list-EPI/internal/domain/models"
	"github.com/felipefantin/check-list-EPI/internal/infrastructure/config"

	"gorm.io/gorm"
)

// AnomalyListQuery carries the supported list filters
type AnomalyListQuery struct {
	models.PaginationQuery
	Status    string     `form:"status"`
	Severity  string     `form:"severity"`
	Category  string     `form:"category"`
	EpiTypeID uint       `form:"epi_type_id"`
	StartDate *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"end_date" time_format:"2006-01-02"`
}

// CreateAnomalyRequest carries the fields accepted on anomaly creation
type CreateAnomalyRequest struct {
	ChecklistExecutionID uint                `json:"checklist_execution_id" binding:"required"`
	EpiTypeID            uint                `json:"epi_type_id" binding:"required"`
	Category             string              `json:"category" binding:"required"`
	Severity             string              `json:"severity" binding:"required"`
	Description          string              `json:"description" binding:"required"`
	Location             string              `json:"location"`
	Coordinates          *models.Coordinates `json:"coordinates"`
	Photos               models.Photos       `json:"photos"`
	Tags                 models.Tags         `json:"tags"`
	Notes                string              `json:"notes"`
}

// UpdateAnomalyRequest carries the fields accepted on anomaly update
type UpdateAnomalyRequest struct {
	Category     string              `json:"category" binding:"required"`
	Severity     string              `json:"severity" binding:"required"`
	Description  *string             `json:"description"`
	Location     *string             `json:"location"`
	Coordinates  *models.Coordinates `json:"coordinates"`
	Photos       *models.Photos      `json:"photos"`
	Tags         *models.Tags        `json:"tags"`
	Notes        *string             `json:"notes"`
	AssignedToID *uint               `json:"assigned_to_id"`
	DueDate      *time.Time          `json:"due_date"`
	Priority     *string             `json:"priority"`
}

// AddActionRequest carries a corrective action
type AddActionRequest struct {
	Action      string  `json:"action" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Cost        float64 `json:"cost"`
}

// ResolveAnomalyRequest carries the resolution details
type ResolveAnomalyRequest struct {
	ResolutionMethod string  `json:"resolution_method" binding:"required"`
	Notes            string  `json:"notes" binding:"required"`
	Cost             float64 `json:"cost"`
}

// InterfaceAnomalyService defines the anomaly service interface
type InterfaceAnomalyService interface {
	ListAnomalies(actor *models.User, supervisedIDs []uint, query AnomalyListQuery) ([]models.Anomaly, models.Pagination, error)
	GetAnomalyByID(id uint) (*models.Anomaly, error)
	CreateAnomaly(actor *models.User, req CreateAnomalyRequest) (*models.Anomaly, error)
	UpdateAnomaly(actor *models.User, id uint, req UpdateAnomalyRequest) (*models.Anomaly, error)
	AddAction(actor *models.User, id uint, req AddActionRequest) (*models.Anomaly, error)
	ResolveAnomaly(actor *models.User, id uint, req ResolveAnomalyRequest) (*models.Anomaly, error)
	CloseAnomaly(id uint) (*models.Anomaly, error)
}

// AnomalyService manages the anomaly lifecycle
type AnomalyService struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// NewAnomalyService creates a new anomaly service
func NewAnomalyService(db *gorm.DB, cfg *config.Config) InterfaceAnomalyService {
	return &AnomalyService{
		DB:  db,
		Cfg: cfg,
	}
}

// ListAnomalies returns anomalies visible to the actor: employees see their
// own reports, supervisors their team's, privileged roles everything
func (s *AnomalyService) ListAnomalies(actor *models.User, supervisedIDs []uint, query AnomalyListQuery) ([]models.Anomaly, models.Pagination, error) {
	query.Normalize()

	db := s.DB.Model(&models.Anomaly{})

	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.Severity != "" {
		db = db.Where("severity = ?", query.Severity)
	}
	if query.Category != "" {
		db = db.Where("category = ?", query.Category)
	}
	if query.EpiTypeID != 0 {
		db = db.Where("epi_type_id = ?", query.EpiTypeID)
	}
	if query.StartDate != nil {
		db = db.Where("created_at >= ?", *query.StartDate)
	}
	if query.EndDate != nil {
		db = db.Where("created_at <= ?", *query.EndDate)
	}

	scope := access.ScopeFor(actor, supervisedIDs)
	if !scope.All {
		db = db.Where("reported_by_id IN ?", scope.UserIDs)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, models.Pagination{}, err
	}

	var anomalies []models.Anomaly
	err := db.Preload("ReportedBy").
		Preload("EpiType").
		Preload("AssignedTo").
		Order("created_at DESC").
		Offset(query.Offset()).
		Limit(query.Limit).
		Find(&anomalies).Error
	if err != nil {
		return nil, models.Pagination{}, err
	}

	return anomalies, models.NewPagination(query.Page, query.Limit, total), nil
}

// GetAnomalyByID returns an anomaly with its relations preloaded
func (s *AnomalyService) GetAnomalyByID(id uint) (*models.Anomaly, error) {
	var anomaly models.Anomaly
	err := s.DB.Preload("ChecklistExecution").
		Preload("ReportedBy").
		Preload("EpiType").
		Preload("AssignedTo").
		First(&anomaly, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnomalyNotFound
		}
		return nil, err
	}
	return &anomaly, nil
}

// CreateAnomaly reports an anomaly against a checklist execution
func (s *AnomalyService) CreateAnomaly(actor *models.User, req CreateAnomalyRequest) (*models.Anomaly, error) {
	if !models.IsValidAnomalyCategory(req.Category) {
		return nil, fmt.Errorf("invalid category: %w", ErrValidationFailed)
	}
	if !models.IsValidSeverity(req.Severity) {
		return nil, fmt.Errorf("invalid severity: %w", ErrValidationFailed)
	}

	var execution models.ChecklistExecution
	if err := s.DB.First(&execution, req.ChecklistExecutionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExecutionNotFound
		}
		return nil, err
	}

	var epiType models.EpiType
	if err := s.DB.First(&epiType, req.EpiTypeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEpiTypeNotFound
		}
		return nil, err
	}

	anomaly := models.Anomaly{
		ChecklistExecutionID: req.ChecklistExecutionID,
		ReportedByID:         actor.ID,
		EpiTypeID:            req.EpiTypeID,
		Category:             req.Category,
		Severity:             req.Severity,
		Description:          req.Description,
		Location:             req.Location,
		Coordinates:          req.Coordinates,
		Photos:               req.Photos,
		Tags:                 req.Tags,
		Notes:                req.Notes,
		Status:               models.AnomalyOpen,
		Priority:             models.PriorityMedium,
		SafetyImpact:         models.SafetyImpactLow,
	}
	anomaly.Normalize()

	if err := s.DB.Create(&anomaly).Error; err != nil {
		return nil, err
	}
	return &anomaly, nil
}

// UpdateAnomaly updates an anomaly. Only the reporter and privileged roles
// may edit; the critical-severity escalation rules are re-applied.
func (s *AnomalyService) UpdateAnomaly(actor *models.User, id uint, req UpdateAnomalyRequest) (*models.Anomaly, error) {
	if !models.IsValidAnomalyCategory(req.Category) {
		return nil, fmt.Errorf("invalid category: %w", ErrValidationFailed)
	}
	if !models.IsValidSeverity(req.Severity) {
		return nil, fmt.Errorf("invalid severity: %w", ErrValidationFailed)
	}

	anomaly, err := s.GetAnomalyByID(id)
	if err != nil {
		return nil, err
	}

	if anomaly.ReportedByID != actor.ID && !access.HasPermission(actor.Role, access.PermReadAllChecklists) {
		return nil, ErrAccessDenied
	}

	anomaly.Category = req.Category
	anomaly.Severity = req.Severity
	if req.Description != nil {
		anomaly.Description = *req.Description
	}
	if req.Location != nil {
		anomaly.Location = *req.Location
	}
	if req.Coordinates != nil {
		anomaly.Coordinates = req.Coordinates
	}
	if req.Photos != nil {
		anomaly.Photos = *req.Photos
	}
	if req.Tags != nil {
		anomaly.Tags = *req.Tags
	}
	if req.Notes != nil {
		anomaly.Notes = *req.Notes
	}
	if req.AssignedToID != nil {
		anomaly.AssignedToID = req.AssignedToID
	}
	if req.DueDate != nil {
		anomaly.DueDate = req.DueDate
	}
	if req.Priority != nil {
		anomaly.Priority = *req.Priority
	}
	anomaly.Normalize()

	if err := s.DB.Save(anomaly).Error; err != nil {
		return nil, err
	}
	return anomaly, nil
}

// AddAction appends a corrective action. An open anomaly automatically
// advances to in progress.
func (s *AnomalyService) AddAction(actor *models.User, id uint, req AddActionRequest) (*models.Anomaly, error) {
	anomaly, err := s.GetAnomalyByID(id)
	if err != nil {
		return nil, err
	}

	anomaly.Actions = append(anomaly.Actions, models.AnomalyAction{
		Action:      req.Action,
		Description: req.Description,
		TakenByID:   actor.ID,
		TakenAt:     time.Now(),
		Cost:        req.Cost,
	})

	if anomaly.Status == models.AnomalyOpen {
		anomaly.Status = models.AnomalyInProgress
	}
	anomaly.Normalize()

	if err := s.DB.Save(anomaly).Error; err != nil {
		return nil, err
	}
	return anomaly, nil
}

// ResolveAnomaly records the resolution and marks the anomaly resolved
func (s *AnomalyService) ResolveAnomaly(actor *models.User, id uint, req ResolveAnomalyRequest) (*models.Anomaly, error) {
	if !models.IsValidResolutionMethod(req.ResolutionMethod) || req.Notes == "" {
		return nil, ErrResolutionInvalid
	}

	anomaly, err := s.GetAnomalyByID(id)
	if err != nil {
		return nil, err
	}

	if anomaly.Status == models.AnomalyResolved || anomaly.Status == models.AnomalyClosed {
		return nil, ErrAnomalyAlreadyResolved
	}

	anomaly.Status = models.AnomalyResolved
	anomaly.Resolution = &models.Resolution{
		ResolvedByID:     actor.ID,
		ResolvedAt:       time.Now(),
		ResolutionMethod: req.ResolutionMethod,
		Notes:            req.Notes,
		Cost:             req.Cost,
	}
	anomaly.Normalize()

	if err := s.DB.Save(anomaly).Error; err != nil {
		return nil, err
	}
	return anomaly, nil
}

// CloseAnomaly marks an anomaly closed
func (s *AnomalyService) CloseAnomaly(id uint) (*models.Anomaly, error) {
	anomaly, err := s.GetAnomalyByID(id)
	if err != nil {
		return nil, err
	}

	anomaly.Status = models.AnomalyClosed
	anomaly.Normalize()

	if err := s.DB.Save(anomaly).Error; err != nil {
		return nil, err
	}
	return anomaly, nil
}
