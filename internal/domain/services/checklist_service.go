package services

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/felipefantin/check-list-EPI/internal/domain/access"
	"github.com/felipefantin/check-list-EPI/internal/domain/models"
	"github.com/felipefantin/check-list-EPI/internal/infrastructure/config"

	"gorm.io/gorm"
)

// ChecklistListQuery carries the supported list filters
type ChecklistListQuery struct {
	models.PaginationQuery
	Type       string `form:"type"`
	Department string `form:"department"`
	IsActive   *bool  `form:"is_active"`
	Search     string `form:"search"`
}

// ChecklistRequest carries the fields accepted on checklist create and update
type ChecklistRequest struct {
	Name          string                `json:"name" binding:"required"`
	Description   string                `json:"description" binding:"required"`
	Type          string                `json:"type" binding:"required"`
	Department    string                `json:"department"`
	JobRole       string                `json:"job_role"`
	Items         models.ChecklistItems `json:"items" binding:"required,min=1"`
	FrequencyDays int                   `json:"frequency_days" binding:"required,min=1"`
	PreferredTime string                `json:"preferred_time"`
	EffectiveDate *time.Time            `json:"effective_date"`
	ExpiryDate    *time.Time            `json:"expiry_date"`
	Notes         string                `json:"notes"`
	IsActive      *bool                 `json:"is_active"`
}

// InterfaceChecklistService defines the checklist service interface
type InterfaceChecklistService interface {
	ListChecklists(actor *models.User, query ChecklistListQuery) ([]models.Checklist, models.Pagination, error)
	ListAvailableForUser(user *models.User) ([]models.Checklist, error)
	GetChecklistByID(id uint) (*models.Checklist, error)
	GetChecklistForUser(actor *models.User, id uint) (*models.Checklist, error)
	CreateChecklist(actor *models.User, req ChecklistRequest) (*models.Checklist, error)
	UpdateChecklist(id uint, req ChecklistRequest) (*models.Checklist, error)
	DeactivateChecklist(id uint) error
	ApproveChecklist(actor *models.User, id uint) (*models.Checklist, error)
	ListTypes() []string
}

// ChecklistService manages versioned checklist templates
type ChecklistService struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// NewChecklistService creates a new checklist service
func NewChecklistService(db *gorm.DB, cfg *config.Config) InterfaceChecklistService {
	return &ChecklistService{
		DB:  db,
		Cfg: cfg,
	}
}

// ListChecklists returns checklists matching the query. Actors without the
// read-all capability only see their own department plus global checklists.
func (s *ChecklistService) ListChecklists(actor *models.User, query ChecklistListQuery) ([]models.Checklist, models.Pagination, error) {
	query.Normalize()

	db := s.DB.Model(&models.Checklist{})

	if query.Type != "" {
		db = db.Where("type = ?", query.Type)
	}
	if query.IsActive != nil {
		db = db.Where("is_active = ?", *query.IsActive)
	}
	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		db = db.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}

	if access.HasPermission(actor.Role, access.PermReadAllChecklists) {
		if query.Department != "" {
			db = db.Where("department = ?", query.Department)
		}
	} else {
		db = db.Where("department = ? OR department = ''", actor.Department)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, models.Pagination{}, err
	}

	var checklists []models.Checklist
	err := db.Preload("CreatedBy").
		Preload("ApprovedBy").
		Order("created_at DESC").
		Offset(query.Offset()).
		Limit(query.Limit).
		Find(&checklists).Error
	if err != nil {
		return nil, models.Pagination{}, err
	}

	return checklists, models.NewPagination(query.Page, query.Limit, total), nil
}

// ListAvailableForUser returns the effective checklists that apply to the
// user's department and job role
func (s *ChecklistService) ListAvailableForUser(user *models.User) ([]models.Checklist, error) {
	var checklists []models.Checklist
	err := s.DB.Where("is_active = ?", true).
		Where("department = ? OR department = ''", user.Department).
		Order("name").
		Find(&checklists).Error
	if err != nil {
		return nil, err
	}

	available := make([]models.Checklist, 0, len(checklists))
	for _, c := range checklists {
		if c.AppliesToUser(user) {
			available = append(available, c)
		}
	}
	return available, nil
}

// GetChecklistByID returns a checklist by ID
func (s *ChecklistService) GetChecklistByID(id uint) (*models.Checklist, error) {
	var checklist models.Checklist
	err := s.DB.Preload("CreatedBy").
		Preload("ApprovedBy").
		First(&checklist, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChecklistNotFound
		}
		return nil, err
	}
	return &checklist, nil
}

// GetChecklistForUser returns a checklist, rejecting actors it does not
// apply to unless they can read every checklist
func (s *ChecklistService) GetChecklistForUser(actor *models.User, id uint) (*models.Checklist, error) {
	checklist, err := s.GetChecklistByID(id)
	if err != nil {
		return nil, err
	}

	if !access.HasPermission(actor.Role, access.PermReadAllChecklists) && !checklist.AppliesToUser(actor) {
		return nil, ErrAccessDenied
	}
	return checklist, nil
}

// snapshotCriteria copies the inspection criteria of each referenced EPI type
// into items that carry none, so later catalog edits do not change the
// checklist retroactively
func (s *ChecklistService) snapshotCriteria(items models.ChecklistItems) (models.ChecklistItems, error) {
	for i := range items {
		if len(items[i].Criteria) > 0 {
			continue
		}

		var epiType models.EpiType
		if err := s.DB.First(&epiType, items[i].EpiTypeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrEpiTypeNotFound
			}
			return nil, err
		}

		criteria := make([]models.ChecklistItemCriterion, 0, len(epiType.InspectionCriteria))
		for order, c := range epiType.InspectionCriteria {
			criteria = append(criteria, models.ChecklistItemCriterion{
				Criterion:   c.Criterion,
				Description: c.Description,
				IsRequired:  c.IsRequired,
				Order:       order,
			})
		}
		items[i].Criteria = criteria
	}
	return items, nil
}

// CreateChecklist creates a checklist at version 1. The name must be unique
// and the expiry date, when set, must fall after the effective date.
func (s *ChecklistService) CreateChecklist(actor *models.User, req ChecklistRequest) (*models.Checklist, error) {
	if !models.IsValidChecklistType(req.Type) {
		return nil, fmt.Errorf("invalid checklist type: %w", ErrValidationFailed)
	}

	var count int64
	if err := s.DB.Model(&models.Checklist{}).Where("name = ?", req.Name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrChecklistAlreadyExists
	}

	effectiveDate := time.Now()
	if req.EffectiveDate != nil {
		effectiveDate = *req.EffectiveDate
	}
	if req.ExpiryDate != nil && !req.ExpiryDate.After(effectiveDate) {
		return nil, ErrInvalidPeriod
	}

	items, err := s.snapshotCriteria(req.Items)
	if err != nil {
		return nil, err
	}

	checklist := models.Checklist{
		Name:          req.Name,
		Description:   req.Description,
		Type:          req.Type,
		Department:    req.Department,
		JobRole:       req.JobRole,
		Items:         items,
		FrequencyDays: req.FrequencyDays,
		PreferredTime: req.PreferredTime,
		IsActive:      true,
		Version:       1,
		EffectiveDate: effectiveDate,
		ExpiryDate:    req.ExpiryDate,
		CreatedByID:   actor.ID,
		Notes:         req.Notes,
	}

	if err := s.DB.Create(&checklist).Error; err != nil {
		return nil, err
	}
	return &checklist, nil
}

// UpdateChecklist updates a checklist. When the items change in any way the
// version is incremented.
func (s *ChecklistService) UpdateChecklist(id uint, req ChecklistRequest) (*models.Checklist, error) {
	if !models.IsValidChecklistType(req.Type) {
		return nil, fmt.Errorf("invalid checklist type: %w", ErrValidationFailed)
	}

	var checklist models.Checklist
	if err := s.DB.First(&checklist, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChecklistNotFound
		}
		return nil, err
	}

	if req.Name != checklist.Name {
		var count int64
		if err := s.DB.Model(&models.Checklist{}).Where("name = ? AND id <> ?", req.Name, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrChecklistAlreadyExists
		}
	}

	effectiveDate := checklist.EffectiveDate
	if req.EffectiveDate != nil {
		effectiveDate = *req.EffectiveDate
	}
	expiryDate := checklist.ExpiryDate
	if req.ExpiryDate != nil {
		expiryDate = req.ExpiryDate
	}
	if expiryDate != nil && !expiryDate.After(effectiveDate) {
		return nil, ErrInvalidPeriod
	}

	items, err := s.snapshotCriteria(req.Items)
	if err != nil {
		return nil, err
	}

	if !reflect.DeepEqual(items, checklist.Items) {
		checklist.Version++
	}

	checklist.Name = req.Name
	checklist.Description = req.Description
	checklist.Type = req.Type
	checklist.Department = req.Department
	checklist.JobRole = req.JobRole
	checklist.Items = items
	checklist.FrequencyDays = req.FrequencyDays
	checklist.PreferredTime = req.PreferredTime
	checklist.EffectiveDate = effectiveDate
	checklist.ExpiryDate = expiryDate
	checklist.Notes = req.Notes
	if req.IsActive != nil {
		checklist.IsActive = *req.IsActive
	}

	if err := s.DB.Save(&checklist).Error; err != nil {
		return nil, err
	}
	return &checklist, nil
}

// DeactivateChecklist soft-deletes a checklist
func (s *ChecklistService) DeactivateChecklist(id uint) error {
	var checklist models.Checklist
	if err := s.DB.First(&checklist, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChecklistNotFound
		}
		return err
	}

	return s.DB.Model(&checklist).Update("is_active", false).Error
}

// ApproveChecklist stamps the approver and approval time on a checklist
func (s *ChecklistService) ApproveChecklist(actor *models.User, id uint) (*models.Checklist, error) {
	var checklist models.Checklist
	if err := s.DB.First(&checklist, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChecklistNotFound
		}
		return nil, err
	}

	now := time.Now()
	checklist.ApprovedByID = &actor.ID
	checklist.ApprovedAt = &now

	if err := s.DB.Save(&checklist).Error; err != nil {
		return nil, err
	}
	return &checklist, nil
}

// ListTypes returns the accepted checklist types
func (s *ChecklistService) ListTypes() []string {
	return models.ValidChecklistTypes
}
