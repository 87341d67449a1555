package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/felipefantin/check-list-EPI/internal/domain/models"
	"github.com/felipefantin/check-list-EPI/internal/infrastructure/config"

	"gorm.io/gorm"
)

// EpiTypeListQuery carries the supported list filters
type EpiTypeListQuery struct {
	models.PaginationQuery
	Category     string `form:"category"`
	IsActive     *bool  `form:"is_active"`
	Search       string `form:"search"`
	ExpiringSoon bool   `form:"expiring_soon"`
}

// EpiTypeRequest carries the fields accepted on EPI type create and update
type EpiTypeRequest struct {
	Name               string                     `json:"name" binding:"required"`
	Category           string                     `json:"category" binding:"required"`
	Description        string                     `json:"description" binding:"required"`
	TechnicalStandard  string                     `json:"technical_standard" binding:"required"`
	Manufacturer       string                     `json:"manufacturer" binding:"required"`
	Model              string                     `json:"model"`
	CANumber           string                     `json:"ca_number" binding:"required"`
	CAExpiryDate       time.Time                  `json:"ca_expiry_date" binding:"required"`
	LifespanMonths     int                        `json:"lifespan_months" binding:"required,min=1"`
	InspectionCriteria models.InspectionCriteria  `json:"inspection_criteria"`
	Notes              string                     `json:"notes"`
	IsActive           *bool                      `json:"is_active"`
}

// EpiCategoryOption is a category value with its display label
type EpiCategoryOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// InterfaceEpiTypeService defines the EPI type service interface
type InterfaceEpiTypeService interface {
	ListEpiTypes(query EpiTypeListQuery) ([]models.EpiType, models.Pagination, error)
	GetEpiTypeByID(id uint) (*models.EpiType, error)
	CreateEpiType(actor *models.User, req EpiTypeRequest) (*models.EpiType, error)
	UpdateEpiType(id uint, req EpiTypeRequest) (*models.EpiType, error)
	DeactivateEpiType(id uint) error
	ListCategories() []EpiCategoryOption
	ListExpiringSoon() ([]models.EpiType, error)
	ListExpired() ([]models.EpiType, error)
}

// EpiTypeService manages the EPI type catalog
type EpiTypeService struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// NewEpiTypeService creates a new EPI type service
func NewEpiTypeService(db *gorm.DB, cfg *config.Config) InterfaceEpiTypeService {
	return &EpiTypeService{
		DB:  db,
		Cfg: cfg,
	}
}

// ListEpiTypes returns EPI types matching the query
func (s *EpiTypeService) ListEpiTypes(query EpiTypeListQuery) ([]models.EpiType, models.Pagination, error) {
	query.Normalize()

	db := s.DB.Model(&models.EpiType{})

	if query.Category != "" {
		db = db.Where("category = ?", query.Category)
	}
	if query.IsActive != nil {
		db = db.Where("is_active = ?", *query.IsActive)
	}
	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		db = db.Where("name LIKE ? OR manufacturer LIKE ? OR ca_number LIKE ?", pattern, pattern, pattern)
	}
	if query.ExpiringSoon {
		now := time.Now()
		db = db.Where("ca_expiry_date BETWEEN ? AND ?", now, now.AddDate(0, 0, 30))
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, models.Pagination{}, err
	}

	var epiTypes []models.EpiType
	err := db.Preload("CreatedBy").
		Order("name").
		Offset(query.Offset()).
		Limit(query.Limit).
		Find(&epiTypes).Error
	if err != nil {
		return nil, models.Pagination{}, err
	}

	return epiTypes, models.NewPagination(query.Page, query.Limit, total), nil
}

// GetEpiTypeByID returns an EPI type by ID
func (s *EpiTypeService) GetEpiTypeByID(id uint) (*models.EpiType, error) {
	var epiType models.EpiType
	err := s.DB.Preload("CreatedBy").First(&epiType, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEpiTypeNotFound
		}
		return nil, err
	}
	return &epiType, nil
}

// CreateEpiType creates an EPI type. The CA number must be unique and its
// expiry date cannot be in the past.
func (s *EpiTypeService) CreateEpiType(actor *models.User, req EpiTypeRequest) (*models.EpiType, error) {
	if !models.IsValidEpiCategory(req.Category) {
		return nil, fmt.Errorf("invalid category: %w", ErrValidationFailed)
	}
	if req.CAExpiryDate.Before(time.Now()) {
		return nil, ErrCAExpiryInPast
	}

	var count int64
	if err := s.DB.Model(&models.EpiType{}).Where("ca_number = ?", req.CANumber).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEpiTypeAlreadyExists
	}

	epiType := models.EpiType{
		Name:               req.Name,
		Category:           req.Category,
		Description:        req.Description,
		TechnicalStandard:  req.TechnicalStandard,
		Manufacturer:       req.Manufacturer,
		Model:              req.Model,
		CANumber:           req.CANumber,
		CAExpiryDate:       req.CAExpiryDate,
		LifespanMonths:     req.LifespanMonths,
		InspectionCriteria: req.InspectionCriteria,
		Notes:              req.Notes,
		IsActive:           true,
		CreatedByID:        actor.ID,
	}

	if err := s.DB.Create(&epiType).Error; err != nil {
		return nil, err
	}
	return &epiType, nil
}

// UpdateEpiType updates an EPI type under the same validation rules as create
func (s *EpiTypeService) UpdateEpiType(id uint, req EpiTypeRequest) (*models.EpiType, error) {
	if !models.IsValidEpiCategory(req.Category) {
		return nil, fmt.Errorf("invalid category: %w", ErrValidationFailed)
	}
	if req.CAExpiryDate.Before(time.Now()) {
		return nil, ErrCAExpiryInPast
	}

	var epiType models.EpiType
	if err := s.DB.First(&epiType, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEpiTypeNotFound
		}
		return nil, err
	}

	if req.CANumber != epiType.CANumber {
		var count int64
		if err := s.DB.Model(&models.EpiType{}).Where("ca_number = ? AND id <> ?", req.CANumber, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrEpiTypeAlreadyExists
		}
	}

	epiType.Name = req.Name
	epiType.Category = req.Category
	epiType.Description = req.Description
	epiType.TechnicalStandard = req.TechnicalStandard
	epiType.Manufacturer = req.Manufacturer
	epiType.Model = req.Model
	epiType.CANumber = req.CANumber
	epiType.CAExpiryDate = req.CAExpiryDate
	epiType.LifespanMonths = req.LifespanMonths
	epiType.InspectionCriteria = req.InspectionCriteria
	epiType.Notes = req.Notes
	if req.IsActive != nil {
		epiType.IsActive = *req.IsActive
	}

	if err := s.DB.Save(&epiType).Error; err != nil {
		return nil, err
	}
	return &epiType, nil
}

// DeactivateEpiType soft-deletes an EPI type
func (s *EpiTypeService) DeactivateEpiType(id uint) error {
	var epiType models.EpiType
	if err := s.DB.First(&epiType, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEpiTypeNotFound
		}
		return err
	}

	return s.DB.Model(&epiType).Update("is_active", false).Error
}

// ListCategories returns the category values with display labels
func (s *EpiTypeService) ListCategories() []EpiCategoryOption {
	return []EpiCategoryOption{
		{Value: models.CategoryHead, Label: "Proteção para Cabeça"},
		{Value: models.CategoryHearing, Label: "Proteção Auditiva"},
		{Value: models.CategoryEyes, Label: "Proteção Visual"},
		{Value: models.CategoryRespirator, Label: "Proteção Respiratória"},
		{Value: models.CategoryTrunk, Label: "Proteção para Tronco"},
		{Value: models.CategoryUpperLimbs, Label: "Proteção para Membros Superiores"},
		{Value: models.CategoryLowerLimbs, Label: "Proteção para Membros Inferiores"},
		{Value: models.CategoryFullBody, Label: "Proteção para Corpo Inteiro"},
		{Value: models.CategoryFallArrest, Label: "Proteção contra Quedas"},
		{Value: models.CategoryHands, Label: "Proteção para Mãos"},
		{Value: models.CategoryFeet, Label: "Proteção para Pés"},
	}
}

// ListExpiringSoon returns active EPI types whose CA expires within 30 days
func (s *EpiTypeService) ListExpiringSoon() ([]models.EpiType, error) {
	now := time.Now()
	var epiTypes []models.EpiType
	err := s.DB.Where("ca_expiry_date BETWEEN ? AND ? AND is_active = ?", now, now.AddDate(0, 0, 30), true).
		Preload("CreatedBy").
		Order("ca_expiry_date").
		Find(&epiTypes).Error
	return epiTypes, err
}

// ListExpired returns active EPI types whose CA has already expired
func (s *EpiTypeService) ListExpired() ([]models.EpiType, error) {
	var epiTypes []models.EpiType
	err := s.DB.Where("ca_expiry_date < ? AND is_active = ?", time.Now(), true).
		Preload("CreatedBy").
		Order("ca_expiry_date").
		Find(&epiTypes).Error
	return epiTypes, err
}
