package models

import (
	"database/sql/driver"
	"math"
	"time"
)

// EPI categories, following the body regions covered by Brazilian NR-6
const (
	CategoryHead       = "protecao_cabeca"
	CategoryHearing    = "protecao_auditiva"
	CategoryEyes       = "protecao_visual"
	CategoryRespirator = "protecao_respiratoria"
	CategoryTrunk      = "protecao_tronco"
	CategoryUpperLimbs = "protecao_membros_superiores"
	CategoryLowerLimbs = "protecao_membros_inferiores"
	CategoryFullBody   = "protecao_corpo_inteiro"
	CategoryFallArrest = "protecao_queda"
	CategoryHands      = "protecao_maos"
	CategoryFeet       = "protecao_pes"
)

// ValidEpiCategories lists every accepted EPI category
var ValidEpiCategories = []string{
	CategoryHead, CategoryHearing, CategoryEyes, CategoryRespirator,
	CategoryTrunk, CategoryUpperLimbs, CategoryLowerLimbs, CategoryFullBody,
	CategoryFallArrest, CategoryHands, CategoryFeet,
}

// IsValidEpiCategory reports whether category is one of the accepted categories
func IsValidEpiCategory(category string) bool {
	for _, c := range ValidEpiCategories {
		if c == category {
			return true
		}
	}
	return false
}

// InspectionCriterion is a single check performed on an EPI during inspection
type InspectionCriterion struct {
	Criterion   string `json:"criterion"`
	Description string `json:"description"`
	IsRequired  bool   `json:"is_required"`
}

// InspectionCriteria is stored as a JSON column
type InspectionCriteria []InspectionCriterion

func (c InspectionCriteria) Value() (driver.Value, error) {
	return jsonValue([]InspectionCriterion(c))
}

func (c *InspectionCriteria) Scan(value interface{}) error {
	return jsonScan(c, value)
}

// EpiType represents a type of personal protective equipment
type EpiType struct {
	BaseModel
	Name              string             `gorm:"type:varchar(100);not null;index" json:"name"`
	Category          string             `gorm:"type:varchar(50);not null;index" json:"category"`
	Description       string             `gorm:"type:varchar(500);not null" json:"description"`
	TechnicalStandard string             `gorm:"type:varchar(100);not null" json:"technical_standard"`
	Manufacturer      string             `gorm:"type:varchar(100);not null" json:"manufacturer"`
	Model             string             `gorm:"type:varchar(100)" json:"model"`
	CANumber          string             `gorm:"type:varchar(50);uniqueIndex;not null" json:"ca_number"` // certificate of approval
	CAExpiryDate      time.Time          `gorm:"not null;index" json:"ca_expiry_date"`
	LifespanMonths    int                `gorm:"not null" json:"lifespan_months"`
	InspectionCriteria InspectionCriteria `gorm:"type:json" json:"inspection_criteria"`
	IsActive          bool               `gorm:"default:true;index" json:"is_active"`
	Notes             string             `gorm:"type:varchar(1000)" json:"notes"`
	CreatedByID       uint               `gorm:"not null" json:"created_by_id"`
	CreatedBy         *User              `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}

// IsCAExpired reports whether the CA certificate has expired
func (e *EpiType) IsCAExpired() bool {
	return time.Now().After(e.CAExpiryDate)
}

// DaysUntilCAExpiry returns the number of days until the CA expires,
// rounded up; negative when already expired
func (e *EpiType) DaysUntilCAExpiry() int {
	diff := time.Until(e.CAExpiryDate)
	return int(math.Ceil(diff.Hours() / 24))
}

// IsCAExpiringSoon reports whether the CA expires within the next 30 days
func (e *EpiType) IsCAExpiringSoon() bool {
	days := e.DaysUntilCAExpiry()
	return days > 0 && days <= 30
}
