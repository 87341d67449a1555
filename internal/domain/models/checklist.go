package models

import (
	"database/sql/driver"
	"time"
)

// Checklist execution frequencies
const (
	ChecklistDaily     = "daily"
	ChecklistWeekly    = "weekly"
	ChecklistMonthly   = "monthly"
	ChecklistQuarterly = "quarterly"
	ChecklistAnnual    = "annual"
	ChecklistOnDemand  = "on_demand"
)

// ValidChecklistTypes lists every accepted checklist type
var ValidChecklistTypes = []string{
	ChecklistDaily, ChecklistWeekly, ChecklistMonthly,
	ChecklistQuarterly, ChecklistAnnual, ChecklistOnDemand,
}

// IsValidChecklistType reports whether t is one of the accepted checklist types
func IsValidChecklistType(t string) bool {
	for _, v := range ValidChecklistTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ChecklistItemCriterion is a check evaluated for a checklist item
type ChecklistItemCriterion struct {
	Criterion   string `json:"criterion"`
	Description string `json:"description"`
	IsRequired  bool   `json:"is_required"`
	Order       int    `json:"order"`
}

// ChecklistItem is one EPI entry inside a checklist, with its criteria
// snapshotted at authoring time
type ChecklistItem struct {
	EpiTypeID  uint                     `json:"epi_type_id"`
	Criteria   []ChecklistItemCriterion `json:"criteria"`
	IsRequired bool                     `json:"is_required"`
	Order      int                      `json:"order"`
	Notes      string                   `json:"notes,omitempty"`
}

// ChecklistItems is stored as a JSON column
type ChecklistItems []ChecklistItem

func (i ChecklistItems) Value() (driver.Value, error) {
	return jsonValue([]ChecklistItem(i))
}

func (i *ChecklistItems) Scan(value interface{}) error {
	return jsonScan(i, value)
}

// Checklist is a versioned inspection template
type Checklist struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);not null;index" json:"name"`
	Description string `gorm:"type:varchar(500);not null" json:"description"`
	Type        string `gorm:"type:varchar(20);default:'daily';not null;index" json:"type"`

	// Applicability filters; empty means the checklist applies to everyone
	Department string `gorm:"type:varchar(100);index" json:"department"`
	JobRole    string `gorm:"type:varchar(100);index" json:"job_role"`

	Items ChecklistItems `gorm:"type:json" json:"items"`

	FrequencyDays int    `gorm:"default:1" json:"frequency_days"`
	PreferredTime string `gorm:"type:varchar(5)" json:"preferred_time"` // HH:MM

	IsActive bool `gorm:"default:true;index" json:"is_active"`
	Version  int  `gorm:"default:1" json:"version"`

	EffectiveDate time.Time  `gorm:"not null;index" json:"effective_date"`
	ExpiryDate    *time.Time `gorm:"index" json:"expiry_date"`

	CreatedByID  uint       `gorm:"not null" json:"created_by_id"`
	CreatedBy    *User      `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	ApprovedByID *uint      `json:"approved_by_id"`
	ApprovedBy   *User      `gorm:"foreignKey:ApprovedByID" json:"approved_by,omitempty"`
	ApprovedAt   *time.Time `json:"approved_at"`

	Notes string `gorm:"type:varchar(1000)" json:"notes"`
}

// IsEffective reports whether the checklist is active and within its validity period
func (c *Checklist) IsEffective() bool {
	now := time.Now()
	if !c.IsActive || now.Before(c.EffectiveDate) {
		return false
	}
	if c.ExpiryDate != nil && now.After(*c.ExpiryDate) {
		return false
	}
	return true
}

// AppliesToUser reports whether the checklist is effective and matches the
// user's department and job role
func (c *Checklist) AppliesToUser(user *User) bool {
	if !c.IsEffective() {
		return false
	}
	if c.Department != "" && c.Department != user.Department {
		return false
	}
	if c.JobRole != "" && c.JobRole != user.JobRole {
		return false
	}
	return true
}

// GetNextExecutionDate returns when the checklist should next be executed
func (c *Checklist) GetNextExecutionDate(lastExecution *time.Time) time.Time {
	if lastExecution == nil {
		return time.Now()
	}
	return lastExecution.AddDate(0, 0, c.FrequencyDays)
}
