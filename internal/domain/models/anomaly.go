package models

import (
	"database/sql/driver"
	"math"
	"time"
)

// Anomaly categories
const (
	AnomalyDamage        = "damage"
	AnomalyWear          = "wear"
	AnomalyExpired       = "expired"
	AnomalyMissing       = "missing"
	AnomalyWrongSize     = "wrong_size"
	AnomalyContamination = "contamination"
	AnomalyOther         = "other"
)

// Anomaly severities
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Anomaly priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Safety impact levels
const (
	SafetyImpactNone   = "none"
	SafetyImpactLow    = "low"
	SafetyImpactMedium = "medium"
	SafetyImpactHigh   = "high"
)

// Anomaly statuses
const (
	AnomalyOpen       = "open"
	AnomalyInProgress = "in_progress"
	AnomalyResolved   = "resolved"
	AnomalyClosed     = "closed"
)

// Resolution methods
const (
	ResolutionReplacement = "replacement"
	ResolutionRepair      = "repair"
	ResolutionMaintenance = "maintenance"
	ResolutionDisposal    = "disposal"
	ResolutionOther       = "other"
)

// ValidAnomalyCategories lists every accepted anomaly category
var ValidAnomalyCategories = []string{
	AnomalyDamage, AnomalyWear, AnomalyExpired, AnomalyMissing,
	AnomalyWrongSize, AnomalyContamination, AnomalyOther,
}

// IsValidAnomalyCategory reports whether c is one of the accepted categories
func IsValidAnomalyCategory(c string) bool {
	for _, v := range ValidAnomalyCategories {
		if v == c {
			return true
		}
	}
	return false
}

// IsValidSeverity reports whether s is one of the accepted severities
func IsValidSeverity(s string) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// IsValidResolutionMethod reports whether m is one of the accepted methods
func IsValidResolutionMethod(m string) bool {
	switch m {
	case ResolutionReplacement, ResolutionRepair, ResolutionMaintenance, ResolutionDisposal, ResolutionOther:
		return true
	}
	return false
}

// AnomalyAction is a corrective action taken on an anomaly
type AnomalyAction struct {
	Action      string    `json:"action"`
	Description string    `json:"description"`
	TakenByID   uint      `json:"taken_by_id"`
	TakenAt     time.Time `json:"taken_at"`
	Cost        float64   `json:"cost"`
}

// AnomalyActions is stored as a JSON column
type AnomalyActions []AnomalyAction

func (a AnomalyActions) Value() (driver.Value, error) {
	return jsonValue([]AnomalyAction(a))
}

func (a *AnomalyActions) Scan(value interface{}) error {
	return jsonScan(a, value)
}

// Resolution records how an anomaly was resolved
type Resolution struct {
	ResolvedByID     uint      `json:"resolved_by_id"`
	ResolvedAt       time.Time `json:"resolved_at"`
	ResolutionMethod string    `json:"resolution_method"`
	Notes            string    `json:"notes"`
	Cost             float64   `json:"cost"`
}

func (r Resolution) Value() (driver.Value, error) {
	return jsonValue(r)
}

func (r *Resolution) Scan(value interface{}) error {
	return jsonScan(r, value)
}

// Tags is stored as a JSON column
type Tags []string

func (t Tags) Value() (driver.Value, error) {
	return jsonValue([]string(t))
}

func (t *Tags) Scan(value interface{}) error {
	return jsonScan(t, value)
}

// Anomaly is a nonconformity found during a checklist execution
type Anomaly struct {
	BaseModel
	ChecklistExecutionID uint                `gorm:"not null;index" json:"checklist_execution_id"`
	ChecklistExecution   *ChecklistExecution `gorm:"foreignKey:ChecklistExecutionID" json:"checklist_execution,omitempty"`
	ReportedByID         uint                `gorm:"not null;index" json:"reported_by_id"`
	ReportedBy           *User               `gorm:"foreignKey:ReportedByID" json:"reported_by,omitempty"`
	EpiTypeID            uint                `gorm:"not null;index" json:"epi_type_id"`
	EpiType              *EpiType            `gorm:"foreignKey:EpiTypeID" json:"epi_type,omitempty"`

	Category    string `gorm:"type:varchar(30);not null;index" json:"category"`
	Severity    string `gorm:"type:varchar(20);not null;index" json:"severity"`
	Description string `gorm:"type:varchar(1000);not null" json:"description"`

	Location     string       `gorm:"type:varchar(200)" json:"location"`
	Coordinates  *Coordinates `gorm:"type:json" json:"coordinates,omitempty"`
	Photos       Photos       `gorm:"type:json" json:"photos"`

	Status       string     `gorm:"type:varchar(20);default:'open';index" json:"status"`
	Priority     string     `gorm:"type:varchar(20);default:'medium';index" json:"priority"`
	SafetyImpact string     `gorm:"type:varchar(20);default:'low'" json:"safety_impact"`
	DueDate      *time.Time `gorm:"index" json:"due_date"`

	AssignedToID *uint `gorm:"index" json:"assigned_to_id"`
	AssignedTo   *User `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`

	Actions    AnomalyActions `gorm:"type:json" json:"actions"`
	Resolution *Resolution    `gorm:"type:json" json:"resolution,omitempty"`

	Tags  Tags   `gorm:"type:json" json:"tags"`
	Notes string `gorm:"type:varchar(2000)" json:"notes"`
}

// Normalize enforces the critical-severity escalation rules; call before
// every save
func (a *Anomaly) Normalize() {
	if a.Severity == SeverityCritical {
		if a.Priority != PriorityHigh && a.Priority != PriorityUrgent {
			a.Priority = PriorityUrgent
		}
		if a.SafetyImpact != SafetyImpactHigh {
			a.SafetyImpact = SafetyImpactHigh
		}
	}
}

// GetResolutionTime returns the hours between creation and resolution,
// nil when unresolved
func (a *Anomaly) GetResolutionTime() *int {
	if a.Resolution == nil || a.Resolution.ResolvedAt.IsZero() {
		return nil
	}
	hours := int(math.Round(a.Resolution.ResolvedAt.Sub(a.CreatedAt).Hours()))
	return &hours
}

// IsOverdue reports whether the anomaly passed its due date while still open
func (a *Anomaly) IsOverdue() bool {
	if a.DueDate == nil || a.Status == AnomalyResolved || a.Status == AnomalyClosed {
		return false
	}
	return time.Now().After(*a.DueDate)
}

// GetOverdueDays returns how many days the anomaly is overdue, rounded up
func (a *Anomaly) GetOverdueDays() int {
	if !a.IsOverdue() {
		return 0
	}
	return int(math.Ceil(time.Since(*a.DueDate).Hours() / 24))
}

// GetTotalCost sums the cost of all actions plus the resolution cost
func (a *Anomaly) GetTotalCost() float64 {
	var total float64
	for _, action := range a.Actions {
		total += action.Cost
	}
	if a.Resolution != nil {
		total += a.Resolution.Cost
	}
	return total
}
