package models

import (
	"database/sql/driver"
	"math"
	"time"
)

// Execution statuses
const (
	ExecutionInProgress      = "in_progress"
	ExecutionCompleted       = "completed"
	ExecutionCancelled       = "cancelled"
	ExecutionPendingApproval = "pending_approval"
	ExecutionApproved        = "approved"
	ExecutionRejected        = "rejected"
)

// Item result statuses
const (
	ItemOK            = "ok"
	ItemNotConform    = "not_conform"
	ItemNotApplicable = "not_applicable"
	ItemPending       = "pending"
)

// IsValidItemStatus reports whether s is one of the accepted item statuses
func IsValidItemStatus(s string) bool {
	switch s {
	case ItemOK, ItemNotConform, ItemNotApplicable, ItemPending:
		return true
	}
	return false
}

// CriterionResult is the outcome of a single criterion check
type CriterionResult struct {
	Criterion string `json:"criterion"`
	Status    string `json:"status"` // ok, not_conform, not_applicable
	Notes     string `json:"notes,omitempty"`
}

// Photo is an evidence attachment
type Photo struct {
	Filename    string    `json:"filename"`
	Path        string    `json:"path"`
	UploadedAt  time.Time `json:"uploaded_at"`
	Description string    `json:"description,omitempty"`
}

// Photos is stored as a JSON column
type Photos []Photo

func (p Photos) Value() (driver.Value, error) {
	return jsonValue([]Photo(p))
}

func (p *Photos) Scan(value interface{}) error {
	return jsonScan(p, value)
}

// ItemResult is the outcome of one checklist item during an execution
type ItemResult struct {
	ItemOrder       int               `json:"item_order"`
	EpiTypeID       uint              `json:"epi_type_id"`
	Status          string            `json:"status"`
	CriteriaResults []CriterionResult `json:"criteria_results,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	Photos          []Photo           `json:"photos,omitempty"`
	CheckedAt       time.Time         `json:"checked_at"`
}

// ItemResults is stored as a JSON column
type ItemResults []ItemResult

func (r ItemResults) Value() (driver.Value, error) {
	return jsonValue([]ItemResult(r))
}

func (r *ItemResults) Scan(value interface{}) error {
	return jsonScan(r, value)
}

// Coordinates is an optional GPS position
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinates) Value() (driver.Value, error) {
	return jsonValue(c)
}

func (c *Coordinates) Scan(value interface{}) error {
	return jsonScan(c, value)
}

// DigitalSignature is the signature block stamped on completion
type DigitalSignature struct {
	Hash      string    `json:"hash"`
	SignedAt  time.Time `json:"signed_at"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
}

func (s DigitalSignature) Value() (driver.Value, error) {
	return jsonValue(s)
}

func (s *DigitalSignature) Scan(value interface{}) error {
	return jsonScan(s, value)
}

// Approval records the supervisor decision on a completed execution
type Approval struct {
	ApprovedByID uint      `json:"approved_by_id"`
	ApprovedAt   time.Time `json:"approved_at"`
	Notes        string    `json:"notes,omitempty"`
}

func (a Approval) Value() (driver.Value, error) {
	return jsonValue(a)
}

func (a *Approval) Scan(value interface{}) error {
	return jsonScan(a, value)
}

// ChecklistExecution is a single run of a checklist by an employee
type ChecklistExecution struct {
	BaseModel
	ChecklistID      uint       `gorm:"not null;index" json:"checklist_id"`
	Checklist        *Checklist `gorm:"foreignKey:ChecklistID" json:"checklist,omitempty"`
	ChecklistVersion int        `gorm:"not null" json:"checklist_version"` // version snapshot at start

	EmployeeID   uint  `gorm:"not null;index" json:"employee_id"`
	Employee     *User `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	SupervisorID *uint `gorm:"index" json:"supervisor_id"`
	Supervisor   *User `gorm:"foreignKey:SupervisorID" json:"supervisor,omitempty"`

	Status      string     `gorm:"type:varchar(20);default:'in_progress';index" json:"status"`
	StartedAt   time.Time  `gorm:"not null;index" json:"started_at"`
	CompletedAt *time.Time `gorm:"index" json:"completed_at"`

	Results ItemResults `gorm:"type:json" json:"results"`

	GeneralNotes string       `gorm:"type:varchar(2000)" json:"general_notes"`
	Location     string       `gorm:"type:varchar(200)" json:"location"`
	Coordinates  *Coordinates `gorm:"type:json" json:"coordinates,omitempty"`

	DigitalSignature *DigitalSignature `gorm:"type:json" json:"digital_signature,omitempty"`
	Approval         *Approval         `gorm:"type:json" json:"approval,omitempty"`
}

// GetDuration returns the execution duration in minutes, nil when not completed
func (e *ChecklistExecution) GetDuration() *int {
	if e.CompletedAt == nil {
		return nil
	}
	minutes := int(math.Round(e.CompletedAt.Sub(e.StartedAt).Minutes()))
	return &minutes
}

// HasNonConformItems reports whether any item was marked not conform
func (e *ChecklistExecution) HasNonConformItems() bool {
	for _, r := range e.Results {
		if r.Status == ItemNotConform {
			return true
		}
	}
	return false
}

// GetStatusCount counts item results per status
func (e *ChecklistExecution) GetStatusCount() map[string]int {
	counts := map[string]int{
		ItemOK:            0,
		ItemNotConform:    0,
		ItemNotApplicable: 0,
		ItemPending:       0,
	}
	for _, r := range e.Results {
		counts[r.Status]++
	}
	return counts
}

// GetCompliancePercentage returns round(ok / evaluated * 100), where
// evaluated excludes pending items; 0 when nothing was evaluated
func (e *ChecklistExecution) GetCompliancePercentage() int {
	counts := e.GetStatusCount()
	total := counts[ItemOK] + counts[ItemNotConform] + counts[ItemNotApplicable]
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(counts[ItemOK]) / float64(total) * 100))
}

// HasPendingItems reports whether any item is still pending evaluation
func (e *ChecklistExecution) HasPendingItems() bool {
	for _, r := range e.Results {
		if r.Status == ItemPending {
			return true
		}
	}
	return false
}
