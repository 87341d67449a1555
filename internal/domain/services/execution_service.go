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

// ExecutionListQuery carries the supported list filters
type ExecutionListQuery struct {
	models.PaginationQuery
	Status      string     `form:"status"`
	ChecklistID uint       `form:"checklist_id"`
	EmployeeID  uint       `form:"employee_id"`
	StartDate   *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate     *time.Time `form:"end_date" time_format:"2006-01-02"`
}

// CreateExecutionRequest carries the fields accepted when starting an execution
type CreateExecutionRequest struct {
	ChecklistID  uint                `json:"checklist_id" binding:"required"`
	Results      models.ItemResults  `json:"results" binding:"required,min=1"`
	GeneralNotes string              `json:"general_notes"`
	Location     string              `json:"location"`
	Coordinates  *models.Coordinates `json:"coordinates"`
}

// UpdateExecutionRequest carries the fields accepted on execution update.
// Results are replaced wholesale.
type UpdateExecutionRequest struct {
	Results      models.ItemResults  `json:"results" binding:"required,min=1"`
	GeneralNotes *string             `json:"general_notes"`
	Location     *string             `json:"location"`
	Coordinates  *models.Coordinates `json:"coordinates"`
}

// CompleteExecutionRequest carries the signature used to finalize an execution
type CompleteExecutionRequest struct {
	SignatureHash string `json:"signature_hash" binding:"required"`
}

// InterfaceExecutionService defines the execution service interface
type InterfaceExecutionService interface {
	ListExecutions(actor *models.User, supervisedIDs []uint, query ExecutionListQuery) ([]models.ChecklistExecution, models.Pagination, error)
	GetExecutionByID(id uint) (*models.ChecklistExecution, error)
	CreateExecution(actor *models.User, req CreateExecutionRequest) (*models.ChecklistExecution, error)
	UpdateExecution(actor *models.User, id uint, req UpdateExecutionRequest) (*models.ChecklistExecution, error)
	CompleteExecution(actor *models.User, id uint, signatureHash, ipAddress, userAgent string) (*models.ChecklistExecution, error)
	ApproveExecution(actor *models.User, supervisedIDs []uint, id uint, notes string) (*models.ChecklistExecution, error)
	RejectExecution(actor *models.User, supervisedIDs []uint, id uint, notes string) (*models.ChecklistExecution, error)
	CancelExecution(actor *models.User, id uint) (*models.ChecklistExecution, error)
}

// ExecutionService manages the checklist execution lifecycle
type ExecutionService struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// NewExecutionService creates a new execution service
func NewExecutionService(db *gorm.DB, cfg *config.Config) InterfaceExecutionService {
	return &ExecutionService{
		DB:  db,
		Cfg: cfg,
	}
}

// ListExecutions returns executions visible to the actor: employees see
// their own, supervisors their team's, privileged roles everything
func (s *ExecutionService) ListExecutions(actor *models.User, supervisedIDs []uint, query ExecutionListQuery) ([]models.ChecklistExecution, models.Pagination, error) {
	query.Normalize()

	db := s.DB.Model(&models.ChecklistExecution{})

	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.ChecklistID != 0 {
		db = db.Where("checklist_id = ?", query.ChecklistID)
	}
	if query.StartDate != nil {
		db = db.Where("started_at >= ?", *query.StartDate)
	}
	if query.EndDate != nil {
		db = db.Where("started_at <= ?", *query.EndDate)
	}

	scope := access.ScopeFor(actor, supervisedIDs)
	if scope.All {
		if query.EmployeeID != 0 {
			db = db.Where("employee_id = ?", query.EmployeeID)
		}
	} else {
		db = db.Where("employee_id IN ?", scope.UserIDs)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, models.Pagination{}, err
	}

	var executions []models.ChecklistExecution
	err := db.Preload("Checklist").
		Preload("Employee").
		Preload("Supervisor").
		Order("started_at DESC").
		Offset(query.Offset()).
		Limit(query.Limit).
		Find(&executions).Error
	if err != nil {
		return nil, models.Pagination{}, err
	}

	return executions, models.NewPagination(query.Page, query.Limit, total), nil
}

// GetExecutionByID returns an execution with its relations preloaded
func (s *ExecutionService) GetExecutionByID(id uint) (*models.ChecklistExecution, error) {
	var execution models.ChecklistExecution
	err := s.DB.Preload("Checklist").
		Preload("Employee").
		Preload("Supervisor").
		First(&execution, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExecutionNotFound
		}
		return nil, err
	}
	return &execution, nil
}

// CreateExecution starts an execution of a checklist for the acting user,
// snapshotting the checklist version and the user's supervisor
func (s *ExecutionService) CreateExecution(actor *models.User, req CreateExecutionRequest) (*models.ChecklistExecution, error) {
	var checklist models.Checklist
	if err := s.DB.First(&checklist, req.ChecklistID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChecklistNotFound
		}
		return nil, err
	}

	if !checklist.IsEffective() {
		return nil, ErrChecklistNotEffective
	}

	results := req.Results
	now := time.Now()
	for i := range results {
		if results[i].Status == "" {
			results[i].Status = models.ItemPending
		}
		if !models.IsValidItemStatus(results[i].Status) {
			return nil, fmt.Errorf("invalid item status: %w", ErrValidationFailed)
		}
		if results[i].CheckedAt.IsZero() {
			results[i].CheckedAt = now
		}
	}

	execution := models.ChecklistExecution{
		ChecklistID:      checklist.ID,
		ChecklistVersion: checklist.Version,
		EmployeeID:       actor.ID,
		SupervisorID:     actor.SupervisorID,
		Status:           models.ExecutionInProgress,
		StartedAt:        now,
		Results:          results,
		GeneralNotes:     req.GeneralNotes,
		Location:         req.Location,
		Coordinates:      req.Coordinates,
	}

	if err := s.DB.Create(&execution).Error; err != nil {
		return nil, err
	}
	return &execution, nil
}

// UpdateExecution replaces the results of an in-progress execution. Only the
// owning employee and privileged roles may edit.
func (s *ExecutionService) UpdateExecution(actor *models.User, id uint, req UpdateExecutionRequest) (*models.ChecklistExecution, error) {
	execution, err := s.GetExecutionByID(id)
	if err != nil {
		return nil, err
	}

	if execution.EmployeeID != actor.ID &&
		actor.Role != models.RoleAdmin && actor.Role != models.RoleSafetyTechnician {
		return nil, ErrAccessDenied
	}

	if execution.Status != models.ExecutionInProgress {
		return nil, ErrExecutionCompleted
	}

	for i := range req.Results {
		if !models.IsValidItemStatus(req.Results[i].Status) {
			return nil, fmt.Errorf("invalid item status: %w", ErrValidationFailed)
		}
		if req.Results[i].CheckedAt.IsZero() {
			req.Results[i].CheckedAt = time.Now()
		}
	}

	execution.Results = req.Results
	if req.GeneralNotes != nil {
		execution.GeneralNotes = *req.GeneralNotes
	}
	if req.Location != nil {
		execution.Location = *req.Location
	}
	if req.Coordinates != nil {
		execution.Coordinates = req.Coordinates
	}

	if err := s.DB.Save(execution).Error; err != nil {
		return nil, err
	}
	return execution, nil
}

// CompleteExecution finalizes an execution. Every item must be evaluated,
// a signature hash is mandatory and only the owning employee may complete.
func (s *ExecutionService) CompleteExecution(actor *models.User, id uint, signatureHash, ipAddress, userAgent string) (*models.ChecklistExecution, error) {
	execution, err := s.GetExecutionByID(id)
	if err != nil {
		return nil, err
	}

	if execution.EmployeeID != actor.ID {
		return nil, ErrAccessDenied
	}
	if execution.Status != models.ExecutionInProgress {
		return nil, ErrExecutionCompleted
	}
	if signatureHash == "" {
		return nil, ErrSignatureRequired
	}
	if execution.HasPendingItems() {
		return nil, ErrPendingItems
	}

	now := time.Now()
	execution.Status = models.ExecutionCompleted
	execution.CompletedAt = &now
	execution.DigitalSignature = &models.DigitalSignature{
		Hash:      signatureHash,
		SignedAt:  now,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}

	if err := s.DB.Save(execution).Error; err != nil {
		return nil, err
	}
	return execution, nil
}

// ApproveExecution marks a completed execution as approved. The actor must
// supervise the owning employee unless they hold a privileged role.
func (s *ExecutionService) ApproveExecution(actor *models.User, supervisedIDs []uint, id uint, notes string) (*models.ChecklistExecution, error) {
	return s.decide(actor, supervisedIDs, id, models.ExecutionApproved, notes)
}

// RejectExecution marks a completed execution as rejected, under the same
// supervision rule as ApproveExecution
func (s *ExecutionService) RejectExecution(actor *models.User, supervisedIDs []uint, id uint, notes string) (*models.ChecklistExecution, error) {
	return s.decide(actor, supervisedIDs, id, models.ExecutionRejected, notes)
}

func (s *ExecutionService) decide(actor *models.User, supervisedIDs []uint, id uint, status, notes string) (*models.ChecklistExecution, error) {
	execution, err := s.GetExecutionByID(id)
	if err != nil {
		return nil, err
	}

	if !access.CanAccessUserData(actor, execution.EmployeeID, supervisedIDs) {
		return nil, ErrAccessDenied
	}

	if execution.Status != models.ExecutionCompleted && execution.Status != models.ExecutionPendingApproval {
		return nil, ErrInvalidTransition
	}

	execution.Status = status
	execution.Approval = &models.Approval{
		ApprovedByID: actor.ID,
		ApprovedAt:   time.Now(),
		Notes:        notes,
	}

	if err := s.DB.Save(execution).Error; err != nil {
		return nil, err
	}
	return execution, nil
}

// CancelExecution cancels an in-progress execution. Only the owning employee
// and privileged roles may cancel.
func (s *ExecutionService) CancelExecution(actor *models.User, id uint) (*models.ChecklistExecution, error) {
	execution, err := s.GetExecutionByID(id)
	if err != nil {
		return nil, err
	}

	if execution.EmployeeID != actor.ID &&
		actor.Role != models.RoleAdmin && actor.Role != models.RoleSafetyTechnician {
		return nil, ErrAccessDenied
	}
	if execution.Status != models.ExecutionInProgress {
		return nil, ErrInvalidTransition
	}

	execution.Status = models.ExecutionCancelled
	if err := s.DB.Save(execution).Error; err != nil {
		return nil, err
	}
	return execution, nil
}
