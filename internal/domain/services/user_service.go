package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/felipefantin/check-list-EPI/internal/domain/models"
	"github.com/felipefantin/check-list-EPI/internal/infrastructure/config"
	"github.com/felipefantin/check-list-EPI/utils"

	"gorm.io/gorm"
)

// UserListQuery carries the supported list filters
type UserListQuery struct {
	models.PaginationQuery
	Role       string `form:"role"`
	Department string `form:"department"`
	IsActive   *bool  `form:"is_active"`
	Search     string `form:"search"`
}

// CreateUserRequest carries the fields accepted on user creation
type CreateUserRequest struct {
	Name         string     `json:"name" binding:"required"`
	Email        string     `json:"email" binding:"required,email"`
	Password     string     `json:"password" binding:"required,min=6"`
	Role         string     `json:"role" binding:"required"`
	Department   string     `json:"department" binding:"required"`
	JobRole      string     `json:"job_role"`
	EmployeeID   string     `json:"employee_id"`
	SupervisorID *uint      `json:"supervisor_id"`
	HireDate     *time.Time `json:"hire_date"`
	Photo        string     `json:"photo"`
}

// UpdateUserRequest carries the fields accepted on user update
type UpdateUserRequest struct {
	Name         string     `json:"name" binding:"required"`
	Email        string     `json:"email" binding:"required,email"`
	Role         string     `json:"role" binding:"required"`
	Department   string     `json:"department" binding:"required"`
	JobRole      *string    `json:"job_role"`
	EmployeeID   *string    `json:"employee_id"`
	SupervisorID *uint      `json:"supervisor_id"`
	IsActive     *bool      `json:"is_active"`
	Photo        *string    `json:"photo"`
	HireDate     *time.Time `json:"hire_date"`
}

// InterfaceUserService defines the user service interface
type InterfaceUserService interface {
	ListUsers(actor *models.User, query UserListQuery) ([]models.User, models.Pagination, error)
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	CreateUser(actor *models.User, req CreateUserRequest) (*models.User, error)
	UpdateUser(actor *models.User, id uint, req UpdateUserRequest) (*models.User, error)
	DeactivateUser(actor *models.User, id uint) error
	ListDepartments() ([]string, error)
	ListSupervisors() ([]models.User, error)
	GetTeam(supervisorID uint) ([]models.User, error)
	GetSupervisedIDs(userID uint) ([]uint, error)
	ChangePassword(userID uint, currentPassword, newPassword string) error
	SetPassword(userID uint, newPassword string) error
}

// UserService manages user accounts and the supervisor relation
type UserService struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB, cfg *config.Config) InterfaceUserService {
	return &UserService{
		DB:  db,
		Cfg: cfg,
	}
}

// ListUsers returns users matching the query. Admins and safety technicians
// see every department; everyone else is pinned to their own regardless of
// the filter they asked for.
func (s *UserService) ListUsers(actor *models.User, query UserListQuery) ([]models.User, models.Pagination, error) {
	query.Normalize()

	db := s.DB.Model(&models.User{})

	if query.Role != "" {
		db = db.Where("role = ?", query.Role)
	}
	if query.Department != "" {
		db = db.Where("department = ?", query.Department)
	}
	if query.IsActive != nil {
		db = db.Where("is_active = ?", *query.IsActive)
	}
	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		db = db.Where("name LIKE ? OR email LIKE ? OR employee_id LIKE ?", pattern, pattern, pattern)
	}

	if actor.Role != models.RoleAdmin && actor.Role != models.RoleSafetyTechnician {
		db = db.Where("department = ?", actor.Department)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, models.Pagination{}, err
	}

	var users []models.User
	err := db.Preload("Supervisor").
		Preload("SupervisedEmployees").
		Order("created_at DESC").
		Offset(query.Offset()).
		Limit(query.Limit).
		Find(&users).Error
	if err != nil {
		return nil, models.Pagination{}, err
	}

	return users, models.NewPagination(query.Page, query.Limit, total), nil
}

// GetUserByID returns a user with supervisor relations preloaded
func (s *UserService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	err := s.DB.Preload("Supervisor").
		Preload("SupervisedEmployees").
		First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail returns a user by email
func (s *UserService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a user. Account management is restricted to safety
// technicians and admins, and only admins may create other admins.
func (s *UserService) CreateUser(actor *models.User, req CreateUserRequest) (*models.User, error) {
	if actor.Role != models.RoleAdmin && actor.Role != models.RoleSafetyTechnician {
		return nil, ErrAccessDenied
	}
	if !models.IsValidRole(req.Role) {
		return nil, fmt.Errorf("invalid role: %w", ErrValidationFailed)
	}
	if req.Role == models.RoleAdmin && actor.Role != models.RoleAdmin {
		return nil, ErrAccessDenied
	}
	if req.Role == models.RoleEmployee && req.SupervisorID == nil {
		return nil, fmt.Errorf("employee accounts need a supervisor: %w", ErrValidationFailed)
	}

	var count int64
	if err := s.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUserAlreadyExists
	}

	if req.EmployeeID != "" {
		if err := s.DB.Model(&models.User{}).Where("employee_id = ?", req.EmployeeID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrUserAlreadyExists
		}
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	hireDate := req.HireDate
	if hireDate == nil {
		now := time.Now()
		hireDate = &now
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		EmployeeID:   req.EmployeeID,
		Password:     hash,
		Role:         req.Role,
		Department:   req.Department,
		JobRole:      req.JobRole,
		SupervisorID: req.SupervisorID,
		HireDate:     hireDate,
		Photo:        req.Photo,
		IsActive:     true,
	}

	if err := s.DB.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates a user. Account management is restricted to safety
// technicians and admins; only admins may grant the admin role or touch
// existing admin accounts.
func (s *UserService) UpdateUser(actor *models.User, id uint, req UpdateUserRequest) (*models.User, error) {
	if actor.Role != models.RoleAdmin && actor.Role != models.RoleSafetyTechnician {
		return nil, ErrAccessDenied
	}
	if !models.IsValidRole(req.Role) {
		return nil, fmt.Errorf("invalid role: %w", ErrValidationFailed)
	}

	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if (req.Role == models.RoleAdmin || user.Role == models.RoleAdmin) && actor.Role != models.RoleAdmin {
		return nil, ErrAccessDenied
	}

	if req.Email != user.Email {
		var count int64
		if err := s.DB.Model(&models.User{}).Where("email = ? AND id <> ?", req.Email, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrUserAlreadyExists
		}
	}

	if req.EmployeeID != nil && *req.EmployeeID != user.EmployeeID && *req.EmployeeID != "" {
		var count int64
		if err := s.DB.Model(&models.User{}).Where("employee_id = ? AND id <> ?", *req.EmployeeID, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrUserAlreadyExists
		}
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Role = req.Role
	user.Department = req.Department
	if req.JobRole != nil {
		user.JobRole = *req.JobRole
	}
	if req.EmployeeID != nil {
		user.EmployeeID = *req.EmployeeID
	}
	if req.SupervisorID != nil {
		user.SupervisorID = req.SupervisorID
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Photo != nil {
		user.Photo = *req.Photo
	}
	if req.HireDate != nil {
		user.HireDate = req.HireDate
	}

	if user.Role == models.RoleEmployee && user.SupervisorID == nil {
		return nil, fmt.Errorf("employee accounts need a supervisor: %w", ErrValidationFailed)
	}

	if err := s.DB.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// DeactivateUser soft-deletes a user. Self-deactivation is rejected and
// only admins may deactivate admin accounts.
func (s *UserService) DeactivateUser(actor *models.User, id uint) error {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if user.Role == models.RoleAdmin && actor.Role != models.RoleAdmin {
		return ErrAccessDenied
	}
	if user.ID == actor.ID {
		return ErrSelfDeactivation
	}

	return s.DB.Model(&user).Update("is_active", false).Error
}

// ListDepartments returns the distinct departments of active users
func (s *UserService) ListDepartments() ([]string, error) {
	var departments []string
	err := s.DB.Model(&models.User{}).
		Where("is_active = ?", true).
		Distinct("department").
		Order("department").
		Pluck("department", &departments).Error
	return departments, err
}

// ListSupervisors returns active supervisors ordered by name
func (s *UserService) ListSupervisors() ([]models.User, error) {
	var supervisors []models.User
	err := s.DB.Where("role = ? AND is_active = ?", models.RoleSupervisor, true).
		Order("name").
		Find(&supervisors).Error
	return supervisors, err
}

// GetTeam returns the active employees supervised by supervisorID
func (s *UserService) GetTeam(supervisorID uint) ([]models.User, error) {
	var team []models.User
	err := s.DB.Where("supervisor_id = ? AND is_active = ?", supervisorID, true).
		Order("name").
		Find(&team).Error
	return team, err
}

// GetSupervisedIDs returns the IDs of the active users supervised by userID
func (s *UserService) GetSupervisedIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := s.DB.Model(&models.User{}).
		Where("supervisor_id = ? AND is_active = ?", userID, true).
		Pluck("id", &ids).Error
	return ids, err
}

// ChangePassword verifies the current password and stores a new one
func (s *UserService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !utils.CheckPasswordHash(currentPassword, user.Password) {
		return ErrInvalidCredentials
	}
	if newPassword == currentPassword {
		return fmt.Errorf("new password must differ from the current one: %w", ErrValidationFailed)
	}

	return s.SetPassword(userID, newPassword)
}

// SetPassword stores a new password hash for a user
func (s *UserService) SetPassword(userID uint, newPassword string) error {
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.DB.Model(&models.User{}).Where("id = ?", userID).Update("password", hash).Error
}
