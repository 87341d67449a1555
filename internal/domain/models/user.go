package models

import "time"

// User roles, ordered by increasing privilege
const (
	RoleEmployee         = "employee"
	RoleSupervisor       = "supervisor"
	RoleSafetyTechnician = "safety_technician"
	RoleAdmin            = "admin"
)

// ValidRoles lists every accepted user role
var ValidRoles = []string{RoleEmployee, RoleSupervisor, RoleSafetyTechnician, RoleAdmin}

// User represents an employee, supervisor, safety technician or administrator
type User struct {
	BaseModel
	Name       string `gorm:"type:varchar(100);not null" json:"name"`
	Email      string `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	// Badge number, alternative login identifier. Uniqueness is enforced in
	// the service layer so that users without a badge can coexist.
	EmployeeID string `gorm:"type:varchar(20);index" json:"employee_id"`
	Password   string `gorm:"type:varchar(100);not null" json:"-"`             // bcrypt hash, never exposed
	Role       string `gorm:"type:varchar(30);default:'employee';index" json:"role"`
	Department string `gorm:"type:varchar(100);not null;index" json:"department"`
	JobRole    string `gorm:"type:varchar(100)" json:"job_role"`

	// Supervisor relation: employees point at their supervisor,
	// supervisors carry the inverse list
	SupervisorID        *uint  `gorm:"index" json:"supervisor_id"`
	Supervisor          *User  `gorm:"foreignKey:SupervisorID" json:"supervisor,omitempty"`
	SupervisedEmployees []User `gorm:"foreignKey:SupervisorID" json:"supervised_employees,omitempty"`

	IsActive  bool       `gorm:"default:true;index" json:"is_active"`
	HireDate  *time.Time `json:"hire_date"`
	LastLogin *time.Time `json:"last_login"`
	Photo     string     `gorm:"type:varchar(255)" json:"photo"`

	// Password reset
	ResetToken       string     `gorm:"type:varchar(64);index" json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
}

// IsValidRole reports whether role is one of the accepted roles
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// SupervisedIDs returns the IDs of the preloaded supervised employees
func (u *User) SupervisedIDs() []uint {
	ids := make([]uint, 0, len(u.SupervisedEmployees))
	for _, e := range u.SupervisedEmployees {
		ids = append(ids, e.ID)
	}
	return ids
}
