// Package access implements the role and capability model used for
// authorization decisions. It is pure: callers pass the acting user and any
// relation data (such as the supervisor's team) explicitly, so the rules can
// be evaluated and tested without a database.
package access

import "github.com/felipefantin/check-list-EPI/internal/domain/models"

// Capabilities granted per role
const (
	PermReadOwnChecklists        = "read_own_checklists"
	PermReadTeamChecklists       = "read_team_checklists"
	PermReadAllChecklists        = "read_all_checklists"
	PermCreateChecklistExecution = "create_checklist_execution"
	PermApproveChecklists        = "approve_checklists"
	PermManageEpiTypes           = "manage_epi_types"
	PermManageChecklists         = "manage_checklists"
	PermGenerateReports          = "generate_reports"

	// PermAll is the admin wildcard
	PermAll = "all"
)

// rolePermissions maps each role to its capability set
var rolePermissions = map[string][]string{
	models.RoleEmployee: {
		PermReadOwnChecklists,
		PermCreateChecklistExecution,
	},
	models.RoleSupervisor: {
		PermReadOwnChecklists,
		PermReadTeamChecklists,
		PermApproveChecklists,
		PermCreateChecklistExecution,
	},
	models.RoleSafetyTechnician: {
		PermReadAllChecklists,
		PermManageEpiTypes,
		PermManageChecklists,
		PermGenerateReports,
		PermCreateChecklistExecution,
	},
	models.RoleAdmin: {
		PermAll,
	},
}

// HasPermission reports whether the role grants the given capability.
// The admin wildcard matches everything.
func HasPermission(role, permission string) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == permission || p == PermAll {
			return true
		}
	}
	return false
}

// CanAccessUserData reports whether actor may read data belonging to the
// user with targetID. Admins and safety technicians may access anyone;
// supervisors may access members of their team; everyone may access
// themselves. supervisedIDs is the actor's team, relevant only for
// supervisors.
func CanAccessUserData(actor *models.User, targetID uint, supervisedIDs []uint) bool {
	switch actor.Role {
	case models.RoleAdmin, models.RoleSafetyTechnician:
		return true
	case models.RoleSupervisor:
		if actor.ID == targetID {
			return true
		}
		for _, id := range supervisedIDs {
			if id == targetID {
				return true
			}
		}
		return false
	default:
		return actor.ID == targetID
	}
}

// CanAccessDepartmentData reports whether actor may read aggregate data for
// a department. Admins and safety technicians see every department;
// everyone else only their own.
func CanAccessDepartmentData(actor *models.User, department string) bool {
	switch actor.Role {
	case models.RoleAdmin, models.RoleSafetyTechnician:
		return true
	default:
		return actor.Department == department
	}
}

// Scope describes the row filter to apply to a list query on
// employee-owned data
type Scope struct {
	// All is true when no filter applies (admin, safety technician)
	All bool
	// UserIDs restricts rows to these owners when All is false
	UserIDs []uint
}

// ScopeFor returns the list filter for the actor: employees see their own
// rows, supervisors their own plus their team's, privileged roles everything
func ScopeFor(actor *models.User, supervisedIDs []uint) Scope {
	switch actor.Role {
	case models.RoleAdmin, models.RoleSafetyTechnician:
		return Scope{All: true}
	case models.RoleSupervisor:
		ids := make([]uint, 0, len(supervisedIDs)+1)
		ids = append(ids, actor.ID)
		ids = append(ids, supervisedIDs...)
		return Scope{UserIDs: ids}
	default:
		return Scope{UserIDs: []uint{actor.ID}}
	}
}
