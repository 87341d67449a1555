package access

import (
	"testing"

	"github.com/felipefantin/check-list-EPI/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func userWithRole(id uint, role string) *models.User {
	u := &models.User{Role: role}
	u.ID = id
	return u
}

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		permission string
		want       bool
	}{
		{"employee reads own checklists", models.RoleEmployee, PermReadOwnChecklists, true},
		{"employee creates executions", models.RoleEmployee, PermCreateChecklistExecution, true},
		{"employee cannot read team checklists", models.RoleEmployee, PermReadTeamChecklists, false},
		{"employee cannot manage epi types", models.RoleEmployee, PermManageEpiTypes, false},
		{"supervisor reads team checklists", models.RoleSupervisor, PermReadTeamChecklists, true},
		{"supervisor approves checklists", models.RoleSupervisor, PermApproveChecklists, true},
		{"supervisor cannot generate reports", models.RoleSupervisor, PermGenerateReports, false},
		{"supervisor cannot read all checklists", models.RoleSupervisor, PermReadAllChecklists, false},
		{"safety technician reads all checklists", models.RoleSafetyTechnician, PermReadAllChecklists, true},
		{"safety technician manages epi types", models.RoleSafetyTechnician, PermManageEpiTypes, true},
		{"safety technician manages checklists", models.RoleSafetyTechnician, PermManageChecklists, true},
		{"safety technician generates reports", models.RoleSafetyTechnician, PermGenerateReports, true},
		{"safety technician cannot approve checklists", models.RoleSafetyTechnician, PermApproveChecklists, false},
		{"admin wildcard covers everything", models.RoleAdmin, PermManageChecklists, true},
		{"admin wildcard covers reports", models.RoleAdmin, PermGenerateReports, true},
		{"unknown role has nothing", "contractor", PermReadOwnChecklists, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasPermission(tt.role, tt.permission))
		})
	}
}

func TestCanAccessUserData(t *testing.T) {
	admin := userWithRole(1, models.RoleAdmin)
	tech := userWithRole(2, models.RoleSafetyTechnician)
	supervisor := userWithRole(3, models.RoleSupervisor)
	employee := userWithRole(4, models.RoleEmployee)

	team := []uint{4, 5}

	assert.True(t, CanAccessUserData(admin, 99, nil))
	assert.True(t, CanAccessUserData(tech, 99, nil))

	assert.True(t, CanAccessUserData(supervisor, 3, team), "supervisors access themselves")
	assert.True(t, CanAccessUserData(supervisor, 4, team), "supervisors access their team")
	assert.False(t, CanAccessUserData(supervisor, 99, team), "supervisors cannot reach outside their team")

	assert.True(t, CanAccessUserData(employee, 4, nil), "employees access themselves")
	assert.False(t, CanAccessUserData(employee, 5, nil), "employees cannot access others")
}

func TestCanAccessDepartmentData(t *testing.T) {
	admin := userWithRole(1, models.RoleAdmin)
	tech := userWithRole(2, models.RoleSafetyTechnician)
	supervisor := userWithRole(3, models.RoleSupervisor)
	supervisor.Department = "producao"
	employee := userWithRole(4, models.RoleEmployee)
	employee.Department = "producao"

	assert.True(t, CanAccessDepartmentData(admin, "manutencao"))
	assert.True(t, CanAccessDepartmentData(tech, "manutencao"))
	assert.True(t, CanAccessDepartmentData(supervisor, "producao"))
	assert.False(t, CanAccessDepartmentData(supervisor, "manutencao"))
	assert.True(t, CanAccessDepartmentData(employee, "producao"))
	assert.False(t, CanAccessDepartmentData(employee, "manutencao"))
}

func TestScopeFor(t *testing.T) {
	admin := userWithRole(1, models.RoleAdmin)
	tech := userWithRole(2, models.RoleSafetyTechnician)
	supervisor := userWithRole(3, models.RoleSupervisor)
	employee := userWithRole(4, models.RoleEmployee)

	assert.True(t, ScopeFor(admin, nil).All)
	assert.True(t, ScopeFor(tech, nil).All)

	supScope := ScopeFor(supervisor, []uint{4, 5})
	assert.False(t, supScope.All)
	assert.ElementsMatch(t, []uint{3, 4, 5}, supScope.UserIDs, "supervisor scope is self plus team")

	empScope := ScopeFor(employee, nil)
	assert.False(t, empScope.All)
	assert.Equal(t, []uint{4}, empScope.UserIDs)
}
