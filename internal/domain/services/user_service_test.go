package services

import (
	"testing"

	"github.com/felipefantin/check-list-EPI/internal/domain/models"
	"github.com/felipefantin/check-list-EPI/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testConfig())
	admin := seedUser(t, db, models.RoleAdmin, "administration")
	tech := seedUser(t, db, models.RoleSafetyTechnician, "seguranca")
	supervisor := seedUser(t, db, models.RoleSupervisor, "producao")

	req := CreateUserRequest{
		Name:         "Joao Silva",
		Email:        "joao@empresa.com",
		Password:     "Secret@123",
		Role:         models.RoleEmployee,
		Department:   "producao",
		EmployeeID:   "EMP-9001",
		SupervisorID: &supervisor.ID,
	}

	user, err := svc.CreateUser(admin, req)
	require.NoError(t, err)
	assert.True(t, user.IsActive)
	assert.NotNil(t, user.HireDate, "hire date defaults to now")
	assert.NotEqual(t, "Secret@123", user.Password, "password is stored hashed")

	// Duplicate email
	_, err = svc.CreateUser(admin, req)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	// Duplicate employee ID
	dup := req
	dup.Email = "joao2@empresa.com"
	_, err = svc.CreateUser(admin, dup)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	// Supervisors do not manage accounts at all
	techReq := req
	techReq.Email = "novo.tecnico@empresa.com"
	techReq.EmployeeID = "EMP-9004"
	techReq.Role = models.RoleSafetyTechnician
	_, err = svc.CreateUser(supervisor, techReq)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.CreateUser(tech, techReq)
	assert.NoError(t, err)

	// Only admins create admins
	adminReq := req
	adminReq.Email = "chefe@empresa.com"
	adminReq.EmployeeID = "EMP-9002"
	adminReq.Role = models.RoleAdmin
	_, err = svc.CreateUser(tech, adminReq)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.CreateUser(admin, adminReq)
	assert.NoError(t, err)

	// Unknown role
	badReq := req
	badReq.Email = "x@empresa.com"
	badReq.EmployeeID = "EMP-9003"
	badReq.Role = "janitor"
	_, err = svc.CreateUser(admin, badReq)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestCreateEmployeeRequiresSupervisor(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testConfig())
	admin := seedUser(t, db, models.RoleAdmin, "administration")
	supervisor := seedUser(t, db, models.RoleSupervisor, "producao")

	req := CreateUserRequest{
		Name:       "Pedro Souza",
		Email:      "pedro@empresa.com",
		Password:   "Secret@123",
		Role:       models.RoleEmployee,
		Department: "producao",
		EmployeeID: "EMP-9100",
	}
	_, err := svc.CreateUser(admin, req)
	assert.ErrorIs(t, err, ErrValidationFailed)

	req.SupervisorID = &supervisor.ID
	created, err := svc.CreateUser(admin, req)
	require.NoError(t, err)

	// Demoting to employee without a supervisor on record is rejected too
	other := seedUser(t, db, models.RoleSupervisor, "producao")
	_, err = svc.UpdateUser(admin, other.ID, UpdateUserRequest{
		Name: other.Name, Email: other.Email, Role: models.RoleEmployee, Department: other.Department,
	})
	assert.ErrorIs(t, err, ErrValidationFailed)

	// An employee that already has one keeps it across updates
	_, err = svc.UpdateUser(admin, created.ID, UpdateUserRequest{
		Name: "Pedro S.", Email: created.Email, Role: models.RoleEmployee, Department: created.Department,
	})
	assert.NoError(t, err)
}

func TestUpdateUserAdminGate(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testConfig())
	admin := seedUser(t, db, models.RoleAdmin, "administration")
	tech := seedUser(t, db, models.RoleSafetyTechnician, "seguranca")
	supervisor := seedUser(t, db, models.RoleSupervisor, "producao")
	employee := seedUser(t, db, models.RoleEmployee, "producao")

	// Supervisors cannot update accounts
	_, err := svc.UpdateUser(supervisor, employee.ID, UpdateUserRequest{
		Name: employee.Name, Email: employee.Email, Role: models.RoleSupervisor, Department: employee.Department,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	// A non-admin cannot promote to admin
	req := UpdateUserRequest{
		Name:       employee.Name,
		Email:      employee.Email,
		Role:       models.RoleAdmin,
		Department: employee.Department,
	}
	_, err = svc.UpdateUser(tech, employee.ID, req)
	assert.ErrorIs(t, err, ErrAccessDenied)

	// A non-admin cannot touch an admin account
	req.Role = models.RoleEmployee
	_, err = svc.UpdateUser(tech, admin.ID, UpdateUserRequest{
		Name: admin.Name, Email: admin.Email, Role: models.RoleAdmin, Department: admin.Department,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Admins can
	updated, err := svc.UpdateUser(admin, employee.ID, UpdateUserRequest{
		Name:       "Novo Nome",
		Email:      employee.Email,
		Role:       models.RoleSupervisor,
		Department: "manutencao",
	})
	require.NoError(t, err)
	assert.Equal(t, "Novo Nome", updated.Name)
	assert.Equal(t, models.RoleSupervisor, updated.Role)
	assert.Equal(t, "manutencao", updated.Department)
}

func TestDeactivateUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testConfig())
	admin := seedUser(t, db, models.RoleAdmin, "administration")
	employee := seedUser(t, db, models.RoleEmployee, "producao")

	assert.ErrorIs(t, svc.DeactivateUser(admin, admin.ID), ErrSelfDeactivation)
	assert.ErrorIs(t, svc.DeactivateUser(admin, 9999), ErrUserNotFound)

	require.NoError(t, svc.DeactivateUser(admin, employee.ID))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, employee.ID).Error)
	assert.False(t, reloaded.IsActive)
}

func TestListUsersDepartmentScoping(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testConfig())
	admin := seedUser(t, db, models.RoleAdmin, "administration")
	tech := seedUser(t, db, models.RoleSafetyTechnician, "seguranca")
	supervisor := seedUser(t, db, models.RoleSupervisor, "producao")
	seedUser(t, db, models.RoleEmployee, "producao")
	seedUser(t, db, models.RoleEmployee, "manutencao")

	// Admins see everyone
	users, pagination, err := svc.ListUsers(admin, UserListQuery{})
	require.NoError(t, err)
	assert.Len(t, users, 5)
	assert.Equal(t, int64(5), pagination.Total)

	// Safety technicians are not pinned to their department either
	users, _, err = svc.ListUsers(tech, UserListQuery{Department: "manutencao"})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, "manutencao", users[0].Department)

	// Everyone else is pinned to their own department even when they ask
	// for another one
	users, _, err = svc.ListUsers(supervisor, UserListQuery{Department: "manutencao"})
	require.NoError(t, err)
	for _, u := range users {
		assert.Equal(t, "producao", u.Department)
	}
	assert.Len(t, users, 2)
}

func TestGetSupervisedIDs(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testConfig())
	supervisor := seedUser(t, db, models.RoleSupervisor, "producao")

	e1 := seedUser(t, db, models.RoleEmployee, "producao")
	e2 := seedUser(t, db, models.RoleEmployee, "producao")
	require.NoError(t, db.Model(e1).Update("supervisor_id", supervisor.ID).Error)
	require.NoError(t, db.Model(e2).Update("supervisor_id", supervisor.ID).Error)

	// Inactive team members do not count
	e3 := seedUser(t, db, models.RoleEmployee, "producao")
	require.NoError(t, db.Model(e3).Updates(map[string]interface{}{
		"supervisor_id": supervisor.ID, "is_active": false,
	}).Error)

	ids, err := svc.GetSupervisedIDs(supervisor.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{e1.ID, e2.ID}, ids)
}

func TestChangePassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testConfig())
	admin := seedUser(t, db, models.RoleAdmin, "administration")
	supervisor := seedUser(t, db, models.RoleSupervisor, "producao")

	user, err := svc.CreateUser(admin, CreateUserRequest{
		Name: "Maria", Email: "maria@empresa.com", Password: "OldSecret@1",
		Role: models.RoleEmployee, Department: "producao", EmployeeID: "EMP-8001",
		SupervisorID: &supervisor.ID,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(user.ID, "WrongSecret", "NewSecret@1"), ErrInvalidCredentials)
	assert.ErrorIs(t, svc.ChangePassword(user.ID, "OldSecret@1", "OldSecret@1"), ErrValidationFailed)
	require.NoError(t, svc.ChangePassword(user.ID, "OldSecret@1", "NewSecret@1"))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.True(t, utils.CheckPasswordHash("NewSecret@1", reloaded.Password))
}
