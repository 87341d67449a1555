package services

import (
	"testing"
	"time"

	"github.com/felipefantin/check-list-EPI/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executionRequest(checklistID, epiTypeID uint, status string) CreateExecutionRequest {
	return CreateExecutionRequest{
		ChecklistID: checklistID,
		Results: models.ItemResults{
			{ItemOrder: 0, EpiTypeID: epiTypeID, Status: status},
		},
		Location: "Setor A",
	}
}

func TestCreateExecution(t *testing.T) {
	db := newTestDB(t)
	svc := NewExecutionService(db, testConfig())
	tech := seedUser(t, db, models.RoleSafetyTechnician, "seguranca")
	supervisor := seedUser(t, db, models.RoleSupervisor, "producao")
	employee := seedUser(t, db, models.RoleEmployee, "producao")
	employee.SupervisorID = &supervisor.ID
	require.NoError(t, db.Save(employee).Error)

	epiType := seedEpiType(t, db, tech.ID)
	checklist := seedChecklist(t, db, epiType.ID, tech.ID, "producao")

	execution, err := svc.CreateExecution(employee, executionRequest(checklist.ID, epiType.ID, ""))
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionInProgress, execution.Status)
	assert.Equal(t, checklist.Version, execution.ChecklistVersion)
	assert.Equal(t, employee.ID, execution.EmployeeID)
	require.NotNil(t, execution.SupervisorID)
	assert.Equal(t, supervisor.ID, *execution.SupervisorID)

	// unset item statuses default to pending and get a checked-at stamp
	require.Len(t, execution.Results, 1)
	assert.Equal(t, models.ItemPending, execution.Results[0].Status)
	assert.False(t, execution.Results[0].CheckedAt.IsZero())

	_, err = svc.CreateExecution(employee, executionRequest(9999, epiType.ID, models.ItemOK))
	assert.ErrorIs(t, err, ErrChecklistNotFound)

	_, err = svc.CreateExecution(employee, executionRequest(checklist.ID, epiType.ID, "broken"))
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestCreateExecutionRequiresEffectiveChecklist(t *testing.T) {
	db := newTestDB(t)
	svc := NewExecutionService(db, testConfig())
	tech := seedUser(t, db, models.RoleSafetyTechnician, "seguranca")
	employee := seedUser(t, db, models.RoleEmployee, "producao")
	epiType := seedEpiType(t, db, tech.ID)

	inactive := seedChecklist(t, db, epiType.ID, tech.ID, "producao")
	inactive.IsActive = false
	require.NoError(t, db.Save(inactive).Error)

	_, err := svc.CreateExecution(employee, executionRequest(inactive.ID, epiType.ID, models.ItemOK))
	assert.ErrorIs(t, err, ErrChecklistNotEffective)

	expired := seedChecklist(t, db, epiType.ID, tech.ID, "producao")
	past := time.Now().AddDate(0, 0, -1)
	expired.ExpiryDate = &past
	require.NoError(t, db.Save(expired).Error)

	_, err = svc.CreateExecution(employee, executionRequest(expired.ID, epiType.ID, models.ItemOK))
	assert.ErrorIs(t, err, ErrChecklistNotEffective)
}

func TestUpdateExecution(t *testing.T) {
	db := newTestDB(t)
	svc := NewExecutionService(db, testConfig())
	tech := seedUser(t, db, models.RoleSafetyTechnician, "seguranca")
	employee := seedUser(t, db, models.RoleEmployee, "producao")
	other := seedUser(t, db, models.RoleEmployee, "producao")
	epiType := seedEpiType(t, db, tech.ID)
	checklist := seedChecklist(t, db, epiType.ID, tech.ID, "producao")

	execution, err := svc.CreateExecution(employee, executionRequest(checklist.ID, epiType.ID, ""))
	require.NoError(t, err)

	update := UpdateExecutionRequest{
		Results: models.ItemResults{
			{ItemOrder: 0, EpiTypeID: epiType.ID, Status: models.ItemOK},
		},
	}

	_, err = svc.UpdateExecution(other, execution.ID, update)
	assert.ErrorIs(t, err, ErrAccessDenied)

	updated, err := svc.UpdateExecution(employee, execution.ID, update)
	require.NoError(t, err)
	assert.Equal(t, models.ItemOK, updated.Results[0].Status)

	// admins and safety technicians may edit any execution
	notes := "conferido pelo tecnico"
	_, err = svc.UpdateExecution(tech, execution.ID, UpdateExecutionRequest{
		Results:      update.Results,
		GeneralNotes: &notes,
	})
	assert.NoError(t, err)
}

func TestCompleteExecution(t *testing.T) {
	db := newTestDB(t)
	svc := NewExecutionService(db, testConfig())
	tech := seedUser(t, db, models.RoleSafetyTechnician, "seguranca")
	employee := seedUser(t, db, models.RoleEmployee, "producao")
	epiType := seedEpiType(t, db, tech.ID)
	checklist := seedChecklist(t, db, epiType.ID, tech.ID, "producao")

	execution, err := svc.CreateExecution(employee, executionRequest(checklist.ID, epiType.ID, ""))
	require.NoError(t, err)

	// pending items block completion
	_, err = svc.CompleteExecution(employee, execution.ID, "abc123", "10.0.0.1", "test-agent")
	assert.ErrorIs(t, err, ErrPendingItems)

	_, err = svc.UpdateExecution(employee, execution.ID, UpdateExecutionRequest{
		Results: models.ItemResults{
			{ItemOrder: 0, EpiTypeID: epiType.ID, Status: models.ItemOK},
		},
	})
	require.NoError(t, err)

	_, err = svc.CompleteExecution(employee, execution.ID, "", "10.0.0.1", "test-agent")
	assert.ErrorIs(t, err, ErrSignatureRequired)

	_, err = svc.CompleteExecution(tech, execution.ID, "abc123", "10.0.0.1", "test-agent")
	assert.ErrorIs(t, err, ErrAccessDenied)

	completed, err := svc.CompleteExecution(employee, execution.ID, "abc123", "10.0.0.1", "test-agent")
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
	require.NotNil(t, completed.DigitalSignature)
	assert.Equal(t, "abc123", completed.DigitalSignature.Hash)
	assert.Equal(t, "10.0.0.1", completed.DigitalSignature.IPAddress)

	_, err = svc.CompleteExecution(employee, execution.ID, "abc123", "10.0.0.1", "test-agent")
	assert.ErrorIs(t, err, ErrExecutionCompleted)
}

func TestApproveAndRejectExecution(t *testing.T) {
	db := newTestDB(t)
	svc := NewExecutionService(db, testConfig())
	tech := seedUser(t, db, models.RoleSafetyTechnician, "seguranca")
	supervisor := seedUser(t, db, models.RoleSupervisor, "producao")
	employee := seedUser(t, db, models.RoleEmployee, "producao")
	epiType := seedEpiType(t, db, tech.ID)
	checklist := seedChecklist(t, db, epiType.ID, tech.ID, "producao")

	execution, err := svc.CreateExecution(employee, executionRequest(checklist.ID, epiType.ID, models.ItemOK))
	require.NoError(t, err)

	// approval requires a finished execution
	_, err = svc.ApproveExecution(supervisor, []uint{employee.ID}, execution.ID, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.CompleteExecution(employee, execution.ID, "abc123", "10.0.0.1", "test-agent")
	require.NoError(t, err)

	// a supervisor whose team does not include the owner cannot decide
	foreign := seedUser(t, db, models.RoleSupervisor, "manutencao")
	_, err = svc.ApproveExecution(foreign, nil, execution.ID, "")
	assert.ErrorIs(t, err, ErrAccessDenied)
	_, err = svc.RejectExecution(foreign, nil, execution.ID, "")
	assert.ErrorIs(t, err, ErrAccessDenied)

	approved, err := svc.ApproveExecution(supervisor, []uint{employee.ID}, execution.ID, "tudo em ordem")
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionApproved, approved.Status)
	require.NotNil(t, approved.Approval)
	assert.Equal(t, supervisor.ID, approved.Approval.ApprovedByID)
	assert.Equal(t, "tudo em ordem", approved.Approval.Notes)

	// approved executions cannot be decided again
	_, err = svc.RejectExecution(supervisor, []uint{employee.ID}, execution.ID, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// admins and safety technicians decide for any team
	second, err := svc.CreateExecution(employee, executionRequest(checklist.ID, epiType.ID, models.ItemOK))
	require.NoError(t, err)
	_, err = svc.CompleteExecution(employee, second.ID, "def456", "10.0.0.1", "test-agent")
	require.NoError(t, err)
	_, err = svc.RejectExecution(tech, nil, second.ID, "Itens sem conformidade")
	assert.NoError(t, err)
}

func TestCancelExecution(t *testing.T) {
	db := newTestDB(t)
	svc := NewExecutionService(db, testConfig())
	tech := seedUser(t, db, models.RoleSafetyTechnician, "seguranca")
	employee := seedUser(t, db, models.RoleEmployee, "producao")
	other := seedUser(t, db, models.RoleEmployee, "producao")
	epiType := seedEpiType(t, db, tech.ID)
	checklist := seedChecklist(t, db, epiType.ID, tech.ID, "producao")

	execution, err := svc.CreateExecution(employee, executionRequest(checklist.ID, epiType.ID, models.ItemOK))
	require.NoError(t, err)

	_, err = svc.CancelExecution(other, execution.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	cancelled, err := svc.CancelExecution(employee, execution.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionCancelled, cancelled.Status)

	_, err = svc.CancelExecution(employee, execution.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestListExecutionsScoping(t *testing.T) {
	db := newTestDB(t)
	svc := NewExecutionService(db, testConfig())
	tech := seedUser(t, db, models.RoleSafetyTechnician, "seguranca")
	supervisor := seedUser(t, db, models.RoleSupervisor, "producao")
	member := seedUser(t, db, models.RoleEmployee, "producao")
	outsider := seedUser(t, db, models.RoleEmployee, "manutencao")
	epiType := seedEpiType(t, db, tech.ID)
	checklist := seedChecklist(t, db, epiType.ID, tech.ID, "")

	for _, u := range []*models.User{supervisor, member, outsider} {
		_, err := svc.CreateExecution(u, executionRequest(checklist.ID, epiType.ID, models.ItemOK))
		require.NoError(t, err)
	}

	all, _, err := svc.ListExecutions(tech, nil, ExecutionListQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filtered, _, err := svc.ListExecutions(tech, nil, ExecutionListQuery{EmployeeID: member.ID})
	require.NoError(t, err)
	assert.Len(t, filtered, 1)

	team, _, err := svc.ListExecutions(supervisor, []uint{member.ID}, ExecutionListQuery{})
	require.NoError(t, err)
	assert.Len(t, team, 2)

	own, pagination, err := svc.ListExecutions(member, nil, ExecutionListQuery{})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, member.ID, own[0].EmployeeID)
	assert.Equal(t, int64(1), pagination.Total)
}
