package services

import (
	"testing"
	"time"

	"github.com/felipefantin/check-list-EPI/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checklistRequest(name string, epiTypeID uint) ChecklistRequest {
	return ChecklistRequest{
		Name:        name,
		Description: "Verificacao antes do turno",
		Type:        models.ChecklistDaily,
		Items: models.ChecklistItems{
			{
				EpiTypeID:  epiTypeID,
				IsRequired: true,
				Order:      0,
				Criteria: []models.ChecklistItemCriterion{
					{Criterion: "casco", Description: "sem trincas", IsRequired: true, Order: 0},
				},
			},
		},
		FrequencyDays: 1,
	}
}

func TestCreateChecklist(t *testing.T) {
	db := newTestDB(t)
	svc := NewChecklistService(db, testConfig())
	tech := seedUser(t, db, models.RoleSafetyTechnician, "seguranca")
	epiType := seedEpiType(t, db, tech.ID)

	checklist, err := svc.CreateChecklist(tech, checklistRequest("Inspecao capacete", epiType.ID))
	require.NoError(t, err)
	assert.Equal(t, 1, checklist.Version)
	assert.True(t, checklist.IsActive)
	assert.Equal(t, tech.ID, checklist.CreatedByID)
	assert.Nil(t, checklist.ApprovedByID)

	_, err = svc.CreateChecklist(tech, checklistRequest("Inspecao capacete", epiType.ID))
	assert.ErrorIs(t, err, ErrChecklistAlreadyExists)

	req := checklistRequest("Tipo invalido", epiType.ID)
	req.Type = "hourly"
	_, err = svc.CreateChecklist(tech, req)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestCreateChecklistPeriod(t *testing.T) {
	db := newTestDB(t)
	svc := NewChecklistService(db, testConfig())
	tech := seedUser(t, db, models.RoleSafetyTechnician, "seguranca")
	epiType := seedEpiType(t, db, tech.ID)

	effective := time.Now().AddDate(0, 0, 7)
	expiry := effective.AddDate(0, 0, -1)

	req := checklistRequest("Vigencia invertida", epiType.ID)
	req.EffectiveDate = &effective
	req.ExpiryDate = &expiry
	_, err := svc.CreateChecklist(tech, req)
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	expiry = effective.AddDate(0, 1, 0)
	req.ExpiryDate = &expiry
	checklist, err := svc.CreateChecklist(tech, req)
	require.NoError(t, err)
	assert.True(t, checklist.EffectiveDate.Equal(effective))
}

func TestCreateChecklistSnapshotsCriteria(t *testing.T) {
	db := newTestDB(t)
	svc := NewChecklistService(db, testConfig())
	tech := seedUser(t, db, models.RoleSafetyTechnician, "seguranca")
	epiType := seedEpiType(t, db, tech.ID)

	req := checklistRequest("Criterios do catalogo", epiType.ID)
	req.Items[0].Criteria = nil
	checklist, err := svc.CreateChecklist(tech, req)
	require.NoError(t, err)

	require.Len(t, checklist.Items, 1)
	require.Len(t, checklist.Items[0].Criteria, len(epiType.InspectionCriteria))
	assert.Equal(t, "casco", checklist.Items[0].Criteria[0].Criterion)
	assert.Equal(t, "suspensao", checklist.Items[0].Criteria[1].Criterion)
	assert.Equal(t, 1, checklist.Items[0].Criteria[1].Order)

	req = checklistRequest("EPI inexistente", 9999)
	req.Items[0].Criteria = nil
	_, err = svc.CreateChecklist(tech, req)
	assert.ErrorIs(t, err, ErrEpiTypeNotFound)
}

func TestUpdateChecklistVersioning(t *testing.T) {
	db := newTestDB(t)
	svc := NewChecklistService(db, testConfig())
	tech := seedUser(t, db, models.RoleSafetyTechnician, "seguranca")
	epiType := seedEpiType(t, db, tech.ID)

	checklist, err := svc.CreateChecklist(tech, checklistRequest("Inspecao diaria", epiType.ID))
	require.NoError(t, err)
	require.Equal(t, 1, checklist.Version)

	// metadata-only change keeps the version
	req := checklistRequest("Inspecao diaria", epiType.ID)
	req.Description = "Verificacao no inicio do turno"
	req.Notes = "revisado"
	updated, err := svc.UpdateChecklist(checklist.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Version)
	assert.Equal(t, "Verificacao no inicio do turno", updated.Description)

	// changing the items bumps the version
	req.Items[0].Criteria = append(req.Items[0].Criteria, models.ChecklistItemCriterion{
		Criterion: "jugular", Description: "presente e funcional", IsRequired: true, Order: 1,
	})
	updated, err = svc.UpdateChecklist(checklist.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
}

func TestUpdateChecklistRejectsDuplicateName(t *testing.T) {
	db := newTestDB(t)
	svc := NewChecklistService(db, testConfig())
	tech := seedUser(t, db, models.RoleSafetyTechnician, "seguranca")
	epiType := seedEpiType(t, db, tech.ID)

	first, err := svc.CreateChecklist(tech, checklistRequest("Inspecao manha", epiType.ID))
	require.NoError(t, err)
	second, err := svc.CreateChecklist(tech, checklistRequest("Inspecao tarde", epiType.ID))
	require.NoError(t, err)

	req := checklistRequest("Inspecao manha", epiType.ID)
	_, err = svc.UpdateChecklist(second.ID, req)
	assert.ErrorIs(t, err, ErrChecklistAlreadyExists)

	// keeping its own name is not a conflict
	req.Name = "Inspecao manha"
	_, err = svc.UpdateChecklist(first.ID, req)
	assert.NoError(t, err)

	_, err = svc.UpdateChecklist(9999, checklistRequest("Fantasma", epiType.ID))
	assert.ErrorIs(t, err, ErrChecklistNotFound)
}

func TestApproveChecklist(t *testing.T) {
	db := newTestDB(t)
	svc := NewChecklistService(db, testConfig())
	tech := seedUser(t, db, models.RoleSafetyTechnician, "seguranca")
	epiType := seedEpiType(t, db, tech.ID)
	checklist := seedChecklist(t, db, epiType.ID, tech.ID, "")

	approved, err := svc.ApproveChecklist(tech, checklist.ID)
	require.NoError(t, err)
	require.NotNil(t, approved.ApprovedByID)
	assert.Equal(t, tech.ID, *approved.ApprovedByID)
	require.NotNil(t, approved.ApprovedAt)
	assert.WithinDuration(t, time.Now(), *approved.ApprovedAt, time.Minute)

	_, err = svc.ApproveChecklist(tech, 9999)
	assert.ErrorIs(t, err, ErrChecklistNotFound)
}

func TestDeactivateChecklist(t *testing.T) {
	db := newTestDB(t)
	svc := NewChecklistService(db, testConfig())
	tech := seedUser(t, db, models.RoleSafetyTechnician, "seguranca")
	epiType := seedEpiType(t, db, tech.ID)
	checklist := seedChecklist(t, db, epiType.ID, tech.ID, "")

	require.NoError(t, svc.DeactivateChecklist(checklist.ID))

	reloaded, err := svc.GetChecklistByID(checklist.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)

	assert.ErrorIs(t, svc.DeactivateChecklist(9999), ErrChecklistNotFound)
}

func TestListChecklistsDepartmentScoping(t *testing.T) {
	db := newTestDB(t)
	svc := NewChecklistService(db, testConfig())
	tech := seedUser(t, db, models.RoleSafetyTechnician, "seguranca")
	employee := seedUser(t, db, models.RoleEmployee, "producao")
	epiType := seedEpiType(t, db, tech.ID)

	seedChecklist(t, db, epiType.ID, tech.ID, "producao")
	seedChecklist(t, db, epiType.ID, tech.ID, "manutencao")
	seedChecklist(t, db, epiType.ID, tech.ID, "")

	all, _, err := svc.ListChecklists(tech, ChecklistListQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filtered, _, err := svc.ListChecklists(tech, ChecklistListQuery{Department: "manutencao"})
	require.NoError(t, err)
	assert.Len(t, filtered, 1)

	// employees only see their department plus global checklists
	scoped, pagination, err := svc.ListChecklists(employee, ChecklistListQuery{})
	require.NoError(t, err)
	assert.Len(t, scoped, 2)
	assert.Equal(t, int64(2), pagination.Total)
}

func TestListAvailableForUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewChecklistService(db, testConfig())
	tech := seedUser(t, db, models.RoleSafetyTechnician, "seguranca")
	employee := seedUser(t, db, models.RoleEmployee, "producao")
	epiType := seedEpiType(t, db, tech.ID)

	match := seedChecklist(t, db, epiType.ID, tech.ID, "producao")
	global := seedChecklist(t, db, epiType.ID, tech.ID, "")
	seedChecklist(t, db, epiType.ID, tech.ID, "manutencao")

	notYet := seedChecklist(t, db, epiType.ID, tech.ID, "producao")
	notYet.EffectiveDate = time.Now().AddDate(0, 0, 7)
	require.NoError(t, db.Save(notYet).Error)

	available, err := svc.ListAvailableForUser(employee)
	require.NoError(t, err)
	require.Len(t, available, 2)

	ids := []uint{available[0].ID, available[1].ID}
	assert.ElementsMatch(t, []uint{match.ID, global.ID}, ids)
}

func TestGetChecklistForUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewChecklistService(db, testConfig())
	tech := seedUser(t, db, models.RoleSafetyTechnician, "seguranca")
	employee := seedUser(t, db, models.RoleEmployee, "producao")
	epiType := seedEpiType(t, db, tech.ID)

	other := seedChecklist(t, db, epiType.ID, tech.ID, "manutencao")

	// readers with the read-all capability are never scoped out
	_, err := svc.GetChecklistForUser(tech, other.ID)
	assert.NoError(t, err)

	_, err = svc.GetChecklistForUser(employee, other.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetChecklistForUser(employee, 9999)
	assert.ErrorIs(t, err, ErrChecklistNotFound)
}
