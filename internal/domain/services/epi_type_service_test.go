package services

import (
	"testing"
	"time"

	"github.com/felipefantin/check-list-EPI/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func epiTypeRequest(caNumber string) EpiTypeRequest {
	return EpiTypeRequest{
		Name:              "Luva nitrilica",
		Category:          models.CategoryHands,
		Description:       "Luva de protecao quimica",
		TechnicalStandard: "ABNT NBR 13393",
		Manufacturer:      "Ansell",
		CANumber:          caNumber,
		CAExpiryDate:      time.Now().AddDate(1, 0, 0),
		LifespanMonths:    6,
		InspectionCriteria: models.InspectionCriteria{
			{Criterion: "integridade", Description: "sem furos ou rasgos", IsRequired: true},
		},
	}
}

func TestCreateEpiType(t *testing.T) {
	db := newTestDB(t)
	svc := NewEpiTypeService(db, testConfig())
	tech := seedUser(t, db, models.RoleSafetyTechnician, "seguranca")

	epiType, err := svc.CreateEpiType(tech, epiTypeRequest("CA-40001"))
	require.NoError(t, err)
	assert.True(t, epiType.IsActive)
	assert.Equal(t, tech.ID, epiType.CreatedByID)

	// CA numbers are unique across the catalog
	_, err = svc.CreateEpiType(tech, epiTypeRequest("CA-40001"))
	assert.ErrorIs(t, err, ErrEpiTypeAlreadyExists)

	req := epiTypeRequest("CA-40002")
	req.Category = "invisivel"
	_, err = svc.CreateEpiType(tech, req)
	assert.ErrorIs(t, err, ErrValidationFailed)

	req = epiTypeRequest("CA-40003")
	req.CAExpiryDate = time.Now().AddDate(0, 0, -1)
	_, err = svc.CreateEpiType(tech, req)
	assert.ErrorIs(t, err, ErrCAExpiryInPast)
}

func TestUpdateEpiType(t *testing.T) {
	db := newTestDB(t)
	svc := NewEpiTypeService(db, testConfig())
	tech := seedUser(t, db, models.RoleSafetyTechnician, "seguranca")

	first, err := svc.CreateEpiType(tech, epiTypeRequest("CA-40010"))
	require.NoError(t, err)
	second, err := svc.CreateEpiType(tech, epiTypeRequest("CA-40011"))
	require.NoError(t, err)

	req := epiTypeRequest("CA-40010")
	_, err = svc.UpdateEpiType(second.ID, req)
	assert.ErrorIs(t, err, ErrEpiTypeAlreadyExists)

	// keeping the same CA number is not a conflict
	req = epiTypeRequest("CA-40010")
	req.Manufacturer = "MSA"
	updated, err := svc.UpdateEpiType(first.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "MSA", updated.Manufacturer)

	_, err = svc.UpdateEpiType(9999, epiTypeRequest("CA-40012"))
	assert.ErrorIs(t, err, ErrEpiTypeNotFound)
}

func TestDeactivateEpiType(t *testing.T) {
	db := newTestDB(t)
	svc := NewEpiTypeService(db, testConfig())
	tech := seedUser(t, db, models.RoleSafetyTechnician, "seguranca")

	epiType, err := svc.CreateEpiType(tech, epiTypeRequest("CA-40020"))
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateEpiType(epiType.ID))
	reloaded, err := svc.GetEpiTypeByID(epiType.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)

	assert.ErrorIs(t, svc.DeactivateEpiType(9999), ErrEpiTypeNotFound)
}

func TestListEpiTypes(t *testing.T) {
	db := newTestDB(t)
	svc := NewEpiTypeService(db, testConfig())
	tech := seedUser(t, db, models.RoleSafetyTechnician, "seguranca")

	_, err := svc.CreateEpiType(tech, epiTypeRequest("CA-40030"))
	require.NoError(t, err)

	helmet := epiTypeRequest("CA-40031")
	helmet.Name = "Capacete classe B"
	helmet.Category = models.CategoryHead
	_, err = svc.CreateEpiType(tech, helmet)
	require.NoError(t, err)

	all, pagination, err := svc.ListEpiTypes(EpiTypeListQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, int64(2), pagination.Total)

	byCategory, _, err := svc.ListEpiTypes(EpiTypeListQuery{Category: models.CategoryHead})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Capacete classe B", byCategory[0].Name)

	bySearch, _, err := svc.ListEpiTypes(EpiTypeListQuery{Search: "CA-40030"})
	require.NoError(t, err)
	assert.Len(t, bySearch, 1)
}

func TestCAExpiryWindows(t *testing.T) {
	db := newTestDB(t)
	svc := NewEpiTypeService(db, testConfig())
	tech := seedUser(t, db, models.RoleSafetyTechnician, "seguranca")

	soon, err := svc.CreateEpiType(tech, epiTypeRequest("CA-40040"))
	require.NoError(t, err)
	require.NoError(t, db.Model(soon).Update("ca_expiry_date", time.Now().AddDate(0, 0, 10)).Error)

	expired, err := svc.CreateEpiType(tech, epiTypeRequest("CA-40041"))
	require.NoError(t, err)
	require.NoError(t, db.Model(expired).Update("ca_expiry_date", time.Now().AddDate(0, 0, -10)).Error)

	_, err = svc.CreateEpiType(tech, epiTypeRequest("CA-40042"))
	require.NoError(t, err)

	expiringSoon, err := svc.ListExpiringSoon()
	require.NoError(t, err)
	require.Len(t, expiringSoon, 1)
	assert.Equal(t, soon.ID, expiringSoon[0].ID)

	expiredList, err := svc.ListExpired()
	require.NoError(t, err)
	require.Len(t, expiredList, 1)
	assert.Equal(t, expired.ID, expiredList[0].ID)
}

func TestListCategories(t *testing.T) {
	svc := NewEpiTypeService(nil, testConfig())

	categories := svc.ListCategories()
	assert.Len(t, categories, len(models.ValidEpiCategories))
	for _, c := range categories {
		assert.True(t, models.IsValidEpiCategory(c.Value))
		assert.NotEmpty(t, c.Label)
	}
}
