package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/felipefantin/check-list-EPI/internal/domain/models"
	"github.com/felipefantin/check-list-EPI/internal/infrastructure/config"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.EpiType{},
		&models.Checklist{},
		&models.ChecklistExecution{},
		&models.Anomaly{},
	))
	return db
}

func testConfig() *config.Config {
	return &config.Config{JWTSecretKey: "test-secret"}
}

var userSeq int

// seedUser inserts an active user with the given role and department
func seedUser(t *testing.T, db *gorm.DB, role, department string) *models.User {
	t.Helper()

	userSeq++
	user := models.User{
		Name:       fmt.Sprintf("User %d", userSeq),
		Email:      fmt.Sprintf("user%d@empresa.com", userSeq),
		EmployeeID: fmt.Sprintf("EMP-%04d", userSeq),
		Password:   "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		Role:       role,
		Department: department,
		IsActive:   true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// seedEpiType inserts an active catalog entry with a CA valid for a year
func seedEpiType(t *testing.T, db *gorm.DB, createdBy uint) *models.EpiType {
	t.Helper()

	userSeq++
	epiType := models.EpiType{
		Name:              fmt.Sprintf("Capacete %d", userSeq),
		Category:          models.CategoryHead,
		Description:       "Capacete de seguranca classe B",
		TechnicalStandard: "ABNT NBR 8221",
		Manufacturer:      "MSA",
		CANumber:          fmt.Sprintf("CA-%05d", userSeq),
		CAExpiryDate:      time.Now().AddDate(1, 0, 0),
		LifespanMonths:    36,
		InspectionCriteria: models.InspectionCriteria{
			{Criterion: "casco", Description: "sem trincas ou deformacoes", IsRequired: true},
			{Criterion: "suspensao", Description: "tiras integras e ajustaveis", IsRequired: true},
		},
		IsActive:    true,
		CreatedByID: createdBy,
	}
	require.NoError(t, db.Create(&epiType).Error)
	return &epiType
}

// seedChecklist inserts an active, effective checklist over one EPI type
func seedChecklist(t *testing.T, db *gorm.DB, epiTypeID, createdBy uint, department string) *models.Checklist {
	t.Helper()

	userSeq++
	checklist := models.Checklist{
		Name:        fmt.Sprintf("Inspecao diaria %d", userSeq),
		Description: "Verificacao antes do turno",
		Type:        models.ChecklistDaily,
		Department:  department,
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
		IsActive:      true,
		Version:       1,
		EffectiveDate: time.Now().AddDate(0, 0, -1),
		CreatedByID:   createdBy,
	}
	require.NoError(t, db.Create(&checklist).Error)
	return &checklist
}
