package services

import (
	"testing"
	"time"

	"github.com/felipefantin/check-list-EPI/internal/domain/models"
	"github.com/felipefantin/check-list-EPI/internal/infrastructure/config"
	"github.com/felipefantin/check-list-EPI/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedLoginUser gives a seeded user a known password
func seedLoginUser(t *testing.T, db *gorm.DB, password string) *models.User {
	t.Helper()

	user := seedUser(t, db, models.RoleEmployee, "producao")
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	require.NoError(t, db.Model(user).Update("password", hash).Error)
	user.Password = hash
	return user
}

func TestGenerateAndExtractToken(t *testing.T) {
	db := newTestDB(t)
	svc := NewJWTService(testConfig(), db)

	token, err := svc.GenerateToken(42, models.RoleSupervisor)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, models.RoleSupervisor, claims.Role)
	assert.Equal(t, "check-list-epi", claims.Issuer)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	db := newTestDB(t)
	svc := NewJWTService(testConfig(), db)

	token, err := svc.GenerateToken(1, models.RoleEmployee)
	require.NoError(t, err)

	_, err = svc.ExtractClaims(token + "x")
	assert.Error(t, err)

	other := NewJWTService(&config.Config{JWTSecretKey: "other-secret"}, db)
	_, err = other.ExtractClaims(token)
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewJWTService(testConfig(), db)
	user := seedLoginUser(t, db, "secret")

	result, err := svc.Login(user.Email, "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, user.ID, result.User.ID)
	require.NotNil(t, result.User.LastLogin)

	// badge number works as identifier too
	result, err = svc.Login(user.EmployeeID, "secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)

	_, err = svc.Login(user.Email, "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("ghost@empresa.com", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveAccount(t *testing.T) {
	db := newTestDB(t)
	svc := NewJWTService(testConfig(), db)
	user := seedLoginUser(t, db, "secret")
	require.NoError(t, db.Model(user).Update("is_active", false).Error)

	_, err := svc.Login(user.Email, "secret")
	assert.ErrorIs(t, err, ErrAccountInactive)
}
