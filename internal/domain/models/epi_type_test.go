package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCAExpiry(t *testing.T) {
	expired := EpiType{CAExpiryDate: time.Now().AddDate(0, 0, -1)}
	assert.True(t, expired.IsCAExpired())
	assert.False(t, expired.IsCAExpiringSoon(), "an already expired CA is not expiring soon")

	expiringSoon := EpiType{CAExpiryDate: time.Now().AddDate(0, 0, 15)}
	assert.False(t, expiringSoon.IsCAExpired())
	assert.True(t, expiringSoon.IsCAExpiringSoon())

	farOut := EpiType{CAExpiryDate: time.Now().AddDate(0, 2, 0)}
	assert.False(t, farOut.IsCAExpired())
	assert.False(t, farOut.IsCAExpiringSoon())
}

func TestDaysUntilCAExpiry(t *testing.T) {
	e := EpiType{CAExpiryDate: time.Now().Add(36 * time.Hour)}
	assert.Equal(t, 2, e.DaysUntilCAExpiry(), "partial days round up")

	e = EpiType{CAExpiryDate: time.Now().Add(-2 * time.Hour)}
	assert.LessOrEqual(t, e.DaysUntilCAExpiry(), 0)
}

func TestIsValidEpiCategory(t *testing.T) {
	for _, c := range ValidEpiCategories {
		assert.True(t, IsValidEpiCategory(c))
	}
	assert.False(t, IsValidEpiCategory("protecao_solar"))
}
