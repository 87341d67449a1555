package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsEffective(t *testing.T) {
	yesterday := time.Now().AddDate(0, 0, -1)
	tomorrow := time.Now().AddDate(0, 0, 1)
	lastWeek := time.Now().AddDate(0, 0, -7)

	c := Checklist{IsActive: true, EffectiveDate: yesterday}
	assert.True(t, c.IsEffective())

	c.IsActive = false
	assert.False(t, c.IsEffective(), "inactive checklists are never effective")

	c = Checklist{IsActive: true, EffectiveDate: tomorrow}
	assert.False(t, c.IsEffective(), "not effective before the effective date")

	c = Checklist{IsActive: true, EffectiveDate: lastWeek, ExpiryDate: &yesterday}
	assert.False(t, c.IsEffective(), "not effective after expiry")

	c = Checklist{IsActive: true, EffectiveDate: lastWeek, ExpiryDate: &tomorrow}
	assert.True(t, c.IsEffective())
}

func TestAppliesToUser(t *testing.T) {
	yesterday := time.Now().AddDate(0, 0, -1)
	user := &User{Department: "producao", JobRole: "operador"}

	global := Checklist{IsActive: true, EffectiveDate: yesterday}
	assert.True(t, global.AppliesToUser(user), "empty department and job role match everyone")

	deptOnly := Checklist{IsActive: true, EffectiveDate: yesterday, Department: "producao"}
	assert.True(t, deptOnly.AppliesToUser(user))

	otherDept := Checklist{IsActive: true, EffectiveDate: yesterday, Department: "manutencao"}
	assert.False(t, otherDept.AppliesToUser(user))

	jobMismatch := Checklist{IsActive: true, EffectiveDate: yesterday, Department: "producao", JobRole: "soldador"}
	assert.False(t, jobMismatch.AppliesToUser(user))

	inactive := Checklist{IsActive: false, EffectiveDate: yesterday}
	assert.False(t, inactive.AppliesToUser(user), "an ineffective checklist applies to no one")
}

func TestGetNextExecutionDate(t *testing.T) {
	c := Checklist{FrequencyDays: 7}

	next := c.GetNextExecutionDate(nil)
	assert.WithinDuration(t, time.Now(), next, time.Second, "never executed means due now")

	last := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 8, 8, 0, 0, 0, time.UTC), c.GetNextExecutionDate(&last))
}

func TestIsValidChecklistType(t *testing.T) {
	for _, v := range ValidChecklistTypes {
		assert.True(t, IsValidChecklistType(v))
	}
	assert.False(t, IsValidChecklistType("hourly"))
}
