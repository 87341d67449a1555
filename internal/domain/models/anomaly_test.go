package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCriticalEscalation(t *testing.T) {
	a := Anomaly{Severity: SeverityCritical, Priority: PriorityMedium, SafetyImpact: SafetyImpactLow}
	a.Normalize()
	assert.Equal(t, PriorityUrgent, a.Priority)
	assert.Equal(t, SafetyImpactHigh, a.SafetyImpact)

	// An already high priority is left alone
	a = Anomaly{Severity: SeverityCritical, Priority: PriorityHigh, SafetyImpact: SafetyImpactMedium}
	a.Normalize()
	assert.Equal(t, PriorityHigh, a.Priority)
	assert.Equal(t, SafetyImpactHigh, a.SafetyImpact)

	// Non-critical anomalies are untouched
	a = Anomaly{Severity: SeverityLow, Priority: PriorityLow, SafetyImpact: SafetyImpactNone}
	a.Normalize()
	assert.Equal(t, PriorityLow, a.Priority)
	assert.Equal(t, SafetyImpactNone, a.SafetyImpact)
}

func TestGetResolutionTime(t *testing.T) {
	a := Anomaly{}
	assert.Nil(t, a.GetResolutionTime())

	a.CreatedAt = time.Now().Add(-6 * time.Hour)
	a.Resolution = &Resolution{ResolvedByID: 1, ResolvedAt: time.Now()}
	hours := a.GetResolutionTime()
	assert.NotNil(t, hours)
	assert.Equal(t, 6, *hours)
}

func TestIsOverdue(t *testing.T) {
	past := time.Now().Add(-49 * time.Hour)
	future := time.Now().Add(24 * time.Hour)

	a := Anomaly{Status: AnomalyOpen}
	assert.False(t, a.IsOverdue(), "no due date means never overdue")

	a.DueDate = &past
	assert.True(t, a.IsOverdue())
	assert.Equal(t, 3, a.GetOverdueDays(), "partial days round up")

	a.Status = AnomalyResolved
	assert.False(t, a.IsOverdue(), "resolved anomalies are not overdue")
	assert.Equal(t, 0, a.GetOverdueDays())

	a.Status = AnomalyOpen
	a.DueDate = &future
	assert.False(t, a.IsOverdue())
}

func TestGetTotalCost(t *testing.T) {
	a := Anomaly{
		Actions: AnomalyActions{
			{Action: "isolate", Description: "removed from rotation", TakenByID: 1, Cost: 10.5},
			{Action: "inspect", Description: "sent to supplier", TakenByID: 2, Cost: 4.5},
		},
	}
	assert.Equal(t, 15.0, a.GetTotalCost())

	a.Resolution = &Resolution{ResolutionMethod: ResolutionReplacement, Cost: 85}
	assert.Equal(t, 100.0, a.GetTotalCost())
}

func TestAnomalyValidators(t *testing.T) {
	assert.True(t, IsValidAnomalyCategory(AnomalyDamage))
	assert.True(t, IsValidAnomalyCategory(AnomalyWrongSize))
	assert.False(t, IsValidAnomalyCategory("melted"))

	assert.True(t, IsValidSeverity(SeverityCritical))
	assert.False(t, IsValidSeverity("catastrophic"))

	assert.True(t, IsValidResolutionMethod(ResolutionRepair))
	assert.True(t, IsValidResolutionMethod(ResolutionDisposal))
	assert.False(t, IsValidResolutionMethod("ignore"))
}
