package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func resultsWithStatuses(statuses ...string) ItemResults {
	results := make(ItemResults, 0, len(statuses))
	for i, s := range statuses {
		results = append(results, ItemResult{ItemOrder: i, EpiTypeID: uint(i + 1), Status: s})
	}
	return results
}

func TestGetCompliancePercentage(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		want     int
	}{
		{"all conform", []string{ItemOK, ItemOK, ItemOK}, 100},
		{"three of five conform", []string{ItemOK, ItemOK, ItemOK, ItemNotConform, ItemNotApplicable}, 60},
		{"pending items are excluded", []string{ItemOK, ItemPending, ItemPending}, 100},
		{"nothing evaluated", []string{ItemPending, ItemPending}, 0},
		{"no results", nil, 0},
		{"rounds to nearest", []string{ItemOK, ItemOK, ItemNotConform}, 67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := ChecklistExecution{Results: resultsWithStatuses(tt.statuses...)}
			assert.Equal(t, tt.want, e.GetCompliancePercentage())
		})
	}
}

func TestHasPendingAndNonConformItems(t *testing.T) {
	e := ChecklistExecution{Results: resultsWithStatuses(ItemOK, ItemPending)}
	assert.True(t, e.HasPendingItems())
	assert.False(t, e.HasNonConformItems())

	e.Results = resultsWithStatuses(ItemOK, ItemNotConform)
	assert.False(t, e.HasPendingItems())
	assert.True(t, e.HasNonConformItems())
}

func TestGetStatusCount(t *testing.T) {
	e := ChecklistExecution{Results: resultsWithStatuses(ItemOK, ItemOK, ItemNotConform, ItemNotApplicable, ItemPending)}

	counts := e.GetStatusCount()
	assert.Equal(t, 2, counts[ItemOK])
	assert.Equal(t, 1, counts[ItemNotConform])
	assert.Equal(t, 1, counts[ItemNotApplicable])
	assert.Equal(t, 1, counts[ItemPending])
}

func TestGetDuration(t *testing.T) {
	started := time.Now().Add(-45 * time.Minute)

	e := ChecklistExecution{StartedAt: started}
	assert.Nil(t, e.GetDuration(), "no duration until completed")

	completed := started.Add(45 * time.Minute)
	e.CompletedAt = &completed
	duration := e.GetDuration()
	assert.NotNil(t, duration)
	assert.Equal(t, 45, *duration)
}

func TestIsValidItemStatus(t *testing.T) {
	assert.True(t, IsValidItemStatus(ItemOK))
	assert.True(t, IsValidItemStatus(ItemNotConform))
	assert.True(t, IsValidItemStatus(ItemNotApplicable))
	assert.True(t, IsValidItemStatus(ItemPending))
	assert.False(t, IsValidItemStatus("broken"))
}
