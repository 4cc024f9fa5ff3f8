package analysis

import (
	"testing"

	"github.com/actionlens/actionlens/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultWithFindings(errors, warnings, infos int) *ValidationResult {
	result := &ValidationResult{}
	for i := 0; i < errors; i++ {
		result.ActionValidation.Add(workflow.Finding{Severity: workflow.SeverityError})
	}
	for i := 0; i < warnings; i++ {
		result.ActionValidation.Add(workflow.Finding{Severity: workflow.SeverityWarning})
	}
	for i := 0; i < infos; i++ {
		result.ActionValidation.Add(workflow.Finding{Severity: workflow.SeverityInfo})
	}
	return result
}

func TestComputeScore(t *testing.T) {
	tests := []struct {
		name                    string
		errors, warnings, infos int
		want                    int
	}{
		{"clean", 0, 0, 0, 100},
		{"one error", 1, 0, 0, 85},
		{"one warning", 0, 1, 0, 95},
		{"one info", 0, 0, 1, 98},
		{"mixed", 1, 2, 1, 73},
		{"floors at zero", 10, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := resultWithFindings(tt.errors, tt.warnings, tt.infos)
			assert.Equal(t, tt.want, computeScore(result))
		})
	}
}

func TestOrderRecommendations(t *testing.T) {
	recs := []Recommendation{
		{ID: "b-low", Priority: PriorityLow},
		{ID: "a-high-small", Priority: PriorityHigh, EstimatedTimeSaving: 30},
		{ID: "c-medium", Priority: PriorityMedium, EstimatedTimeSaving: 500},
		{ID: "a-high-big", Priority: PriorityHigh, EstimatedTimeSaving: 120},
		{ID: "a-high-tie", Priority: PriorityHigh, EstimatedTimeSaving: 30},
	}

	ordered := orderRecommendations(recs)

	var ids []string
	for _, rec := range ordered {
		ids = append(ids, rec.ID)
	}
	assert.Equal(t, []string{"a-high-big", "a-high-small", "a-high-tie", "c-medium", "b-low"}, ids)

	// The input slice is left untouched.
	assert.Equal(t, "b-low", recs[0].ID)
}

func TestOrderRecommendationsDeterministic(t *testing.T) {
	recs := []Recommendation{
		{ID: "z", Priority: PriorityMedium, EstimatedTimeSaving: 10},
		{ID: "a", Priority: PriorityMedium, EstimatedTimeSaving: 10},
	}

	first := orderRecommendations(recs)
	second := orderRecommendations(recs)
	assert.Equal(t, first, second)
	assert.Equal(t, "a", first[0].ID, "equal priority and saving fall back to id order")
}

func TestDeriveQuickFixes(t *testing.T) {
	recs := []Recommendation{
		{ID: "add-step", Implementation: Implementation{Type: ImplementationStepAddition}},
		{ID: "restructure", Implementation: Implementation{Type: ImplementationJobRestructure}},
		{ID: "change-config", Implementation: Implementation{Type: ImplementationConfigChange}},
	}

	fixes := deriveQuickFixes(recs)
	require.Len(t, fixes, 2)
	assert.Equal(t, "add-step", fixes[0].ID)
	assert.Equal(t, "change-config", fixes[1].ID)
}
