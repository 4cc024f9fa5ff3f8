package cli

import (
	"bytes"
	"testing"

	"github.com/actionlens/actionlens/pkg/analysis"
	"github.com/actionlens/actionlens/pkg/simulation"
	"github.com/actionlens/actionlens/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSecretNames(t *testing.T) {
	tests := []struct {
		flag string
		want []string
	}{
		{"", nil},
		{"A", []string{"A"}},
		{"A,B", []string{"A", "B"}},
		{" A , B ,", []string{"A", "B"}},
		{",,", nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			assert.Equal(t, tt.want, splitSecretNames(tt.flag))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0s"},
		{45, "45s"},
		{60, "1m"},
		{100, "1m40s"},
		{3600, "60m"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDuration(tt.seconds))
		})
	}
}

func TestFindingPosition(t *testing.T) {
	assert.Equal(t, "-", findingPosition(workflow.Finding{}))
	assert.Equal(t, "3:7", findingPosition(workflow.Finding{Line: 3, Column: 7}))
}

func TestPrintValidationResultMentionsFindings(t *testing.T) {
	result := &analysis.ValidationResult{Filename: "ci.yml", OverallScore: 85}
	result.ActionValidation.Add(workflow.Finding{
		Code:     "schema-validation-error",
		Severity: workflow.SeverityError,
		Message:  "Template must include jobs section",
		Category: workflow.CategorySchema,
	})

	var buf bytes.Buffer
	printValidationResult(&buf, ".github/workflows/ci.yml", result)

	out := buf.String()
	assert.Contains(t, out, ".github/workflows/ci.yml")
	assert.Contains(t, out, "Template must include jobs section")
	assert.Contains(t, out, "schema-validation-error")
	assert.Contains(t, out, "score 85/100")
}

func TestPrintValidationResultCleanFile(t *testing.T) {
	result := &analysis.ValidationResult{Filename: "ci.yml", OverallScore: 100}
	result.SyntaxValidation.Finalize()
	result.ActionValidation.Finalize()
	result.SecretValidation.Finalize()

	var buf bytes.Buffer
	printValidationResult(&buf, "ci.yml", result)

	out := buf.String()
	assert.Contains(t, out, "no findings")
	assert.Contains(t, out, "score 100/100")
}

func TestPrintSimulationResult(t *testing.T) {
	result := &simulation.SimulationResult{
		Success:           true,
		ExecutionPlan:     []string{"build", "test"},
		EstimatedDuration: 150,
		PotentialIssues: []simulation.Issue{
			{Code: "missing-secret", Severity: workflow.SeverityWarning, Message: "secret 'X' is referenced by job 'test' but not available to the simulated run", JobID: "test"},
		},
	}

	var buf bytes.Buffer
	printSimulationResult(&buf, "ci.yml", result)

	out := buf.String()
	assert.Contains(t, out, "build")
	assert.Contains(t, out, "test")
	assert.Contains(t, out, "2m30s")
	assert.Contains(t, out, "missing-secret")
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, map[string]int{"score": 100}))
	assert.JSONEq(t, `{"score": 100}`, buf.String())
}
