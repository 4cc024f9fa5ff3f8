package analysis

import (
	"testing"

	"github.com/actionlens/actionlens/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findingCodes(findings []workflow.Finding) []string {
	var codes []string
	for _, f := range findings {
		codes = append(codes, f.Code)
	}
	return codes
}

func TestValidateSchemaMissingSections(t *testing.T) {
	structure := mustParse(t, "name: Empty\n")
	result := validateSchema(structure)

	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "Template must include trigger events (on:)", result.Errors[0].Message)
	assert.Equal(t, "Template must include jobs section", result.Errors[1].Message)
}

func TestValidateSchemaMissingNameIsInfo(t *testing.T) {
	structure := mustParse(t, "on: push\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n")
	result := validateSchema(structure)

	assert.True(t, result.IsValid, "a missing name never blocks validity")
	assert.Contains(t, findingCodes(result.Infos), "missing-name")
}

func TestValidateSchemaJobRules(t *testing.T) {
	structure := mustParse(t, `on: push
jobs:
  build:
    steps:
      - run: echo hi
  test:
    runs-on: ubuntu-latest
    needs: missing-job
    steps:
      - run: echo hi
`)
	result := validateSchema(structure)

	assert.False(t, result.IsValid)
	codes := findingCodes(result.Errors)
	assert.Contains(t, codes, "schema-validation-error")

	var messages []string
	for _, f := range result.Errors {
		messages = append(messages, f.Message)
	}
	assert.Contains(t, messages, "Job 'build' must specify a runner (runs-on:)")
	assert.Contains(t, messages, "Job 'test' needs unknown job 'missing-job'")
}

func TestValidateStepShape(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		code string
	}{
		{
			name: "step with both uses and run",
			yaml: "on: push\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - uses: actions/checkout@v4\n        run: echo hi\n",
			code: "ambiguous-step",
		},
		{
			name: "step with neither",
			yaml: "on: push\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - name: noop\n",
			code: "empty-step",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateSchema(mustParse(t, tt.yaml))
			assert.Contains(t, findingCodes(result.Errors), tt.code)
		})
	}
}

func TestValidateActionReference(t *testing.T) {
	tests := []struct {
		ref string
		ok  bool
	}{
		{"actions/checkout@v4", true},
		{"actions/cache/restore@v4", true},
		{"./local/action", true},
		{"docker://alpine:3.20", true},
		{"checkout", false},
		{"actions/checkout", false},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			var result PassResult
			step := &workflow.StepSpec{Uses: tt.ref}
			validateActionReference(step, &result)
			result.Finalize()

			if tt.ok {
				assert.Empty(t, result.Warnings)
			} else {
				require.Len(t, result.Warnings, 1)
				assert.Equal(t, "invalid-action-reference", result.Warnings[0].Code)
			}
		})
	}
}

func TestValidateEnvName(t *testing.T) {
	structure := mustParse(t, `on: push
env:
  VALID_NAME: ok
  1BAD: nope
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - run: echo hi
`)
	result := validateSchema(structure)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "invalid-env-name", result.Errors[0].Code)
	assert.Contains(t, result.Errors[0].Message, "1BAD")
}

func TestValidateSchemaNilStructure(t *testing.T) {
	result := validateSchema(nil)
	assert.True(t, result.IsValid)
	assert.Empty(t, result.findings())
}
