package analysis

import (
	"strings"
	"testing"

	"github.com/actionlens/actionlens/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalWorkflow = `name: CI
on: push
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
      - uses: actions/setup-node@v4
        with:
          cache: npm
      - run: echo build
`

// mustParse is a test helper for passes that take a parsed structure.
func mustParse(t *testing.T, yaml string) *workflow.ParsedStructure {
	t.Helper()
	structure, finding := workflow.Parse(yaml)
	require.Nil(t, finding, "test workflow must parse")
	return structure
}

func newTestAnalyzer() *Analyzer {
	return NewWithOptions(Options{Lint: false})
}

func TestValidateWorkflowCleanDocument(t *testing.T) {
	doc := workflow.NewDocument("ci.yml", minimalWorkflow)
	result := newTestAnalyzer().ValidateWorkflow(doc, nil)

	assert.True(t, result.IsValid())
	assert.True(t, result.SyntaxValidation.IsValid)
	assert.True(t, result.ActionValidation.IsValid)
	assert.True(t, result.SecretValidation.IsValid)
	assert.Greater(t, result.OverallScore, 80, "a clean minimal workflow should score above 80")
	assert.Equal(t, "ci.yml", result.Filename)
}

func TestValidateWorkflowIsIdempotent(t *testing.T) {
	doc := workflow.NewDocument("ci.yml", minimalWorkflow)
	analyzer := newTestAnalyzer()

	first := analyzer.ValidateWorkflow(doc, nil)
	second := analyzer.ValidateWorkflow(doc, nil)

	assert.Equal(t, *first, *second, "validating the same document twice must yield identical results")
}

func TestValidateWorkflowParseFailureShortCircuits(t *testing.T) {
	doc := workflow.NewDocument("broken.yml", "on: [push\njobs:\n")
	result := newTestAnalyzer().ValidateWorkflow(doc, nil)

	assert.False(t, result.IsValid())
	assert.Equal(t, 0, result.OverallScore)

	require.Len(t, result.SyntaxValidation.Errors, 1)
	assert.Equal(t, workflow.SyntaxErrorCode, result.SyntaxValidation.Errors[0].Code)

	// Parse failure must not leak findings into the other passes.
	assert.True(t, result.ActionValidation.IsValid)
	assert.Empty(t, result.ActionValidation.findings())
	assert.True(t, result.SecretValidation.IsValid)
	assert.Empty(t, result.SecretValidation.findings())
	assert.Empty(t, result.PerformanceAnalysis.Findings)
	assert.Empty(t, result.SecurityAnalysis.Vulnerabilities)
	assert.Empty(t, result.Recommendations)
}

func TestValidateWorkflowNilDocument(t *testing.T) {
	result := newTestAnalyzer().ValidateWorkflow(nil, nil)

	assert.False(t, result.IsValid())
	require.Len(t, result.SyntaxValidation.Errors, 1)
	assert.Equal(t, workflow.SyntaxErrorCode, result.SyntaxValidation.Errors[0].Code)
}

func TestValidateWorkflowScoreIsMonotonic(t *testing.T) {
	clean := workflow.NewDocument("ci.yml", minimalWorkflow)

	withError := workflow.NewDocument("ci.yml", `name: CI
on: push
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
      - uses: actions/setup-node@v4
        with:
          cache: npm
      - run: echo build
      - run: echo "password=secret123"
`)

	analyzer := newTestAnalyzer()
	cleanScore := analyzer.ValidateWorkflow(clean, nil).OverallScore
	errorScore := analyzer.ValidateWorkflow(withError, nil).OverallScore

	assert.Less(t, errorScore, cleanScore, "adding an error finding must lower the score")
}

func TestValidateWorkflowAggregatesRecommendations(t *testing.T) {
	doc := workflow.NewDocument("ci.yml", `name: CI
on: push
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
      - run: npm ci
`)

	result := newTestAnalyzer().ValidateWorkflow(doc, nil)

	require.NotEmpty(t, result.Recommendations)
	assert.Equal(t, "cache-build-node", result.Recommendations[0].ID)

	// The caching recommendation is a step addition, so it is a quick fix.
	require.NotEmpty(t, result.QuickFixes)
	for _, fix := range result.QuickFixes {
		assert.True(t, fix.IsQuickFix())
	}
}

func TestStructuralSchemaRejectsWrongTypes(t *testing.T) {
	// jobs must be a mapping; a scalar is a structural error even though it
	// parses as YAML.
	findings := validateStructuralSchema("on: push\njobs: 42\n")
	require.NotEmpty(t, findings)
	for _, f := range findings {
		assert.Equal(t, "schema-structure-error", f.Code)
		assert.Equal(t, workflow.SeverityError, f.Severity)
		assert.Equal(t, workflow.CategorySyntax, f.Category)
	}
}

func TestStructuralSchemaAcceptsValidDocument(t *testing.T) {
	assert.Empty(t, validateStructuralSchema(minimalWorkflow))
}

func TestRunActionlintCleanWorkflow(t *testing.T) {
	assert.Empty(t, runActionlint("ci.yml", minimalWorkflow))
}

func TestRunActionlintReportsAsWarnings(t *testing.T) {
	// A job without runs-on is an actionlint error; it surfaces here as a
	// warning finding so linting never blocks validity on its own.
	findings := runActionlint("ci.yml", `on: push
jobs:
  build:
    steps:
      - run: echo hi
`)
	require.NotEmpty(t, findings)
	for _, f := range findings {
		assert.Equal(t, workflow.SeverityWarning, f.Severity)
		assert.Equal(t, workflow.CategorySyntax, f.Category)
		assert.True(t, strings.HasPrefix(f.Code, "actionlint/"), "code %q should carry the actionlint namespace", f.Code)
	}
}
