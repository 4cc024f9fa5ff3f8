package analysis

import (
	"testing"

	"github.com/actionlens/actionlens/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecurityDetectorsAllFire(t *testing.T) {
	structure := mustParse(t, `on: pull_request_target
permissions: write-all
jobs:
  comment:
    runs-on: ubuntu-latest
    steps:
      - run: echo "${{ github.event.pull_request.title }}"
`)
	result := validateSecurity(structure)

	codes := findingCodes(result.Vulnerabilities)
	assert.Contains(t, codes, "excessive-permissions")
	assert.Contains(t, codes, "pull-request-target")
	assert.Contains(t, codes, "script-injection")
}

func TestCheckPermissions(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		code     string
		severity workflow.Severity
	}{
		{
			name:     "write-all is an error",
			yaml:     "on: push\npermissions: write-all\njobs:\n  a:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n",
			code:     "excessive-permissions",
			severity: workflow.SeverityError,
		},
		{
			name:     "sensitive scope write is a warning",
			yaml:     "on: push\npermissions:\n  contents: write\njobs:\n  a:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n",
			code:     "excessive-permissions",
			severity: workflow.SeverityWarning,
		},
		{
			name:     "job-level write-all is an error",
			yaml:     "on: push\njobs:\n  a:\n    runs-on: ubuntu-latest\n    permissions: write-all\n    steps:\n      - run: echo hi\n",
			code:     "excessive-permissions",
			severity: workflow.SeverityError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateSecurity(mustParse(t, tt.yaml))
			require.Len(t, result.Vulnerabilities, 1)
			assert.Equal(t, tt.code, result.Vulnerabilities[0].Code)
			assert.Equal(t, tt.severity, result.Vulnerabilities[0].Severity)
		})
	}
}

func TestReadPermissionsProduceNoFindings(t *testing.T) {
	structure := mustParse(t, `on: push
permissions:
  contents: read
  issues: write
jobs:
  a:
    runs-on: ubuntu-latest
    steps:
      - run: echo hi
`)
	result := validateSecurity(structure)
	assert.Empty(t, result.Vulnerabilities, "reads and non-sensitive writes are fine")
}

func TestScriptInjection(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantHit bool
	}{
		{
			name:    "direct interpolation",
			yaml:    "on: issues\njobs:\n  a:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo \"${{ github.event.issue.title }}\"\n",
			wantHit: true,
		},
		{
			name:    "env var indirection is safe",
			yaml:    "on: issues\njobs:\n  a:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo \"$TITLE\"\n        env:\n          TITLE: ${{ github.event.issue.title }}\n",
			wantHit: false,
		},
		{
			name:    "non-event context is not flagged",
			yaml:    "on: push\njobs:\n  a:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo \"${{ github.sha }}\"\n",
			wantHit: false,
		},
		{
			name:    "interpolation inside heredoc is not executed",
			yaml:    "on: issues\njobs:\n  a:\n    runs-on: ubuntu-latest\n    steps:\n      - run: |\n          cat > payload.json << 'EOF'\n          {\"title\": \"${{ github.event.issue.title }}\"}\n          EOF\n",
			wantHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateSecurity(mustParse(t, tt.yaml))
			codes := findingCodes(result.Vulnerabilities)
			if tt.wantHit {
				assert.Contains(t, codes, "script-injection")
			} else {
				assert.NotContains(t, codes, "script-injection")
			}
		})
	}
}

func TestRemoveHeredocContent(t *testing.T) {
	script := "cat << EOF\nsecret ${{ github.event.x }}\nEOF\necho after"
	cleaned := removeHeredocContent(script)
	assert.NotContains(t, cleaned, "github.event")
	assert.Contains(t, cleaned, "echo after")
}

func TestValidateSecurityNilStructure(t *testing.T) {
	result := validateSecurity(nil)
	assert.Empty(t, result.Vulnerabilities)
}
