package workflow

import (
	"path/filepath"
	"strings"
)

// WorkflowType categorizes what a workflow is for. The type is advisory
// metadata used for reporting; it never changes analysis behavior.
type WorkflowType string

const (
	TypeCI          WorkflowType = "ci"
	TypeCD          WorkflowType = "cd"
	TypeRelease     WorkflowType = "release"
	TypeSecurity    WorkflowType = "security"
	TypePerformance WorkflowType = "performance"
	TypeMaintenance WorkflowType = "maintenance"
)

// WorkflowDocument is the unit of analysis: a single workflow file's raw
// content plus identifying metadata. Documents are owned by the caller and
// treated as immutable by every analysis pass.
type WorkflowDocument struct {
	Filename     string       `json:"filename"`
	RawContent   string       `json:"-"`
	Type         WorkflowType `json:"type"`
	RelativePath string       `json:"relative_path,omitempty"`
}

// NewDocument builds a WorkflowDocument from a file path and its content,
// inferring the workflow type from the filename.
func NewDocument(path, content string) *WorkflowDocument {
	return &WorkflowDocument{
		Filename:     filepath.Base(path),
		RawContent:   content,
		Type:         InferType(path),
		RelativePath: path,
	}
}

// typeHints maps filename substrings to workflow types, checked in order so
// the more specific hints win over the generic ones.
var typeHints = []struct {
	substr string
	wtype  WorkflowType
}{
	{"release", TypeRelease},
	{"publish", TypeRelease},
	{"deploy", TypeCD},
	{"cd", TypeCD},
	{"security", TypeSecurity},
	{"codeql", TypeSecurity},
	{"scorecard", TypeSecurity},
	{"bench", TypePerformance},
	{"perf", TypePerformance},
	{"cleanup", TypeMaintenance},
	{"stale", TypeMaintenance},
	{"maintenance", TypeMaintenance},
}

// InferType guesses the workflow type from its filename. Unrecognized names
// default to ci, the most common kind.
func InferType(path string) WorkflowType {
	base := strings.ToLower(filepath.Base(path))
	base = strings.TrimSuffix(strings.TrimSuffix(base, ".yml"), ".yaml")

	for _, hint := range typeHints {
		if hint.substr == "cd" {
			// "cd" is too short for substring matching; require a word match
			// so "codeql-cd" matches but "cached" does not.
			for _, part := range strings.FieldsFunc(base, func(r rune) bool { return r == '-' || r == '_' || r == '.' }) {
				if part == "cd" {
					return TypeCD
				}
			}
			continue
		}
		if strings.Contains(base, hint.substr) {
			return hint.wtype
		}
	}
	return TypeCI
}
