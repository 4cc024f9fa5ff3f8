package workflow

import "fmt"

// Severity classifies how serious a finding is. Only error findings block a
// "valid" determination; warnings and infos do not.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Category identifies which analysis pass produced a finding.
type Category string

const (
	CategorySyntax      Category = "syntax"
	CategorySchema      Category = "schema"
	CategorySecret      Category = "secret"
	CategoryPerformance Category = "performance"
	CategorySecurity    Category = "security"
)

// Finding is the atomic output unit of every analysis pass: a single
// detected problem with a stable machine code, a severity, and a source
// location for diagnostic placement. Findings are pure data and are never
// mutated after creation.
type Finding struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	EndLine  int      `json:"end_line,omitempty"`
	Category Category `json:"category"`
}

// String renders the finding in a grep-friendly line:col format.
func (f Finding) String() string {
	return fmt.Sprintf("%d:%d %s [%s] %s", f.Line, f.Column, f.Severity, f.Code, f.Message)
}

// NewFinding creates a finding at the given position.
func NewFinding(code string, severity Severity, category Category, message string, pos Position) Finding {
	return Finding{
		Code:     code,
		Severity: severity,
		Message:  message,
		Line:     pos.Line,
		Column:   pos.Column,
		Category: category,
	}
}
