// This file integrates actionlint as an in-process lint pass. Its results
// are merged into the syntax validation findings as warnings: the built-in
// rule checks stay authoritative for validity, and actionlint widens
// coverage (expression syntax, runner labels, action inputs) without being
// able to flip a document from valid to invalid.

package analysis

import (
	"io"

	"github.com/actionlens/actionlens/pkg/logger"
	"github.com/actionlens/actionlens/pkg/workflow"
	"github.com/rhysd/actionlint"
)

var lintLog = logger.New("analysis:lint")

// runActionlint lints the raw document and converts the results into
// warning findings. Lint failures are swallowed: the built-in validators
// still apply, mirroring how optional external linters are treated
// elsewhere in this codebase.
func runActionlint(filename, raw string) []workflow.Finding {
	linter, err := actionlint.NewLinter(io.Discard, &actionlint.LinterOptions{})
	if err != nil {
		lintLog.Printf("Failed to construct actionlint linter: %v", err)
		return nil
	}

	lintErrs, err := linter.Lint(filename, []byte(raw), nil)
	if err != nil {
		lintLog.Printf("actionlint failed: %v", err)
		return nil
	}

	lintLog.Printf("actionlint reported %d findings", len(lintErrs))

	findings := make([]workflow.Finding, 0, len(lintErrs))
	for _, le := range lintErrs {
		code := "actionlint"
		if le.Kind != "" {
			code = "actionlint/" + le.Kind
		}
		findings = append(findings, workflow.Finding{
			Code:     code,
			Severity: workflow.SeverityWarning,
			Message:  le.Message,
			Line:     le.Line,
			Column:   le.Column,
			Category: workflow.CategorySyntax,
		})
	}
	return findings
}
