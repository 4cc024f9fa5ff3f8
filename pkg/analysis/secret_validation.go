// This file implements secret hygiene validation: a heuristic scan for
// hardcoded secret values in step commands and inputs, and a
// cross-reference of ${{ secrets.* }} expressions against the project's
// known secret names.
//
// The rule set is a declarative table (pattern -> finding template) so each
// rule is independently testable. hardcoded-secret is a heuristic and misses
// exotic formats; undefined-secret is only a warning because the secret may
// exist at the repository level without the local context knowing about it.

package analysis

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/actionlens/actionlens/pkg/logger"
	"github.com/actionlens/actionlens/pkg/workflow"
)

var secretLog = logger.New("analysis:secret_validation")

// secretRule pairs a hardcoded-secret regex with the identifier family it
// detects.
type secretRule struct {
	family  string
	pattern *regexp.Regexp
}

// Assignment-like patterns for common secret identifier names followed by a
// literal value. Values that are GitHub expressions are excluded by
// isExpressionValue before a finding is produced.
var hardcodedSecretRules = []secretRule{
	{"password", regexp.MustCompile(`(?i)(password|passwd|pwd)\s*[:=]\s*['"]?([^'"\s]{4,})`)},
	{"api key", regexp.MustCompile(`(?i)(api[_-]?key)\s*[:=]\s*['"]?([^'"\s]{8,})`)},
	{"token", regexp.MustCompile(`(?i)(auth[_-]?token|access[_-]?token|[a-z_-]*token)\s*[:=]\s*['"]?([^'"\s]{8,})`)},
	{"secret", regexp.MustCompile(`(?i)(secret[_-]?key|client[_-]?secret|[a-z_-]*secret)\s*[:=]\s*['"]?([^'"\s]{8,})`)},
}

// secretsRefRegex extracts the NAME of every ${{ secrets.NAME }} expression.
var secretsRefRegex = regexp.MustCompile(`\$\{\{\s*secrets\.([A-Za-z0-9_]+)\s*\}\}`)

// isExpressionValue reports whether a matched value is (part of) a GitHub
// expression rather than a literal, e.g. ${{ secrets.X }} or ${{ env.X }}.
func isExpressionValue(value string) bool {
	return strings.Contains(value, "${{")
}

// validateSecrets runs both secret checks over every step's run text and
// env/with values.
func validateSecrets(structure *workflow.ParsedStructure, ctx *Context) PassResult {
	var result PassResult
	defer result.Finalize()

	if structure == nil {
		return result
	}

	known := knownSecretSet(ctx)
	secretLog.Printf("Validating secrets: jobs=%d, known_secrets=%d", len(structure.Jobs), len(known))

	for _, job := range structure.Jobs {
		for _, step := range job.Steps {
			if step.Run != "" {
				pos := step.Pos
				if step.RunPos != nil {
					pos = *step.RunPos
				}
				checkHardcodedSecrets(step.Run, pos, &result)
				checkUndefinedSecrets(step.Run, pos, known, &result)
			}
			for _, kv := range step.Env {
				checkHardcodedValue(kv, &result)
				checkUndefinedSecrets(kv.Value, kv.Pos, known, &result)
			}
			for _, kv := range step.With {
				checkHardcodedValue(kv, &result)
				checkUndefinedSecrets(kv.Value, kv.Pos, known, &result)
			}
		}
	}

	return result
}

// checkHardcodedSecrets scans multi-line run text, attributing findings to
// the line within the block they occur on.
func checkHardcodedSecrets(text string, base workflow.Position, result *PassResult) {
	for i, line := range strings.Split(text, "\n") {
		for _, rule := range hardcodedSecretRules {
			m := rule.pattern.FindStringSubmatch(line)
			if m == nil || isExpressionValue(line) {
				continue
			}
			result.Add(workflow.Finding{
				Code:     "hardcoded-secret",
				Severity: workflow.SeverityError,
				Message:  fmt.Sprintf("Possible hardcoded %s; use ${{ secrets.* }} instead", rule.family),
				Line:     base.Line + i,
				Column:   base.Column,
				Category: workflow.CategorySecret,
			})
			break // one finding per line is enough
		}
	}
}

// checkHardcodedValue applies the hardcoded-secret rules to a single
// env/with assignment, matching on "name=value" form.
func checkHardcodedValue(kv workflow.EnvVar, result *PassResult) {
	if kv.Value == "" || isExpressionValue(kv.Value) {
		return
	}
	assignment := kv.Name + "=" + kv.Value
	for _, rule := range hardcodedSecretRules {
		if rule.pattern.MatchString(assignment) {
			result.Add(workflow.NewFinding("hardcoded-secret", workflow.SeverityError, workflow.CategorySecret,
				fmt.Sprintf("Possible hardcoded %s in '%s'; use ${{ secrets.* }} instead", rule.family, kv.Name), kv.Pos))
			return
		}
	}
}

// checkUndefinedSecrets flags secrets.NAME references not present in the
// project's known secrets. GITHUB_TOKEN is always provided by the runner.
func checkUndefinedSecrets(text string, pos workflow.Position, known map[string]bool, result *PassResult) {
	if known == nil {
		// No secret inventory supplied; nothing to cross-reference.
		return
	}
	for _, m := range secretsRefRegex.FindAllStringSubmatch(text, -1) {
		name := m[1]
		if name == "GITHUB_TOKEN" || known[name] {
			continue
		}
		result.Add(workflow.NewFinding("undefined-secret", workflow.SeverityWarning, workflow.CategorySecret,
			fmt.Sprintf("Secret '%s' is not defined in the project configuration", name), pos))
	}
}

func knownSecretSet(ctx *Context) map[string]bool {
	if ctx == nil || ctx.ProjectSecrets == nil {
		return nil
	}
	set := make(map[string]bool, len(ctx.ProjectSecrets))
	for _, name := range ctx.ProjectSecrets {
		set[name] = true
	}
	return set
}
