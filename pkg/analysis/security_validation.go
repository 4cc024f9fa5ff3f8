// This file implements the security analysis pass. Three detectors run
// independently and all of them fire on overlapping input:
//
//   - excessive-permissions: write-all or broad write grants
//   - pull-request-target: the trigger grants secrets access to untrusted
//     fork code, so it is flagged unconditionally; a static analyzer cannot
//     verify checkout safety
//   - script-injection: ${{ github.event.* }} interpolated directly into
//     run: commands instead of being passed through an env var

package analysis

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/actionlens/actionlens/pkg/logger"
	"github.com/actionlens/actionlens/pkg/workflow"
)

var securityLog = logger.New("analysis:security_validation")

// eventInterpolationRegex matches github.event context expressions used
// inline. Event payloads carry attacker-controlled text (issue titles, PR
// bodies, branch names).
var eventInterpolationRegex = regexp.MustCompile(`\$\{\{\s*github\.event\.[^}]+\}\}`)

// sensitiveScopes are permission scopes where a write grant enables
// repository takeover or artifact tampering.
var sensitiveScopes = map[string]bool{
	"contents":        true,
	"packages":        true,
	"actions":         true,
	"id-token":        true,
	"deployments":     true,
	"security-events": true,
}

// validateSecurity runs all security detectors over the structure.
func validateSecurity(structure *workflow.ParsedStructure) SecurityResult {
	var result SecurityResult
	if structure == nil {
		return result
	}

	securityLog.Printf("Validating security: jobs=%d", len(structure.Jobs))

	checkPermissions(structure.Permissions, "workflow", &result)
	for _, job := range structure.Jobs {
		checkPermissions(job.Permissions, fmt.Sprintf("job '%s'", job.ID), &result)
	}

	checkDangerousTriggers(structure.On, &result)

	for _, job := range structure.Jobs {
		for _, step := range job.Steps {
			checkScriptInjection(job, step, &result)
		}
	}

	return result
}

func checkPermissions(perms *workflow.PermissionsSpec, scope string, result *SecurityResult) {
	if perms == nil {
		return
	}

	if perms.All == "write-all" {
		result.Vulnerabilities = append(result.Vulnerabilities,
			workflow.NewFinding("excessive-permissions", workflow.SeverityError, workflow.CategorySecurity,
				fmt.Sprintf("%s grants write-all permissions; grant only the scopes the workflow needs", scope), perms.Pos))
		return
	}

	for _, s := range perms.Scopes {
		if s.Access == "write" && sensitiveScopes[s.Scope] {
			result.Vulnerabilities = append(result.Vulnerabilities,
				workflow.NewFinding("excessive-permissions", workflow.SeverityWarning, workflow.CategorySecurity,
					fmt.Sprintf("%s grants write on sensitive scope '%s'", scope, s.Scope), s.Pos))
		}
	}
}

func checkDangerousTriggers(on *workflow.TriggerSpec, result *SecurityResult) {
	if on == nil {
		return
	}
	for _, ev := range on.Events {
		if ev.Name == "pull_request_target" {
			result.Vulnerabilities = append(result.Vulnerabilities,
				workflow.NewFinding("pull-request-target", workflow.SeverityError, workflow.CategorySecurity,
					"pull_request_target runs with secrets access on untrusted fork code; prefer pull_request or isolate the privileged steps", ev.Pos))
		}
	}
}

// checkScriptInjection flags run commands that interpolate event context
// directly. Expressions assigned to env vars and referenced as "$VAR" in the
// command are the safe pattern and produce no finding. Heredoc bodies are
// stripped first: content written to files is not executed by the shell.
func checkScriptInjection(job *workflow.JobSpec, step *workflow.StepSpec, result *SecurityResult) {
	if step.Run == "" {
		return
	}

	text := removeHeredocContent(step.Run)
	matches := eventInterpolationRegex.FindAllString(text, -1)
	if len(matches) == 0 {
		return
	}

	pos := step.Pos
	if step.RunPos != nil {
		pos = *step.RunPos
	}
	result.Vulnerabilities = append(result.Vulnerabilities,
		workflow.NewFinding("script-injection", workflow.SeverityError, workflow.CategorySecurity,
			fmt.Sprintf("Step %d of job '%s' interpolates %s into a shell command; pass it through an env var instead", step.Index+1, job.ID, matches[0]), pos))
}

// heredocDelimiters are the common delimiters matched when stripping heredoc
// bodies. Go regex has no backreferences, so known delimiters are matched
// explicitly.
var heredocDelimiters = []string{"EOF", "EOL", "END", "HEREDOC", "JSON", "YAML"}

var heredocRegexes = buildHeredocRegexes()

func buildHeredocRegexes() []*regexp.Regexp {
	regexes := make([]*regexp.Regexp, 0, len(heredocDelimiters)*2)
	for _, delim := range heredocDelimiters {
		regexes = append(regexes,
			regexp.MustCompile(fmt.Sprintf(`(?ms)<<-?\s*['"]%s['"].*?\n\s*%s\s*$`, delim, delim)),
			regexp.MustCompile(fmt.Sprintf(`(?ms)<<-?\s*%s.*?\n\s*%s\s*$`, delim, delim)),
		)
	}
	return regexes
}

// removeHeredocContent strips heredoc sections from shell commands so
// expressions inside them do not count as injection sites.
func removeHeredocContent(content string) string {
	if !strings.Contains(content, "<<") {
		return content
	}
	for _, re := range heredocRegexes {
		content = re.ReplaceAllString(content, "# heredoc removed")
	}
	return content
}
