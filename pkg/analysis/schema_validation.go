// This file validates workflow structure against GitHub Actions schema
// rules: required top-level keys, per-job shape, env variable naming, and
// action reference format. Every rule is checked independently and produces
// zero or more findings; no rule can stop another from running.

package analysis

import (
	"fmt"
	"regexp"

	"github.com/actionlens/actionlens/pkg/logger"
	"github.com/actionlens/actionlens/pkg/workflow"
)

var schemaLog = logger.New("analysis:schema_validation")

var (
	// envNameRegex is the portable shell identifier rule for env var names.
	envNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

	// actionRefRegex matches owner/repo[/path]@ref action references.
	actionRefRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]*/[A-Za-z0-9._-]+(/[^@]+)?@.+$`)

	// localActionRegex matches repository-local action references, which
	// never carry an @ref.
	localActionRegex = regexp.MustCompile(`^\./`)

	// dockerRefRegex matches docker:// action references, a separate
	// namespace with its own format.
	dockerRefRegex = regexp.MustCompile(`^docker://`)
)

// validateSchema runs the schema rules over a parsed structure and returns
// the action validation pass result.
func validateSchema(structure *workflow.ParsedStructure) PassResult {
	var result PassResult
	defer result.Finalize()

	if structure == nil {
		return result
	}

	schemaLog.Printf("Validating schema: jobs=%d", len(structure.Jobs))

	if structure.NamePos == nil {
		result.Add(workflow.Finding{
			Code:     "missing-name",
			Severity: workflow.SeverityInfo,
			Message:  "Workflow has no name; the filename will be shown in the Actions UI",
			Category: workflow.CategorySchema,
		})
	}

	if structure.On == nil || len(structure.On.Events) == 0 {
		result.Add(workflow.Finding{
			Code:     "schema-validation-error",
			Severity: workflow.SeverityError,
			Message:  "Template must include trigger events (on:)",
			Category: workflow.CategorySchema,
		})
	}

	if len(structure.Jobs) == 0 {
		result.Add(workflow.Finding{
			Code:     "schema-validation-error",
			Severity: workflow.SeverityError,
			Message:  "Template must include jobs section",
			Category: workflow.CategorySchema,
		})
	}

	for _, envVar := range structure.Env {
		validateEnvName(envVar, &result)
	}

	for _, job := range structure.Jobs {
		validateJob(structure, job, &result)
	}

	return result
}

func validateJob(structure *workflow.ParsedStructure, job *workflow.JobSpec, result *PassResult) {
	if job.RunsOnPos == nil || len(job.RunsOn) == 0 {
		result.Add(workflow.NewFinding("schema-validation-error", workflow.SeverityError, workflow.CategorySchema,
			fmt.Sprintf("Job '%s' must specify a runner (runs-on:)", job.ID), job.Pos))
	}

	for _, need := range job.Needs {
		if structure.Job(need.ID) == nil {
			result.Add(workflow.NewFinding("schema-validation-error", workflow.SeverityError, workflow.CategorySchema,
				fmt.Sprintf("Job '%s' needs unknown job '%s'", job.ID, need.ID), need.Pos))
		}
	}

	for _, envVar := range job.Env {
		validateEnvName(envVar, result)
	}

	for _, step := range job.Steps {
		validateStep(job, step, result)
	}
}

func validateStep(job *workflow.JobSpec, step *workflow.StepSpec, result *PassResult) {
	switch {
	case step.Uses != "" && step.Run != "":
		result.Add(workflow.NewFinding("ambiguous-step", workflow.SeverityError, workflow.CategorySchema,
			fmt.Sprintf("Step %d of job '%s' sets both uses: and run:; a step does one or the other", step.Index+1, job.ID), step.Pos))
	case step.Uses == "" && step.Run == "":
		result.Add(workflow.NewFinding("empty-step", workflow.SeverityError, workflow.CategorySchema,
			fmt.Sprintf("Step %d of job '%s' has neither uses: nor run:", step.Index+1, job.ID), step.Pos))
	}

	if step.Uses != "" {
		validateActionReference(step, result)
	}

	for _, envVar := range step.Env {
		validateEnvName(envVar, result)
	}
}

// validateActionReference checks the owner/repo[/path]@ref format. A bare
// name with no slash and no @ is only a warning so editors can still save
// work-in-progress workflows.
func validateActionReference(step *workflow.StepSpec, result *PassResult) {
	ref := step.Uses
	pos := step.Pos
	if step.UsesPos != nil {
		pos = *step.UsesPos
	}

	if localActionRegex.MatchString(ref) || actionRefRegex.MatchString(ref) || dockerRefRegex.MatchString(ref) {
		return
	}

	result.Add(workflow.NewFinding("invalid-action-reference", workflow.SeverityWarning, workflow.CategorySchema,
		fmt.Sprintf("Action reference '%s' does not match owner/repo[/path]@ref", ref), pos))
}

func validateEnvName(envVar workflow.EnvVar, result *PassResult) {
	if envNameRegex.MatchString(envVar.Name) {
		return
	}
	result.Add(workflow.NewFinding("invalid-env-name", workflow.SeverityError, workflow.CategorySchema,
		fmt.Sprintf("Environment variable name '%s' is not a valid identifier", envVar.Name), envVar.Pos))
}
