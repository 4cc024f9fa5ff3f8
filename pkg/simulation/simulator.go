// Package simulation implements a deterministic execution simulator for
// workflow documents: it builds the job dependency graph from needs:
// entries, computes a stable topological execution plan, and estimates
// duration and resource usage from the shared cost model, without ever
// executing anything.
//
// Simulate never raises to its caller. Any unrecoverable failure while
// walking the graph is caught at the package boundary and reported as a
// simulation-error issue with Success=false.
package simulation

import (
	"fmt"
	"regexp"

	"github.com/actionlens/actionlens/pkg/costmodel"
	"github.com/actionlens/actionlens/pkg/logger"
	"github.com/actionlens/actionlens/pkg/workflow"
)

var simLog = logger.New("simulation:simulator")

// Options configures a simulation run.
type Options struct {
	// AvailableSecrets are the secret names assumed to exist for this run.
	// References to anything else become missing-secret issues.
	AvailableSecrets []string
}

// Issue is a problem detected during simulated execution.
type Issue struct {
	Code     string            `json:"code"`
	Severity workflow.Severity `json:"severity"`
	Message  string            `json:"message"`
	JobID    string            `json:"job_id,omitempty"`
}

// ResourceUsage is the synthetic resource model: unit-less scores that
// scale with step count and recognized heavy commands, not measurements.
type ResourceUsage struct {
	CPU     float64 `json:"cpu"`
	Memory  float64 `json:"memory"`
	Storage float64 `json:"storage"`
}

// SimulationResult is the outcome of one simulated run.
type SimulationResult struct {
	Success           bool          `json:"success"`
	ExecutionPlan     []string      `json:"execution_plan"`
	EstimatedDuration int           `json:"estimated_duration"`
	ResourceUsage     ResourceUsage `json:"resource_usage"`
	PotentialIssues   []Issue       `json:"potential_issues"`
}

// secretsRefRegex extracts secrets.NAME references from any text.
var secretsRefRegex = regexp.MustCompile(`\$\{\{\s*secrets\.([A-Za-z0-9_]+)\s*\}\}`)

// Simulate runs a simulated execution of the workflow document. It never
// returns an error and never panics.
func Simulate(doc *workflow.WorkflowDocument, opts *Options) (result *SimulationResult) {
	result = &SimulationResult{ExecutionPlan: []string{}}

	defer func() {
		if r := recover(); r != nil {
			simLog.Printf("Recovered from simulation failure: %v", r)
			*result = SimulationResult{
				ExecutionPlan: []string{},
				PotentialIssues: []Issue{{
					Code:     "simulation-error",
					Severity: workflow.SeverityError,
					Message:  fmt.Sprintf("internal simulation failure: %v", r),
				}},
			}
		}
	}()

	if doc == nil {
		result.PotentialIssues = append(result.PotentialIssues, Issue{
			Code:     "simulation-error",
			Severity: workflow.SeverityError,
			Message:  "no workflow document supplied",
		})
		return result
	}

	structure, syntaxErr := workflow.Parse(doc.RawContent)
	if syntaxErr != nil {
		result.PotentialIssues = append(result.PotentialIssues, Issue{
			Code:     "simulation-error",
			Severity: workflow.SeverityError,
			Message:  fmt.Sprintf("workflow could not be parsed: %s", syntaxErr.Message),
		})
		return result
	}

	return simulateStructure(structure, opts)
}

// SimulateStructure simulates an already-parsed workflow structure.
func SimulateStructure(structure *workflow.ParsedStructure, opts *Options) (result *SimulationResult) {
	result = &SimulationResult{ExecutionPlan: []string{}}

	defer func() {
		if r := recover(); r != nil {
			simLog.Printf("Recovered from simulation failure: %v", r)
			*result = SimulationResult{
				ExecutionPlan: []string{},
				PotentialIssues: []Issue{{
					Code:     "simulation-error",
					Severity: workflow.SeverityError,
					Message:  fmt.Sprintf("internal simulation failure: %v", r),
				}},
			}
		}
	}()

	if structure == nil {
		result.PotentialIssues = append(result.PotentialIssues, Issue{
			Code:     "simulation-error",
			Severity: workflow.SeverityError,
			Message:  "no parsed structure supplied",
		})
		return result
	}

	*result = *simulateStructure(structure, opts)
	return result
}

func simulateStructure(structure *workflow.ParsedStructure, opts *Options) *SimulationResult {
	result := &SimulationResult{ExecutionPlan: []string{}}

	simLog.Printf("Simulating workflow: jobs=%d", len(structure.Jobs))

	plan, ok := executionPlan(structure)
	if !ok {
		result.PotentialIssues = append(result.PotentialIssues, Issue{
			Code:     "circular-dependency",
			Severity: workflow.SeverityError,
			Message:  "job dependency graph contains a cycle; no execution order exists",
		})
		return result
	}

	result.Success = true
	result.ExecutionPlan = plan
	result.EstimatedDuration = criticalPathSeconds(structure)
	result.ResourceUsage = estimateResources(structure)
	result.PotentialIssues = append(result.PotentialIssues, missingSecretIssues(structure, opts)...)

	simLog.Printf("Simulation complete: duration=%ds, plan=%v", result.EstimatedDuration, plan)
	return result
}

// executionPlan computes a stable topological order: on every round the
// jobs whose dependencies are all satisfied are scheduled in declaration
// order. Returns ok=false when a cycle prevents any order. Needs entries
// that reference unknown jobs are ignored here; the validator reports them.
func executionPlan(structure *workflow.ParsedStructure) ([]string, bool) {
	scheduled := make(map[string]bool, len(structure.Jobs))
	plan := make([]string, 0, len(structure.Jobs))

	for len(plan) < len(structure.Jobs) {
		progressed := false
		for _, job := range structure.Jobs {
			if scheduled[job.ID] {
				continue
			}
			ready := true
			for _, need := range job.Needs {
				dep := structure.Job(need.ID)
				if dep == nil {
					continue // unknown dependency, dropped from the graph
				}
				if !scheduled[need.ID] {
					ready = false
					break
				}
			}
			if ready {
				scheduled[job.ID] = true
				plan = append(plan, job.ID)
				progressed = true
			}
		}
		if !progressed {
			return nil, false
		}
	}
	return plan, true
}

// criticalPathSeconds computes the longest dependency chain duration.
// Independent jobs overlap in time, so the estimate is the critical path,
// not the sum of all jobs.
func criticalPathSeconds(structure *workflow.ParsedStructure) int {
	finish := make(map[string]int, len(structure.Jobs))

	var finishTime func(job *workflow.JobSpec, visiting map[string]bool) int
	finishTime = func(job *workflow.JobSpec, visiting map[string]bool) int {
		if t, ok := finish[job.ID]; ok {
			return t
		}
		if visiting[job.ID] {
			return 0 // cycle guard; callers only reach here on acyclic graphs
		}
		visiting[job.ID] = true
		start := 0
		for _, need := range job.Needs {
			dep := structure.Job(need.ID)
			if dep == nil {
				continue
			}
			if t := finishTime(dep, visiting); t > start {
				start = t
			}
		}
		delete(visiting, job.ID)
		finish[job.ID] = start + jobSeconds(job)
		return finish[job.ID]
	}

	longest := 0
	for _, job := range structure.Jobs {
		if t := finishTime(job, make(map[string]bool)); t > longest {
			longest = t
		}
	}
	return longest
}

// jobSeconds estimates one job's duration from the shared cost model.
// Matrix combinations run in parallel on separate runners, so a matrix does
// not lengthen the job.
func jobSeconds(job *workflow.JobSpec) int {
	total := 0
	for _, step := range job.Steps {
		if step.Run != "" {
			total += costmodel.EstimateCommandSeconds(step.Run)
		} else {
			total += costmodel.DefaultStepSeconds
		}
	}
	return total
}

// estimateResources computes the synthetic usage scores: cpu and memory
// scale with step count and heavy workloads, storage with checkout, cache,
// and artifact traffic. Matrix jobs multiply their contribution by the
// number of parallel combinations.
func estimateResources(structure *workflow.ParsedStructure) ResourceUsage {
	var usage ResourceUsage
	for _, job := range structure.Jobs {
		multiplier := 1
		if combos := job.MatrixCombinations(); combos > 1 {
			multiplier = combos
		}
		for _, step := range job.Steps {
			cpu := costmodel.BaseCPUPerStep
			mem := costmodel.BaseMemoryPerStep
			if step.Run != "" && costmodel.IsHeavyCommand(step.Run) {
				cpu += costmodel.HeavyCPUBonus
				mem += costmodel.HeavyMemoryBonus
			}
			usage.CPU += cpu * float64(multiplier)
			usage.Memory += mem * float64(multiplier)
			if step.Uses != "" && costmodel.IsStorageAction(step.Uses) {
				usage.Storage += costmodel.StoragePerFetch * float64(multiplier)
			}
		}
	}
	return usage
}

// missingSecretIssues scans every step's run text and env/with values for
// secrets.NAME references not present in the available set. This check is
// independent of the validator's undefined-secret: the simulator asks
// "what is available to simulate", the validator asks "what does the
// project know about". GITHUB_TOKEN is always provided by the runner.
func missingSecretIssues(structure *workflow.ParsedStructure, opts *Options) []Issue {
	available := make(map[string]bool)
	if opts != nil {
		for _, name := range opts.AvailableSecrets {
			available[name] = true
		}
	}

	var issues []Issue
	reported := make(map[string]bool)
	for _, job := range structure.Jobs {
		for _, step := range job.Steps {
			texts := []string{step.Run}
			for _, kv := range step.Env {
				texts = append(texts, kv.Value)
			}
			for _, kv := range step.With {
				texts = append(texts, kv.Value)
			}
			for _, text := range texts {
				for _, m := range secretsRefRegex.FindAllStringSubmatch(text, -1) {
					name := m[1]
					key := job.ID + "/" + name
					if name == "GITHUB_TOKEN" || available[name] || reported[key] {
						continue
					}
					reported[key] = true
					issues = append(issues, Issue{
						Code:     "missing-secret",
						Severity: workflow.SeverityWarning,
						Message:  fmt.Sprintf("secret '%s' is referenced by job '%s' but not available to the simulated run", name, job.ID),
						JobID:    job.ID,
					})
				}
			}
		}
	}
	return issues
}
