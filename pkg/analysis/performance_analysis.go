// This file implements the performance analysis pass: missing dependency
// caching per ecosystem, known-slow command bottlenecks, parallelization and
// matrix restructuring proposals, matrix size checks, and runner cost
// optimization. Each detector is independent; all of them read the same
// parsed structure and the fixed tables in pkg/costmodel.

package analysis

import (
	"fmt"
	"strings"

	"github.com/actionlens/actionlens/pkg/costmodel"
	"github.com/actionlens/actionlens/pkg/logger"
	"github.com/actionlens/actionlens/pkg/workflow"
)

var perfLog = logger.New("analysis:performance")

const cachingDocsURL = "https://docs.github.com/en/actions/using-workflows/caching-dependencies-to-speed-up-workflows"
const matrixDocsURL = "https://docs.github.com/en/actions/using-jobs/using-a-matrix-for-your-jobs"
const runnersDocsURL = "https://docs.github.com/en/actions/using-github-hosted-runners/about-github-hosted-runners"

// analyzePerformance runs all performance detectors over the structure.
func analyzePerformance(structure *workflow.ParsedStructure, ctx *Context) PerformanceResult {
	var result PerformanceResult
	if structure == nil {
		return result
	}

	perfLog.Printf("Analyzing performance: jobs=%d", len(structure.Jobs))

	for _, job := range structure.Jobs {
		detectCachingOpportunities(job, ctx, &result)
		detectBottlenecks(job, &result)
		detectMatrixInefficiency(job, &result)
		detectResourceOptimization(job, &result)
		detectMatrixCandidate(job, &result)
	}
	detectParallelization(structure, &result)

	return result
}

// detectCachingOpportunities finds ecosystems with dependency-install steps
// in a job that has no matching cache configuration, and emits one caching
// recommendation per (job, ecosystem) pair.
func detectCachingOpportunities(job *workflow.JobSpec, ctx *Context, result *PerformanceResult) {
	installSteps := make(map[costmodel.Ecosystem][]StepRef)
	for _, step := range job.Steps {
		if step.Run == "" {
			continue
		}
		for _, eco := range costmodel.DetectEcosystems(step.Run) {
			if !ctx.knowsFramework(eco) {
				continue
			}
			installSteps[eco] = append(installSteps[eco], StepRef{JobID: job.ID, StepIndex: step.Index})
		}
	}

	// Iterate the fixed pattern table so output order is deterministic.
	seen := make(map[costmodel.Ecosystem]bool)
	for _, pattern := range costmodel.InstallPatterns {
		eco := pattern.Ecosystem
		steps, ok := installSteps[eco]
		if !ok || seen[eco] || jobHasCacheFor(job, eco) {
			seen[eco] = true
			continue
		}
		seen[eco] = true

		saving := costmodel.CacheSavingSeconds[eco]
		hint := costmodel.CacheHints[eco]
		result.CachingOpportunities = append(result.CachingOpportunities, CachingOpportunity{
			Framework: eco,
			CacheType: costmodel.CacheTypeFor(eco),
			JobID:     job.ID,
			Steps:     steps,
		})
		result.Recommendations = append(result.Recommendations, Recommendation{
			ID:                  fmt.Sprintf("cache-%s-%s", job.ID, eco),
			Title:               fmt.Sprintf("Cache %s dependencies in job '%s'", eco, job.ID),
			Description:         fmt.Sprintf("Job '%s' installs %s dependencies on every run. Caching them saves roughly %ds per run.", job.ID, eco, saving),
			Category:            CategoryCaching,
			Priority:            cachingPriority(saving),
			EstimatedTimeSaving: saving,
			Implementation: Implementation{
				Type:    ImplementationStepAddition,
				Example: hint.Example,
				DocsURL: cachingDocsURL,
			},
			ApplicableSteps: steps,
		})
	}
}

func cachingPriority(savingSeconds int) Priority {
	if savingSeconds >= 60 {
		return PriorityHigh
	}
	return PriorityMedium
}

// jobHasCacheFor reports whether the job already caches the given
// ecosystem, either via the generic cache action or the ecosystem's setup
// action with its built-in cache parameter.
func jobHasCacheFor(job *workflow.JobSpec, eco costmodel.Ecosystem) bool {
	hint := costmodel.CacheHints[eco]
	for _, step := range job.Steps {
		if step.Uses == "" {
			continue
		}
		uses := strings.ToLower(step.Uses)
		if strings.Contains(uses, "actions/cache") {
			return true
		}
		if hint.Action != "" && strings.Contains(uses, hint.Action) {
			for _, kv := range step.With {
				if (kv.Name == "cache" || kv.Name == "cache-from") && kv.Value != "" && kv.Value != "false" {
					return true
				}
			}
		}
	}
	return false
}

// detectBottlenecks flags run steps whose estimated duration exceeds the
// slow-step threshold, independent of caching analysis.
func detectBottlenecks(job *workflow.JobSpec, result *PerformanceResult) {
	for _, step := range job.Steps {
		if step.Run == "" {
			continue
		}
		est := costmodel.EstimateCommandSeconds(step.Run)
		if est < costmodel.SlowStepThresholdSeconds {
			continue
		}

		command := firstLine(step.Run)
		result.Bottlenecks = append(result.Bottlenecks, Bottleneck{
			Kind:             BottleneckSlowStep,
			JobID:            job.ID,
			StepIndex:        step.Index,
			Command:          command,
			EstimatedSeconds: est,
		})

		pos := step.Pos
		if step.RunPos != nil {
			pos = *step.RunPos
		}
		result.Findings = append(result.Findings, workflow.NewFinding("slow-step", workflow.SeverityWarning, workflow.CategoryPerformance,
			fmt.Sprintf("Step %d of job '%s' runs '%s', estimated at %ds", step.Index+1, job.ID, command, est), pos))
	}
}

// detectMatrixInefficiency checks matrix size and the fail-fast strategy.
func detectMatrixInefficiency(job *workflow.JobSpec, result *PerformanceResult) {
	combos := job.MatrixCombinations()
	if combos == 0 {
		return
	}

	if combos > costmodel.MaxMatrixCombinations {
		result.Bottlenecks = append(result.Bottlenecks, Bottleneck{
			Kind:             BottleneckMatrix,
			JobID:            job.ID,
			EstimatedSeconds: 0,
		})
		result.Findings = append(result.Findings, workflow.NewFinding("matrix-inefficiency", workflow.SeverityWarning, workflow.CategoryPerformance,
			fmt.Sprintf("Job '%s' expands to %d matrix combinations; consider excluding redundant ones", job.ID, combos), job.Pos))
	}

	if combos >= 2 && job.FailFast == nil {
		result.Recommendations = append(result.Recommendations, Recommendation{
			ID:          fmt.Sprintf("fail-fast-%s", job.ID),
			Title:       fmt.Sprintf("Set fail-fast for the matrix in job '%s'", job.ID),
			Description: "An explicit fail-fast setting makes matrix cancellation behavior intentional instead of implicit.",
			Category:    CategoryStrategy,
			Priority:    PriorityLow,
			Implementation: Implementation{
				Type:    ImplementationConfigChange,
				Example: "strategy:\n  fail-fast: true",
				DocsURL: matrixDocsURL,
			},
		})
	}
}

// osSpecificMarkers are command fragments that genuinely require a macOS or
// Windows runner.
var osSpecificMarkers = []string{
	"xcodebuild", "xcrun", "brew ", "pod install", "security find-identity",
	"powershell", "msbuild", ".exe", "choco ", "reg add", "wmic",
}

// detectResourceOptimization recommends ubuntu-latest for jobs on expensive
// runners whose steps show no OS-specific need.
func detectResourceOptimization(job *workflow.JobSpec, result *PerformanceResult) {
	if len(job.RunsOn) == 0 {
		return
	}
	runner := strings.ToLower(job.RunsOn[0])
	if !strings.HasPrefix(runner, "macos-") && !strings.HasPrefix(runner, "windows-") {
		return
	}

	for _, step := range job.Steps {
		lower := strings.ToLower(step.Run)
		for _, marker := range osSpecificMarkers {
			if strings.Contains(lower, marker) {
				return
			}
		}
	}

	result.ResourceOptimizations = append(result.ResourceOptimizations, ResourceOptimization{
		JobID:             job.ID,
		CurrentRunner:     job.RunsOn[0],
		RecommendedRunner: "ubuntu-latest",
		CostImpact:        CostDecrease,
	})
	result.Recommendations = append(result.Recommendations, Recommendation{
		ID:          fmt.Sprintf("runner-%s", job.ID),
		Title:       fmt.Sprintf("Run job '%s' on ubuntu-latest", job.ID),
		Description: fmt.Sprintf("Job '%s' runs on %s but its steps show no OS-specific need; Linux runners are cheaper and usually faster to schedule.", job.ID, job.RunsOn[0]),
		Category:    CategoryResource,
		Priority:    PriorityMedium,
		Implementation: Implementation{
			Type:    ImplementationConfigChange,
			Example: "runs-on: ubuntu-latest",
			DocsURL: runnersDocsURL,
		},
	})
}

// versionedSetupActions are setup actions whose version input is the usual
// matrix axis.
var versionedSetupActions = map[string]string{
	"actions/setup-node":   "node-version",
	"actions/setup-python": "python-version",
	"actions/setup-java":   "java-version",
	"actions/setup-go":     "go-version",
}

// detectMatrixCandidate proposes a matrix build for a job that pins a single
// runtime version via a setup action and has no matrix of its own.
func detectMatrixCandidate(job *workflow.JobSpec, result *PerformanceResult) {
	if len(job.Matrix) > 0 {
		return
	}

	for _, step := range job.Steps {
		if step.Uses == "" {
			continue
		}
		uses := strings.ToLower(step.Uses)
		for action, versionInput := range versionedSetupActions {
			if !strings.Contains(uses, action) {
				continue
			}
			for _, kv := range step.With {
				if kv.Name != versionInput || kv.Value == "" || strings.Contains(kv.Value, "${{") {
					continue
				}
				result.Parallelization = append(result.Parallelization, ParallelizationSuggestion{
					Kind:   ParallelizationMatrix,
					JobIDs: []string{job.ID},
				})
				result.Recommendations = append(result.Recommendations, Recommendation{
					ID:          fmt.Sprintf("matrix-%s", job.ID),
					Title:       fmt.Sprintf("Test job '%s' across multiple %s values", job.ID, versionInput),
					Description: fmt.Sprintf("Job '%s' pins %s to %s. A matrix build verifies all supported versions in parallel.", job.ID, versionInput, kv.Value),
					Category:    CategoryParallelization,
					Priority:    PriorityLow,
					Implementation: Implementation{
						Type:     ImplementationJobRestructure,
						Strategy: "matrix-build",
						Example:  fmt.Sprintf("strategy:\n  matrix:\n    %s: [%s]", versionInput, kv.Value),
						DocsURL:  matrixDocsURL,
					},
					ApplicableSteps: []StepRef{{JobID: job.ID, StepIndex: step.Index}},
				})
				return
			}
		}
	}
}

// detectParallelization groups jobs with no needs relationship and proposes
// running them as an explicit parallel group when two or more exist.
func detectParallelization(structure *workflow.ParsedStructure, result *PerformanceResult) {
	var independent []*workflow.JobSpec
	for _, job := range structure.Jobs {
		if len(job.Needs) == 0 {
			independent = append(independent, job)
		}
	}
	if len(independent) < 2 {
		return
	}

	ids := make([]string, 0, len(independent))
	total, longest := 0, 0
	for _, job := range independent {
		ids = append(ids, job.ID)
		dur := estimateJobSeconds(job)
		total += dur
		if dur > longest {
			longest = dur
		}
	}

	saving := total - longest
	result.Parallelization = append(result.Parallelization, ParallelizationSuggestion{
		Kind:                ParallelizationParallel,
		JobIDs:              ids,
		EstimatedTimeSaving: saving,
	})
	result.Recommendations = append(result.Recommendations, Recommendation{
		ID:                  "parallel-independent-jobs",
		Title:               fmt.Sprintf("%d jobs can run in parallel", len(ids)),
		Description:         fmt.Sprintf("Jobs %s have no dependency relationship and can execute concurrently.", strings.Join(ids, ", ")),
		Category:            CategoryParallelization,
		Priority:            PriorityMedium,
		EstimatedTimeSaving: saving,
		Implementation: Implementation{
			Type:    ImplementationJobRestructure,
			Example: "Keep these jobs free of needs: entries so the scheduler runs them concurrently.",
			DocsURL: "https://docs.github.com/en/actions/using-jobs/using-jobs-in-a-workflow",
		},
	})
}

// estimateJobSeconds sums the cost-model duration of a job's steps.
func estimateJobSeconds(job *workflow.JobSpec) int {
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

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
