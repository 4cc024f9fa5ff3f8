package analysis

import (
	"github.com/actionlens/actionlens/pkg/costmodel"
	"github.com/actionlens/actionlens/pkg/workflow"
)

// PassResult is the common output shape of the syntax, action, and secret
// validation passes. IsValid is true exactly when the pass produced no
// error-severity findings; warnings and infos never block validity.
type PassResult struct {
	IsValid  bool               `json:"is_valid"`
	Errors   []workflow.Finding `json:"errors"`
	Warnings []workflow.Finding `json:"warnings"`
	Infos    []workflow.Finding `json:"infos,omitempty"`
}

// Add routes a finding into the severity bucket it belongs to.
func (r *PassResult) Add(f workflow.Finding) {
	switch f.Severity {
	case workflow.SeverityError:
		r.Errors = append(r.Errors, f)
	case workflow.SeverityWarning:
		r.Warnings = append(r.Warnings, f)
	default:
		r.Infos = append(r.Infos, f)
	}
}

// Finalize computes IsValid from the collected findings.
func (r *PassResult) Finalize() {
	r.IsValid = len(r.Errors) == 0
}

// findings returns every finding of the pass regardless of severity.
func (r *PassResult) findings() []workflow.Finding {
	out := make([]workflow.Finding, 0, len(r.Errors)+len(r.Warnings)+len(r.Infos))
	out = append(out, r.Errors...)
	out = append(out, r.Warnings...)
	out = append(out, r.Infos...)
	return out
}

// StepRef points at a step within the analyzed document.
type StepRef struct {
	JobID     string `json:"job_id"`
	StepIndex int    `json:"step_index"`
}

// CachingOpportunity records a job that installs dependencies for an
// ecosystem without any matching cache configuration.
type CachingOpportunity struct {
	Framework costmodel.Ecosystem `json:"framework"`
	CacheType costmodel.CacheType `json:"cache_type"`
	JobID     string              `json:"job_id"`
	Steps     []StepRef           `json:"steps"`
}

// BottleneckKind distinguishes what made a bottleneck slow.
type BottleneckKind string

const (
	BottleneckSlowStep BottleneckKind = "slow-step"
	BottleneckMatrix   BottleneckKind = "matrix-inefficiency"
)

// Bottleneck flags a step or matrix configuration as disproportionately
// time-costly.
type Bottleneck struct {
	Kind             BottleneckKind `json:"kind"`
	JobID            string         `json:"job_id"`
	StepIndex        int            `json:"step_index,omitempty"`
	Command          string         `json:"command,omitempty"`
	EstimatedSeconds int            `json:"estimated_seconds"`
}

// ParallelizationKind distinguishes restructuring suggestions.
type ParallelizationKind string

const (
	ParallelizationParallel ParallelizationKind = "parallel"
	ParallelizationMatrix   ParallelizationKind = "matrix"
)

// ParallelizationSuggestion proposes restructuring jobs for concurrency.
type ParallelizationSuggestion struct {
	Kind                ParallelizationKind `json:"kind"`
	JobIDs              []string            `json:"job_ids"`
	EstimatedTimeSaving int                 `json:"estimated_time_saving"`
}

// CostImpact describes the billing direction of a resource change.
type CostImpact string

const (
	CostDecrease CostImpact = "decrease"
	CostIncrease CostImpact = "increase"
)

// ResourceOptimization recommends a cheaper runner for a job whose steps
// show no OS-specific need.
type ResourceOptimization struct {
	JobID             string     `json:"job_id"`
	CurrentRunner     string     `json:"current_runner"`
	RecommendedRunner string     `json:"recommended_runner"`
	CostImpact        CostImpact `json:"cost_impact"`
}

// PerformanceResult is the performance pass output: score-relevant findings
// plus the structured analyses behind them.
type PerformanceResult struct {
	Findings              []workflow.Finding          `json:"findings"`
	CachingOpportunities  []CachingOpportunity        `json:"caching_opportunities"`
	Bottlenecks           []Bottleneck                `json:"bottlenecks"`
	Parallelization       []ParallelizationSuggestion `json:"parallelization"`
	ResourceOptimizations []ResourceOptimization      `json:"resource_optimizations"`
	Recommendations       []Recommendation            `json:"recommendations"`
}

// SecurityResult is the security pass output.
type SecurityResult struct {
	Vulnerabilities []workflow.Finding `json:"vulnerabilities"`
}

// RecommendationCategory classifies what a recommendation improves.
type RecommendationCategory string

const (
	CategoryCaching         RecommendationCategory = "caching"
	CategoryParallelization RecommendationCategory = "parallelization"
	CategoryResource        RecommendationCategory = "resource"
	CategoryStrategy        RecommendationCategory = "strategy"
)

// Priority orders recommendations for presentation.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// rank maps priorities to a sortable weight, highest first.
func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// ImplementationType describes the kind of change a recommendation needs.
// step-addition and config-change are mechanical text edits and therefore
// eligible as quick fixes; job-restructure is not.
type ImplementationType string

const (
	ImplementationStepAddition   ImplementationType = "step-addition"
	ImplementationJobRestructure ImplementationType = "job-restructure"
	ImplementationConfigChange   ImplementationType = "config-change"
)

// Implementation is the typed change descriptor attached to a
// recommendation: what kind of edit, an example of it, and where to read
// more.
type Implementation struct {
	Type     ImplementationType `json:"type"`
	Strategy string             `json:"strategy,omitempty"`
	Example  string             `json:"example,omitempty"`
	DocsURL  string             `json:"docs_url,omitempty"`
}

// Recommendation is an actionable suggestion distinct from a Finding: it
// carries an estimated benefit and a mechanical implementation description.
// Recommendations are produced only by the performance and security passes
// and are never mutated after creation.
type Recommendation struct {
	ID                  string                 `json:"id"`
	Title               string                 `json:"title"`
	Description         string                 `json:"description"`
	Category            RecommendationCategory `json:"category"`
	Priority            Priority               `json:"priority"`
	EstimatedTimeSaving int                    `json:"estimated_time_saving"`
	Implementation      Implementation         `json:"implementation"`
	ApplicableSteps     []StepRef              `json:"applicable_steps,omitempty"`
}

// IsQuickFix reports whether the recommendation maps to a mechanical,
// non-destructive text edit.
func (r Recommendation) IsQuickFix() bool {
	return r.Implementation.Type == ImplementationStepAddition ||
		r.Implementation.Type == ImplementationConfigChange
}

// ValidationResult is the aggregate of all validation passes over one
// workflow document. A fresh result is created per ValidateWorkflow call and
// never mutated afterwards.
type ValidationResult struct {
	Filename            string            `json:"filename"`
	OverallScore        int               `json:"overall_score"`
	SyntaxValidation    PassResult        `json:"syntax_validation"`
	ActionValidation    PassResult        `json:"action_validation"`
	SecretValidation    PassResult        `json:"secret_validation"`
	PerformanceAnalysis PerformanceResult `json:"performance_analysis"`
	SecurityAnalysis    SecurityResult    `json:"security_analysis"`
	Recommendations     []Recommendation  `json:"recommendations"`
	QuickFixes          []Recommendation  `json:"quick_fixes"`
}

// IsValid reports whether the document produced no error-severity findings
// in any pass.
func (r *ValidationResult) IsValid() bool {
	return r.SyntaxValidation.IsValid && r.ActionValidation.IsValid &&
		r.SecretValidation.IsValid && len(r.errorVulnerabilities()) == 0
}

func (r *ValidationResult) errorVulnerabilities() []workflow.Finding {
	var out []workflow.Finding
	for _, v := range r.SecurityAnalysis.Vulnerabilities {
		if v.Severity == workflow.SeverityError {
			out = append(out, v)
		}
	}
	return out
}

// AllFindings returns every finding across all passes, in pass order.
func (r *ValidationResult) AllFindings() []workflow.Finding {
	var out []workflow.Finding
	out = append(out, r.SyntaxValidation.findings()...)
	out = append(out, r.ActionValidation.findings()...)
	out = append(out, r.SecretValidation.findings()...)
	out = append(out, r.PerformanceAnalysis.Findings...)
	out = append(out, r.SecurityAnalysis.Vulnerabilities...)
	return out
}

// Context carries what the analyzer may know about the surrounding project:
// previously detected frameworks and the names of configured secrets. Both
// are optional; a nil context is valid.
type Context struct {
	DetectedFrameworks []costmodel.Ecosystem `json:"detected_frameworks,omitempty"`
	ProjectSecrets     []string              `json:"project_secrets,omitempty"`
}

// knowsFramework reports whether the context restricts detection to a
// framework set and whether the given ecosystem is in it.
func (c *Context) knowsFramework(eco costmodel.Ecosystem) bool {
	if c == nil || len(c.DetectedFrameworks) == 0 {
		return true
	}
	for _, f := range c.DetectedFrameworks {
		if f == eco {
			return true
		}
	}
	return false
}
