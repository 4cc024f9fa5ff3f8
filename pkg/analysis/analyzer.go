// Package analysis implements the workflow validation engine: a multi-pass
// static analyzer over parsed GitHub Actions workflow documents.
//
// # Validation architecture
//
// The engine is organized into focused, domain-specific files, one per pass:
//
//   - schema_validation.go: required keys, job/step shape, naming rules,
//     action reference format
//   - schema_json.go: JSON Schema structural type check
//   - secret_validation.go: hardcoded-secret heuristics and
//     undefined-secret cross-referencing
//   - performance_analysis.go: caching, bottlenecks, parallelization,
//     matrix efficiency, runner cost
//   - security_validation.go: permissions, dangerous triggers, script
//     injection
//   - lint.go: actionlint integration merged into the syntax pass
//   - score.go: aggregate scoring and recommendation ordering
//
// Passes have no data dependency on each other and run concurrently. Every
// failure mode of the analyzed document surfaces as a Finding in the result;
// the engine itself never returns an error and never panics across its API
// boundary. The only state an Analyzer holds is fixed configuration, so one
// instance is safe to use from multiple goroutines.
package analysis

import (
	"fmt"

	"github.com/actionlens/actionlens/pkg/logger"
	"github.com/actionlens/actionlens/pkg/workflow"
	"github.com/sourcegraph/conc"
)

var analyzerLog = logger.New("analysis:analyzer")

// Options configures an Analyzer.
type Options struct {
	// Lint merges actionlint results into the syntax pass.
	Lint bool
}

// Analyzer validates workflow documents. The zero value is not usable;
// construct with New or NewWithOptions.
type Analyzer struct {
	opts Options
}

// New creates an Analyzer with the default configuration: all built-in
// passes plus actionlint integration.
func New() *Analyzer {
	return NewWithOptions(Options{Lint: true})
}

// NewWithOptions creates an Analyzer with explicit configuration.
func NewWithOptions(opts Options) *Analyzer {
	return &Analyzer{opts: opts}
}

// ValidateWorkflow runs all validation passes over the document and
// aggregates their findings into a single scored result. It never returns
// an error and never panics: malformed input degrades to a syntax-only
// result, and any internal failure is reported as a finding.
func (a *Analyzer) ValidateWorkflow(doc *workflow.WorkflowDocument, ctx *Context) (result *ValidationResult) {
	result = &ValidationResult{}
	if doc != nil {
		result.Filename = doc.Filename
	}

	defer func() {
		if r := recover(); r != nil {
			analyzerLog.Printf("Recovered from internal analysis failure: %v", r)
			*result = ValidationResult{Filename: result.Filename}
			result.SyntaxValidation.Add(workflow.Finding{
				Code:     "analysis-error",
				Severity: workflow.SeverityError,
				Message:  fmt.Sprintf("internal analysis failure: %v", r),
				Category: workflow.CategorySyntax,
			})
			result.SyntaxValidation.Finalize()
			result.ActionValidation.Finalize()
			result.SecretValidation.Finalize()
		}
	}()

	if doc == nil {
		result.SyntaxValidation.Add(workflow.Finding{
			Code:     workflow.SyntaxErrorCode,
			Severity: workflow.SeverityError,
			Message:  "no workflow document supplied",
			Category: workflow.CategorySyntax,
		})
		result.SyntaxValidation.Finalize()
		result.ActionValidation.Finalize()
		result.SecretValidation.Finalize()
		return result
	}

	analyzerLog.Printf("Validating workflow: file=%s, type=%s", doc.Filename, doc.Type)

	structure, syntaxErr := workflow.Parse(doc.RawContent)
	if syntaxErr != nil {
		// Fatal parse failure short-circuits: no other pass can run without
		// a parsed structure, so the result degrades to syntax-only.
		result.SyntaxValidation.Add(*syntaxErr)
		result.SyntaxValidation.Finalize()
		result.ActionValidation.Finalize()
		result.SecretValidation.Finalize()
		result.OverallScore = 0
		return result
	}

	for _, f := range validateStructuralSchema(doc.RawContent) {
		result.SyntaxValidation.Add(f)
	}
	if a.opts.Lint {
		for _, f := range runActionlint(doc.Filename, doc.RawContent) {
			result.SyntaxValidation.Add(f)
		}
	}
	result.SyntaxValidation.Finalize()

	// The four content passes are independent pure functions over the same
	// structure; run them concurrently and join before aggregation.
	var wg conc.WaitGroup
	wg.Go(func() {
		result.ActionValidation = validateSchema(structure)
	})
	wg.Go(func() {
		result.SecretValidation = validateSecrets(structure, ctx)
	})
	wg.Go(func() {
		result.PerformanceAnalysis = analyzePerformance(structure, ctx)
	})
	wg.Go(func() {
		result.SecurityAnalysis = validateSecurity(structure)
	})
	wg.Wait()

	result.Recommendations = orderRecommendations(result.PerformanceAnalysis.Recommendations)
	result.QuickFixes = deriveQuickFixes(result.Recommendations)
	result.OverallScore = computeScore(result)

	analyzerLog.Printf("Validation complete: file=%s, score=%d, findings=%d",
		doc.Filename, result.OverallScore, len(result.AllFindings()))
	return result
}

// ValidateWorkflow validates a document with the default analyzer
// configuration.
func ValidateWorkflow(doc *workflow.WorkflowDocument, ctx *Context) *ValidationResult {
	return New().ValidateWorkflow(doc, ctx)
}
