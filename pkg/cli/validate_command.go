package cli

import (
	"fmt"
	"os"

	"github.com/actionlens/actionlens/pkg/analysis"
	"github.com/actionlens/actionlens/pkg/logger"
	"github.com/actionlens/actionlens/pkg/workflow"
	"github.com/spf13/cobra"
)

var validateLog = logger.New("cli:validate_command")

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [workflow]...",
		Short: "Validate workflow files and report findings with a score",
		Long: `Validate one or more GitHub Actions workflow files. All validation passes
run over each file: syntax, schema, secret hygiene, performance, and
security. Findings are printed with their source location, followed by
recommendations and an overall 0-100 score.

If no workflows are specified, all YAML files in .github/workflows are
validated.

Examples:
  actionlens validate                        # Validate all workflows
  actionlens validate ci.yml                 # Validate a specific file
  actionlens validate --dir build/workflows  # Validate from a directory
  actionlens validate --json                 # Output results in JSON format
  actionlens validate --strict               # Treat warnings as failures
  actionlens validate --fail-fast            # Stop at the first invalid file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			jsonOutput, _ := cmd.Flags().GetBool("json")
			failFast, _ := cmd.Flags().GetBool("fail-fast")
			strict, _ := cmd.Flags().GetBool("strict")
			noLint, _ := cmd.Flags().GetBool("no-lint")
			secretsFlag, _ := cmd.Flags().GetString("secrets")

			validateLog.Printf("Running validate: args=%v, dir=%s, strict=%v", args, dir, strict)

			files, err := resolveWorkflowFiles(args, dir)
			if err != nil {
				return err
			}

			analyzer := analysis.NewWithOptions(analysis.Options{Lint: !noLint})
			ctx := &analysis.Context{ProjectSecrets: splitSecretNames(secretsFlag)}

			results := make([]*analysis.ValidationResult, 0, len(files))
			collector := NewErrorCollector(failFast)
			for _, path := range files {
				result, err := validateFile(analyzer, ctx, path)
				if err != nil {
					if returnErr := collector.Add(err); returnErr != nil {
						return returnErr
					}
					continue
				}
				results = append(results, result)

				if !jsonOutput {
					printValidationResult(cmd.OutOrStdout(), path, result)
				}

				failed := !result.IsValid() || (strict && len(result.AllFindings()) > 0)
				if failed {
					if returnErr := collector.Add(fmt.Errorf("%s: validation failed (score %d)", path, result.OverallScore)); returnErr != nil {
						return returnErr
					}
				}
			}

			if jsonOutput {
				if err := printJSON(cmd.OutOrStdout(), results); err != nil {
					return err
				}
			}

			return collector.FormattedError("validation")
		},
	}

	cmd.Flags().StringP("dir", "d", "", "Workflow directory (default: .github/workflows)")
	cmd.Flags().BoolP("json", "j", false, "Output results in JSON format")
	cmd.Flags().Bool("fail-fast", false, "Stop at the first validation error instead of collecting all errors")
	cmd.Flags().Bool("strict", false, "Fail when any finding exists, not only errors")
	cmd.Flags().Bool("no-lint", false, "Skip the actionlint pass")
	cmd.Flags().String("secrets", "", "Comma-separated list of secret names known to the project")

	return cmd
}

// validateFile loads one workflow file and runs the analyzer over it.
func validateFile(analyzer *analysis.Analyzer, ctx *analysis.Context, path string) (*analysis.ValidationResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc := workflow.NewDocument(path, string(content))
	return analyzer.ValidateWorkflow(doc, ctx), nil
}
