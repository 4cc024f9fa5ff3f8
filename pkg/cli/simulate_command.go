package cli

import (
	"fmt"
	"os"

	"github.com/actionlens/actionlens/pkg/logger"
	"github.com/actionlens/actionlens/pkg/simulation"
	"github.com/actionlens/actionlens/pkg/workflow"
	"github.com/spf13/cobra"
)

var simulateLog = logger.New("cli:simulate_command")

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate [workflow]...",
		Short: "Simulate workflow execution without running anything",
		Long: `Simulate execution of one or more workflow files: build the job dependency
graph, compute the execution order, and estimate duration and resource usage
from a fixed cost model. Nothing is executed.

Examples:
  actionlens simulate ci.yml                         # Simulate one workflow
  actionlens simulate --secrets NPM_TOKEN,API_KEY ci.yml
  actionlens simulate --json ci.yml                  # JSON output`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			jsonOutput, _ := cmd.Flags().GetBool("json")
			secretsFlag, _ := cmd.Flags().GetString("secrets")

			simulateLog.Printf("Running simulate: args=%v", args)

			files, err := resolveWorkflowFiles(args, dir)
			if err != nil {
				return err
			}

			opts := &simulation.Options{AvailableSecrets: splitSecretNames(secretsFlag)}

			results := make([]*simulation.SimulationResult, 0, len(files))
			collector := NewErrorCollector(false)
			for _, path := range files {
				content, err := os.ReadFile(path)
				if err != nil {
					if returnErr := collector.Add(fmt.Errorf("failed to read %s: %w", path, err)); returnErr != nil {
						return returnErr
					}
					continue
				}

				result := simulation.Simulate(workflow.NewDocument(path, string(content)), opts)
				results = append(results, result)

				if !jsonOutput {
					printSimulationResult(cmd.OutOrStdout(), path, result)
				}
				if !result.Success {
					if returnErr := collector.Add(fmt.Errorf("%s: simulation failed", path)); returnErr != nil {
						return returnErr
					}
				}
			}

			if jsonOutput {
				if err := printJSON(cmd.OutOrStdout(), results); err != nil {
					return err
				}
			}

			return collector.FormattedError("simulation")
		},
	}

	cmd.Flags().StringP("dir", "d", "", "Workflow directory (default: .github/workflows)")
	cmd.Flags().BoolP("json", "j", false, "Output results in JSON format")
	cmd.Flags().String("secrets", "", "Comma-separated list of secret names available to the simulated run")

	return cmd
}
