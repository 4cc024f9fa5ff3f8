package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/actionlens/actionlens/pkg/analysis"
	"github.com/actionlens/actionlens/pkg/console"
	"github.com/actionlens/actionlens/pkg/simulation"
	"github.com/actionlens/actionlens/pkg/workflow"
)

// printJSON writes any value as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printValidationResult renders one file's validation outcome for the
// terminal: findings grouped by severity, then recommendations, then the
// score line.
func printValidationResult(w io.Writer, path string, result *analysis.ValidationResult) {
	fmt.Fprintln(w, console.FormatTitle(path))

	findings := result.AllFindings()
	if len(findings) == 0 {
		fmt.Fprintln(w, console.FormatSuccessMessage("no findings"))
	}
	for _, f := range findings {
		line := fmt.Sprintf("%s:%s %s", path, findingPosition(f), f.Message)
		switch f.Severity {
		case workflow.SeverityError:
			fmt.Fprintln(w, console.FormatErrorMessage(line+" "+console.FormatDim("["+f.Code+"]")))
		case workflow.SeverityWarning:
			fmt.Fprintln(w, console.FormatWarningMessage(line+" "+console.FormatDim("["+f.Code+"]")))
		default:
			fmt.Fprintln(w, console.FormatInfoMessage(line+" "+console.FormatDim("["+f.Code+"]")))
		}
	}

	for _, rec := range result.Recommendations {
		saving := ""
		if rec.EstimatedTimeSaving > 0 {
			saving = fmt.Sprintf(" (saves ~%ds)", rec.EstimatedTimeSaving)
		}
		fmt.Fprintln(w, console.FormatInfoMessage(fmt.Sprintf("%s: %s%s", rec.Priority, rec.Title, saving)))
	}

	score := fmt.Sprintf("score %d/100", result.OverallScore)
	if result.IsValid() {
		fmt.Fprintln(w, console.FormatSuccessMessage(score))
	} else {
		fmt.Fprintln(w, console.FormatErrorMessage(score))
	}
	fmt.Fprintln(w)
}

func findingPosition(f workflow.Finding) string {
	if f.Line == 0 {
		return "-"
	}
	return strconv.Itoa(f.Line) + ":" + strconv.Itoa(f.Column)
}

// printSimulationResult renders a simulation outcome: the execution plan as
// a table, then the estimates and any potential issues.
func printSimulationResult(w io.Writer, path string, result *simulation.SimulationResult) {
	fmt.Fprintln(w, console.FormatTitle(path))

	if !result.Success {
		fmt.Fprintln(w, console.FormatErrorMessage("simulation failed"))
	}

	if len(result.ExecutionPlan) > 0 {
		rows := make([][]string, 0, len(result.ExecutionPlan))
		for i, jobID := range result.ExecutionPlan {
			rows = append(rows, []string{strconv.Itoa(i + 1), jobID})
		}
		fmt.Fprint(w, console.RenderTable(console.TableConfig{
			Headers: []string{"Order", "Job"},
			Rows:    rows,
		}))
		fmt.Fprintln(w)
	}

	if result.Success {
		fmt.Fprintln(w, console.FormatInfoMessage(fmt.Sprintf("estimated duration: %s", formatDuration(result.EstimatedDuration))))
		fmt.Fprintln(w, console.FormatInfoMessage(fmt.Sprintf("resource scores: cpu=%.1f memory=%.1f storage=%.1f",
			result.ResourceUsage.CPU, result.ResourceUsage.Memory, result.ResourceUsage.Storage)))
	}

	for _, issue := range result.PotentialIssues {
		switch issue.Severity {
		case workflow.SeverityError:
			fmt.Fprintln(w, console.FormatErrorMessage(issue.Message+" "+console.FormatDim("["+issue.Code+"]")))
		default:
			fmt.Fprintln(w, console.FormatWarningMessage(issue.Message+" "+console.FormatDim("["+issue.Code+"]")))
		}
	}
	fmt.Fprintln(w)
}

// formatDuration renders seconds as a compact human duration.
func formatDuration(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	minutes := seconds / 60
	rest := seconds % 60
	if rest == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dm%ds", minutes, rest)
}

// splitSecretNames parses a comma-separated secret name list flag.
func splitSecretNames(flag string) []string {
	if flag == "" {
		return nil
	}
	var names []string
	for _, name := range strings.Split(flag, ",") {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}
