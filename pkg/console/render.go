// Package console provides styled terminal output helpers. Validation and
// simulation logic stays presentation-free (plain data and plain-text
// errors); this package is the single place where CLI styling happens.
package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// FormatErrorMessage styles an error line for stderr.
func FormatErrorMessage(message string) string {
	return errorStyle.Render("✗") + " " + message
}

// FormatWarningMessage styles a warning line.
func FormatWarningMessage(message string) string {
	return warningStyle.Render("⚠") + " " + message
}

// FormatInfoMessage styles an informational line.
func FormatInfoMessage(message string) string {
	return infoStyle.Render("ℹ") + " " + message
}

// FormatSuccessMessage styles a success line.
func FormatSuccessMessage(message string) string {
	return successStyle.Render("✓") + " " + message
}

// FormatTitle styles a section title.
func FormatTitle(title string) string {
	return titleStyle.Render(title)
}

// FormatDim styles secondary detail text.
func FormatDim(text string) string {
	return dimStyle.Render(text)
}

// TableConfig describes a simple aligned table.
type TableConfig struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// RenderTable renders an aligned plain-text table. Alignment is computed
// from cell widths, so output is deterministic regardless of terminal.
func RenderTable(config TableConfig) string {
	var out strings.Builder

	if config.Title != "" {
		out.WriteString(config.Title)
		out.WriteString("\n\n")
	}

	widths := make([]int, len(config.Headers))
	for i, h := range config.Headers {
		widths[i] = len(h)
	}
	for _, row := range config.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	writeRow := func(cells []string) {
		var line strings.Builder
		for i, cell := range cells {
			if i >= len(widths) {
				break
			}
			if i > 0 {
				line.WriteString("  ")
			}
			fmt.Fprintf(&line, "%-*s", widths[i], cell)
		}
		out.WriteString(strings.TrimRight(line.String(), " "))
		out.WriteString("\n")
	}

	writeRow(config.Headers)
	separators := make([]string, len(config.Headers))
	for i := range separators {
		separators[i] = strings.Repeat("-", widths[i])
	}
	writeRow(separators)
	for _, row := range config.Rows {
		writeRow(row)
	}

	return out.String()
}
