package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/actionlens/actionlens/pkg/logger"
)

var filesLog = logger.New("cli:files")

// DefaultWorkflowDir is where workflow files live in a repository.
const DefaultWorkflowDir = ".github/workflows"

// isWorkflowFile reports whether a path looks like a workflow YAML file.
func isWorkflowFile(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".yml") || strings.HasSuffix(lower, ".yaml")
}

// resolveWorkflowFiles expands command arguments into a sorted list of
// workflow files. Arguments may be files or directories; with no arguments
// the default workflow directory is scanned.
func resolveWorkflowFiles(args []string, dir string) ([]string, error) {
	if len(args) == 0 {
		if dir == "" {
			dir = DefaultWorkflowDir
		}
		args = []string{dir}
	}

	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if !info.IsDir() {
			if !isWorkflowFile(arg) {
				return nil, fmt.Errorf("%s is not a workflow file (.yml or .yaml)", arg)
			}
			files = append(files, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot read directory %s: %w", arg, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !isWorkflowFile(entry.Name()) {
				continue
			}
			files = append(files, filepath.Join(arg, entry.Name()))
		}
	}

	sort.Strings(files)
	filesLog.Printf("Resolved %d workflow files from %d args", len(files), len(args))

	if len(files) == 0 {
		return nil, fmt.Errorf("no workflow files found")
	}
	return files, nil
}
